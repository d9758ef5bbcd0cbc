package signal

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"
)

func TestRunWithContextReturnsActionError(t *testing.T) {
	want := errors.New("boom")
	err := RunWithContext(func(ctx context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("RunWithContext() = %v, want %v", err, want)
	}
}

func TestRunWithParentCancelledByParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunWithParent(parent, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunWithParent() = %v, want context.Canceled", err)
	}
}

func TestRunWithContextCancelledBySignal(t *testing.T) {
	err := RunWithContext(func(ctx context.Context) error {
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(2 * time.Second):
			return errors.New("context not cancelled by SIGTERM")
		}
	})
	if err != nil {
		t.Fatal(err)
	}
}
