// Package signal provides utilities for handling OS signals in a graceful manner.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Signals are the signals that trigger a graceful shutdown.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// RunWithContext calls action with a context that is cancelled when SIGINT
// or SIGTERM arrives, and returns action's error. A second signal falls
// through to the default handler and terminates the process.
func RunWithContext(action func(context.Context) error) error {
	return RunWithParent(context.Background(), action)
}

// RunWithParent is RunWithContext deriving from parent.
func RunWithParent(parent context.Context, action func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(parent, Signals...)
	defer stop()

	go func() {
		<-ctx.Done()
		// Restore default behaviour so a second Ctrl+C forces exit.
		stop()
	}()

	return action(ctx)
}
