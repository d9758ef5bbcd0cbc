package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pullrefresh/internal/config"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "pullrefresh dev\n", out.String())
}

func TestSubcommandsRegistered(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"demo", "mcp", "trace", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestTraceCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"trace", "--offsets", "0,40,90,0", "--ticks", "3"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, out.String(), "spinning")
	assert.Contains(t, out.String(), "1 refresh(es)")
}

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	logPath := filepath.Join(dir, "pullrefresh.log")
	body := "refresh:\n  trigger_distance: 64\nlog:\n  file: " + logPath + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, closeLog, err := loadConfig(&globalFlags{configPath: path, logLevel: "debug"}, nil)
	require.NoError(t, err)
	defer closeLog()

	assert.Equal(t, 64.0, cfg.Refresh.TriggerDistance)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.FileExists(t, logPath)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, _, err := loadConfig(&globalFlags{configPath: filepath.Join(t.TempDir(), "nope.yaml")}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	t.Chdir(t.TempDir())
	cfg, closeLog, err := loadConfig(&globalFlags{}, nil)
	require.NoError(t, err)
	closeLog()
	assert.Equal(t, config.Default(), cfg)
}
