//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rice-configs/ricer/internal/config"
	"github.com/rice-configs/ricer/internal/locate"
	"github.com/rice-configs/ricer/internal/log"
	"github.com/rice-configs/ricer/internal/output"
)

// testEnv is a command execution environment over temporary directories.
type testEnv struct {
	ctx context.Context
	mgr *config.Manager
	out *bytes.Buffer
	log *bytes.Buffer
}

// testContext builds a context with a manager over t.TempDir plus captured
// log and data output.
func testContext(t *testing.T) *testEnv {
	t.Helper()

	loc, err := locate.NewDefaultLocator(locate.Options{
		ConfigDir: filepath.Join(t.TempDir(), "cfg"),
		DataDir:   filepath.Join(t.TempDir(), "data"),
	})
	if err != nil {
		t.Fatalf("NewDefaultLocator: %v", err)
	}
	mgr := config.NewManager(loc)

	var logBuf, outBuf bytes.Buffer
	ctx := context.Background()
	ctx = log.WithLogger(ctx, log.New(&logBuf, false, false))
	ctx = output.WithPrinter(ctx, &outBuf)
	ctx = config.WithManager(ctx, mgr)

	return &testEnv{ctx: ctx, mgr: mgr, out: &outBuf, log: &logBuf}
}

// writeHookScript drops a script into the hooks directory.
func writeHookScript(t *testing.T, env *testEnv, name, body string) string {
	t.Helper()
	if err := env.mgr.Locator().EnsureExists(); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}
	path := env.mgr.Locator().ScriptPath(name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}
