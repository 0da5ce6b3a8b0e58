//go:build integration

package main

import (
	"os"
	"strings"
	"testing"
)

// TestIgnoreWriteAndShow verifies the write/show round trip.
func TestIgnoreWriteAndShow(t *testing.T) {
	t.Parallel()
	env := testContext(t)

	add := newRepoCmd()
	add.SetContext(env.ctx)
	add.SetArgs([]string{"add", "vim"})
	if err := add.Execute(); err != nil {
		t.Fatalf("repo add failed: %v", err)
	}

	write := newIgnoreCmd()
	write.SetContext(env.ctx)
	write.SetArgs([]string{"vim", "*.swp", "tags"})
	if err := write.Execute(); err != nil {
		t.Fatalf("ignore failed: %v", err)
	}

	data, err := os.ReadFile(env.mgr.Locator().IgnoreFile("vim"))
	if err != nil {
		t.Fatalf("read ignore file: %v", err)
	}
	if string(data) != "*.swp\ntags\n" {
		t.Errorf("ignore file = %q", data)
	}

	show := newIgnoreCmd()
	show.SetContext(env.ctx)
	show.SetArgs([]string{"vim", "--show"})
	if err := show.Execute(); err != nil {
		t.Fatalf("ignore --show failed: %v", err)
	}
	if got := env.out.String(); !strings.Contains(got, "*.swp") {
		t.Errorf("show output = %q", got)
	}
}

// TestIgnoreUnknownRepo verifies the repo must be tracked first.
func TestIgnoreUnknownRepo(t *testing.T) {
	t.Parallel()
	env := testContext(t)

	cmd := newIgnoreCmd()
	cmd.SetContext(env.ctx)
	cmd.SetArgs([]string{"ghost", "*.swp"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for untracked repo")
	}
}
