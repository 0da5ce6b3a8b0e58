// Package doctor diagnoses problems in a ricer setup.
//
// Checks cover three categories: the configuration document itself,
// tracked repositories (missing store directories), and hooks (scripts
// referenced by the configuration that do not exist, plus ignore files
// left behind by untracked repositories).
//
// Issues carry a FixAction naming what --fix would do; Fix applies them.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rice-configs/ricer/internal/config"
	"github.com/rice-configs/ricer/internal/log"
)

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryConfig represents problems with the configuration document.
	CategoryConfig IssueCategory = "config"
	// CategoryRepo represents problems with repository stores.
	CategoryRepo IssueCategory = "repo"
	// CategoryHook represents missing hook scripts and leftover files.
	CategoryHook IssueCategory = "hook"
)

// Fix actions.
const (
	FixCreateStore  = "create store directory"
	FixRemoveIgnore = "remove orphaned ignore file"
	FixNone         = "manual fix required"
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // repo name, command name, or path
	Description string        // human-readable description
	FixAction   string        // what --fix would do
	Category    IssueCategory // issue category
	Path        string        // filesystem path the fix operates on
}

// Run performs all checks and returns the issues found.
func Run(ctx context.Context, mgr *config.Manager) ([]Issue, error) {
	l := log.FromContext(ctx)
	var issues []Issue

	l.Println("Checking configuration...")
	entries, err := mgr.Repositories()
	if err != nil {
		issues = append(issues, Issue{
			Key:         mgr.Locator().ConfigFile(),
			Description: fmt.Sprintf("configuration does not parse: %v", err),
			FixAction:   FixNone,
			Category:    CategoryConfig,
		})
		return issues, nil
	}

	l.Println("Checking repository stores...")
	tracked := make(map[string]bool, len(entries))
	for _, e := range entries {
		tracked[e.Name] = true
		store := mgr.Locator().RepoStore(e.Name)
		if _, err := os.Stat(store); errors.Is(err, os.ErrNotExist) {
			issues = append(issues, Issue{
				Key:         e.Name,
				Description: fmt.Sprintf("store directory %s does not exist", store),
				FixAction:   FixCreateStore,
				Category:    CategoryRepo,
				Path:        store,
			})
		}
	}

	l.Println("Checking hooks...")
	hookEntries, err := mgr.Hooks()
	if err == nil {
		for _, h := range hookEntries {
			actions, err := mgr.HooksFor(h.Command)
			if err != nil {
				continue
			}
			for _, a := range actions {
				if _, err := os.Stat(a.Script); errors.Is(err, os.ErrNotExist) {
					issues = append(issues, Issue{
						Key:         h.Command,
						Description: fmt.Sprintf("hook script %s does not exist", a.Script),
						FixAction:   FixNone,
						Category:    CategoryHook,
						Path:        a.Script,
					})
				}
			}
		}
	}

	issues = append(issues, orphanedIgnores(mgr, tracked)...)
	return issues, nil
}

// orphanedIgnores finds ignore files whose repository is no longer tracked.
func orphanedIgnores(mgr *config.Manager, tracked map[string]bool) []Issue {
	dir := filepath.Dir(mgr.Locator().IgnoreFile("x"))
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var issues []Issue
	for _, f := range files {
		name, ok := strings.CutSuffix(f.Name(), ".ignore")
		if !ok || tracked[name] {
			continue
		}
		issues = append(issues, Issue{
			Key:         name,
			Description: fmt.Sprintf("ignore file for untracked repository %s", name),
			FixAction:   FixRemoveIgnore,
			Category:    CategoryHook,
			Path:        filepath.Join(dir, f.Name()),
		})
	}
	return issues
}

// Fix applies the automatic fixes and returns how many issues it resolved.
func Fix(ctx context.Context, issues []Issue) (int, error) {
	l := log.FromContext(ctx)
	fixed := 0
	for _, issue := range issues {
		switch issue.FixAction {
		case FixCreateStore:
			if err := os.MkdirAll(issue.Path, 0o755); err != nil {
				return fixed, fmt.Errorf("create %s: %w", issue.Path, err)
			}
			l.Printf("created %s\n", issue.Path)
			fixed++
		case FixRemoveIgnore:
			if err := os.Remove(issue.Path); err != nil {
				return fixed, fmt.Errorf("remove %s: %w", issue.Path, err)
			}
			l.Printf("removed %s\n", issue.Path)
			fixed++
		}
	}
	return fixed, nil
}
