// Package config combines path resolution and document access into the
// atomic operations the rest of ricer works with.
//
// The Manager is the single place that decides file-existence policy: an
// absent configuration document reads as an empty one, and every mutation
// persists through the document store's atomic write. Dependents receive a
// Manager (or the narrower interfaces they need) explicitly; there is no
// ambient global state.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/rice-configs/ricer/internal/document"
	"github.com/rice-configs/ricer/internal/locate"
)

// Manager orchestrates the locator and the document store.
type Manager struct {
	loc locate.Locator
}

// NewManager creates a manager over the given directory layout.
func NewManager(loc locate.Locator) *Manager {
	return &Manager{loc: loc}
}

// Locator exposes the layout this manager operates on.
func (m *Manager) Locator() locate.Locator { return m.loc }

// load reads the configuration document, treating an absent file as an
// empty document.
func (m *Manager) load() (*document.Document, error) {
	d, err := document.Load(m.loc.ConfigFile())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document.New(), nil
		}
		return nil, err
	}
	return d, nil
}

// mutate applies fn to the current document and persists the result. The
// on-disk file is only replaced after fn succeeds.
func (m *Manager) mutate(fn func(*document.Document) error) error {
	if err := m.loc.EnsureExists(); err != nil {
		return err
	}
	d, err := m.load()
	if err != nil {
		return err
	}
	if err := fn(d); err != nil {
		return err
	}
	return d.WriteFile(m.loc.ConfigFile())
}

const defaultConfig = `# ricer configuration
#
# Tracked repositories live in [repos.<name>] tables. The optional target
# sets the repository's work tree; leave it out for a plain self-contained
# repository.
#
# [repos.vim]
# target = "~"
#
# Command hooks bind scripts from the hooks/ directory to ricer commands.
# Scripts run before (pre) or after (post) the command, in declared order.
#
# [hooks]
# bootstrap = [{ pre = "prep.sh" }, { post = "vim_plug.sh" }]
`

// Bootstrap sets up a fresh configuration tree: the directory layout plus a
// commented skeleton document. Running it on an existing tree is a no-op.
func (m *Manager) Bootstrap() error {
	if err := m.loc.EnsureExists(); err != nil {
		return err
	}
	path := m.loc.ConfigFile()
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	skeleton, err := document.Parse([]byte(defaultConfig))
	if err != nil {
		return err
	}
	return skeleton.WriteFile(path)
}

// AddRepository registers a new tracked repository. Fails with
// document.ErrDuplicateRepo when the name is taken; the on-disk document is
// left untouched in that case.
func (m *Manager) AddRepository(entry document.RepoEntry) error {
	return m.mutate(func(d *document.Document) error {
		return d.AddRepo(entry)
	})
}

// RemoveRepository unregisters a repository. Fails with document.ErrNotFound
// for unknown names.
func (m *Manager) RemoveRepository(name string) error {
	return m.mutate(func(d *document.Document) error {
		return d.RemoveRepo(name)
	})
}

// RenameRepository renames a tracked repository, preserving its settings.
func (m *Manager) RenameRepository(from, to string) error {
	return m.mutate(func(d *document.Document) error {
		return d.RenameRepo(from, to)
	})
}

// Repository looks up a tracked repository. A missing entry is reported via
// ok, not an error.
func (m *Manager) Repository(name string) (entry document.RepoEntry, ok bool, err error) {
	d, err := m.load()
	if err != nil {
		return document.RepoEntry{}, false, err
	}
	entry, ok = d.Repo(name)
	return entry, ok, nil
}

// Repositories lists all tracked repositories.
func (m *Manager) Repositories() ([]document.RepoEntry, error) {
	d, err := m.load()
	if err != nil {
		return nil, err
	}
	return d.Repos(), nil
}

// ResolvedAction is a hook action with its script resolved against the
// hooks directory. Existence of the script is not checked here; that is
// deferred to execution time.
type ResolvedAction struct {
	Phase   document.Phase
	Script  string // absolute script path
	Workdir string // optional, unexpanded
}

// HooksFor returns the configured hook actions for a command, in declared
// order. An unconfigured command yields an empty list, not an error.
func (m *Manager) HooksFor(command string) ([]ResolvedAction, error) {
	d, err := m.load()
	if err != nil {
		return nil, err
	}
	entry, ok := d.Hook(command)
	if !ok {
		return nil, nil
	}
	actions := make([]ResolvedAction, 0, len(entry.Actions))
	for _, a := range entry.Actions {
		actions = append(actions, ResolvedAction{
			Phase:   a.Phase,
			Script:  m.loc.ScriptPath(a.Script),
			Workdir: a.Workdir,
		})
	}
	return actions, nil
}

// SetHook creates or replaces the hook actions bound to a command.
func (m *Manager) SetHook(entry document.HookEntry) error {
	return m.mutate(func(d *document.Document) error {
		return d.SetHook(entry)
	})
}

// Hooks lists all configured hook entries in document order.
func (m *Manager) Hooks() ([]document.HookEntry, error) {
	d, err := m.load()
	if err != nil {
		return nil, err
	}
	return d.Hooks(), nil
}

// WriteIgnoreFile replaces a repository's ignore file with the given
// patterns, one per line. Overwrite semantics: previous contents are not
// merged.
func (m *Manager) WriteIgnoreFile(repo string, patterns []string) error {
	if err := m.loc.EnsureExists(); err != nil {
		return err
	}
	path := m.loc.IgnoreFile(repo)

	var b strings.Builder
	for _, p := range patterns {
		b.WriteString(p)
		b.WriteByte('\n')
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Suggest returns the closest registered repository name to the given one,
// for "did you mean" messages. Empty when nothing matches.
func (m *Manager) Suggest(name string) string {
	entries, err := m.Repositories()
	if err != nil {
		return ""
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return ""
	}
	return names[matches[0].Index]
}
