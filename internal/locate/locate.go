// Package locate resolves ricer's configuration and data directory layout.
//
// Ricer keeps its configuration under a single directory resolved from, in
// order of priority: an explicit override, the RICER_CONFIG_DIR environment
// variable, $XDG_CONFIG_HOME/ricer, and finally ~/.config/ricer. Tracked
// repository stores live under a separate data root resolved the same way
// (RICER_DATA_DIR, $XDG_DATA_HOME/ricer, ~/.local/share/ricer).
//
// The resolved layout looks like:
//
//	$XDG_CONFIG_HOME/ricer/
//	├── config.toml        main configuration document
//	├── hooks/             hook scripts, referred to by bare filename
//	└── ignores/           per-repository ignore files (<name>.ignore)
//
//	$XDG_DATA_HOME/ricer/
//	└── repos/             per-repository backing stores (<name>)
//
// Path computation never touches the filesystem; EnsureExists is the only
// operation with side effects. This keeps every dependent component testable
// against a purely virtual layout.
package locate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoHome is returned when neither an override, an XDG base directory,
// nor the user's home directory can be determined.
var ErrNoHome = errors.New("cannot determine home directory")

// Locator resolves logical configuration and data paths to absolute
// filesystem paths.
type Locator interface {
	// ConfigDir returns the configuration root.
	ConfigDir() string

	// ConfigFile returns the path to the main configuration document.
	ConfigFile() string

	// HooksDir returns the directory hook scripts are resolved against.
	HooksDir() string

	// ScriptPath returns the path of a hook script given its bare filename.
	ScriptPath(name string) string

	// IgnoreFile returns the path of a repository's ignore file.
	IgnoreFile(repo string) string

	// RepoStore returns the path of a repository's backing store.
	RepoStore(repo string) string

	// EnsureExists creates the configuration and data directories if
	// missing. It is idempotent.
	EnsureExists() error
}

// Options override the environment-driven layout resolution.
type Options struct {
	ConfigDir string // explicit configuration root, bypasses env lookup
	DataDir   string // explicit data root, bypasses env lookup
}

// DefaultLocator resolves paths following the XDG base directory convention.
// Construct one per process invocation and pass it explicitly to dependents.
type DefaultLocator struct {
	configDir string
	dataDir   string
}

var _ Locator = (*DefaultLocator)(nil)

// NewDefaultLocator resolves the directory layout from opts and the
// environment. Returns ErrNoHome if no base directory can be determined.
func NewDefaultLocator(opts Options) (*DefaultLocator, error) {
	configDir, err := resolveRoot(opts.ConfigDir, "RICER_CONFIG_DIR", "XDG_CONFIG_HOME", ".config")
	if err != nil {
		return nil, err
	}
	dataDir, err := resolveRoot(opts.DataDir, "RICER_DATA_DIR", "XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return nil, err
	}
	return &DefaultLocator{configDir: configDir, dataDir: dataDir}, nil
}

// resolveRoot picks the first available base: explicit override, tool env
// var, XDG env var, home fallback. Only the home fallback can fail.
func resolveRoot(override, envVar, xdgVar, homeRel string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}
	if dir := os.Getenv(envVar); dir != "" {
		return filepath.Clean(dir), nil
	}
	if base := os.Getenv(xdgVar); base != "" {
		return filepath.Join(base, "ricer"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHome, err)
	}
	return filepath.Join(home, homeRel, "ricer"), nil
}

func (l *DefaultLocator) ConfigDir() string { return l.configDir }

func (l *DefaultLocator) ConfigFile() string {
	return filepath.Join(l.configDir, "config.toml")
}

func (l *DefaultLocator) HooksDir() string {
	return filepath.Join(l.configDir, "hooks")
}

func (l *DefaultLocator) ScriptPath(name string) string {
	return filepath.Join(l.HooksDir(), name)
}

func (l *DefaultLocator) IgnoreFile(repo string) string {
	return filepath.Join(l.configDir, "ignores", repo+".ignore")
}

func (l *DefaultLocator) RepoStore(repo string) string {
	return filepath.Join(l.dataDir, "repos", repo)
}

// EnsureExists creates the configuration root plus the hooks, ignores, and
// repos subdirectories. Calling it on an already populated layout is a no-op.
func (l *DefaultLocator) EnsureExists() error {
	dirs := []string{
		l.configDir,
		l.HooksDir(),
		filepath.Join(l.configDir, "ignores"),
		filepath.Join(l.dataDir, "repos"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
