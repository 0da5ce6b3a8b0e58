package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rice-configs/ricer/internal/document"
	"github.com/rice-configs/ricer/internal/locate"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	loc, err := locate.NewDefaultLocator(locate.Options{
		ConfigDir: filepath.Join(t.TempDir(), "cfg"),
		DataDir:   filepath.Join(t.TempDir(), "data"),
	})
	if err != nil {
		t.Fatalf("NewDefaultLocator: %v", err)
	}
	return NewManager(loc)
}

func writeConfig(t *testing.T, m *Manager, contents string) {
	t.Helper()
	if err := m.Locator().EnsureExists(); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}
	if err := os.WriteFile(m.Locator().ConfigFile(), []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func readConfig(t *testing.T, m *Manager) string {
	t.Helper()
	data, err := os.ReadFile(m.Locator().ConfigFile())
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	return string(data)
}

func TestBootstrapCreatesSkeleton(t *testing.T) {
	m := testManager(t)

	if err := m.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	for _, dir := range []string{
		m.Locator().ConfigDir(),
		m.Locator().HooksDir(),
	} {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			t.Errorf("expected directory %s, err=%v", dir, err)
		}
	}
	if !strings.Contains(readConfig(t, m), "[repos.vim]") {
		t.Error("skeleton should document the repos table")
	}

	repos, err := m.Repositories()
	if err != nil {
		t.Fatalf("Repositories: %v", err)
	}
	if len(repos) != 0 {
		t.Errorf("skeleton must not register repositories, got %v", repos)
	}
}

func TestBootstrapKeepsExistingConfig(t *testing.T) {
	m := testManager(t)
	writeConfig(t, m, "[repos.vim]\n")

	if err := m.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if got := readConfig(t, m); got != "[repos.vim]\n" {
		t.Errorf("Bootstrap overwrote existing config:\n%s", got)
	}
}

func TestAddRepositoryWithoutConfigFile(t *testing.T) {
	m := testManager(t)

	err := m.AddRepository(document.RepoEntry{Name: "vim", Target: "~", TargetSet: true})
	if err != nil {
		t.Fatalf("AddRepository: %v", err)
	}

	entry, ok, err := m.Repository("vim")
	if err != nil || !ok {
		t.Fatalf("Repository: ok=%v err=%v", ok, err)
	}
	if entry.Target != "~" {
		t.Errorf("target = %q, want %q", entry.Target, "~")
	}
}

func TestAddDuplicateLeavesFileUntouched(t *testing.T) {
	m := testManager(t)
	const before = "# mine\n[repos.vim]\ntarget = \"~/.vim\"\n"
	writeConfig(t, m, before)

	err := m.AddRepository(document.RepoEntry{Name: "vim"})
	if !errors.Is(err, document.ErrDuplicateRepo) {
		t.Fatalf("err = %v, want ErrDuplicateRepo", err)
	}
	if got := readConfig(t, m); got != before {
		t.Errorf("failed add modified the file:\n%s", got)
	}
}

func TestRemoveRepositoryPreservesRemainder(t *testing.T) {
	m := testManager(t)
	writeConfig(t, m, "# keep me\n[repos.vim]\n\n[repos.shell]\ntarget = \"~\"\n")

	if err := m.RemoveRepository("vim"); err != nil {
		t.Fatalf("RemoveRepository: %v", err)
	}

	got := readConfig(t, m)
	if !strings.Contains(got, "# keep me") {
		t.Errorf("comment lost:\n%s", got)
	}
	if strings.Contains(got, "[repos.vim]") {
		t.Errorf("removed repo still present:\n%s", got)
	}
	if !strings.Contains(got, "[repos.shell]") {
		t.Errorf("unrelated repo lost:\n%s", got)
	}
}

func TestRenameRepository(t *testing.T) {
	m := testManager(t)
	writeConfig(t, m, "[repos.vim]\ntarget = \"~/.vim\"\n")

	if err := m.RenameRepository("vim", "neovim"); err != nil {
		t.Fatalf("RenameRepository: %v", err)
	}

	if _, ok, _ := m.Repository("vim"); ok {
		t.Error("old name still registered")
	}
	entry, ok, err := m.Repository("neovim")
	if err != nil || !ok {
		t.Fatalf("Repository(neovim): ok=%v err=%v", ok, err)
	}
	if entry.Target != "~/.vim" {
		t.Errorf("target = %q, want %q", entry.Target, "~/.vim")
	}

	if err := m.RenameRepository("ghost", "any"); !errors.Is(err, document.ErrNotFound) {
		t.Errorf("rename of unknown repo: err = %v, want ErrNotFound", err)
	}
}

func TestHooksForResolvesScripts(t *testing.T) {
	m := testManager(t)
	writeConfig(t, m, `[hooks]
bootstrap = [{ pre = "prep.sh" }, { post = "vim_plug.sh", workdir = "~/dotfiles" }]
`)

	actions, err := m.HooksFor("bootstrap")
	if err != nil {
		t.Fatalf("HooksFor: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(actions))
	}
	want := m.Locator().ScriptPath("vim_plug.sh")
	if actions[1].Script != want {
		t.Errorf("script = %q, want %q", actions[1].Script, want)
	}
	if actions[0].Phase != document.PhasePre || actions[1].Phase != document.PhasePost {
		t.Errorf("phases = %v/%v", actions[0].Phase, actions[1].Phase)
	}
	if actions[1].Workdir != "~/dotfiles" {
		t.Errorf("workdir = %q", actions[1].Workdir)
	}
}

func TestHooksForUnconfiguredCommand(t *testing.T) {
	m := testManager(t)

	actions, err := m.HooksFor("commit")
	if err != nil {
		t.Fatalf("HooksFor: %v", err)
	}
	if len(actions) != 0 {
		t.Errorf("got %v, want no actions", actions)
	}
}

func TestWriteIgnoreFile(t *testing.T) {
	m := testManager(t)

	if err := m.WriteIgnoreFile("vim", []string{"*.swp", "tags"}); err != nil {
		t.Fatalf("WriteIgnoreFile: %v", err)
	}
	data, err := os.ReadFile(m.Locator().IgnoreFile("vim"))
	if err != nil {
		t.Fatalf("read ignore file: %v", err)
	}
	if string(data) != "*.swp\ntags\n" {
		t.Errorf("contents = %q", data)
	}

	// Overwrite, not merge.
	if err := m.WriteIgnoreFile("vim", []string{"plugged/"}); err != nil {
		t.Fatalf("WriteIgnoreFile: %v", err)
	}
	data, _ = os.ReadFile(m.Locator().IgnoreFile("vim"))
	if string(data) != "plugged/\n" {
		t.Errorf("contents after overwrite = %q", data)
	}
}

func TestSuggest(t *testing.T) {
	m := testManager(t)
	writeConfig(t, m, "[repos.vim]\n\n[repos.shell]\n")

	if got := m.Suggest("vi"); got != "vim" {
		t.Errorf("Suggest(vi) = %q, want vim", got)
	}
	if got := m.Suggest("xyzzy"); got != "" {
		t.Errorf("Suggest(xyzzy) = %q, want empty", got)
	}
}

// fakeLocator is a purely virtual layout: only the config file maps to a
// real path; everything else is computed without touching the filesystem.
type fakeLocator struct {
	configFile string
}

func (f *fakeLocator) ConfigDir() string             { return "/virtual" }
func (f *fakeLocator) ConfigFile() string            { return f.configFile }
func (f *fakeLocator) HooksDir() string              { return "/virtual/hooks" }
func (f *fakeLocator) ScriptPath(name string) string { return "/virtual/hooks/" + name }
func (f *fakeLocator) IgnoreFile(repo string) string { return "/virtual/ignores/" + repo + ".ignore" }
func (f *fakeLocator) RepoStore(repo string) string  { return "/virtual/repos/" + repo }
func (f *fakeLocator) EnsureExists() error           { return nil }

func TestHooksForWithVirtualLayout(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgFile, []byte("[hooks]\nbootstrap = [{ post = \"vim_plug.sh\" }]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManager(&fakeLocator{configFile: cfgFile})

	actions, err := m.HooksFor("bootstrap")
	if err != nil {
		t.Fatalf("HooksFor: %v", err)
	}
	if len(actions) != 1 || actions[0].Script != "/virtual/hooks/vim_plug.sh" {
		t.Errorf("actions = %+v", actions)
	}
	if actions[0].Phase != document.PhasePost {
		t.Errorf("phase = %v, want post", actions[0].Phase)
	}
}
