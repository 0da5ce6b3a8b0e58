package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleConfig = `# ricer configuration
# edit freely, ricer keeps your comments

[repos.vim]
target = "~/.vim" # classic setup

[repos.shell]

[hooks]
bootstrap = [{ pre = "prep.sh" }, { post = "vim_plug.sh" }]
commit = [{ pre = "fmt.sh", post = "notify.sh", workdir = "~/dotfiles" }]
`

func mustParse(t *testing.T, data string) *Document {
	t.Helper()
	d, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestRoundTripUnmodified(t *testing.T) {
	d := mustParse(t, sampleConfig)
	if got := d.String(); got != sampleConfig {
		t.Errorf("round trip changed document:\ngot:\n%s\nwant:\n%s", got, sampleConfig)
	}
}

func TestRoundTripKeepsUserFormatting(t *testing.T) {
	// Idiosyncratic but valid formatting must survive untouched: uneven
	// spacing, single-space trailing comments, multi-line arrays.
	const gnarly = `title="dotfiles"   # no spaces around =

[repos.vim]
target    = "~/.vim"

[hooks]
bootstrap = [
  { pre = "prep.sh" },  # first
  { post = "vim_plug.sh" },
]
`
	d := mustParse(t, gnarly)
	if got := d.String(); got != gnarly {
		t.Errorf("round trip changed document:\ngot:\n%s\nwant:\n%s", got, gnarly)
	}

	// A mutation elsewhere must not reflow any of it either.
	if err := d.AddRepo(RepoEntry{Name: "tmux"}); err != nil {
		t.Fatalf("AddRepo: %v", err)
	}
	if got := d.String(); !strings.HasPrefix(got, gnarly) {
		t.Errorf("add reflowed untouched text:\n%s", got)
	}
}

func TestRemoveRepoKeepsPrecedingComment(t *testing.T) {
	const in = `# shared block
[repos.vim]
target = "~/.vim"

[repos.shell]
`
	d := mustParse(t, in)
	if err := d.RemoveRepo("vim"); err != nil {
		t.Fatalf("RemoveRepo: %v", err)
	}

	out := d.String()
	if !strings.Contains(out, "# shared block") {
		t.Errorf("comment above removed table lost:\n%s", out)
	}
	if strings.Contains(out, "[repos.vim]") || strings.Contains(out, "target") {
		t.Errorf("removed table contents still present:\n%s", out)
	}
	if !strings.Contains(out, "[repos.shell]") {
		t.Errorf("unrelated table lost:\n%s", out)
	}
}

func TestRemoveLastRepoTrimsCleanly(t *testing.T) {
	d := mustParse(t, "[repos.vim]\ntarget = \"~/.vim\"\n\n[repos.shell]\n")
	if err := d.RemoveRepo("shell"); err != nil {
		t.Fatalf("RemoveRepo: %v", err)
	}
	if got := d.String(); got != "[repos.vim]\ntarget = \"~/.vim\"\n" {
		t.Errorf("document after removing last table:\n%q", got)
	}
}

func TestParseReportsPosition(t *testing.T) {
	_, err := Parse([]byte("[repos.vim\ntarget = 1"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Line == 0 {
		t.Errorf("expected line information, got %v", perr)
	}
}

func TestRepoLookup(t *testing.T) {
	d := mustParse(t, sampleConfig)

	vim, ok := d.Repo("vim")
	if !ok {
		t.Fatal("repo vim not found")
	}
	if !vim.TargetSet || vim.Target != "~/.vim" {
		t.Errorf("vim target = %q (set=%v), want ~/.vim", vim.Target, vim.TargetSet)
	}

	shell, ok := d.Repo("shell")
	if !ok {
		t.Fatal("repo shell not found")
	}
	if shell.TargetSet {
		t.Errorf("shell should have no target, got %q", shell.Target)
	}

	if _, ok := d.Repo("emacs"); ok {
		t.Error("unexpected repo emacs")
	}
}

func TestAddRepoToEmptyDocument(t *testing.T) {
	d := New()
	if err := d.AddRepo(RepoEntry{Name: "vim"}); err != nil {
		t.Fatalf("AddRepo: %v", err)
	}

	reparsed := mustParse(t, d.String())
	entry, ok := reparsed.Repo("vim")
	if !ok {
		t.Fatal("repo vim not found after reparse")
	}
	if entry.Name != "vim" || entry.TargetSet {
		t.Errorf("entry = %+v, want name vim with no target", entry)
	}
}

func TestAddRepoPreservesRemainder(t *testing.T) {
	d := mustParse(t, sampleConfig)
	if err := d.AddRepo(RepoEntry{Name: "tmux", Target: "~/.config/tmux", TargetSet: true}); err != nil {
		t.Fatalf("AddRepo: %v", err)
	}

	out := d.String()
	for _, want := range []string{
		"# edit freely, ricer keeps your comments",
		`target = "~/.vim" # classic setup`,
		"[repos.tmux]",
		`target = "~/.config/tmux"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "[repos.tmux]") < strings.Index(out, "[hooks]") {
		t.Errorf("new section should be appended after existing content:\n%s", out)
	}
}

func TestAddRepoDuplicate(t *testing.T) {
	d := mustParse(t, sampleConfig)
	before := d.String()

	err := d.AddRepo(RepoEntry{Name: "vim"})
	if !errors.Is(err, ErrDuplicateRepo) {
		t.Fatalf("expected ErrDuplicateRepo, got %v", err)
	}
	if d.String() != before {
		t.Error("failed add mutated the document")
	}
}

func TestRemoveRepo(t *testing.T) {
	d := mustParse(t, sampleConfig)
	if err := d.RemoveRepo("shell"); err != nil {
		t.Fatalf("RemoveRepo: %v", err)
	}
	if _, ok := d.Repo("shell"); ok {
		t.Error("repo shell still present after removal")
	}
	if _, ok := d.Repo("vim"); !ok {
		t.Error("unrelated repo vim lost")
	}

	if err := d.RemoveRepo("shell"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRenameRepo(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{"rename works", "vim", "neovim", nil},
		{"missing source", "emacs", "doom", ErrNotFound},
		{"taken destination", "vim", "shell", ErrDuplicateRepo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustParse(t, sampleConfig)
			before := d.String()

			err := d.RenameRepo(tt.from, tt.to)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("RenameRepo = %v, want %v", err, tt.wantErr)
				}
				if d.String() != before {
					t.Error("failed rename mutated the document")
				}
				return
			}
			if err != nil {
				t.Fatalf("RenameRepo: %v", err)
			}
			if _, ok := d.Repo(tt.from); ok {
				t.Errorf("old name %q still present", tt.from)
			}
			got, ok := d.Repo(tt.to)
			if !ok {
				t.Fatalf("new name %q not found", tt.to)
			}
			if !got.TargetSet || got.Target != "~/.vim" {
				t.Errorf("rename lost target: %+v", got)
			}
		})
	}
}

func TestHookOrderAndExpansion(t *testing.T) {
	d := mustParse(t, sampleConfig)

	bootstrap, ok := d.Hook("bootstrap")
	if !ok {
		t.Fatal("hook bootstrap not found")
	}
	want := []HookAction{
		{Phase: PhasePre, Script: "prep.sh"},
		{Phase: PhasePost, Script: "vim_plug.sh"},
	}
	if len(bootstrap.Actions) != len(want) {
		t.Fatalf("actions = %+v, want %+v", bootstrap.Actions, want)
	}
	for i := range want {
		if bootstrap.Actions[i] != want[i] {
			t.Errorf("action[%d] = %+v, want %+v", i, bootstrap.Actions[i], want[i])
		}
	}

	// One element carrying both pre and post expands to two actions, pre
	// first, sharing the element's workdir.
	commit, ok := d.Hook("commit")
	if !ok {
		t.Fatal("hook commit not found")
	}
	if len(commit.Actions) != 2 {
		t.Fatalf("commit actions = %+v", commit.Actions)
	}
	if commit.Actions[0].Phase != PhasePre || commit.Actions[0].Script != "fmt.sh" {
		t.Errorf("first action = %+v", commit.Actions[0])
	}
	if commit.Actions[1].Phase != PhasePost || commit.Actions[1].Script != "notify.sh" {
		t.Errorf("second action = %+v", commit.Actions[1])
	}
	for i, a := range commit.Actions {
		if a.Workdir != "~/dotfiles" {
			t.Errorf("action[%d] workdir = %q, want ~/dotfiles", i, a.Workdir)
		}
	}

	if _, ok := d.Hook("unconfigured_cmd"); ok {
		t.Error("unexpected hook for unconfigured command")
	}
}

func TestSetHook(t *testing.T) {
	d := New()
	if err := d.SetHook(HookEntry{
		Command: "bootstrap",
		Actions: []HookAction{{Phase: PhasePost, Script: "vim_plug.sh"}},
	}); err != nil {
		t.Fatalf("SetHook: %v", err)
	}

	reparsed := mustParse(t, d.String())
	entry, ok := reparsed.Hook("bootstrap")
	if !ok {
		t.Fatal("hook bootstrap not found after reparse")
	}
	if len(entry.Actions) != 1 || entry.Actions[0].Phase != PhasePost || entry.Actions[0].Script != "vim_plug.sh" {
		t.Errorf("actions = %+v", entry.Actions)
	}

	// Replacing an existing command keeps a single entry.
	if err := d.SetHook(HookEntry{
		Command: "bootstrap",
		Actions: []HookAction{{Phase: PhasePre, Script: "prep.sh"}},
	}); err != nil {
		t.Fatalf("SetHook: %v", err)
	}
	reparsed = mustParse(t, d.String())
	entry, _ = reparsed.Hook("bootstrap")
	if len(entry.Actions) != 1 || entry.Actions[0].Script != "prep.sh" {
		t.Errorf("replacement actions = %+v", entry.Actions)
	}
}

func TestSetHookTouchesOnlyItsBinding(t *testing.T) {
	const in = `[hooks]
bootstrap = [ { pre = "prep.sh" } ]   # odd spacing, keep
commit = [{ pre = "fmt.sh" }]
`
	d := mustParse(t, in)
	err := d.SetHook(HookEntry{
		Command: "commit",
		Actions: []HookAction{{Phase: PhasePost, Script: "notify.sh"}},
	})
	if err != nil {
		t.Fatalf("SetHook: %v", err)
	}

	out := d.String()
	if !strings.Contains(out, `bootstrap = [ { pre = "prep.sh" } ]   # odd spacing, keep`) {
		t.Errorf("neighbouring binding reformatted:\n%s", out)
	}
	if !strings.Contains(out, `commit = [{ post = "notify.sh" }]`) {
		t.Errorf("binding not replaced:\n%s", out)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestWriteFileFailureLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	// Occupy the temporary path with a directory so the staging write
	// fails before the rename.
	if err := os.Mkdir(path+".tmp", 0o755); err != nil {
		t.Fatal(err)
	}

	d := mustParse(t, sampleConfig)
	if err := d.AddRepo(RepoEntry{Name: "tmux"}); err != nil {
		t.Fatal(err)
	}
	if err := d.WriteFile(path); err == nil {
		t.Fatal("expected write failure")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sampleConfig {
		t.Error("failed write modified the original file")
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	d := mustParse(t, sampleConfig)
	if err := d.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.String() != sampleConfig {
		t.Error("load after write changed document")
	}
}
