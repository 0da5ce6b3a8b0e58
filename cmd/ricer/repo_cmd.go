package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rice-configs/ricer/internal/config"
	"github.com/rice-configs/ricer/internal/document"
	"github.com/rice-configs/ricer/internal/log"
	"github.com/rice-configs/ricer/internal/output"
	"github.com/rice-configs/ricer/internal/ui/prompt"
	"github.com/rice-configs/ricer/internal/ui/static"
)

func newRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repo",
		Short:   "Manage tracked dotfile repositories",
		Aliases: []string{"r"},
		GroupID: GroupRepos,
		Long: `Manage tracked dotfile repositories.

Use subcommands to list, add, rename, or remove repositories from the
configuration.`,
		Example: `  ricer repo list             # List all repos
  ricer repo add vim --target ~   # Track a repo deploying into $HOME
  ricer repo mv vim neovim        # Rename a repo
  ricer repo remove vim           # Stop tracking a repo`,
	}

	cmd.AddCommand(newRepoListCmd())
	cmd.AddCommand(newRepoAddCmd())
	cmd.AddCommand(newRepoRemoveCmd())
	cmd.AddCommand(newRepoMvCmd())
	cmd.AddCommand(newRepoShowCmd())

	return cmd
}

// repoJSON is the JSON shape of one repository listing entry.
type repoJSON struct {
	Name   string `json:"name"`
	Target string `json:"target,omitempty"`
	Store  string `json:"store"`
}

func newRepoListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List tracked repositories",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Example: `  ricer repo list
  ricer repo list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			out := output.FromContext(cmd.Context())

			entries, err := mgr.Repositories()
			if err != nil {
				return err
			}

			if jsonOutput {
				items := make([]repoJSON, 0, len(entries))
				for _, e := range entries {
					items = append(items, repoJSON{
						Name:   e.Name,
						Target: e.Target,
						Store:  mgr.Locator().RepoStore(e.Name),
					})
				}
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if len(entries) == 0 {
				out.Println("No repositories tracked. Add one with 'ricer repo add'.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, static.RepoTableRow(e, mgr.Locator().RepoStore(e.Name)))
			}
			out.Print(static.RenderTable(static.RepoTableHeaders, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newRepoAddCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Track a new repository",
		Args:  cobra.ExactArgs(1),
		Long: `Track a new dotfile repository. The optional target is the directory
the repository deploys into; without one the repository is
self-contained in its store.`,
		Example: `  ricer repo add vim --target ~
  ricer repo add scripts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			l := log.FromContext(cmd.Context())
			name := args[0]

			entry := document.RepoEntry{Name: name}
			if cmd.Flags().Changed("target") {
				entry.Target = target
				entry.TargetSet = true
			}

			if err := mgr.AddRepository(entry); err != nil {
				return err
			}
			l.Printf("Tracking %s (store: %s)\n", name, mgr.Locator().RepoStore(name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Directory the repository deploys into")
	return cmd
}

func newRepoRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove [name]",
		Short:   "Stop tracking a repository",
		Aliases: []string{"rm"},
		Args:    cobra.MaximumNArgs(1),
		Long: `Stop tracking a repository. Only the configuration entry is removed;
the repository store stays on disk.

Without a name, and when running interactively, presents a selection
of tracked repositories.`,
		Example: `  ricer repo remove vim
  ricer repo rm        # pick interactively`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			l := log.FromContext(cmd.Context())

			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				name, err = pickRepo(mgr, "Stop tracking which repository?")
				if err != nil {
					return err
				}
				if name == "" {
					return nil // cancelled
				}
			}

			if !yes {
				res, err := prompt.Confirm(fmt.Sprintf("Stop tracking %q?", name))
				if err != nil {
					return err
				}
				if !res.Confirmed || res.Cancelled {
					l.Println("Aborted.")
					return nil
				}
			}

			if err := mgr.RemoveRepository(name); err != nil {
				return repoNotFoundHint(mgr, name, err)
			}
			l.Printf("Stopped tracking %s\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newRepoMvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Rename a tracked repository",
		Args:  cobra.ExactArgs(2),
		Long: `Rename a tracked repository, keeping its target and settings.
The repository store on disk is not moved.`,
		Example: `  ricer repo mv vim neovim`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			l := log.FromContext(cmd.Context())

			if err := mgr.RenameRepository(args[0], args[1]); err != nil {
				return repoNotFoundHint(mgr, args[0], err)
			}
			l.Printf("Renamed %s to %s\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}

func newRepoShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a tracked repository",
		Args:  cobra.ExactArgs(1),
		Example: `  ricer repo show vim
  ricer repo show vim --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			out := output.FromContext(cmd.Context())
			name := args[0]

			entry, ok, err := mgr.Repository(name)
			if err != nil {
				return err
			}
			if !ok {
				return repoNotFoundHint(mgr, name, document.ErrNotFound)
			}

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(repoJSON{
					Name:   entry.Name,
					Target: entry.Target,
					Store:  mgr.Locator().RepoStore(entry.Name),
				})
			}

			out.Printf("Name:   %s\n", entry.Name)
			if entry.TargetSet && entry.Target != "" {
				out.Printf("Target: %s\n", entry.Target)
			} else {
				out.Printf("Target: (none)\n")
			}
			out.Printf("Store:  %s\n", mgr.Locator().RepoStore(entry.Name))
			out.Printf("Ignore: %s\n", mgr.Locator().IgnoreFile(entry.Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// pickRepo presents an interactive repository selection. Returns "" when
// cancelled or when not running interactively.
func pickRepo(mgr *config.Manager, title string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("repository name required when not running interactively")
	}
	entries, err := mgr.Repositories()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no repositories tracked")
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	res, err := prompt.Select(title, names)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", nil
	}
	return res.Value, nil
}

// repoNotFoundHint decorates a not-found error with a fuzzy suggestion.
// Other errors pass through unchanged.
func repoNotFoundHint(mgr *config.Manager, name string, err error) error {
	if !errors.Is(err, document.ErrNotFound) {
		return err
	}
	if suggestion := mgr.Suggest(name); suggestion != "" && suggestion != name {
		return fmt.Errorf("%w: %q (did you mean %q?)", err, name, suggestion)
	}
	return fmt.Errorf("%w: %q", err, name)
}
