package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rice-configs/ricer/internal/document"
	"github.com/rice-configs/ricer/internal/log"
	"github.com/rice-configs/ricer/internal/output"
)

func newIgnoreCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:     "ignore <repo> [pattern...]",
		Short:   "Set a repository's ignore patterns",
		GroupID: GroupRepos,
		Args:    cobra.MinimumNArgs(1),
		Long: `Replace a repository's ignore file with the given patterns, one per
line. With no patterns, reads them from stdin when piped.

The ignore file lives at ignores/<repo>.ignore in the configuration
directory and is rewritten wholesale, not merged.`,
		Example: `  ricer ignore vim '*.swp' tags
  cat patterns.txt | ricer ignore vim
  ricer ignore vim --show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			l := log.FromContext(cmd.Context())
			repo := args[0]

			if _, ok, err := mgr.Repository(repo); err != nil {
				return err
			} else if !ok {
				return repoNotFoundHint(mgr, repo, document.ErrNotFound)
			}

			if show {
				data, err := os.ReadFile(mgr.Locator().IgnoreFile(repo))
				if err != nil {
					if os.IsNotExist(err) {
						l.Printf("No ignore file for %s\n", repo)
						return nil
					}
					return err
				}
				output.FromContext(cmd.Context()).Print(string(data))
				return nil
			}

			patterns := args[1:]
			if len(patterns) == 0 {
				patterns, err = readPatternsFromStdin()
				if err != nil {
					return err
				}
			}
			if len(patterns) == 0 {
				return fmt.Errorf("no patterns given: pass them as arguments or pipe them in")
			}

			if err := mgr.WriteIgnoreFile(repo, patterns); err != nil {
				return err
			}
			l.Printf("Wrote %d pattern(s) to %s\n", len(patterns), mgr.Locator().IgnoreFile(repo))
			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the current ignore file instead of writing")
	return cmd
}

// readPatternsFromStdin reads one pattern per line from piped stdin.
// Returns nil when stdin is a terminal.
func readPatternsFromStdin() ([]string, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil, nil
	}
	var patterns []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			patterns = append(patterns, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return patterns, nil
}
