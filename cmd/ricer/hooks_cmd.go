package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rice-configs/ricer/internal/config"
	"github.com/rice-configs/ricer/internal/document"
	"github.com/rice-configs/ricer/internal/hooks"
	"github.com/rice-configs/ricer/internal/log"
	"github.com/rice-configs/ricer/internal/output"
	"github.com/rice-configs/ricer/internal/ui/pager"
	"github.com/rice-configs/ricer/internal/ui/prompt"
	"github.com/rice-configs/ricer/internal/ui/static"
	"github.com/rice-configs/ricer/internal/ui/styles"
)

func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hooks",
		Short:   "Inspect and run command hooks",
		GroupID: GroupHooks,
		Long: `Inspect and run the hook scripts bound to ricer commands.

Hooks are declared in the [hooks] table and refer to scripts in the
hooks/ directory by filename.`,
		Example: `  ricer hooks list
  ricer hooks run bootstrap --phase post`,
	}

	cmd.AddCommand(newHooksListCmd())
	cmd.AddCommand(newHooksRunCmd())
	cmd.AddCommand(newHooksSetCmd())
	return cmd
}

func newHooksSetCmd() *cobra.Command {
	var (
		pre     []string
		post    []string
		workdir string
	)

	cmd := &cobra.Command{
		Use:   "set <command>",
		Short: "Bind hook scripts to a command",
		Args:  cobra.ExactArgs(1),
		Long: `Bind hook scripts to a command, replacing any existing binding.
Scripts are given by filename and resolved against the hooks/
directory when they run. Pre scripts run before post scripts, each
group in the order given.`,
		Example: `  ricer hooks set bootstrap --pre prep.sh --post vim_plug.sh
  ricer hooks set commit --pre fmt.sh --workdir ~/dotfiles`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			if len(pre) == 0 && len(post) == 0 {
				return fmt.Errorf("at least one --pre or --post script required")
			}

			entry := document.HookEntry{Command: args[0]}
			for _, script := range pre {
				entry.Actions = append(entry.Actions, document.HookAction{
					Phase: document.PhasePre, Script: script, Workdir: workdir,
				})
			}
			for _, script := range post {
				entry.Actions = append(entry.Actions, document.HookAction{
					Phase: document.PhasePost, Script: script, Workdir: workdir,
				})
			}
			if err := mgr.SetHook(entry); err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Bound %d script(s) to %s\n", len(entry.Actions), args[0])
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&pre, "pre", nil, "Script to run before the command (repeatable)")
	cmd.Flags().StringSliceVar(&post, "post", nil, "Script to run after the command (repeatable)")
	cmd.Flags().StringVar(&workdir, "workdir", "", "Working directory for the scripts")
	return cmd
}

func newHooksListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List configured hooks",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			out := output.FromContext(cmd.Context())

			commands, err := hookCommands(mgr)
			if err != nil {
				return err
			}
			if len(commands) == 0 {
				out.Println("No hooks configured.")
				return nil
			}

			var rows [][]string
			for _, command := range commands {
				actions, err := mgr.HooksFor(command)
				if err != nil {
					return err
				}
				rows = append(rows, static.HookTableRows(command, actions)...)
			}
			out.Print(static.RenderTable(static.HookTableHeaders, rows))
			return nil
		},
	}
	return cmd
}

func newHooksRunCmd() *cobra.Command {
	var (
		phase    string
		approval string
		strict   bool
		failFast bool
	)

	cmd := &cobra.Command{
		Use:   "run [command]",
		Short: "Run the hooks bound to a command",
		Args:  cobra.MaximumNArgs(1),
		Long: `Run the hook scripts bound to a command, in declared order.

By default every script is shown for review and confirmed before it
runs. Use --run always for unattended execution or --run never for a
dry pass that reports what would run.

Without a command argument, and when running interactively, presents a
selection of configured hook commands.`,
		Example: `  ricer hooks run bootstrap
  ricer hooks run bootstrap --phase post --run always
  ricer hooks run commit --run never`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			out := output.FromContext(cmd.Context())

			app, err := hooks.ParseApproval(approval)
			if err != nil {
				return err
			}

			var command string
			if len(args) == 1 {
				command = args[0]
			} else {
				command, err = pickHookCommand(mgr)
				if err != nil {
					return err
				}
				if command == "" {
					return nil // cancelled
				}
			}

			runner := hooks.NewRunner(mgr, pager.New(), confirmerAdapter{}, hooks.Options{
				Approval:      app,
				StrictMissing: strict,
				FailFast:      failFast,
			})

			phases := []document.Phase{document.PhasePre, document.PhasePost}
			if phase != "" {
				p, err := parsePhase(phase)
				if err != nil {
					return err
				}
				phases = []document.Phase{p}
			}

			var failed bool
			for _, p := range phases {
				report, err := runner.Run(cmd.Context(), command, p)
				printReport(out, report)
				if err != nil {
					return err
				}
				failed = failed || report.Failed()
			}
			if failed {
				return fmt.Errorf("one or more hooks failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Only run one phase: pre or post")
	cmd.Flags().StringVar(&approval, "run", string(hooks.ApprovalPrompt), "Hook approval: always, never, or prompt")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a configured script is missing")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failing script")
	return cmd
}

func parsePhase(s string) (document.Phase, error) {
	switch document.Phase(s) {
	case document.PhasePre, document.PhasePost:
		return document.Phase(s), nil
	}
	return "", fmt.Errorf("invalid phase %q: expected pre or post", s)
}

// hookCommands returns the commands with configured hooks, in document order.
func hookCommands(mgr *config.Manager) ([]string, error) {
	entries, err := mgr.Hooks()
	if err != nil {
		return nil, err
	}
	commands := make([]string, len(entries))
	for i, e := range entries {
		commands[i] = e.Command
	}
	return commands, nil
}

// pickHookCommand presents an interactive selection of hook commands.
func pickHookCommand(mgr *config.Manager) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("hook command required when not running interactively")
	}
	commands, err := hookCommands(mgr)
	if err != nil {
		return "", err
	}
	if len(commands) == 0 {
		return "", fmt.Errorf("no hooks configured")
	}
	res, err := prompt.Select("Run hooks for which command?", commands)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", nil
	}
	return res.Value, nil
}

// printReport writes one line per hook action outcome.
func printReport(out *output.Printer, report hooks.Report) {
	for _, res := range report.Results {
		name := filepath.Base(res.Script)
		switch res.Outcome {
		case hooks.OutcomeExecuted:
			out.Printf("%s %s (%s)\n", styles.SuccessStyle.Render(styles.SymbolOK), name, res.Phase)
		case hooks.OutcomeSkipped:
			out.Printf("%s %s (%s) skipped\n", styles.MutedStyle.Render(styles.SymbolSkipped), name, res.Phase)
		case hooks.OutcomeNotFound:
			out.Printf("%s %s (%s) missing\n", styles.MutedStyle.Render(styles.SymbolMissing), name, res.Phase)
		case hooks.OutcomeFailed:
			out.Printf("%s %s (%s) exit %d\n", styles.ErrorStyle.Render(styles.SymbolFailed), name, res.Phase, res.ExitCode)
		}
	}
}

// confirmerAdapter bridges the interactive confirm prompt to the hook
// runner. A cancelled prompt counts as a decline.
type confirmerAdapter struct{}

func (confirmerAdapter) Confirm(question string) (bool, error) {
	res, err := prompt.Confirm(question)
	if err != nil {
		return false, err
	}
	return res.Confirmed && !res.Cancelled, nil
}
