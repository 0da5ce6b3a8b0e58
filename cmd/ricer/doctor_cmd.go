package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rice-configs/ricer/internal/doctor"
	"github.com/rice-configs/ricer/internal/output"
	"github.com/rice-configs/ricer/internal/ui/styles"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose problems with the setup",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Check the configuration, repository stores, and hook scripts for
problems. With --fix, missing store directories are created and
orphaned ignore files removed; other issues need manual attention.`,
		Example: `  ricer doctor
  ricer doctor --fix`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			out := output.FromContext(cmd.Context())

			issues, err := doctor.Run(cmd.Context(), mgr)
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				out.Printf("%s No issues found\n", styles.SuccessStyle.Render(styles.SymbolOK))
				return nil
			}

			out.Printf("Found %d issue(s):\n", len(issues))
			for _, issue := range issues {
				out.Printf("  %s [%s] %s (%s)\n",
					styles.ErrorStyle.Render(styles.SymbolFailed),
					issue.Category, issue.Description, issue.FixAction)
			}

			if !fix {
				out.Println("\nRun 'ricer doctor --fix' to repair what can be repaired.")
				return fmt.Errorf("%d issue(s) found", len(issues))
			}

			fixed, err := doctor.Fix(cmd.Context(), issues)
			if err != nil {
				return err
			}
			out.Printf("\nFixed %d of %d issue(s)\n", fixed, len(issues))
			if fixed < len(issues) {
				return fmt.Errorf("%d issue(s) need manual attention", len(issues)-fixed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Apply automatic fixes")
	return cmd
}
