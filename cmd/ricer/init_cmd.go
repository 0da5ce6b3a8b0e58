package main

import (
	"github.com/spf13/cobra"

	"github.com/rice-configs/ricer/internal/log"
	"github.com/rice-configs/ricer/internal/output"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Create the configuration layout",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Create the configuration directory layout and a commented starter
configuration. Running init on an existing setup changes nothing.`,
		Example: `  ricer init
  ricer init --config-dir ~/dotfile-config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := managerFromCmd(cmd)
			if err != nil {
				return err
			}
			l := log.FromContext(cmd.Context())

			if err := mgr.Bootstrap(); err != nil {
				return err
			}
			l.Debug("initialized layout", "config", mgr.Locator().ConfigDir())

			out := output.FromContext(cmd.Context())
			out.Printf("Initialized ricer in %s\n", mgr.Locator().ConfigDir())
			return nil
		},
	}
	return cmd
}
