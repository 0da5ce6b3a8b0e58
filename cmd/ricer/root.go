package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rice-configs/ricer/internal/config"
	"github.com/rice-configs/ricer/internal/locate"
	"github.com/rice-configs/ricer/internal/log"
	"github.com/rice-configs/ricer/internal/output"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	configDir string
	dataDir   string
)

// Command group IDs for organizing help output
const (
	GroupRepos  = "repos"
	GroupHooks  = "hooks"
	GroupConfig = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ricer",
	Short: "Dotfile manager with per-repository targets and command hooks",
	Long: `ricer tracks your dotfile repositories through a single TOML document
and runs the hook scripts you bind to its commands.

Repositories live under a data directory and deploy into their target
(usually your home directory). The configuration file keeps your
comments and formatting across every edit ricer makes.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		loc, err := locate.NewDefaultLocator(locate.Options{
			ConfigDir: configDir,
			DataDir:   dataDir,
		})
		if err != nil {
			return err
		}
		cmd.SetContext(config.WithManager(cmd.Context(), config.NewManager(loc)))
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Logger on stderr for diagnostics, printer on stdout for data
	logger := log.New(os.Stderr, verbose, quiet)
	ctx = log.WithLogger(ctx, logger)
	ctx = output.WithPrinter(ctx, os.Stdout)

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'ricer -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show hook commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default $RICER_CONFIG_DIR or $XDG_CONFIG_HOME/ricer)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory for repository stores (default $RICER_DATA_DIR or $XDG_DATA_HOME/ricer)")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRepos, Title: "Repository Commands:"},
		&cobra.Group{ID: GroupHooks, Title: "Hook Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newRepoCmd())
	rootCmd.AddCommand(newIgnoreCmd())
	rootCmd.AddCommand(newHooksCmd())
	rootCmd.AddCommand(newDoctorCmd())
}

// managerFromCmd returns the Manager attached by the root command.
func managerFromCmd(cmd *cobra.Command) (*config.Manager, error) {
	if m := config.FromContext(cmd.Context()); m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("configuration not initialized")
}
