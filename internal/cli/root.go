// Package cli provides the command-line interface for Chromedock.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chromedock/chromedock/internal/config"
	"github.com/chromedock/chromedock/internal/profile"
	"github.com/chromedock/chromedock/internal/supervisor"
)

// CLI holds the application state for the CLI.
type CLI struct {
	Config     *config.Config
	Profiles   *profile.Manager
	Supervisor *supervisor.Supervisor
	rootCmd    *cobra.Command

	// Flags
	verboseFlag bool
	outputFlag  string
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{}

	cli.rootCmd = &cobra.Command{
		Use:   "chromedock [command]",
		Short: "Chromedock - multi-profile Chrome launcher and supervisor",
		Long: `Chromedock discovers the Chrome profiles on this machine and manages
isolated browser instances bound to them.

It reads profile metadata (display name, bookmarks, extensions) straight
from Chrome's own data directory, launches one browser per profile with
per-launch language, proxy and window settings, and supervises the
resulting processes including browsers started outside of chromedock.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	cli.rootCmd.PersistentFlags().BoolVarP(&cli.verboseFlag, "verbose", "v", false, "Enable verbose output")
	cli.rootCmd.PersistentFlags().StringVarP(&cli.outputFlag, "output", "o", "text", "Output format (text, json)")

	// Add commands
	cli.addCommands()

	return cli
}

// addCommands adds all subcommands to the root command.
func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newVersionCmd(),
		cli.newProfileCmd(),
		cli.newLaunchCmd(),
		cli.newStopCmd(),
		cli.newRestartCmd(),
		cli.newPsCmd(),
		cli.newWatchCmd(),
		cli.newDoctorCmd(),
		cli.newCompletionCmd(),
	)
}

// initialize loads configuration and wires the profile catalog and the
// process supervisor.
func (cli *CLI) initialize(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateExecutablePath(); err != nil {
		return err
	}
	cli.Config = cfg

	cli.Profiles = profile.NewManager(cfg.ProfileRoot())
	if cli.verboseFlag {
		cli.Profiles.SetLogf(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})
	}

	cli.Supervisor = supervisor.New(
		supervisor.WithExecutable(cfg.Browser.Executable),
		supervisor.WithStartTimeout(cfg.Launch.StartTimeout),
		supervisor.WithGracePeriod(cfg.Launch.GracePeriod),
	)

	return nil
}

// Execute runs the CLI.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// loadProfiles rescans the profile root and returns the catalog.
func (cli *CLI) loadProfiles() ([]profile.Info, error) {
	if err := cli.Profiles.Refresh(); err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}
	return cli.Profiles.List(), nil
}

// adoptExternal picks up browsers launched outside of chromedock so status
// and stop commands see them.
func (cli *CLI) adoptExternal() {
	cli.Supervisor.DiscoverExternal(cli.Profiles.List())
}

// getProfileIDs returns all discovered profile ids for completion.
func (cli *CLI) getProfileIDs() []string {
	profiles, err := cli.loadProfiles()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids
}
