package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRestartCmd creates the restart command.
func (cli *CLI) newRestartCmd() *cobra.Command {
	var (
		flags     launchFlags
		forceFlag bool
	)

	cmd := &cobra.Command{
		Use:   "restart <profile> [-- extra browser args]",
		Short: "Restart a profile's browser instance",
		Long: `Stop the browser bound to a profile and launch it again.

The relaunch uses the configured launch defaults plus any flags given
here; settings from the previous launch are not remembered.`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return cli.getProfileIDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			extraArgs := []string{}
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				extraArgs = args[at:]
				args = args[:at]
			}
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one profile id, got %d", len(args))
			}
			id := args[0]

			if err := cli.runStop(id, !forceFlag); err != nil {
				return err
			}
			return cli.runLaunch(cmd, id, flags, extraArgs)
		},
	}

	cmd.Flags().StringVar(&flags.lang, "lang", "", "Browser UI language (zh-CN, en-US, ja, ko)")
	cmd.Flags().StringVar(&flags.proxy, "proxy", "", "Upstream proxy as scheme://host:port")
	cmd.Flags().StringVar(&flags.window, "window", "", "Window size as WIDTHxHEIGHT")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "Named window preset (small, laptop, desktop)")
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Kill the old instance without a grace period")

	return cmd
}
