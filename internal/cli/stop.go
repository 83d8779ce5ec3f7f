package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// newStopCmd creates the stop command.
func (cli *CLI) newStopCmd() *cobra.Command {
	var (
		allFlag   bool
		forceFlag bool
	)

	cmd := &cobra.Command{
		Use:   "stop [profile]",
		Short: "Stop a running browser instance",
		Long: `Stop the browser instance bound to a profile.

By default the browser is asked to exit and given a grace period to shut
down cleanly before being killed. Use --force to kill immediately.

Browsers launched outside of chromedock are discovered and stopped the
same way.

Examples:
  # Stop one profile's browser
  chromedock stop "Profile 2"

  # Kill it without waiting
  chromedock stop "Profile 2" --force

  # Stop every running instance
  chromedock stop --all`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return cli.getProfileIDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if allFlag {
				if len(args) > 0 {
					return errors.New("--all cannot be combined with a profile id")
				}
				return cli.runStopAll(!forceFlag)
			}
			if len(args) != 1 {
				return errors.New("profile id required (or use --all)")
			}
			return cli.runStop(args[0], !forceFlag)
		},
	}

	cmd.Flags().BoolVarP(&allFlag, "all", "a", false, "Stop every running instance")
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Kill immediately without a grace period")

	return cmd
}

// runStop stops one profile's instance.
func (cli *CLI) runStop(id string, graceful bool) error {
	if _, err := cli.loadProfiles(); err != nil {
		return err
	}
	if _, err := cli.Profiles.Get(id); err != nil {
		return err
	}
	cli.adoptExternal()

	inst, err := cli.Supervisor.Get(id)
	if err != nil || inst.State.Terminal() {
		fmt.Printf("No running instance for %q\n", id)
		return nil
	}

	if err := cli.Supervisor.Shutdown(id, graceful); err != nil {
		return err
	}

	fmt.Printf("Stopped %q (PID: %d)\n", id, inst.PID)
	return nil
}

// runStopAll stops every live instance.
func (cli *CLI) runStopAll(graceful bool) error {
	if _, err := cli.loadProfiles(); err != nil {
		return err
	}
	cli.adoptExternal()

	live := 0
	for _, inst := range cli.Supervisor.ListRunning() {
		if !inst.State.Terminal() {
			live++
		}
	}
	if live == 0 {
		fmt.Println("No running instances.")
		return nil
	}

	cli.Supervisor.StopAll(graceful)
	fmt.Printf("Stopped %d instances\n", live)
	return nil
}
