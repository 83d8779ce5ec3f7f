package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chromedock/chromedock/internal/supervisor"
	"github.com/chromedock/chromedock/internal/utils"
)

// PsOutput represents the running-instance listing for JSON.
type PsOutput struct {
	Instances []supervisor.Instance `json:"instances"`
}

// newPsCmd creates the ps command.
func (cli *CLI) newPsCmd() *cobra.Command {
	var allFlag bool

	cmd := &cobra.Command{
		Use:     "ps",
		Aliases: []string{"status"},
		Short:   "List browser instances",
		Long: `List the browser instances bound to discovered profiles, including
browsers that were launched outside of chromedock.

Only live instances are shown by default; --all includes instances that
already ended.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}
			return cli.runPs(format, allFlag)
		},
	}

	cmd.Flags().BoolVarP(&allFlag, "all", "a", false, "Include instances that already ended")

	return cmd
}

// runPs lists instances with fresh liveness and resource samples.
func (cli *CLI) runPs(format OutputFormat, all bool) error {
	output := NewOutputWriter(format)

	if _, err := cli.loadProfiles(); err != nil {
		return err
	}
	cli.adoptExternal()

	snapshots := cli.Supervisor.PollAll()
	if !all {
		live := snapshots[:0]
		for _, inst := range snapshots {
			if !inst.State.Terminal() {
				live = append(live, inst)
			}
		}
		snapshots = live
	}

	psOutput := PsOutput{Instances: snapshots}

	if len(snapshots) == 0 {
		return output.Write(psOutput, func() {
			fmt.Println("No running instances.")
		})
	}

	return output.Write(psOutput, func() {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PROFILE\tPID\tSTATE\tUPTIME\tCPU\tMEM")

		for _, inst := range snapshots {
			uptime := "-"
			if !inst.State.Terminal() && !inst.StartTime.IsZero() {
				uptime = utils.FormatDuration(time.Since(inst.StartTime))
			}
			cpu := "-"
			if inst.CPUPercent != nil {
				cpu = fmt.Sprintf("%.1f%%", *inst.CPUPercent)
			}
			mem := "-"
			if inst.MemoryBytes != nil {
				mem = utils.FormatSize(int64(*inst.MemoryBytes))
			}

			state := string(inst.State)
			if inst.Adopted {
				state += " (external)"
			}

			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n", inst.ProfileID, inst.PID, state, uptime, cpu, mem)
		}

		// #nosec G104 - Flush error on stdout; if write fails, user will see incomplete output
		_ = w.Flush()
	})
}
