package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chromedock/chromedock/internal/profile"
	"github.com/chromedock/chromedock/internal/utils"
)

// ProfileListOutput represents profile list output for JSON.
type ProfileListOutput struct {
	Root     string         `json:"root"`
	Profiles []profile.Info `json:"profiles"`
}

// newProfileCmd creates the profile command group.
func (cli *CLI) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Inspect Chrome profiles",
		Long: `Inspect the Chrome profiles found in the browser's data directory.

Profiles are discovered by scanning Chrome's own user data directory;
chromedock never creates or modifies them.

Examples:
  # List all profiles
  chromedock profile list

  # Show one profile with metadata
  chromedock profile show "Profile 2"

  # Show disk usage per profile
  chromedock profile du`,
	}

	cmd.AddCommand(
		cli.newProfileListCmd(),
		cli.newProfileShowCmd(),
		cli.newProfileRefreshCmd(),
		cli.newProfileDuCmd(),
	)

	return cmd
}

// newProfileListCmd creates the profile list command.
func (cli *CLI) newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all discovered profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}
			return cli.runProfileList(format)
		},
	}
}

// runProfileList displays all discovered profiles.
func (cli *CLI) runProfileList(format OutputFormat) error {
	output := NewOutputWriter(format)

	profiles, err := cli.loadProfiles()
	if err != nil {
		return err
	}

	profileList := ProfileListOutput{
		Root:     cli.Profiles.Root(),
		Profiles: profiles,
	}

	if len(profiles) == 0 {
		return output.Write(profileList, func() {
			fmt.Printf("No profiles found under %s\n", cli.Profiles.Root())
			fmt.Println()
			fmt.Println("Set browser.data_dir in the config file if Chrome keeps its data elsewhere.")
		})
	}

	return output.Write(profileList, func() {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBOOKMARKS\tEXTENSIONS\tLAST USED")

		for _, prof := range profiles {
			lastUsed := "unknown"
			if prof.LastUsed != nil {
				lastUsed = prof.LastUsed.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
				prof.ID, prof.DisplayName, prof.BookmarkCount, prof.ExtensionCount, lastUsed)
		}

		// #nosec G104 - Flush error on stdout; if write fails, user will see incomplete output
		_ = w.Flush()

		fmt.Printf("\n%d profiles under %s\n", len(profiles), cli.Profiles.Root())
	})
}

// newProfileShowCmd creates the profile show command.
func (cli *CLI) newProfileShowCmd() *cobra.Command {
	var withSize bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show metadata for one profile",
		Long: `Display the metadata extracted for a single profile.

Disk usage is not computed by default because walking a large profile
directory can take a while. Use --size to include it.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return cli.getProfileIDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}
			return cli.runProfileShow(args[0], format, withSize)
		},
	}

	cmd.Flags().BoolVar(&withSize, "size", false, "Compute the profile's disk usage")

	return cmd
}

// runProfileShow displays one profile.
func (cli *CLI) runProfileShow(id string, format OutputFormat, withSize bool) error {
	output := NewOutputWriter(format)

	if _, err := cli.loadProfiles(); err != nil {
		return err
	}

	if withSize {
		if _, err := cli.Profiles.ComputeSize(id); err != nil {
			return err
		}
	}

	prof, err := cli.Profiles.Get(id)
	if err != nil {
		return err
	}

	return output.Write(prof, func() {
		fmt.Printf("ID:          %s\n", prof.ID)
		fmt.Printf("Name:        %s\n", prof.DisplayName)
		fmt.Printf("Path:        %s\n", prof.Path)
		fmt.Printf("Bookmarks:   %d\n", prof.BookmarkCount)
		fmt.Printf("Extensions:  %d\n", prof.ExtensionCount)
		if prof.LastUsed != nil {
			fmt.Printf("Last used:   %s (%s ago)\n",
				prof.LastUsed.Format(time.RFC3339), utils.FormatDuration(time.Since(*prof.LastUsed)))
		} else {
			fmt.Printf("Last used:   unknown\n")
		}
		if prof.SizeKnown {
			fmt.Printf("Size:        %s\n", utils.FormatSize(prof.SizeBytes))
		}
	})
}

// newProfileRefreshCmd creates the profile refresh command.
func (cli *CLI) newProfileRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rescan the browser data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := cli.loadProfiles()
			if err != nil {
				return err
			}
			fmt.Printf("Discovered %d profiles under %s\n", len(profiles), cli.Profiles.Root())
			return nil
		},
	}
}

// ProfileDuOutput represents per-profile disk usage for JSON.
type ProfileDuOutput struct {
	Profiles   []profile.Info `json:"profiles"`
	TotalBytes int64          `json:"total_bytes"`
}

// newProfileDuCmd creates the profile du command.
func (cli *CLI) newProfileDuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "du [id]",
		Short: "Show disk usage per profile",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return cli.getProfileIDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			profiles, err := cli.loadProfiles()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				prof, err := cli.Profiles.Get(args[0])
				if err != nil {
					return err
				}
				profiles = []profile.Info{prof}
			}

			var total int64
			for _, prof := range profiles {
				size, err := cli.Profiles.ComputeSize(prof.ID)
				if err != nil {
					if cli.verboseFlag {
						fmt.Fprintf(os.Stderr, "Warning: could not size %s: %v\n", prof.ID, err)
					}
					continue
				}
				total += size
			}

			// Re-read the catalog so the sizes just computed are present.
			sized := make([]profile.Info, 0, len(profiles))
			for _, prof := range profiles {
				if updated, err := cli.Profiles.Get(prof.ID); err == nil {
					sized = append(sized, updated)
				}
			}

			duOutput := ProfileDuOutput{Profiles: sized, TotalBytes: total}

			output := NewOutputWriter(format)
			return output.Write(duOutput, func() {
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tSIZE")
				for _, prof := range sized {
					size := "?"
					if prof.SizeKnown {
						size = utils.FormatSize(prof.SizeBytes)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", prof.ID, prof.DisplayName, size)
				}
				// #nosec G104 - Flush error on stdout; if write fails, user will see incomplete output
				_ = w.Flush()
				fmt.Printf("\nTotal: %s\n", utils.FormatSize(total))
			})
		},
	}
}
