package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command.
func (cli *CLI) newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for Chromedock.

To load completions:

Bash:
  $ source <(chromedock completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ chromedock completion bash > /etc/bash_completion.d/chromedock
  # macOS:
  $ chromedock completion bash > $(brew --prefix)/etc/bash_completion.d/chromedock

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ chromedock completion zsh > "${fpath[1]}/_chromedock"
  # You may need to start a new shell for this to take effect.

Fish:
  $ chromedock completion fish | source
  # To load completions for each session, execute once:
  $ chromedock completion fish > ~/.config/fish/completions/chromedock.fish

PowerShell:
  PS> chromedock completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> chromedock completion powershell > chromedock.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
