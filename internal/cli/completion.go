package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for shapegrid.

To load completions:

Bash:
  $ source <(shapegrid completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ shapegrid completion bash > /etc/bash_completion.d/shapegrid
  # macOS:
  $ shapegrid completion bash > $(brew --prefix)/etc/bash_completion.d/shapegrid

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ shapegrid completion zsh > "${fpath[1]}/_shapegrid"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ shapegrid completion fish | source

  # To load completions for each session, execute once:
  $ shapegrid completion fish > ~/.config/fish/completions/shapegrid.fish

PowerShell:
  PS> shapegrid completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> shapegrid completion powershell > shapegrid.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
