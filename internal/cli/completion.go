package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for chaosgame.

To load completions:

Bash:
  $ source <(chaosgame completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ chaosgame completion bash > /etc/bash_completion.d/chaosgame
  # macOS:
  $ chaosgame completion bash > $(brew --prefix)/etc/bash_completion.d/chaosgame

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ chaosgame completion zsh > "${fpath[1]}/_chaosgame"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ chaosgame completion fish | source

  # To load completions for each session, execute once:
  $ chaosgame completion fish > ~/.config/fish/completions/chaosgame.fish

PowerShell:
  PS> chaosgame completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> chaosgame completion powershell > chaosgame.ps1
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
