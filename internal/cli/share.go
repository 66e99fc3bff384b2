package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shapegrid/pkg/project"
)

// shareCommand creates the share command for encoding and decoding links
// without touching the project store.
func (c *CLI) shareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode and decode share links",
	}
	cmd.AddCommand(c.shareEncodeCommand())
	cmd.AddCommand(c.shareDecodeCommand())
	return cmd
}

func (c *CLI) shareEncodeCommand() *cobra.Command {
	var baseURL string
	var tokenOnly bool
	cmd := &cobra.Command{
		Use:   "encode [settings]",
		Short: "Print a share link for a settings file",
		Long: `Encode packs the fields that differ from the defaults, plus the color seed,
into a URL-safe token. A missing seed is generated so the link reproduces the
same colors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			s, err := c.readSettings(input)
			if err != nil {
				return err
			}
			s.EnsureSeed(c.Logger)

			out := cmd.OutOrStdout()
			if tokenOnly {
				token, err := project.EncodeShare(s)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, token)
				return nil
			}
			if baseURL == "" {
				baseURL = c.Config.Server.PublicURL
			}
			link, err := project.ShareURL(baseURL, s)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, link)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "page the link points at (default: server.public_url)")
	cmd.Flags().BoolVar(&tokenOnly, "token", false, "print only the token")
	return cmd
}

func (c *CLI) shareDecodeCommand() *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "decode <share-url|token>",
		Short: "Write the settings carried by a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := project.ParseShareURL(args[0], c.Logger)
			if err != nil {
				return err
			}
			return c.writeSettings(cmd, s, output, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", stdio, "output file, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or toml (default: from output extension, else json)")
	return cmd
}
