package commands

import "github.com/spf13/cobra"

func (c *CLI) newDevelopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "develop",
		Aliases: []string{"dev", "serve"},
		Short:   "Compile the site, serve it and rebuild on change",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := c.options()
			opts.Port, _ = cmd.Flags().GetInt("port")
			return c.app.Develop(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntP("port", "p", 0, "Port to serve on (overrides server.port)")
	return cmd
}
