package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/storyloom/internal/server"
)

// serveCommand creates the "serve" command for the editor HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor HTTP API",
		Long: `Run the editor HTTP API against the configured story store. The
API exposes the same operations as the CLI under /api/stories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				cfg, err := c.Config()
				if err != nil {
					return err
				}
				addr = cfg.Server.Addr
			}

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			return server.New(s, c.Logger).ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to the configured server.addr)")

	return cmd
}
