package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/dendrascience/zipsort/config"
	"github.com/dendrascience/zipsort/server"
)

// NewServeCmd creates and returns the serve subcommand.
func NewServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Archives are uploaded to /api/extract, /api/organize and /api/compress.
Each upload starts an operation whose progress can be polled at
/api/operations/{id} or streamed from /api/operations/{id}/progress over a
websocket. Configuration comes from --config, a .env file and ZIPSORT_*
environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			level, _ := cmd.Flags().GetString("log-level")

			app := fx.New(
				config.Module(path),
				fx.Decorate(func(cfg *config.Config) *config.Config {
					if level != "" {
						cfg.LogLevel = level
					}
					if port != "" {
						cfg.Port = port
					}
					return cfg
				}),
				server.Module,
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides the configuration)")

	return cmd
}
