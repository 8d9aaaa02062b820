package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/bidengine/pkg/infrastructure/jobs"
	"github.com/vsinha/bidengine/pkg/interfaces/httpapi"
)

func (c *cli) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and re-rank the portfolio on a schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			serverCfg := c.rt.Server
			if addr != "" {
				serverCfg.Addr = addr
			}

			return c.withEngine(cmd.Context(), func(e *engine) error {
				server, err := httpapi.NewServer(e, e.metrics, serverCfg, c.logger)
				if err != nil {
					return err
				}

				scheduler := jobs.NewCronManager(c.logger)
				err = scheduler.AddJob("rerank", serverCfg.RerankSchedule, func(ctx context.Context) error {
					entries, err := e.Rerank(ctx)
					if err != nil {
						return err
					}
					c.logger.Debug("scheduled re-rank", zap.Int("entries", len(entries)))
					return nil
				})
				if err != nil {
					return err
				}
				scheduler.Start()
				defer scheduler.Stop()

				return server.Run(cmd.Context())
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}
