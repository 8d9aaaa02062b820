package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/bidengine/pkg/application/dto"
	"github.com/vsinha/bidengine/pkg/infrastructure/seed"
	"github.com/vsinha/bidengine/pkg/interfaces/cli/output"
)

func (c *cli) seedCommand() *cobra.Command {
	var (
		count int
		seedV int64
		yes   bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with a generated demo portfolio",
		Long: `Generates RFPs RFP-0001 onwards whose line items are drawn from the
reference catalog, stores them and re-ranks the portfolio. Existing records
with the same ids are replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withEngine(cmd.Context(), func(e *engine) error {
				existing, err := e.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(existing) > 0 && !yes {
					label := fmt.Sprintf("The store holds %d RFPs; seed anyway", len(existing))
					if err := confirm(cmd, label); err != nil {
						return err
					}
				}

				cfg := seed.DefaultPortfolioConfig(c.now())
				cfg.Count = count
				cfg.Seed = seedV
				gen, err := seed.NewGenerator(e.ref, cfg)
				if err != nil {
					return err
				}
				rfps, err := gen.Portfolio()
				if err != nil {
					return err
				}
				if err := e.Ingest(cmd.Context(), rfps); err != nil {
					return err
				}
				c.logger.Info("demo portfolio seeded", zap.Int("count", len(rfps)), zap.Int64("seed", seedV))

				stored, err := e.List(cmd.Context())
				if err != nil {
					return err
				}
				return c.render(cmd, output.RFPTable(dto.SummarizeRFPs(stored)))
			})
		},
	}

	defaults := seed.DefaultPortfolioConfig(c.now())
	cmd.Flags().IntVar(&count, "count", defaults.Count, "number of RFPs to generate")
	cmd.Flags().Int64Var(&seedV, "seed", defaults.Seed, "random seed; 0 picks a random one")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
