package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/bidengine/pkg/application/dto"
	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/infrastructure/repositories/jsonfile"
	"github.com/vsinha/bidengine/pkg/interfaces/cli/output"
)

func (c *cli) ingestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file|->",
		Short: "Validate and store RFP records from a JSON file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}

			rfps, err := jsonfile.ReadRFPs(in)
			if err != nil {
				return err
			}

			return c.withEngine(cmd.Context(), func(e *engine) error {
				if err := e.Ingest(cmd.Context(), rfps); err != nil {
					return err
				}
				stored := make([]*entities.RFP, 0, len(rfps))
				for _, rfp := range rfps {
					got, err := e.Get(cmd.Context(), rfp.ID)
					if err != nil {
						return err
					}
					stored = append(stored, got)
				}
				c.logger.Info("rfps ingested", zap.Int("count", len(stored)))
				return c.render(cmd, output.RFPTable(dto.SummarizeRFPs(stored)))
			})
		},
	}
}

func (c *cli) listCommand() *cobra.Command {
	var active bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored RFPs with their latest bid and priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withEngine(cmd.Context(), func(e *engine) error {
				rfps, err := e.List(cmd.Context())
				if err != nil {
					return err
				}
				if active {
					kept := rfps[:0]
					for _, rfp := range rfps {
						if rfp.IsActive() {
							kept = append(kept, rfp)
						}
					}
					rfps = kept
				}
				return c.render(cmd, output.RFPTable(dto.SummarizeRFPs(rfps)))
			})
		},
	}
	cmd.Flags().BoolVar(&active, "active", false, "hide archived RFPs")
	return cmd
}

func (c *cli) matchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match <rfp-id>",
		Short: "Match every line item of an RFP against the product catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(e *engine) error {
				report, err := e.Match(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return c.render(cmd, output.MatchTable(args[0], report))
			})
		},
	}
}

func (c *cli) priceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "price <rfp-id>",
		Short: "Compose costs and price an RFP without re-ranking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(e *engine) error {
				bid, err := e.Price(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return c.render(cmd, output.BidTable(bid))
			})
		},
	}
}

func (c *cli) processCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "process [rfp-id]",
		Short: "Match, price and re-rank one RFP or the whole active portfolio",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("an rfp id cannot be combined with --all")
			}
			if !all && len(args) != 1 {
				return fmt.Errorf("an rfp id or --all is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withEngine(cmd.Context(), func(e *engine) error {
				if !all {
					bid, err := e.Process(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					return c.render(cmd, output.BidTable(bid))
				}

				if _, err := e.ProcessAll(cmd.Context()); err != nil {
					return err
				}
				rfps, err := e.List(cmd.Context())
				if err != nil {
					return err
				}
				return c.render(cmd, output.RFPTable(dto.SummarizeRFPs(rfps)))
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "process every active RFP")
	return cmd
}

func (c *cli) rankCommand() *cobra.Command {
	var stored bool
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Recompute and show the portfolio priority ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withEngine(cmd.Context(), func(e *engine) error {
				var entries []entities.PriorityEntry
				var err error
				if stored {
					entries, err = e.Priorities(cmd.Context())
				} else {
					entries, err = e.Rerank(cmd.Context())
				}
				if err != nil {
					return err
				}
				return c.render(cmd, output.PriorityTable(entries))
			})
		},
	}
	cmd.Flags().BoolVar(&stored, "stored", false, "show the last stored ranking without recomputing")
	return cmd
}

func (c *cli) archiveCommand() *cobra.Command {
	var restore, yes bool
	cmd := &cobra.Command{
		Use:   "archive <rfp-id>",
		Short: "Archive an RFP, or restore it with --restore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			action := "Archive"
			if restore {
				action = "Restore"
			}
			if !yes {
				if err := confirm(cmd, fmt.Sprintf("%s %s", action, id)); err != nil {
					return err
				}
			}

			return c.withEngine(cmd.Context(), func(e *engine) error {
				var err error
				if restore {
					err = e.Restore(cmd.Context(), id)
				} else {
					err = e.Archive(cmd.Context(), id)
				}
				if err != nil {
					return err
				}
				rfp, err := e.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.render(cmd, output.RFPTable([]dto.RFPSummary{dto.SummarizeRFP(rfp)}))
			})
		},
	}
	cmd.Flags().BoolVar(&restore, "restore", false, "return an archived RFP to ranking")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
