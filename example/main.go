package main

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/application/services/orchestration"
	"github.com/vsinha/bidengine/pkg/infrastructure/lock"
	"github.com/vsinha/bidengine/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bidengine/pkg/infrastructure/seed"
)

func main() {
	ctx := context.Background()

	// Built-in cable catalog and an in-memory store
	ref, err := seed.Catalog()
	if err != nil {
		fmt.Printf("❌ Catalog failed: %v\n", err)
		return
	}

	pipeline, err := orchestration.NewBidPipeline(config.Default(), orchestration.Dependencies{
		Reference: ref,
		RFPs:      memory.NewRFPRepository(),
		Locker:    lock.NewLocal(),
	})
	if err != nil {
		fmt.Printf("❌ Pipeline failed: %v\n", err)
		return
	}

	// A small generated portfolio
	cfg := seed.DefaultPortfolioConfig(time.Now())
	cfg.Count = 5
	cfg.ArchiveChance = 0
	gen, err := seed.NewGenerator(ref, cfg)
	if err != nil {
		fmt.Printf("❌ Generator failed: %v\n", err)
		return
	}
	rfps, err := gen.Portfolio()
	if err != nil {
		fmt.Printf("❌ Portfolio failed: %v\n", err)
		return
	}
	if err := pipeline.Ingest(ctx, rfps); err != nil {
		fmt.Printf("❌ Ingest failed: %v\n", err)
		return
	}

	fmt.Printf("📥 Ingested %d RFPs\n\n", len(rfps))

	bids, err := pipeline.ProcessAll(ctx)
	if err != nil {
		fmt.Printf("❌ Processing failed: %v\n", err)
		return
	}

	fmt.Println("💰 Bids:")
	for _, bid := range bids {
		floor := ""
		if bid.Margin.FloorHit {
			floor = " (survival floor)"
		}
		fmt.Printf("  %s: %s INR at %s margin%s\n",
			bid.RFPID,
			bid.FinalBidValue.StringFixed(2),
			bid.Margin.FinalMargin.String(),
			floor)
		for _, line := range bid.Cost.Summary {
			fmt.Printf("    %-12s %14s  %s\n", line.Category, line.Amount.StringFixed(2), line.Rationale)
		}
	}
	fmt.Println()

	entries, err := pipeline.Priorities(ctx)
	if err != nil {
		fmt.Printf("❌ Ranking failed: %v\n", err)
		return
	}

	fmt.Println("📊 Priorities:")
	for _, e := range entries {
		fmt.Printf("  #%d %s %s (score %.1f)\n", e.Rank, e.RFPID, e.Band, e.PriorityScore)
	}
}
