package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/application/services/costing"
	"github.com/vsinha/bidengine/pkg/application/services/matching"
	"github.com/vsinha/bidengine/pkg/application/services/pricing"
	"github.com/vsinha/bidengine/pkg/application/services/priority"
	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
	"github.com/vsinha/bidengine/pkg/infrastructure/events"
	"github.com/vsinha/bidengine/pkg/infrastructure/metrics"
)

// WriterLock is the lock name every writer of the RFP collection takes
const WriterLock = "rfps"

// ErrInvalidRFP is wrapped when Ingest rejects a record
var ErrInvalidRFP = errors.New("invalid rfp")

// DefaultWorkers bounds concurrent bid computations in ProcessAll
const DefaultWorkers = 4

// Dependencies are the collaborators of a BidPipeline. Reference, RFPs and
// Locker are required; the rest default to no-ops.
type Dependencies struct {
	Reference repositories.ReferenceData
	RFPs      repositories.RFPRepository
	Locker    repositories.Locker
	Events    events.EventStore
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	Clock     func() time.Time
	Workers   int
}

// BidPipeline sequences matching, costing and pricing for an RFP, persists
// each stage under the writer lock and keeps the portfolio ranking current.
type BidPipeline struct {
	ref        repositories.ReferenceData
	rfps       repositories.RFPRepository
	locker     repositories.Locker
	events     events.EventStore
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
	workers    int
	matcher    *matching.SpecMatcher
	composer   *costing.Composer
	strategist *pricing.Strategist
	ranker     *priority.Ranker
}

// NewBidPipeline wires the engine stages over the given dependencies
func NewBidPipeline(cfg config.Config, deps Dependencies) (*BidPipeline, error) {
	if deps.Reference == nil {
		return nil, fmt.Errorf("reference data cannot be nil")
	}
	if deps.RFPs == nil {
		return nil, fmt.Errorf("rfp repository cannot be nil")
	}
	if deps.Locker == nil {
		return nil, fmt.Errorf("locker cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	matcher, err := matching.NewSpecMatcher(cfg.Matching.Weights)
	if err != nil {
		return nil, fmt.Errorf("failed to create spec matcher: %w", err)
	}
	composer, err := costing.NewComposer(cfg, deps.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to create cost composer: %w", err)
	}

	p := &BidPipeline{
		ref:        deps.Reference,
		rfps:       deps.RFPs,
		locker:     deps.Locker,
		events:     deps.Events,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
		workers:    deps.Workers,
		matcher:    matcher,
		composer:   composer,
		strategist: pricing.NewStrategist(cfg),
		ranker:     priority.NewRanker(cfg, deps.Reference),
	}
	if p.events == nil {
		p.events = events.NewInMemoryEventStore(deps.Logger)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.workers <= 0 {
		p.workers = DefaultWorkers
	}
	return p, nil
}

// Events returns the store stage events are recorded in
func (p *BidPipeline) Events() events.EventStore {
	return p.events
}

func (p *BidPipeline) withLock(ctx context.Context, fn func() error) error {
	release, err := p.locker.Acquire(ctx, WriterLock)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

func (p *BidPipeline) record(streamID, eventType string, data any) {
	if err := p.events.AppendEvent(streamID, events.NewEvent(eventType, streamID, data, p.now())); err != nil {
		p.logger.Warn("failed to record event", zap.String("type", eventType), zap.Error(err))
	}
}

// Ingest validates and stores new RFP records, then re-ranks the portfolio.
// Match, bid and priority are derived by the engine, so any supplied with a
// record are dropped.
func (p *BidPipeline) Ingest(ctx context.Context, rfps []*entities.RFP) error {
	for i, rfp := range rfps {
		if rfp == nil {
			return fmt.Errorf("%w: record %d is empty", ErrInvalidRFP, i+1)
		}
		if err := entities.Validate(rfp); err != nil {
			return fmt.Errorf("%w: record %d (%s): %w", ErrInvalidRFP, i+1, rfp.ID, err)
		}
	}

	err := p.withLock(ctx, func() error {
		for _, rfp := range rfps {
			record := rfp.Clone()
			record.Match, record.Bid, record.Priority = nil, nil, nil
			if err := p.rfps.SaveRFP(ctx, record); err != nil {
				return fmt.Errorf("failed to save rfp %s: %w", rfp.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, rfp := range rfps {
		p.logger.Debug("rfp ingested", zap.String("rfp", rfp.ID), zap.Int("line_items", len(rfp.LineItems)))
		p.record(rfp.ID, events.RFPIngestedEvent, events.RFPIngested{RFPID: rfp.ID, Client: rfp.ClientName, LineItems: len(rfp.LineItems)})
	}
	_, err = p.Rerank(ctx)
	return err
}

// Get returns one stored RFP
func (p *BidPipeline) Get(ctx context.Context, id string) (*entities.RFP, error) {
	return p.rfps.GetRFP(ctx, id)
}

// List returns every stored RFP in insertion order
func (p *BidPipeline) List(ctx context.Context) ([]*entities.RFP, error) {
	return p.rfps.ListRFPs(ctx)
}

func (p *BidPipeline) match(rfp *entities.RFP) *entities.MatchReport {
	report := p.matcher.MatchRFP(rfp, p.ref)
	for _, li := range report.LineItems {
		p.metrics.ObserveMatch(li.Best.Score)
	}
	return report
}

// Match selects a product for every line item of the RFP and stores the report
func (p *BidPipeline) Match(ctx context.Context, id string) (*entities.MatchReport, error) {
	rfp, err := p.rfps.GetRFP(ctx, id)
	if err != nil {
		return nil, err
	}

	report := p.match(rfp)
	if err := p.storeMatch(ctx, id, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (p *BidPipeline) storeMatch(ctx context.Context, id string, report *entities.MatchReport) error {
	err := p.withLock(ctx, func() error {
		return p.rfps.UpdateRFP(ctx, id, func(rfp *entities.RFP) error {
			rfp.Match = report.Clone()
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to store match for rfp %s: %w", id, err)
	}
	p.matchStored(id, report)
	return nil
}

func (p *BidPipeline) matchStored(id string, report *entities.MatchReport) {
	avg, _ := report.AverageScore()
	p.logger.Debug("rfp matched",
		zap.String("rfp", id),
		zap.Float64("average_score", avg),
		zap.Int("collisions", len(report.Collisions)))
	p.record(id, events.RFPMatchedEvent, events.RFPMatched{RFPID: id, AverageScore: avg, Collisions: len(report.Collisions)})
}

// Compute prices an RFP without storing anything. The stored match report
// is used when present, otherwise the RFP is matched first.
func (p *BidPipeline) Compute(rfp *entities.RFP) (*entities.MatchReport, *entities.BidComputation) {
	report := rfp.Match
	if report == nil {
		report = p.match(rfp)
	}

	cost := p.composer.Compose(costing.BidInput{RFP: rfp, Match: report})
	selections := costing.Selections(rfp, report)

	competitors, unknown := pricing.ResolveCompetitors(p.ref, report.CompetitorIDs())
	var warnings []string
	for _, key := range unknown {
		warnings = append(warnings, fmt.Sprintf("competitor %s not in reference data, no adjustment made", key))
	}
	for _, line := range cost.Lines {
		if line.Estimated {
			warnings = append(warnings, fmt.Sprintf("lot %s priced from estimates", line.LotID))
		}
	}

	productID := entities.NoMatchProductID
	if len(selections) > 0 {
		productID = selections[0].ProductID
	}

	margin := p.strategist.Strategize(pricing.MarginInput{
		CostBase:          cost.BaseCost,
		FinancingCost:     cost.Financing,
		LoyaltyAdjustment: cost.LoyaltyAdjustment,
		Competitors:       competitors,
		FactoryBatches:    p.ref.GetFactoryBatches(),
		ProductID:         productID,
		ZoneRisk:          cost.ZoneRisk,
		ZoneName:          cost.ZoneType,
	})

	bid := &entities.BidComputation{
		RFPID:         rfp.ID,
		Selections:    selections,
		Cost:          cost,
		Margin:        margin,
		FinalBidValue: margin.FinalBidValue,
		GST:           margin.GST,
		TotalWithGST:  margin.TotalWithGST,
		Warnings:      warnings,
	}
	return report, bid
}

// Price computes and stores the bid for one RFP
func (p *BidPipeline) Price(ctx context.Context, id string) (*entities.BidComputation, error) {
	rfp, err := p.rfps.GetRFP(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.price(ctx, rfp)
}

func (p *BidPipeline) price(ctx context.Context, rfp *entities.RFP) (*entities.BidComputation, error) {
	matched := rfp.Match == nil
	report, bid := p.Compute(rfp)

	// a fresh match and its bid are written together or not at all
	err := p.withLock(ctx, func() error {
		return p.rfps.UpdateRFP(ctx, rfp.ID, func(stored *entities.RFP) error {
			if matched {
				stored.Match = report.Clone()
			}
			stored.Bid = bid.Clone()
			return nil
		})
	})
	if err != nil {
		p.metrics.RecordFailure()
		return nil, fmt.Errorf("failed to store bid for rfp %s: %w", rfp.ID, err)
	}
	if matched {
		p.matchStored(rfp.ID, report)
	}

	p.metrics.RecordBid(bid.Margin.FloorHit)
	for _, w := range bid.Warnings {
		p.logger.Warn(w, zap.String("rfp", rfp.ID))
	}
	p.logger.Info("bid computed",
		zap.String("rfp", rfp.ID),
		zap.String("base_cost", bid.Cost.BaseCost.StringFixed(2)),
		zap.String("margin", bid.Margin.FinalMargin.String()),
		zap.String("bid_value", bid.FinalBidValue.StringFixed(2)),
		zap.Bool("floor_hit", bid.Margin.FloorHit))
	p.record(rfp.ID, events.BidComputedEvent, events.BidComputed{
		RFPID:         rfp.ID,
		BaseCost:      bid.Cost.BaseCost,
		FinalMargin:   bid.Margin.FinalMargin,
		FinalBidValue: bid.FinalBidValue,
		FloorHit:      bid.Margin.FloorHit,
	})
	return bid, nil
}

// Process runs match, cost and margin for one RFP and re-ranks the portfolio
func (p *BidPipeline) Process(ctx context.Context, id string) (*entities.BidComputation, error) {
	rfp, err := p.rfps.GetRFP(ctx, id)
	if err != nil {
		return nil, err
	}
	rfp.Match = nil

	bid, err := p.price(ctx, rfp)
	if err != nil {
		return nil, err
	}
	if _, err := p.Rerank(ctx); err != nil {
		return nil, err
	}
	return bid, nil
}

// ProcessAll prices every active RFP concurrently and re-ranks once at the
// end. Results follow the repository order.
func (p *BidPipeline) ProcessAll(ctx context.Context) ([]*entities.BidComputation, error) {
	all, err := p.rfps.ListRFPs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rfps: %w", err)
	}

	var active []*entities.RFP
	for _, rfp := range all {
		if rfp.IsActive() {
			rfp.Match = nil
			active = append(active, rfp)
		}
	}

	bids := make([]*entities.BidComputation, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, rfp := range active {
		i, rfp := i, rfp
		g.Go(func() error {
			bid, err := p.price(gctx, rfp)
			if err != nil {
				return err
			}
			bids[i] = bid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if _, err := p.Rerank(ctx); err != nil {
		return nil, err
	}
	p.logger.Info("portfolio processed", zap.Int("rfps", len(bids)))
	return bids, nil
}

// Archive removes the RFP from ranking
func (p *BidPipeline) Archive(ctx context.Context, id string) error {
	return p.setArchived(ctx, id, true)
}

// Restore returns an archived RFP to ranking
func (p *BidPipeline) Restore(ctx context.Context, id string) error {
	return p.setArchived(ctx, id, false)
}

func (p *BidPipeline) setArchived(ctx context.Context, id string, archived bool) error {
	err := p.withLock(ctx, func() error {
		return p.rfps.UpdateRFP(ctx, id, func(rfp *entities.RFP) error {
			rfp.Archived = archived
			return nil
		})
	})
	if err != nil {
		return err
	}

	eventType := events.RFPRestoredEvent
	if archived {
		eventType = events.RFPArchivedEvent
	}
	p.logger.Debug(eventType, zap.String("rfp", id))
	p.record(id, eventType, events.RFPArchiveChanged{RFPID: id, Archived: archived})

	_, err = p.Rerank(ctx)
	return err
}

// Rerank recomputes every priority as one batch. The snapshot and the
// rewrite happen under the writer lock inside a single repository update.
func (p *BidPipeline) Rerank(ctx context.Context) ([]entities.PriorityEntry, error) {
	start := time.Now()
	now := p.now()

	var entries []entities.PriorityEntry
	err := p.withLock(ctx, func() error {
		return p.rfps.UpdateAll(ctx, func(rfps []*entities.RFP) error {
			entries = p.ranker.Rank(rfps, now)
			byID := make(map[string]entities.PriorityEntry, len(entries))
			for _, e := range entries {
				byID[e.RFPID] = e
			}
			for _, rfp := range rfps {
				e := byID[rfp.ID]
				rfp.Priority = &e
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to re-rank portfolio: %w", err)
	}

	active := 0
	top := ""
	for _, e := range entries {
		if e.IsArchived() {
			continue
		}
		if active == 0 {
			top = e.RFPID
		}
		active++
	}

	elapsed := time.Since(start)
	p.metrics.ObserveRerank(elapsed.Seconds(), active)
	p.logger.Info("portfolio re-ranked",
		zap.Int("active", active),
		zap.Int("archived", len(entries)-active),
		zap.String("top", top))
	p.record(events.PortfolioStream, events.PrioritiesRecomputedEvent, events.PrioritiesRecomputed{
		Active:   active,
		Archived: len(entries) - active,
		TopRFPID: top,
		Duration: elapsed,
	})
	return entries, nil
}

// Priorities returns the stored ranking: active RFPs by rank, then archived
// ones. RFPs never ranked are omitted.
func (p *BidPipeline) Priorities(ctx context.Context) ([]entities.PriorityEntry, error) {
	rfps, err := p.rfps.ListRFPs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rfps: %w", err)
	}

	var entries []entities.PriorityEntry
	for _, rfp := range rfps {
		if rfp.Priority != nil {
			entries = append(entries, *rfp.Priority)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsArchived() != b.IsArchived() {
			return !a.IsArchived()
		}
		if a.IsArchived() {
			return false
		}
		return a.Rank < b.Rank
	})
	return entries, nil
}
