package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

// MarginInput carries every signal the strategist prices against
type MarginInput struct {
	CostBase          decimal.Decimal
	FinancingCost     decimal.Decimal
	LoyaltyAdjustment decimal.Decimal
	Competitors       []*entities.Competitor
	FactoryBatches    []*entities.FactoryBatch
	// ProductID selects the factory category; the first lot stands in for the bid
	ProductID string
	ZoneRisk  decimal.Decimal
	ZoneName  string
}

// Strategist turns a cost base and market signals into a final margin and price
type Strategist struct {
	cfg config.Config
}

// NewStrategist creates a margin strategist
func NewStrategist(cfg config.Config) *Strategist {
	return &Strategist{cfg: cfg.Clone()}
}

var hundred = decimal.NewFromInt(100)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func percent(d decimal.Decimal) string {
	return d.Mul(hundred).StringFixed(1) + "%"
}

// FactoryAdjustment prices the load of the production lines that build the
// product's category: a premium above the overload threshold, a discount
// below the idle threshold.
func (s *Strategist) FactoryAdjustment(productID string, batches []*entities.FactoryBatch) (decimal.Decimal, string) {
	op := s.cfg.Operational
	category := entities.Category(productID)

	total := 0.0
	count := 0
	for _, b := range batches {
		if strings.Contains(b.ProductionLineID, category) {
			total += b.UtilizationPercent
			count++
		}
	}
	if count == 0 {
		return decimal.Zero, "standard capacity load"
	}

	avg := total / float64(count)
	switch {
	case avg > op.OverloadThreshold:
		adj := dec(op.OverloadPremium)
		return adj, fmt.Sprintf("factory overload (%.1f%%), scarcity premium +%s", avg, percent(adj))
	case avg < op.IdleThreshold:
		adj := dec(op.IdleDiscount).Neg()
		return adj, fmt.Sprintf("factory idle (%.1f%%), efficiency discount %s", avg, percent(adj))
	}
	return decimal.Zero, fmt.Sprintf("factory load normal (%.1f%%)", avg)
}

// Concession is the margin one rival forces on its own. The first matching
// rule decides: price aggression, then win rate against us, then a low-cost tier.
func (s *Strategist) Concession(c *entities.Competitor) (decimal.Decimal, string) {
	cc := s.cfg.Competition
	switch {
	case c.AggressionScore >= cc.AggressiveScore:
		adj := dec(cc.AggressiveConcession)
		return adj, fmt.Sprintf("price war alert: %s (aggressive) -%s", c.Name, percent(adj))
	case c.WinRateAgainstUs > cc.HighWinRate:
		adj := dec(cc.WinRateConcession)
		return adj, fmt.Sprintf("high threat: %s (win rate %.0f%%) -%s", c.Name, c.WinRateAgainstUs*100, percent(adj))
	case cc.LowCostTier != "" && strings.Contains(c.Tier, cc.LowCostTier):
		adj := dec(cc.LowCostConcession)
		return adj, fmt.Sprintf("low-cost rival: %s -%s", c.Name, percent(adj))
	}
	return decimal.Zero, ""
}

// CompetitiveAdjustment takes the single largest concession among rivals,
// plus a crowding penalty for every conceding rival beyond the first.
// Concessions are never summed.
func (s *Strategist) CompetitiveAdjustment(competitors []*entities.Competitor) (decimal.Decimal, []string) {
	largest := decimal.Zero
	count := 0
	var reasons []string
	for _, c := range competitors {
		concession, reason := s.Concession(c)
		if !concession.IsPositive() {
			continue
		}
		count++
		reasons = append(reasons, reason)
		if concession.GreaterThan(largest) {
			largest = concession
		}
	}
	if count == 0 {
		return decimal.Zero, nil
	}
	if count > 1 {
		crowding := dec(s.cfg.Competition.CrowdingPenalty).Mul(decimal.NewFromInt(int64(count - 1)))
		largest = largest.Add(crowding)
		reasons = append(reasons, fmt.Sprintf("market pressure (%d extra rivals) -%s", count-1, percent(crowding)))
	}
	return largest.Neg(), reasons
}

// Strategize computes the final margin and bid value. The margin never
// drops below the survival floor.
func (s *Strategist) Strategize(in MarginInput) entities.MarginBreakdown {
	fin := s.cfg.Financial

	mb := entities.MarginBreakdown{
		BaseMargin:        dec(fin.TargetMargin),
		LoyaltyAdjustment: in.LoyaltyAdjustment,
		ZoneRisk:          in.ZoneRisk,
		CostBase:          in.CostBase,
		FinancingCost:     in.FinancingCost,
	}
	mb.Rationale = append(mb.Rationale, fmt.Sprintf("base target margin %s", percent(mb.BaseMargin)))

	factory, factoryNote := s.FactoryAdjustment(in.ProductID, in.FactoryBatches)
	mb.FactoryAdjustment = factory
	if !factory.IsZero() {
		mb.Rationale = append(mb.Rationale, factoryNote)
	}

	if !in.LoyaltyAdjustment.IsZero() {
		mb.Rationale = append(mb.Rationale, fmt.Sprintf("loyalty discount %s", percent(in.LoyaltyAdjustment)))
	}

	competitive, notes := s.CompetitiveAdjustment(in.Competitors)
	mb.CompetitiveAdjustment = competitive
	mb.Rationale = append(mb.Rationale, notes...)

	if in.ZoneRisk.IsPositive() {
		mb.Rationale = append(mb.Rationale, fmt.Sprintf("zone risk (%s) +%s", in.ZoneName, percent(in.ZoneRisk)))
	}

	margin := mb.BaseMargin.Add(factory).Add(in.LoyaltyAdjustment).Add(competitive).Add(in.ZoneRisk)
	floor := dec(fin.SurvivalFloor)
	if margin.LessThan(floor) {
		margin = floor
		mb.FloorHit = true
		mb.Rationale = append(mb.Rationale, fmt.Sprintf("margin floor hit, survival margin %s", percent(floor)))
	}
	mb.FinalMargin = margin

	mb.FullCostBase = in.CostBase.Add(in.FinancingCost)
	bid := mb.FullCostBase.Mul(decimal.NewFromInt(1).Add(margin))
	gst := bid.Mul(dec(fin.GSTRate))

	mb.FinalBidValue = bid.Round(2)
	mb.GST = gst.Round(2)
	mb.TotalWithGST = bid.Add(gst).Round(2)
	mb.Rationale = append(mb.Rationale, fmt.Sprintf("final net margin %s", percent(margin)))
	return mb
}

// ResolveCompetitors looks up colliding rivals by id, then by name. Unknown
// rivals are skipped and reported so no adjustment is made for them.
func ResolveCompetitors(ref repositories.ReferenceData, keys []string) (found []*entities.Competitor, unknown []string) {
	all := ref.GetCompetitors()
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		c, err := ref.GetCompetitor(key)
		if err != nil {
			c = nil
			for _, candidate := range all {
				if candidate.Name != "" && strings.Contains(strings.ToLower(key), strings.ToLower(candidate.Name)) {
					c = candidate
					break
				}
			}
		}
		if c == nil {
			unknown = append(unknown, key)
			continue
		}
		if seen[c.CompetitorID] {
			continue
		}
		seen[c.CompetitorID] = true
		found = append(found, c)
	}
	return found, unknown
}
