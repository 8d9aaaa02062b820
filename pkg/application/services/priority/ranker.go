package priority

import (
	"math"
	"sort"
	"time"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
	"github.com/vsinha/bidengine/pkg/domain/services"
)

// Relationship scores by loyalty tier
const (
	RelationshipGold    = 0.9
	RelationshipSilver  = 0.8
	RelationshipBronze  = 0.7
	RelationshipKnown   = 0.6
	RelationshipUnknown = 0.5
)

// fitBands quantizes text similarity into a coarse product-fit estimate
var fitBands = []struct {
	threshold float64
	fit       float64
}{
	{0.65, 1.0},
	{0.40, 0.7},
	{0.20, 0.4},
}

// Ranker orders the open portfolio by urgency-adjusted win likelihood
type Ranker struct {
	cfg config.PriorityConfig
	ref repositories.ReferenceData
}

// NewRanker creates a ranker over the client and catalog reference data
func NewRanker(cfg config.Config, ref repositories.ReferenceData) *Ranker {
	return &Ranker{cfg: cfg.Priority, ref: ref}
}

// FitBand maps a similarity in [0,1] to its product-fit band
func FitBand(similarity float64) float64 {
	for _, b := range fitBands {
		if similarity >= b.threshold {
			return b.fit
		}
	}
	return 0
}

// ProductFit uses the technical match when one exists, otherwise the best
// word overlap between each lot description and the catalog product names.
func (r *Ranker) ProductFit(rfp *entities.RFP) (float64, string) {
	if avg, ok := rfp.Match.AverageScore(); ok {
		return clamp01(avg / 100), entities.FitFromMatch
	}
	if len(rfp.LineItems) == 0 {
		return 0, entities.FitFromText
	}

	products := r.ref.GetProducts()
	names := make([]map[string]struct{}, len(products))
	for i, p := range products {
		names[i] = services.Tokenize(p.ProductName)
	}

	total := 0.0
	for _, item := range rfp.LineItems {
		desc := services.Tokenize(item.RawDescription)
		best := 0.0
		for _, name := range names {
			if sim := services.Jaccard(desc, name); sim > best {
				best = sim
			}
		}
		total += FitBand(best)
	}
	return total / float64(len(rfp.LineItems)), entities.FitFromText
}

// Relationship scores the client by loyalty tier
func (r *Ranker) Relationship(clientName string) float64 {
	client := services.FindClient(r.ref.GetClients(), clientName)
	if client == nil {
		return RelationshipUnknown
	}
	switch client.LoyaltyStatus {
	case entities.LoyaltyGold:
		return RelationshipGold
	case entities.LoyaltySilver:
		return RelationshipSilver
	case entities.LoyaltyBronze:
		return RelationshipBronze
	}
	return RelationshipKnown
}

// Urgency rises linearly from 0 at windowDays out to 1 on the deadline day.
// Missing and expired deadlines score 0.
func Urgency(deadline *time.Time, now time.Time, windowDays int) float64 {
	if deadline == nil || windowDays <= 0 {
		return 0
	}
	days := math.Floor(deadline.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	window := float64(windowDays)
	return 1 - math.Min(days, window)/window
}

// Score computes the unranked priority entry for one RFP
func (r *Ranker) Score(rfp *entities.RFP, now time.Time) entities.PriorityEntry {
	fit, source := r.ProductFit(rfp)
	rel := r.Relationship(rfp.ClientName)
	urgency := Urgency(rfp.SubmissionDeadline, now, r.cfg.UrgencyWindowDays)

	win := 0.0
	if weights := r.cfg.FitWeight + r.cfg.RelationshipWeight; weights > 0 {
		win = (r.cfg.FitWeight*fit + r.cfg.RelationshipWeight*rel) / weights
	}
	composite := win * (1 + r.cfg.Gamma*urgency)

	return entities.PriorityEntry{
		RFPID:          rfp.ID,
		ProductFit:     fit,
		FitSource:      source,
		Relationship:   rel,
		Urgency:        urgency,
		WinProbability: win,
		Composite:      composite,
		PriorityScore:  math.Round(composite*1000) / 10,
	}
}

// Rank scores the whole portfolio in one pass. Active RFPs are ordered by
// composite score, ties by RFP id, and receive ranks 1..N with a band.
// Archived RFPs get ArchivedRank and follow in input order.
func (r *Ranker) Rank(portfolio []*entities.RFP, now time.Time) []entities.PriorityEntry {
	active := make([]entities.PriorityEntry, 0, len(portfolio))
	var archived []entities.PriorityEntry

	for _, rfp := range portfolio {
		entry := r.Score(rfp, now)
		if !rfp.IsActive() {
			entry.Rank = entities.ArchivedRank
			entry.Band = entities.BandArchived
			archived = append(archived, entry)
			continue
		}
		active = append(active, entry)
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Composite != active[j].Composite {
			return active[i].Composite > active[j].Composite
		}
		return active[i].RFPID < active[j].RFPID
	})

	n := len(active)
	for i := range active {
		active[i].Rank = i + 1
		active[i].Band = Band(i+1, n)
	}
	return append(active, archived...)
}

// Band places a rank into thirds of the active portfolio
func Band(rank, total int) string {
	switch {
	case rank <= ceilDiv(total, 3):
		return entities.BandHigh
	case rank <= ceilDiv(2*total, 3):
		return entities.BandMedium
	}
	return entities.BandLow
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
