package priority

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/domain/entities"
	testhelpers "github.com/vsinha/bidengine/pkg/infrastructure/testing"
)

var now = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func newRanker() *Ranker {
	return NewRanker(config.Default(), testhelpers.BuildReferenceData())
}

func daysFromNow(days float64) *time.Time {
	t := now.Add(time.Duration(days * 24 * float64(time.Hour)))
	return &t
}

func TestRank_SamplePortfolio(t *testing.T) {
	entries := newRanker().Rank(testhelpers.BuildSampleRFPs(now), now)
	require.Len(t, entries, 3)

	assert.Equal(t, "RFP-HT-001", entries[0].RFPID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, entities.BandHigh, entries[0].Band)
	assert.Equal(t, entities.FitFromText, entries[0].FitSource)
	assert.InDelta(t, 0.7, entries[0].ProductFit, 1e-9)
	assert.InDelta(t, 0.9, entries[0].Relationship, 1e-9)
	assert.InDelta(t, 1-10.0/90, entries[0].Urgency, 1e-9)
	assert.InDelta(t, 0.8, entries[0].WinProbability, 1e-9)
	assert.Equal(t, 115.6, entries[0].PriorityScore)

	assert.Equal(t, "RFP-LT-002", entries[1].RFPID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, entities.BandMedium, entries[1].Band)
	assert.InDelta(t, 0.875, entries[1].Composite, 1e-9)

	assert.Equal(t, "RFP-FR-003", entries[2].RFPID)
	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, entities.BandLow, entries[2].Band)
	assert.Equal(t, 0.0, entries[2].Urgency)
	assert.InDelta(t, 0.45, entries[2].Composite, 1e-9)
}

func TestRank_ArchivedExcluded(t *testing.T) {
	portfolio := testhelpers.BuildSampleRFPs(now)
	portfolio[1].Archived = true

	entries := newRanker().Rank(portfolio, now)
	require.Len(t, entries, 3)

	assert.Equal(t, "RFP-HT-001", entries[0].RFPID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "RFP-FR-003", entries[1].RFPID)
	assert.Equal(t, 2, entries[1].Rank)

	assert.Equal(t, "RFP-LT-002", entries[2].RFPID)
	assert.Equal(t, entities.ArchivedRank, entries[2].Rank)
	assert.Equal(t, entities.BandArchived, entries[2].Band)
	assert.True(t, entries[2].IsArchived())
}

func TestRank_PermutationOverActive(t *testing.T) {
	clients := []string{"State Power Corp", "Metro Rail Ltd", "Town Electricals", "Somebody Else"}
	var portfolio []*entities.RFP
	for i := 0; i < 25; i++ {
		portfolio = append(portfolio, &entities.RFP{
			ID:                 fmt.Sprintf("RFP-%03d", i),
			ClientName:         clients[i%len(clients)],
			SubmissionDeadline: daysFromNow(float64(i*7%120) - 10),
			Archived:           i%6 == 0,
			LineItems: []entities.RFPLineItem{
				{LotID: "LOT-1", RawDescription: "copper cable", Quantity: 100},
			},
		})
	}

	entries := newRanker().Rank(portfolio, now)
	require.Len(t, entries, len(portfolio))

	var ranks []int
	for _, e := range entries {
		if e.IsArchived() {
			assert.Equal(t, entities.BandArchived, e.Band)
			continue
		}
		ranks = append(ranks, e.Rank)
	}
	sort.Ints(ranks)
	activeCount := 0
	for _, rfp := range portfolio {
		if rfp.IsActive() {
			activeCount++
		}
	}
	require.Len(t, ranks, activeCount)
	for i, r := range ranks {
		assert.Equal(t, i+1, r)
	}

	for i := 1; i < activeCount; i++ {
		assert.GreaterOrEqual(t, entries[i-1].Composite, entries[i].Composite)
	}
}

func TestRank_TiesGoToLowestID(t *testing.T) {
	same := func(id string) *entities.RFP {
		return &entities.RFP{ID: id, ClientName: "Acme", LineItems: []entities.RFPLineItem{{LotID: "L", Quantity: 1}}}
	}

	entries := newRanker().Rank([]*entities.RFP{same("RFP-B"), same("RFP-C"), same("RFP-A")}, now)
	assert.Equal(t, []string{"RFP-A", "RFP-B", "RFP-C"}, []string{entries[0].RFPID, entries[1].RFPID, entries[2].RFPID})
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, newRanker().Rank(nil, now))
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name     string
		deadline *time.Time
		expected float64
	}{
		{"missing", nil, 0},
		{"expired", daysFromNow(-0.5), 0},
		{"due today", daysFromNow(0.2), 1},
		{"half window", daysFromNow(45), 0.5},
		{"partial day floors", daysFromNow(45.9), 0.5},
		{"beyond window", daysFromNow(200), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Urgency(tt.deadline, now, 90), 1e-9)
		})
	}
}

func TestRelationship(t *testing.T) {
	ref := testhelpers.BuildReferenceData()
	_ = ref.LoadClients([]*entities.Client{{ClientName: "Plain Client", LoyaltyStatus: "None"}})
	r := NewRanker(config.Default(), ref)

	assert.Equal(t, RelationshipGold, r.Relationship("State Power Corp"))
	assert.Equal(t, RelationshipSilver, r.Relationship("metro rail ltd"))
	assert.Equal(t, RelationshipBronze, r.Relationship("Town Electricals"))
	assert.Equal(t, RelationshipKnown, r.Relationship("Plain Client"))
	assert.Equal(t, RelationshipUnknown, r.Relationship("Nobody"))
}

func TestFitBand(t *testing.T) {
	tests := []struct {
		similarity float64
		expected   float64
	}{
		{1, 1}, {0.65, 1}, {0.649, 0.7}, {0.4, 0.7}, {0.39, 0.4}, {0.2, 0.4}, {0.19, 0}, {0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FitBand(tt.similarity), "similarity %v", tt.similarity)
	}
}

func TestProductFit_PrefersMatchReport(t *testing.T) {
	r := newRanker()
	rfp := testhelpers.BuildSampleRFPs(now)[0]
	rfp.Match = &entities.MatchReport{LineItems: []entities.LineItemMatch{
		{LotID: "LOT-1", Best: entities.MatchResult{Score: 100}},
		{LotID: "LOT-2", Best: entities.MatchResult{Score: 80}},
	}}

	fit, source := r.ProductFit(rfp)
	assert.InDelta(t, 0.9, fit, 1e-9)
	assert.Equal(t, entities.FitFromMatch, source)

	rfp.Match = nil
	rfp.LineItems = nil
	fit, source = r.ProductFit(rfp)
	assert.Equal(t, 0.0, fit)
	assert.Equal(t, entities.FitFromText, source)
}

func TestScore_Weights(t *testing.T) {
	cfg := config.Default()
	cfg.Priority.FitWeight = 1
	cfg.Priority.RelationshipWeight = 0
	r := NewRanker(cfg, testhelpers.BuildReferenceData())

	entry := r.Score(testhelpers.BuildSampleRFPs(now)[2], now)
	assert.InDelta(t, entry.ProductFit, entry.WinProbability, 1e-9)
}

func TestBand(t *testing.T) {
	assert.Equal(t, entities.BandHigh, Band(1, 1))
	assert.Equal(t, entities.BandHigh, Band(4, 10))
	assert.Equal(t, entities.BandMedium, Band(5, 10))
	assert.Equal(t, entities.BandMedium, Band(7, 10))
	assert.Equal(t, entities.BandLow, Band(8, 10))
	assert.Equal(t, entities.BandMedium, Band(2, 2))
}
