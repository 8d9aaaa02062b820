package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/domain/entities"
	testhelpers "github.com/vsinha/bidengine/pkg/infrastructure/testing"
)

func newMatcher(t *testing.T) *SpecMatcher {
	t.Helper()
	m, err := NewSpecMatcher(config.DefaultWeights())
	require.NoError(t, err)
	return m
}

func TestNewSpecMatcher_Validation(t *testing.T) {
	missing := config.DefaultWeights()
	delete(missing, entities.ReqSheath)

	negative := config.DefaultWeights()
	negative[entities.ReqSheath] = -5
	negative[entities.ReqArmourType] = 15

	short := config.DefaultWeights()
	short[entities.ReqSheath] = 0

	tests := []struct {
		name    string
		weights map[string]float64
		errMsg  string
	}{
		{"missing field", missing, "missing weight for field sheath"},
		{"negative weight", negative, "weight for field sheath cannot be negative"},
		{"does not sum to 100", short, "field weights must sum to 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSpecMatcher(tt.weights)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSpecMatcher_RulesFollowReportOrder(t *testing.T) {
	rules := newMatcher(t).Rules()
	require.Len(t, rules, 8)
	assert.Equal(t, entities.ReqVoltageGrade, rules[0].Field)
	assert.Equal(t, VoltageField, rules[0].Kind)
	assert.Equal(t, entities.ReqArmourType, rules[7].Field)
	assert.Equal(t, "Contains", rules[7].Kind.String())
}

func TestProportionalCredit(t *testing.T) {
	tests := []struct {
		name      string
		requested any
		offered   any
		expected  float64
	}{
		{"exact", 400, 400, 1},
		{"slightly under", "400", 380, 0.95},
		{"with units", "400 sqmm", "380 sq mm", 0.95},
		{"zero candidate floors at zero", 400, 0, 0},
		{"far over floors at zero", 400, 900, 0},
		{"zero requirement", 0, 10, 0},
		{"unreadable", "large", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ProportionalCredit(tt.requested, tt.offered), 1e-9)
		})
	}
}

func TestProportionalCredit_MonotonicInDeviation(t *testing.T) {
	prev := 1.0
	for _, c := range []float64{400, 390, 360, 300, 200, 50, 0} {
		credit := ProportionalCredit(400.0, c)
		assert.LessOrEqual(t, credit, prev, "candidate %v", c)
		assert.GreaterOrEqual(t, credit, 0.0)
		prev = credit
	}
}

func TestVoltageCredit(t *testing.T) {
	tests := []struct {
		name      string
		requested any
		offered   any
		expected  float64
	}{
		{"same kilo form", "11kV", "11 KV", 1},
		{"kilo against volts", "11kV", "11000", 1},
		{"bare small number is kilo", "1.1", "1100 V", 1},
		{"within ten percent", "11kV", "10.5kV", 0.5},
		{"outside ten percent", "11kV", "33kV", 0},
		{"unreadable requirement", "high tension", "11kV", 0},
		{"unreadable offer", "11kV", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VoltageCredit(tt.requested, tt.offered))
		})
	}
}

func TestStandardsCredit(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		offered  []string
		expected float64
	}{
		{"one of two satisfied", []string{"IS 7098", "IEC 60502"}, []string{"IS 7098:1988"}, 0.5},
		{"year and qualifier stripped", []string{"IS 7098 (Part 2):2011"}, []string{"is 7098"}, 1},
		{"quality mark always met", []string{"ISI Marked", "IEC 60502"}, nil, 0.5},
		{"nothing required", nil, []string{"IS 694"}, 1},
		{"only wildcards required", []string{entities.NotSpecified}, nil, 1},
		{"none satisfied", []string{"BS 6346"}, []string{"IS 694"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, StandardsCredit(tt.required, tt.offered), 1e-9)
		})
	}
}

func TestFieldCredit_SynonymAndContains(t *testing.T) {
	assert.Equal(t, 1.0, FieldCredit(SynonymField, "Aluminum", "AL"))
	assert.Equal(t, 1.0, FieldCredit(SynonymField, "Cu", "Copper (annealed)"))
	assert.Equal(t, 0.0, FieldCredit(SynonymField, "Copper", "Aluminium"))

	assert.Equal(t, 1.0, FieldCredit(ContainsField, "PVC", "PVC ST2"))
	assert.Equal(t, 1.0, FieldCredit(ContainsField, "Galvanised Steel Wire", "steel wire"))
	assert.Equal(t, 0.0, FieldCredit(ContainsField, "XLPE", "PVC"))
	assert.Equal(t, 0.0, FieldCredit(ContainsField, "XLPE", ""))

	assert.Equal(t, 1.0, FieldCredit(ExactField, "3", 3))
	assert.Equal(t, 0.0, FieldCredit(ExactField, "3", 4))
	assert.Equal(t, 1.0, FieldCredit(ExactField, "three", "Three"))
}

func TestSpecMatcher_ScoreWildcardGivesFullCredit(t *testing.T) {
	m := newMatcher(t)

	requirements := map[string]any{
		entities.ReqVoltageGrade:      entities.NotSpecified,
		entities.ReqCoreCount:         entities.NotSpecified,
		entities.ReqCrossSection:      "",
		entities.ReqConductorMaterial: "not specified",
		entities.ReqStandards:         []any{entities.NotSpecified},
	}
	specs := map[string]any{
		entities.ReqVoltageGrade: "33kV",
		entities.ReqCoreCount:    1,
	}

	result := m.Score(requirements, specs)
	assert.Equal(t, 100.0, result.Score)
	require.Len(t, result.Fields, 8)
	for _, f := range result.Fields {
		assert.Equal(t, entities.StatusWildcard, f.Status, f.Field)
		assert.Equal(t, 1.0, f.Credit, f.Field)
	}
}

func TestSpecMatcher_ScoreBreakdown(t *testing.T) {
	m := newMatcher(t)

	requirements := map[string]any{
		entities.ReqVoltageGrade:      "11kV",
		entities.ReqCoreCount:         "3",
		entities.ReqCrossSection:      "400",
		entities.ReqConductorMaterial: "Copper",
		entities.ReqStandards:         []any{"IS 7098", "IEC 60502"},
		entities.ReqInsulation:        "XLPE",
		entities.ReqSheath:            "PVC",
		entities.ReqArmourType:        "Steel Wire",
	}
	specs := map[string]any{
		entities.ReqVoltageGrade:      "11kV",
		entities.ReqCoreCount:         4,
		entities.ReqCrossSection:      380,
		entities.ReqConductorMaterial: "Cu",
		entities.ReqStandards:         "IS 7098:1988",
		entities.ReqInsulation:        "XLPE",
		entities.ReqSheath:            "PE",
		entities.ReqArmourType:        "Galvanised Steel Wire",
	}

	result := m.Score(requirements, specs)

	// 20 + 0 + 15*0.95 + 15 + 15*0.5 + 10 + 0 + 5 = 71.75
	assert.InDelta(t, 71.75, result.Score, 0.051)

	byField := make(map[string]entities.FieldScore)
	for _, f := range result.Fields {
		byField[f.Field] = f
	}
	assert.Equal(t, entities.StatusMismatch, byField[entities.ReqCoreCount].Status)
	assert.Equal(t, entities.StatusPartial, byField[entities.ReqCrossSection].Status)
	assert.InDelta(t, 0.95, byField[entities.ReqCrossSection].Credit, 1e-9)
	assert.InDelta(t, 0.5, byField[entities.ReqStandards].Credit, 1e-9)
	assert.Equal(t, "Cross Section Sqmm", byField[entities.ReqCrossSection].Label)
	assert.Equal(t, "4", byField[entities.ReqCoreCount].Offered)
	assert.Equal(t, "IS 7098, IEC 60502", byField[entities.ReqStandards].Requested)
}

func TestSpecMatcher_ScoreStaysInRange(t *testing.T) {
	m := newMatcher(t)
	ref := testhelpers.BuildReferenceData()

	for _, rfp := range testhelpers.BuildSampleRFPs(fixedNow) {
		for _, p := range ref.GetProducts() {
			result := m.Score(rfp.LineItems[0].Requirements, p.TechnicalSpecs)
			assert.GreaterOrEqual(t, result.Score, 0.0)
			assert.LessOrEqual(t, result.Score, 100.0)
			for _, f := range result.Fields {
				assert.GreaterOrEqual(t, f.Credit, 0.0)
				assert.LessOrEqual(t, f.Credit, 1.0)
			}
		}
	}

	for _, bad := range []string{"NaN", "Inf", "-Inf"} {
		for _, pair := range [][2]string{{bad, "400"}, {"400", bad}} {
			result := m.Score(
				entities.Requirements{entities.ReqCrossSection: pair[0]},
				map[string]any{entities.ReqCrossSection: pair[1]},
			)
			assert.False(t, math.IsNaN(result.Score), "%s vs %s", pair[0], pair[1])
			assert.GreaterOrEqual(t, result.Score, 0.0)
			assert.LessOrEqual(t, result.Score, 100.0)
			for _, f := range result.Fields {
				if f.Field == entities.ReqCrossSection {
					assert.Equal(t, 0.0, f.Credit, "%s vs %s", pair[0], pair[1])
				}
			}
		}
	}
}

func TestSpecMatcher_BestMatchTieGoesToLowestProductID(t *testing.T) {
	m := newMatcher(t)
	specs := map[string]any{entities.ReqVoltageGrade: "11kV"}
	catalog := []*entities.ProductSKU{
		{ProductID: "SKU-C", ProductName: "C", TechnicalSpecs: specs},
		{ProductID: "SKU-A", ProductName: "A", TechnicalSpecs: specs},
		{ProductID: "SKU-B", ProductName: "B", TechnicalSpecs: specs},
	}
	item := entities.RFPLineItem{
		LotID:        "LOT-1",
		Requirements: entities.Requirements{entities.ReqVoltageGrade: "11kV"},
	}

	match := m.BestMatch(item, catalog)
	assert.Equal(t, "SKU-A", match.Best.ProductID)
	require.Len(t, match.Candidates, 3)
	assert.Equal(t, []string{"SKU-A", "SKU-B", "SKU-C"}, []string{
		match.Candidates[0].ProductID, match.Candidates[1].ProductID, match.Candidates[2].ProductID,
	})
}

func TestSpecMatcher_BestMatchKeepsTopThree(t *testing.T) {
	m := newMatcher(t)
	ref := testhelpers.BuildReferenceData()
	rfp := testhelpers.BuildSampleRFPs(fixedNow)[0]

	match := m.BestMatch(rfp.LineItems[0], ref.GetProducts())

	assert.Equal(t, testhelpers.ProductHT11Copper, match.Best.ProductID)
	assert.Equal(t, 100.0, match.Best.Score)
	assert.Len(t, match.Best.Fields, 8)
	assert.Equal(t, entities.ComplianceCompliant, match.Compliance)
	assert.Equal(t, "green", match.ComplianceColour)

	require.Len(t, match.Candidates, 3)
	assert.Equal(t, match.Best.ProductID, match.Candidates[0].ProductID)
	for i := 1; i < len(match.Candidates); i++ {
		assert.GreaterOrEqual(t, match.Candidates[i-1].Score, match.Candidates[i].Score)
		assert.Empty(t, match.Candidates[i].Fields)
	}
}

func TestSpecMatcher_BestMatchEmptyCatalog(t *testing.T) {
	m := newMatcher(t)

	match := m.BestMatch(entities.RFPLineItem{LotID: "LOT-1"}, nil)
	assert.Equal(t, entities.NoMatchProductID, match.Best.ProductID)
	assert.Equal(t, "No Suitable Product Found", match.Best.ProductName)
	assert.Equal(t, entities.ComplianceDeviation, match.Compliance)
	assert.Equal(t, "red", match.ComplianceColour)
}

func TestSpecMatcher_MatchRFP(t *testing.T) {
	m := newMatcher(t)
	ref := testhelpers.BuildReferenceData()
	rfps := testhelpers.BuildSampleRFPs(fixedNow)

	expected := map[string]string{
		"RFP-HT-001": testhelpers.ProductHT11Copper,
		"RFP-LT-002": testhelpers.ProductLTAluminium,
		"RFP-FR-003": testhelpers.ProductLTFRLS,
	}

	for _, rfp := range rfps {
		report := m.MatchRFP(rfp, ref)
		require.Len(t, report.LineItems, 1, rfp.ID)
		assert.Equal(t, expected[rfp.ID], report.LineItems[0].Best.ProductID, rfp.ID)
		assert.Equal(t, 100.0, report.LineItems[0].Best.Score, rfp.ID)
	}

	report := m.MatchRFP(rfps[0], ref)
	require.Len(t, report.Collisions, 2)
	assert.Equal(t, "C-001", report.Collisions[0].CompetitorID)
	assert.Equal(t, "C-002", report.Collisions[1].CompetitorID)
	assert.Equal(t, CollisionRisk, report.Collisions[0].Risk)
	assert.Equal(t, []string{"C-001", "C-002"}, report.CompetitorIDs())
}

func TestAnalyzeCollisions_SkipsNoMatch(t *testing.T) {
	competitors := []*entities.Competitor{
		{CompetitorID: "C1", Name: "One", CollidingSKUs: []string{entities.NoMatchProductID, "SKU-1"}},
	}
	items := []entities.LineItemMatch{
		{LotID: "LOT-1", Best: entities.MatchResult{ProductID: entities.NoMatchProductID}},
		{LotID: "LOT-2", Best: entities.MatchResult{ProductID: "SKU-1"}},
	}

	collisions := AnalyzeCollisions(items, competitors)
	require.Len(t, collisions, 1)
	assert.Equal(t, "LOT-2", collisions[0].LotID)
	assert.Equal(t, "One", collisions[0].Competitor)
}

func TestCompliance(t *testing.T) {
	tests := []struct {
		score  float64
		status string
		colour string
	}{
		{100, entities.ComplianceCompliant, "green"},
		{99.9, entities.ComplianceDeviation, "green"},
		{80, entities.ComplianceDeviation, "green"},
		{79.9, entities.ComplianceDeviation, "amber"},
		{50, entities.ComplianceDeviation, "amber"},
		{49.9, entities.ComplianceDeviation, "red"},
	}

	for _, tt := range tests {
		status, colour := Compliance(tt.score)
		assert.Equal(t, tt.status, status, "score %v", tt.score)
		assert.Equal(t, tt.colour, colour, "score %v", tt.score)
	}
}
