package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
	"github.com/vsinha/bidengine/pkg/domain/services"
)

// FieldKind selects the scoring rule applied to a requirement field
type FieldKind int

const (
	ExactField FieldKind = iota
	VoltageField
	ProportionalField
	SynonymField
	StandardsField
	ContainsField
)

// String method for FieldKind enum
func (k FieldKind) String() string {
	switch k {
	case ExactField:
		return "Exact"
	case VoltageField:
		return "Voltage"
	case ProportionalField:
		return "Proportional"
	case SynonymField:
		return "Synonym"
	case StandardsField:
		return "Standards"
	case ContainsField:
		return "Contains"
	default:
		return "Unknown"
	}
}

// FieldRule binds a requirement field to its scoring rule and weight
type FieldRule struct {
	Field  string
	Kind   FieldKind
	Weight float64
}

// fieldKinds lists the scored fields in report order
var fieldKinds = []struct {
	field string
	kind  FieldKind
}{
	{entities.ReqVoltageGrade, VoltageField},
	{entities.ReqCoreCount, ExactField},
	{entities.ReqCrossSection, ProportionalField},
	{entities.ReqConductorMaterial, SynonymField},
	{entities.ReqStandards, StandardsField},
	{entities.ReqInsulation, ContainsField},
	{entities.ReqSheath, ContainsField},
	{entities.ReqArmourType, ContainsField},
}

// Number of alternative products kept per line item
const candidateCount = 3

// SpecMatcher scores catalog products against RFP line item requirements
type SpecMatcher struct {
	rules []FieldRule
}

// NewSpecMatcher creates a matcher from per-field weights, which must sum to 100
func NewSpecMatcher(weights map[string]float64) (*SpecMatcher, error) {
	rules := make([]FieldRule, 0, len(fieldKinds))
	total := 0.0
	for _, fk := range fieldKinds {
		w, ok := weights[fk.field]
		if !ok {
			return nil, fmt.Errorf("missing weight for field %s", fk.field)
		}
		if w < 0 {
			return nil, fmt.Errorf("weight for field %s cannot be negative, got %v", fk.field, w)
		}
		total += w
		rules = append(rules, FieldRule{Field: fk.field, Kind: fk.kind, Weight: w})
	}
	if math.Abs(total-100) > 1e-9 {
		return nil, fmt.Errorf("field weights must sum to 100, got %v", total)
	}
	return &SpecMatcher{rules: rules}, nil
}

// Rules returns the field rules in report order
func (m *SpecMatcher) Rules() []FieldRule {
	return append([]FieldRule(nil), m.rules...)
}

// Score rates one product's specs against one set of requirements.
// The returned score is in [0,100] with one FieldScore per rule.
func (m *SpecMatcher) Score(requirements, specs map[string]any) entities.MatchResult {
	return m.scoreSheets(DecodeSpecSheet(requirements), DecodeSpecSheet(specs))
}

func (m *SpecMatcher) scoreSheets(req, cand SpecSheet) entities.MatchResult {
	title := cases.Title(language.English)
	result := entities.MatchResult{Fields: make([]entities.FieldScore, 0, len(m.rules))}

	total := 0.0
	for _, rule := range m.rules {
		requested := req.Value(rule.Field)
		offered := cand.Value(rule.Field)

		fs := entities.FieldScore{
			Field:     rule.Field,
			Label:     title.String(strings.ReplaceAll(rule.Field, "_", " ")),
			Requested: display(requested),
			Offered:   display(offered),
			Weight:    rule.Weight,
		}

		if isWildcard(requested) {
			fs.Credit = 1
			fs.Status = entities.StatusWildcard
		} else {
			fs.Credit = FieldCredit(rule.Kind, requested, offered)
			fs.Status = statusFor(fs.Credit)
		}
		fs.Contribution = rule.Weight * fs.Credit
		total += fs.Contribution

		result.Fields = append(result.Fields, fs)
	}

	result.Score = round(total, 1)
	return result
}

// FieldCredit applies one field rule and returns a credit in [0,1].
// The requirement is assumed not to be the wildcard.
func FieldCredit(kind FieldKind, requested, offered any) float64 {
	switch kind {
	case ExactField:
		return exactCredit(requested, offered)
	case VoltageField:
		return VoltageCredit(requested, offered)
	case ProportionalField:
		return ProportionalCredit(requested, offered)
	case SynonymField:
		r := services.CanonicalMaterial(requested)
		if r != "" && r == services.CanonicalMaterial(offered) {
			return 1
		}
		return 0
	case StandardsField:
		return StandardsCredit(toStrings(requested), toStrings(offered))
	case ContainsField:
		return containsCredit(requested, offered)
	}
	return 0
}

func exactCredit(requested, offered any) float64 {
	r, rok := services.ExtractNumber(requested)
	c, cok := services.ExtractNumber(offered)
	if rok && cok {
		if r == c {
			return 1
		}
		return 0
	}
	rt := services.NormalizeText(requested)
	if rt != "" && rt == services.NormalizeText(offered) {
		return 1
	}
	return 0
}

// VoltageCredit is 1 for equal canonical voltages, 0.5 within 10% of the
// requirement and 0 otherwise. Unreadable values never earn credit.
func VoltageCredit(requested, offered any) float64 {
	r, rok := services.CanonicalVoltage(requested)
	c, cok := services.CanonicalVoltage(offered)
	if !rok || !cok {
		return 0
	}
	if r == c {
		return 1
	}
	if r > 0 && math.Abs(r-c)/r < 0.1 {
		return 0.5
	}
	return 0
}

// ProportionalCredit is max(0, 1 - |c-r|/r), rounded to 3 decimals
func ProportionalCredit(requested, offered any) float64 {
	r, rok := services.ExtractNumber(requested)
	c, cok := services.ExtractNumber(offered)
	if !rok || !cok || r <= 0 {
		return 0
	}
	return round(math.Max(0, 1-math.Abs(c-r)/r), 3)
}

// StandardsCredit splits a weight of 1 across the required standards. The
// generic quality mark is always met; anything else must appear in the
// offered set after canonicalization.
func StandardsCredit(required, offered []string) float64 {
	var reqs []string
	for _, s := range required {
		if !services.IsUnspecified(s) {
			reqs = append(reqs, services.CanonicalStandard(s))
		}
	}
	if len(reqs) == 0 {
		return 1
	}

	have := make(map[string]bool, len(offered))
	for _, s := range offered {
		have[services.CanonicalStandard(s)] = true
	}

	per := 1.0 / float64(len(reqs))
	credit := 0.0
	for _, std := range reqs {
		if std == services.QualityMarked || have[std] {
			credit += per
		}
	}
	return math.Min(credit, 1)
}

func containsCredit(requested, offered any) float64 {
	r := services.NormalizeText(requested)
	c := services.NormalizeText(offered)
	if r == "" || c == "" {
		return 0
	}
	if strings.Contains(r, c) || strings.Contains(c, r) {
		return 1
	}
	return 0
}

// BestMatch scores every catalog product and keeps the highest. Ties go to
// the lowest product id so the choice never depends on catalog load order.
func (m *SpecMatcher) BestMatch(item entities.RFPLineItem, catalog []*entities.ProductSKU) entities.LineItemMatch {
	sheets := make([]SpecSheet, len(catalog))
	for i, p := range catalog {
		sheets[i] = DecodeSpecSheet(p.TechnicalSpecs)
	}
	return m.bestMatch(item, catalog, sheets)
}

func (m *SpecMatcher) bestMatch(item entities.RFPLineItem, catalog []*entities.ProductSKU, sheets []SpecSheet) entities.LineItemMatch {
	lim := entities.LineItemMatch{
		LotID:          item.LotID,
		RawDescription: item.RawDescription,
		Quantity:       item.Quantity,
	}

	if len(catalog) == 0 {
		lim.Best = entities.MatchResult{
			ProductID:   entities.NoMatchProductID,
			ProductName: "No Suitable Product Found",
		}
		lim.Compliance, lim.ComplianceColour = Compliance(0)
		return lim
	}

	req := DecodeSpecSheet(item.Requirements)
	results := make([]entities.MatchResult, len(catalog))
	for i, p := range catalog {
		r := m.scoreSheets(req, sheets[i])
		r.ProductID = p.ProductID
		r.ProductName = p.ProductName
		results[i] = r
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ProductID < results[j].ProductID
	})

	lim.Best = results[0]
	n := min(candidateCount, len(results))
	lim.Candidates = make([]entities.MatchResult, n)
	for i := 0; i < n; i++ {
		lim.Candidates[i] = entities.MatchResult{
			ProductID:   results[i].ProductID,
			ProductName: results[i].ProductName,
			Score:       results[i].Score,
		}
	}
	lim.Compliance, lim.ComplianceColour = Compliance(lim.Best.Score)
	return lim
}

// MatchRFP selects a product for every line item and reports competitor collisions
func (m *SpecMatcher) MatchRFP(rfp *entities.RFP, ref repositories.ReferenceData) *entities.MatchReport {
	catalog := ref.GetProducts()
	sheets := make([]SpecSheet, len(catalog))
	for i, p := range catalog {
		sheets[i] = DecodeSpecSheet(p.TechnicalSpecs)
	}

	report := &entities.MatchReport{
		LineItems: make([]entities.LineItemMatch, 0, len(rfp.LineItems)),
	}
	for _, item := range rfp.LineItems {
		report.LineItems = append(report.LineItems, m.bestMatch(item, catalog, sheets))
	}
	report.Collisions = AnalyzeCollisions(report.LineItems, ref.GetCompetitors())
	return report
}

// Compliance labels a match score and picks its report colour
func Compliance(score float64) (status, colour string) {
	status = entities.ComplianceDeviation
	if score >= 100 {
		status = entities.ComplianceCompliant
	}
	switch {
	case score >= 80:
		colour = "green"
	case score >= 50:
		colour = "amber"
	default:
		colour = "red"
	}
	return status, colour
}

func isWildcard(v any) bool {
	if list, ok := v.([]string); ok {
		for _, s := range list {
			if !services.IsUnspecified(s) {
				return false
			}
		}
		return true
	}
	return services.IsUnspecified(v)
}

func statusFor(credit float64) entities.MatchStatus {
	switch {
	case credit >= 1:
		return entities.StatusMatch
	case credit <= 0:
		return entities.StatusMismatch
	default:
		return entities.StatusPartial
	}
}

func display(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(val, ", ")
	case string:
		return val
	}
	return fmt.Sprint(v)
}

func toStrings(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	}
	return nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
