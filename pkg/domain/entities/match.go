package entities

// MatchStatus classifies how one requirement field was satisfied
type MatchStatus string

const (
	StatusMatch    MatchStatus = "Match"
	StatusPartial  MatchStatus = "Partial"
	StatusMismatch MatchStatus = "Mismatch"
	StatusWildcard MatchStatus = "Wildcard"
)

// Compliance labels for a line item's best match
const (
	ComplianceCompliant = "Compliant"
	ComplianceDeviation = "Deviation"
)

// FieldScore is the audit record for one weighted requirement field
type FieldScore struct {
	Field        string      `json:"field"`
	Label        string      `json:"label"`
	Requested    string      `json:"requested"`
	Offered      string      `json:"offered"`
	Credit       float64     `json:"credit"`
	Weight       float64     `json:"weight"`
	Contribution float64     `json:"contribution"`
	Status       MatchStatus `json:"status"`
}

// MatchResult is the score of one catalog product against one line item
type MatchResult struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	Score       float64      `json:"score"`
	Fields      []FieldScore `json:"fields,omitempty"`
}

// LineItemMatch is the selection made for one RFP line item
type LineItemMatch struct {
	LotID            string        `json:"lot_id"`
	RawDescription   string        `json:"raw_description"`
	Quantity         float64       `json:"quantity"`
	Best             MatchResult   `json:"best"`
	Candidates       []MatchResult `json:"candidates"`
	Compliance       string        `json:"compliance"`
	ComplianceColour string        `json:"compliance_colour"`
}

// CompetitorCollision records a rival offering the product chosen for a lot
type CompetitorCollision struct {
	LotID        string `json:"lot_id"`
	CompetitorID string `json:"competitor_id"`
	Competitor   string `json:"competitor"`
	ProductID    string `json:"product_id"`
	Risk         string `json:"risk"`
}

// MatchReport is the technical output for a whole RFP
type MatchReport struct {
	LineItems  []LineItemMatch       `json:"line_items"`
	Collisions []CompetitorCollision `json:"collisions"`
}

// AverageScore returns the mean best-match score, false when there are no line items
func (m *MatchReport) AverageScore() (float64, bool) {
	if m == nil || len(m.LineItems) == 0 {
		return 0, false
	}
	total := 0.0
	for _, li := range m.LineItems {
		total += li.Best.Score
	}
	return total / float64(len(m.LineItems)), true
}

// CompetitorIDs returns the distinct colliding competitor ids in first-seen order
func (m *MatchReport) CompetitorIDs() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]bool, len(m.Collisions))
	var ids []string
	for _, c := range m.Collisions {
		if seen[c.CompetitorID] {
			continue
		}
		seen[c.CompetitorID] = true
		ids = append(ids, c.CompetitorID)
	}
	return ids
}

// Selection returns the chosen line item match for a lot
func (m *MatchReport) Selection(lotID string) (*LineItemMatch, bool) {
	if m == nil {
		return nil, false
	}
	for i := range m.LineItems {
		if m.LineItems[i].LotID == lotID {
			return &m.LineItems[i], true
		}
	}
	return nil, false
}

// SelectionAt returns the match of the line item at position i. Reports are
// built in line item order, so lots sharing an id still get their own match;
// a report that does not line up falls back to the first lot with that id.
func (m *MatchReport) SelectionAt(i int, lotID string) (*LineItemMatch, bool) {
	if m == nil {
		return nil, false
	}
	if i >= 0 && i < len(m.LineItems) && m.LineItems[i].LotID == lotID {
		return &m.LineItems[i], true
	}
	return m.Selection(lotID)
}

// Clone returns a deep copy of the report
func (m *MatchReport) Clone() *MatchReport {
	if m == nil {
		return nil
	}
	c := &MatchReport{
		LineItems:  make([]LineItemMatch, len(m.LineItems)),
		Collisions: append([]CompetitorCollision(nil), m.Collisions...),
	}
	for i, li := range m.LineItems {
		li.Best.Fields = append([]FieldScore(nil), li.Best.Fields...)
		candidates := make([]MatchResult, len(li.Candidates))
		for j, cand := range li.Candidates {
			cand.Fields = append([]FieldScore(nil), cand.Fields...)
			candidates[j] = cand
		}
		li.Candidates = candidates
		c.LineItems[i] = li
	}
	return c
}
