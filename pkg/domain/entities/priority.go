package entities

// ArchivedRank is the sentinel rank carried by archived RFPs
const ArchivedRank = -1

// Priority bands, thirds of the active ranking
const (
	BandHigh     = "High"
	BandMedium   = "Medium"
	BandLow      = "Low"
	BandArchived = "Archived"
)

// Sources of the product-fit score
const (
	FitFromMatch = "match"
	FitFromText  = "text"
)

// PriorityEntry is the ranking output for one RFP
type PriorityEntry struct {
	RFPID          string  `json:"rfp_id"`
	ProductFit     float64 `json:"product_fit"`
	FitSource      string  `json:"fit_source,omitempty"`
	Relationship   float64 `json:"relationship"`
	Urgency        float64 `json:"urgency"`
	WinProbability float64 `json:"win_probability"`
	Composite      float64 `json:"composite"`
	PriorityScore  float64 `json:"priority_score"`
	Rank           int     `json:"rank"`
	Band           string  `json:"band"`
}

// IsArchived reports whether the entry carries the archived sentinel
func (p PriorityEntry) IsArchived() bool {
	return p.Rank == ArchivedRank
}
