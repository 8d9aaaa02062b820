package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RFPIngestedEvent          = "rfp.ingested"
	RFPMatchedEvent           = "rfp.matched"
	BidComputedEvent          = "bid.computed"
	RFPArchivedEvent          = "rfp.archived"
	RFPRestoredEvent          = "rfp.restored"
	PrioritiesRecomputedEvent = "priorities.recomputed"
)

// PortfolioStream carries events that concern every RFP at once
const PortfolioStream = "portfolio"

type RFPIngested struct {
	RFPID     string `json:"rfp_id"`
	Client    string `json:"client"`
	LineItems int    `json:"line_items"`
}

type RFPMatched struct {
	RFPID        string  `json:"rfp_id"`
	AverageScore float64 `json:"average_score"`
	Collisions   int     `json:"collisions"`
}

type BidComputed struct {
	RFPID         string          `json:"rfp_id"`
	BaseCost      decimal.Decimal `json:"base_cost"`
	FinalMargin   decimal.Decimal `json:"final_margin"`
	FinalBidValue decimal.Decimal `json:"final_bid_value"`
	FloorHit      bool            `json:"floor_hit"`
}

type RFPArchiveChanged struct {
	RFPID    string `json:"rfp_id"`
	Archived bool   `json:"archived"`
}

type PrioritiesRecomputed struct {
	Active   int           `json:"active"`
	Archived int           `json:"archived"`
	TopRFPID string        `json:"top_rfp_id,omitempty"`
	Duration time.Duration `json:"duration"`
}
