package dto

import (
	"time"

	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// RFPSummary is the one-line view of an RFP shown in listings
type RFPSummary struct {
	ID            string     `json:"id"`
	Client        string     `json:"client"`
	Location      string     `json:"location"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	LineItems     int        `json:"line_items"`
	Archived      bool       `json:"archived"`
	MatchScore    *float64   `json:"match_score,omitempty"`
	FinalBid      string     `json:"final_bid,omitempty"`
	TotalWithGST  string     `json:"total_with_gst,omitempty"`
	FinalMargin   string     `json:"final_margin,omitempty"`
	Rank          int        `json:"rank,omitempty"`
	Band          string     `json:"band,omitempty"`
	PriorityScore float64    `json:"priority_score,omitempty"`
}

// SummarizeRFP flattens an RFP and its derived outputs
func SummarizeRFP(rfp *entities.RFP) RFPSummary {
	s := RFPSummary{
		ID:        rfp.ID,
		Client:    rfp.ClientName,
		Location:  rfp.DeliveryLocation,
		Deadline:  rfp.SubmissionDeadline,
		LineItems: len(rfp.LineItems),
		Archived:  rfp.Archived,
	}
	if avg, ok := rfp.Match.AverageScore(); ok {
		s.MatchScore = &avg
	}
	if rfp.Bid != nil {
		s.FinalBid = rfp.Bid.FinalBidValue.StringFixed(2)
		s.TotalWithGST = rfp.Bid.TotalWithGST.StringFixed(2)
		s.FinalMargin = rfp.Bid.Margin.FinalMargin.String()
	}
	if rfp.Priority != nil {
		s.Rank = rfp.Priority.Rank
		s.Band = rfp.Priority.Band
		s.PriorityScore = rfp.Priority.PriorityScore
	}
	return s
}

// SummarizeRFPs summarizes a list, keeping its order
func SummarizeRFPs(rfps []*entities.RFP) []RFPSummary {
	out := make([]RFPSummary, len(rfps))
	for i, rfp := range rfps {
		out[i] = SummarizeRFP(rfp)
	}
	return out
}

// ErrorResponse is the JSON body of every failed API call
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
