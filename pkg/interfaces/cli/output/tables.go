package output

import (
	"fmt"
	"strings"

	"github.com/vsinha/bidengine/pkg/application/dto"
	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// RFPTable lists RFP summaries
func RFPTable(summaries []dto.RFPSummary) Table {
	t := Table{
		Title:   "RFPs",
		Headers: []string{"ID", "Client", "Location", "Deadline", "Match", "Final Bid", "Total+GST", "Margin", "Rank", "Band", "Archived"},
		Data:    summaries,
	}
	for _, s := range summaries {
		rank := ""
		if s.Rank > 0 {
			rank = fmt.Sprint(s.Rank)
		}
		t.Rows = append(t.Rows, []any{
			s.ID, s.Client, s.Location, s.Deadline, s.MatchScore,
			s.FinalBid, s.TotalWithGST, s.FinalMargin, rank, s.Band, s.Archived,
		})
	}
	return t
}

// MatchTable lists the selected product per lot followed by competitor collisions
func MatchTable(rfpID string, report *entities.MatchReport) Table {
	t := Table{
		Title:   "Match " + rfpID,
		Headers: []string{"Lot", "Product", "Score", "Compliance", "Competitors"},
		Data:    report,
	}
	if report == nil {
		return t
	}

	rivals := make(map[string][]string)
	for _, c := range report.Collisions {
		rivals[c.LotID] = append(rivals[c.LotID], c.Competitor)
	}
	for _, li := range report.LineItems {
		t.Rows = append(t.Rows, []any{
			li.LotID, li.Best.ProductID, li.Best.Score, li.Compliance, strings.Join(rivals[li.LotID], ", "),
		})
	}
	return t
}

// BidTable lists the cost summary lines and the pricing totals of a bid
func BidTable(bid *entities.BidComputation) Table {
	t := Table{
		Title:   "Bid " + bid.RFPID,
		Headers: []string{"Item", "Amount", "Note"},
		Data:    bid,
	}
	for _, line := range bid.Cost.Summary {
		t.Rows = append(t.Rows, []any{line.Category, line.Amount, line.Rationale})
	}

	m := bid.Margin
	floor := ""
	if m.FloorHit {
		floor = "survival floor applied"
	}
	t.Rows = append(t.Rows,
		[]any{"base_cost", bid.Cost.BaseCost, ""},
		[]any{"financing", bid.Cost.Financing, fmt.Sprintf("%d credit days", bid.Cost.CreditDays)},
		[]any{"final_margin", m.FinalMargin.String(), floor},
		[]any{"final_bid_value", bid.FinalBidValue, ""},
		[]any{"gst", bid.GST, ""},
		[]any{"total_with_gst", bid.TotalWithGST, ""},
	)
	for _, w := range bid.Warnings {
		t.Rows = append(t.Rows, []any{"warning", "", w})
	}
	return t
}

// PriorityTable lists priority entries in the given order
func PriorityTable(entries []entities.PriorityEntry) Table {
	t := Table{
		Title:   "Priorities",
		Headers: []string{"Rank", "RFP", "Band", "Score", "Composite", "Fit", "Relationship", "Urgency"},
		Data:    entries,
	}
	for _, e := range entries {
		rank := "-"
		if e.Rank > 0 {
			rank = fmt.Sprint(e.Rank)
		}
		t.Rows = append(t.Rows, []any{
			rank, e.RFPID, e.Band, e.PriorityScore, e.Composite, e.ProductFit, e.Relationship, e.Urgency,
		})
	}
	return t
}
