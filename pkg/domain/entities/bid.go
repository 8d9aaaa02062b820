package entities

import "github.com/shopspring/decimal"

// Cost categories reported in a cost breakdown summary
const (
	CostMaterial      = "material"
	CostOverhead      = "overhead"
	CostRiskBuffer    = "risk_buffer"
	CostPackaging     = "packaging"
	CostTesting       = "testing"
	CostLogistics     = "logistics"
	CostFinancing     = "financing"
	CostManufacturing = "manufacturing"
)

// CostLine is one category of the cost breakdown with its rationale
type CostLine struct {
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Rationale string          `json:"rationale"`
}

// LineCost is the costed explosion of one line item
type LineCost struct {
	LotID             string          `json:"lot_id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          float64         `json:"quantity"`
	MaterialCost      decimal.Decimal `json:"material_cost"`
	RiskBuffer        decimal.Decimal `json:"risk_buffer"`
	Overhead          decimal.Decimal `json:"overhead"`
	ManufacturingCost decimal.Decimal `json:"manufacturing_cost"`
	WeightKg          decimal.Decimal `json:"weight_kg"`
	Drums             int64           `json:"drums"`
	PackagingCost     decimal.Decimal `json:"packaging_cost"`
	TestingCost       decimal.Decimal `json:"testing_cost"`
	TestCodes         []string        `json:"test_codes,omitempty"`
	Estimated         bool            `json:"estimated"`
	Breakdown         []string        `json:"breakdown,omitempty"`
}

// CostBreakdown is the landed cost of a whole RFP before margin
type CostBreakdown struct {
	Lines             []LineCost      `json:"lines"`
	Manufacturing     decimal.Decimal `json:"manufacturing"`
	Packaging         decimal.Decimal `json:"packaging"`
	Testing           decimal.Decimal `json:"testing"`
	Logistics         decimal.Decimal `json:"logistics"`
	BaseCost          decimal.Decimal `json:"base_cost"`
	Financing         decimal.Decimal `json:"financing"`
	TotalWeightKg     decimal.Decimal `json:"total_weight_kg"`
	DistanceKm        float64         `json:"distance_km"`
	ZoneCode          string          `json:"zone_code"`
	ZoneType          string          `json:"zone_type"`
	ZoneRisk          decimal.Decimal `json:"zone_risk"`
	CreditDays        int             `json:"credit_days"`
	LoyaltyAdjustment decimal.Decimal `json:"loyalty_adjustment"`
	Summary           []CostLine      `json:"summary"`
}

// MarginBreakdown records every margin adjustment and the resulting price
type MarginBreakdown struct {
	BaseMargin            decimal.Decimal `json:"base_margin"`
	FactoryAdjustment     decimal.Decimal `json:"factory_adjustment"`
	LoyaltyAdjustment     decimal.Decimal `json:"loyalty_adjustment"`
	CompetitiveAdjustment decimal.Decimal `json:"competitive_adjustment"`
	ZoneRisk              decimal.Decimal `json:"zone_risk"`
	FinalMargin           decimal.Decimal `json:"final_margin"`
	FloorHit              bool            `json:"floor_hit"`
	CostBase              decimal.Decimal `json:"cost_base"`
	FinancingCost         decimal.Decimal `json:"financing_cost"`
	FullCostBase          decimal.Decimal `json:"full_cost_base"`
	FinalBidValue         decimal.Decimal `json:"final_bid_value"`
	GST                   decimal.Decimal `json:"gst"`
	TotalWithGST          decimal.Decimal `json:"total_with_gst"`
	Rationale             []string        `json:"rationale"`
}

// SKUSelection is the product chosen for one lot
type SKUSelection struct {
	LotID       string  `json:"lot_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	MatchScore  float64 `json:"match_score"`
}

// BidComputation is the complete priced bid for an RFP
type BidComputation struct {
	RFPID         string          `json:"rfp_id"`
	Selections    []SKUSelection  `json:"selections"`
	Cost          CostBreakdown   `json:"cost"`
	Margin        MarginBreakdown `json:"margin"`
	FinalBidValue decimal.Decimal `json:"final_bid_value"`
	GST           decimal.Decimal `json:"gst"`
	TotalWithGST  decimal.Decimal `json:"total_with_gst"`
	// Warnings lists reference data that was missing and how it was replaced
	Warnings []string `json:"warnings,omitempty"`
}

// Clone returns a deep copy of the bid
func (b *BidComputation) Clone() *BidComputation {
	if b == nil {
		return nil
	}
	c := *b
	c.Selections = append([]SKUSelection(nil), b.Selections...)
	c.Cost.Summary = append([]CostLine(nil), b.Cost.Summary...)
	c.Cost.Lines = make([]LineCost, len(b.Cost.Lines))
	for i, line := range b.Cost.Lines {
		line.TestCodes = append([]string(nil), line.TestCodes...)
		line.Breakdown = append([]string(nil), line.Breakdown...)
		c.Cost.Lines[i] = line
	}
	c.Margin.Rationale = append([]string(nil), b.Margin.Rationale...)
	c.Warnings = append([]string(nil), b.Warnings...)
	return &c
}
