package costing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// BidInput is an RFP together with the technical selection to price
type BidInput struct {
	RFP *entities.RFP
	// Match defaults to RFP.Match when nil
	Match *entities.MatchReport
}

// Selections returns the product chosen for every line item, in line item
// order. Lots without a selection are priced as NO_MATCH, which costs at the
// flat estimate.
func Selections(rfp *entities.RFP, report *entities.MatchReport) []entities.SKUSelection {
	selections := make([]entities.SKUSelection, 0, len(rfp.LineItems))
	for i, item := range rfp.LineItems {
		sel := entities.SKUSelection{
			LotID:       item.LotID,
			ProductID:   entities.NoMatchProductID,
			ProductName: "No Suitable Product Found",
		}
		if lim, ok := report.SelectionAt(i, item.LotID); ok {
			sel.ProductID = lim.Best.ProductID
			sel.ProductName = lim.Best.ProductName
			sel.MatchScore = lim.Best.Score
		}
		selections = append(selections, sel)
	}
	return selections
}

// Compose prices every line item, ships the summed weight as one freight
// leg and adds the financing cost of the client's credit period.
func (c *Composer) Compose(in BidInput) entities.CostBreakdown {
	rfp := in.RFP
	report := in.Match
	if report == nil {
		report = rfp.Match
	}

	cb := entities.CostBreakdown{
		Manufacturing: decimal.Zero,
		Packaging:     decimal.Zero,
		Testing:       decimal.Zero,
		TotalWeightKg: decimal.Zero,
	}
	materialTotal := decimal.Zero
	bufferTotal := decimal.Zero
	overheadTotal := decimal.Zero

	for i, sel := range Selections(rfp, report) {
		qty := rfp.LineItems[i].Quantity
		mat := c.ComposeMaterial(sel.ProductID, qty)
		pkg := c.Packaging(sel.ProductID, qty)
		tst := c.Testing(sel.ProductID, pkg.Drums)

		name := sel.ProductName
		if name == "" {
			name = mat.ProductName
		}

		line := entities.LineCost{
			LotID:             sel.LotID,
			ProductID:         sel.ProductID,
			ProductName:       name,
			Quantity:          mat.Quantity,
			MaterialCost:      mat.MaterialCost,
			RiskBuffer:        mat.RiskBuffer,
			Overhead:          mat.Overhead,
			ManufacturingCost: mat.ManufacturingCost,
			WeightKg:          mat.WeightKg,
			Drums:             pkg.Drums,
			PackagingCost:     pkg.Cost,
			TestingCost:       tst.Cost,
			TestCodes:         tst.Codes,
			Estimated:         mat.Estimated || tst.Estimated,
			Breakdown:         append(append(append([]string(nil), mat.Breakdown...), pkg.Rationale), tst.Lines...),
		}
		cb.Lines = append(cb.Lines, line)

		materialTotal = materialTotal.Add(mat.MaterialCost)
		bufferTotal = bufferTotal.Add(mat.RiskBuffer)
		overheadTotal = overheadTotal.Add(mat.Overhead)
		cb.Manufacturing = cb.Manufacturing.Add(mat.ManufacturingCost)
		cb.Packaging = cb.Packaging.Add(pkg.Cost)
		cb.Testing = cb.Testing.Add(tst.Cost)
		cb.TotalWeightKg = cb.TotalWeightKg.Add(mat.WeightKg)
	}

	cb.DistanceKm = DistanceKm(rfp, c.cfg.Logistics)
	logistics := c.Logistics(cb.TotalWeightKg, cb.DistanceKm, rfp.DeliveryLocation)
	cb.Logistics = logistics.Total
	cb.ZoneCode = logistics.Zone.ZoneCode
	cb.ZoneType = logistics.Zone.ZoneType
	cb.ZoneRisk = logistics.RiskFactor

	cb.BaseCost = cb.Manufacturing.Add(cb.Packaging).Add(cb.Testing).Add(cb.Logistics)
	financing := c.Financing(rfp.ClientName, rfp.PaymentTerms, cb.BaseCost)
	cb.Financing = financing.Interest
	cb.CreditDays = financing.CreditDays
	cb.LoyaltyAdjustment = financing.LoyaltyAdjustment

	cb.Summary = []entities.CostLine{
		{Category: entities.CostMaterial, Amount: materialTotal.Round(2), Rationale: fmt.Sprintf("BOM explosion over %d line items", len(cb.Lines))},
		{Category: entities.CostRiskBuffer, Amount: bufferTotal.Round(2), Rationale: fmt.Sprintf("%v%% hedge on high-volatility materials", pct(c.cfg.Financial.HedgingBufferPct))},
		{Category: entities.CostOverhead, Amount: overheadTotal.Round(2), Rationale: fmt.Sprintf("%v%% factory overhead on material and buffer", pct(c.cfg.Operational.FactoryOverheadPct))},
		{Category: entities.CostManufacturing, Amount: cb.Manufacturing.Round(2), Rationale: "material + overhead + risk buffer"},
		{Category: entities.CostPackaging, Amount: cb.Packaging.Round(2), Rationale: fmt.Sprintf("%d drums", totalDrums(cb.Lines))},
		{Category: entities.CostTesting, Amount: cb.Testing.Round(2), Rationale: testingRationale(cb.Lines)},
		{Category: entities.CostLogistics, Amount: cb.Logistics.Round(2), Rationale: fmt.Sprintf("%s %s", logistics.Formula, logistics.Zone.ZoneType)},
		{Category: entities.CostFinancing, Amount: cb.Financing.Round(2), Rationale: fmt.Sprintf("%d credit days at %v%% p.a.", cb.CreditDays, pct(c.cfg.Financial.AnnualCapitalRate))},
	}
	return cb
}

func totalDrums(lines []entities.LineCost) int64 {
	var n int64
	for _, l := range lines {
		n += l.Drums
	}
	return n
}

func testingRationale(lines []entities.LineCost) string {
	codes := 0
	estimated := false
	for _, l := range lines {
		codes += len(l.TestCodes)
		if len(l.TestCodes) == 0 {
			estimated = true
		}
	}
	if estimated {
		return fmt.Sprintf("%d catalog tests, flat estimate where none applied", codes)
	}
	return fmt.Sprintf("%d catalog tests", codes)
}

func pct(f float64) float64 {
	return dec(f).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
