package costing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// PackagingCost is the drum requirement of one line
type PackagingCost struct {
	Drums     int64
	DrumRate  decimal.Decimal
	Cost      decimal.Decimal
	Rationale string
}

// Packaging sizes the drums for quantity metres. HV products ship on steel
// drums, everything else on wooden drums.
func (c *Composer) Packaging(productID string, quantity float64) PackagingCost {
	pc := c.cfg.Packaging
	qty := c.quantity(quantity)
	drums := int64(math.Ceil(qty / pc.DrumLotSize))

	rate, kind := pc.WoodenDrumCost, "wooden"
	if entities.IsHighVoltage(productID) {
		rate, kind = pc.SteelDrumCost, "steel"
	}

	cost := decimal.NewFromInt(drums).Mul(dec(rate))
	return PackagingCost{
		Drums:     drums,
		DrumRate:  dec(rate),
		Cost:      cost,
		Rationale: fmt.Sprintf("%d %s drums x %v", drums, kind, rate),
	}
}

// TestingCost is the acceptance test bill of one line
type TestingCost struct {
	Codes     []string
	Cost      decimal.Decimal
	Lines     []string
	Estimated bool
}

// Testing sums the catalog tests that apply to the product. Routine tests
// repeat per drum, type tests are charged once. When nothing applies a flat
// class estimate is used so a real shipment is never untested.
func (c *Composer) Testing(productID string, drums int64) TestingCost {
	product, err := c.ref.GetProduct(productID)
	if err != nil {
		product = &entities.ProductSKU{ProductID: productID}
	}
	profile := product.Profile()
	if drums < 1 {
		drums = 1
	}

	tc := TestingCost{Cost: decimal.Zero}
	for _, test := range c.ref.GetTests() {
		if !test.AppliesTo(profile) {
			continue
		}
		cost := dec(test.BaseTestCost)
		if test.IsRoutine() {
			cost = cost.Mul(decimal.NewFromInt(drums))
		}
		tc.Codes = append(tc.Codes, test.TestID)
		tc.Cost = tc.Cost.Add(cost)
		tc.Lines = append(tc.Lines, fmt.Sprintf("%s %s: %s", test.TestID, test.TestName, money(cost)))
	}

	if len(tc.Codes) == 0 {
		flat := c.cfg.Testing.LVTestCost
		if entities.IsHighVoltage(productID) {
			flat = c.cfg.Testing.HVTestCost
		}
		tc.Cost = dec(flat)
		tc.Estimated = true
		tc.Lines = []string{fmt.Sprintf("standard tests (estimate): %v", flat)}
	}
	return tc
}
