package costing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaterialCost is the BOM explosion of one product at one quantity
type MaterialCost struct {
	ProductID         string
	ProductName       string
	Quantity          float64
	MaterialCost      decimal.Decimal
	RiskBuffer        decimal.Decimal
	Overhead          decimal.Decimal
	ManufacturingCost decimal.Decimal
	WeightKg          decimal.Decimal
	Breakdown         []string
	Estimated         bool
}

// ComposeMaterial explodes the product's bill of materials over quantity metres.
//
// An unknown product is priced at the flat per-metre estimate with no
// overhead. A missing material is priced at the fallback unit cost. Neither
// case fails.
func (c *Composer) ComposeMaterial(productID string, quantity float64) MaterialCost {
	est := c.cfg.Estimates
	qty := c.quantity(quantity)
	q := dec(qty)

	product, err := c.ref.GetProduct(productID)
	if err != nil {
		cost := q.Mul(dec(est.FallbackCostPerMeter))
		return MaterialCost{
			ProductID:         productID,
			ProductName:       productID,
			Quantity:          qty,
			MaterialCost:      cost,
			RiskBuffer:        decimal.Zero,
			Overhead:          decimal.Zero,
			ManufacturingCost: cost,
			WeightKg:          q.Mul(dec(est.FallbackWeightKgPerMeter)),
			Breakdown:         []string{fmt.Sprintf("product master missing, flat estimate %v/m", est.FallbackCostPerMeter)},
			Estimated:         true,
		}
	}

	mc := MaterialCost{
		ProductID:   product.ProductID,
		ProductName: product.ProductName,
		Quantity:    qty,
	}

	material := decimal.Zero
	buffer := decimal.Zero
	if len(product.BillOfMaterials) == 0 {
		material = q.Mul(dec(est.FallbackCostPerMeter))
		mc.Estimated = true
		mc.Breakdown = append(mc.Breakdown, fmt.Sprintf("no bill of materials, base rate %v/m applied", est.FallbackCostPerMeter))
	}

	for _, comp := range product.BillOfMaterials {
		m, err := c.ref.GetMaterial(comp.MaterialID)
		if err != nil {
			line := dec(comp.QtyPerUnit).Mul(dec(est.FallbackMaterialCost)).Mul(q)
			material = material.Add(line)
			mc.Estimated = true
			mc.Breakdown = append(mc.Breakdown, fmt.Sprintf("%s: material missing, estimated at %v/unit", comp.MaterialID, est.FallbackMaterialCost))
			continue
		}

		rate := dec(m.BaseCostPerUnit).Mul(dec(m.CurrentMarketFactor))
		line := dec(comp.QtyPerUnit).Mul(rate).Mul(q)
		material = material.Add(line)

		if m.IsVolatile() {
			hedge := line.Mul(dec(c.cfg.Financial.HedgingBufferPct))
			buffer = buffer.Add(hedge)
			mc.Breakdown = append(mc.Breakdown, fmt.Sprintf("%s: %v units/m, high volatility hedge +%s", m.DisplayName(), comp.QtyPerUnit, money(hedge)))
			continue
		}
		mc.Breakdown = append(mc.Breakdown, fmt.Sprintf("%s: %v units/m @ %s", m.DisplayName(), comp.QtyPerUnit, money(rate)))
	}

	overhead := material.Add(buffer).Mul(dec(c.cfg.Operational.FactoryOverheadPct))

	weightPerKm := product.WeightKgPerKm
	if weightPerKm <= 0 {
		weightPerKm = est.DefaultWeightKgPerKm
	}

	mc.MaterialCost = material
	mc.RiskBuffer = buffer
	mc.Overhead = overhead
	mc.ManufacturingCost = material.Add(overhead).Add(buffer)
	mc.WeightKg = dec(weightPerKm).Div(decimal.NewFromInt(1000)).Mul(q)
	return mc
}
