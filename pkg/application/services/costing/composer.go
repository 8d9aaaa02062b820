package costing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

// Composer turns chosen products and quantities into a landed cost.
// It holds no mutable state and is safe for concurrent use.
type Composer struct {
	cfg config.Config
	ref repositories.ReferenceData
}

// NewComposer creates a composer over a reference data snapshot
func NewComposer(cfg config.Config, ref repositories.ReferenceData) (*Composer, error) {
	if ref == nil {
		return nil, fmt.Errorf("reference data cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Composer{cfg: cfg.Clone(), ref: ref}, nil
}

// quantity clamps a missing or non-positive quantity to the configured default
func (c *Composer) quantity(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return c.cfg.Estimates.DefaultQuantity
	}
	return q
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func money(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
