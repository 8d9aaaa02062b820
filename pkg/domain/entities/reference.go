package entities

import (
	"fmt"
	"strings"
)

// Loyalty tiers recognised on client records
const (
	LoyaltyGold   = "Gold"
	LoyaltySilver = "Silver"
	LoyaltyBronze = "Bronze"
)

// VolatilityHigh marks materials that attract a hedging buffer
const VolatilityHigh = "High"

// Test categories
const (
	TestCategoryRoutine = "Routine"
	TestCategoryType    = "Type"
)

// Material is a raw material with its current market pricing
type Material struct {
	MaterialID          string  `json:"material_id" validate:"required"`
	MaterialName        string  `json:"material_name"`
	BaseCostPerUnit     float64 `json:"base_cost_per_unit" validate:"gte=0"`
	CurrentMarketFactor float64 `json:"current_market_factor" validate:"gte=0"`
	VolatilityRiskLevel string  `json:"volatility_risk_level"`
}

// NewMaterial creates a validated material record
func NewMaterial(id, name string, baseCost, marketFactor float64, volatility string) (*Material, error) {
	if id == "" {
		return nil, fmt.Errorf("material id cannot be empty")
	}
	if baseCost < 0 {
		return nil, fmt.Errorf("base cost cannot be negative, got %v", baseCost)
	}
	if marketFactor < 0 {
		return nil, fmt.Errorf("market factor cannot be negative, got %v", marketFactor)
	}

	return &Material{
		MaterialID:          id,
		MaterialName:        name,
		BaseCostPerUnit:     baseCost,
		CurrentMarketFactor: marketFactor,
		VolatilityRiskLevel: volatility,
	}, nil
}

// IsVolatile reports whether the material is flagged high-volatility
func (m *Material) IsVolatile() bool {
	return strings.EqualFold(strings.TrimSpace(m.VolatilityRiskLevel), VolatilityHigh)
}

// DisplayName returns the material name, or its id when unnamed
func (m *Material) DisplayName() string {
	if m.MaterialName != "" {
		return m.MaterialName
	}
	return m.MaterialID
}

// LogisticsZone is a freight classification of delivery terrain
type LogisticsZone struct {
	ZoneCode              string  `json:"zone_code" validate:"required"`
	ZoneType              string  `json:"zone_type" validate:"required"`
	TransportRatePerTonKm float64 `json:"transport_rate_per_ton_km" validate:"gte=0"`
	SurchargeMultiplier   float64 `json:"surcharge_multiplier" validate:"gte=0"`
	RiskFactorPercent     float64 `json:"risk_factor_percent" validate:"gte=0,lte=1"`
}

// NewLogisticsZone creates a validated zone; risk is a fraction (0.02 is 2%)
func NewLogisticsZone(code, zoneType string, rate, surcharge, risk float64) (*LogisticsZone, error) {
	if code == "" {
		return nil, fmt.Errorf("zone code cannot be empty")
	}
	if zoneType == "" {
		return nil, fmt.Errorf("zone type cannot be empty")
	}
	if rate < 0 {
		return nil, fmt.Errorf("transport rate cannot be negative, got %v", rate)
	}
	if surcharge < 0 {
		return nil, fmt.Errorf("surcharge multiplier cannot be negative, got %v", surcharge)
	}
	if risk < 0 || risk > 1 {
		return nil, fmt.Errorf("risk factor must be a fraction between 0 and 1, got %v", risk)
	}

	return &LogisticsZone{
		ZoneCode:              code,
		ZoneType:              zoneType,
		TransportRatePerTonKm: rate,
		SurchargeMultiplier:   surcharge,
		RiskFactorPercent:     risk,
	}, nil
}

// Client is a known customer with its commercial terms
type Client struct {
	ClientName    string `json:"client_name" validate:"required"`
	PaymentTerms  string `json:"payment_terms"`
	LoyaltyStatus string `json:"loyalty_status"`
}

// Competitor is a rival manufacturer and the catalog products it competes on
type Competitor struct {
	CompetitorID     string   `json:"competitor_id" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	Tier             string   `json:"tier"`
	AggressionScore  float64  `json:"aggression_score" validate:"gte=0,lte=10"`
	WinRateAgainstUs float64  `json:"win_rate_against_us" validate:"gte=0,lte=1"`
	CollidingSKUs    []string `json:"colliding_internal_skus"`
}

// Collides reports whether the competitor offers an equivalent of productID
func (c *Competitor) Collides(productID string) bool {
	for _, sku := range c.CollidingSKUs {
		if sku == productID {
			return true
		}
	}
	return false
}

// TestRecord is a catalog test with its applicability criteria
type TestRecord struct {
	TestID       string   `json:"test_id" validate:"required"`
	TestName     string   `json:"test_name"`
	BaseTestCost float64  `json:"base_test_cost" validate:"gte=0"`
	TestCategory string   `json:"test_category"`
	MandatoryFor []string `json:"mandatory_for"`
}

// IsRoutine reports whether the test repeats per drum
func (t *TestRecord) IsRoutine() bool {
	return strings.Contains(t.TestCategory, TestCategoryRoutine)
}

// AppliesTo reports whether any mandatory-for criterion matches the profile
func (t *TestRecord) AppliesTo(p TestProfile) bool {
	for _, criterion := range t.MandatoryFor {
		switch {
		case strings.Contains(criterion, "All Cables"):
			return true
		case p.HT && strings.Contains(criterion, "HT Cables"):
			return true
		case !p.HT && strings.Contains(criterion, "LT Cables"):
			return true
		case p.Armoured && strings.Contains(criterion, "Armoured Cables"):
			return true
		case p.FRLS && (strings.Contains(criterion, "FRLS") || strings.Contains(criterion, "LSZH")):
			return true
		}
	}
	return false
}

// FactoryBatch is the current load of one production line
type FactoryBatch struct {
	ProductionLineID   string  `json:"production_line_id" validate:"required"`
	UtilizationPercent float64 `json:"utilization_percent" validate:"gte=0"`
}

// NewFactoryBatch creates a validated factory batch
func NewFactoryBatch(lineID string, utilization float64) (*FactoryBatch, error) {
	if lineID == "" {
		return nil, fmt.Errorf("production line id cannot be empty")
	}
	if utilization < 0 {
		return nil, fmt.Errorf("utilization cannot be negative, got %v", utilization)
	}
	return &FactoryBatch{ProductionLineID: lineID, UtilizationPercent: utilization}, nil
}
