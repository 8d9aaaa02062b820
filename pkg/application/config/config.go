package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// Config holds every tunable of the bid engine. It is built once, validated,
// and passed by value into the stages; nothing reads settings ad hoc.
type Config struct {
	Financial   FinancialConfig   `mapstructure:"financial"`
	Operational OperationalConfig `mapstructure:"operational"`
	Competition CompetitionConfig `mapstructure:"competition"`
	Logistics   LogisticsConfig   `mapstructure:"logistics"`
	Packaging   PackagingConfig   `mapstructure:"packaging"`
	Testing     TestingConfig     `mapstructure:"testing"`
	Estimates   EstimateConfig    `mapstructure:"estimates"`
	Matching    MatchingConfig    `mapstructure:"matching"`
	Priority    PriorityConfig    `mapstructure:"priority"`
}

// FinancialConfig holds margin and capital settings, all fractions
type FinancialConfig struct {
	TargetMargin      float64 `mapstructure:"target_margin" validate:"gte=0,lte=1"`
	SurvivalFloor     float64 `mapstructure:"survival_floor" validate:"gte=0,ltefield=TargetMargin"`
	HedgingBufferPct  float64 `mapstructure:"hedging_buffer_pct" validate:"gte=0,lte=1"`
	AnnualCapitalRate float64 `mapstructure:"annual_capital_rate" validate:"gte=0,lte=1"`
	GSTRate           float64 `mapstructure:"gst_rate" validate:"gte=0,lte=1"`
}

// OperationalConfig holds factory overhead and load adjustments
type OperationalConfig struct {
	FactoryOverheadPct float64 `mapstructure:"factory_overhead_pct" validate:"gte=0,lte=1"`
	OverloadPremium    float64 `mapstructure:"overload_premium" validate:"gte=0,lte=1"`
	IdleDiscount       float64 `mapstructure:"idle_discount" validate:"gte=0,lte=1"`
	OverloadThreshold  float64 `mapstructure:"overload_threshold" validate:"gte=0,lte=100"`
	IdleThreshold      float64 `mapstructure:"idle_threshold" validate:"gte=0,ltefield=OverloadThreshold"`
}

// CompetitionConfig holds the rival concession rules
type CompetitionConfig struct {
	AggressiveScore      float64 `mapstructure:"aggressive_score" validate:"gte=0,lte=10"`
	AggressiveConcession float64 `mapstructure:"aggressive_concession" validate:"gte=0,lte=1"`
	HighWinRate          float64 `mapstructure:"high_win_rate" validate:"gte=0,lte=1"`
	WinRateConcession    float64 `mapstructure:"win_rate_concession" validate:"gte=0,lte=1"`
	LowCostTier          string  `mapstructure:"low_cost_tier" validate:"required"`
	LowCostConcession    float64 `mapstructure:"low_cost_concession" validate:"gte=0,lte=1"`
	CrowdingPenalty      float64 `mapstructure:"crowding_penalty" validate:"gte=0,lte=1"`
}

// LogisticsConfig holds freight add-ons and distance defaults
type LogisticsConfig struct {
	FuelSurchargePct  float64 `mapstructure:"fuel_surcharge_pct" validate:"gte=0,lte=1"`
	InsurancePct      float64 `mapstructure:"insurance_pct" validate:"gte=0,lte=1"`
	HandlingPerTon    float64 `mapstructure:"handling_per_ton" validate:"gte=0"`
	DefaultZoneCode   string  `mapstructure:"default_zone_code" validate:"required"`
	DefaultDistanceKm float64 `mapstructure:"default_distance_km" validate:"gte=0"`
	FactoryLat        float64 `mapstructure:"factory_lat" validate:"gte=-90,lte=90"`
	FactoryLon        float64 `mapstructure:"factory_lon" validate:"gte=-180,lte=180"`
}

// PackagingConfig holds drum sizing and rates
type PackagingConfig struct {
	DrumLotSize    float64 `mapstructure:"drum_lot_size" validate:"gt=0"`
	SteelDrumCost  float64 `mapstructure:"steel_drum_cost" validate:"gte=0"`
	WoodenDrumCost float64 `mapstructure:"wooden_drum_cost" validate:"gte=0"`
}

// TestingConfig holds the flat test estimates used when no catalog test applies
type TestingConfig struct {
	HVTestCost float64 `mapstructure:"hv_test_cost" validate:"gte=0"`
	LVTestCost float64 `mapstructure:"lv_test_cost" validate:"gte=0"`
}

// EstimateConfig holds fallbacks for missing reference data and input
type EstimateConfig struct {
	FallbackCostPerMeter     float64 `mapstructure:"fallback_cost_per_meter" validate:"gte=0"`
	FallbackWeightKgPerMeter float64 `mapstructure:"fallback_weight_kg_per_meter" validate:"gte=0"`
	FallbackMaterialCost     float64 `mapstructure:"fallback_material_cost" validate:"gte=0"`
	DefaultQuantity          float64 `mapstructure:"default_quantity" validate:"gt=0"`
	DefaultWeightKgPerKm     float64 `mapstructure:"default_weight_kg_per_km" validate:"gt=0"`
}

// MatchingConfig holds the spec matcher field weights
type MatchingConfig struct {
	Weights map[string]float64 `mapstructure:"weights" validate:"required,dive,gte=0"`
}

// PriorityConfig holds the ranker weights and urgency window
type PriorityConfig struct {
	FitWeight          float64 `mapstructure:"fit_weight" validate:"gte=0"`
	RelationshipWeight float64 `mapstructure:"relationship_weight" validate:"gte=0"`
	Gamma              float64 `mapstructure:"gamma" validate:"gte=0"`
	UrgencyWindowDays  int     `mapstructure:"urgency_window_days" validate:"gt=0"`
}

// DefaultWeights returns the field weights of the spec matcher
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		entities.ReqVoltageGrade:      20,
		entities.ReqCoreCount:         15,
		entities.ReqCrossSection:      15,
		entities.ReqConductorMaterial: 15,
		entities.ReqStandards:         15,
		entities.ReqInsulation:        10,
		entities.ReqSheath:            5,
		entities.ReqArmourType:        5,
	}
}

// Default returns the production settings
func Default() Config {
	return Config{
		Financial: FinancialConfig{
			TargetMargin:      0.22,
			SurvivalFloor:     0.04,
			HedgingBufferPct:  0.02,
			AnnualCapitalRate: 0.12,
			GSTRate:           0.18,
		},
		Operational: OperationalConfig{
			FactoryOverheadPct: 0.12,
			OverloadPremium:    0.05,
			IdleDiscount:       0.03,
			OverloadThreshold:  90,
			IdleThreshold:      30,
		},
		Competition: CompetitionConfig{
			AggressiveScore:      8,
			AggressiveConcession: 0.03,
			HighWinRate:          0.6,
			WinRateConcession:    0.02,
			LowCostTier:          "Tier-3",
			LowCostConcession:    0.04,
			CrowdingPenalty:      0.005,
		},
		Logistics: LogisticsConfig{
			FuelSurchargePct:  0.10,
			InsurancePct:      0.005,
			HandlingPerTon:    500,
			DefaultZoneCode:   "Z-01",
			DefaultDistanceKm: 500,
			FactoryLat:        21.1702,
			FactoryLon:        72.8311,
		},
		Packaging: PackagingConfig{
			DrumLotSize:    500,
			SteelDrumCost:  12000,
			WoodenDrumCost: 4500,
		},
		Testing: TestingConfig{
			HVTestCost: 15000,
			LVTestCost: 5000,
		},
		Estimates: EstimateConfig{
			FallbackCostPerMeter:     1500,
			FallbackWeightKgPerMeter: 2.5,
			FallbackMaterialCost:     500,
			DefaultQuantity:          1000,
			DefaultWeightKgPerKm:     1000,
		},
		Matching: MatchingConfig{
			Weights: DefaultWeights(),
		},
		Priority: PriorityConfig{
			FitWeight:          0.5,
			RelationshipWeight: 0.5,
			Gamma:              0.5,
			UrgencyWindowDays:  90,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks ranges and cross-field constraints
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	known := DefaultWeights()
	total := 0.0
	for field, w := range c.Matching.Weights {
		if _, ok := known[field]; !ok {
			return fmt.Errorf("invalid config: unknown matching weight %q", field)
		}
		total += w
	}
	if math.Abs(total-100) > 1e-9 {
		return fmt.Errorf("invalid config: matching weights must sum to 100, got %v", total)
	}

	if c.Priority.FitWeight+c.Priority.RelationshipWeight == 0 {
		return fmt.Errorf("invalid config: priority fit and relationship weights cannot both be zero")
	}
	return nil
}

// Clone returns a copy that shares no maps with the receiver
func (c Config) Clone() Config {
	weights := make(map[string]float64, len(c.Matching.Weights))
	for k, v := range c.Matching.Weights {
		weights[k] = v
	}
	c.Matching.Weights = weights
	return c
}

// Flatten returns every setting keyed by its dotted path, e.g.
// "financial.target_margin". Used to register defaults with a config loader.
func (c Config) Flatten() (map[string]any, error) {
	var nested map[string]any
	if err := mapstructure.Decode(c, &nested); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	flat := make(map[string]any)
	flattenInto(flat, "", nested)
	return flat, nil
}

func flattenInto(dst map[string]any, prefix string, src map[string]any) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flattenInto(dst, key, child)
			continue
		}
		dst[key] = v
	}
}

// Keys returns the sorted dotted keys of the flattened config
func Keys(flat map[string]any) []string {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the config as sorted key=value lines
func (c Config) String() string {
	flat, err := c.Flatten()
	if err != nil {
		return err.Error()
	}
	var b strings.Builder
	for _, k := range Keys(flat) {
		fmt.Fprintf(&b, "%s=%v\n", k, flat[k])
	}
	return b.String()
}
