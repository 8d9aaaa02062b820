package testing

import (
	"time"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bidengine/pkg/infrastructure/seed"
)

// Product ids of the fixture catalog
const (
	ProductLTAluminium = seed.ProductLTAluminium
	ProductHT11Copper  = seed.ProductHT11Copper
	ProductHT33Copper  = seed.ProductHT33Copper
	ProductLTFRLS      = seed.ProductLTFRLS
)

// BuildReferenceData builds the demo cable catalog with every reference table populated
func BuildReferenceData() *memory.ReferenceRepository {
	ref, err := seed.Catalog()
	if err != nil {
		panic(err)
	}
	return ref
}

// BuildSampleRFPs builds three open RFPs with deadlines relative to now.
// Each one targets a different product of the fixture catalog.
func BuildSampleRFPs(now time.Time) []*entities.RFP {
	soon := now.Add(10 * 24 * time.Hour)
	later := now.Add(60 * 24 * time.Hour)
	expired := now.Add(-48 * time.Hour)

	return []*entities.RFP{
		{
			ID:                 "RFP-HT-001",
			Title:              "11kV feeder cable supply",
			ClientName:         "State Power Corp",
			DeliveryLocation:   "Shimla hilly district",
			DistanceKm:         1200,
			SubmissionDeadline: &soon,
			LineItems: []entities.RFPLineItem{
				{
					LotID:          "LOT-1",
					RawDescription: "11kV 3 core 185 sqmm copper XLPE armoured cable",
					Quantity:       5000,
					Unit:           "m",
					Requirements: entities.Requirements{
						entities.ReqVoltageGrade:      "11 kV",
						entities.ReqCoreCount:         "3",
						entities.ReqCrossSection:      "185",
						entities.ReqConductorMaterial: "Cu",
						entities.ReqInsulation:        "XLPE",
						entities.ReqSheath:            entities.NotSpecified,
						entities.ReqArmourType:        "Steel Strip",
						entities.ReqStandards:         []any{"IS 7098 (Part 2)", "ISI Marked"},
					},
				},
			},
		},
		{
			ID:                 "RFP-LT-002",
			Title:              "LT distribution cable",
			ClientName:         "Metro Rail Ltd",
			DeliveryLocation:   "Chennai port area",
			DistanceKm:         1600,
			SubmissionDeadline: &later,
			LineItems: []entities.RFPLineItem{
				{
					LotID:          "LOT-1",
					RawDescription: "1.1kV 4 core 240 sqmm aluminium armoured cable",
					Quantity:       2000,
					Unit:           "m",
					Requirements: entities.Requirements{
						entities.ReqVoltageGrade:      "1.1kV",
						entities.ReqCoreCount:         4,
						entities.ReqCrossSection:      240,
						entities.ReqConductorMaterial: "Aluminum",
						entities.ReqInsulation:        "XLPE",
						entities.ReqSheath:            "PVC",
						entities.ReqArmourType:        "Steel Wire",
						entities.ReqStandards:         []any{"IS 7098 (Part 1):1988"},
					},
				},
			},
		},
		{
			ID:                 "RFP-FR-003",
			Title:              "Building wiring",
			ClientName:         "Unknown Builders",
			DeliveryLocation:   "Ahmedabad",
			SubmissionDeadline: &expired,
			PaymentTerms:       "Advance",
			LineItems: []entities.RFPLineItem{
				{
					LotID:          "LOT-1",
					RawDescription: "2 core 4 sqmm copper FRLS cable",
					Quantity:       800,
					Unit:           "m",
					Requirements: entities.Requirements{
						entities.ReqVoltageGrade:      entities.NotSpecified,
						entities.ReqCoreCount:         "2",
						entities.ReqCrossSection:      "4",
						entities.ReqConductorMaterial: "Copper",
						entities.ReqInsulation:        "PVC",
						entities.ReqSheath:            "FRLS",
						entities.ReqArmourType:        entities.NotSpecified,
						entities.ReqStandards:         []any{entities.NotSpecified},
					},
				},
			},
		},
	}
}
