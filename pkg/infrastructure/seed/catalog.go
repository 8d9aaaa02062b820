package seed

import (
	"fmt"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/infrastructure/repositories/memory"
)

// Product ids of the demo catalog
const (
	ProductLTAluminium = "LT-1.1KV-AL-4C-240-ARM"
	ProductHT11Copper  = "HT-11KV-CU-3C-185"
	ProductHT33Copper  = "HT-33KV-CU-1C-400"
	ProductLTFRLS      = "LT-1.1KV-CU-2C-4-FRLS"
)

// Catalog builds a small cable catalog with every reference table populated.
// It backs the CLI and the server when no data directory is configured.
func Catalog() (*memory.ReferenceRepository, error) {
	ref := memory.NewReferenceRepository(4, 4)

	products := []*entities.ProductSKU{
		{
			ProductID:   ProductLTAluminium,
			ProductName: "1.1KV Aluminium Armoured Cable 4C x 240",
			TechnicalSpecs: map[string]any{
				entities.ReqVoltageGrade:      "1.1kV",
				entities.ReqCoreCount:         4,
				entities.ReqCrossSection:      240,
				entities.ReqConductorMaterial: "Aluminium",
				entities.ReqInsulation:        "XLPE",
				entities.ReqSheath:            "PVC ST2",
				entities.ReqArmourType:        "Galvanised Steel Wire",
				entities.ReqStandards:         []any{"IS 7098 (Part 1):1988"},
			},
			BillOfMaterials: []entities.BOMComponent{
				{MaterialID: "MAT-AL", QtyPerUnit: 0.5},
				{MaterialID: "MAT-PVC", QtyPerUnit: 0.1},
			},
			WeightKgPerKm: 2100,
		},
		{
			ProductID:   ProductHT11Copper,
			ProductName: "11KV Copper XLPE Cable 3C x 185",
			TechnicalSpecs: map[string]any{
				entities.ReqVoltageGrade:      "11kV",
				entities.ReqCoreCount:         3,
				entities.ReqCrossSection:      185,
				entities.ReqConductorMaterial: "Copper",
				entities.ReqInsulation:        "XLPE",
				entities.ReqSheath:            "PVC",
				entities.ReqArmourType:        "Steel Strip",
				entities.ReqStandards:         []any{"IS 7098 (Part 2):2011"},
			},
			BillOfMaterials: []entities.BOMComponent{
				{MaterialID: "MAT-CU", QtyPerUnit: 0.6},
				{MaterialID: "MAT-XLPE", QtyPerUnit: 0.2},
			},
			WeightKgPerKm: 6500,
		},
		{
			ProductID:   ProductHT33Copper,
			ProductName: "33KV Copper Single Core Cable 1C x 400",
			TechnicalSpecs: map[string]any{
				entities.ReqVoltageGrade:      "33kV",
				entities.ReqCoreCount:         1,
				entities.ReqCrossSection:      400,
				entities.ReqConductorMaterial: "Copper",
				entities.ReqInsulation:        "XLPE",
				entities.ReqSheath:            "PE",
				entities.ReqArmourType:        "Aluminium Wire",
				entities.ReqStandards:         []any{"IS 7098 (Part 2):2011"},
			},
			BillOfMaterials: []entities.BOMComponent{
				{MaterialID: "MAT-CU", QtyPerUnit: 1.0},
				{MaterialID: "MAT-XLPE", QtyPerUnit: 0.3},
			},
			WeightKgPerKm: 9000,
		},
		{
			ProductID:   ProductLTFRLS,
			ProductName: "1.1KV Copper FRLS Unarmoured Cable 2C x 4",
			TechnicalSpecs: map[string]any{
				entities.ReqVoltageGrade:      "1100",
				entities.ReqCoreCount:         "2",
				entities.ReqCrossSection:      "4",
				entities.ReqConductorMaterial: "Cu",
				entities.ReqInsulation:        "PVC",
				entities.ReqSheath:            "FRLS PVC",
				entities.ReqArmourType:        "Unarmoured",
				entities.ReqStandards:         "IS 694:2010",
			},
			BillOfMaterials: []entities.BOMComponent{
				{MaterialID: "MAT-CU", QtyPerUnit: 0.05},
				{MaterialID: "MAT-PVC", QtyPerUnit: 0.05},
			},
			WeightKgPerKm: 120,
		},
	}
	materials := []*entities.Material{
		{MaterialID: "MAT-AL", MaterialName: "Aluminium Rod", BaseCostPerUnit: 250, CurrentMarketFactor: 1.0, VolatilityRiskLevel: "Medium"},
		{MaterialID: "MAT-CU", MaterialName: "Copper Rod", BaseCostPerUnit: 800, CurrentMarketFactor: 1.1, VolatilityRiskLevel: "High"},
		{MaterialID: "MAT-XLPE", MaterialName: "XLPE Compound", BaseCostPerUnit: 150, CurrentMarketFactor: 1.0, VolatilityRiskLevel: "Low"},
		{MaterialID: "MAT-PVC", MaterialName: "PVC Compound", BaseCostPerUnit: 100, CurrentMarketFactor: 1.0, VolatilityRiskLevel: "Low"},
	}
	zones := []*entities.LogisticsZone{
		{ZoneCode: "Z-01", ZoneType: "Plains_Highway", TransportRatePerTonKm: 4, SurchargeMultiplier: 1.0, RiskFactorPercent: 0},
		{ZoneCode: "Z-02", ZoneType: "Hilly_Terrain", TransportRatePerTonKm: 8, SurchargeMultiplier: 1.5, RiskFactorPercent: 0.02},
		{ZoneCode: "Z-03", ZoneType: "Coastal_Region", TransportRatePerTonKm: 5, SurchargeMultiplier: 1.2, RiskFactorPercent: 0.01},
		{ZoneCode: "Z-04", ZoneType: "Desert_Arid", TransportRatePerTonKm: 6, SurchargeMultiplier: 1.3, RiskFactorPercent: 0.015},
	}
	clients := []*entities.Client{
		{ClientName: "State Power Corp", PaymentTerms: "90 Days Credit", LoyaltyStatus: entities.LoyaltyGold},
		{ClientName: "Metro Rail Ltd", PaymentTerms: "60 Days Credit", LoyaltyStatus: entities.LoyaltySilver},
		{ClientName: "Town Electricals", PaymentTerms: "Advance Payment", LoyaltyStatus: entities.LoyaltyBronze},
	}
	competitors := []*entities.Competitor{
		{CompetitorID: "C-001", Name: "Apex Cables", Tier: "Tier-1", AggressionScore: 9, WinRateAgainstUs: 0.3, CollidingSKUs: []string{ProductHT11Copper}},
		{CompetitorID: "C-002", Name: "Volt Wires", Tier: "Tier-2", AggressionScore: 5, WinRateAgainstUs: 0.7, CollidingSKUs: []string{ProductHT11Copper, ProductLTAluminium}},
		{CompetitorID: "C-003", Name: "Budget Cables", Tier: "Tier-3 (Budget)", AggressionScore: 4, WinRateAgainstUs: 0.2, CollidingSKUs: []string{ProductLTFRLS}},
	}
	tests := []*entities.TestRecord{
		{TestID: "T-01", TestName: "Conductor Resistance Test", BaseTestCost: 2000, TestCategory: "Routine Test", MandatoryFor: []string{"All Cables"}},
		{TestID: "T-02", TestName: "High Voltage Test", BaseTestCost: 5000, TestCategory: "Routine Test", MandatoryFor: []string{"HT Cables"}},
		{TestID: "T-03", TestName: "Partial Discharge Test", BaseTestCost: 25000, TestCategory: "Type Test", MandatoryFor: []string{"HT Cables"}},
		{TestID: "T-04", TestName: "Armour Resistance Test", BaseTestCost: 1500, TestCategory: "Routine Test", MandatoryFor: []string{"Armoured Cables"}},
		{TestID: "T-05", TestName: "Flame Retardance Test", BaseTestCost: 8000, TestCategory: "Type Test", MandatoryFor: []string{"FRLS Cables"}},
	}
	batches := []*entities.FactoryBatch{
		{ProductionLineID: "LINE-HV-01", UtilizationPercent: 95},
		{ProductionLineID: "LINE-HV-02", UtilizationPercent: 91},
		{ProductionLineID: "LINE-LT-01", UtilizationPercent: 60},
		{ProductionLineID: "LINE-LT-02", UtilizationPercent: 50},
	}

	loads := []func() error{
		func() error { return ref.LoadProducts(products) },
		func() error { return ref.LoadMaterials(materials) },
		func() error { return ref.LoadZones(zones) },
		func() error { return ref.LoadClients(clients) },
		func() error { return ref.LoadCompetitors(competitors) },
		func() error { return ref.LoadTests(tests) },
		func() error { return ref.LoadFactoryBatches(batches) },
	}
	for _, load := range loads {
		if err := load(); err != nil {
			return nil, fmt.Errorf("failed to build demo catalog: %w", err)
		}
	}
	return ref, nil
}
