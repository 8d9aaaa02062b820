package entities

import (
	"fmt"
	"strings"
)

// Product voltage categories used by packaging and factory-load rules
const (
	CategoryHV = "HV"
	CategoryLT = "LT"
)

// NoMatchProductID is the sentinel chosen when the catalog is empty
const NoMatchProductID = "NO_MATCH"

// BOMComponent is one raw-material line of a product's bill of materials
type BOMComponent struct {
	MaterialID string  `json:"material_id" validate:"required"`
	QtyPerUnit float64 `json:"quantity" validate:"gte=0"`
}

// ProductSKU is a catalog product with its technical and BOM data
type ProductSKU struct {
	ProductID       string         `json:"product_id" validate:"required"`
	ProductName     string         `json:"product_name" validate:"required"`
	TechnicalSpecs  map[string]any `json:"technical_specs"`
	BillOfMaterials []BOMComponent `json:"bill_of_materials" validate:"dive"`
	WeightKgPerKm   float64        `json:"approx_weight_kg_km" validate:"gte=0"`
}

// NewProductSKU creates a validated product
func NewProductSKU(id, name string, specs map[string]any, bom []BOMComponent, weightKgPerKm float64) (*ProductSKU, error) {
	if id == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if weightKgPerKm < 0 {
		return nil, fmt.Errorf("weight per km cannot be negative, got %v", weightKgPerKm)
	}
	for _, c := range bom {
		if c.MaterialID == "" {
			return nil, fmt.Errorf("product %s: BOM material id cannot be empty", id)
		}
		if c.QtyPerUnit < 0 {
			return nil, fmt.Errorf("product %s: BOM quantity for %s cannot be negative, got %v", id, c.MaterialID, c.QtyPerUnit)
		}
	}

	return &ProductSKU{
		ProductID:       id,
		ProductName:     name,
		TechnicalSpecs:  specs,
		BillOfMaterials: bom,
		WeightKgPerKm:   weightKgPerKm,
	}, nil
}

// IsHighVoltage reports whether a product id belongs to the 33KV class
func IsHighVoltage(productID string) bool {
	return strings.Contains(strings.ToUpper(productID), "33KV")
}

// Category returns the factory category for a product id
func Category(productID string) string {
	if IsHighVoltage(productID) {
		return CategoryHV
	}
	return CategoryLT
}

// TestProfile describes which test applicability criteria a product satisfies
type TestProfile struct {
	HT       bool
	Armoured bool
	FRLS     bool
}

// Profile derives the test profile from the product id and name.
// HT and armour markers only count as whole tokens ("LIGHT" is not HT,
// "UNARMOURED" is not armoured).
func (p *ProductSKU) Profile() TestProfile {
	label := strings.ToUpper(p.ProductID + " " + p.ProductName)
	profile := TestProfile{
		HT:   strings.Contains(label, "11KV") || strings.Contains(label, "33KV"),
		FRLS: strings.Contains(label, "FRLS") || strings.Contains(label, "LSZH"),
	}
	for _, tok := range strings.FieldsFunc(label, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) {
		switch tok {
		case "HT":
			profile.HT = true
		case "ARMOURED", "ARMORED":
			profile.Armoured = true
		}
	}
	return profile
}
