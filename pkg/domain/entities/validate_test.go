package entities

import (
	"strings"
	"testing"
)

func TestValidate_StructTags(t *testing.T) {
	good := &RFP{ID: "RFP-1", LineItems: []RFPLineItem{{LotID: "LOT-1", Quantity: 10}}}
	if err := Validate(good); err != nil {
		t.Fatalf("Expected valid RFP, got %v", err)
	}

	bad := &RFP{
		ID:                  "RFP-2",
		DeliveryCoordinates: &Coordinates{Lat: 120, Lon: 10},
		LineItems:           []RFPLineItem{{LotID: "", Quantity: -1}},
	}
	err := Validate(bad)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	for _, want := range []string{"Lat", "LotID", "Quantity"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got %v", want, err)
		}
	}

	zone := &LogisticsZone{ZoneCode: "Z-09", ZoneType: "Hilly", RiskFactorPercent: 2}
	if err := Validate(zone); err == nil || !strings.Contains(err.Error(), "RiskFactorPercent") {
		t.Errorf("Expected risk factor above 1 to fail, got %v", err)
	}
}
