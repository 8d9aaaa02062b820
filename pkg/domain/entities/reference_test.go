package entities

import "testing"

func TestMaterial_Validation(t *testing.T) {
	m, err := NewMaterial("MAT-CU", "Copper Rod", 750, 1.1, "High")
	if err != nil {
		t.Fatalf("Expected valid material creation to succeed: %v", err)
	}
	if !m.IsVolatile() {
		t.Errorf("Expected High volatility material to be volatile")
	}

	testCases := []struct {
		name        string
		id          string
		baseCost    float64
		factor      float64
		expectError string
	}{
		{"empty id", "", 1, 1, "material id cannot be empty"},
		{"negative cost", "MAT", -1, 1, "base cost cannot be negative, got -1"},
		{"negative factor", "MAT", 1, -0.5, "market factor cannot be negative, got -0.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMaterial(tc.id, "name", tc.baseCost, tc.factor, "Low")
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestMaterial_Volatility(t *testing.T) {
	testCases := []struct {
		level    string
		volatile bool
	}{
		{"High", true},
		{" high ", true},
		{"Medium", false},
		{"", false},
	}

	for _, tc := range testCases {
		m := Material{MaterialID: "M", VolatilityRiskLevel: tc.level}
		if m.IsVolatile() != tc.volatile {
			t.Errorf("Expected volatility %v for level %q, got %v", tc.volatile, tc.level, m.IsVolatile())
		}
	}
}

func TestLogisticsZone_Validation(t *testing.T) {
	zone, err := NewLogisticsZone("Z-01", "Plains_Highway", 4.5, 1.0, 0.01)
	if err != nil {
		t.Fatalf("Expected valid zone creation to succeed: %v", err)
	}
	if zone.ZoneCode != "Z-01" {
		t.Errorf("Expected zone code Z-01, got %s", zone.ZoneCode)
	}

	testCases := []struct {
		name        string
		code        string
		zoneType    string
		rate        float64
		surcharge   float64
		risk        float64
		expectError string
	}{
		{"empty code", "", "Hilly", 1, 1, 0, "zone code cannot be empty"},
		{"empty type", "Z-02", "", 1, 1, 0, "zone type cannot be empty"},
		{"negative rate", "Z-02", "Hilly", -2, 1, 0, "transport rate cannot be negative, got -2"},
		{"negative surcharge", "Z-02", "Hilly", 1, -1, 0, "surcharge multiplier cannot be negative, got -1"},
		{"risk as percent", "Z-02", "Hilly", 1, 1, 5, "risk factor must be a fraction between 0 and 1, got 5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLogisticsZone(tc.code, tc.zoneType, tc.rate, tc.surcharge, tc.risk)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestFactoryBatch_Validation(t *testing.T) {
	if _, err := NewFactoryBatch("LINE-HV-01", 95); err != nil {
		t.Fatalf("Expected valid batch creation to succeed: %v", err)
	}
	if _, err := NewFactoryBatch("", 10); err == nil || err.Error() != "production line id cannot be empty" {
		t.Errorf("Expected empty line id error, got %v", err)
	}
	if _, err := NewFactoryBatch("LINE-LT-01", -1); err == nil || err.Error() != "utilization cannot be negative, got -1" {
		t.Errorf("Expected negative utilization error, got %v", err)
	}
}

func TestCompetitor_Collides(t *testing.T) {
	c := Competitor{CompetitorID: "C-1", Name: "Rival", CollidingSKUs: []string{"P-1", "P-2"}}
	if !c.Collides("P-2") {
		t.Errorf("Expected collision on P-2")
	}
	if c.Collides("P-3") {
		t.Errorf("Expected no collision on P-3")
	}
}

func TestTestRecord_AppliesTo(t *testing.T) {
	ht := TestProfile{HT: true}
	lt := TestProfile{}
	armouredLT := TestProfile{Armoured: true}
	frls := TestProfile{FRLS: true}

	testCases := []struct {
		name     string
		criteria []string
		profile  TestProfile
		applies  bool
	}{
		{"all cables", []string{"All Cables"}, lt, true},
		{"ht on ht", []string{"HT Cables"}, ht, true},
		{"ht on lt", []string{"HT Cables"}, lt, false},
		{"lt on lt", []string{"LT Cables"}, lt, true},
		{"lt on ht", []string{"LT Cables"}, ht, false},
		{"armoured", []string{"Armoured Cables"}, armouredLT, true},
		{"armoured on plain", []string{"Armoured Cables"}, lt, false},
		{"frls", []string{"FRLS Cables"}, frls, true},
		{"lszh", []string{"LSZH"}, frls, true},
		{"no criteria", nil, ht, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			test := TestRecord{TestID: "T", MandatoryFor: tc.criteria}
			if got := test.AppliesTo(tc.profile); got != tc.applies {
				t.Errorf("Expected applies=%v, got %v", tc.applies, got)
			}
		})
	}
}

func TestTestRecord_IsRoutine(t *testing.T) {
	routine := TestRecord{TestCategory: "Routine Test"}
	typeTest := TestRecord{TestCategory: "Type Test"}
	if !routine.IsRoutine() {
		t.Errorf("Expected routine test to be routine")
	}
	if typeTest.IsRoutine() {
		t.Errorf("Expected type test not to be routine")
	}
}
