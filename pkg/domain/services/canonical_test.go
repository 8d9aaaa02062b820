package services

import (
	"math"
	"testing"
)

func TestIsUnspecified(t *testing.T) {
	testCases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"whitespace", "   ", true},
		{"wildcard", "NOT SPECIFIED", true},
		{"wildcard lower case", " not specified ", true},
		{"empty list", []any{}, true},
		{"empty string list", []string{}, true},
		{"value", "XLPE", false},
		{"zero number", 0, false},
		{"list", []any{"IS 7098"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUnspecified(tc.value); got != tc.want {
				t.Errorf("Expected %v for %#v, got %v", tc.want, tc.value, got)
			}
		})
	}
}

func TestCanonicalVoltage(t *testing.T) {
	testCases := []struct {
		input  any
		volts  float64
		wantOK bool
	}{
		{"1.1kV", 1100, true},
		{"1.1 KV", 1100, true},
		{"1100V", 1100, true},
		{"1100 Volts", 1100, true},
		{"11kV", 11000, true},
		{"11", 11000, true},
		{"33 KV (E)", 33000, true},
		{"415V", 415, true},
		{"0.6/1 kV", 600, true},
		{11.0, 11000, true},
		{1100, 1100, true},
		{"LT", 0, false},
		{nil, 0, false},
	}

	for _, tc := range testCases {
		volts, ok := CanonicalVoltage(tc.input)
		if ok != tc.wantOK {
			t.Errorf("Expected ok=%v for %v, got %v", tc.wantOK, tc.input, ok)
			continue
		}
		if volts != tc.volts {
			t.Errorf("Expected %v volts for %v, got %v", tc.volts, tc.input, volts)
		}
	}
}

func TestCanonicalVoltage_ThresholdBoundary(t *testing.T) {
	below, _ := CanonicalVoltage("49")
	if below != 49000 {
		t.Errorf("Expected 49 to be read as kV (49000), got %v", below)
	}
	at, _ := CanonicalVoltage("50")
	if at != 50 {
		t.Errorf("Expected 50 to be read as volts, got %v", at)
	}
}

func TestCanonicalMaterial(t *testing.T) {
	testCases := []struct {
		input any
		want  string
	}{
		{"Aluminium", "aluminium"},
		{"Aluminum", "aluminium"},
		{"AL", "aluminium"},
		{"Alu", "aluminium"},
		{"Aluminium (Stranded)", "aluminium"},
		{"H4 Grade Al", "aluminium"},
		{"Cu", "copper"},
		{"Annealed Copper (Class 2)", "copper"},
		{"Calcium", "calcium"},
		{"", ""},
		{nil, ""},
	}

	for _, tc := range testCases {
		if got := CanonicalMaterial(tc.input); got != tc.want {
			t.Errorf("Expected %q for %v, got %q", tc.want, tc.input, got)
		}
	}
}

func TestCanonicalStandard(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"IS 7098 (Part 2):2011", "is 7098"},
		{"IS 7098 Part-1:1988", "is 7098 part 1"},
		{"IS 7098 Part 1", "is 7098 part 1"},
		{"IEC 60502", "iec 60502"},
		{"ISI Marked", QualityMarked},
		{"  IS   1554 ", "is 1554"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := CanonicalStandard(tc.input); got != tc.want {
			t.Errorf("Expected %q for %q, got %q", tc.want, tc.input, got)
		}
	}
}

func TestParseNumber(t *testing.T) {
	if v, ok := ParseNumber("400"); !ok || v != 400 {
		t.Errorf("Expected 400, got %v (ok=%v)", v, ok)
	}
	if v, ok := ParseNumber(3); !ok || v != 3 {
		t.Errorf("Expected 3, got %v (ok=%v)", v, ok)
	}
	if _, ok := ParseNumber("three"); ok {
		t.Errorf("Expected non-numeric text to fail")
	}
	if _, ok := ParseNumber([]string{"1"}); ok {
		t.Errorf("Expected list to fail")
	}
	for _, v := range []any{"NaN", "Inf", "-inf", "+Infinity", math.NaN(), math.Inf(1)} {
		if got, ok := ParseNumber(v); ok {
			t.Errorf("Expected %v to fail, got %v", v, got)
		}
	}
}

func TestExtractNumber(t *testing.T) {
	if v, ok := ExtractNumber("400 sqmm"); !ok || v != 400 {
		t.Errorf("Expected 400, got %v (ok=%v)", v, ok)
	}
	if v, ok := ExtractNumber(2.5); !ok || v != 2.5 {
		t.Errorf("Expected 2.5, got %v (ok=%v)", v, ok)
	}
	if _, ok := ExtractNumber("sqmm"); ok {
		t.Errorf("Expected text without digits to fail")
	}
	for _, v := range []any{"NaN", "Inf", math.NaN()} {
		if got, ok := ExtractNumber(v); ok {
			t.Errorf("Expected %v to fail, got %v", v, got)
		}
	}
}

func TestJaccard(t *testing.T) {
	a := Tokenize("XLPE Armoured Cable 3 Core")
	b := Tokenize("xlpe cable, armoured")

	got := Jaccard(a, b)
	want := 3.0 / 5.0
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if Jaccard(a, Tokenize("")) != 0 {
		t.Errorf("Expected 0 similarity against empty text")
	}
}
