package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// KiloThreshold is the bare voltage value below which a number is read as kV.
// "11" and "1.1" are kilovolt grades, "1100" is already in volts.
const KiloThreshold = 50.0

// QualityMarked is the generic certification requirement every product satisfies
const QualityMarked = "isi marked"

var (
	numberPattern      = regexp.MustCompile(`\d+(?:\.\d+)?`)
	parentheticalRegex = regexp.MustCompile(`\(.*?\)`)
	yearSuffixRegex    = regexp.MustCompile(`:\d{4}`)
	wordPattern        = regexp.MustCompile(`\w+`)
)

var materialSynonyms = map[string]string{
	"aluminum":  "aluminium",
	"aluminium": "aluminium",
	"al":        "aluminium",
	"alu":       "aluminium",
	"cu":        "copper",
	"copper":    "copper",
}

// IsUnspecified reports whether a requirement value is the wildcard
func IsUnspecified(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(val)
		return s == "" || strings.EqualFold(s, entities.NotSpecified)
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	}
	return false
}

// NormalizeText renders a value as trimmed, case-folded text
func NormalizeText(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(cases.Fold().String(fmt.Sprint(v)))
}

// ParseNumber reads a numeric requirement given as a number or a numeric
// string. NaN and infinities are not numbers here.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	return f, finite(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ExtractNumber is ParseNumber that also accepts text with units, e.g. "400 sqmm"
func ExtractNumber(v any) (float64, bool) {
	if f, ok := ParseNumber(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

// CanonicalVoltage converts a voltage grade to volts.
//
// The first number in the text is taken. It is scaled by 1000 when the text
// carries a kilo prefix ("11kV", "1.1 KV") or when the bare number is below
// KiloThreshold. ok is false when no number can be found.
func CanonicalVoltage(v any) (volts float64, ok bool) {
	if v == nil {
		return 0, false
	}
	raw := strings.ToUpper(fmt.Sprint(v))
	stripped := strings.ReplaceAll(raw, "VOLTS", "")
	stripped = strings.ReplaceAll(stripped, "V", "")

	match := numberPattern.FindString(stripped)
	if match == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	if strings.Contains(raw, "K") || val < KiloThreshold {
		val *= 1000
	}
	return math.Round(val*1000) / 1000, true
}

// CanonicalMaterial maps conductor material synonyms onto one token
func CanonicalMaterial(v any) string {
	n := NormalizeText(v)
	if n == "" {
		return ""
	}
	n = strings.TrimSpace(parentheticalRegex.ReplaceAllString(n, ""))

	if canonical, ok := materialSynonyms[n]; ok {
		return canonical
	}

	for _, tok := range strings.Fields(n) {
		switch tok {
		case "al", "alu", "aluminum", "aluminium":
			return "aluminium"
		}
	}
	for _, tok := range strings.Fields(n) {
		if tok == "cu" || tok == "copper" {
			return "copper"
		}
	}
	return n
}

// CanonicalStandard strips qualifiers and edition years from a standard reference
func CanonicalStandard(s string) string {
	n := NormalizeText(s)
	if n == "" {
		return ""
	}
	n = parentheticalRegex.ReplaceAllString(n, "")
	n = yearSuffixRegex.ReplaceAllString(n, "")
	n = strings.ReplaceAll(n, "part-", "part ")
	return strings.Join(strings.Fields(n), " ")
}

// Tokenize returns the lower-cased word set of a text
func Tokenize(text string) map[string]struct{} {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
