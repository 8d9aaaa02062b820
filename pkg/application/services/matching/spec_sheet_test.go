package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vsinha/bidengine/pkg/domain/entities"
)

var fixedNow = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func TestDecodeSpecSheet_WeakTypes(t *testing.T) {
	sheet := DecodeSpecSheet(map[string]any{
		entities.ReqVoltageGrade:  "11kV",
		entities.ReqCoreCount:     3,
		entities.ReqCrossSection:  1.5,
		entities.ReqStandards:     "IS 694",
		entities.ReqInsulation:    "XLPE",
		"manufacturer_preference": "anything",
	})

	assert.Equal(t, "11kV", sheet.VoltageGrade)
	assert.Equal(t, "3", sheet.CoreCount)
	assert.Equal(t, "1.5", sheet.CrossSectionSqmm)
	assert.Equal(t, []string{"IS 694"}, sheet.Standards)
	assert.Equal(t, "XLPE", sheet.Value(entities.ReqInsulation))
	assert.Nil(t, sheet.Value("unknown"))
}

func TestDecodeSpecSheet_BadFieldOnlyDropsItself(t *testing.T) {
	sheet := DecodeSpecSheet(map[string]any{
		entities.ReqVoltageGrade: "11kV",
		entities.ReqCoreCount:    map[string]any{"value": 3},
		entities.ReqStandards:    []any{"IS 7098", "IEC 60502"},
	})

	assert.Equal(t, "11kV", sheet.VoltageGrade)
	assert.Empty(t, sheet.CoreCount)
	assert.Equal(t, []string{"IS 7098", "IEC 60502"}, sheet.Standards)
}

func TestDecodeSpecSheet_Empty(t *testing.T) {
	assert.Equal(t, SpecSheet{}, DecodeSpecSheet(nil))
}
