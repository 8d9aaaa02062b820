package matching

import (
	"github.com/mitchellh/mapstructure"

	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// SpecSheet is the typed view of a requirement map or a product's technical
// specs. Extraction emits numbers as strings and single standards as bare
// strings, so values are decoded weakly.
type SpecSheet struct {
	VoltageGrade      string   `mapstructure:"voltage_grade"`
	CoreCount         string   `mapstructure:"core_count"`
	CrossSectionSqmm  string   `mapstructure:"cross_section_sqmm"`
	ConductorMaterial string   `mapstructure:"conductor_material"`
	Insulation        string   `mapstructure:"insulation"`
	Sheath            string   `mapstructure:"sheath"`
	ArmourType        string   `mapstructure:"armour_type"`
	Standards         []string `mapstructure:"standards"`
}

// Value returns the sheet value for a requirement name
func (s SpecSheet) Value(field string) any {
	switch field {
	case entities.ReqVoltageGrade:
		return s.VoltageGrade
	case entities.ReqCoreCount:
		return s.CoreCount
	case entities.ReqCrossSection:
		return s.CrossSectionSqmm
	case entities.ReqConductorMaterial:
		return s.ConductorMaterial
	case entities.ReqInsulation:
		return s.Insulation
	case entities.ReqSheath:
		return s.Sheath
	case entities.ReqArmourType:
		return s.ArmourType
	case entities.ReqStandards:
		return s.Standards
	}
	return nil
}

// DecodeSpecSheet decodes a heterogeneous spec map. A value that cannot be
// coerced leaves only its own field empty.
func DecodeSpecSheet(raw map[string]any) SpecSheet {
	var sheet SpecSheet
	if len(raw) == 0 {
		return sheet
	}
	if err := decodeInto(raw, &sheet); err == nil {
		return sheet
	}

	sheet = SpecSheet{}
	for key, value := range raw {
		var field SpecSheet
		if err := decodeInto(map[string]any{key: value}, &field); err != nil {
			continue
		}
		mergeSheet(&sheet, field)
	}
	return sheet
}

func decodeInto(raw map[string]any, out *SpecSheet) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

func mergeSheet(dst *SpecSheet, src SpecSheet) {
	if src.VoltageGrade != "" {
		dst.VoltageGrade = src.VoltageGrade
	}
	if src.CoreCount != "" {
		dst.CoreCount = src.CoreCount
	}
	if src.CrossSectionSqmm != "" {
		dst.CrossSectionSqmm = src.CrossSectionSqmm
	}
	if src.ConductorMaterial != "" {
		dst.ConductorMaterial = src.ConductorMaterial
	}
	if src.Insulation != "" {
		dst.Insulation = src.Insulation
	}
	if src.Sheath != "" {
		dst.Sheath = src.Sheath
	}
	if src.ArmourType != "" {
		dst.ArmourType = src.ArmourType
	}
	if len(src.Standards) > 0 {
		dst.Standards = src.Standards
	}
}
