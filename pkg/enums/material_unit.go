package enums

import "fmt"

// MaterialUnit is the measurement unit a material is tracked in.
type MaterialUnit string

const (
	MaterialUnitGram       MaterialUnit = "g"
	MaterialUnitKilogram   MaterialUnit = "kg"
	MaterialUnitMilliliter MaterialUnit = "ml"
	MaterialUnitLiter      MaterialUnit = "l"
	MaterialUnitPiece      MaterialUnit = "unit"
)

var validMaterialUnits = []MaterialUnit{
	MaterialUnitGram,
	MaterialUnitKilogram,
	MaterialUnitMilliliter,
	MaterialUnitLiter,
	MaterialUnitPiece,
}

// String implements fmt.Stringer.
func (m MaterialUnit) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MaterialUnit.
func (m MaterialUnit) IsValid() bool {
	for _, candidate := range validMaterialUnits {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaterialUnit converts raw input into a MaterialUnit.
func ParseMaterialUnit(value string) (MaterialUnit, error) {
	for _, candidate := range validMaterialUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material unit %q", value)
}
