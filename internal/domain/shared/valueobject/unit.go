package valueobject

import (
	"strings"
)

// Unit is a unit of measure for stock items
type Unit string

const (
	UnitPieces Unit = "pcs"
	UnitBox    Unit = "box"
	UnitKg     Unit = "kg"
	UnitLitre  Unit = "ltr"
	UnitMetre  Unit = "mtr"
	UnitSet    Unit = "set"
)

// AllUnits returns every supported unit
func AllUnits() []Unit {
	return []Unit{UnitPieces, UnitBox, UnitKg, UnitLitre, UnitMetre, UnitSet}
}

// ParseUnit normalizes s and returns the matching Unit
func ParseUnit(s string) (Unit, bool) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	return u, u.IsValid()
}

// IsValid checks if the unit is supported
func (u Unit) IsValid() bool {
	switch u {
	case UnitPieces, UnitBox, UnitKg, UnitLitre, UnitMetre, UnitSet:
		return true
	}
	return false
}

// String returns the string representation of Unit
func (u Unit) String() string {
	return string(u)
}
