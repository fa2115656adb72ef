// Package units converts speeds between the units accepted on the command
// line. Telemetry and stored sequences are always in metres per second.
package units

import (
	"fmt"
	"strings"
)

const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

const mphPerMPS = 2.2369362920544

// ValidUnits contains all valid unit values.
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units.
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// ValidUnitsString returns the valid units for error messages.
func ValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// Parse normalises unit and rejects unknown values.
func Parse(unit string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		return MPS, nil
	}
	if !IsValid(u) {
		return "", fmt.Errorf("unknown speed unit %q (valid: %s)", unit, ValidUnitsString())
	}
	return u, nil
}

// ConvertSpeed converts a speed in m/s to targetUnits. Unknown units are
// treated as m/s.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * mphPerMPS
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// ToMPS converts a speed in fromUnits back to m/s.
func ToMPS(speed float64, fromUnits string) float64 {
	switch fromUnits {
	case MPH:
		return speed / mphPerMPS
	case KMPH, KPH:
		return speed / 3.6
	default:
		return speed
	}
}
