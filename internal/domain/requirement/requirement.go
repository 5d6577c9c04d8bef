// Package requirement converts building parameters into the engineering
// quantities a motor has to satisfy.
//
// The functions here do not validate their inputs. Callers (the HTTP API and
// the CLI) guarantee passengers >= 1 and floors >= 1 through Query.Validate
// before deriving anything.
package requirement

import (
	"math"

	"github.com/okian/liftmotor/internal/domain/motor"
)

// Derivation defaults.
const (
	DefaultPassengerWeightKG = 68.0
	DefaultFloorHeightM      = 3.0

	speedTolerance = 1e-9
)

// AllowedSpeeds lists the selectable rated speeds in m/s, slowest first.
var AllowedSpeeds = []float64{0.5, 0.63, 0.67, 0.81, 1.0} //nolint:gochecknoglobals // fixed catalog of speeds

// DefaultSpeedMPS is the speed preselected by the presentation layer.
const DefaultSpeedMPS = 1.0

// IsAllowedSpeed reports whether v is one of AllowedSpeeds.
func IsAllowedSpeed(v float64) bool {
	for _, s := range AllowedSpeeds {
		if math.Abs(s-v) < speedTolerance {
			return true
		}
	}
	return false
}

// DeriveCapacityFromPassengers returns the load in kilograms for a passenger
// count. No rounding is applied. passengers must be >= 1 (caller-enforced).
func DeriveCapacityFromPassengers(passengers int, avgWeightKG float64) float64 {
	return float64(passengers) * avgWeightKG
}

// DeriveTravelHeight returns the travel height in metres for a "G+floors"
// building: the ground floor plus floors levels above it. floors must be
// >= 1 (caller-enforced).
func DeriveTravelHeight(floors int, heightPerFloorM float64) float64 {
	return float64(floors+1) * heightPerFloorM
}

// RopingFilter restricts results to an exact roping ratio.
type RopingFilter string

// Roping filter values. The zero value behaves like RopingAny.
const (
	RopingAny  RopingFilter = "Any"
	Roping1to1 RopingFilter = RopingFilter(motor.Roping1to1)
	Roping2to1 RopingFilter = RopingFilter(motor.Roping2to1)
)

// Active reports whether the filter restricts anything.
func (f RopingFilter) Active() bool {
	return f != "" && f != RopingAny
}

// Matches reports whether r passes the filter.
func (f RopingFilter) Matches(r motor.Roping) bool {
	if !f.Active() {
		return true
	}
	return motor.Roping(f) == r
}

func (f RopingFilter) valid() bool {
	switch f {
	case "", RopingAny, Roping1to1, Roping2to1:
		return true
	}
	return false
}

// Requirement is what a motor must satisfy for one query. It is built per
// query and never stored.
type Requirement struct {
	RequiredCapacityKG float64      `json:"required_capacity_kg"`
	RequiredSpeedMPS   float64      `json:"required_speed_mps"`
	RequiredTravelM    float64      `json:"required_travel_m"`
	RopingFilter       RopingFilter `json:"roping_filter,omitempty"`
}
