package requirement

import (
	"fmt"
	"strings"

	"github.com/okian/liftmotor/internal/domain/motor"
)

// MotorChoice selects which catalogs a query runs against.
type MotorChoice string

// Motor choices.
const (
	MotorBoth     MotorChoice = "Both"
	MotorGearless MotorChoice = MotorChoice(motor.TypeGearless)
	MotorGeared   MotorChoice = MotorChoice(motor.TypeGeared)
)

// Types expands the choice into catalog types, gearless first.
func (c MotorChoice) Types() []motor.Type {
	switch c {
	case MotorGearless:
		return []motor.Type{motor.TypeGearless}
	case MotorGeared:
		return []motor.Type{motor.TypeGeared}
	default:
		return motor.Types()
	}
}

// UseType distinguishes passenger lifts from goods lifts.
type UseType string

// Use types.
const (
	UsePassenger UseType = "Passenger"
	UseGoods     UseType = "Goods"
)

// Query is the raw input collected by the presentation layer.
type Query struct {
	MotorType    MotorChoice  `json:"motor_type"`
	UseType      UseType      `json:"use_type"`
	Passengers   int          `json:"passengers,omitempty"`
	LoadKG       float64      `json:"load_kg,omitempty"`
	Floors       int          `json:"floors"`
	SpeedMPS     float64      `json:"speed_mps"`
	RopingFilter RopingFilter `json:"roping,omitempty"`
	Policy       string       `json:"policy,omitempty"`
	Explain      bool         `json:"explain,omitempty"`
}

// Normalize fills defaults and canonicalises enum spelling.
func (q Query) Normalize() Query {
	switch strings.ToLower(strings.TrimSpace(string(q.MotorType))) {
	case "", "both":
		q.MotorType = MotorBoth
	case "gearless":
		q.MotorType = MotorGearless
	case "geared":
		q.MotorType = MotorGeared
	}
	switch strings.ToLower(strings.TrimSpace(string(q.UseType))) {
	case "", "passenger":
		q.UseType = UsePassenger
	case "goods":
		q.UseType = UseGoods
	}
	switch strings.ToLower(strings.TrimSpace(string(q.RopingFilter))) {
	case "", "any":
		q.RopingFilter = RopingAny
	default:
		q.RopingFilter = RopingFilter(strings.TrimSpace(string(q.RopingFilter)))
	}
	if q.SpeedMPS == 0 {
		q.SpeedMPS = DefaultSpeedMPS
	}
	return q
}

// Validate enforces the input ranges the derivation functions rely on.
// Call it on a normalized query.
func (q Query) Validate() error {
	switch q.MotorType {
	case MotorBoth, MotorGearless, MotorGeared:
	default:
		return fmt.Errorf("%w: motor_type %q", ErrInvalidQuery, q.MotorType)
	}
	switch q.UseType {
	case UsePassenger:
		if q.Passengers < 1 {
			return fmt.Errorf("%w: passengers must be >= 1", ErrInvalidQuery)
		}
	case UseGoods:
		if !(q.LoadKG > 0) {
			return fmt.Errorf("%w: load_kg must be > 0", ErrInvalidQuery)
		}
	default:
		return fmt.Errorf("%w: use_type %q", ErrInvalidQuery, q.UseType)
	}
	if q.Floors < 1 {
		return fmt.Errorf("%w: floors must be >= 1", ErrInvalidQuery)
	}
	if !IsAllowedSpeed(q.SpeedMPS) {
		return fmt.Errorf("%w: speed_mps %v not in %v", ErrInvalidQuery, q.SpeedMPS, AllowedSpeeds)
	}
	if !q.RopingFilter.valid() {
		return fmt.Errorf("%w: roping %q", ErrInvalidQuery, q.RopingFilter)
	}
	return nil
}

// Deriver turns queries into requirements using configurable averages.
type Deriver struct {
	passengerWeightKG float64
	floorHeightM      float64
}

// Option applies a configuration option to the Deriver.
type Option func(*Deriver)

// WithPassengerWeight sets the average passenger weight in kilograms.
func WithPassengerWeight(kg float64) Option {
	return func(d *Deriver) {
		if kg > 0 {
			d.passengerWeightKG = kg
		}
	}
}

// WithFloorHeight sets the storey height in metres.
func WithFloorHeight(m float64) Option {
	return func(d *Deriver) {
		if m > 0 {
			d.floorHeightM = m
		}
	}
}

// NewDeriver creates a Deriver with the default 68 kg / 3 m averages.
func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{
		passengerWeightKG: DefaultPassengerWeightKG,
		floorHeightM:      DefaultFloorHeightM,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive builds the requirement for a validated query. Goods queries use
// LoadKG directly; passenger queries convert the head count.
func (d *Deriver) Derive(q Query) Requirement {
	capacity := q.LoadKG
	if q.UseType != UseGoods {
		capacity = DeriveCapacityFromPassengers(q.Passengers, d.passengerWeightKG)
	}
	return Requirement{
		RequiredCapacityKG: capacity,
		RequiredSpeedMPS:   q.SpeedMPS,
		RequiredTravelM:    DeriveTravelHeight(q.Floors, d.floorHeightM),
		RopingFilter:       q.RopingFilter,
	}
}
