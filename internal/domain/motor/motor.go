// Package motor contains the catalog records the selector filters.
package motor

import (
	"fmt"
	"math"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// Roping is the reeving ratio of a motor installation, e.g. "1:1" or "2:1".
// Catalogs may carry other values; they are kept verbatim.
type Roping string

// Known roping ratios.
const (
	Roping1to1 Roping = "1:1"
	Roping2to1 Roping = "2:1"
)

// Multiplier returns the mechanical advantage of the ratio. Only 2:1 doubles
// the liftable load; every other value (including blank) counts as 1:1.
func (r Roping) Multiplier() float64 {
	if r == Roping2to1 {
		return 2
	}
	return 1
}

// Type names one of the two catalogs.
type Type string

// Catalog types.
const (
	TypeGearless Type = "Gearless"
	TypeGeared   Type = "Geared"
)

// Types lists every catalog type in display order.
func Types() []Type { return []Type{TypeGearless, TypeGeared} }

// ParseType maps a case-insensitive name to a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gearless":
		return TypeGearless, nil
	case "geared":
		return TypeGeared, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Record is one catalog row.
type Record struct {
	Model      string            `json:"model,omitempty"`
	CapacityKG float64           `json:"capacity_kg"`
	SpeedMPS   float64           `json:"speed_mps"`
	MaxTravelM *float64          `json:"max_travel_m,omitempty"` // nil when the cell is blank
	Roping     Roping            `json:"roping,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"` // non-canonical columns, verbatim
}

// EffectiveCapacityKG is the rated capacity scaled by the roping multiplier.
func (r Record) EffectiveCapacityKG() float64 {
	return r.CapacityKG * r.Roping.Multiplier()
}

// Travel returns the max travel and whether the record has one.
func (r Record) Travel() (float64, bool) {
	if r.MaxTravelM == nil {
		return 0, false
	}
	return *r.MaxTravelM, true
}

// Float returns a pointer to v, for building records with a travel value.
func Float(v float64) *float64 { return &v }

// Catalog is an immutable, ordered set of records of a single motor type.
//
// HasTravel is a property of the table schema: when false the source had no
// travel column at all and travel requirements never reject a row.
type Catalog struct {
	motorType Type
	hasTravel bool
	records   []Record
}

// NewCatalog validates records and takes a private copy of them.
func NewCatalog(t Type, hasTravel bool, records []Record) (*Catalog, error) {
	for i, r := range records {
		if !(r.CapacityKG > 0) || math.IsInf(r.CapacityKG, 0) {
			return nil, fmt.Errorf("%w: row %d capacity_kg %v", ErrInvalidRecord, i, r.CapacityKG)
		}
		if !(r.SpeedMPS > 0) || math.IsInf(r.SpeedMPS, 0) {
			return nil, fmt.Errorf("%w: row %d speed_mps %v", ErrInvalidRecord, i, r.SpeedMPS)
		}
		if r.MaxTravelM != nil && !(*r.MaxTravelM >= 0 && !math.IsInf(*r.MaxTravelM, 0)) {
			return nil, fmt.Errorf("%w: row %d max_travel_m %v", ErrInvalidRecord, i, *r.MaxTravelM)
		}
	}
	owned := make([]Record, 0, len(records))
	if len(records) > 0 {
		if err := deepcopy.Copy(&owned, records); err != nil {
			return nil, fmt.Errorf("copy records: %w", err)
		}
	}
	return &Catalog{motorType: t, hasTravel: hasTravel, records: owned}, nil
}

// Type returns the catalog's motor type.
func (c *Catalog) Type() Type { return c.motorType }

// HasTravel reports whether the catalog schema carries a travel column.
func (c *Catalog) HasTravel() bool { return c.hasTravel }

// Len returns the number of rows.
func (c *Catalog) Len() int { return len(c.records) }

// Records returns a deep copy of the rows in catalog order.
func (c *Catalog) Records() []Record {
	out := make([]Record, 0, len(c.records))
	if len(c.records) == 0 {
		return out
	}
	if err := deepcopy.Copy(&out, c.records); err != nil {
		// Records only holds plain values, maps and pointers to floats.
		panic(err)
	}
	return out
}
