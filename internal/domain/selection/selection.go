// Package selection decides which catalog rows satisfy a requirement.
package selection

import (
	"fmt"
	"strings"

	"github.com/okian/liftmotor/internal/domain/motor"
	"github.com/okian/liftmotor/internal/domain/requirement"
)

// Policy selects how roping affects the capacity check.
type Policy string

// Filter policies.
const (
	// PolicyEffectiveCapacity compares the requirement with the rated
	// capacity times the roping multiplier.
	PolicyEffectiveCapacity Policy = "effective-capacity"
	// PolicyExactRoping compares the requirement with the rated capacity and
	// relies on the roping filter alone to account for reeving.
	PolicyExactRoping Policy = "exact-roping"
)

// ParsePolicy maps a name to a Policy. An empty name yields def.
func ParsePolicy(s string, def Policy) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case string(PolicyEffectiveCapacity), "effective":
		return PolicyEffectiveCapacity, nil
	case string(PolicyExactRoping), "exact":
		return PolicyExactRoping, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Verdict records the outcome of every check for one record.
type Verdict struct {
	CapacityKG    float64 `json:"capacity_kg"` // capacity the check used
	Capacity      bool    `json:"capacity"`
	Speed         bool    `json:"speed"`
	Travel        bool    `json:"travel"`
	TravelChecked bool    `json:"travel_checked"`
	Roping        bool    `json:"roping"`
}

// Qualified reports whether every applicable check passed.
func (v Verdict) Qualified() bool {
	return v.Capacity && v.Speed && v.Travel && v.Roping
}

// Reasons lists the failed checks by name.
func (v Verdict) Reasons() []string {
	var out []string
	if !v.Capacity {
		out = append(out, "capacity")
	}
	if !v.Speed {
		out = append(out, "speed")
	}
	if !v.Travel {
		out = append(out, "travel")
	}
	if !v.Roping {
		out = append(out, "roping")
	}
	return out
}

// Filter applies the qualification predicate. It holds no state besides its
// policy and is safe for concurrent use.
type Filter struct {
	policy Policy
}

// Option applies a configuration option to the Filter.
type Option func(*Filter)

// WithPolicy sets the capacity policy.
func WithPolicy(p Policy) Option {
	return func(f *Filter) {
		if p != "" {
			f.policy = p
		}
	}
}

// New creates a Filter using the effective-capacity policy by default.
func New(opts ...Option) *Filter {
	f := &Filter{policy: PolicyEffectiveCapacity}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Policy returns the filter's policy.
func (f *Filter) Policy() Policy { return f.policy }

// Explain evaluates every check for r. hasTravel is the catalog's schema
// capability, not a per-record property.
func (f *Filter) Explain(r motor.Record, hasTravel bool, req requirement.Requirement) Verdict {
	v := Verdict{CapacityKG: r.CapacityKG, Travel: true}
	if f.policy != PolicyExactRoping {
		v.CapacityKG = r.EffectiveCapacityKG()
	}
	v.Capacity = v.CapacityKG >= req.RequiredCapacityKG
	v.Speed = r.SpeedMPS >= req.RequiredSpeedMPS
	if hasTravel {
		v.TravelChecked = true
		travel, ok := r.Travel()
		v.Travel = ok && travel >= req.RequiredTravelM
	}
	v.Roping = req.RopingFilter.Matches(r.Roping)
	return v
}

// Qualifies reports whether r satisfies req.
func (f *Filter) Qualifies(r motor.Record, hasTravel bool, req requirement.Requirement) bool {
	return f.Explain(r, hasTravel, req).Qualified()
}

// Apply returns the qualifying rows of c in catalog order. An empty result is
// a valid outcome, never an error.
func (f *Filter) Apply(c *motor.Catalog, req requirement.Requirement) []motor.Record {
	out := make([]motor.Record, 0)
	for _, r := range c.Records() {
		if f.Qualifies(r, c.HasTravel(), req) {
			out = append(out, r)
		}
	}
	return out
}

// Rejection pairs a rejected row with the checks it failed.
type Rejection struct {
	Record  motor.Record `json:"record"`
	Reasons []string     `json:"reasons"`
}

// Partition splits c into qualifying rows and rejections, both in catalog
// order.
func (f *Filter) Partition(c *motor.Catalog, req requirement.Requirement) ([]motor.Record, []Rejection) {
	matched := make([]motor.Record, 0)
	var rejected []Rejection
	for _, r := range c.Records() {
		v := f.Explain(r, c.HasTravel(), req)
		if v.Qualified() {
			matched = append(matched, r)
			continue
		}
		rejected = append(rejected, Rejection{Record: r, Reasons: v.Reasons()})
	}
	return matched, rejected
}
