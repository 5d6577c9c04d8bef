// Package types contains the selection result types shared by the service,
// the HTTP API and the CLI.
package types

import (
	"github.com/okian/liftmotor/internal/domain/motor"
	"github.com/okian/liftmotor/internal/domain/requirement"
	"github.com/okian/liftmotor/internal/domain/selection"
)

// Status is the outcome of a query against one catalog.
type Status string

// Result statuses. No matches and an unavailable catalog are reported
// differently.
const (
	StatusOK          Status = "ok"
	StatusNoMatches   Status = "no_matches"
	StatusUnavailable Status = "unavailable"
)

// Result holds the outcome for one motor type.
type Result struct {
	MotorType motor.Type            `json:"motor_type"`
	Status    Status                `json:"status"`
	Motors    []motor.Record        `json:"motors"`
	Rejected  []selection.Rejection `json:"rejected,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// Response is the answer to one selection query.
type Response struct {
	QueryID     string                  `json:"query_id"`
	Policy      selection.Policy        `json:"policy"`
	Requirement requirement.Requirement `json:"requirement"`
	Results     []Result                `json:"results"`
}

// Matches returns the number of qualifying motors across all results.
func (r Response) Matches() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Motors)
	}
	return n
}

// ResultFor returns the result of motor type t, if the query covered it.
func (r Response) ResultFor(t motor.Type) (Result, bool) {
	for _, res := range r.Results {
		if res.MotorType == t {
			return res, true
		}
	}
	return Result{}, false
}
