package catalog

import (
	"errors"
	"fmt"

	"github.com/okian/liftmotor/internal/domain/motor"
)

// Sentinel kinds for catalog loading.
var (
	ErrSchema            = errors.New("catalog schema error")
	ErrInvalidRow        = errors.New("invalid catalog row")
	ErrParse             = errors.New("catalog parse failed")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// SchemaError reports a catalog missing a required column. It makes the
// catalog unavailable for the session.
type SchemaError struct {
	Catalog motor.Type
	Column  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s catalog: missing required column %q", e.Catalog, e.Column)
}

// Unwrap lets callers match ErrSchema.
func (e *SchemaError) Unwrap() error { return ErrSchema }

// RowError reports a data row whose cell failed validation.
type RowError struct {
	Catalog motor.Type
	Line    int // 1-based line in the source file or sheet
	Column  string
	Value   string
	Err     error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s catalog line %d: %s=%q %v", e.Catalog, e.Line, e.Column, e.Value, e.Err)
}

// Unwrap lets callers match ErrInvalidRow and the cause.
func (e *RowError) Unwrap() []error { return []error{ErrInvalidRow, e.Err} }
