package requirement

import "errors"

// ErrInvalidQuery marks presentation-layer input that failed validation.
var ErrInvalidQuery = errors.New("invalid query")
