package motor

import "errors"

// Sentinel kinds for catalog model errors.
var (
	ErrInvalidRecord = errors.New("invalid motor record")
	ErrUnknownType   = errors.New("unknown motor type")
)
