package motorctl

import "errors"

// Sentinel kinds for CLI errors.
var (
	ErrRemote           = errors.New("remote selection failed")
	ErrValidationFailed = errors.New("catalog validation failed")
)
