package switches

import "errors"

// Sentinel errors returned by the switch service. Handlers map these onto
// status codes; anything else is a store failure and surfaces as a 500.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrVersionConflict = errors.New("version conflict")
)
