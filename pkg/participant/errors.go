package participant

import (
	"errors"
	"fmt"
)

var (
	ErrNonPositiveDuration = errors.New("duration must be positive")
	ErrNegativeDistance    = errors.New("trip distance must not be negative")
	ErrTimeWindow          = errors.New("earliest start is after latest start")
	ErrTimeOutOfRange      = errors.New("time outside [0, 1440)")
	ErrInvalidCoordinate   = errors.New("invalid coordinate")
	ErrOutOfBounds         = errors.New("coordinate outside service area")
	ErrDuplicateID         = errors.New("duplicate participant id")
)

// DataError rejects a single malformed participant. It never aborts enumeration.
type DataError struct {
	ID    int64
	Role  Role
	Field string
	Err   error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s %d: %s: %v", e.Role, e.ID, e.Field, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}
