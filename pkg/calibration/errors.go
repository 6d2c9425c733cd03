package calibration

import "errors"

var (
	// ErrSchemaMismatch is returned when a parsed structure lacks a required
	// key or holds a value of the wrong type.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrEmptyName is returned when a storage path is requested for a
	// calibration without a name.
	ErrEmptyName = errors.New("calibration name is empty")
)
