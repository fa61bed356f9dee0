package rating

import "errors"

// Sentinel kinds for rating generation errors.
var (
	ErrOutOfOrder       = errors.New("match out of chronological order")
	ErrUnknownFeature   = errors.New("unknown feature column")
	ErrRowOutOfRange    = errors.New("feature row out of range")
	ErrDuplicateFeature = errors.New("duplicate feature column")
	ErrRowsMismatch     = errors.New("feature row counts differ")
)
