package match

import "errors"

// Sentinel kinds for match construction errors.
var (
	ErrInvalidColumns   = errors.New("invalid column configuration")
	ErrTooFewTeams      = errors.New("match has fewer than 2 teams")
	ErrBadPerformance   = errors.New("performance value out of range")
	ErrBadParticipation = errors.New("participation weight out of range")
)
