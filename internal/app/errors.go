package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrUnknownGenerator = errors.New("unknown generator")
	ErrDuplicateFeature = errors.New("duplicate feature column")
	ErrNoRatingStore    = errors.New("no rating store configured")
	ErrNoCollaborator   = errors.New("performance generator and predictor required")
)
