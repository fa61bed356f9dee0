package simulate

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrBadConfig          = errors.New("bad simulation config")
	ErrMissingPerformance = errors.New("performance column missing")
)
