package ingest

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrOpenFile     = errors.New("open data file failed")
	ErrMalformedCSV = errors.New("malformed csv")
)
