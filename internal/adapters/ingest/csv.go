// Package ingest loads match-participant tables from CSV files into the
// columnar form the pipeline consumes.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/okian/skillrate/internal/config"
	"github.com/okian/skillrate/internal/domain/table"
)

// Accepted start-date layouts, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadCSV reads a headered CSV file into a Table. Column typing follows the
// configured mapping: the start-date column becomes times, the performance
// and weight columns become floats, everything else stays strings.
func LoadCSV(path string, cfg *config.Config) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFile, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedCSV)
	}

	header := records[0]
	rows := records[1:]

	floatCols := map[string]bool{
		cfg.PerformanceColumn: true,
	}
	if cfg.ParticipationWeightColumn != "" {
		floatCols[cfg.ParticipationWeightColumn] = true
	}
	if cfg.ProjectedParticipationWeightColumn != "" {
		floatCols[cfg.ProjectedParticipationWeightColumn] = true
	}

	tbl := table.New(len(rows))
	for ci, name := range header {
		switch {
		case name == cfg.StartDateColumn:
			vals := make([]time.Time, len(rows))
			for ri, row := range rows {
				t, err := parseDate(row[ci])
				if err != nil {
					return nil, fmt.Errorf("%w: column %q row %d: %v", ErrMalformedCSV, name, ri+1, err)
				}
				vals[ri] = t
			}
			if err := tbl.AddTimes(name, vals); err != nil {
				return nil, err
			}
		case floatCols[name]:
			vals := make([]float64, len(rows))
			for ri, row := range rows {
				v, err := strconv.ParseFloat(row[ci], 64)
				if err != nil {
					return nil, fmt.Errorf("%w: column %q row %d: %v", ErrMalformedCSV, name, ri+1, err)
				}
				vals[ri] = v
			}
			if err := tbl.AddFloats(name, vals); err != nil {
				return nil, err
			}
		default:
			vals := make([]string, len(rows))
			for ri, row := range rows {
				vals[ri] = row[ci]
			}
			if err := tbl.AddStrings(name, vals); err != nil {
				return nil, err
			}
		}
	}

	return tbl, nil
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
