package rating

import (
	"fmt"
	"math"
)

// Feature column names emitted by the generators. Names are deterministic
// given configuration; when several generators are composed the pipeline
// appends a numeric suffix to disambiguate.
const (
	FeaturePlayerRating       = "player_rating"
	FeatureTeamRating         = "team_rating"
	FeatureOpponentRating     = "opponent_rating"
	FeatureRatingDifference   = "rating_difference"
	FeaturePlayerRatingChange = "player_rating_change"
	FeatureCertainRatio       = "certain_ratio"

	FeatureTimeWeightedRating          = "time_weighted_rating"
	FeatureTimeWeightedLikelihoodRatio = "time_weighted_rating_likelihood_ratio"
	FeatureTimeWeightedEvidence        = "time_weighted_rating_evidence"
)

// Features holds named numeric columns aligned row-for-row with the input
// table. Unset cells are NaN, which also encodes "undefined" values such as
// the evidence of a first appearance.
type Features struct {
	rows  int
	order []string
	cols  map[string][]float64
}

// NewFeatures creates a NaN-filled feature set for the given row count.
func NewFeatures(rows int, names ...string) *Features {
	f := &Features{
		rows: rows,
		cols: make(map[string][]float64, len(names)),
	}
	for _, name := range names {
		col := make([]float64, rows)
		for i := range col {
			col[i] = math.NaN()
		}
		f.cols[name] = col
		f.order = append(f.order, name)
	}
	return f
}

// Rows returns the row count.
func (f *Features) Rows() int { return f.rows }

// Names returns column names in declaration order.
func (f *Features) Names() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Set writes one cell.
func (f *Features) Set(name string, row int, v float64) error {
	col, ok := f.cols[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
	if row < 0 || row >= f.rows {
		return fmt.Errorf("%w: %d (have %d rows)", ErrRowOutOfRange, row, f.rows)
	}
	col[row] = v
	return nil
}

// Column returns a named column.
func (f *Features) Column(name string) ([]float64, error) {
	col, ok := f.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
	return col, nil
}

// Merge combines feature sets into one, appending the corresponding suffix to
// each set's column names. An empty suffix keeps names unchanged. Resulting
// name collisions and row-count mismatches are errors.
func Merge(sets []*Features, suffixes []string) (*Features, error) {
	if len(sets) == 0 {
		return NewFeatures(0), nil
	}

	rows := sets[0].rows
	merged := &Features{
		rows: rows,
		cols: make(map[string][]float64),
	}

	for i, set := range sets {
		if set.rows != rows {
			return nil, fmt.Errorf("%w: %d vs %d", ErrRowsMismatch, set.rows, rows)
		}
		suffix := ""
		if i < len(suffixes) {
			suffix = suffixes[i]
		}
		for _, name := range set.order {
			out := name + suffix
			if _, exists := merged.cols[out]; exists {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateFeature, out)
			}
			col := make([]float64, rows)
			copy(col, set.cols[name])
			merged.cols[out] = col
			merged.order = append(merged.order, out)
		}
	}

	return merged, nil
}
