package simulate

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/skillrate/internal/domain/table"
)

// PassthroughPerformance satisfies the pipeline's performance collaborator
// for datasets whose performance column is already computed. It only checks
// the column exists and is finite.
type PassthroughPerformance struct {
	column string
}

// NewPassthroughPerformance creates the collaborator for a named column.
func NewPassthroughPerformance(column string) *PassthroughPerformance {
	return &PassthroughPerformance{column: column}
}

// Generate implements the performance collaborator contract.
func (p *PassthroughPerformance) Generate(ctx context.Context, tbl *table.Table) error {
	vals, err := tbl.Floats(p.column)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMissingPerformance, err)
	}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value at row %d", ErrMissingPerformance, i)
		}
	}
	return nil
}

// BaselinePredictor is a deliberately trivial estimator: it learns the mean
// of the target column and predicts it everywhere. It exists to exercise the
// Train/AddPrediction contract end to end, not to be good.
type BaselinePredictor struct {
	target     string
	prediction string

	mean    float64
	trained bool
}

// NewBaselinePredictor creates the estimator reading target and writing
// prediction.
func NewBaselinePredictor(target, prediction string) *BaselinePredictor {
	return &BaselinePredictor{
		target:     target,
		prediction: prediction,
	}
}

// Train implements the estimator contract.
func (b *BaselinePredictor) Train(ctx context.Context, tbl *table.Table, features []string) error {
	vals, err := tbl.Floats(b.target)
	if err != nil {
		return err
	}
	var sum float64
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n > 0 {
		b.mean = sum / float64(n)
	}
	b.trained = true
	return nil
}

// AddPrediction implements the estimator contract.
func (b *BaselinePredictor) AddPrediction(ctx context.Context, tbl *table.Table) error {
	preds := make([]float64, tbl.Len())
	for i := range preds {
		preds[i] = b.mean
	}
	return tbl.AddFloats(b.prediction, preds)
}
