// Package predict defines the contract for mapping a pre-match rating
// comparison to an expected performance in [0, 1].
package predict

import (
	"math"

	"github.com/okian/skillrate/internal/domain/model"
)

// Default predictor coefficients. The rating-difference coefficient is a
// tuned constant on the 1000-centered rating scale.
const (
	defaultRatingDiffCoef  = 0.005757
	defaultMaxPredictValue = 1.0
)

// Predictor computes the expected performance for a player against an
// opposing team, optionally informed by the player's own team rating.
// Implementations must be deterministic given their internal state.
type Predictor interface {
	// Predict is pure: it never mutates predictor state, so read-only
	// future passes stay repeatable.
	Predict(player model.PreMatchPlayerRating, opponent model.PreMatchTeamRating, team *model.PreMatchTeamRating) float64

	// Observe feeds a sighted pre-match rating into any internal state.
	// Called by generators during historical passes only.
	Observe(playerRating float64)

	// Reset clears any internal state so independent runs never
	// cross-contaminate.
	Reset()
}

func logistic(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// clampPrediction bounds a prediction to [1-max, max] so the sigmoid never
// saturates feature output at the extremes. max of 1 disables clamping.
func clampPrediction(p, maxValue float64) float64 {
	if p > maxValue {
		return maxValue
	}
	if p < 1-maxValue {
		return 1 - maxValue
	}
	return p
}

// RatingDifferencePredictor predicts off the rating gap between the player
// and the opposing team, with optional team-context terms.
type RatingDifferencePredictor struct {
	ratingDiffCoef     float64
	teamFromPlayerCoef float64
	teamDiffCoef       float64
	maxPredictValue    float64
}

// NewRatingDifferencePredictor creates a rating-difference predictor with
// configuration options.
func NewRatingDifferencePredictor(opts ...DifferenceOption) *RatingDifferencePredictor {
	p := &RatingDifferencePredictor{
		ratingDiffCoef:  defaultRatingDiffCoef,
		maxPredictValue: defaultMaxPredictValue,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Predict implements Predictor.
func (p *RatingDifferencePredictor) Predict(player model.PreMatchPlayerRating, opponent model.PreMatchTeamRating, team *model.PreMatchTeamRating) float64 {
	ratingDiff := player.RatingValue - opponent.RatingValue
	teamFromPlayer := 0.0
	teamDiff := 0.0
	if team != nil {
		teamFromPlayer = team.RatingValue - player.RatingValue
		teamDiff = team.RatingValue - opponent.RatingValue
	}

	value := p.ratingDiffCoef*ratingDiff +
		p.teamFromPlayerCoef*teamFromPlayer +
		p.teamDiffCoef*teamDiff

	return clampPrediction(logistic(value), p.maxPredictValue)
}

// Observe implements Predictor. The predictor is stateless.
func (p *RatingDifferencePredictor) Observe(_ float64) {}

// Reset implements Predictor. The predictor is stateless.
func (p *RatingDifferencePredictor) Reset() {}

// RatingMeanPredictor predicts off the deviation of the matchup midpoint
// from a running global mean rating. The mean is updated incrementally in
// O(1) per call and is owned by the instance, never shared.
type RatingMeanPredictor struct {
	coef            float64
	maxPredictValue float64

	sumRating   float64
	ratingCount int
}

// NewRatingMeanPredictor creates a rating-mean predictor with configuration
// options.
func NewRatingMeanPredictor(opts ...MeanOption) *RatingMeanPredictor {
	p := &RatingMeanPredictor{
		coef:            defaultRatingDiffCoef,
		maxPredictValue: defaultMaxPredictValue,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Predict implements Predictor.
func (p *RatingMeanPredictor) Predict(player model.PreMatchPlayerRating, opponent model.PreMatchTeamRating, _ *model.PreMatchTeamRating) float64 {
	// Before any observation the matchup midpoint stands in for the
	// global mean, which centers the prediction at 0.5.
	average := (player.RatingValue + opponent.RatingValue) / 2
	if p.ratingCount > 0 {
		average = p.sumRating / float64(p.ratingCount)
	}

	centered := player.RatingValue*0.5 + opponent.RatingValue*0.5 - average

	return clampPrediction(logistic(p.coef*centered), p.maxPredictValue)
}

// Observe implements Predictor, advancing the running mean in O(1).
func (p *RatingMeanPredictor) Observe(playerRating float64) {
	p.ratingCount++
	p.sumRating += playerRating
}

// Reset implements Predictor, clearing the running mean.
func (p *RatingMeanPredictor) Reset() {
	p.sumRating = 0
	p.ratingCount = 0
}
