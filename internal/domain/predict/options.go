package predict

// DifferenceOption applies a configuration option to the
// RatingDifferencePredictor.
type DifferenceOption func(*RatingDifferencePredictor)

// WithRatingDiffCoef sets the player-vs-opponent coefficient.
func WithRatingDiffCoef(c float64) DifferenceOption {
	return func(p *RatingDifferencePredictor) { p.ratingDiffCoef = c }
}

// WithTeamFromPlayerCoef sets the team-minus-player coefficient.
func WithTeamFromPlayerCoef(c float64) DifferenceOption {
	return func(p *RatingDifferencePredictor) { p.teamFromPlayerCoef = c }
}

// WithTeamDiffCoef sets the team-vs-opponent coefficient.
func WithTeamDiffCoef(c float64) DifferenceOption {
	return func(p *RatingDifferencePredictor) { p.teamDiffCoef = c }
}

// WithMaxPredictValue bounds predictions to [1-max, max].
func WithMaxPredictValue(maxValue float64) DifferenceOption {
	return func(p *RatingDifferencePredictor) {
		if maxValue > 0 && maxValue <= 1 {
			p.maxPredictValue = maxValue
		}
	}
}

// MeanOption applies a configuration option to the RatingMeanPredictor.
type MeanOption func(*RatingMeanPredictor)

// WithMeanCoef sets the deviation coefficient.
func WithMeanCoef(c float64) MeanOption {
	return func(p *RatingMeanPredictor) { p.coef = c }
}

// WithMeanMaxPredictValue bounds predictions to [1-max, max].
func WithMeanMaxPredictValue(maxValue float64) MeanOption {
	return func(p *RatingMeanPredictor) {
		if maxValue > 0 && maxValue <= 1 {
			p.maxPredictValue = maxValue
		}
	}
}
