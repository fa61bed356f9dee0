// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Generator names accepted in the generators list.
const (
	GeneratorOpponentAdjusted = "opponent_adjusted"
	GeneratorTimeWeighted     = "time_weighted"
)

// Predictor kinds accepted in predictor_kind.
const (
	PredictorRatingDifference = "rating_difference"
	PredictorRatingMean       = "rating_mean"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxRatingsLimit caps GET /ratings?limit.
	MaxRatingsLimit int `koanf:"max_ratings_limit"`

	// Generators lists the enabled rating engines in composition order.
	Generators []string `koanf:"generators"`

	// Input column mapping. The first five are required; the rest are
	// optional and disable their feature when empty.
	MatchIDColumn                      string `koanf:"match_id_column"`
	TeamIDColumn                       string `koanf:"team_id_column"`
	PlayerIDColumn                     string `koanf:"player_id_column"`
	StartDateColumn                    string `koanf:"start_date_column"`
	PerformanceColumn                  string `koanf:"performance_column"`
	LeagueColumn                       string `koanf:"league_column"`
	PositionColumn                     string `koanf:"position_column"`
	ParticipationWeightColumn          string `koanf:"participation_weight_column"`
	ProjectedParticipationWeightColumn string `koanf:"projected_participation_weight_column"`
	UpdateIDColumn                     string `koanf:"update_id_column"`

	// Confidence-weighted updater knobs.
	CertainWeight            float64 `koanf:"certain_weight"`
	CertainDaysAgoMultiplier float64 `koanf:"certain_days_ago_multiplier"`
	MaxDaysAgo               float64 `koanf:"max_days_ago"`
	MaxCertainSum            float64 `koanf:"max_certain_sum"`
	CertainValueDenom        float64 `koanf:"certain_value_denom"`
	ReferenceCertainSum      float64 `koanf:"reference_certain_sum"`
	RatingChangeMultiplier   float64 `koanf:"rating_change_multiplier"`
	MinMultiplierRatio       float64 `koanf:"min_multiplier_ratio"`
	MaxCertainRatio          float64 `koanf:"max_certain_ratio"`
	HistoryWindow            int     `koanf:"history_window"`

	// Performance predictor knobs.
	PredictorKind      string  `koanf:"predictor_kind"`
	RatingDiffCoef     float64 `koanf:"rating_diff_coef"`
	TeamFromPlayerCoef float64 `koanf:"team_from_player_coef"`
	TeamDiffCoef       float64 `koanf:"team_diff_coef"`
	MaxPredictValue    float64 `koanf:"max_predict_value"`

	// Pre-match assembly knobs.
	TeamIdentityWeight float64 `koanf:"team_identity_weight"`

	// Start-rating resolver knobs.
	DefaultStartRating  float64            `koanf:"default_start_rating"`
	LeagueQuantile      float64            `koanf:"league_quantile"`
	TeamRatingSubtract  float64            `koanf:"team_rating_subtract"`
	TeamWeight          float64            `koanf:"team_weight"`
	MinCountForQuantile int                `koanf:"min_count_for_quantile"`
	LeagueRatings       map[string]float64 `koanf:"league_ratings"`

	// Bayesian time-weighted engine knobs.
	LikelihoodExponentialWeight float64 `koanf:"likelihood_exponential_weight"`
	EvidenceExponentialWeight   float64 `koanf:"evidence_exponential_weight"`
	LikelihoodDenom             float64 `koanf:"likelihood_denom"`
	Prior                       float64 `koanf:"prior"`
	PriorGranularity            string  `koanf:"prior_granularity"`
	PriorStrength               float64 `koanf:"prior_strength"`
	MinPriorObservations        int     `koanf:"min_prior_observations"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		MaxRatingsLimit: 100,
		Generators:      []string{GeneratorOpponentAdjusted},

		MatchIDColumn:                      "match_id",
		TeamIDColumn:                       "team_id",
		PlayerIDColumn:                     "player_id",
		StartDateColumn:                    "start_date",
		PerformanceColumn:                  "performance",
		LeagueColumn:                       "league",
		PositionColumn:                     "position",
		ParticipationWeightColumn:          "participation_weight",
		ProjectedParticipationWeightColumn: "projected_participation_weight",
		UpdateIDColumn:                     "update_id",

		CertainWeight:            0.9,
		CertainDaysAgoMultiplier: 0.06,
		MaxDaysAgo:               90,
		MaxCertainSum:            60,
		CertainValueDenom:        35,
		ReferenceCertainSum:      3,
		RatingChangeMultiplier:   50,
		MinMultiplierRatio:       0.1,
		MaxCertainRatio:          1,
		HistoryWindow:            30,

		TeamIdentityWeight: 0,

		PredictorKind:      PredictorRatingDifference,
		RatingDiffCoef:     0.005757,
		TeamFromPlayerCoef: 0,
		TeamDiffCoef:       0,
		MaxPredictValue:    1,

		DefaultStartRating:  1000,
		LeagueQuantile:      0.2,
		TeamRatingSubtract:  80,
		TeamWeight:          0.2,
		MinCountForQuantile: 100,

		LikelihoodExponentialWeight: 0.98,
		EvidenceExponentialWeight:   0.96,
		LikelihoodDenom:             50,
		Prior:                       0.5,
		PriorGranularity:            "none",
		PriorStrength:               2,
		MinPriorObservations:        1,
	}
}
