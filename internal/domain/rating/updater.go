package rating

import (
	"context"
	"math"

	"github.com/okian/skillrate/internal/adapters/repository"
	"github.com/okian/skillrate/internal/domain/history"
	"github.com/okian/skillrate/internal/domain/model"
)

// Fixed constants of the confidence model. Each resolved match contributes
// one unit of evidence (scaled by participation) to the certain sum.
const (
	matchContributionToSum       = 1.0
	modifiedRatingChangeConstant = 1.0
)

// Tunable defaults of the confidence model. These are tuning knobs, not
// derived quantities; every one of them is overridable via options.
const (
	defaultCertainWeight            = 0.9
	defaultCertainDaysAgoMultiplier = 0.06
	defaultMaxDaysAgo               = 90.0
	defaultMaxCertainSum            = 60.0
	defaultCertainValueDenom        = 35.0
	defaultReferenceCertainSum      = 3.0
	defaultRatingChangeMultiplier   = 50.0
	defaultMinMultiplierRatio       = 0.1
	defaultMaxCertainRatio          = 1.0
)

// Updater computes and commits confidence-weighted post-match rating
// changes. The more recent evidence an entity has accumulated, the smaller
// its swings; a minimum multiplier ratio keeps established entities from
// freezing entirely.
type Updater struct {
	certainWeight            float64
	certainDaysAgoMultiplier float64
	maxDaysAgo               float64
	maxCertainSum            float64
	certainValueDenom        float64
	referenceCertainSum      float64
	ratingChangeMultiplier   float64
	minMultiplierRatio       float64
	maxCertainRatio          float64
	historyWindow            int
}

// UpdaterOption applies a configuration option to the Updater.
type UpdaterOption func(*Updater)

// WithCertainWeight sets the blend between the confidence-scaled and the
// flat rating-change multiplier.
func WithCertainWeight(w float64) UpdaterOption {
	return func(u *Updater) {
		if w >= 0 && w <= 1 {
			u.certainWeight = w
		}
	}
}

// WithCertainDaysAgoMultiplier sets the per-day confidence decay.
func WithCertainDaysAgoMultiplier(v float64) UpdaterOption {
	return func(u *Updater) { u.certainDaysAgoMultiplier = v }
}

// WithMaxDaysAgo caps the idle gap considered by the decay.
func WithMaxDaysAgo(v float64) UpdaterOption {
	return func(u *Updater) { u.maxDaysAgo = v }
}

// WithMaxCertainSum caps the confidence accumulator.
func WithMaxCertainSum(v float64) UpdaterOption {
	return func(u *Updater) { u.maxCertainSum = v }
}

// WithCertainValueDenom sets the sigmoid scale of the confidence dampener.
func WithCertainValueDenom(v float64) UpdaterOption {
	return func(u *Updater) { u.certainValueDenom = v }
}

// WithReferenceCertainSum sets the accumulator value at which the
// confidence dampener is neutral.
func WithReferenceCertainSum(v float64) UpdaterOption {
	return func(u *Updater) { u.referenceCertainSum = v }
}

// WithRatingChangeMultiplier sets the base rating-change magnitude.
func WithRatingChangeMultiplier(v float64) UpdaterOption {
	return func(u *Updater) { u.ratingChangeMultiplier = v }
}

// WithMinMultiplierRatio floors the applied multiplier at this fraction of
// the base multiplier.
func WithMinMultiplierRatio(v float64) UpdaterOption {
	return func(u *Updater) {
		if v >= 0 && v <= 1 {
			u.minMultiplierRatio = v
		}
	}
}

// WithMaxCertainRatio caps the derived certain ratio.
func WithMaxCertainRatio(v float64) UpdaterOption {
	return func(u *Updater) {
		if v >= 0 && v <= 1 {
			u.maxCertainRatio = v
		}
	}
}

// WithHistoryWindow sets the bounded window of retained rating changes.
func WithHistoryWindow(n int) UpdaterOption {
	return func(u *Updater) {
		if n > 0 {
			u.historyWindow = n
		}
	}
}

// NewUpdater creates an updater with configuration options.
func NewUpdater(opts ...UpdaterOption) *Updater {
	u := &Updater{
		certainWeight:            defaultCertainWeight,
		certainDaysAgoMultiplier: defaultCertainDaysAgoMultiplier,
		maxDaysAgo:               defaultMaxDaysAgo,
		maxCertainSum:            defaultMaxCertainSum,
		certainValueDenom:        defaultCertainValueDenom,
		referenceCertainSum:      defaultReferenceCertainSum,
		ratingChangeMultiplier:   defaultRatingChangeMultiplier,
		minMultiplierRatio:       defaultMinMultiplierRatio,
		maxCertainRatio:          defaultMaxCertainRatio,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// sigmoidHalfScaled maps v onto (-1, 1) through a sigmoid with scale x.
// A zero scale would divide by zero; that case degenerates to the sign of v,
// the limit of the expression.
func sigmoidHalfScaled(v, x float64) float64 {
	if x == 0 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		default:
			return 0
		}
	}
	return (1/(1+math.Exp(-v/x)) - 0.5) * 2
}

// RatingChangeMultiplier derives the applied multiplier from the entity's
// confidence accumulator. Low accumulators amplify changes, high ones dampen
// them, and the result never drops below the configured floor.
func (u *Updater) RatingChangeMultiplier(certainSum float64) float64 {
	net := certainSum - u.referenceCertainSum
	certainFactor := -sigmoidHalfScaled(net, u.certainValueDenom)*modifiedRatingChangeConstant + modifiedRatingChangeConstant
	certainMultiplier := certainFactor * u.ratingChangeMultiplier

	multiplier := certainMultiplier*u.certainWeight + (1-u.certainWeight)*u.ratingChangeMultiplier
	floor := u.ratingChangeMultiplier * u.minMultiplierRatio
	return math.Max(floor, multiplier)
}

// CertainRatio derives the bounded confidence ratio from an accumulator
// value.
func (u *Updater) CertainRatio(certainSum float64) float64 {
	if u.maxCertainSum <= 0 {
		return 0
	}
	return math.Min(certainSum/u.maxCertainSum, u.maxCertainRatio)
}

// daysAgo returns the capped idle gap for an entity before this match.
func (u *Updater) daysAgo(gamesPlayed, lastMatchDay, dayNumber int) float64 {
	if gamesPlayed == 0 {
		return 0
	}
	gap := float64(dayNumber - lastMatchDay)
	if gap < 0 {
		gap = 0
	}
	return math.Min(gap, u.maxDaysAgo)
}

// PlayerChange resolves the post-match rating change for one player. It is a
// pure function of the pre-match snapshot and the match outcome.
func (u *Updater) PlayerChange(pre model.PreMatchPlayerRating, predicted float64, certainSum float64, dayNumber int) model.PlayerRatingChange {
	weight := pre.Performance.ParticipationWeight
	change := (pre.Performance.Value - predicted) * u.RatingChangeMultiplier(certainSum) * weight

	return model.PlayerRatingChange{
		ID:                   pre.ID,
		DayNumber:            dayNumber,
		League:               pre.League,
		ParticipationWeight:  weight,
		PredictedPerformance: predicted,
		Performance:          pre.Performance.Value,
		PreMatchRatingValue:  pre.RatingValue,
		RatingChangeValue:    change,
		Row:                  pre.Row,
	}
}

// TeamChange aggregates player changes into a team change using
// participation weights.
func (u *Updater) TeamChange(pre model.PreMatchTeamRating, players []model.PlayerRatingChange, dayNumber int) model.TeamRatingChange {
	var changeSum, predictedSum, performanceSum, weightSum float64
	for _, p := range players {
		changeSum += p.RatingChangeValue * p.ParticipationWeight
		predictedSum += p.PredictedPerformance * p.ParticipationWeight
		performanceSum += p.Performance * p.ParticipationWeight
		weightSum += p.ParticipationWeight
	}

	tc := model.TeamRatingChange{
		ID:                  pre.ID,
		Players:             players,
		PreMatchRatingValue: pre.RatingValue,
		League:              pre.League,
	}
	if weightSum > 0 {
		tc.RatingChangeValue = changeSum / weightSum
		tc.PredictedPerformance = predictedSum / weightSum
		tc.Performance = performanceSum / weightSum
	}
	return tc
}

// ApplyPlayer commits a player change to the store, creating the state lazily
// on first sighting. Must only run after all pre-match snapshots for the
// match have been taken.
func (u *Updater) ApplyPlayer(ctx context.Context, store repository.Store, pre model.PreMatchPlayerRating, ch model.PlayerRatingChange) model.PlayerRating {
	st, ok := store.Player(ctx, pre.ID)
	if !ok {
		st = model.PlayerRating{
			ID:                pre.ID,
			RatingValue:       pre.RatingValue,
			League:            pre.League,
			Position:          pre.Position,
			PrevRatingChanges: history.NewRing(history.WithCapacity(u.historyWindow)),
		}
	}

	gap := u.daysAgo(st.GamesPlayed, st.LastMatchDayNumber, ch.DayNumber)
	sum := st.CertainSum + matchContributionToSum*ch.ParticipationWeight - gap*u.certainDaysAgoMultiplier
	st.CertainSum = math.Max(0, math.Min(sum, u.maxCertainSum))
	st.CertainRatio = u.CertainRatio(st.CertainSum)

	st.RatingValue += ch.RatingChangeValue
	st.GamesPlayed++
	st.LastMatchDayNumber = ch.DayNumber
	st.PrevRatingChanges.Push(ch.RatingChangeValue)

	store.CommitPlayer(ctx, st)
	return st
}

// ApplyTeam commits a team change to the store.
func (u *Updater) ApplyTeam(ctx context.Context, store repository.Store, pre model.PreMatchTeamRating, tc model.TeamRatingChange, dayNumber int) model.TeamRating {
	st, ok := store.Team(ctx, pre.ID)
	if !ok {
		st = model.TeamRating{
			ID:                pre.ID,
			RatingValue:       pre.RatingValue,
			League:            pre.League,
			PrevRatingChanges: history.NewRing(history.WithCapacity(u.historyWindow)),
		}
	}

	gap := u.daysAgo(st.GamesPlayed, st.LastMatchDayNumber, dayNumber)
	sum := st.CertainSum + matchContributionToSum - gap*u.certainDaysAgoMultiplier
	st.CertainSum = math.Max(0, math.Min(sum, u.maxCertainSum))
	st.CertainRatio = u.CertainRatio(st.CertainSum)

	st.RatingValue += tc.RatingChangeValue
	st.GamesPlayed++
	st.LastMatchDayNumber = dayNumber
	st.PrevRatingChanges.Push(tc.RatingChangeValue)

	store.CommitTeam(ctx, st)
	return st
}
