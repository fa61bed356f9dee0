package rating

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/skillrate/internal/domain/model"
)

// PriorGranularity selects how the time-weighted engine conditions its prior.
type PriorGranularity string

const (
	PriorGlobal         PriorGranularity = "none"
	PriorLeague         PriorGranularity = "league"
	PriorPosition       PriorGranularity = "position"
	PriorLeaguePosition PriorGranularity = "league_position"
)

// Time-weighted engine defaults.
const (
	defaultLikelihoodExponentialWeight = 0.98
	defaultEvidenceExponentialWeight   = 0.96
	defaultLikelihoodDenom             = 50.0
	defaultPrior                       = 0.5
	defaultPriorStrength               = 2.0
	defaultMinPriorObservations        = 1
)

// timeWeightState carries the decayed accumulators of one player. Sums are
// kept decayed to lastDay; a read at a later day applies the remaining decay
// without mutating anything.
type timeWeightState struct {
	likelihoodSum   float64
	evidenceWeights float64
	evidenceValues  float64
	lastDay         int
}

// TimeWeightedGenerator is the Bayesian engine: an exponentially
// time-decayed moving average of past performances, blended toward a prior by
// a likelihood ratio that grows with age-discounted observation count.
type TimeWeightedGenerator struct {
	name string

	likelihoodWeight float64
	evidenceWeight   float64
	likelihoodDenom  float64
	prior            float64
	granularity      PriorGranularity
	priorStrength    float64
	minPriorObs      int

	states  map[string]*timeWeightState
	priors  map[string]float64
	lastDay int
}

// TimeWeightedOption applies a configuration option to the
// TimeWeightedGenerator.
type TimeWeightedOption func(*TimeWeightedGenerator)

// WithTimeWeightedName overrides the engine name.
func WithTimeWeightedName(name string) TimeWeightedOption {
	return func(g *TimeWeightedGenerator) {
		if name != "" {
			g.name = name
		}
	}
}

// WithLikelihoodExponentialWeight sets the per-day decay base of the
// likelihood accumulator.
func WithLikelihoodExponentialWeight(w float64) TimeWeightedOption {
	return func(g *TimeWeightedGenerator) {
		if w > 0 && w <= 1 {
			g.likelihoodWeight = w
		}
	}
}

// WithEvidenceExponentialWeight sets the per-day decay base of the evidence
// accumulators.
func WithEvidenceExponentialWeight(w float64) TimeWeightedOption {
	return func(g *TimeWeightedGenerator) {
		if w > 0 && w <= 1 {
			g.evidenceWeight = w
		}
	}
}

// WithLikelihoodDenom sets the likelihood sum at which the player's own
// evidence fully outweighs the prior.
func WithLikelihoodDenom(v float64) TimeWeightedOption {
	return func(g *TimeWeightedGenerator) {
		if v > 0 {
			g.likelihoodDenom = v
		}
	}
}

// WithPrior sets the global prior performance.
func WithPrior(v float64) TimeWeightedOption {
	return func(g *TimeWeightedGenerator) { g.prior = v }
}

// WithPriorGranularity conditions priors on league and/or position.
func WithPriorGranularity(gr PriorGranularity) TimeWeightedOption {
	return func(g *TimeWeightedGenerator) {
		switch gr {
		case PriorGlobal, PriorLeague, PriorPosition, PriorLeaguePosition:
			g.granularity = gr
		}
	}
}

// WithPriorStrength sets the weight of the global prior when blending with
// group means.
func WithPriorStrength(v float64) TimeWeightedOption {
	return func(g *TimeWeightedGenerator) {
		if v >= 0 {
			g.priorStrength = v
		}
	}
}

// WithMinPriorObservations sets the minimum group sample size before a
// conditioned prior replaces the global one.
func WithMinPriorObservations(n int) TimeWeightedOption {
	return func(g *TimeWeightedGenerator) {
		if n > 0 {
			g.minPriorObs = n
		}
	}
}

// NewTimeWeightedGenerator creates the Bayesian engine with configuration
// options.
func NewTimeWeightedGenerator(opts ...TimeWeightedOption) *TimeWeightedGenerator {
	g := &TimeWeightedGenerator{
		name:             "time_weighted",
		likelihoodWeight: defaultLikelihoodExponentialWeight,
		evidenceWeight:   defaultEvidenceExponentialWeight,
		likelihoodDenom:  defaultLikelihoodDenom,
		prior:            defaultPrior,
		granularity:      PriorGlobal,
		priorStrength:    defaultPriorStrength,
		minPriorObs:      defaultMinPriorObservations,
		states:           make(map[string]*timeWeightState),
		priors:           make(map[string]float64),
		lastDay:          -1,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Name implements Generator.
func (g *TimeWeightedGenerator) Name() string { return g.name }

// FeaturesOut implements Generator.
func (g *TimeWeightedGenerator) FeaturesOut() []string {
	return []string{
		FeatureTimeWeightedRating,
		FeatureTimeWeightedLikelihoodRatio,
		FeatureTimeWeightedEvidence,
	}
}

// GenerateHistorical implements Generator. Priors are resolved once from the
// whole batch before the chronological pass; the pass itself only ever reads
// state committed by earlier matches.
func (g *TimeWeightedGenerator) GenerateHistorical(ctx context.Context, matches []model.Match, rows int) (*Features, error) {
	g.resolvePriors(matches)

	features := NewFeatures(rows, g.FeaturesOut()...)
	for _, m := range matches {
		if m.DayNumber < g.lastDay {
			return nil, fmt.Errorf("%w: match %q day %d, state already at day %d",
				ErrOutOfOrder, m.ID, m.DayNumber, g.lastDay)
		}

		for _, t := range m.Teams {
			for _, p := range t.Players {
				g.emit(features, p, m.DayNumber)
			}
		}
		for _, t := range m.Teams {
			for _, p := range t.Players {
				g.commit(p, m.DayNumber)
			}
		}
		g.lastDay = m.DayNumber
	}

	return features, nil
}

// GenerateFuture implements Generator. State is read, never advanced.
func (g *TimeWeightedGenerator) GenerateFuture(ctx context.Context, matches []model.Match, rows int) (*Features, error) {
	features := NewFeatures(rows, g.FeaturesOut()...)
	for _, m := range matches {
		for _, t := range m.Teams {
			for _, p := range t.Players {
				g.emit(features, p, m.DayNumber)
			}
		}
	}
	return features, nil
}

// Reset implements Generator.
func (g *TimeWeightedGenerator) Reset(ctx context.Context) {
	g.states = make(map[string]*timeWeightState)
	g.priors = make(map[string]float64)
	g.lastDay = -1
}

// emit writes the player's pre-match feature cells for a match at dayNumber.
func (g *TimeWeightedGenerator) emit(features *Features, p model.MatchPlayer, dayNumber int) {
	prior := g.playerPrior(p.ID)
	st, ok := g.states[p.ID]
	if !ok {
		_ = features.Set(FeatureTimeWeightedRating, p.Row, prior)
		_ = features.Set(FeatureTimeWeightedLikelihoodRatio, p.Row, 0)
		_ = features.Set(FeatureTimeWeightedEvidence, p.Row, math.NaN())
		return
	}

	gap := float64(dayNumber - st.lastDay)
	lSum := st.likelihoodSum * math.Pow(g.likelihoodWeight, gap)
	eWeights := st.evidenceWeights * math.Pow(g.evidenceWeight, gap)
	eValues := st.evidenceValues * math.Pow(g.evidenceWeight, gap)

	likelihoodRatio := math.Min(1, lSum/g.likelihoodDenom)
	evidenceRatio := math.NaN()
	if eWeights > 0 {
		evidenceRatio = eValues / eWeights
	}

	value := prior
	if !math.IsNaN(evidenceRatio) {
		value = evidenceRatio*likelihoodRatio + (1-likelihoodRatio)*prior
	}

	_ = features.Set(FeatureTimeWeightedRating, p.Row, value)
	_ = features.Set(FeatureTimeWeightedLikelihoodRatio, p.Row, likelihoodRatio)
	_ = features.Set(FeatureTimeWeightedEvidence, p.Row, evidenceRatio)
}

// commit folds one resolved match into the player's accumulators. Decay to
// the match day happens first, so the new observation enters at full weight.
func (g *TimeWeightedGenerator) commit(p model.MatchPlayer, dayNumber int) {
	st, ok := g.states[p.ID]
	if !ok {
		st = &timeWeightState{lastDay: dayNumber}
		g.states[p.ID] = st
	}

	gap := float64(dayNumber - st.lastDay)
	st.likelihoodSum *= math.Pow(g.likelihoodWeight, gap)
	st.evidenceWeights *= math.Pow(g.evidenceWeight, gap)
	st.evidenceValues *= math.Pow(g.evidenceWeight, gap)

	w := p.Performance.ParticipationWeight
	st.likelihoodSum += w
	st.evidenceWeights += w
	st.evidenceValues += p.Performance.Value * w
	st.lastDay = dayNumber
}

// playerPrior returns the resolved prior for a player, falling back to the
// global prior for players unseen during resolution.
func (g *TimeWeightedGenerator) playerPrior(id string) float64 {
	if v, ok := g.priors[id]; ok {
		return v
	}
	return g.prior
}

// resolvePriors computes per-player priors for the configured granularity in
// one read-only pass over the batch. Each player's prior is the mean
// performance of the other players in its group, pulled toward the global
// prior with priorStrength pseudo-observations. Groups below the minimum
// sample size keep the global prior.
func (g *TimeWeightedGenerator) resolvePriors(matches []model.Match) {
	if g.granularity == PriorGlobal {
		return
	}

	type playerAgg struct {
		group string
		sum   float64
		count float64
	}

	players := make(map[string]*playerAgg)
	groupSum := make(map[string]float64)
	groupCount := make(map[string]float64)

	for _, m := range matches {
		for _, t := range m.Teams {
			for _, p := range t.Players {
				key := g.groupKey(p)
				agg, ok := players[p.ID]
				if !ok {
					agg = &playerAgg{group: key}
					players[p.ID] = agg
				}
				w := p.Performance.ParticipationWeight
				agg.sum += p.Performance.Value * w
				agg.count += w
				groupSum[key] += p.Performance.Value * w
				groupCount[key] += w
			}
		}
	}

	for id, agg := range players {
		othersSum := groupSum[agg.group] - agg.sum
		othersCount := groupCount[agg.group] - agg.count
		if othersCount < float64(g.minPriorObs) {
			continue
		}
		g.priors[id] = (g.priorStrength*g.prior + othersSum) / (g.priorStrength + othersCount)
	}
}

// groupKey builds the prior-group key for a player under the configured
// granularity.
func (g *TimeWeightedGenerator) groupKey(p model.MatchPlayer) string {
	switch g.granularity {
	case PriorLeague:
		return p.League
	case PriorPosition:
		return p.Position
	case PriorLeaguePosition:
		return p.League + "|" + p.Position
	default:
		return ""
	}
}
