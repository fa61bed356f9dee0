package rating

import (
	"math"
	"sort"

	"github.com/okian/skillrate/internal/domain/league"
)

// Start-rating defaults on the 1000-centered scale.
const (
	defaultStartRating         = 1000.0
	defaultLeagueQuantile      = 0.2
	defaultTeamRatingSubtract  = 80.0
	defaultTeamWeight          = 0.2
	defaultMinCountForQuantile = 100
)

// StartRatingResolver supplies starting ratings for entities without
// history. A league's base rating comes from configuration (or the global
// default) until enough ratings have been observed in that league, after
// which a configurable quantile of the observed ratings takes over. The
// league base is then blended with the new player's team context.
//
// Observation tables are keyed by the league identifier's indexes: while the
// identifier is frozen, ratings against unseen leagues are dropped, so a
// projection pass can never grow the league set.
type StartRatingResolver struct {
	leagueRatings       map[string]float64
	defaultRating       float64
	leagueQuantile      float64
	teamRatingSubtract  float64
	teamWeight          float64
	minCountForQuantile int

	leagues  *league.Identifier
	observed map[int][]float64
}

// StartOption applies a configuration option to the StartRatingResolver.
type StartOption func(*StartRatingResolver)

// WithLeagueRatings sets configured per-league start ratings.
func WithLeagueRatings(ratings map[string]float64) StartOption {
	return func(s *StartRatingResolver) {
		s.leagueRatings = make(map[string]float64, len(ratings))
		for name, v := range ratings {
			s.leagueRatings[name] = v
		}
	}
}

// WithDefaultStartRating sets the global default start rating.
func WithDefaultStartRating(v float64) StartOption {
	return func(s *StartRatingResolver) { s.defaultRating = v }
}

// WithLeagueQuantile sets the quantile of observed league ratings used as
// the league base once enough samples exist.
func WithLeagueQuantile(q float64) StartOption {
	return func(s *StartRatingResolver) {
		if q >= 0 && q <= 1 {
			s.leagueQuantile = q
		}
	}
}

// WithTeamRatingSubtract sets the handicap subtracted from the team context
// before blending.
func WithTeamRatingSubtract(v float64) StartOption {
	return func(s *StartRatingResolver) { s.teamRatingSubtract = v }
}

// WithTeamWeight sets the blend weight of the team context.
func WithTeamWeight(w float64) StartOption {
	return func(s *StartRatingResolver) {
		if w >= 0 && w <= 1 {
			s.teamWeight = w
		}
	}
}

// WithMinCountForQuantile sets the observation count a league needs before
// quantile-based bases apply.
func WithMinCountForQuantile(n int) StartOption {
	return func(s *StartRatingResolver) {
		if n > 0 {
			s.minCountForQuantile = n
		}
	}
}

// WithLeagueIdentifier shares a league identifier with the resolver instead
// of the private default.
func WithLeagueIdentifier(ids *league.Identifier) StartOption {
	return func(s *StartRatingResolver) {
		if ids != nil {
			s.leagues = ids
		}
	}
}

// NewStartRatingResolver creates a resolver with configuration options.
func NewStartRatingResolver(opts ...StartOption) *StartRatingResolver {
	s := &StartRatingResolver{
		leagueRatings:       make(map[string]float64),
		defaultRating:       defaultStartRating,
		leagueQuantile:      defaultLeagueQuantile,
		teamRatingSubtract:  defaultTeamRatingSubtract,
		teamWeight:          defaultTeamWeight,
		minCountForQuantile: defaultMinCountForQuantile,
		observed:            make(map[int][]float64),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.leagues == nil {
		s.leagues = league.NewIdentifier()
	}

	return s
}

// Leagues exposes the league identifier the observation tables are keyed by.
func (s *StartRatingResolver) Leagues() *league.Identifier { return s.leagues }

// LeagueBase returns the base start rating for a league.
func (s *StartRatingResolver) LeagueBase(name string) float64 {
	if idx, ok := s.leagues.Index(name); ok {
		if obs := s.observed[idx]; len(obs) >= s.minCountForQuantile {
			return quantile(obs, s.leagueQuantile, s.defaultRating)
		}
	}
	if v, ok := s.leagueRatings[name]; ok {
		return v
	}
	return s.defaultRating
}

// PlayerStartRating resolves the start rating for a player with no history.
// teamRating is the pre-match rating of the player's team computed from its
// rated members; nil when no member has history yet.
func (s *StartRatingResolver) PlayerStartRating(name string, teamRating *float64) float64 {
	base := s.LeagueBase(name)
	if teamRating == nil || s.teamWeight == 0 {
		return base
	}
	return s.teamWeight*(*teamRating-s.teamRatingSubtract) + (1-s.teamWeight)*base
}

// Observe records a rating against a league's index. Called on commit, never
// during snapshot assembly, so pre-match reads stay side-effect-free. Against
// a frozen identifier, ratings for unindexed leagues are dropped.
func (s *StartRatingResolver) Observe(name string, ratingValue float64) {
	idx := s.leagues.Observe(name)
	if idx < 0 {
		return
	}
	s.observed[idx] = append(s.observed[idx], ratingValue)
}

// Reset drops all observed ratings and league indexes.
func (s *StartRatingResolver) Reset() {
	s.observed = make(map[int][]float64)
	s.leagues.Reset()
}

// quantile returns the q-quantile of values with linear interpolation,
// falling back to the provided default on an empty sample.
func quantile(values []float64, q, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
