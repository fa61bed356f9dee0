package rating

import (
	"context"
	"fmt"

	"github.com/okian/skillrate/internal/adapters/repository"
	"github.com/okian/skillrate/internal/domain/league"
	"github.com/okian/skillrate/internal/domain/model"
	"github.com/okian/skillrate/internal/domain/predict"
)

// Generator turns a chronological match sequence into row-aligned feature
// columns. Historical passes mutate the generator's private state; future
// passes are read-only projections and safe to repeat. The two engines share
// this contract and nothing else.
type Generator interface {
	// Name identifies the engine, e.g. for metrics labels.
	Name() string

	// FeaturesOut lists the emitted feature columns. The set is identical
	// for both modes so output schemas stay deterministic.
	FeaturesOut() []string

	// GenerateHistorical consumes matches in non-decreasing day order,
	// committing post-match updates. rows is the input-table row count the
	// feature columns align to.
	GenerateHistorical(ctx context.Context, matches []model.Match, rows int) (*Features, error)

	// GenerateFuture projects features off current state without mutating
	// anything.
	GenerateFuture(ctx context.Context, matches []model.Match, rows int) (*Features, error)

	// Reset returns the generator to its pristine state. Reuse across
	// independent runs without a reset would leak information.
	Reset(ctx context.Context)
}

// OpponentAdjustedGenerator is the confidence-weighted engine: pre-match
// snapshots feed a performance predictor, and actual-vs-expected deltas are
// committed per player and team.
type OpponentAdjustedGenerator struct {
	name      string
	store     repository.Store
	resolver  *StartRatingResolver
	assembler *TeamAssembler
	updater   *Updater
	predictor predict.Predictor
	leagues   *league.Identifier

	// Highest committed day ordinal; matches before it are rejected.
	lastDay int
}

// GeneratorOption applies a configuration option to the
// OpponentAdjustedGenerator.
type GeneratorOption func(*OpponentAdjustedGenerator)

// WithName overrides the engine name.
func WithName(name string) GeneratorOption {
	return func(g *OpponentAdjustedGenerator) {
		if name != "" {
			g.name = name
		}
	}
}

// WithStore sets the backing rating store.
func WithStore(s repository.Store) GeneratorOption {
	return func(g *OpponentAdjustedGenerator) {
		if s != nil {
			g.store = s
		}
	}
}

// WithResolver sets the start-rating resolver.
func WithResolver(r *StartRatingResolver) GeneratorOption {
	return func(g *OpponentAdjustedGenerator) {
		if r != nil {
			g.resolver = r
		}
	}
}

// WithAssembler sets the pre-match assembler.
func WithAssembler(a *TeamAssembler) GeneratorOption {
	return func(g *OpponentAdjustedGenerator) {
		if a != nil {
			g.assembler = a
		}
	}
}

// WithUpdater sets the confidence-weighted updater.
func WithUpdater(u *Updater) GeneratorOption {
	return func(g *OpponentAdjustedGenerator) {
		if u != nil {
			g.updater = u
		}
	}
}

// WithPredictor sets the performance predictor.
func WithPredictor(p predict.Predictor) GeneratorOption {
	return func(g *OpponentAdjustedGenerator) {
		if p != nil {
			g.predictor = p
		}
	}
}

// NewOpponentAdjustedGenerator creates the engine with its default
// collaborators: an in-memory store, default resolver/updater, and the
// rating-difference predictor.
func NewOpponentAdjustedGenerator(ctx context.Context, opts ...GeneratorOption) *OpponentAdjustedGenerator {
	g := &OpponentAdjustedGenerator{
		name:    "opponent_adjusted",
		lastDay: -1,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.store == nil {
		g.store = repository.NewMemStore(ctx)
	}
	if g.resolver == nil {
		g.resolver = NewStartRatingResolver()
	}
	g.leagues = g.resolver.Leagues()
	if g.assembler == nil {
		g.assembler = NewTeamAssembler(g.resolver)
	}
	if g.updater == nil {
		g.updater = NewUpdater()
	}
	if g.predictor == nil {
		g.predictor = predict.NewRatingDifferencePredictor()
	}

	return g
}

// Name implements Generator.
func (g *OpponentAdjustedGenerator) Name() string { return g.name }

// FeaturesOut implements Generator.
func (g *OpponentAdjustedGenerator) FeaturesOut() []string {
	return []string{
		FeaturePlayerRating,
		FeatureTeamRating,
		FeatureOpponentRating,
		FeatureRatingDifference,
		FeatureCertainRatio,
		FeaturePlayerRatingChange,
	}
}

// Store exposes the backing store as the read surface for rating queries.
func (g *OpponentAdjustedGenerator) Store() repository.Store { return g.store }

// Leagues exposes the league identifier.
func (g *OpponentAdjustedGenerator) Leagues() *league.Identifier { return g.leagues }

// GenerateHistorical implements Generator.
func (g *OpponentAdjustedGenerator) GenerateHistorical(ctx context.Context, matches []model.Match, rows int) (*Features, error) {
	features := NewFeatures(rows, g.FeaturesOut()...)

	// New historical data may extend the league ordering; projections never do.
	g.leagues.Thaw()

	for _, m := range matches {
		if m.DayNumber < g.lastDay {
			return nil, fmt.Errorf("%w: match %q day %d, store already at day %d",
				ErrOutOfOrder, m.ID, m.DayNumber, g.lastDay)
		}

		g.leagues.Observe(m.League)
		for _, t := range m.Teams {
			for _, p := range t.Players {
				g.leagues.Observe(p.League)
			}
		}

		pre := g.assembler.AssembleMatch(ctx, g.store, m)
		changes := g.resolveChanges(ctx, pre, m.DayNumber, features, true)

		// All snapshots and predictions are resolved; commit both sides.
		for ti, team := range pre {
			for pi, p := range team.Players {
				if p.GamesPlayed == 0 {
					g.resolver.Observe(p.League, p.RatingValue)
				}
				g.updater.ApplyPlayer(ctx, g.store, p, changes[ti][pi])
			}
			tc := g.updater.TeamChange(team, changes[ti], m.DayNumber)
			g.updater.ApplyTeam(ctx, g.store, team, tc, m.DayNumber)
		}

		g.lastDay = m.DayNumber
	}

	g.leagues.Freeze()
	return features, nil
}

// GenerateFuture implements Generator. No state is mutated, so repeated
// calls return identical results.
func (g *OpponentAdjustedGenerator) GenerateFuture(ctx context.Context, matches []model.Match, rows int) (*Features, error) {
	features := NewFeatures(rows, g.FeaturesOut()...)

	for _, m := range matches {
		pre := g.assembler.AssembleMatch(ctx, g.store, m)
		g.resolveChanges(ctx, pre, m.DayNumber, features, false)
	}

	return features, nil
}

// resolveChanges predicts every player's performance against the opposing
// team and fills the feature columns. In historical mode it also returns the
// per-team player changes and advances predictor state.
func (g *OpponentAdjustedGenerator) resolveChanges(ctx context.Context, pre []model.PreMatchTeamRating, dayNumber int, features *Features, historical bool) [][]model.PlayerRatingChange {
	changes := make([][]model.PlayerRatingChange, len(pre))
	for ti := range pre {
		team := pre[ti]
		opponent := opponentOf(pre, ti)
		teamChanges := make([]model.PlayerRatingChange, 0, len(team.Players))

		for _, p := range team.Players {
			if historical {
				g.predictor.Observe(p.RatingValue)
			}
			predicted := g.predictor.Predict(p, opponent, &team)

			_ = features.Set(FeaturePlayerRating, p.Row, p.RatingValue)
			_ = features.Set(FeatureTeamRating, p.Row, team.RatingValue)
			_ = features.Set(FeatureOpponentRating, p.Row, opponent.RatingValue)
			_ = features.Set(FeatureRatingDifference, p.Row, p.RatingValue-opponent.RatingValue)
			_ = features.Set(FeatureCertainRatio, p.Row, p.CertainRatio)

			if historical {
				certainSum := 0.0
				if st, ok := g.store.Player(ctx, p.ID); ok {
					certainSum = st.CertainSum
				}
				ch := g.updater.PlayerChange(p, predicted, certainSum, dayNumber)
				_ = features.Set(FeaturePlayerRatingChange, p.Row, ch.RatingChangeValue)
				teamChanges = append(teamChanges, ch)
			}
		}
		changes[ti] = teamChanges
	}
	return changes
}

// Reset implements Generator.
func (g *OpponentAdjustedGenerator) Reset(ctx context.Context) {
	g.store.Reset(ctx)
	g.resolver.Reset()
	g.predictor.Reset()
	g.lastDay = -1
}

// opponentOf returns the opposing team snapshot: the other team in a
// two-team match, or the participation-weighted aggregate of all other
// teams otherwise.
func opponentOf(teams []model.PreMatchTeamRating, idx int) model.PreMatchTeamRating {
	if len(teams) == 2 {
		return teams[1-idx]
	}

	combined := model.PreMatchTeamRating{ID: "opponents"}
	var sum, projected float64
	n := 0
	for i, t := range teams {
		if i == idx {
			continue
		}
		sum += t.RatingValue
		projected += t.ProjectedRatingValue
		n++
	}
	if n > 0 {
		combined.RatingValue = sum / float64(n)
		combined.ProjectedRatingValue = projected / float64(n)
	}
	return combined
}
