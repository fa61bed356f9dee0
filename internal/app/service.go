// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the rating pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/skillrate/internal/adapters/repository"
	"github.com/okian/skillrate/internal/config"
	"github.com/okian/skillrate/internal/domain/match"
	"github.com/okian/skillrate/internal/domain/predict"
	"github.com/okian/skillrate/internal/domain/rating"
	"github.com/okian/skillrate/internal/domain/table"
	"github.com/okian/skillrate/internal/domain/types"
	"github.com/okian/skillrate/pkg/logger"
	"github.com/okian/skillrate/pkg/metrics"
)

// PerformanceGenerator is the external collaborator that computes the
// performance column on an input table before rating generation.
type PerformanceGenerator interface {
	Generate(ctx context.Context, tbl *table.Table) error
}

// Predictor is the downstream estimator consuming the generated feature
// columns.
type Predictor interface {
	Train(ctx context.Context, tbl *table.Table, features []string) error
	AddPrediction(ctx context.Context, tbl *table.Table) error
}

// Service wires the match builder and the configured rating generators into
// the historical/future pipeline and exposes the rating read surface.
type Service struct {
	mu sync.RWMutex

	cfg        *config.Config
	builder    *match.Builder
	generators []rating.Generator
	store      repository.Store

	perfGen   PerformanceGenerator
	predictor Predictor

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the service configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPerformanceGenerator sets the performance collaborator.
func WithPerformanceGenerator(pg PerformanceGenerator) Option {
	return func(s *Service) {
		if pg != nil {
			s.perfGen = pg
		}
	}
}

// WithPredictor sets the estimator collaborator.
func WithPredictor(p Predictor) Option {
	return func(s *Service) {
		if p != nil {
			s.predictor = p
		}
	}
}

// WithGenerators replaces the config-derived rating generators, mainly for
// tests composing engines directly.
func WithGenerators(gens ...rating.Generator) Option {
	return func(s *Service) {
		if len(gens) > 0 {
			s.generators = gens
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start validates configuration and builds the pipeline components. Feature
// name collisions across composed generators fail here, not mid-run.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.cfg == nil {
		s.cfg = config.New(ctx)
	}

	s.logger.Info(ctx, "starting rating service")

	builder, err := match.NewBuilder(match.Columns{
		MatchID:                      s.cfg.MatchIDColumn,
		TeamID:                       s.cfg.TeamIDColumn,
		PlayerID:                     s.cfg.PlayerIDColumn,
		StartDate:                    s.cfg.StartDateColumn,
		Performance:                  s.cfg.PerformanceColumn,
		League:                       s.cfg.LeagueColumn,
		Position:                     s.cfg.PositionColumn,
		ParticipationWeight:          s.cfg.ParticipationWeightColumn,
		ProjectedParticipationWeight: s.cfg.ProjectedParticipationWeightColumn,
		UpdateID:                     s.cfg.UpdateIDColumn,
	})
	if err != nil {
		return err
	}
	s.builder = builder

	if len(s.generators) == 0 {
		gens, err := s.buildGenerators(ctx)
		if err != nil {
			return err
		}
		s.generators = gens
	}

	for _, g := range s.generators {
		if store, ok := g.(interface{ Store() repository.Store }); ok {
			s.store = store.Store()
			break
		}
	}

	if err := s.validateFeatureNames(); err != nil {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Int("generators", len(s.generators)),
		logger.String("predictor", s.cfg.PredictorKind),
	)
	return nil
}

// buildGenerators materializes the configured engines. Each gets its own
// private state; nothing is shared across generators.
func (s *Service) buildGenerators(ctx context.Context) ([]rating.Generator, error) {
	gens := make([]rating.Generator, 0, len(s.cfg.Generators))
	for _, name := range s.cfg.Generators {
		switch name {
		case config.GeneratorOpponentAdjusted:
			gens = append(gens, s.buildOpponentAdjusted(ctx))
		case config.GeneratorTimeWeighted:
			gens = append(gens, s.buildTimeWeighted())
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
		}
	}
	return gens, nil
}

func (s *Service) buildOpponentAdjusted(ctx context.Context) rating.Generator {
	cfg := s.cfg

	resolver := rating.NewStartRatingResolver(
		rating.WithLeagueRatings(cfg.LeagueRatings),
		rating.WithDefaultStartRating(cfg.DefaultStartRating),
		rating.WithLeagueQuantile(cfg.LeagueQuantile),
		rating.WithTeamRatingSubtract(cfg.TeamRatingSubtract),
		rating.WithTeamWeight(cfg.TeamWeight),
		rating.WithMinCountForQuantile(cfg.MinCountForQuantile),
	)

	updater := rating.NewUpdater(
		rating.WithCertainWeight(cfg.CertainWeight),
		rating.WithCertainDaysAgoMultiplier(cfg.CertainDaysAgoMultiplier),
		rating.WithMaxDaysAgo(cfg.MaxDaysAgo),
		rating.WithMaxCertainSum(cfg.MaxCertainSum),
		rating.WithCertainValueDenom(cfg.CertainValueDenom),
		rating.WithReferenceCertainSum(cfg.ReferenceCertainSum),
		rating.WithRatingChangeMultiplier(cfg.RatingChangeMultiplier),
		rating.WithMinMultiplierRatio(cfg.MinMultiplierRatio),
		rating.WithMaxCertainRatio(cfg.MaxCertainRatio),
		rating.WithHistoryWindow(cfg.HistoryWindow),
	)

	var predictor predict.Predictor
	switch cfg.PredictorKind {
	case config.PredictorRatingMean:
		predictor = predict.NewRatingMeanPredictor(
			predict.WithMeanCoef(cfg.RatingDiffCoef),
			predict.WithMeanMaxPredictValue(cfg.MaxPredictValue),
		)
	default:
		predictor = predict.NewRatingDifferencePredictor(
			predict.WithRatingDiffCoef(cfg.RatingDiffCoef),
			predict.WithTeamFromPlayerCoef(cfg.TeamFromPlayerCoef),
			predict.WithTeamDiffCoef(cfg.TeamDiffCoef),
			predict.WithMaxPredictValue(cfg.MaxPredictValue),
		)
	}

	assembler := rating.NewTeamAssembler(resolver,
		rating.WithTeamIdentityWeight(cfg.TeamIdentityWeight),
	)

	return rating.NewOpponentAdjustedGenerator(ctx,
		rating.WithResolver(resolver),
		rating.WithAssembler(assembler),
		rating.WithUpdater(updater),
		rating.WithPredictor(predictor),
	)
}

func (s *Service) buildTimeWeighted() rating.Generator {
	cfg := s.cfg
	return rating.NewTimeWeightedGenerator(
		rating.WithLikelihoodExponentialWeight(cfg.LikelihoodExponentialWeight),
		rating.WithEvidenceExponentialWeight(cfg.EvidenceExponentialWeight),
		rating.WithLikelihoodDenom(cfg.LikelihoodDenom),
		rating.WithPrior(cfg.Prior),
		rating.WithPriorGranularity(rating.PriorGranularity(cfg.PriorGranularity)),
		rating.WithPriorStrength(cfg.PriorStrength),
		rating.WithMinPriorObservations(cfg.MinPriorObservations),
	)
}

// featureSuffixes returns the per-generator column suffixes. A single
// generator keeps bare names; composed generators get a positional suffix so
// output columns stay unambiguous.
func (s *Service) featureSuffixes() []string {
	suffixes := make([]string, len(s.generators))
	if len(s.generators) < 2 {
		return suffixes
	}
	for i := range s.generators {
		suffixes[i] = fmt.Sprintf("_%d", i+1)
	}
	return suffixes
}

func (s *Service) validateFeatureNames() error {
	suffixes := s.featureSuffixes()
	seen := make(map[string]struct{})
	for i, g := range s.generators {
		for _, name := range g.FeaturesOut() {
			out := name + suffixes[i]
			if _, ok := seen[out]; ok {
				return fmt.Errorf("%w: %q", ErrDuplicateFeature, out)
			}
			seen[out] = struct{}{}
		}
	}
	return nil
}

// GenerateHistorical runs the mutating pass: builds the match model, fans the
// matches out to every configured generator, and merges their feature columns
// into the table.
func (s *Service) GenerateHistorical(ctx context.Context, tbl *table.Table) (*rating.Features, error) {
	return s.generate(ctx, tbl, true)
}

// GenerateFuture runs the read-only projection pass.
func (s *Service) GenerateFuture(ctx context.Context, tbl *table.Table) (*rating.Features, error) {
	return s.generate(ctx, tbl, false)
}

func (s *Service) generate(ctx context.Context, tbl *table.Table, historical bool) (*rating.Features, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	matches, err := s.builder.Build(tbl)
	if err != nil {
		metrics.RecordValidationError("match_build")
		return nil, err
	}

	mode := "future"
	if historical {
		mode = "historical"
	}
	s.logger.Debug(ctx, "generating features",
		logger.String("mode", mode),
		logger.Int("matches", len(matches)),
		logger.Int("rows", tbl.Len()),
	)

	sets := make([]*rating.Features, len(s.generators))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, g := range s.generators {
		eg.Go(func() error {
			start := time.Now()
			var (
				features *rating.Features
				err      error
			)
			if historical {
				features, err = g.GenerateHistorical(egCtx, matches, tbl.Len())
			} else {
				features, err = g.GenerateFuture(egCtx, matches, tbl.Len())
			}
			if err != nil {
				return fmt.Errorf("generator %s: %w", g.Name(), err)
			}
			sets[i] = features
			metrics.RecordGeneratorRun(g.Name(), mode)
			metrics.RecordGenerationDuration(g.Name(), mode, time.Since(start).Seconds())
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if errors.Is(err, rating.ErrOutOfOrder) {
			metrics.RecordOutOfOrderMatch()
		}
		return nil, err
	}

	merged, err := rating.Merge(sets, s.featureSuffixes())
	if err != nil {
		return nil, err
	}

	for _, m := range matches {
		metrics.RecordMatchProcessed()
		if !historical {
			continue
		}
		for _, t := range m.Teams {
			for range t.Players {
				metrics.RecordRatingUpdate()
			}
		}
	}
	if s.store != nil {
		metrics.UpdateEntitiesTracked(s.store.Count(ctx))
	}

	return merged, nil
}

// Train runs the full historical pipeline: performance generation, feature
// generation, and estimator training on the augmented table.
func (s *Service) Train(ctx context.Context, tbl *table.Table) error {
	if s.perfGen == nil || s.predictor == nil {
		return ErrNoCollaborator
	}

	if err := s.perfGen.Generate(ctx, tbl); err != nil {
		return fmt.Errorf("performance generation: %w", err)
	}

	features, err := s.GenerateHistorical(ctx, tbl)
	if err != nil {
		return err
	}
	if err := attachFeatures(tbl, features); err != nil {
		return err
	}

	return s.predictor.Train(ctx, tbl, features.Names())
}

// Predict runs the read-only pipeline and appends the estimator's prediction
// column to the table.
func (s *Service) Predict(ctx context.Context, tbl *table.Table) error {
	if s.perfGen == nil || s.predictor == nil {
		return ErrNoCollaborator
	}

	if err := s.perfGen.Generate(ctx, tbl); err != nil {
		return fmt.Errorf("performance generation: %w", err)
	}

	features, err := s.GenerateFuture(ctx, tbl)
	if err != nil {
		return err
	}
	if err := attachFeatures(tbl, features); err != nil {
		return err
	}

	return s.predictor.AddPrediction(ctx, tbl)
}

// attachFeatures copies feature columns onto the table, aligned row-for-row.
func attachFeatures(tbl *table.Table, features *rating.Features) error {
	for _, name := range features.Names() {
		col, err := features.Column(name)
		if err != nil {
			return err
		}
		if err := tbl.AddFloats(name, col); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears every generator's state so an independent run starts from
// scratch.
func (s *Service) Reset(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.generators {
		g.Reset(ctx)
	}
	if s.store != nil {
		metrics.UpdateEntitiesTracked(s.store.Count(ctx))
	}
	s.logger.Info(ctx, "rating state reset")
}

// TopRatings returns the top N rated players.
func (s *Service) TopRatings(ctx context.Context, n int) ([]types.Entry, error) {
	if s.store == nil {
		return nil, ErrNoRatingStore
	}
	if max := s.cfg.MaxRatingsLimit; max > 0 && n > max {
		n = max
	}
	return s.store.TopPlayers(ctx, n)
}

// Rating returns the rank and rating for a given player id.
func (s *Service) Rating(ctx context.Context, id string) (types.Entry, error) {
	if s.store == nil {
		return types.Entry{}, ErrNoRatingStore
	}
	return s.store.Rank(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"generators": len(s.generators),
	}

	names := make([]string, 0, len(s.generators))
	for _, g := range s.generators {
		names = append(names, g.Name())
	}
	stats["generatorNames"] = names

	if s.store != nil {
		count := s.store.Count(context.Background())
		stats["trackedEntities"] = count
		metrics.UpdateEntitiesTracked(count)
	}

	return stats
}
