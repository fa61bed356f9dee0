package simulate

import (
	"context"
	"fmt"
	"sort"
	"time"

	service "github.com/okian/skillrate/internal/app"
	"github.com/okian/skillrate/internal/config"
	"github.com/okian/skillrate/internal/domain/types"
	"github.com/okian/skillrate/pkg/logger"
)

// Run executes a complete synthetic pipeline pass: generate a match history,
// run the historical rating pass, train the baseline estimator, and report
// how well the rating table recovers the latent skill ordering.
func Run(ctx context.Context, simCfg *Config) error {
	log := logger.Get()
	start := time.Now()

	log.Info(ctx, "starting rating simulation",
		logger.Int("players", simCfg.Players),
		logger.Int("teams", simCfg.Teams),
		logger.Int("matches", simCfg.Matches),
		logger.Int("days", simCfg.Days),
		logger.Any("seed", simCfg.Seed),
	)

	// Step 1: Generate the synthetic history.
	dataset, err := Generate(simCfg)
	if err != nil {
		return fmt.Errorf("dataset generation failed: %w", err)
	}
	log.Info(ctx, "generated dataset", logger.Int("rows", dataset.Table.Len()))

	// Step 2: Build the pipeline service.
	cfg := config.New(ctx)
	cfg.Generators = []string{config.GeneratorOpponentAdjusted, config.GeneratorTimeWeighted}

	svc := service.New(
		service.WithConfig(cfg),
		service.WithLogger(log),
		service.WithPerformanceGenerator(NewPassthroughPerformance(cfg.PerformanceColumn)),
		service.WithPredictor(NewBaselinePredictor(cfg.PerformanceColumn, "prediction")),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("service start failed: %w", err)
	}

	// Step 3: Historical pass plus estimator training.
	if err := svc.Train(ctx, dataset.Table); err != nil {
		return fmt.Errorf("training pass failed: %w", err)
	}

	// Step 4: Read back the leaders.
	leaders, err := svc.TopRatings(ctx, simCfg.TopN)
	if err != nil {
		return fmt.Errorf("rating readback failed: %w", err)
	}
	for _, e := range leaders {
		log.Info(ctx, "leader",
			logger.Int("rank", e.Rank),
			logger.String("player", e.EntityID),
			logger.Float64("rating", e.Rating),
			logger.Float64("skill", dataset.Skills[e.EntityID]),
		)
	}

	// Step 5: Agreement between rating order and latent skill order.
	agreement := topOverlap(leaders, dataset, simCfg.TopN)
	log.Info(ctx, "simulation finished",
		logger.Float64("topOverlap", agreement),
		logger.String("elapsed", time.Since(start).String()),
	)

	return nil
}

// topOverlap measures the fraction of the rating top-N also present in the
// latent-skill top-N.
func topOverlap(leaders []types.Entry, dataset *Dataset, n int) float64 {
	if len(leaders) == 0 || n <= 0 {
		return 0
	}

	bySkill := make([]string, len(dataset.PlayerIDs))
	copy(bySkill, dataset.PlayerIDs)
	sort.SliceStable(bySkill, func(i, j int) bool {
		return dataset.Skills[bySkill[i]] > dataset.Skills[bySkill[j]]
	})
	if n > len(bySkill) {
		n = len(bySkill)
	}

	top := make(map[string]struct{}, n)
	for _, id := range bySkill[:n] {
		top[id] = struct{}{}
	}

	hits := 0
	for _, e := range leaders {
		if _, ok := top[e.EntityID]; ok {
			hits++
		}
	}
	return float64(hits) / float64(n)
}
