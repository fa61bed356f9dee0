package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if SKILLRATE_CONFIG is set
//  3. env (prefix SKILLRATE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SKILLRATE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SKILLRATE_ADDR, SKILLRATE_CERTAIN_WEIGHT, ...
	// Map env keys like SKILLRATE_CERTAIN_WEIGHT -> certain_weight (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SKILLRATE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "skillrate_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on malformed configuration. Construction-time checks
// only; data validity is enforced later by the match builder.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	for _, col := range []struct{ name, value string }{
		{"match_id_column", c.MatchIDColumn},
		{"team_id_column", c.TeamIDColumn},
		{"player_id_column", c.PlayerIDColumn},
		{"start_date_column", c.StartDateColumn},
		{"performance_column", c.PerformanceColumn},
	} {
		if col.value == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, col.name)
		}
	}

	if len(c.Generators) == 0 {
		return fmt.Errorf("%w: at least one generator required", ErrInvalidConfig)
	}
	for _, g := range c.Generators {
		switch g {
		case GeneratorOpponentAdjusted, GeneratorTimeWeighted:
		default:
			return fmt.Errorf("%w: unknown generator %q", ErrInvalidConfig, g)
		}
	}

	switch c.PredictorKind {
	case PredictorRatingDifference, PredictorRatingMean:
	default:
		return fmt.Errorf("%w: unknown predictor kind %q", ErrInvalidConfig, c.PredictorKind)
	}

	for _, w := range []struct {
		name  string
		value float64
	}{
		{"certain_weight", c.CertainWeight},
		{"min_multiplier_ratio", c.MinMultiplierRatio},
		{"max_certain_ratio", c.MaxCertainRatio},
		{"league_quantile", c.LeagueQuantile},
		{"team_weight", c.TeamWeight},
		{"team_identity_weight", c.TeamIdentityWeight},
	} {
		if w.value < 0 || w.value > 1 {
			return fmt.Errorf("%w: %s %v outside [0, 1]", ErrInvalidConfig, w.name, w.value)
		}
	}

	if c.LikelihoodExponentialWeight <= 0 || c.LikelihoodExponentialWeight > 1 {
		return fmt.Errorf("%w: likelihood_exponential_weight %v outside (0, 1]", ErrInvalidConfig, c.LikelihoodExponentialWeight)
	}
	if c.EvidenceExponentialWeight <= 0 || c.EvidenceExponentialWeight > 1 {
		return fmt.Errorf("%w: evidence_exponential_weight %v outside (0, 1]", ErrInvalidConfig, c.EvidenceExponentialWeight)
	}
	if c.LikelihoodDenom <= 0 {
		return fmt.Errorf("%w: likelihood_denom must be positive", ErrInvalidConfig)
	}

	return nil
}
