// Package simulate generates synthetic match histories and drives the full
// rating pipeline end to end, as a smoke test and a demo data source.
package simulate

import (
	"time"
)

// Defaults for the synthetic dataset.
const (
	defaultPlayers        = 200
	defaultTeams          = 20
	defaultMatches        = 500
	defaultDays           = 120
	defaultPlayersPerTeam = 5
	defaultTopN           = 10
	defaultSeed           = 1
)

// Config controls the synthetic run.
type Config struct {
	// Players is the size of the player pool.
	Players int

	// Teams is the number of persistent team identities.
	Teams int

	// Matches is the number of matches generated.
	Matches int

	// Days is the calendar span of the generated history.
	Days int

	// PlayersPerTeam is the squad size fielded per match.
	PlayersPerTeam int

	// Leagues tags matches round-robin over these league names. Empty means
	// untagged matches.
	Leagues []string

	// TopN is how many leaders to report at the end.
	TopN int

	// Seed makes the run reproducible.
	Seed int64

	// StartDate anchors the first match day.
	StartDate time.Time
}

// Option applies a configuration option to the Config.
type Option func(*Config)

// WithPlayers sets the player pool size.
func WithPlayers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Players = n
		}
	}
}

// WithTeams sets the number of teams.
func WithTeams(n int) Option {
	return func(c *Config) {
		if n > 1 {
			c.Teams = n
		}
	}
}

// WithMatches sets the number of generated matches.
func WithMatches(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Matches = n
		}
	}
}

// WithDays sets the calendar span.
func WithDays(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Days = n
		}
	}
}

// WithPlayersPerTeam sets the fielded squad size.
func WithPlayersPerTeam(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.PlayersPerTeam = n
		}
	}
}

// WithLeagues sets the league names cycled over matches.
func WithLeagues(leagues ...string) Option {
	return func(c *Config) {
		c.Leagues = leagues
	}
}

// WithTopN sets the number of leaders reported.
func WithTopN(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.TopN = n
		}
	}
}

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithStartDate anchors the first match day.
func WithStartDate(t time.Time) Option {
	return func(c *Config) {
		if !t.IsZero() {
			c.StartDate = t
		}
	}
}

// NewConfig creates a Config with defaults.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		Players:        defaultPlayers,
		Teams:          defaultTeams,
		Matches:        defaultMatches,
		Days:           defaultDays,
		PlayersPerTeam: defaultPlayersPerTeam,
		TopN:           defaultTopN,
		Seed:           defaultSeed,
		StartDate:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
