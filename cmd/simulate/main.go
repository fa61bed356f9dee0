package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/okian/skillrate/internal/simulate"
	"github.com/okian/skillrate/pkg/logger"
)

// Default configuration constants.
const (
	defaultPlayers    = 200
	defaultTeams      = 20
	defaultMatches    = 500
	defaultDays       = 120
	defaultTopN       = 10
	defaultSeed       = 1
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		players = flag.Int("players", defaultPlayers, "Size of the player pool")
		teams   = flag.Int("teams", defaultTeams, "Number of persistent teams")
		matches = flag.Int("matches", defaultMatches, "Number of matches to simulate")
		days    = flag.Int("days", defaultDays, "Calendar span of the history in days")
		topN    = flag.Int("top", defaultTopN, "Number of leaders to report")
		seed    = flag.Int64("seed", defaultSeed, "Random seed for reproducible runs")
		leagues = flag.String("leagues", "", "Comma-separated league names to tag matches with")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	opts := []simulate.Option{
		simulate.WithPlayers(*players),
		simulate.WithTeams(*teams),
		simulate.WithMatches(*matches),
		simulate.WithDays(*days),
		simulate.WithTopN(*topN),
		simulate.WithSeed(*seed),
	}
	if *leagues != "" {
		opts = append(opts, simulate.WithLeagues(strings.Split(*leagues, ",")...))
	}

	if err := simulate.Run(ctx, simulate.NewConfig(opts...)); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
