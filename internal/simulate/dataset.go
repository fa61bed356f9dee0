package simulate

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/skillrate/internal/domain/table"
)

// Positions cycled over squad slots.
var positions = []string{"goalkeeper", "defender", "midfielder", "forward", "forward"}

// performanceNoise is the standard deviation of the per-match noise around a
// player's latent skill.
const performanceNoise = 0.15

// Dataset is a generated match history plus the ground truth behind it.
type Dataset struct {
	// Table holds one row per (match, team, player) tuple in the column
	// layout the pipeline expects.
	Table *table.Table

	// Skills is the latent skill per player id, for verification.
	Skills map[string]float64

	// PlayerIDs in generation order.
	PlayerIDs []string
}

// Generate builds a reproducible synthetic match history. Players have a
// fixed latent skill in [0, 1]; observed performance is the skill plus
// bounded noise, so stronger players should surface at the top of the rating
// table after a historical pass.
func Generate(cfg *Config) (*Dataset, error) {
	if cfg.Teams < 2 {
		return nil, fmt.Errorf("%w: need at least 2 teams", ErrBadConfig)
	}
	if cfg.Players < cfg.Teams*cfg.PlayersPerTeam {
		return nil, fmt.Errorf("%w: %d players cannot fill %d teams of %d",
			ErrBadConfig, cfg.Players, cfg.Teams, cfg.PlayersPerTeam)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	playerIDs := make([]string, cfg.Players)
	skills := make(map[string]float64, cfg.Players)
	for i := range playerIDs {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("player-%d-%d", cfg.Seed, i))).String()
		playerIDs[i] = id
		skills[id] = rng.Float64()
	}

	// Fixed rosters: team t owns a contiguous slice of the player pool.
	rosters := make([][]string, cfg.Teams)
	perTeam := cfg.Players / cfg.Teams
	for t := range rosters {
		rosters[t] = playerIDs[t*perTeam : (t+1)*perTeam]
	}

	rows := cfg.Matches * 2 * cfg.PlayersPerTeam
	var (
		matchIDs  = make([]string, 0, rows)
		teamIDs   = make([]string, 0, rows)
		playerCol = make([]string, 0, rows)
		dates     = make([]time.Time, 0, rows)
		perfs     = make([]float64, 0, rows)
		leagues   = make([]string, 0, rows)
		posCol    = make([]string, 0, rows)
		weights   = make([]float64, 0, rows)
	)

	for m := 0; m < cfg.Matches; m++ {
		day := m * cfg.Days / cfg.Matches
		date := cfg.StartDate.AddDate(0, 0, day)
		matchID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("match-%d-%d", cfg.Seed, m))).String()

		league := ""
		if len(cfg.Leagues) > 0 {
			league = cfg.Leagues[m%len(cfg.Leagues)]
		}

		home := rng.Intn(cfg.Teams)
		away := rng.Intn(cfg.Teams - 1)
		if away >= home {
			away++
		}

		for _, t := range []int{home, away} {
			teamID := fmt.Sprintf("team-%02d", t)
			squad := pickSquad(rng, rosters[t], cfg.PlayersPerTeam)
			for slot, pid := range squad {
				matchIDs = append(matchIDs, matchID)
				teamIDs = append(teamIDs, teamID)
				playerCol = append(playerCol, pid)
				dates = append(dates, date)
				perfs = append(perfs, observedPerformance(rng, skills[pid]))
				leagues = append(leagues, league)
				posCol = append(posCol, positions[slot%len(positions)])
				weights = append(weights, 1)
			}
		}
	}

	tbl := table.New(len(matchIDs))
	if err := tbl.AddStrings("match_id", matchIDs); err != nil {
		return nil, err
	}
	if err := tbl.AddStrings("team_id", teamIDs); err != nil {
		return nil, err
	}
	if err := tbl.AddStrings("player_id", playerCol); err != nil {
		return nil, err
	}
	if err := tbl.AddTimes("start_date", dates); err != nil {
		return nil, err
	}
	if err := tbl.AddFloats("performance", perfs); err != nil {
		return nil, err
	}
	if err := tbl.AddStrings("league", leagues); err != nil {
		return nil, err
	}
	if err := tbl.AddStrings("position", posCol); err != nil {
		return nil, err
	}
	if err := tbl.AddFloats("participation_weight", weights); err != nil {
		return nil, err
	}

	return &Dataset{
		Table:     tbl,
		Skills:    skills,
		PlayerIDs: playerIDs,
	}, nil
}

// pickSquad selects a squad from a roster without repeats.
func pickSquad(rng *rand.Rand, roster []string, n int) []string {
	if n >= len(roster) {
		out := make([]string, len(roster))
		copy(out, roster)
		return out
	}
	idx := rng.Perm(len(roster))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = roster[j]
	}
	return out
}

// observedPerformance is latent skill plus bounded noise, clamped to [0, 1].
func observedPerformance(rng *rand.Rand, skill float64) float64 {
	v := skill + rng.NormFloat64()*performanceNoise
	return math.Max(0, math.Min(1, v))
}
