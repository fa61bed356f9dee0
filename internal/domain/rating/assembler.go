package rating

import (
	"context"

	"github.com/okian/skillrate/internal/adapters/repository"
	"github.com/okian/skillrate/internal/domain/model"
)

// TeamAssembler produces pre-match snapshots for every team and player in a
// match without touching the store. Calling it twice before any commit
// returns identical results.
type TeamAssembler struct {
	resolver           *StartRatingResolver
	teamIdentityWeight float64
}

// AssemblerOption applies a configuration option to the TeamAssembler.
type AssemblerOption func(*TeamAssembler)

// WithTeamIdentityWeight blends the team's own persisted rating into the
// player aggregate. Zero (the default) derives team ratings purely from the
// fielded players.
func WithTeamIdentityWeight(w float64) AssemblerOption {
	return func(a *TeamAssembler) {
		if w >= 0 && w <= 1 {
			a.teamIdentityWeight = w
		}
	}
}

// NewTeamAssembler creates an assembler backed by the given start-rating
// resolver.
func NewTeamAssembler(resolver *StartRatingResolver, opts ...AssemblerOption) *TeamAssembler {
	a := &TeamAssembler{resolver: resolver}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// AssembleMatch builds pre-match team snapshots for all teams of a match.
// All snapshots are taken against the same store state, so neither team can
// see the other's post-match update.
func (a *TeamAssembler) AssembleMatch(ctx context.Context, store repository.Store, m model.Match) []model.PreMatchTeamRating {
	teams := make([]model.PreMatchTeamRating, 0, len(m.Teams))
	for _, team := range m.Teams {
		teams = append(teams, a.assembleTeam(ctx, store, team))
	}
	return teams
}

func (a *TeamAssembler) assembleTeam(ctx context.Context, store repository.Store, team model.MatchTeam) model.PreMatchTeamRating {
	// Rated members provide the team context used to place unrated ones.
	var knownSum, knownWeight float64
	for _, p := range team.Players {
		if st, ok := store.Player(ctx, p.ID); ok {
			w := p.Performance.ParticipationWeight
			knownSum += st.RatingValue * w
			knownWeight += w
		}
	}
	var teamContext *float64
	if knownWeight > 0 {
		v := knownSum / knownWeight
		teamContext = &v
	}

	players := make([]model.PreMatchPlayerRating, 0, len(team.Players))
	for _, p := range team.Players {
		snap := model.PreMatchPlayerRating{
			ID:          p.ID,
			League:      p.League,
			Position:    p.Position,
			Performance: p.Performance,
			Row:         p.Row,
		}
		if st, ok := store.Player(ctx, p.ID); ok {
			snap.RatingValue = st.RatingValue
			snap.GamesPlayed = st.GamesPlayed
			snap.CertainRatio = st.CertainRatio
		} else {
			snap.RatingValue = a.resolver.PlayerStartRating(p.League, teamContext)
		}
		snap.ProjectedRatingValue = snap.RatingValue * p.Performance.ProjectedParticipationWeight
		players = append(players, snap)
	}

	pre := model.PreMatchTeamRating{
		ID:      team.ID,
		Players: players,
		League:  team.League,
	}
	pre.RatingValue = weightedTeamValue(players, func(p model.PreMatchPlayerRating) float64 {
		return p.Performance.ParticipationWeight
	})
	pre.ProjectedRatingValue = weightedTeamValue(players, func(p model.PreMatchPlayerRating) float64 {
		return p.Performance.ProjectedParticipationWeight
	})

	if a.teamIdentityWeight > 0 {
		if st, ok := store.Team(ctx, team.ID); ok && st.GamesPlayed > 0 {
			w := a.teamIdentityWeight
			pre.RatingValue = w*st.RatingValue + (1-w)*pre.RatingValue
			pre.ProjectedRatingValue = w*st.RatingValue + (1-w)*pre.ProjectedRatingValue
		}
	}

	return pre
}

// weightedTeamValue computes the weighted mean of member ratings. A team
// whose weights sum to zero falls back to a simple mean; a single-player
// team is its own team rating.
func weightedTeamValue(players []model.PreMatchPlayerRating, weight func(model.PreMatchPlayerRating) float64) float64 {
	if len(players) == 0 {
		return 0
	}
	var sum, weightSum float64
	for _, p := range players {
		w := weight(p)
		sum += p.RatingValue * w
		weightSum += w
	}
	if weightSum == 0 {
		var plain float64
		for _, p := range players {
			plain += p.RatingValue
		}
		return plain / float64(len(players))
	}
	return sum / weightSum
}
