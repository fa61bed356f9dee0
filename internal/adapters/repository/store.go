// Package repository defines the entity rating store interface and errors.
package repository

import (
	"context"

	"github.com/okian/skillrate/internal/domain/model"
	"github.com/okian/skillrate/internal/domain/types"
)

// Store provides read/write access to per-entity rating state. Writes follow
// a single-writer discipline: only the rating updater commits, and only after
// every pre-match snapshot for the same match has been taken. Reads return
// value copies so snapshot assembly can never alias mutable store state.
type Store interface {
	// Player returns a copy of the player's state, or false when unseen.
	Player(ctx context.Context, id string) (model.PlayerRating, bool)

	// Team returns a copy of the team's state, or false when unseen.
	Team(ctx context.Context, id string) (model.TeamRating, bool)

	// CommitPlayer upserts player state.
	CommitPlayer(ctx context.Context, r model.PlayerRating)

	// CommitTeam upserts team state.
	CommitTeam(ctx context.Context, r model.TeamRating)

	// Count returns the number of tracked entities (players plus teams).
	Count(ctx context.Context) int

	// TopPlayers returns the n highest-rated players, rank ascending.
	TopPlayers(ctx context.Context, n int) ([]types.Entry, error)

	// Rank returns the leaderboard entry for one player.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, id string) (types.Entry, error)

	// Reset drops all state, returning every entity to unseen.
	Reset(ctx context.Context)
}
