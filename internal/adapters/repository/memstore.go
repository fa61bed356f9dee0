package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/skillrate/internal/domain/model"
	"github.com/okian/skillrate/internal/domain/types"
)

// MemStore is the in-memory Store used by every rating generator. Each
// generator owns its own instance; instances are never shared between
// concurrent passes. The mutex only guards the HTTP read surface against a
// pass in flight.
type MemStore struct {
	mu      sync.RWMutex
	players map[string]model.PlayerRating
	teams   map[string]model.TeamRating
}

// NewMemStore creates an empty in-memory store with configuration options.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{}

	cfg := storeConfig{initialCapacity: defaultInitialCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.players = make(map[string]model.PlayerRating, cfg.initialCapacity)
	s.teams = make(map[string]model.TeamRating, cfg.initialCapacity)
	return s
}

// Player implements Store. The history ring is cloned so the returned value
// shares nothing with stored state.
func (s *MemStore) Player(ctx context.Context, id string) (model.PlayerRating, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.players[id]
	if ok && r.PrevRatingChanges != nil {
		r.PrevRatingChanges = r.PrevRatingChanges.Clone()
	}
	return r, ok
}

// Team implements Store. The history ring is cloned so the returned value
// shares nothing with stored state.
func (s *MemStore) Team(ctx context.Context, id string) (model.TeamRating, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.teams[id]
	if ok && r.PrevRatingChanges != nil {
		r.PrevRatingChanges = r.PrevRatingChanges.Clone()
	}
	return r, ok
}

// CommitPlayer implements Store.
func (s *MemStore) CommitPlayer(ctx context.Context, r model.PlayerRating) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[r.ID] = r
}

// CommitTeam implements Store.
func (s *MemStore) CommitTeam(ctx context.Context, r model.TeamRating) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[r.ID] = r
}

// Count implements Store.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players) + len(s.teams)
}

// sortedPlayers returns all player entries ordered by rating descending with
// id as the deterministic tie-break. Caller must hold at least a read lock.
func (s *MemStore) sortedPlayers() []types.Entry {
	entries := make([]types.Entry, 0, len(s.players))
	for _, r := range s.players {
		entries = append(entries, types.Entry{
			EntityID:     r.ID,
			Rating:       r.RatingValue,
			GamesPlayed:  r.GamesPlayed,
			CertainRatio: r.CertainRatio,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].EntityID < entries[j].EntityID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// TopPlayers implements Store.
func (s *MemStore) TopPlayers(ctx context.Context, n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.sortedPlayers()
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

// Rank implements Store.
func (s *MemStore) Rank(ctx context.Context, id string) (types.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.players[id]; !ok {
		return types.Entry{}, ErrNotFound
	}
	for _, e := range s.sortedPlayers() {
		if e.EntityID == id {
			return e, nil
		}
	}
	return types.Entry{}, ErrNotFound
}

// Reset implements Store.
func (s *MemStore) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[string]model.PlayerRating)
	s.teams = make(map[string]model.TeamRating)
}
