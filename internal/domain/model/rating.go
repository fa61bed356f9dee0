package model

import "github.com/okian/skillrate/internal/domain/history"

// PlayerRating is the mutable per-player rating state held by the store.
// GamesPlayed == 0 marks an entity that has never been committed; its
// LastMatchDayNumber is meaningless until the first commit.
type PlayerRating struct {
	ID                 string
	RatingValue        float64
	GamesPlayed        int
	LastMatchDayNumber int
	CertainSum         float64
	CertainRatio       float64
	League             string
	Position           string
	PrevRatingChanges  *history.Ring
}

// TeamRating is the mutable per-team rating state held by the store.
type TeamRating struct {
	ID                 string
	RatingValue        float64
	GamesPlayed        int
	LastMatchDayNumber int
	CertainSum         float64
	CertainRatio       float64
	League             string
	PrevRatingChanges  *history.Ring
}

// PreMatchPlayerRating is a read-only snapshot of a player's state as of just
// before a given match. It never aliases store state.
type PreMatchPlayerRating struct {
	ID                   string
	RatingValue          float64
	ProjectedRatingValue float64
	GamesPlayed          int
	CertainRatio         float64
	League               string
	Position             string
	Performance          MatchPerformance
	Row                  int
}

// PreMatchTeamRating aggregates member snapshots into a team-level snapshot.
type PreMatchTeamRating struct {
	ID                   string
	Players              []PreMatchPlayerRating
	RatingValue          float64
	ProjectedRatingValue float64
	League               string
}

// PlayerRatingChange is the resolved post-match delta for one player.
type PlayerRatingChange struct {
	ID                   string
	DayNumber            int
	League               string
	ParticipationWeight  float64
	PredictedPerformance float64
	Performance          float64
	PreMatchRatingValue  float64
	RatingChangeValue    float64
	Row                  int
}

// TeamRatingChange is the resolved post-match delta for one team, a
// participation-weighted aggregate of its players' changes.
type TeamRatingChange struct {
	ID                   string
	Players              []PlayerRatingChange
	PredictedPerformance float64
	Performance          float64
	PreMatchRatingValue  float64
	RatingChangeValue    float64
	League               string
}
