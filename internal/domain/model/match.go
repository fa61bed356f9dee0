// Package model contains domain models passed between layers.
package model

// MatchPerformance carries a player's measured performance for one match.
// Value must lie in [0, 1]; weights discount partial-game involvement.
type MatchPerformance struct {
	Value                        float64
	ParticipationWeight          float64
	ProjectedParticipationWeight float64
}

// MatchPlayer is one player's appearance in a match.
type MatchPlayer struct {
	ID          string
	Performance MatchPerformance
	League      string
	Position    string
	Row         int // index of the originating table row, used to align feature output
}

// MatchTeam groups the players fielded by one side of a match.
type MatchTeam struct {
	ID      string
	Players []MatchPlayer
	League  string
}

// Match is an immutable, normalized match record. DayNumber is a calendar
// day ordinal: matches on the same date share the ordinal, later dates get
// strictly larger ones.
type Match struct {
	ID        string
	UpdateID  string
	Teams     []MatchTeam
	DayNumber int
	League    string
}
