// Package types contains common types used across the application
package types

// Entry represents one row of the rating read surface.
type Entry struct {
	Rank         int     `json:"rank"`
	EntityID     string  `json:"entity_id"`
	Rating       float64 `json:"rating"`
	GamesPlayed  int     `json:"games_played"`
	CertainRatio float64 `json:"certain_ratio"`
}
