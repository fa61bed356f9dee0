// Package match converts flat (match, team, player) rows into the normalized
// chronological match sequence the rating engines consume.
package match

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/okian/skillrate/internal/domain/model"
	"github.com/okian/skillrate/internal/domain/table"
)

const secondsPerDay = 86400

// Columns names the input-table columns the builder reads. MatchID, TeamID,
// PlayerID, StartDate and Performance are required; the rest are optional.
// UpdateID defaults to MatchID and ProjectedParticipationWeight defaults to
// ParticipationWeight, mirroring how performance sources usually deliver data.
type Columns struct {
	MatchID                      string
	TeamID                       string
	PlayerID                     string
	StartDate                    string
	Performance                  string
	League                       string
	Position                     string
	ParticipationWeight          string
	ProjectedParticipationWeight string
	UpdateID                     string
}

// Validate fails fast on an incomplete column mapping.
func (c Columns) Validate() error {
	required := map[string]string{
		"match_id":    c.MatchID,
		"team_id":     c.TeamID,
		"player_id":   c.PlayerID,
		"start_date":  c.StartDate,
		"performance": c.Performance,
	}
	for key, name := range required {
		if name == "" {
			return fmt.Errorf("%w: %s column not configured", ErrInvalidColumns, key)
		}
	}
	return nil
}

// Builder builds []model.Match from a table.
type Builder struct {
	cols Columns
}

// NewBuilder creates a builder, validating the column mapping up front.
func NewBuilder(cols Columns) (*Builder, error) {
	if err := cols.Validate(); err != nil {
		return nil, err
	}
	if cols.UpdateID == "" {
		cols.UpdateID = cols.MatchID
	}
	if cols.ProjectedParticipationWeight == "" {
		cols.ProjectedParticipationWeight = cols.ParticipationWeight
	}
	return &Builder{cols: cols}, nil
}

// DayNumber derives the calendar day ordinal for a timestamp: whole days
// since the Unix epoch of the UTC date. Two timestamps on the same calendar
// date map to the same ordinal regardless of time of day, and the ordinal is
// stable across independent batches so recency decay stays consistent
// between historical and future passes.
func DayNumber(t time.Time) int {
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return int(midnight.Unix() / secondsPerDay)
}

type matchAccum struct {
	id        string
	updateID  string
	dayNumber int
	league    string
	teamOrder []string
	teams     map[string]*model.MatchTeam
}

// Build groups rows into matches sorted by (day ordinal, match id). Each
// returned match carries exactly the teams and players present in its rows,
// with the originating row index preserved on every player.
func (b *Builder) Build(tbl *table.Table) ([]model.Match, error) {
	matchIDs, err := tbl.Strings(b.cols.MatchID)
	if err != nil {
		return nil, err
	}
	teamIDs, err := tbl.Strings(b.cols.TeamID)
	if err != nil {
		return nil, err
	}
	playerIDs, err := tbl.Strings(b.cols.PlayerID)
	if err != nil {
		return nil, err
	}
	dates, err := tbl.Times(b.cols.StartDate)
	if err != nil {
		return nil, err
	}
	performances, err := tbl.Floats(b.cols.Performance)
	if err != nil {
		return nil, err
	}

	// Optional columns apply only when present in the table; a dataset
	// without them gets the documented defaults.
	var leagues, positions []string
	if b.cols.League != "" && tbl.Has(b.cols.League) {
		if leagues, err = tbl.Strings(b.cols.League); err != nil {
			return nil, err
		}
	}
	if b.cols.Position != "" && tbl.Has(b.cols.Position) {
		if positions, err = tbl.Strings(b.cols.Position); err != nil {
			return nil, err
		}
	}
	var weights, projWeights []float64
	if b.cols.ParticipationWeight != "" && tbl.Has(b.cols.ParticipationWeight) {
		if weights, err = tbl.Floats(b.cols.ParticipationWeight); err != nil {
			return nil, err
		}
	}
	if b.cols.ProjectedParticipationWeight != "" && tbl.Has(b.cols.ProjectedParticipationWeight) {
		if projWeights, err = tbl.Floats(b.cols.ProjectedParticipationWeight); err != nil {
			return nil, err
		}
	}
	var updateIDs []string
	if b.cols.UpdateID != b.cols.MatchID && tbl.Has(b.cols.UpdateID) {
		if updateIDs, err = tbl.Strings(b.cols.UpdateID); err != nil {
			return nil, err
		}
	}

	accums := make(map[string]*matchAccum)
	var order []string

	for row := 0; row < tbl.Len(); row++ {
		perf := performances[row]
		if math.IsNaN(perf) || math.IsInf(perf, 0) || perf < 0 || perf > 1 {
			return nil, fmt.Errorf("%w: match %q row %d value %v",
				ErrBadPerformance, matchIDs[row], row, perf)
		}

		weight := 1.0
		if weights != nil {
			weight = weights[row]
			if math.IsNaN(weight) || weight < 0 || weight > 1 {
				return nil, fmt.Errorf("%w: match %q row %d value %v",
					ErrBadParticipation, matchIDs[row], row, weight)
			}
		}
		projWeight := weight
		if projWeights != nil {
			projWeight = projWeights[row]
			if math.IsNaN(projWeight) || projWeight < 0 || projWeight > 1 {
				return nil, fmt.Errorf("%w: match %q row %d projected value %v",
					ErrBadParticipation, matchIDs[row], row, projWeight)
			}
		}

		league := ""
		if leagues != nil {
			league = leagues[row]
		}
		position := ""
		if positions != nil {
			position = positions[row]
		}

		acc, ok := accums[matchIDs[row]]
		if !ok {
			acc = &matchAccum{
				id:        matchIDs[row],
				updateID:  matchIDs[row],
				dayNumber: DayNumber(dates[row]),
				league:    league,
				teams:     make(map[string]*model.MatchTeam),
			}
			if updateIDs != nil {
				acc.updateID = updateIDs[row]
			}
			accums[matchIDs[row]] = acc
			order = append(order, matchIDs[row])
		}

		team, ok := acc.teams[teamIDs[row]]
		if !ok {
			team = &model.MatchTeam{ID: teamIDs[row], League: league}
			acc.teams[teamIDs[row]] = team
			acc.teamOrder = append(acc.teamOrder, teamIDs[row])
		}
		team.Players = append(team.Players, model.MatchPlayer{
			ID: playerIDs[row],
			Performance: model.MatchPerformance{
				Value:                        perf,
				ParticipationWeight:          weight,
				ProjectedParticipationWeight: projWeight,
			},
			League:   league,
			Position: position,
			Row:      row,
		})
	}

	matches := make([]model.Match, 0, len(order))
	for _, id := range order {
		acc := accums[id]
		if len(acc.teamOrder) < 2 {
			return nil, fmt.Errorf("%w: match %q has %d", ErrTooFewTeams, id, len(acc.teamOrder))
		}
		m := model.Match{
			ID:        acc.id,
			UpdateID:  acc.updateID,
			DayNumber: acc.dayNumber,
			League:    acc.league,
		}
		for _, teamID := range acc.teamOrder {
			m.Teams = append(m.Teams, *acc.teams[teamID])
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DayNumber != matches[j].DayNumber {
			return matches[i].DayNumber < matches[j].DayNumber
		}
		return matches[i].ID < matches[j].ID
	})

	return matches, nil
}
