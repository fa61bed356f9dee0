package rating_test

import (
	"context"
	"math"
	"testing"

	"github.com/okian/skillrate/internal/domain/model"
	"github.com/okian/skillrate/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

// duel builds a two-team, one-player-per-side match whose feature rows start
// at rowBase.
func duel(id string, day, rowBase int, perfA, perfB float64) model.Match {
	mk := func(pid string, row int, perf float64) model.MatchPlayer {
		return model.MatchPlayer{
			ID:  pid,
			Row: row,
			Performance: model.MatchPerformance{
				Value:                        perf,
				ParticipationWeight:          1,
				ProjectedParticipationWeight: 1,
			},
		}
	}
	return model.Match{
		ID:        id,
		UpdateID:  id,
		DayNumber: day,
		Teams: []model.MatchTeam{
			{ID: "ta", Players: []model.MatchPlayer{mk("p1", rowBase, perfA)}},
			{ID: "tb", Players: []model.MatchPlayer{mk("p2", rowBase+1, perfB)}},
		},
	}
}

func TestOpponentAdjustedGenerator(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh opponent-adjusted generator", t, func() {
		g := rating.NewOpponentAdjustedGenerator(ctx)

		Convey("When two unseen players draw", func() {
			features, err := g.GenerateHistorical(ctx, []model.Match{duel("m1", 0, 0, 0.5, 0.5)}, 2)

			Convey("Then both start at the default rating and nothing moves", func() {
				So(err, ShouldBeNil)

				ratings, _ := features.Column(rating.FeaturePlayerRating)
				So(ratings[0], ShouldEqual, 1000)
				So(ratings[1], ShouldEqual, 1000)

				changes, _ := features.Column(rating.FeaturePlayerRatingChange)
				So(changes[0], ShouldEqual, 0)
				So(changes[1], ShouldEqual, 0)

				p1, ok := g.Store().Player(ctx, "p1")
				So(ok, ShouldBeTrue)
				So(p1.RatingValue, ShouldEqual, 1000)
			})
		})

		Convey("When one player outperforms the prediction", func() {
			features, err := g.GenerateHistorical(ctx, []model.Match{duel("m1", 0, 0, 1, 0)}, 2)

			Convey("Then the winner gains what the loser gives up", func() {
				So(err, ShouldBeNil)

				changes, _ := features.Column(rating.FeaturePlayerRatingChange)
				So(changes[0], ShouldBeGreaterThan, 0)
				So(changes[1], ShouldAlmostEqual, -changes[0], 1e-9)

				p1, _ := g.Store().Player(ctx, "p1")
				p2, _ := g.Store().Player(ctx, "p2")
				So(p1.RatingValue, ShouldBeGreaterThan, p2.RatingValue)
			})

			Convey("Then the snapshot excludes the match's own outcome", func() {
				So(err, ShouldBeNil)

				ratings, _ := features.Column(rating.FeaturePlayerRating)
				So(ratings[0], ShouldEqual, 1000)
				So(ratings[1], ShouldEqual, 1000)

				diffs, _ := features.Column(rating.FeatureRatingDifference)
				So(diffs[0], ShouldEqual, 0)
			})
		})

		Convey("When matches arrive out of chronological order", func() {
			_, err := g.GenerateHistorical(ctx, []model.Match{duel("m1", 5, 0, 1, 0)}, 2)
			So(err, ShouldBeNil)

			_, err = g.GenerateHistorical(ctx, []model.Match{duel("m0", 3, 0, 1, 0)}, 2)

			Convey("Then the stale match is rejected, not reordered", func() {
				So(err, ShouldWrap, rating.ErrOutOfOrder)
				So(err.Error(), ShouldContainSubstring, "m0")
			})
		})

		Convey("When the same input runs on two fresh generators", func() {
			matches := []model.Match{
				duel("m1", 0, 0, 1, 0),
				duel("m2", 1, 2, 0.25, 0.75),
				duel("m3", 4, 4, 0.5, 0.5),
			}

			a, err := rating.NewOpponentAdjustedGenerator(ctx).GenerateHistorical(ctx, matches, 6)
			So(err, ShouldBeNil)
			b, err := rating.NewOpponentAdjustedGenerator(ctx).GenerateHistorical(ctx, matches, 6)
			So(err, ShouldBeNil)

			Convey("Then the output is identical", func() {
				for _, name := range a.Names() {
					ca, _ := a.Column(name)
					cb, _ := b.Column(name)
					So(cb, ShouldResemble, ca)
				}
			})
		})

		Convey("When future matches are appended to the input", func() {
			early := []model.Match{duel("m1", 0, 0, 1, 0)}
			full := []model.Match{
				duel("m1", 0, 0, 1, 0),
				duel("m2", 3, 2, 0, 1),
			}

			short, err := rating.NewOpponentAdjustedGenerator(ctx).GenerateHistorical(ctx, early, 2)
			So(err, ShouldBeNil)
			long, err := rating.NewOpponentAdjustedGenerator(ctx).GenerateHistorical(ctx, full, 4)
			So(err, ShouldBeNil)

			Convey("Then earlier rows never see the later matches", func() {
				for _, name := range short.Names() {
					cs, _ := short.Column(name)
					cl, _ := long.Column(name)
					So(cl[0], ShouldEqual, cs[0])
					So(cl[1], ShouldEqual, cs[1])
				}
			})
		})
	})
}

func TestGenerateFuture(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generator with committed history", t, func() {
		g := rating.NewOpponentAdjustedGenerator(ctx)
		_, err := g.GenerateHistorical(ctx, []model.Match{duel("m1", 0, 0, 1, 0)}, 2)
		So(err, ShouldBeNil)

		countBefore := g.Store().Count(ctx)

		Convey("When projecting a future match", func() {
			future := []model.Match{duel("m2", 5, 0, 0.5, 0.5)}
			first, err := g.GenerateFuture(ctx, future, 2)

			Convey("Then nothing is committed", func() {
				So(err, ShouldBeNil)
				So(g.Store().Count(ctx), ShouldEqual, countBefore)
			})

			Convey("Then the change column stays undefined", func() {
				So(err, ShouldBeNil)
				changes, _ := first.Column(rating.FeaturePlayerRatingChange)
				So(math.IsNaN(changes[0]), ShouldBeTrue)
				So(math.IsNaN(changes[1]), ShouldBeTrue)
			})

			Convey("Then repeated projections are identical", func() {
				So(err, ShouldBeNil)
				second, err := g.GenerateFuture(ctx, future, 2)
				So(err, ShouldBeNil)

				fr, _ := first.Column(rating.FeaturePlayerRating)
				sr, _ := second.Column(rating.FeaturePlayerRating)
				So(sr, ShouldResemble, fr)
			})
		})
	})
}

// leagueDuel is duel with every participant tagged by one league.
func leagueDuel(id string, day, rowBase int, leagueName string) model.Match {
	m := duel(id, day, rowBase, 0.5, 0.5)
	m.League = leagueName
	for ti := range m.Teams {
		m.Teams[ti].League = leagueName
		for pi := range m.Teams[ti].Players {
			m.Teams[ti].Players[pi].League = leagueName
		}
	}
	return m
}

func TestLeagueOrdering(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generator that completed a historical pass", t, func() {
		g := rating.NewOpponentAdjustedGenerator(ctx)
		_, err := g.GenerateHistorical(ctx, []model.Match{leagueDuel("m1", 0, 0, "premier")}, 2)
		So(err, ShouldBeNil)
		So(g.Leagues().Leagues(), ShouldResemble, []string{"premier"})

		Convey("When projecting matches from an unseen league", func() {
			_, err := g.GenerateFuture(ctx, []model.Match{leagueDuel("m2", 3, 0, "exotic")}, 2)

			Convey("Then the frozen ordering gains no index", func() {
				So(err, ShouldBeNil)
				So(g.Leagues().Leagues(), ShouldResemble, []string{"premier"})
			})
		})

		Convey("When a later historical batch brings a new league", func() {
			_, err := g.GenerateHistorical(ctx, []model.Match{leagueDuel("m3", 5, 2, "second")}, 4)

			Convey("Then the ordering extends in first-seen order", func() {
				So(err, ShouldBeNil)
				So(g.Leagues().Leagues(), ShouldResemble, []string{"premier", "second"})
			})
		})
	})
}

func TestGeneratorReset(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generator with committed history", t, func() {
		g := rating.NewOpponentAdjustedGenerator(ctx)
		matches := []model.Match{duel("m1", 0, 0, 1, 0)}

		first, err := g.GenerateHistorical(ctx, matches, 2)
		So(err, ShouldBeNil)
		So(g.Store().Count(ctx), ShouldBeGreaterThan, 0)

		Convey("When the generator is reset", func() {
			g.Reset(ctx)

			Convey("Then all state is gone", func() {
				So(g.Store().Count(ctx), ShouldEqual, 0)
			})

			Convey("Then a rerun reproduces the original output", func() {
				second, err := g.GenerateHistorical(ctx, matches, 2)
				So(err, ShouldBeNil)

				for _, name := range first.Names() {
					cf, _ := first.Column(name)
					cs, _ := second.Column(name)
					So(cs, ShouldResemble, cf)
				}
			})

			Convey("Then earlier days are accepted again", func() {
				_, err := g.GenerateHistorical(ctx, []model.Match{duel("m0", 0, 0, 0.5, 0.5)}, 2)
				So(err, ShouldBeNil)
			})
		})
	})
}
