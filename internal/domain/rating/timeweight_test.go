package rating_test

import (
	"context"
	"math"
	"testing"

	"github.com/okian/skillrate/internal/domain/model"
	"github.com/okian/skillrate/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

// solo builds a single-player appearance for direct engine tests.
func solo(id string, day, row int, perf float64) model.Match {
	return model.Match{
		ID:        id,
		UpdateID:  id,
		DayNumber: day,
		Teams: []model.MatchTeam{
			{ID: "ta", Players: []model.MatchPlayer{{
				ID:  "p1",
				Row: row,
				Performance: model.MatchPerformance{
					Value:                        perf,
					ParticipationWeight:          1,
					ProjectedParticipationWeight: 1,
				},
			}}},
		},
	}
}

func TestTimeWeightedGenerator(t *testing.T) {
	ctx := context.Background()

	Convey("Given a time-weighted generator with defaults", t, func() {
		g := rating.NewTimeWeightedGenerator()

		Convey("When a player appears at days 0, 1 and 24", func() {
			matches := []model.Match{
				solo("m1", 0, 0, 1),
				solo("m2", 1, 1, 0),
				solo("m3", 24, 2, 0.5),
			}

			features, err := g.GenerateHistorical(ctx, matches, 3)
			So(err, ShouldBeNil)

			values, _ := features.Column(rating.FeatureTimeWeightedRating)
			likelihoods, _ := features.Column(rating.FeatureTimeWeightedLikelihoodRatio)
			evidences, _ := features.Column(rating.FeatureTimeWeightedEvidence)

			Convey("Then the first appearance is exactly the prior", func() {
				So(values[0], ShouldEqual, 0.5)
				So(likelihoods[0], ShouldEqual, 0)
				So(math.IsNaN(evidences[0]), ShouldBeTrue)
			})

			Convey("Then the second appearance matches the closed form", func() {
				lr := math.Pow(0.98, 1) / 50
				So(likelihoods[1], ShouldAlmostEqual, lr, 1e-12)
				So(evidences[1], ShouldAlmostEqual, 1.0, 1e-12)
				So(values[1], ShouldAlmostEqual, 1.0*lr+(1-lr)*0.5, 1e-12)
			})

			Convey("Then the third appearance decays both observations", func() {
				// Likelihood: one observation 24 days old, one 23 days old.
				lSum := math.Pow(0.98, 24) + math.Pow(0.98, 23)
				lr := math.Min(1, lSum/50)
				So(likelihoods[2], ShouldAlmostEqual, lr, 1e-12)

				// Evidence: performances 1 and 0 with weights 0.96^24, 0.96^23.
				w1 := math.Pow(0.96, 24)
				w2 := math.Pow(0.96, 23)
				ev := (1*w1 + 0*w2) / (w1 + w2)
				So(evidences[2], ShouldAlmostEqual, ev, 1e-12)
				So(values[2], ShouldAlmostEqual, ev*lr+(1-lr)*0.5, 1e-12)
			})
		})

		Convey("When matches arrive out of order", func() {
			_, err := g.GenerateHistorical(ctx, []model.Match{solo("m1", 10, 0, 1)}, 1)
			So(err, ShouldBeNil)

			_, err = g.GenerateHistorical(ctx, []model.Match{solo("m0", 5, 0, 1)}, 1)

			Convey("Then the stale match is rejected", func() {
				So(err, ShouldWrap, rating.ErrOutOfOrder)
			})
		})

		Convey("When projecting the future", func() {
			_, err := g.GenerateHistorical(ctx, []model.Match{solo("m1", 0, 0, 1)}, 1)
			So(err, ShouldBeNil)

			future := []model.Match{solo("m2", 10, 0, 0.5)}
			first, err := g.GenerateFuture(ctx, future, 1)
			So(err, ShouldBeNil)
			second, err := g.GenerateFuture(ctx, future, 1)
			So(err, ShouldBeNil)

			Convey("Then projections repeat without side effects", func() {
				fv, _ := first.Column(rating.FeatureTimeWeightedRating)
				sv, _ := second.Column(rating.FeatureTimeWeightedRating)
				So(sv, ShouldResemble, fv)
			})

			Convey("Then the projection decays the single observation", func() {
				fv, _ := first.Column(rating.FeatureTimeWeightedRating)
				lr := math.Pow(0.98, 10) / 50
				So(fv[0], ShouldAlmostEqual, 1*lr+(1-lr)*0.5, 1e-12)
			})
		})

		Convey("When the generator is reset", func() {
			_, err := g.GenerateHistorical(ctx, []model.Match{solo("m1", 10, 0, 1)}, 1)
			So(err, ShouldBeNil)
			g.Reset(ctx)

			features, err := g.GenerateHistorical(ctx, []model.Match{solo("m0", 0, 0, 1)}, 1)

			Convey("Then no state survives", func() {
				So(err, ShouldBeNil)
				values, _ := features.Column(rating.FeatureTimeWeightedRating)
				So(values[0], ShouldEqual, 0.5)
			})
		})
	})
}

func TestTimeWeightedPriors(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generator with league-conditioned priors", t, func() {
		g := rating.NewTimeWeightedGenerator(
			rating.WithPriorGranularity(rating.PriorLeague),
			rating.WithPriorStrength(2),
		)

		mk := func(id string, day, row int, pid, league string, perf float64) model.Match {
			return model.Match{
				ID:        id,
				DayNumber: day,
				Teams: []model.MatchTeam{
					{ID: "ta", Players: []model.MatchPlayer{{
						ID:     pid,
						Row:    row,
						League: league,
						Performance: model.MatchPerformance{
							Value:                        perf,
							ParticipationWeight:          1,
							ProjectedParticipationWeight: 1,
						},
					}}},
				},
			}
		}

		Convey("When a league's other members perform strongly", func() {
			matches := []model.Match{
				mk("m1", 0, 0, "strong1", "elite", 0.9),
				mk("m2", 0, 1, "strong2", "elite", 0.9),
				mk("m3", 1, 2, "newcomer", "elite", 0.5),
			}

			features, err := g.GenerateHistorical(ctx, matches, 3)
			So(err, ShouldBeNil)

			Convey("Then a newcomer's prior is pulled above the global one", func() {
				values, _ := features.Column(rating.FeatureTimeWeightedRating)
				// Leave-one-out mean 0.9 over 2 observations, blended with
				// the 0.5 prior at strength 2.
				want := (2*0.5 + 0.9 + 0.9) / (2 + 2)
				So(values[2], ShouldAlmostEqual, want, 1e-12)
			})
		})
	})
}
