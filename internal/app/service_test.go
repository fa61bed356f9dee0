package service_test

import (
	"context"
	"testing"
	"time"

	service "github.com/okian/skillrate/internal/app"
	"github.com/okian/skillrate/internal/config"
	"github.com/okian/skillrate/internal/domain/table"
	"github.com/okian/skillrate/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// duelTable builds a two-match, two-team history in the default column
// layout: p1 beats p2 on day one, then they draw two days later.
func duelTable() *table.Table {
	day1 := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC)

	tbl := table.New(4)
	So(tbl.AddStrings("match_id", []string{"m1", "m1", "m2", "m2"}), ShouldBeNil)
	So(tbl.AddStrings("team_id", []string{"ta", "tb", "ta", "tb"}), ShouldBeNil)
	So(tbl.AddStrings("player_id", []string{"p1", "p2", "p1", "p2"}), ShouldBeNil)
	So(tbl.AddTimes("start_date", []time.Time{day1, day1, day2, day2}), ShouldBeNil)
	So(tbl.AddFloats("performance", []float64{1, 0, 0.5, 0.5}), ShouldBeNil)
	return tbl
}

// passthrough satisfies the performance collaborator without touching the
// table.
type passthrough struct{}

func (passthrough) Generate(ctx context.Context, tbl *table.Table) error { return nil }

// recordingPredictor captures the feature names it was trained on.
type recordingPredictor struct {
	trainedWith []string
	predicted   bool
}

func (r *recordingPredictor) Train(ctx context.Context, tbl *table.Table, features []string) error {
	r.trainedWith = features
	return nil
}

func (r *recordingPredictor) AddPrediction(ctx context.Context, tbl *table.Table) error {
	r.predicted = true
	return tbl.AddFloats("prediction", make([]float64, tbl.Len()))
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with default configuration", t, func() {
		So(logger.Init(), ShouldBeNil)
		svc := service.New()

		Convey("When generating before Start", func() {
			_, err := svc.GenerateHistorical(ctx, duelTable())

			Convey("Then the call is rejected", func() {
				So(err, ShouldWrap, service.ErrNotStarted)
			})
		})

		Convey("When started", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then stats report readiness", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["generators"], ShouldEqual, 1)
			})

			Convey("Then starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestServicePipeline(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with a single generator", t, func() {
		So(logger.Init(), ShouldBeNil)
		svc := service.New(service.WithConfig(config.New(ctx)))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When running the historical pass", func() {
			features, err := svc.GenerateHistorical(ctx, duelTable())

			Convey("Then feature names are unsuffixed", func() {
				So(err, ShouldBeNil)
				So(features.Names(), ShouldContain, "player_rating")
				So(features.Names(), ShouldContain, "player_rating_change")
			})

			Convey("Then the read surface serves the results", func() {
				So(err, ShouldBeNil)

				top, err := svc.TopRatings(ctx, 10)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 2)
				So(top[0].EntityID, ShouldEqual, "p1")

				entry, err := svc.Rating(ctx, "p2")
				So(err, ShouldBeNil)
				So(entry.Rank, ShouldEqual, 2)
			})
		})

		Convey("When resetting between runs", func() {
			_, err := svc.GenerateHistorical(ctx, duelTable())
			So(err, ShouldBeNil)
			svc.Reset(ctx)

			Convey("Then the store is empty", func() {
				top, err := svc.TopRatings(ctx, 10)
				So(err, ShouldBeNil)
				So(top, ShouldBeEmpty)
			})

			Convey("Then a rerun works from scratch", func() {
				_, err := svc.GenerateHistorical(ctx, duelTable())
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given a started service composing both engines", t, func() {
		So(logger.Init(), ShouldBeNil)
		cfg := config.New(ctx)
		cfg.Generators = []string{config.GeneratorOpponentAdjusted, config.GeneratorTimeWeighted}

		svc := service.New(service.WithConfig(cfg))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When running the historical pass", func() {
			features, err := svc.GenerateHistorical(ctx, duelTable())

			Convey("Then positional suffixes disambiguate columns", func() {
				So(err, ShouldBeNil)
				So(features.Names(), ShouldContain, "player_rating_1")
				So(features.Names(), ShouldContain, "time_weighted_rating_2")
				So(features.Names(), ShouldNotContain, "player_rating")
			})
		})
	})
}

func TestServiceCollaborators(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service without collaborators", t, func() {
		So(logger.Init(), ShouldBeNil)
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then Train and Predict are unavailable", func() {
			So(svc.Train(ctx, duelTable()), ShouldWrap, service.ErrNoCollaborator)
			So(svc.Predict(ctx, duelTable()), ShouldWrap, service.ErrNoCollaborator)
		})
	})

	Convey("Given a service with collaborators", t, func() {
		So(logger.Init(), ShouldBeNil)
		predictor := &recordingPredictor{}
		svc := service.New(
			service.WithPerformanceGenerator(passthrough{}),
			service.WithPredictor(predictor),
		)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When training on a match history", func() {
			tbl := duelTable()
			err := svc.Train(ctx, tbl)

			Convey("Then the estimator sees the generated features on the table", func() {
				So(err, ShouldBeNil)
				So(predictor.trainedWith, ShouldContain, "player_rating")
				So(tbl.Has("player_rating"), ShouldBeTrue)
			})
		})

		Convey("When predicting a future slate", func() {
			tbl := duelTable()
			err := svc.Predict(ctx, tbl)

			Convey("Then the prediction column lands on the table", func() {
				So(err, ShouldBeNil)
				So(predictor.predicted, ShouldBeTrue)
				So(tbl.Has("prediction"), ShouldBeTrue)
			})
		})
	})
}
