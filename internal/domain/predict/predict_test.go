package predict_test

import (
	"testing"

	"github.com/okian/skillrate/internal/domain/model"
	"github.com/okian/skillrate/internal/domain/predict"
	. "github.com/smartystreets/goconvey/convey"
)

func player(rating float64) model.PreMatchPlayerRating {
	return model.PreMatchPlayerRating{ID: "p", RatingValue: rating}
}

func team(rating float64) model.PreMatchTeamRating {
	return model.PreMatchTeamRating{ID: "t", RatingValue: rating}
}

func TestRatingDifferencePredictor(t *testing.T) {
	Convey("Given a rating-difference predictor", t, func() {
		p := predict.NewRatingDifferencePredictor()

		Convey("When the matchup is even", func() {
			v := p.Predict(player(1000), team(1000), nil)

			Convey("Then the prediction is exactly one half", func() {
				So(v, ShouldEqual, 0.5)
			})
		})

		Convey("When the player outrates the opponent", func() {
			stronger := p.Predict(player(1100), team(1000), nil)
			weaker := p.Predict(player(900), team(1000), nil)

			Convey("Then predictions move with the gap and stay in range", func() {
				So(stronger, ShouldBeGreaterThan, 0.5)
				So(weaker, ShouldBeLessThan, 0.5)
				So(stronger, ShouldBeLessThanOrEqualTo, 1)
				So(weaker, ShouldBeGreaterThanOrEqualTo, 0)
			})

			Convey("Then the matchup is symmetric", func() {
				So(stronger+p.Predict(player(900), team(1000), nil), ShouldAlmostEqual, 1, 1e-12)
			})
		})

		Convey("When a max predict value is configured", func() {
			clamped := predict.NewRatingDifferencePredictor(
				predict.WithMaxPredictValue(0.8),
			)
			high := clamped.Predict(player(5000), team(0), nil)
			low := clamped.Predict(player(0), team(5000), nil)

			Convey("Then extremes are clamped to the band", func() {
				So(high, ShouldEqual, 0.8)
				So(low, ShouldAlmostEqual, 0.2, 1e-12)
			})
		})

		Convey("When team coefficients are configured", func() {
			withTeam := predict.NewRatingDifferencePredictor(
				predict.WithTeamFromPlayerCoef(0.001),
			)
			carried := withTeam.Predict(player(1000), team(1000), &model.PreMatchTeamRating{RatingValue: 1200})
			alone := withTeam.Predict(player(1000), team(1000), &model.PreMatchTeamRating{RatingValue: 1000})

			Convey("Then a stronger own team lifts the prediction", func() {
				So(carried, ShouldBeGreaterThan, alone)
			})
		})

		Convey("When predicting repeatedly", func() {
			first := p.Predict(player(1050), team(1000), nil)
			p.Observe(1050)
			second := p.Predict(player(1050), team(1000), nil)

			Convey("Then the predictor stays stateless", func() {
				So(second, ShouldEqual, first)
			})
		})
	})
}

func TestRatingMeanPredictor(t *testing.T) {
	Convey("Given a rating-mean predictor", t, func() {
		p := predict.NewRatingMeanPredictor()

		Convey("When no rating has been observed", func() {
			v := p.Predict(player(1200), team(800), nil)

			Convey("Then the matchup midpoint centers the prediction", func() {
				So(v, ShouldEqual, 0.5)
			})
		})

		Convey("When ratings have been observed", func() {
			p.Observe(1000)
			p.Observe(1000)
			above := p.Predict(player(1100), team(1100), nil)
			below := p.Predict(player(900), team(900), nil)

			Convey("Then deviation from the running mean drives the prediction", func() {
				So(above, ShouldBeGreaterThan, 0.5)
				So(below, ShouldBeLessThan, 0.5)
			})

			Convey("Then Predict itself never advances the mean", func() {
				again := p.Predict(player(1100), team(1100), nil)
				So(again, ShouldEqual, above)
			})
		})

		Convey("When the predictor is reset", func() {
			p.Observe(2000)
			p.Reset()
			v := p.Predict(player(1200), team(800), nil)

			Convey("Then it behaves like a fresh instance", func() {
				So(v, ShouldEqual, 0.5)
			})
		})
	})
}
