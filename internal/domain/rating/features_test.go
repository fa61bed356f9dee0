package rating_test

import (
	"math"
	"testing"

	"github.com/okian/skillrate/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFeatures(t *testing.T) {
	Convey("Given a feature set with two columns", t, func() {
		f := rating.NewFeatures(3, "a", "b")

		Convey("Then cells start as NaN", func() {
			col, err := f.Column("a")
			So(err, ShouldBeNil)
			So(col, ShouldHaveLength, 3)
			So(math.IsNaN(col[0]), ShouldBeTrue)
		})

		Convey("When setting a cell", func() {
			So(f.Set("a", 1, 0.25), ShouldBeNil)

			col, _ := f.Column("a")
			So(col[1], ShouldEqual, 0.25)
		})

		Convey("When addressing an unknown column", func() {
			err := f.Set("missing", 0, 1)
			So(err, ShouldWrap, rating.ErrUnknownFeature)

			_, err = f.Column("missing")
			So(err, ShouldWrap, rating.ErrUnknownFeature)
		})

		Convey("When addressing a row out of range", func() {
			So(f.Set("a", 3, 1), ShouldWrap, rating.ErrRowOutOfRange)
			So(f.Set("a", -1, 1), ShouldWrap, rating.ErrRowOutOfRange)
		})

		Convey("Then names keep declaration order", func() {
			So(f.Names(), ShouldResemble, []string{"a", "b"})
			So(f.Rows(), ShouldEqual, 3)
		})
	})
}

func TestMerge(t *testing.T) {
	Convey("Given two feature sets", t, func() {
		a := rating.NewFeatures(2, "rating")
		So(a.Set("rating", 0, 1), ShouldBeNil)
		b := rating.NewFeatures(2, "rating")
		So(b.Set("rating", 1, 2), ShouldBeNil)

		Convey("When merged with suffixes", func() {
			merged, err := rating.Merge([]*rating.Features{a, b}, []string{"_1", "_2"})

			Convey("Then columns are disambiguated and copied", func() {
				So(err, ShouldBeNil)
				So(merged.Names(), ShouldResemble, []string{"rating_1", "rating_2"})

				one, _ := merged.Column("rating_1")
				So(one[0], ShouldEqual, 1)
				So(math.IsNaN(one[1]), ShouldBeTrue)

				two, _ := merged.Column("rating_2")
				So(two[1], ShouldEqual, 2)
			})

			Convey("Then mutating the source does not affect the merge", func() {
				So(err, ShouldBeNil)
				So(a.Set("rating", 0, 99), ShouldBeNil)
				one, _ := merged.Column("rating_1")
				So(one[0], ShouldEqual, 1)
			})
		})

		Convey("When merged without suffixes", func() {
			_, err := rating.Merge([]*rating.Features{a, b}, []string{"", ""})

			Convey("Then the collision is rejected", func() {
				So(err, ShouldWrap, rating.ErrDuplicateFeature)
			})
		})

		Convey("When row counts differ", func() {
			c := rating.NewFeatures(3, "other")
			_, err := rating.Merge([]*rating.Features{a, c}, []string{"_1", "_2"})

			Convey("Then the mismatch is rejected", func() {
				So(err, ShouldWrap, rating.ErrRowsMismatch)
			})
		})
	})
}
