package history_test

import (
	"testing"

	"github.com/okian/skillrate/internal/domain/history"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRing(t *testing.T) {
	Convey("Given a ring buffer", t, func() {
		Convey("When created with default options", func() {
			r := history.NewRing()

			Convey("Then it should be empty with the default window", func() {
				So(r, ShouldNotBeNil)
				So(r.Len(), ShouldEqual, 0)
				So(r.Cap(), ShouldEqual, 30)
				So(r.Values(), ShouldBeEmpty)
			})
		})

		Convey("When created with a custom capacity", func() {
			r := history.NewRing(history.WithCapacity(3))

			Convey("Then the window matches the option", func() {
				So(r.Cap(), ShouldEqual, 3)
			})

			Convey("And samples are pushed within capacity", func() {
				r.Push(1)
				r.Push(2)

				Convey("Then values come back oldest to newest", func() {
					So(r.Len(), ShouldEqual, 2)
					So(r.Values(), ShouldResemble, []float64{1, 2})
				})
			})

			Convey("And more samples than capacity are pushed", func() {
				for _, v := range []float64{1, 2, 3, 4, 5} {
					r.Push(v)
				}

				Convey("Then the oldest samples are evicted", func() {
					So(r.Len(), ShouldEqual, 3)
					So(r.Values(), ShouldResemble, []float64{3, 4, 5})
				})
			})
		})

		Convey("When an invalid capacity is requested", func() {
			r := history.NewRing(history.WithCapacity(0))

			Convey("Then the default window is kept", func() {
				So(r.Cap(), ShouldEqual, 30)
			})
		})

		Convey("When cloning a ring", func() {
			r := history.NewRing(history.WithCapacity(2))
			r.Push(1)
			r.Push(2)
			c := r.Clone()
			r.Push(3)

			Convey("Then the clone is independent", func() {
				So(c.Values(), ShouldResemble, []float64{1, 2})
				So(r.Values(), ShouldResemble, []float64{2, 3})
			})
		})
	})
}
