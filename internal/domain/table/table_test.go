package table_test

import (
	"testing"
	"time"

	"github.com/okian/skillrate/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	Convey("Given a table with three rows", t, func() {
		tbl := table.New(3)

		Convey("When adding typed columns", func() {
			So(tbl.AddStrings("id", []string{"a", "b", "c"}), ShouldBeNil)
			So(tbl.AddFloats("score", []float64{1, 2, 3}), ShouldBeNil)
			So(tbl.AddTimes("ts", []time.Time{{}, {}, {}}), ShouldBeNil)

			Convey("Then they can be read back", func() {
				ids, err := tbl.Strings("id")
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []string{"a", "b", "c"})

				scores, err := tbl.Floats("score")
				So(err, ShouldBeNil)
				So(scores, ShouldResemble, []float64{1, 2, 3})

				So(tbl.Has("ts"), ShouldBeTrue)
				So(tbl.Len(), ShouldEqual, 3)
				So(tbl.Columns(), ShouldResemble, []string{"id", "score", "ts"})
			})
		})

		Convey("When adding a duplicate column name", func() {
			So(tbl.AddStrings("id", []string{"a", "b", "c"}), ShouldBeNil)
			err := tbl.AddFloats("id", []float64{1, 2, 3})

			Convey("Then it fails with the duplicate kind", func() {
				So(err, ShouldWrap, table.ErrDuplicateColumn)
			})
		})

		Convey("When adding a column with the wrong length", func() {
			err := tbl.AddFloats("score", []float64{1, 2})

			Convey("Then it fails with the mismatch kind", func() {
				So(err, ShouldWrap, table.ErrLengthMismatch)
			})
		})

		Convey("When reading a missing column", func() {
			_, err := tbl.Floats("missing")

			Convey("Then it fails with the missing kind", func() {
				So(err, ShouldWrap, table.ErrMissingColumn)
			})
		})

		Convey("When cloning the table", func() {
			So(tbl.AddFloats("score", []float64{1, 2, 3}), ShouldBeNil)
			clone := tbl.Clone()

			orig, _ := tbl.Floats("score")
			orig[0] = 99

			Convey("Then the clone keeps its own data", func() {
				cloned, err := clone.Floats("score")
				So(err, ShouldBeNil)
				So(cloned[0], ShouldEqual, 1)
			})
		})
	})
}
