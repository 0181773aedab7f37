package goals_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/preston-bernstein/nhl-notifier/internal/goals"
)

func set(pairs ...int) goals.Set {
	s := make(goals.Set)
	for i := 0; i+1 < len(pairs); i += 2 {
		s[pairs[i]] = goals.Goal{EventID: pairs[i], TeamID: pairs[i+1]}
	}
	return s
}

func eventIDs(gs []goals.Goal) []int {
	ids := make([]int, 0, len(gs))
	for _, g := range gs {
		ids = append(ids, g.EventID)
	}
	return ids
}

func TestCompare(t *testing.T) {
	Convey("Given known goals and a new poll", t, func() {
		Convey("When the poll adds goals", func() {
			d := goals.Compare(set(), set(102, 2, 101, 1))

			Convey("Then they are reported as added in event order", func() {
				So(eventIDs(d.Added), ShouldResemble, []int{101, 102})
				So(d.Removed, ShouldBeEmpty)
			})
		})

		Convey("When the poll repeats known goals unchanged", func() {
			d := goals.Compare(set(101, 1, 102, 2), set(101, 1, 102, 2))

			Convey("Then nothing changes", func() {
				So(d.Empty(), ShouldBeTrue)
			})
		})

		Convey("When a known goal disappears", func() {
			d := goals.Compare(set(101, 1, 102, 2), set(101, 1))

			Convey("Then it is reported as removed", func() {
				So(d.Added, ShouldBeEmpty)
				So(eventIDs(d.Removed), ShouldResemble, []int{102})
				So(d.Removed[0].TeamID, ShouldEqual, 2)
			})
		})

		Convey("When the poll has no goals at all", func() {
			d := goals.Compare(set(101, 1), set())

			Convey("Then every known goal is removed", func() {
				So(eventIDs(d.Removed), ShouldResemble, []int{101})
			})
		})

		Convey("When one goal is swapped for another", func() {
			d := goals.Compare(set(101, 1), set(103, 1))

			Convey("Then both sides are reported", func() {
				So(eventIDs(d.Added), ShouldResemble, []int{103})
				So(eventIDs(d.Removed), ShouldResemble, []int{101})
			})
		})
	})
}
