package aggregate_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/pvsa/internal/domain/aggregate"
	"github.com/okian/pvsa/internal/domain/classify"
	"github.com/okian/pvsa/internal/domain/model"
	"github.com/okian/pvsa/internal/domain/records"
	. "github.com/smartystreets/goconvey/convey"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func row(date, desc string) string {
	return "ts," + date + ",email,Jane Doe 123,x,y,z," + desc
}

func TestAggregateSingleMeeting(t *testing.T) {
	Convey("Given one meeting row inside the program year", t, func() {
		now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
		agg := aggregate.New(aggregate.WithClock(fixedClock(now)))
		rows := records.ParseRows(row("3/5/2024", "Team meeting"))

		got := agg.Aggregate(rows)

		Convey("Then one group with one meeting hour is returned", func() {
			want := model.Breakdown{
				DateGroups: []model.DateGroup{{
					RawDate:     "3/5/2024",
					DisplayDate: "Mar 5, 2024",
					HourDetails: []model.HourDetail{{Category: classify.CategoryMeeting, Hours: 1, Count: 1}},
				}},
				TotalHours:  1,
				AnnualHours: 1,
			}
			So(cmp.Diff(want, got), ShouldBeEmpty)
		})
	})
}

func TestAggregateOrdering(t *testing.T) {
	Convey("Given rows across several dates", t, func() {
		now := time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)
		agg := aggregate.New(aggregate.WithClock(fixedClock(now)))
		text := row("12/15/2024", "Instagram repost") + "\n" +
			row("1/2/2025", "Charity event") + "\n" +
			row("1/2/2025", "Weekly meeting") + "\n" +
			row("1/2/2025", "Charity event") + "\n" +
			row("sometime", "Board meeting") + "\n" +
			row("", "Tutoring (3 hours)")

		got := agg.Aggregate(records.ParseRows(text))

		Convey("Then newer dates come first and unparseable ones last", func() {
			var order []string
			for _, g := range got.DateGroups {
				order = append(order, g.RawDate)
			}
			So(order, ShouldResemble, []string{"1/2/2025", "12/15/2024", "sometime", aggregate.UnknownDate})
			So(got.DateGroups[2].DisplayDate, ShouldEqual, "sometime")
		})

		Convey("And categories within a date are sorted by hours", func() {
			details := got.DateGroups[0].HourDetails
			So(details, ShouldResemble, []model.HourDetail{
				{Category: classify.CategoryEvent, Hours: 4, Count: 2},
				{Category: classify.CategoryMeeting, Hours: 1, Count: 1},
			})
		})

		Convey("And unparseable dates count only toward the total", func() {
			So(got.TotalHours, ShouldEqual, 0.5+4+1+1+3)
			So(got.AnnualHours, ShouldEqual, 0.5+4+1)
		})
	})
}

func TestAggregateSkips(t *testing.T) {
	Convey("Given short rows and zero-hour descriptions", t, func() {
		agg := aggregate.New()
		text := "a,b,c\n" + row("1/1/2024", "Said hello")

		got := agg.Aggregate(records.ParseRows(text))

		Convey("Then nothing is counted", func() {
			So(got.DateGroups, ShouldBeEmpty)
			So(got.TotalHours, ShouldEqual, 0)
		})
	})

	Convey("Given an activity outside the program year", t, func() {
		now := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
		agg := aggregate.New(aggregate.WithClock(fixedClock(now)))

		got := agg.Aggregate(records.ParseRows(row("08/31/2024", "Food drive event")))

		Convey("Then it counts toward the total only", func() {
			So(got.TotalHours, ShouldEqual, 2)
			So(got.AnnualHours, ShouldEqual, 0)
		})
	})

	Convey("Given a classifier with overridden hours", t, func() {
		c := classify.New(classify.WithCategoryHours(map[string]float64{classify.CategoryMeeting: 1.5}))
		agg := aggregate.New(aggregate.WithClassifier(c))

		got := agg.Aggregate(records.ParseRows(row("1/1/2024", "meeting")))

		So(got.TotalHours, ShouldEqual, 1.5)
	})
}

func TestParseActivityDate(t *testing.T) {
	Convey("Given activity date strings", t, func() {
		Convey("Then a timestamped date keeps its calendar day", func() {
			d, ok := aggregate.ParseActivityDate("3/5/2024 14:22:01", time.UTC)
			So(ok, ShouldBeTrue)
			So(d, ShouldEqual, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
		})

		Convey("And an overflowing day rolls into the next month", func() {
			d, ok := aggregate.ParseActivityDate("2/30/2024", time.UTC)
			So(ok, ShouldBeTrue)
			So(d, ShouldEqual, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
		})

		Convey("And malformed strings are rejected", func() {
			_, ok := aggregate.ParseActivityDate("2024-03-05", time.UTC)
			So(ok, ShouldBeFalse)
			_, ok = aggregate.ParseActivityDate("a/b/c", time.UTC)
			So(ok, ShouldBeFalse)
		})
	})
}
