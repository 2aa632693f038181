package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	service "github.com/okian/pvsa/internal/app"
	"github.com/okian/pvsa/internal/domain/classify"
	"github.com/okian/pvsa/internal/domain/model"
	"github.com/okian/pvsa/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

type memSource struct {
	mu   sync.Mutex
	text string
	err  error
}

func (m *memSource) Name() string { return "memory" }

func (m *memSource) Fetch(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.err
}

const sheet = "Timestamp,Date,Email,Name and ID,a,b,c,Activity\n" +
	"t,1/15/2025,jane@x,Jane Doe 123,,,,Charity event\n" +
	"t,1/15/2025,jane@x,Jane Doe 123,,,,Charity event\n" +
	"t,2/1/2025,jane@x,Jane Doe 123,,,,Team meeting\n" +
	"t,6/1/2024,jane@x,Jane Doe 123,,,,Tutoring (10 hours)\n" +
	"t,2/2/2025,john@x,John Roe 456,,,,Instagram repost\n"

var now = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func newService(src *memSource, opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithSource(src),
		service.WithClock(clock),
		service.WithRefreshInterval(0),
	}, opts...)
	return service.New(opts...)
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a service with a source", t, func() {
		svc := newService(&memSource{text: sheet})

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then it should start and load the sheet", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["rows"], ShouldEqual, 6)
				So(stats["source"], ShouldEqual, "memory")
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a service without a source", t, func() {
		svc := service.New()

		Convey("Then Start and Refresh fail", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoSource), ShouldBeTrue)
			So(errors.Is(svc.Refresh(context.Background()), service.ErrNoSource), ShouldBeTrue)
		})
	})
}

func TestService_Lookup(t *testing.T) {
	Convey("Given a loaded service", t, func() {
		ctx := context.Background()
		svc := newService(&memSource{text: sheet})
		So(svc.Refresh(ctx), ShouldBeNil)

		Convey("When looking up by name and id", func() {
			res, err := svc.Lookup(ctx, model.Query{Name: "jane doe", ID: "123"})

			Convey("Then the breakdown covers every matched row", func() {
				So(err, ShouldBeNil)
				So(res.Found, ShouldBeTrue)
				So(res.MatchCount, ShouldEqual, 4)
				So(res.Breakdown.TotalHours, ShouldEqual, 15)
				So(res.Breakdown.AnnualHours, ShouldEqual, 5)
				So(res.Breakdown.DateGroups[0].RawDate, ShouldEqual, "2/1/2025")
				So(res.Eligibility, ShouldBeNil)
			})
		})

		Convey("When a birthdate is supplied", func() {
			res, err := svc.Lookup(ctx, model.Query{Name: "Jane Doe", ID: "123", Birthdate: "01/01/2012"})

			Convey("Then eligibility is evaluated on annual hours", func() {
				So(err, ShouldBeNil)
				So(res.Eligibility, ShouldNotBeNil)
				So(res.Eligibility.Eligible, ShouldBeFalse)
				So(res.Eligibility.AgeGroup, ShouldEqual, "Teens (11-15)")
				So(res.Eligibility.Reason, ShouldEqual, "Insufficient volunteer hours (5). Minimum required: 50")
			})
		})

		Convey("When nothing matches", func() {
			res, err := svc.Lookup(ctx, model.Query{ID: "999"})

			Convey("Then Found is false without an error", func() {
				So(err, ShouldBeNil)
				So(res.Found, ShouldBeFalse)
				So(res.MatchCount, ShouldEqual, 0)
			})
		})

		Convey("When the query is blank", func() {
			_, err := svc.Lookup(ctx, model.Query{Name: "  ", Birthdate: "01/01/2012"})
			So(errors.Is(err, service.ErrMissingQuery), ShouldBeTrue)
		})
	})

	Convey("Given a service whose first load failed", t, func() {
		ctx := context.Background()
		svc := newService(&memSource{err: errors.New("offline")})
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then lookups report not ready", func() {
			_, err := svc.Lookup(ctx, model.Query{Name: "Jane"})
			So(errors.Is(err, service.ErrNotReady), ShouldBeTrue)
		})
	})

	Convey("Given overridden category hours", t, func() {
		ctx := context.Background()
		svc := newService(&memSource{text: sheet},
			service.WithCategoryHours(map[string]float64{classify.CategoryEvent: 3}))
		So(svc.Refresh(ctx), ShouldBeNil)

		Convey("Then aggregation uses them", func() {
			res, err := svc.Lookup(ctx, model.Query{ID: "123"})
			So(err, ShouldBeNil)
			So(res.Breakdown.AnnualHours, ShouldEqual, 7)
		})
	})
}

func TestService_Eligibility(t *testing.T) {
	Convey("Given a service clocked on March 1, 2025", t, func() {
		svc := newService(&memSource{})

		Convey("Then a young adult with 180 hours earns Silver", func() {
			e := svc.Eligibility("01/06/2005", 180)
			So(e, ShouldResemble, model.Eligibility{
				Eligible: true, AgeGroup: "Young Adults (16-25)", Award: model.AwardSilver,
			})
		})

		Convey("And an invalid birthdate is rejected", func() {
			e := svc.Eligibility("not a date", 500)
			So(e.Eligible, ShouldBeFalse)
			So(e.Reason, ShouldEqual, "Valid birthdate is required")
		})
	})
}

func TestService_Period(t *testing.T) {
	Convey("Given a service clocked before the window", t, func() {
		info := newService(&memSource{}).Period()

		Convey("Then the countdown targets September 1", func() {
			So(info.Period.Status, ShouldEqual, model.PeriodBefore)
			So(info.Period.TargetDate, ShouldEqual, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))
			So(info.Remaining.Days, ShouldEqual, 183)
			So(info.Remaining.Hours, ShouldEqual, 12)
			So(info.ProgramYear.Start, ShouldEqual, time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC))
			So(info.Cutoff, ShouldEqual, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC))
		})
	})
}
