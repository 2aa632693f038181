package refresh_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	"github.com/okian/pvsa/internal/adapters/refresh"
	"github.com/okian/pvsa/internal/adapters/repository"
	"github.com/okian/pvsa/pkg/logger"
)

func init() {
	_ = logger.Init()
}

type countingLoader struct {
	calls atomic.Int32
	fail  atomic.Bool
	seen  chan struct{}
}

func newCountingLoader() *countingLoader {
	return &countingLoader{seen: make(chan struct{}, 16)}
}

func (l *countingLoader) Load(context.Context) (*repository.Snapshot, error) {
	l.calls.Add(1)
	defer func() {
		select {
		case l.seen <- struct{}{}:
		default:
		}
	}()
	if l.fail.Load() {
		return nil, errors.New("fetch failed")
	}
	return &repository.Snapshot{}, nil
}

func (l *countingLoader) wait(t *testing.T) bool {
	t.Helper()
	select {
	case <-l.seen:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestRefresher(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a refresher with a trigger and no interval", t, func() {
		loader := newCountingLoader()
		trigger := make(chan struct{})
		r := refresh.New(loader, refresh.WithInterval(0), refresh.WithTrigger(trigger), refresh.WithName("test"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go r.Run(ctx)

		convey.Convey("When the trigger fires", func() {
			trigger <- struct{}{}

			convey.Convey("Then the loader runs once", func() {
				convey.So(loader.wait(t), convey.ShouldBeTrue)
				convey.So(loader.calls.Load(), convey.ShouldEqual, 1)
				convey.So(r.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})

		convey.Convey("When a reload fails", func() {
			loader.fail.Store(true)
			trigger <- struct{}{}

			convey.Convey("Then the failure is counted and the loop keeps running", func() {
				convey.So(loader.wait(t), convey.ShouldBeTrue)
				trigger <- struct{}{}
				convey.So(loader.wait(t), convey.ShouldBeTrue)
				convey.So(r.Shutdown(context.Background()), convey.ShouldBeNil)
				reloads, failures := r.Stats()
				convey.So(reloads, convey.ShouldEqual, 2)
				convey.So(failures, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the trigger is closed", func() {
			close(trigger)

			convey.Convey("Then Run returns on its own", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				convey.So(r.Shutdown(ctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestRefresherInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a refresher with a short interval", t, func() {
		loader := newCountingLoader()
		r := refresh.New(loader, refresh.WithInterval(5*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		go r.Run(ctx)

		convey.Convey("Then it reloads periodically until canceled", func() {
			convey.So(loader.wait(t), convey.ShouldBeTrue)
			convey.So(loader.wait(t), convey.ShouldBeTrue)
			cancel()
			convey.So(r.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})
}

func TestRefresherShutdownBeforeRun(t *testing.T) {
	convey.Convey("Given a refresher that never ran", t, func() {
		r := refresh.New(newCountingLoader())

		convey.Convey("Then Shutdown returns immediately and is idempotent", func() {
			convey.So(r.Shutdown(context.Background()), convey.ShouldBeNil)
			convey.So(r.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})
}
