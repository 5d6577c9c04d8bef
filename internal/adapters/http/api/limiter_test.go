package api

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIPRateLimiterEviction(t *testing.T) {
	Convey("Given a limiter with a controllable clock", t, func() {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		l := NewIPRateLimiter(1, 5)
		l.now = func() time.Time { return now }

		So(l.Allow("198.51.100.1"), ShouldBeTrue)
		So(l.Allow("198.51.100.2"), ShouldBeTrue)
		So(l.Len(), ShouldEqual, 2)

		Convey("When both clients stay quiet past the idle period", func() {
			now = now.Add(l.idle + time.Second)

			Convey("Then a sweep drops them", func() {
				So(l.Sweep(), ShouldEqual, 2)
				So(l.Len(), ShouldEqual, 0)
			})
		})

		Convey("When one client keeps sending", func() {
			now = now.Add(l.idle / 2)
			l.Allow("198.51.100.1")
			now = now.Add(l.idle/2 + time.Second)

			Convey("Then only the quiet one is dropped", func() {
				So(l.Sweep(), ShouldEqual, 1)
				So(l.Len(), ShouldEqual, 1)
			})
		})

		Convey("When a sweep runs before the idle period ends", func() {
			now = now.Add(l.idle - time.Second)

			Convey("Then nothing is dropped", func() {
				So(l.Sweep(), ShouldEqual, 0)
				So(l.Len(), ShouldEqual, 2)
			})
		})
	})

	Convey("Given limiters with different refill times", t, func() {
		Convey("Then the idle period covers a full refill within bounds", func() {
			So(NewIPRateLimiter(20, 40).idle, ShouldEqual, minLimiterIdle)
			So(NewIPRateLimiter(0.5, 100).idle, ShouldEqual, 200*time.Second)
			So(NewIPRateLimiter(1e-12, 1).idle, ShouldEqual, maxLimiterIdle)
		})
	})

	Convey("Given a running sweeper", t, func() {
		l := NewIPRateLimiter(1, 1)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			l.Run(ctx)
			close(done)
		}()

		Convey("When its context is cancelled", func() {
			cancel()

			Convey("Then it stops", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					So("sweeper still running", ShouldBeEmpty)
				}
			})
		})
	})
}
