package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "liftmotor")
				So(manager.subsystem, ShouldEqual, "selector")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.queries.WithLabelValues("gearless", "ok").Inc()

			Convey("Then metric names and labels follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() != "test_namespace_test_subsystem_queries_total" {
						continue
					}
					found = true
					labels := mf.GetMetric()[0].GetLabel()
					var env string
					for _, l := range labels {
						if l.GetName() == "env" {
							env = l.GetValue()
						}
					}
					So(env, ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})
		})

		Convey("When empty option values are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "liftmotor")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.constLabels, ShouldBeNil)
			})
		})
	})
}

func TestSelectionMetrics(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording query outcomes", func() {
			before := testutil.ToFloat64(globalManager.queries.WithLabelValues("geared", "no_matches"))
			RecordQuery("geared", "no_matches")
			RecordQuery("geared", "no_matches")

			Convey("Then the counter grows per call", func() {
				after := testutil.ToFloat64(globalManager.queries.WithLabelValues("geared", "no_matches"))
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When recording catalog state", func() {
			UpdateCatalogRows("gearless", 42)
			UpdateCatalogAvailable("gearless", true)
			UpdateCatalogAvailable("geared", false)

			Convey("Then the gauges hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.catalogRows.WithLabelValues("gearless")), ShouldEqual, 42)
				So(testutil.ToFloat64(globalManager.catalogAvailable.WithLabelValues("gearless")), ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.catalogAvailable.WithLabelValues("geared")), ShouldEqual, 0)
			})
		})

		Convey("When recording rejections and refusals", func() {
			rejBefore := testutil.ToFloat64(globalManager.motorsRejected.WithLabelValues("gearless", "speed"))
			limBefore := testutil.ToFloat64(globalManager.rateLimited)
			invBefore := testutil.ToFloat64(globalManager.invalidQueries)
			RecordMotorRejected("gearless", "speed")
			RecordRateLimited()
			RecordInvalidQuery()

			Convey("Then each counter moves by one", func() {
				So(testutil.ToFloat64(globalManager.motorsRejected.WithLabelValues("gearless", "speed"))-rejBefore, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.rateLimited)-limBefore, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.invalidQueries)-invBefore, ShouldEqual, 1)
			})
		})

		Convey("When observing histograms", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordQueryLatency(1.5)
					RecordMotorsMatched("gearless", 3)
					RecordCatalogLoadError("geared")
					RecordCatalogLoadLatency(12)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestHTTPAndSystemMetrics(t *testing.T) {
	Convey("Given HTTP and system metrics", t, func() {
		RecordHTTPRequest("/select", "POST", "200")
		RecordHTTPRequestDuration("/select", "POST", "200", 3.2)
		RecordErrorByEndpoint("/select", "POST", "bad_request")
		RecordErrorByType("bad_request", "warning")
		RecordErrorLatency("http", "bad_request", 0.4)
		UpdateSystemMemoryUsage(1 << 20)
		UpdateSystemGoroutineCount(8)

		Convey("Then the exposition on the custom registry includes them", func() {
			expected := `
# HELP liftmotor_selector_system_goroutines Number of goroutines
# TYPE liftmotor_selector_system_goroutines gauge
liftmotor_selector_system_goroutines 8
`
			err := testutil.GatherAndCompare(GetRegistry(), strings.NewReader(expected),
				"liftmotor_selector_system_goroutines")
			So(err, ShouldBeNil)
			So(testutil.ToFloat64(globalManager.systemMemoryUsage), ShouldEqual, 1<<20)
			So(testutil.CollectAndCount(globalManager.httpRequests), ShouldBeGreaterThan, 0)
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		before := GetRegistry()
		defer Configure()

		Convey("When they are reconfigured", func() {
			Configure(WithNamespace("plant"), WithConstLabels(map[string]string{"site": "north"}))
			RecordInvalidQuery()

			Convey("Then a fresh registry carries the new names", func() {
				So(GetRegistry() != before, ShouldBeTrue)
				So(testutil.ToFloat64(globalManager.invalidQueries), ShouldEqual, 1)

				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, mf := range families {
					if mf.GetName() == "plant_selector_invalid_queries_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
