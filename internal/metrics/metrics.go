// Package metrics exposes Prometheus instruments for the fuel ledger.
//
// Instruments are registered once by Init. The Observe and Inc helpers are
// no-ops until then, so services and tests can call them unconditionally.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "fleetfuel_"

	ResultSuccess   = "success"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
)

var (
	registerOnce sync.Once

	slipsCreated   *prometheus.CounterVec
	slipsFinalized *prometheus.CounterVec

	closeTotal   *prometheus.CounterVec
	closeLatency *prometheus.HistogramVec

	exportTotal *prometheus.CounterVec
)

// Init registers the instruments with the default registry.
func Init() {
	registerOnce.Do(func() {
		slipsCreated = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "slips_created_total",
				Help: "Fuel slips created by origin",
			},
			[]string{"origin"},
		)
		slipsFinalized = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "slips_finalized_total",
				Help: "Fuel slips finalized by path",
			},
			[]string{"path"},
		)
		closeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "month_close_total",
				Help: "Month close operations by result",
			},
			[]string{"result"},
		)
		closeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "month_close_latency_seconds",
				Help:    "Month close latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_export_total",
				Help: "Statement exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(slipsCreated, slipsFinalized, closeTotal, closeLatency, exportTotal)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func AddSlipsCreated(origin string, n int) {
	if slipsCreated != nil && n > 0 {
		slipsCreated.WithLabelValues(origin).Add(float64(n))
	}
}

func AddSlipsFinalized(path string, n int) {
	if slipsFinalized != nil && n > 0 {
		slipsFinalized.WithLabelValues(path).Add(float64(n))
	}
}

func ObserveClose(result string, duration time.Duration) {
	if closeTotal != nil {
		closeTotal.WithLabelValues(result).Inc()
	}

	if closeLatency != nil {
		closeLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

func IncExport(format, result string) {
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}
