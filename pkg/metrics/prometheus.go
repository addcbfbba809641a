package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes Prometheus counters and histograms for chart and
// transit calculations.
type Recorder struct {
	chartCalculations *prometheus.HistogramVec
	providerCalls     *prometheus.HistogramVec
	transitSearches   prometheus.Histogram
	transitEvents     prometheus.Counter
	failedBrackets    prometheus.Counter
	calculationErrors *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
}

// NewRecorder registers all collectors on the default registry.
func NewRecorder() *Recorder {
	return &Recorder{
		chartCalculations: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "astrochart_chart_calculation_seconds",
				Help:    "Natal chart calculation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"house_system"},
		),
		providerCalls: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "astrochart_provider_call_seconds",
				Help:    "Ephemeris provider call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "success"},
		),
		transitSearches: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "astrochart_transit_search_seconds",
				Help:    "Exact transit search latency in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
			},
		),
		transitEvents: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "astrochart_transit_events_total",
				Help: "Total exact transit events found",
			},
		),
		failedBrackets: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "astrochart_transit_failed_brackets_total",
				Help: "Total brackets where refinement did not converge",
			},
		),
		calculationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astrochart_calculation_errors_total",
				Help: "Total calculation errors by kind",
			},
			[]string{"kind"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astrochart_cache_lookups_total",
				Help: "Chart cache lookups by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (r *Recorder) ObserveChartCalculation(houseSystem string, d time.Duration) {
	r.chartCalculations.WithLabelValues(houseSystem).Observe(d.Seconds())
}

func (r *Recorder) ObserveProviderCall(provider string, success bool, d time.Duration) {
	r.providerCalls.WithLabelValues(provider, strconv.FormatBool(success)).Observe(d.Seconds())
}

func (r *Recorder) ObserveTransitSearch(events, failedBrackets int, d time.Duration) {
	r.transitSearches.Observe(d.Seconds())
	r.transitEvents.Add(float64(events))
	r.failedBrackets.Add(float64(failedBrackets))
}

func (r *Recorder) IncCalculationError(kind string) {
	r.calculationErrors.WithLabelValues(kind).Inc()
}

func (r *Recorder) IncCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheLookups.WithLabelValues(outcome).Inc()
}
