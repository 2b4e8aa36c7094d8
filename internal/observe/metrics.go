package observe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"CryptoLens/internal/model"
)

// Metrics exports pipeline events as Prometheus series.
type Metrics struct {
	SeriesTotal     *prometheus.CounterVec   // labels: series
	SeriesDuration  *prometheus.HistogramVec // labels: series
	SeriesPoints    *prometheus.GaugeVec     // labels: series
	RiskDegradedCnt *prometheus.CounterVec   // labels: symbol
	FetchTotal      *prometheus.CounterVec   // labels: symbol, timeframe, result
	FetchDuration   *prometheus.HistogramVec // labels: symbol
	FetchCandles    *prometheus.GaugeVec     // labels: symbol, timeframe
	PricesTotal     *prometheus.CounterVec   // labels: symbol
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg registers with the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		SeriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptolens_series_computed_total",
			Help: "Derived series computed (by series name)",
		}, []string{"series"}),
		SeriesDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cryptolens_series_compute_duration_seconds",
			Help:    "Time spent computing one derived series",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"series"}),
		SeriesPoints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cryptolens_series_points",
			Help: "Number of points in the last computed series",
		}, []string{"series"}),
		RiskDegradedCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptolens_risk_degraded_total",
			Help: "Risk computations that fell back to the placeholder series",
		}, []string{"symbol"}),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptolens_fetch_total",
			Help: "Market data fetches (result=ok|error)",
		}, []string{"symbol", "timeframe", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cryptolens_fetch_duration_seconds",
			Help:    "Market data fetch latency including pagination",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"symbol"}),
		FetchCandles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cryptolens_fetch_candles",
			Help: "Candles returned by the last successful fetch",
		}, []string{"symbol", "timeframe"}),
		PricesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptolens_prices_received_total",
			Help: "Live trade ticks received",
		}, []string{"symbol"}),
	}

	reg.MustRegister(
		m.SeriesTotal,
		m.SeriesDuration,
		m.SeriesPoints,
		m.RiskDegradedCnt,
		m.FetchTotal,
		m.FetchDuration,
		m.FetchCandles,
		m.PricesTotal,
	)
	return m
}

func (m *Metrics) SeriesComputed(name string, _, outputLen int, elapsed time.Duration) {
	m.SeriesTotal.WithLabelValues(name).Inc()
	m.SeriesDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	m.SeriesPoints.WithLabelValues(name).Set(float64(outputLen))
}

func (m *Metrics) RiskDegraded(symbol string, _ int) {
	m.RiskDegradedCnt.WithLabelValues(symbol).Inc()
}

func (m *Metrics) FetchCompleted(symbol string, tf model.TimeFrame, candles int, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FetchTotal.WithLabelValues(symbol, tf.String(), result).Inc()
	m.FetchDuration.WithLabelValues(symbol).Observe(elapsed.Seconds())
	if err == nil {
		m.FetchCandles.WithLabelValues(symbol, tf.String()).Set(float64(candles))
	}
}

func (m *Metrics) PriceReceived(symbol string) {
	m.PricesTotal.WithLabelValues(symbol).Inc()
}
