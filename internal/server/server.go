// Package server exposes charts, live prices and controls over HTTP for the
// dashboard widget.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"CryptoLens/internal/model"
)

// Charts is the read side the handlers serve from.
type Charts interface {
	Symbols() []string
	Chart(symbol string) (*model.Chart, error)
	Charts() []*model.Chart
	Prices() map[string]model.PriceTick
}

// Controls is the write side: switching timeframes and indicator selection.
type Controls interface {
	TimeFrame(symbol string) (model.TimeFrame, error)
	SetTimeFrame(ctx context.Context, symbol string, tf model.TimeFrame) error
	Settings() model.IndicatorSettings
	SetSettings(ctx context.Context, settings model.IndicatorSettings) error
}

type Server struct {
	srv *http.Server
}

type options struct {
	gatherer prometheus.Gatherer
}

type Option func(*options)

// WithGatherer serves /metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(o *options) { o.gatherer = g }
}

func New(ctx context.Context, address string, charts Charts, controls Controls, opts ...Option) *Server {
	o := options{gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(&o)
	}

	return &Server{
		srv: &http.Server{
			Addr:              address,
			Handler:           NewHandler(ctx, charts, controls, o.gatherer),
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       1 * time.Minute,
			WriteTimeout:      5 * time.Minute,
			MaxHeaderBytes:    16 * 1024, // 16KiB
			BaseContext: func(net.Listener) context.Context {
				return ctx
			},
		},
	}
}

// NewHandler builds the routing table.
func NewHandler(ctx context.Context, charts Charts, controls Controls, gatherer prometheus.Gatherer) http.Handler {
	h := &handler{charts: charts, controls: controls}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/charts", h.listCharts)
	mux.HandleFunc("GET /api/charts/{symbol}", h.getChart)
	mux.HandleFunc("PUT /api/charts/{symbol}/timeframe", h.putTimeFrame)
	mux.HandleFunc("GET /api/settings", h.getSettings)
	mux.HandleFunc("PUT /api/settings", h.putSettings)
	mux.HandleFunc("GET /api/prices", h.getPrices)
	mux.HandleFunc("GET /api/risk/bands", h.getRiskBands)

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Liveliness and readiness probes
	mux.HandleFunc("/healthz", healthZHandleFunc())
	mux.HandleFunc("/readyz", readyZHandleFunc(ctx, charts))
	return mux
}

func (s *Server) Serve(l net.Listener) error {
	return s.srv.Serve(l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

var (
	statusHealthy    = []byte(`{"status":"HEALTHY"}`)
	statusNotServing = []byte(`{"status":"NOT_SERVING"}`)
	statusServing    = []byte(`{"status":"SERVING"}`)
)

// readyZHandleFunc reports serving once every symbol has a published chart.
func readyZHandleFunc(ctx context.Context, charts Charts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		if ctx.Err() != nil || len(charts.Charts()) < len(charts.Symbols()) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write(statusNotServing)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(statusServing)
	}
}

func healthZHandleFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(statusHealthy)
	}
}
