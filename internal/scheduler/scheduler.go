package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"CryptoLens/internal/board"
	"CryptoLens/internal/collector"
	"CryptoLens/internal/model"
	"CryptoLens/internal/report"
)

// Scheduler owns the active timeframe per symbol and the active indicator
// selection, and recomputes charts on a cron schedule or on demand.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Board     *board.Board
	Logger    *slog.Logger

	mu         sync.RWMutex
	timeframes map[string]model.TimeFrame
	settings   model.IndicatorSettings
}

// NewScheduler creates a Scheduler with every board symbol on tf.
func NewScheduler(col *collector.Collector, b *board.Board, tf model.TimeFrame, settings model.IndicatorSettings) *Scheduler {
	tfs := make(map[string]model.TimeFrame)
	for _, sym := range b.Symbols() {
		tfs[sym] = tf
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Collector:  col,
		Board:      b,
		Logger:     slog.Default(),
		timeframes: tfs,
		settings:   settings,
	}
}

// Register adds a cron entry that refreshes every symbol.
func (s *Scheduler) Register(ctx context.Context, spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() {
		if err := s.RefreshAll(ctx); err != nil {
			s.Logger.Error("scheduled refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// RegisterPriceReport adds a cron entry that logs the live prices.
func (s *Scheduler) RegisterPriceReport(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() {
		s.Logger.Info(report.FormatPrices(s.Board.Symbols(), s.Board.Prices()))
	}); err != nil {
		return fmt.Errorf("register price report: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", "entries", len(s.Cron.Entries()))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// TimeFrame returns the active timeframe of symbol.
func (s *Scheduler) TimeFrame(symbol string) (model.TimeFrame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tf, ok := s.timeframes[symbol]
	if !ok {
		return "", board.ErrUnknownSymbol
	}
	return tf, nil
}

// Settings returns the active indicator selection.
func (s *Scheduler) Settings() model.IndicatorSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetTimeFrame switches symbol to tf and recomputes its chart.
func (s *Scheduler) SetTimeFrame(ctx context.Context, symbol string, tf model.TimeFrame) error {
	if _, err := model.ParseTimeFrame(tf.String()); err != nil {
		return err
	}
	s.mu.Lock()
	if _, ok := s.timeframes[symbol]; !ok {
		s.mu.Unlock()
		return board.ErrUnknownSymbol
	}
	s.timeframes[symbol] = tf
	s.mu.Unlock()

	s.Logger.Info("timeframe changed", "symbol", symbol, "timeframe", tf)
	return s.Refresh(ctx, symbol)
}

// SetSettings replaces the indicator selection and recomputes every chart.
func (s *Scheduler) SetSettings(ctx context.Context, settings model.IndicatorSettings) error {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	s.Logger.Info("indicator settings changed", "settings", settings)
	return s.RefreshAll(ctx)
}

// RefreshAll recomputes every symbol concurrently. Every symbol is
// attempted; the first error is returned.
func (s *Scheduler) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	for _, sym := range s.Board.Symbols() {
		g.Go(func() error {
			return s.Refresh(ctx, sym)
		})
	}
	return g.Wait()
}

// Refresh recomputes one symbol and publishes the result unless a newer
// refresh for the same symbol started in the meantime.
func (s *Scheduler) Refresh(ctx context.Context, symbol string) error {
	ticket := s.Board.Begin(symbol)

	tf, err := s.TimeFrame(symbol)
	if err != nil {
		return err
	}
	settings := s.Settings()

	chart, err := s.Collector.Collect(ctx, symbol, tf, settings)
	if !s.Board.Publish(ticket, chart) {
		s.Logger.Debug("discarding superseded chart", "symbol", symbol, "timeframe", tf)
		return err
	}
	s.Logger.Info(report.FormatChart(chart))
	return err
}
