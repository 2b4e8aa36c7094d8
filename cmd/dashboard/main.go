package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"CryptoLens/internal/board"
	"CryptoLens/internal/collector"
	"CryptoLens/internal/config"
	"CryptoLens/internal/feed"
	"CryptoLens/internal/model"
	"CryptoLens/internal/observe"
	"CryptoLens/internal/overlay"
	"CryptoLens/internal/scheduler"
	"CryptoLens/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(nil, config.Path())
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.ErrorContext(ctx, "invalid config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()

	// set global logger with custom options
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
		}),
	))
	slog.Info("CryptoLens starting", "symbols", cfg.Symbols, "timeframe", cfg.TimeFrame)

	hook := observe.Multi(observe.NewLogHook(slog.Default()), observe.NewMetrics(nil))

	fetcher := newFetcher(cfg)
	slog.Info("data source", "fetcher", fetcher.Name())

	b := board.New(cfg.Symbols...)
	col := collector.NewCollector(fetcher, overlay.NewBuilder(hook), hook)
	sched := scheduler.NewScheduler(col, b, cfg.DefaultTimeFrame(), cfg.Settings())
	if err := sched.Register(ctx, cfg.Schedule.RefreshCron); err != nil {
		slog.Error("failed to register refresh task", "error", err)
		os.Exit(1)
	}
	if !cfg.Feed.Disabled {
		if err := sched.RegisterPriceReport(cfg.Schedule.PricesCron); err != nil {
			slog.Error("failed to register price report", "error", err)
			os.Exit(1)
		}
	}
	sched.Start()
	defer sched.Stop()

	if !cfg.Feed.Disabled {
		session := feed.NewSession(cfg.Feed.URL, cfg.Symbols, func(tick model.PriceTick) {
			if err := b.SetPrice(tick); err != nil {
				slog.Debug("ignoring tick", "symbol", tick.Symbol, "error", err)
			}
		})
		session.Hook = hook
		if err := session.Open(ctx); err != nil {
			slog.Error("failed to open feed session", "error", err)
			os.Exit(1)
		}
		defer session.Close()
	}

	srv := server.New(ctx, cfg.Server.Addr, b, sched)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := sched.RefreshAll(gCtx); err != nil {
			slog.Warn("initial refresh incomplete", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.InfoContext(ctx, "starting server", "listen_address", cfg.Server.Addr)
		if err := runHttpServer(ctx, cfg.Server.Addr, srv); err != nil {
			slog.ErrorContext(ctx, "failed to start server", "error", err)
			cancel()
			return err
		}
		return nil
	})

	// Handle graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("shutting down server gracefully")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server terminated", "err", err)
	}
	slog.Info("CryptoLens stopped")
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.Source.Kind {
	case "file":
		return collector.NewFileFetcher(nil, cfg.Source.DataDir)
	case "mock":
		return &collector.MockFetcher{Price: cfg.Source.MockPrice, Count: cfg.Source.MockCount}
	default:
		f := collector.NewBinanceFetcher(cfg.Source.BaseURL, cfg.Proxy)
		f.Start = cfg.HistoryStart()
		f.PageDelay = cfg.Source.PageDelay
		return f
	}
}

func runHttpServer(ctx context.Context, listenAddress string, srv *server.Server) error {
	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return err
	}

	err = srv.Serve(lis)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
