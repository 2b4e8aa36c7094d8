package observe

import (
	"log/slog"
	"time"

	"CryptoLens/internal/model"
)

// LogHook writes events to a slog logger. Per-series and per-tick events
// are logged at debug level.
type LogHook struct {
	logger *slog.Logger
}

func NewLogHook(logger *slog.Logger) *LogHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHook{logger: logger}
}

func (h *LogHook) SeriesComputed(name string, inputLen, outputLen int, elapsed time.Duration) {
	h.logger.Debug("series computed",
		"series", name,
		"input", inputLen,
		"output", outputLen,
		"elapsed", elapsed,
	)
}

func (h *LogHook) RiskDegraded(symbol string, inputLen int) {
	h.logger.Warn("insufficient history for risk oscillator, showing placeholder",
		"symbol", symbol,
		"candles", inputLen,
	)
}

func (h *LogHook) FetchCompleted(symbol string, tf model.TimeFrame, candles int, elapsed time.Duration, err error) {
	if err != nil {
		h.logger.Error("fetch failed",
			"symbol", symbol,
			"timeframe", tf,
			"elapsed", elapsed,
			"error", err,
		)
		return
	}
	h.logger.Info("fetch completed",
		"symbol", symbol,
		"timeframe", tf,
		"candles", candles,
		"elapsed", elapsed,
	)
}

func (h *LogHook) PriceReceived(symbol string) {
	h.logger.Debug("price received", "symbol", symbol)
}
