// Package observe carries computation and ingestion events out of the
// indicator pipeline without the pipeline knowing where they go.
package observe

import (
	"time"

	"CryptoLens/internal/model"
)

// Hook receives pipeline events. Implementations must be safe for
// concurrent use; refreshes for different symbols run in parallel.
type Hook interface {
	// SeriesComputed is called once per derived series (an MA line, the bull
	// band halves, the risk oscillator).
	SeriesComputed(name string, inputLen, outputLen int, elapsed time.Duration)
	// RiskDegraded is called when a symbol has too little history for the
	// full risk oscillator and the placeholder series is shown.
	RiskDegraded(symbol string, inputLen int)
	// FetchCompleted is called after every market data fetch, failed or not.
	FetchCompleted(symbol string, tf model.TimeFrame, candles int, elapsed time.Duration, err error)
	// PriceReceived is called for every live trade tick.
	PriceReceived(symbol string)
}

// Nop discards every event.
type Nop struct{}

func (Nop) SeriesComputed(string, int, int, time.Duration) {}

func (Nop) RiskDegraded(string, int) {}

func (Nop) FetchCompleted(string, model.TimeFrame, int, time.Duration, error) {}

func (Nop) PriceReceived(string) {}

type multi []Hook

// Multi fans every event out to all hooks in order.
func Multi(hooks ...Hook) Hook {
	flat := make(multi, 0, len(hooks))
	for _, h := range hooks {
		if h == nil {
			continue
		}
		if m, ok := h.(multi); ok {
			flat = append(flat, m...)
			continue
		}
		flat = append(flat, h)
	}
	return flat
}

func (m multi) SeriesComputed(name string, inputLen, outputLen int, elapsed time.Duration) {
	for _, h := range m {
		h.SeriesComputed(name, inputLen, outputLen, elapsed)
	}
}

func (m multi) RiskDegraded(symbol string, inputLen int) {
	for _, h := range m {
		h.RiskDegraded(symbol, inputLen)
	}
}

func (m multi) FetchCompleted(symbol string, tf model.TimeFrame, candles int, elapsed time.Duration, err error) {
	for _, h := range m {
		h.FetchCompleted(symbol, tf, candles, elapsed, err)
	}
}

func (m multi) PriceReceived(symbol string) {
	for _, h := range m {
		h.PriceReceived(symbol)
	}
}
