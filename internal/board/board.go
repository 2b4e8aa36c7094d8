// Package board holds the latest published chart and live price per symbol.
package board

import (
	"errors"
	"sort"
	"sync"

	"CryptoLens/internal/model"
)

var ErrUnknownSymbol = errors.New("unknown symbol")

// Ticket identifies one computation for a symbol. Only the most recently
// issued ticket of a symbol may publish.
type Ticket struct {
	Symbol string
	seq    uint64
}

// Board is safe for concurrent use.
type Board struct {
	mu      sync.RWMutex
	symbols map[string]struct{}
	issued  map[string]uint64
	charts  map[string]*model.Chart
	prices  map[string]model.PriceTick
}

// New creates a board tracking the given symbols.
func New(symbols ...string) *Board {
	b := &Board{
		symbols: make(map[string]struct{}, len(symbols)),
		issued:  make(map[string]uint64, len(symbols)),
		charts:  make(map[string]*model.Chart, len(symbols)),
		prices:  make(map[string]model.PriceTick, len(symbols)),
	}
	for _, s := range symbols {
		b.symbols[s] = struct{}{}
	}
	return b
}

// Symbols returns the tracked symbols in sorted order.
func (b *Board) Symbols() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.symbols))
	for s := range b.symbols {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (b *Board) Has(symbol string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.symbols[symbol]
	return ok
}

// Begin issues a new ticket for symbol, superseding every earlier one.
func (b *Board) Begin(symbol string) Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued[symbol]++
	return Ticket{Symbol: symbol, seq: b.issued[symbol]}
}

// Publish stores chart if t is still the latest ticket for its symbol and
// reports whether it did. Results of superseded computations are dropped.
func (b *Board) Publish(t Ticket, chart *model.Chart) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.symbols[t.Symbol]; !ok {
		return false
	}
	if t.seq == 0 || b.issued[t.Symbol] != t.seq {
		return false
	}
	b.charts[t.Symbol] = chart
	return true
}

// Chart returns the latest published chart for symbol. The chart is
// nil when the symbol is tracked but nothing was published yet.
func (b *Board) Chart(symbol string) (*model.Chart, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, ok := b.symbols[symbol]; !ok {
		return nil, ErrUnknownSymbol
	}
	return b.charts[symbol], nil
}

// Charts returns every published chart ordered by symbol.
func (b *Board) Charts() []*model.Chart {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*model.Chart, 0, len(b.charts))
	for _, c := range b.charts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// SetPrice records a live tick. Ticks older than the stored one are ignored.
func (b *Board) SetPrice(tick model.PriceTick) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.symbols[tick.Symbol]; !ok {
		return ErrUnknownSymbol
	}
	if prev, ok := b.prices[tick.Symbol]; ok && tick.Time < prev.Time {
		return nil
	}
	b.prices[tick.Symbol] = tick
	return nil
}

// Price returns the latest tick for symbol.
func (b *Board) Price(symbol string) (model.PriceTick, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	tick, ok := b.prices[symbol]
	return tick, ok
}

// Prices returns a copy of the latest tick per symbol.
func (b *Board) Prices() map[string]model.PriceTick {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]model.PriceTick, len(b.prices))
	for s, p := range b.prices {
		out[s] = p
	}
	return out
}
