// Package feed streams live trade prices from the exchange websocket.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"CryptoLens/internal/model"
	"CryptoLens/internal/observe"
)

const (
	DefaultURL       = "wss://stream.binance.com:9443/ws"
	defaultMinRetry  = 2 * time.Second
	defaultMaxRetry  = 60 * time.Second
	subscribeRequest = 1
)

var ErrSessionOpen = errors.New("feed session already open")

// Handler receives every decoded trade tick. It is called from the session
// goroutine and must not block for long.
type Handler func(model.PriceTick)

// Session is one subscription to the trade streams of a set of symbols.
// It redials with exponential backoff until closed.
type Session struct {
	ID string

	Logger        *slog.Logger
	Hook          observe.Hook
	MinRetryDelay time.Duration
	MaxRetryDelay time.Duration

	url     string
	symbols []string
	handler Handler

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSession(url string, symbols []string, handler Handler) *Session {
	if url == "" {
		url = DefaultURL
	}
	return &Session{
		ID:            uuid.NewString(),
		Logger:        slog.Default(),
		Hook:          observe.Nop{},
		MinRetryDelay: defaultMinRetry,
		MaxRetryDelay: defaultMaxRetry,
		url:           url,
		symbols:       append([]string(nil), symbols...),
		handler:       handler,
	}
}

// Open starts the connection loop in the background. It returns
// ErrSessionOpen if the session is already running.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrSessionOpen
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.connectLoop(ctx, s.done)
	return nil
}

// Close stops the connection loop and waits for it to exit. Closing a
// session that is not open does nothing.
func (s *Session) Close() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func (s *Session) logger() *slog.Logger {
	return s.Logger.With("session", s.ID)
}

func (s *Session) connectLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	log := s.logger()
	retryDelay := s.MinRetryDelay

	for {
		subscribed, err := s.runConnection(ctx)
		if ctx.Err() != nil {
			log.Info("feed session closed")
			return
		}
		if subscribed {
			retryDelay = s.MinRetryDelay
		}
		log.Warn("feed connection lost, redialing",
			"error", err,
			"retry_in", retryDelay,
		)
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			log.Info("feed session closed")
			return
		}
		retryDelay = min(retryDelay*2, s.MaxRetryDelay)
	}
}

type subscribeMsg struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int      `json:"id"`
}

type tradeEvent struct {
	Event  string `json:"e"`
	Symbol string `json:"s"`
	Price  string `json:"p"`
	Time   int64  `json:"T"`
}

// runConnection dials once, subscribes and reads until the connection
// fails or ctx is cancelled. subscribed reports whether the subscription
// request went out.
func (s *Session) runConnection(ctx context.Context) (subscribed bool, err error) {
	conn, _, err := websocket.Dial(ctx, s.url, nil)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.CloseNow()

	streams := make([]string, 0, len(s.symbols))
	for _, sym := range s.symbols {
		streams = append(streams, strings.ToLower(sym)+"@trade")
	}
	if err := wsjson.Write(ctx, conn, subscribeMsg{Method: "SUBSCRIBE", Params: streams, ID: subscribeRequest}); err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}
	s.logger().Info("feed subscribed", "streams", streams)

	for {
		var raw json.RawMessage
		if err := wsjson.Read(ctx, conn, &raw); err != nil {
			if ctx.Err() != nil {
				conn.Close(websocket.StatusNormalClosure, "")
				return true, nil
			}
			return true, fmt.Errorf("read: %w", err)
		}
		s.handleMessage(raw)
	}
}

func (s *Session) handleMessage(raw json.RawMessage) {
	tick, ok, err := decodeTrade(raw)
	if err != nil {
		s.logger().Debug("skipping malformed trade", "error", err)
		return
	}
	if !ok {
		return
	}
	s.Hook.PriceReceived(tick.Symbol)
	if s.handler != nil {
		s.handler(tick)
	}
}

// decodeTrade returns ok=false for anything that is not a trade event,
// such as subscription acknowledgements.
func decodeTrade(raw []byte) (model.PriceTick, bool, error) {
	var ev tradeEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return model.PriceTick{}, false, err
	}
	if ev.Event != "trade" {
		return model.PriceTick{}, false, nil
	}
	price, err := decimal.NewFromString(ev.Price)
	if err != nil {
		return model.PriceTick{}, false, fmt.Errorf("price %q: %w", ev.Price, err)
	}
	return model.PriceTick{
		Symbol: ev.Symbol,
		Price:  price.InexactFloat64(),
		Time:   ev.Time,
	}, true, nil
}
