package api

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	domrepo "SwingSight/internal/domain/repository"
	"SwingSight/internal/usecase"
	xlogger "SwingSight/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamPingInterval = 30 * time.Second
	streamRefresh      = 15 * time.Second
)

// StreamHub pushes fresh structure analyses to websocket subscribers.
// Each subscriber watches one (symbol, timeframe, n) window; a push goes
// out on a timer and immediately after new candles land for the symbol.
type StreamHub struct {
	logger    *xlogger.Logger
	structure *usecase.StructureUseCase
	upgrader  websocket.Upgrader

	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

type subscriber struct {
	conn   *websocket.Conn
	symbol string
	tf     domrepo.Timeframe
	n      int
	wake   chan struct{}
}

func NewStreamHub(logger *xlogger.Logger, structureUC *usecase.StructureUseCase) *StreamHub {
	return &StreamHub{
		logger:    logger,
		structure: structureUC,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subs: make(map[*subscriber]struct{}),
	}
}

func (h *StreamHub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/structure", h.Serve)
}

// Notify wakes subscribers watching the symbol. Non-blocking; a
// subscriber mid-push simply coalesces the wake with its next cycle.
func (h *StreamHub) Notify(symbol string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if sub.symbol != symbol {
			continue
		}
		select {
		case sub.wake <- struct{}{}:
		default:
		}
	}
}

func (h *StreamHub) Serve(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "symbol is required"})
	}
	tf := domrepo.NormalizeTimeframe(c.QueryParam("tf"))
	n := 150
	if raw := c.QueryParam("n"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 10 && v <= 5000 {
			n = v
		}
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sub := &subscriber{conn: conn, symbol: symbol, tf: tf, n: n, wake: make(chan struct{}, 1)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("stream subscriber connected",
		xlogger.String("symbol", symbol),
		xlogger.String("tf", string(tf)))

	go h.writeLoop(sub)
	h.readLoop(sub)
	return nil
}

// readLoop drains client frames so pong handling works and detects close.
func (h *StreamHub) readLoop(sub *subscriber) {
	defer h.drop(sub)
	sub.conn.SetReadLimit(1024)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(streamRefresh)
	ping := time.NewTicker(streamPingInterval)
	defer func() {
		ticker.Stop()
		ping.Stop()
		h.drop(sub)
	}()

	// First frame right away so the chart renders without waiting.
	if err := h.push(sub); err != nil {
		return
	}
	for {
		select {
		case <-sub.wake:
			if err := h.push(sub); err != nil {
				return
			}
		case <-ticker.C:
			if err := h.push(sub); err != nil {
				return
			}
		case <-ping.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *StreamHub) push(sub *subscriber) error {
	ctx, cancel := context.WithTimeout(context.Background(), streamWriteTimeout)
	defer cancel()

	analysis, err := h.structure.Analyze(ctx, usecase.AnalyzeParams{
		Symbol:    sub.symbol,
		Timeframe: sub.tf,
		N:         sub.n,
	})
	if err != nil {
		h.logger.Warn("stream analysis failed",
			xlogger.String("symbol", sub.symbol), xlogger.Error(err))
		return nil // transient; keep the connection
	}

	_ = sub.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return sub.conn.WriteJSON(analysis)
}

func (h *StreamHub) drop(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		_ = sub.conn.Close()
	}
	h.mu.Unlock()
}
