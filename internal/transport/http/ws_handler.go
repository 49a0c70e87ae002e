package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"tebak-kode-bot/internal/app"
	"tebak-kode-bot/internal/domain"
)

const wsWriteTimeout = 10 * time.Second

// WSHandler streams completed quiz results to websocket clients.
type WSHandler struct {
	feed     *app.ResultFeed
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(feed *app.ResultFeed, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		feed:   feed,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and forwards the result feed, recent history first,
// until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "ws upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	// Clients only listen; reading detects when they go away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case result, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(outboundMessage[domain.QuizResult]{Type: "result", Payload: result}); err != nil {
				h.logger.DebugContext(r.Context(), "ws write error", slog.Any("error", err))
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
