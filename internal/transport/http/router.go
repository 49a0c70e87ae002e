package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterDeps are the handlers mounted by NewRouter. Metrics is optional.
type RouterDeps struct {
	Webhook *WebhookHandler
	Results *WSHandler
	Metrics http.Handler
	Logger  *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, Logger(deps.Logger), Recovery(deps.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodPost, "/webhook", deps.Webhook)
	r.Get("/ws/results", deps.Results.ServeWS)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}
	return r
}
