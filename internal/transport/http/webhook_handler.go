package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"tebak-kode-bot/internal/domain"
)

const (
	signatureHeader = "X-Line-Signature"
	// Logged in place of an absent signature header.
	missingSignature = "-"
	ackBody          = "No events found!"
	maxWebhookBody   = 1 << 20
)

// EventLog stores raw deliveries before they are parsed.
type EventLog interface {
	RecordRawEvent(ctx context.Context, signature, rawBody string) error
}

// EventParser validates a delivery signature and decodes its events.
type EventParser interface {
	ParseEvents(ctx context.Context, signature string, body []byte) ([]domain.Event, error)
}

// EventDispatcher handles decoded events in order.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []domain.Event)
}

// WebhookHandler receives platform webhook deliveries.
type WebhookHandler struct {
	log        EventLog
	parser     EventParser
	dispatcher EventDispatcher
	logger     *slog.Logger
}

func NewWebhookHandler(log EventLog, parser EventParser, dispatcher EventDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		log:        log,
		parser:     parser,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ServeHTTP logs the raw body, then parses and dispatches it. Every delivery
// that passes signature validation is acknowledged with 200, whatever happens
// to the individual events.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.WarnContext(ctx, "read webhook body", slog.Any("error", err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get(signatureHeader)
	logged := signature
	if logged == "" {
		logged = missingSignature
	}
	if err := h.log.RecordRawEvent(ctx, logged, string(body)); err != nil {
		h.logger.ErrorContext(ctx, "record webhook delivery", slog.Any("error", err))
	}

	events, err := h.parser.ParseEvents(ctx, signature, body)
	switch {
	case errors.Is(err, domain.ErrInvalidSignature):
		h.logger.WarnContext(ctx, "webhook signature rejected")
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "decode webhook delivery", slog.Any("error", err))
	default:
		h.dispatcher.Dispatch(ctx, events)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, ackBody)
}
