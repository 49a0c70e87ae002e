package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tebak-kode-bot/internal/domain"
)

const tracerName = "tebak-kode-bot/internal/app"

// UserLocker serializes event handling per user id.
type UserLocker interface {
	Lock(ctx context.Context, userID string) (unlock func(), err error)
}

// NopLocker does no locking; concurrent events for one user race last-writer-wins.
type NopLocker struct{}

func (NopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

type handlerFunc func(ctx context.Context, user domain.User, ev domain.Event) error

// Dispatcher routes inbound events to the quiz state machine.
type Dispatcher struct {
	users    UserRepository
	service  *QuizService
	locker   UserLocker
	metrics  *Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
	messages map[domain.MessageType]handlerFunc
	events   map[domain.EventType]handlerFunc
}

func NewDispatcher(users UserRepository, service *QuizService, locker UserLocker, metrics *Metrics, logger *slog.Logger) *Dispatcher {
	if locker == nil {
		locker = NopLocker{}
	}
	return &Dispatcher{
		users:   users,
		service: service,
		locker:  locker,
		metrics: metrics,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
		messages: map[domain.MessageType]handlerFunc{
			domain.MessageTypeText:    service.HandleText,
			domain.MessageTypeSticker: service.HandleSticker,
		},
		events: map[domain.EventType]handlerFunc{
			domain.EventTypeFollow: service.Welcome,
		},
	}
}

// Dispatch handles events in delivery order. A failing event is logged and does
// not stop the rest of the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.Event) {
	for _, ev := range events {
		if ev.UserID == "" {
			d.metrics.event(string(ev.Type), outcomeSkipped)
			continue
		}

		outcome, err := d.dispatchOne(ctx, ev)
		if err != nil {
			outcome = outcomeFailed
			msg := "event handling failed"
			if errors.Is(err, domain.ErrQuestionNotFound) {
				msg = "question seed data incomplete"
			}
			d.logger.ErrorContext(ctx, msg,
				slog.String("user_id", ev.UserID),
				slog.String("event_type", string(ev.Type)),
				slog.Any("error", err),
			)
		}
		d.metrics.event(string(ev.Type), outcome)
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, ev domain.Event) (outcome string, err error) {
	ctx, span := d.tracer.Start(ctx, "quiz.dispatch", trace.WithAttributes(
		attribute.String("event.type", string(ev.Type)),
		attribute.String("user.id", ev.UserID),
	))
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	unlock, err := d.locker.Lock(ctx, ev.UserID)
	if err != nil {
		return outcomeFailed, fmt.Errorf("lock user: %w", err)
	}
	defer unlock()

	user, err := d.users.FindUser(ctx, ev.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return outcomeHandled, d.service.Follow(ctx, ev)
	}
	if err != nil {
		return outcomeFailed, fmt.Errorf("find user: %w", err)
	}

	handler, ok := d.route(ev)
	if !ok {
		return outcomeIgnored, nil
	}
	return outcomeHandled, handler(ctx, user, ev)
}

func (d *Dispatcher) route(ev domain.Event) (handlerFunc, bool) {
	if ev.Type == domain.EventTypeMessage {
		if ev.Message == nil {
			return nil, false
		}
		h, ok := d.messages[ev.Message.Type]
		return h, ok
	}
	h, ok := d.events[ev.Type]
	return h, ok
}
