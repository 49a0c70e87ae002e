package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"tebak-kode-bot/internal/app"
	"tebak-kode-bot/internal/domain"
	"tebak-kode-bot/internal/infra/memory"
	"tebak-kode-bot/internal/logging"
	"tebak-kode-bot/internal/seed"
)

var errProfileUnavailable = errors.New("profile api unavailable")

var answers = []string{"Go", "222", "<a>", "git clone", "1", ".py", "SQL", "false", "//", "Stack"}

type sentReply struct {
	Token    string
	Messages []domain.Message
}

type fakeMessenger struct {
	mu         sync.Mutex
	profiles   map[string]domain.Profile
	profileErr error
	replyErr   error
	replies    []sentReply
}

func (m *fakeMessenger) Profile(_ context.Context, userID string) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profileErr != nil {
		return domain.Profile{}, m.profileErr
	}
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return domain.Profile{UserID: userID, DisplayName: "Tester"}, nil
}

func (m *fakeMessenger) Reply(_ context.Context, replyToken string, messages ...domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replyErr != nil {
		return m.replyErr
	}
	m.replies = append(m.replies, sentReply{Token: replyToken, Messages: messages})
	return nil
}

func (m *fakeMessenger) sent() []sentReply {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentReply, len(m.replies))
	copy(out, m.replies)
	return out
}

func (m *fakeMessenger) last(t *testing.T) sentReply {
	t.Helper()
	sent := m.sent()
	if len(sent) == 0 {
		t.Fatalf("expected a reply, got none")
	}
	return sent[len(sent)-1]
}

type fixture struct {
	users      *memory.UserStore
	questions  app.QuestionRepository
	messenger  *fakeMessenger
	feed       *app.ResultFeed
	registry   *prometheus.Registry
	service    *app.QuizService
	dispatcher *app.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	questions, err := seed.Load("")
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	return newFixtureWithQuestions(t, memory.NewStaticQuestionLoader(seed.ByNumber(questions)))
}

func newFixtureWithQuestions(t *testing.T, questions app.QuestionRepository) *fixture {
	t.Helper()
	logger := logging.Discard()
	registry := prometheus.NewRegistry()
	metrics := app.NewMetrics(registry)

	f := &fixture{
		users:     memory.NewUserStore(),
		questions: questions,
		messenger: &fakeMessenger{profiles: map[string]domain.Profile{}},
		feed:      app.NewResultFeed(5),
		registry:  registry,
	}
	f.service = app.NewQuizService(f.users, f.questions, f.messenger, f.feed, metrics, logger)
	f.dispatcher = app.NewDispatcher(f.users, f.service, memory.NewUserLocker(), metrics, logger)
	return f
}

func (f *fixture) register(t *testing.T, userID, name string) {
	t.Helper()
	if err := f.users.CreateUser(context.Background(), userID, name); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func (f *fixture) user(t *testing.T, userID string) domain.User {
	t.Helper()
	u, err := f.users.FindUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	return u
}

func (f *fixture) text(userID, text string) {
	f.dispatcher.Dispatch(context.Background(), []domain.Event{textEvent(userID, text)})
}

func textEvent(userID, text string) domain.Event {
	return domain.Event{
		Type:       domain.EventTypeMessage,
		UserID:     userID,
		ReplyToken: "token-" + text,
		Message:    &domain.IncomingMessage{Type: domain.MessageTypeText, Text: text},
	}
}

func messageEvent(userID string, typ domain.MessageType) domain.Event {
	return domain.Event{
		Type:       domain.EventTypeMessage,
		UserID:     userID,
		ReplyToken: "token-" + string(typ),
		Message:    &domain.IncomingMessage{Type: typ},
	}
}

// counterValue reads a counter from the fixture registry; labels must match exactly.
func counterValue(t *testing.T, f *fixture, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := f.registry.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			pairs := m.GetLabel()
			if len(pairs) != len(labels) {
				continue
			}
			match := true
			for _, lp := range pairs {
				if labels[lp.GetName()] != lp.GetValue() {
					match = false
					break
				}
			}
			if match {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
