package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tebak-kode-bot/internal/domain"
)

// UserRepository abstracts where registered users and their progress live (Postgres, memory).
type UserRepository interface {
	FindUser(ctx context.Context, userID string) (domain.User, error)
	CreateUser(ctx context.Context, userID, displayName string) error
	SetProgress(ctx context.Context, userID string, number int) error
	SetScore(ctx context.Context, userID string, score int) error
}

// QuestionRepository serves the read-only question set (from cache/backing store).
type QuestionRepository interface {
	GetQuestion(ctx context.Context, number int) (domain.Question, error)
	IsAnswerCorrect(ctx context.Context, number int, answer string) (bool, error)
}

// Messenger is the messaging platform: profile lookup and replies to a reply token.
type Messenger interface {
	Profile(ctx context.Context, userID string) (domain.Profile, error)
	Reply(ctx context.Context, replyToken string, messages ...domain.Message) error
}

// QuizService implements the quiz state machine for a single user event.
type QuizService struct {
	users     UserRepository
	questions QuestionRepository
	messenger Messenger
	feed      *ResultFeed
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewQuizService(users UserRepository, questions QuestionRepository, messenger Messenger, feed *ResultFeed, metrics *Metrics, logger *slog.Logger) *QuizService {
	return &QuizService{
		users:     users,
		questions: questions,
		messenger: messenger,
		feed:      feed,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Follow registers a user the store has never seen. A failed profile lookup drops
// the event: nothing is sent and nothing is stored.
func (s *QuizService) Follow(ctx context.Context, ev domain.Event) error {
	profile, err := s.messenger.Profile(ctx, ev.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "profile lookup failed, follow dropped",
			slog.String("user_id", ev.UserID),
			slog.Any("error", err),
		)
		s.metrics.followDropped()
		return nil
	}
	if profile.UserID == "" {
		profile.UserID = ev.UserID
	}

	if err := s.messenger.Reply(ctx, ev.ReplyToken, welcomeMessages(profile.DisplayName)...); err != nil {
		return fmt.Errorf("reply welcome: %w", err)
	}
	if err := s.users.CreateUser(ctx, profile.UserID, profile.DisplayName); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", profile.UserID))
	return nil
}

// Welcome greets a registered user again, e.g. after they unblocked the bot.
func (s *QuizService) Welcome(ctx context.Context, user domain.User, ev domain.Event) error {
	return s.messenger.Reply(ctx, ev.ReplyToken, welcomeMessages(user.DisplayName)...)
}

// HandleText starts the quiz, reminds the user how to start, or takes the text as an answer.
func (s *QuizService) HandleText(ctx context.Context, user domain.User, ev domain.Event) error {
	var text string
	if ev.Message != nil {
		text = ev.Message.Text
	}

	if user.Started() {
		return s.Answer(ctx, user, ev.ReplyToken, text)
	}
	if domain.IsStartTrigger(text) {
		return s.Start(ctx, user, ev.ReplyToken)
	}
	return s.messenger.Reply(ctx, ev.ReplyToken, reminderMessage())
}

// HandleSticker always nudges towards the start trigger, whatever the quiz state.
func (s *QuizService) HandleSticker(ctx context.Context, _ domain.User, ev domain.Event) error {
	return s.messenger.Reply(ctx, ev.ReplyToken, nudgeMessages()...)
}

// Start resets the score and sends question 1.
func (s *QuizService) Start(ctx context.Context, user domain.User, replyToken string) error {
	first, err := s.question(ctx, 1)
	if err != nil {
		return err
	}
	if err := s.users.SetScore(ctx, user.UserID, 0); err != nil {
		return fmt.Errorf("reset score: %w", err)
	}
	if err := s.users.SetProgress(ctx, user.UserID, 1); err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	s.metrics.quizStarted()
	return s.messenger.Reply(ctx, replyToken, questionMessage(first))
}

// Answer scores the submission for the user's current question, then either sends
// the next question or finishes the quiz.
func (s *QuizService) Answer(ctx context.Context, user domain.User, replyToken, answer string) error {
	n := user.Number
	correct, err := s.questions.IsAnswerCorrect(ctx, n, answer)
	if err != nil {
		return fmt.Errorf("check answer %d: %w", n, err)
	}
	s.metrics.answered(correct)

	var next domain.Question
	if n < domain.TotalQuestions {
		if next, err = s.question(ctx, n+1); err != nil {
			return err
		}
	}

	score := user.Score
	if correct {
		score++
		if err := s.users.SetScore(ctx, user.UserID, score); err != nil {
			return fmt.Errorf("set score: %w", err)
		}
	}

	if n < domain.TotalQuestions {
		if err := s.users.SetProgress(ctx, user.UserID, n+1); err != nil {
			return fmt.Errorf("set progress: %w", err)
		}
		return s.messenger.Reply(ctx, replyToken, questionMessage(next))
	}

	// Last question: score stays as-is until the next start resets it.
	if err := s.users.SetProgress(ctx, user.UserID, 0); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	result := domain.QuizResult{
		UserID:      user.UserID,
		DisplayName: user.DisplayName,
		Score:       score,
		Total:       domain.TotalQuestions,
		Passed:      domain.Passed(score),
		CompletedAt: s.now(),
	}
	if s.feed != nil {
		s.feed.Publish(result)
	}
	s.metrics.quizCompleted(result.Passed)
	s.logger.InfoContext(ctx, "quiz completed",
		slog.String("user_id", user.UserID),
		slog.Int("score", score),
	)
	return s.messenger.Reply(ctx, replyToken, resultMessages(score)...)
}

func (s *QuizService) question(ctx context.Context, number int) (domain.Question, error) {
	q, err := s.questions.GetQuestion(ctx, number)
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question %d: %w", number, err)
	}
	return q, nil
}
