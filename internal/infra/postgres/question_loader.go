package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tebak-kode-bot/internal/domain"
)

// QuestionLoader reads questions from Postgres. It serves uncached lookups
// directly and feeds the memory and Redis caches.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestion(ctx context.Context, number int) (domain.Question, error) {
	q := domain.Question{Number: number}
	err := l.pool.QueryRow(ctx, `
		SELECT text, COALESCE(image, ''),
		       COALESCE(option_a, ''), COALESCE(option_b, ''),
		       COALESCE(option_c, ''), COALESCE(option_d, ''),
		       answer
		FROM questions WHERE number=$1`, number).
		Scan(&q.Text, &q.Image, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.Answer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Question{}, fmt.Errorf("question %d: %w", number, domain.ErrQuestionNotFound)
		}
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

func (l *QuestionLoader) GetQuestion(ctx context.Context, number int) (domain.Question, error) {
	return l.LoadQuestion(ctx, number)
}

// IsAnswerCorrect checks the answer in SQL with exact comparison.
func (l *QuestionLoader) IsAnswerCorrect(ctx context.Context, number int, answer string) (bool, error) {
	var correct bool
	err := l.pool.QueryRow(ctx, `SELECT answer = $2 FROM questions WHERE number=$1`, number, answer).Scan(&correct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("question %d: %w", number, domain.ErrQuestionNotFound)
		}
		return false, fmt.Errorf("check answer: %w", err)
	}
	return correct, nil
}
