package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"tebak-kode-bot/internal/domain"
)

// SeedQuestions upserts the question set, replacing rows with the same number.
func SeedQuestions(ctx context.Context, db *bun.DB, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	models := make([]questionModel, 0, len(questions))
	for _, q := range questions {
		models = append(models, newQuestionModel(q))
	}

	_, err := db.NewInsert().
		Model(&models).
		On("CONFLICT (number) DO UPDATE").
		Set("text = EXCLUDED.text").
		Set("image = EXCLUDED.image").
		Set("option_a = EXCLUDED.option_a").
		Set("option_b = EXCLUDED.option_b").
		Set("option_c = EXCLUDED.option_c").
		Set("option_d = EXCLUDED.option_d").
		Set("answer = EXCLUDED.answer").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed questions: %w", err)
	}
	return len(models), nil
}
