package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"tebak-kode-bot/internal/domain"
)

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	UserID        string `bun:"user_id,pk"`
	DisplayName   string `bun:"display_name,notnull"`
	Number        int    `bun:"number,notnull,default:0"`
	Score         int    `bun:"score,notnull,default:0"`
}

func (m userModel) toDomain() domain.User {
	return domain.User{
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Number:      m.Number,
		Score:       m.Score,
	}
}

type questionModel struct {
	bun.BaseModel `bun:"table:questions,alias:q"`
	Number        int    `bun:"number,pk"`
	Text          string `bun:"text,notnull"`
	Image         string `bun:"image,nullzero"`
	OptionA       string `bun:"option_a,nullzero"`
	OptionB       string `bun:"option_b,nullzero"`
	OptionC       string `bun:"option_c,nullzero"`
	OptionD       string `bun:"option_d,nullzero"`
	Answer        string `bun:"answer,notnull"`
}

func newQuestionModel(q domain.Question) questionModel {
	return questionModel{
		Number:  q.Number,
		Text:    q.Text,
		Image:   q.Image,
		OptionA: q.OptionA,
		OptionB: q.OptionB,
		OptionC: q.OptionC,
		OptionD: q.OptionD,
		Answer:  q.Answer,
	}
}

type eventLogModel struct {
	bun.BaseModel `bun:"table:eventlog,alias:e"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Signature     string    `bun:"signature,notnull"`
	Events        string    `bun:"events,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
