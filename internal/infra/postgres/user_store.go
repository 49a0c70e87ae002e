package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"tebak-kode-bot/internal/domain"
)

const uniqueViolation = "23505"

// UserStore persists users and their quiz progress with bun.
type UserStore struct {
	db *bun.DB
}

func NewUserStore(db *bun.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindUser(ctx context.Context, userID string) (domain.User, error) {
	var m userModel
	err := s.db.NewSelect().Model(&m).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

// CreateUser inserts only the identity columns so progress and score take the
// column defaults.
func (s *UserStore) CreateUser(ctx context.Context, userID, displayName string) error {
	m := &userModel{UserID: userID, DisplayName: displayName}
	_, err := s.db.NewInsert().Model(m).Column("user_id", "display_name").Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) SetProgress(ctx context.Context, userID string, number int) error {
	if !domain.ValidProgress(number) {
		return domain.ErrInvalidProgress
	}
	return s.update(ctx, userID, "number = ?", number)
}

func (s *UserStore) SetScore(ctx context.Context, userID string, score int) error {
	return s.update(ctx, userID, "score = ?", score)
}

func (s *UserStore) update(ctx context.Context, userID, set string, value int) error {
	result, err := s.db.NewUpdate().
		Model((*userModel)(nil)).
		Set(set, value).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
