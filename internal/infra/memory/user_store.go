package memory

import (
	"context"
	"sync"

	"tebak-kode-bot/internal/domain"
)

// UserStore is an in-memory implementation of app.UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]domain.User),
	}
}

func (s *UserStore) FindUser(_ context.Context, userID string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// CreateUser registers a user with no quiz running and a zero score.
func (s *UserStore) CreateUser(_ context.Context, userID, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; ok {
		return domain.ErrUserExists
	}
	s.users[userID] = domain.User{UserID: userID, DisplayName: displayName}
	return nil
}

func (s *UserStore) SetProgress(_ context.Context, userID string, number int) error {
	if !domain.ValidProgress(number) {
		return domain.ErrInvalidProgress
	}
	return s.update(userID, func(u *domain.User) { u.Number = number })
}

func (s *UserStore) SetScore(_ context.Context, userID string, score int) error {
	return s.update(userID, func(u *domain.User) { u.Score = score })
}

func (s *UserStore) update(userID string, apply func(*domain.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	apply(&user)
	s.users[userID] = user
	return nil
}
