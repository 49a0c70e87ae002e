package app

import (
	"sync"

	"tebak-kode-bot/internal/domain"
)

const subscriberBuffer = 8

// ResultFeed fans completed quiz results out to live subscribers and keeps the
// most recent ones for new subscribers.
type ResultFeed struct {
	mu          sync.Mutex
	limit       int
	history     []domain.QuizResult
	subscribers map[chan domain.QuizResult]struct{}
}

// NewResultFeed keeps up to limit results in history. A zero limit keeps none.
func NewResultFeed(limit int) *ResultFeed {
	if limit < 0 {
		limit = 0
	}
	return &ResultFeed{
		limit:       limit,
		history:     make([]domain.QuizResult, 0, limit),
		subscribers: make(map[chan domain.QuizResult]struct{}),
	}
}

// Publish records the result and broadcasts it. Slow subscribers lose their
// oldest pending result instead of blocking the publisher.
func (f *ResultFeed) Publish(result domain.QuizResult) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.limit > 0 {
		if len(f.history) == f.limit {
			copy(f.history, f.history[1:])
			f.history = f.history[:f.limit-1]
		}
		f.history = append(f.history, result)
	}

	for ch := range f.subscribers {
		select {
		case ch <- result:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- result
		}
	}
}

// Recent returns the retained results, oldest first.
func (f *ResultFeed) Recent() []domain.QuizResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.QuizResult, len(f.history))
	copy(out, f.history)
	return out
}

// Subscribe returns a channel that first replays the retained history and then
// receives every new result. The caller must invoke cancel to avoid leaks.
func (f *ResultFeed) Subscribe() (<-chan domain.QuizResult, func()) {
	f.mu.Lock()
	ch := make(chan domain.QuizResult, len(f.history)+subscriberBuffer)
	for _, result := range f.history {
		ch <- result
	}
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Subscribers reports how many subscriptions are open.
func (f *ResultFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
