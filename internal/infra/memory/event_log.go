package memory

import (
	"context"
	"sync"

	"tebak-kode-bot/internal/domain"
)

// EventLog keeps raw webhook deliveries in process memory.
type EventLog struct {
	mu      sync.Mutex
	entries []domain.EventLogEntry
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) RecordRawEvent(_ context.Context, signature, rawBody string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, domain.EventLogEntry{Signature: signature, Events: rawBody})
	return nil
}

// Entries returns a copy of the recorded deliveries, oldest first.
func (l *EventLog) Entries() []domain.EventLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.EventLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
