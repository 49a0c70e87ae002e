package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// EventLog appends raw webhook deliveries to the eventlog table.
type EventLog struct {
	db *bun.DB
}

func NewEventLog(db *bun.DB) *EventLog {
	return &EventLog{db: db}
}

func (l *EventLog) RecordRawEvent(ctx context.Context, signature, rawBody string) error {
	m := &eventLogModel{Signature: signature, Events: rawBody}
	if _, err := l.db.NewInsert().Model(m).Column("signature", "events").Exec(ctx); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}
