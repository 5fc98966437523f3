package capital

import (
	"context"
	"time"

	"github.com/etnz/capital/date"
)

// EventKind names what happened to a book.
type EventKind string

const (
	EventMonthClosed        EventKind = "month.closed"
	EventTransactionCreated EventKind = "transaction.recorded"
	EventTransactionUpdated EventKind = "transaction.updated"
	EventTransactionDeleted EventKind = "transaction.deleted"
)

// Event is published after a successful write.
type Event struct {
	Kind          EventKind
	Owner         string
	Month         date.Month
	TransactionID string // TransactionID is empty for closes.
	CapitalBase   Money  // CapitalBase and Net are only set for closes.
	Net           Money
	Time          time.Time
}

// Notifier receives events. Failing to notify never undoes the write.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

type noNotifier struct{}

func (noNotifier) Notify(context.Context, Event) error { return nil }
