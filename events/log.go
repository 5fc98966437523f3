package events

import (
	"context"

	"github.com/etnz/capital"
	"go.uber.org/zap"
)

// LogNotifier writes events to a logger. It stands in for the broker when none is configured.
type LogNotifier struct {
	Log *zap.Logger
}

var _ capital.Notifier = LogNotifier{}

func (n LogNotifier) Notify(ctx context.Context, e capital.Event) error {
	msg := NewMessage(e)
	fields := []zap.Field{zap.String("event", msg.Event), zap.String("owner", msg.Owner)}
	if msg.Month != "" {
		fields = append(fields, zap.String("month", msg.Month))
	}
	if msg.TransactionID != "" {
		fields = append(fields, zap.String("transactionId", msg.TransactionID))
	}
	if msg.Net != "" {
		fields = append(fields, zap.String("capitalBase", msg.CapitalBase), zap.String("net", msg.Net))
	}
	n.Log.Info("event", fields...)
	return nil
}
