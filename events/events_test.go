package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePublisher struct {
	exchange, key string
	msg           amqp091.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func eur(v int64) capital.Money { return capital.M(decimal.NewFromInt(v), "EUR") }

func TestNewMessage(t *testing.T) {
	at := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		event capital.Event
		want  Message
	}{
		{
			name: "close",
			event: capital.Event{
				Kind:        capital.EventMonthClosed,
				Owner:       "alice",
				Month:       date.NewMonth(2025, time.January),
				CapitalBase: eur(1000),
				Net:         eur(495),
				Time:        at,
			},
			want: Message{Event: "month.closed", Owner: "alice", Month: "2025-01", CapitalBase: "1000", Net: "495", Currency: "EUR", Timestamp: at},
		},
		{
			name: "transaction",
			event: capital.Event{
				Kind:          capital.EventTransactionCreated,
				Owner:         "alice",
				Month:         date.NewMonth(2025, time.January),
				TransactionID: "tx-1",
				Time:          at,
			},
			want: Message{Event: "transaction.recorded", Owner: "alice", Month: "2025-01", TransactionID: "tx-1", Timestamp: at},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := NewMessage(test.event)
			if !got.Timestamp.Equal(test.want.Timestamp) {
				t.Errorf("Timestamp = %v, want %v", got.Timestamp, test.want.Timestamp)
			}
			got.Timestamp = test.want.Timestamp
			if *got != test.want {
				t.Errorf("NewMessage() = %+v, want %+v", *got, test.want)
			}

			data, err := got.ToJSON()
			if err != nil {
				t.Fatalf("ToJSON() error = %v", err)
			}
			back, err := MessageFromJSON(data)
			if err != nil {
				t.Fatalf("MessageFromJSON() error = %v", err)
			}
			if back.Event != got.Event || back.Net != got.Net || back.TransactionID != got.TransactionID {
				t.Errorf("MessageFromJSON(%s) = %+v", data, *back)
			}
		})
	}
}

func TestMessageFromJSON_Invalid(t *testing.T) {
	if _, err := MessageFromJSON([]byte("{not json")); err == nil {
		t.Error("MessageFromJSON() expected an error")
	}
}

func TestClient_Notify(t *testing.T) {
	pub := &fakePublisher{}
	c := &Client{pub: pub, exchangeName: "capital", queueName: "capital.events", log: zap.NewNop()}

	e := capital.Event{Kind: capital.EventMonthClosed, Owner: "alice", Month: date.NewMonth(2025, time.January), CapitalBase: eur(1000), Net: eur(495)}
	if err := c.Notify(context.Background(), e); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if pub.exchange != "capital" || pub.key != "month.closed" {
		t.Errorf("published to %q with key %q, want %q and %q", pub.exchange, pub.key, "capital", "month.closed")
	}
	if pub.msg.ContentType != "application/json" {
		t.Errorf("ContentType = %q, want application/json", pub.msg.ContentType)
	}
	if pub.msg.DeliveryMode != amqp091.Persistent {
		t.Errorf("DeliveryMode = %d, want persistent", pub.msg.DeliveryMode)
	}
	msg, err := MessageFromJSON(pub.msg.Body)
	if err != nil {
		t.Fatalf("published body is not a message: %v", err)
	}
	if msg.Month != "2025-01" || msg.Net != "495" {
		t.Errorf("published %+v", *msg)
	}
}

func TestClient_NotifyError(t *testing.T) {
	broken := errors.New("channel closed")
	c := &Client{pub: &fakePublisher{err: broken}, exchangeName: "capital", log: zap.NewNop()}
	err := c.Notify(context.Background(), capital.Event{Kind: capital.EventTransactionDeleted, Owner: "alice"})
	if !errors.Is(err, broken) {
		t.Errorf("Notify() error = %v, want %v", err, broken)
	}
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := LogNotifier{Log: zap.New(core)}
	e := capital.Event{Kind: capital.EventTransactionUpdated, Owner: "alice", TransactionID: "tx-1"}
	if err := n.Notify(context.Background(), e); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	entries := logs.FilterMessage("event").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["event"] != "transaction.updated" || fields["transactionId"] != "tx-1" {
		t.Errorf("logged fields = %v", fields)
	}
	if _, ok := fields["month"]; ok {
		t.Errorf("month logged for an event without one: %v", fields)
	}
}
