package worker

import (
	"context"
	"testing"
	"time"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/events"
)

func TestAuditWorker_HandleEvent(t *testing.T) {
	tests := []struct {
		name     string
		msg      amqp.LedgerEventMessage
		accepted bool
	}{
		{
			name:     "expense",
			msg:      amqp.LedgerEventMessage{Type: "expense.added", Email: "a@x.com", RecordID: "id", Amount: "42.51", Category: "Food"},
			accepted: true,
		},
		{
			name:     "login",
			msg:      amqp.LedgerEventMessage{Type: "user.logged_in", Email: "a@x.com"},
			accepted: true,
		},
		{
			name:     "unknown type",
			msg:      amqp.LedgerEventMessage{Type: "expense.deleted", Email: "a@x.com"},
			accepted: false,
		},
		{
			name:     "missing email",
			msg:      amqp.LedgerEventMessage{Type: "currency.changed", Currency: "EUR"},
			accepted: false,
		},
		{
			name:     "income without amount",
			msg:      amqp.LedgerEventMessage{Type: "income.added", Email: "a@x.com", RecordID: "id"},
			accepted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewAuditWorker(nil)
			msg := tt.msg
			msg.Timestamp = time.Now()

			if err := w.HandleEvent(context.Background(), &msg); err != nil {
				t.Fatalf("HandleEvent() error = %v, want nil", err)
			}

			counted := w.Counts()[events.Type(tt.msg.Type)] == 1
			if counted != tt.accepted {
				t.Errorf("counted = %v, want %v", counted, tt.accepted)
			}
			if rejected := w.Rejected() == 1; rejected == tt.accepted {
				t.Errorf("rejected = %v, want %v", rejected, !tt.accepted)
			}
		})
	}
}

func TestAuditWorker_CountsIsACopy(t *testing.T) {
	w := NewAuditWorker(nil)
	msg := &amqp.LedgerEventMessage{Type: "user.signed_up", Email: "a@x.com"}
	_ = w.HandleEvent(context.Background(), msg)

	counts := w.Counts()
	counts[events.UserSignedUp] = 99

	if got := w.Counts()[events.UserSignedUp]; got != 1 {
		t.Errorf("Counts()[signed_up] = %d, want 1", got)
	}
	w.LogStats(context.Background())
}
