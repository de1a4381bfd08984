// Package worker processes ledger events consumed from the broker.
package worker

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/events"
	"budgetbuddy/internal/log"
)

var ErrMalformedEvent = errors.New("malformed ledger event")

var knownTypes = map[events.Type]bool{
	events.UserSignedUp:    true,
	events.UserLoggedIn:    true,
	events.UserLoggedOut:   true,
	events.ExpenseAdded:    true,
	events.IncomeAdded:     true,
	events.CurrencyChanged: true,
}

// AuditWorker writes every consumed event to the log and keeps per-type counts.
type AuditWorker struct {
	logger *log.Logger

	mu       sync.Mutex
	counts   map[events.Type]int
	rejected int
}

func NewAuditWorker(logger *log.Logger) *AuditWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &AuditWorker{
		logger: logger.WithComponent(log.ComponentAudit),
		counts: make(map[events.Type]int),
	}
}

// HandleEvent records one message. Malformed messages are counted and
// dropped rather than requeued, since redelivery cannot fix them.
func (w *AuditWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	e := msg.Event()
	if err := validate(e); err != nil {
		w.mu.Lock()
		w.rejected++
		w.mu.Unlock()
		w.logger.WarnContext(ctx, "Dropping ledger event", log.FieldError, err, log.FieldEvent, msg.Type)
		return nil
	}

	w.mu.Lock()
	w.counts[e.Type]++
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Ledger event",
		log.FieldEvent, string(e.Type),
		log.FieldEmail, e.Email,
		log.FieldRecordID, e.RecordID,
		log.FieldAmount, e.Amount,
		log.FieldCategory, e.Category,
		log.FieldCurrency, e.Currency,
		"at", e.Timestamp)
	return nil
}

func validate(e events.Event) error {
	if !knownTypes[e.Type] {
		return fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, e.Type)
	}
	if e.Email == "" {
		return fmt.Errorf("%w: missing email", ErrMalformedEvent)
	}
	if (e.Type == events.ExpenseAdded || e.Type == events.IncomeAdded) && (e.RecordID == "" || e.Amount == "") {
		return fmt.Errorf("%w: record event without id or amount", ErrMalformedEvent)
	}
	return nil
}

// Counts returns how many valid events of each type were seen.
func (w *AuditWorker) Counts() map[events.Type]int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return maps.Clone(w.counts)
}

func (w *AuditWorker) Rejected() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rejected
}

// LogStats writes the running totals.
func (w *AuditWorker) LogStats(ctx context.Context) {
	counts := w.Counts()
	args := []any{"rejected", w.Rejected()}
	for t, n := range counts {
		args = append(args, string(t), n)
	}
	w.logger.InfoContext(ctx, "Audit totals", args...)
}
