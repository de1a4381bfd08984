// Package events carries ledger and account state changes to whoever needs
// to react to them: the interactive shell, a message broker, tests.
package events

import (
	"context"
	"slices"
	"sync"
	"time"

	"budgetbuddy/internal/log"
)

type Type string

const (
	UserSignedUp    Type = "user.signed_up"
	UserLoggedIn    Type = "user.logged_in"
	UserLoggedOut   Type = "user.logged_out"
	ExpenseAdded    Type = "expense.added"
	IncomeAdded     Type = "income.added"
	CurrencyChanged Type = "currency.changed"
)

// Event describes one completed state change. Fields that do not apply to
// the event type are left empty.
type Event struct {
	Type      Type
	Email     string
	RecordID  string
	Amount    string
	Category  string
	Currency  string
	Timestamp time.Time
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Bus fans events out to subscribers synchronously, in subscription order.
// It never returns an error: a failing forwarder is logged and skipped.
type Bus struct {
	mu         sync.Mutex
	next       int
	subs       map[int]func(Event)
	forwarders []Publisher
	logger     *log.Logger
}

func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Discard()
	}
	return &Bus{
		subs:   make(map[int]func(Event)),
		logger: logger.WithComponent(log.ComponentEvents),
	}
}

// Subscribe registers fn and returns a function removing it again.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Forward sends every published event on to p as well.
func (b *Bus) Forward(p Publisher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forwarders = append(b.forwarders, p)
}

func (b *Bus) Publish(ctx context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	forwarders := append([]Publisher(nil), b.forwarders...)
	b.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
	for _, p := range forwarders {
		if err := p.Publish(ctx, e); err != nil {
			b.logger.WarnContext(ctx, "Event forward failed",
				log.FieldEvent, string(e.Type),
				log.FieldError, err)
		}
	}
	return nil
}
