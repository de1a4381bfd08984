// Package ledger holds one user's expenses, income and display currency.
//
// A Ledger is append-only. Every write is flushed through the persistence
// adapter before the call returns; reads never touch storage.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgetbuddy/internal/aggregate"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/events"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/persist"
)

type Ledger struct {
	mu        sync.Mutex
	email     string
	adapter   *persist.Adapter
	publisher events.Publisher
	logger    *log.Logger
	calendar  aggregate.Calendar
	now       func() time.Time

	expenses []core.Expense
	income   []core.Income
	currency core.Currency
	ids      map[uuid.UUID]struct{}
}

type Option func(*Ledger)

func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithLogger(lg *log.Logger) Option {
	return func(l *Ledger) { l.logger = lg }
}

// WithCalendar sets the zone and week start used by interval reads.
func WithCalendar(c aggregate.Calendar) Option {
	return func(l *Ledger) { l.calendar = c }
}

// WithClock replaces the time source used for records added without a date.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Open binds a ledger to email and loads whatever was persisted for it.
// Missing or undecodable data yields empty collections and USD.
func Open(ctx context.Context, email string, adapter *persist.Adapter, opts ...Option) *Ledger {
	l := &Ledger{
		email:     core.NormalizeEmail(email),
		adapter:   adapter,
		publisher: events.Nop{},
		logger:    log.Discard(),
		calendar:  aggregate.DefaultCalendar(),
		now:       time.Now,
		currency:  core.DefaultCurrency,
		ids:       make(map[uuid.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent(log.ComponentLedger).With(log.FieldEmail, l.email)

	if expenses, ok := persist.Load[[]core.Expense](ctx, adapter, persist.ExpensesKey(l.email)); ok {
		l.expenses = expenses
	}
	if income, ok := persist.Load[[]core.Income](ctx, adapter, persist.IncomeKey(l.email)); ok {
		l.income = income
	}
	if c, ok := persist.Load[core.Currency](ctx, adapter, persist.CurrencyKey(l.email)); ok && c.Valid() {
		l.currency = c
	}
	for _, e := range l.expenses {
		l.ids[e.ID] = struct{}{}
	}
	for _, i := range l.income {
		l.ids[i.ID] = struct{}{}
	}

	l.logger.DebugContext(ctx, "Ledger loaded",
		"expenses", len(l.expenses),
		"income", len(l.income),
		log.FieldCurrency, string(l.currency))
	return l
}

// AddExpense appends an expense and persists the full expense collection.
//
// The amount is rounded to two places but otherwise trusted; callers
// validate it. A zero date means now, an empty currency means the ledger's
// display currency.
func (l *Ledger) AddExpense(ctx context.Context, amount decimal.Decimal, category core.Category, note string, date time.Time, currency core.Currency) core.Expense {
	l.mu.Lock()
	if date.IsZero() {
		date = l.now()
	}
	if currency == "" {
		currency = l.currency
	}
	e := core.Expense{
		ID:       l.newID(),
		Amount:   core.RoundAmount(amount),
		Category: category,
		Date:     date,
		Note:     note,
		Currency: currency,
	}
	l.expenses = append(l.expenses, e)
	l.adapter.Save(ctx, persist.ExpensesKey(l.email), l.expenses)
	l.mu.Unlock()

	fields := log.NewFields().WithOperation(log.OpAppend).
		WithRecord(l.email, e.ID.String(), e.Amount.String(), string(e.Category))
	l.logger.InfoContext(ctx, "Expense added", fields.ToSlice()...)
	l.publish(ctx, events.Event{
		Type:     events.ExpenseAdded,
		Email:    l.email,
		RecordID: e.ID.String(),
		Amount:   e.Amount.String(),
		Category: string(e.Category),
		Currency: string(e.Currency),
	})
	return e
}

// AddIncome appends an income record and persists the full income collection.
func (l *Ledger) AddIncome(ctx context.Context, amount decimal.Decimal, note string, date time.Time) core.Income {
	l.mu.Lock()
	if date.IsZero() {
		date = l.now()
	}
	in := core.Income{
		ID:     l.newID(),
		Amount: core.RoundAmount(amount),
		Date:   date,
		Note:   note,
	}
	l.income = append(l.income, in)
	l.adapter.Save(ctx, persist.IncomeKey(l.email), l.income)
	l.mu.Unlock()

	fields := log.NewFields().WithOperation(log.OpAppend).
		WithRecord(l.email, in.ID.String(), in.Amount.String(), "")
	l.logger.InfoContext(ctx, "Income added", fields.ToSlice()...)
	l.publish(ctx, events.Event{
		Type:     events.IncomeAdded,
		Email:    l.email,
		RecordID: in.ID.String(),
		Amount:   in.Amount.String(),
	})
	return in
}

// SetCurrency changes and persists the display currency.
func (l *Ledger) SetCurrency(ctx context.Context, c core.Currency) error {
	if !c.Valid() {
		return core.ErrUnknownCurrency
	}
	l.mu.Lock()
	l.currency = c
	l.adapter.Save(ctx, persist.CurrencyKey(l.email), c)
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "Currency changed", log.FieldCurrency, string(c))
	l.publish(ctx, events.Event{Type: events.CurrencyChanged, Email: l.email, Currency: string(c)})
	return nil
}

// newID returns an identifier not yet used in this ledger. Callers hold mu.
func (l *Ledger) newID() uuid.UUID {
	for {
		id := uuid.New()
		if _, taken := l.ids[id]; !taken {
			l.ids[id] = struct{}{}
			return id
		}
	}
}

func (l *Ledger) publish(ctx context.Context, e events.Event) {
	if err := l.publisher.Publish(ctx, e); err != nil {
		l.logger.WarnContext(ctx, "Event publish failed", log.FieldEvent, string(e.Type), log.FieldError, err)
	}
}

func (l *Ledger) Email() string { return l.email }

func (l *Ledger) Calendar() aggregate.Calendar { return l.calendar }

func (l *Ledger) Currency() core.Currency {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currency
}

// Expenses returns a copy of every expense in insertion order.
func (l *Ledger) Expenses() []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Expense(nil), l.expenses...)
}

// Income returns a copy of every income record in insertion order.
func (l *Ledger) Income() []core.Income {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Income(nil), l.income...)
}
