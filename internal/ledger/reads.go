package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"budgetbuddy/internal/aggregate"
	"budgetbuddy/internal/core"
)

func (l *Ledger) ExpensesIn(iv aggregate.Interval, ref time.Time) []core.Expense {
	return aggregate.Filter(l.Expenses(), l.calendar, iv, ref)
}

func (l *Ledger) IncomeIn(iv aggregate.Interval, ref time.Time) []core.Income {
	return aggregate.Filter(l.Income(), l.calendar, iv, ref)
}

func (l *Ledger) TotalExpenses() decimal.Decimal {
	return aggregate.TotalOf(l.Expenses())
}

func (l *Ledger) TotalIncome() decimal.Decimal {
	return aggregate.TotalOf(l.Income())
}

// Balance is computed on every call from the current records.
func (l *Ledger) Balance() decimal.Decimal {
	return aggregate.Balance(l.TotalIncome(), l.TotalExpenses())
}

// CategoryTotal sums all expenses of one category, regardless of date.
func (l *Ledger) CategoryTotal(c core.Category) decimal.Decimal {
	return aggregate.CategoryTotal(l.Expenses(), c)
}

func (l *Ledger) Summary(iv aggregate.Interval, ref time.Time) aggregate.Summary {
	return aggregate.Summarize(l.calendar, iv, ref, l.Expenses(), l.Income())
}

func (l *Ledger) SummaryAll() aggregate.Summary {
	return aggregate.SummarizeAll(l.Expenses(), l.Income())
}
