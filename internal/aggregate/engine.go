// Package aggregate filters ledger records by time window and reduces them
// to totals. Every function here is a pure read: inputs are never modified
// and nothing touches storage.
//
// Summaries at any granularity are one composition:
//
//	TotalsByCategory(Filter(expenses, cal, Monthly(), now))
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"budgetbuddy/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Between returns the records dated within [start, end], both inclusive,
// in their original order. start after end yields an empty result.
func Between[T core.Dated](records []T, start, end time.Time) []T {
	out := make([]T, 0)
	if start.After(end) {
		return out
	}
	for _, r := range records {
		d := r.OccurredAt()
		if !d.Before(start) && !d.After(end) {
			out = append(out, r)
		}
	}
	return out
}

// Filter selects the records falling into iv resolved against ref. An
// invalid interval selects nothing.
func Filter[T core.Dated](records []T, cal Calendar, iv Interval, ref time.Time) []T {
	if !iv.Valid() {
		return make([]T, 0)
	}
	start, end := cal.Range(iv, ref)
	return Between(records, start, end)
}

// TotalOf sums the amounts. An empty input totals zero.
func TotalOf[T core.Valued](records []T) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Value())
	}
	return total
}

// TotalsByCategory sums expense amounts per category. Categories without
// expenses are absent from the result, so look-ups must default to zero.
func TotalsByCategory(expenses []core.Expense) map[core.Category]decimal.Decimal {
	totals := make(map[core.Category]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// CategoryTotal sums the expenses of a single category.
func CategoryTotal(expenses []core.Expense, category core.Category) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Category == category {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Balance is income minus expenses. It is not clamped.
func Balance(totalIncome, totalExpenses decimal.Decimal) decimal.Decimal {
	return totalIncome.Sub(totalExpenses)
}

// Breakdown orders positive category totals by category declaration order
// and attaches each one's share of the overall total, rounded to one
// fractional digit.
func Breakdown(totals map[core.Category]decimal.Decimal) []core.CategoryShare {
	sum := decimal.Zero
	for _, v := range totals {
		if v.IsPositive() {
			sum = sum.Add(v)
		}
	}
	shares := make([]core.CategoryShare, 0, len(totals))
	if !sum.IsPositive() {
		return shares
	}
	for _, c := range core.Categories() {
		v, ok := totals[c]
		if !ok || !v.IsPositive() {
			continue
		}
		shares = append(shares, core.CategoryShare{
			CategoryAmount: core.CategoryAmount{Category: c, Amount: v},
			Percent:        v.Mul(hundred).Div(sum).Round(1),
		})
	}
	return shares
}

// Summary is everything a period view renders.
type Summary struct {
	Interval      Interval
	AllTime       bool
	Start, End    time.Time // zero when AllTime
	Expenses      []core.Expense
	Income        []core.Income
	TotalExpenses decimal.Decimal
	TotalIncome   decimal.Decimal
	Balance       decimal.Decimal
	ByCategory    map[core.Category]decimal.Decimal
	Shares        []core.CategoryShare
}

// Summarize reduces the expenses and income falling into iv at ref.
func Summarize(cal Calendar, iv Interval, ref time.Time, expenses []core.Expense, income []core.Income) Summary {
	s := summarize(Filter(expenses, cal, iv, ref), Filter(income, cal, iv, ref))
	start, end := cal.Range(iv, ref)
	s.Interval = iv
	s.Start, s.End = start, end
	return s
}

// SummarizeAll reduces every record regardless of date.
func SummarizeAll(expenses []core.Expense, income []core.Income) Summary {
	s := summarize(
		append([]core.Expense(nil), expenses...),
		append([]core.Income(nil), income...),
	)
	s.AllTime = true
	return s
}

func summarize(expenses []core.Expense, income []core.Income) Summary {
	totalExpenses := TotalOf(expenses)
	totalIncome := TotalOf(income)
	byCategory := TotalsByCategory(expenses)
	return Summary{
		Expenses:      expenses,
		Income:        income,
		TotalExpenses: totalExpenses,
		TotalIncome:   totalIncome,
		Balance:       Balance(totalIncome, totalExpenses),
		ByCategory:    byCategory,
		Shares:        Breakdown(byCategory),
	}
}
