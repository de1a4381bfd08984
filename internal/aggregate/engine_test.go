package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/core"
)

var utc = Calendar{Location: time.UTC, WeekStart: time.Sunday}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expense(amount string, c core.Category, when string) core.Expense {
	return core.Expense{
		ID:       uuid.New(),
		Amount:   dec(amount),
		Category: c,
		Date:     at(when),
		Currency: core.USD,
	}
}

func stamps(es []core.Expense) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Date.Format("01-02T15:04:05"))
	}
	return out
}

func TestDailyWindowIsInclusiveOnBothEnds(t *testing.T) {
	records := []core.Expense{
		expense("1", core.Food, "2024-03-14T23:59:59"),
		expense("2", core.Food, "2024-03-15T00:00:00"),
		expense("3", core.Food, "2024-03-15T23:59:59"),
		expense("4", core.Food, "2024-03-16T00:00:00"),
		expense("5", core.Food, "2024-03-16T00:00:01"),
	}

	got := Filter(records, utc, Daily(), at("2024-03-15T10:00:00"))
	assert.Equal(t, []string{"03-15T00:00:00", "03-15T23:59:59", "03-16T00:00:00"}, stamps(got))

	// The midnight record belongs to the next day as well.
	next := Filter(records, utc, Daily(), at("2024-03-16T08:00:00"))
	assert.Equal(t, []string{"03-16T00:00:00", "03-16T00:00:01"}, stamps(next))
}

func TestRanges(t *testing.T) {
	ref := at("2024-03-15T10:00:00") // a Friday
	monday := Calendar{Location: time.UTC, WeekStart: time.Monday}

	cases := []struct {
		name       string
		cal        Calendar
		iv         Interval
		ref        time.Time
		start, end string
	}{
		{"daily", utc, Daily(), ref, "2024-03-15T00:00:00", "2024-03-16T00:00:00"},
		{"weekly sunday", utc, Weekly(), ref, "2024-03-10T00:00:00", "2024-03-17T00:00:00"},
		{"weekly monday", monday, Weekly(), ref, "2024-03-11T00:00:00", "2024-03-18T00:00:00"},
		{"weekly on week start", utc, Weekly(), at("2024-03-10T00:00:00"), "2024-03-10T00:00:00", "2024-03-17T00:00:00"},
		{"monthly leap february", utc, Monthly(), at("2024-02-10T12:00:00"), "2024-02-01T00:00:00", "2024-03-01T00:00:00"},
		{"monthly december", utc, Monthly(), at("2023-12-31T23:00:00"), "2023-12-01T00:00:00", "2024-01-01T00:00:00"},
		{"custom", utc, Custom(at("2024-01-01T00:00:00"), at("2024-01-05T00:00:00")), ref, "2024-01-01T00:00:00", "2024-01-05T00:00:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := tc.cal.Range(tc.iv, tc.ref)
			assert.True(t, start.Equal(at(tc.start)), "start %s", start)
			assert.True(t, end.Equal(at(tc.end)), "end %s", end)
		})
	}
}

func TestRangeUsesCalendarZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	cal := Calendar{Location: tokyo, WeekStart: time.Sunday}

	// 20:00 UTC on the 15th is already the 16th in Tokyo.
	start, end := cal.Range(Daily(), at("2024-03-15T20:00:00"))
	assert.True(t, start.Equal(time.Date(2024, 3, 16, 0, 0, 0, 0, tokyo)))
	assert.True(t, end.Equal(time.Date(2024, 3, 17, 0, 0, 0, 0, tokyo)))
}

func TestCustomReversedIsEmpty(t *testing.T) {
	records := []core.Expense{expense("1", core.Food, "2024-03-15T10:00:00")}
	t1, t2 := at("2024-03-01T00:00:00"), at("2024-03-31T00:00:00")

	got := Filter(records, utc, Custom(t2, t1), at("2024-03-15T00:00:00"))
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Len(t, Filter(records, utc, Custom(t1, t2), time.Time{}), 1)
}

func TestCustomSingleInstant(t *testing.T) {
	records := []core.Expense{expense("1", core.Food, "2024-03-15T10:00:00")}
	instant := at("2024-03-15T10:00:00")
	assert.Len(t, Filter(records, utc, Custom(instant, instant), time.Time{}), 1)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := []core.Expense{
		expense("1", core.Food, "2024-03-15T10:00:00"),
		expense("2", core.Food, "2024-04-15T10:00:00"),
	}
	before := append([]core.Expense(nil), records...)
	Filter(records, utc, Monthly(), at("2024-03-01T00:00:00"))
	assert.Equal(t, before, records)
}

func TestTotals(t *testing.T) {
	records := []core.Expense{
		expense("10.25", core.Food, "2024-03-01T09:00:00"),
		expense("4.75", core.Food, "2024-03-02T09:00:00"),
		expense("1200", core.Housing, "2024-03-03T09:00:00"),
	}

	assert.True(t, TotalOf(records).Equal(dec("1215")))
	assert.True(t, TotalOf([]core.Expense{}).IsZero())

	byCat := TotalsByCategory(records)
	assert.Len(t, byCat, 2)
	assert.True(t, byCat[core.Food].Equal(dec("15")))
	assert.True(t, byCat[core.Housing].Equal(dec("1200")))
	_, ok := byCat[core.Healthcare]
	assert.False(t, ok, "categories without expenses must be absent")

	assert.True(t, CategoryTotal(records, core.Food).Equal(dec("15")))
	assert.True(t, CategoryTotal(records, core.Other).IsZero())
}

func TestBalanceMayBeNegative(t *testing.T) {
	assert.True(t, Balance(dec("100"), dec("250.50")).Equal(dec("-150.50")))
	assert.True(t, Balance(dec("0"), dec("0")).IsZero())
}

func TestCategoryTotalsSumToTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cats := core.Categories()
	base := at("2024-01-01T00:00:00")

	var records []core.Expense
	for i := 0; i < 500; i++ {
		records = append(records, core.Expense{
			ID:       uuid.New(),
			Amount:   decimal.New(rng.Int63n(100000), -2),
			Category: cats[rng.Intn(len(cats))],
			Date:     base.Add(time.Duration(rng.Int63n(int64(365 * 24 * time.Hour)))),
		})
	}

	windows := []Interval{Daily(), Weekly(), Monthly(), Custom(at("2024-02-01T00:00:00"), at("2024-08-01T00:00:00"))}
	for _, iv := range windows {
		for _, ref := range []time.Time{at("2024-03-15T10:00:00"), at("2024-11-02T00:00:00")} {
			subset := Filter(records, utc, iv, ref)
			sum := decimal.Zero
			for _, v := range TotalsByCategory(subset) {
				sum = sum.Add(v)
			}
			assert.True(t, sum.Equal(TotalOf(subset)), "%s at %s", iv, ref)
		}
	}
}

func TestBreakdown(t *testing.T) {
	shares := Breakdown(map[core.Category]decimal.Decimal{
		core.Food:    dec("30"),
		core.Housing: dec("70"),
		core.Other:   dec("0"),
	})
	require.Len(t, shares, 2)
	assert.Equal(t, core.Housing, shares[0].Category)
	assert.True(t, shares[0].Percent.Equal(dec("70")))
	assert.Equal(t, core.Food, shares[1].Category)
	assert.True(t, shares[1].Percent.Equal(dec("30")))

	thirds := Breakdown(map[core.Category]decimal.Decimal{
		core.Food: dec("1"), core.Utilities: dec("1"), core.Healthcare: dec("1"),
	})
	require.Len(t, thirds, 3)
	for _, s := range thirds {
		assert.True(t, s.Percent.Equal(dec("33.3")), "got %s", s.Percent)
	}

	assert.Empty(t, Breakdown(nil))
}

func TestSummarize(t *testing.T) {
	expenses := []core.Expense{
		expense("20", core.Food, "2024-03-15T12:00:00"),
		expense("80", core.Transportation, "2024-03-15T18:00:00"),
		expense("999", core.Housing, "2024-02-01T00:00:00"),
	}
	income := []core.Income{
		{ID: uuid.New(), Amount: dec("50"), Date: at("2024-03-15T09:00:00")},
		{ID: uuid.New(), Amount: dec("5000"), Date: at("2024-01-31T09:00:00")},
	}

	s := Summarize(utc, Daily(), at("2024-03-15T10:00:00"), expenses, income)
	assert.Len(t, s.Expenses, 2)
	assert.Len(t, s.Income, 1)
	assert.True(t, s.TotalExpenses.Equal(dec("100")))
	assert.True(t, s.TotalIncome.Equal(dec("50")))
	assert.True(t, s.Balance.Equal(dec("-50")))
	assert.Equal(t, KindDaily, s.Interval.Kind())
	assert.False(t, s.AllTime)
	require.Len(t, s.Shares, 2)
	assert.Equal(t, core.Food, s.Shares[0].Category)

	all := SummarizeAll(expenses, income)
	assert.True(t, all.AllTime)
	assert.True(t, all.TotalExpenses.Equal(dec("1099")))
	assert.True(t, all.Balance.Equal(dec("3951")))
}

func TestIntervalParsingAndEquality(t *testing.T) {
	for in, want := range map[string]Kind{"daily": KindDaily, "Week": KindWeekly, "monthly": KindMonthly} {
		iv, err := ParseInterval(in)
		require.NoError(t, err)
		assert.Equal(t, want, iv.Kind())
	}
	_, err := ParseInterval("yearly")
	assert.ErrorIs(t, err, ErrUnknownInterval)

	a, b := at("2024-01-01T00:00:00"), at("2024-01-02T00:00:00")
	assert.True(t, Custom(a, b).Equal(Custom(a, b)))
	assert.False(t, Custom(a, b).Equal(Custom(a, a)))
	assert.True(t, Daily().Equal(Daily()))
	assert.False(t, Daily().Equal(Weekly()))

	_, _, ok := Daily().Bounds()
	assert.False(t, ok)
	start, end, ok := Custom(a, b).Bounds()
	assert.True(t, ok)
	assert.Equal(t, a, start)
	assert.Equal(t, b, end)
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)
	d, err = ParseWeekday("sat")
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, d)
	_, err = ParseWeekday("funday")
	assert.ErrorIs(t, err, ErrUnknownWeekday)
}

func TestUnparsedIntervalSelectsNothing(t *testing.T) {
	expenses := []core.Expense{
		expense("20", core.Food, "2024-03-15T12:00:00"),
		{ID: uuid.New(), Amount: dec("7"), Category: core.Other},
	}
	income := []core.Income{{ID: uuid.New(), Amount: dec("50"), Date: at("2024-03-15T09:00:00")}}
	ref := at("2024-03-15T10:00:00")

	iv, err := ParseInterval("fortnightly")
	require.ErrorIs(t, err, ErrUnknownInterval)
	assert.Equal(t, KindUnknown, iv.Kind())
	assert.False(t, iv.Valid())
	assert.Equal(t, "unknown", iv.String())
	assert.False(t, iv.Equal(Daily()))

	assert.Empty(t, Filter(expenses, utc, iv, ref))

	s := Summarize(utc, iv, ref, expenses, income)
	assert.Empty(t, s.Expenses)
	assert.Empty(t, s.Income)
	assert.True(t, s.Balance.IsZero())

	for _, valid := range []Interval{Daily(), Weekly(), Monthly(), Custom(ref, ref)} {
		assert.True(t, valid.Valid(), valid.String())
	}
}
