package shell

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"budgetbuddy/internal/account"
	"budgetbuddy/internal/aggregate"
	"budgetbuddy/internal/core"
)

func (s *Shell) signup(ctx context.Context, args []string) error {
	var email, name string
	var err error
	if len(args) > 0 {
		email = args[0]
	} else if email, err = s.prompt("Email"); err != nil {
		return err
	}
	if len(args) > 1 {
		name = strings.Join(args[1:], " ")
	} else if name, err = s.prompt("Name"); err != nil {
		return err
	}
	password, err := s.readPassword()
	if err != nil {
		return err
	}

	u, err := s.accounts.Signup(ctx, email, name, password)
	if err != nil {
		s.printf("%s\n", account.UserMessage(err))
		return nil
	}
	s.enter(ctx, u)
	s.printf("Welcome, %s!\n", u.Name)
	return nil
}

func (s *Shell) login(ctx context.Context, args []string) error {
	var email string
	var err error
	if len(args) > 0 {
		email = args[0]
	} else if email, err = s.prompt("Email"); err != nil {
		return err
	}
	password, err := s.readPassword()
	if err != nil {
		return err
	}

	u, err := s.accounts.Login(ctx, email, password)
	if err != nil {
		s.printf("%s\n", account.UserMessage(err))
		return nil
	}
	s.enter(ctx, u)
	s.printf("Welcome back, %s!\n", u.Name)
	return nil
}

func (s *Shell) enter(ctx context.Context, u core.User) {
	s.ledger = s.ledgers.Open(ctx, u.Email)
	s.selected = time.Time{}
	s.dirty = false
}

func (s *Shell) logout(ctx context.Context) {
	s.accounts.Logout(ctx)
	s.ledger = nil
	s.selected = time.Time{}
	s.printf("Logged out.\n")
}

func (s *Shell) whoami() {
	u, ok := s.accounts.Current()
	if !ok || s.ledger == nil {
		s.printf("Not logged in.\n")
		return
	}
	s.printf("%s <%s>, currency %s\n", u.Name, u.Email, s.ledger.Currency().Label())
}

func (s *Shell) categories() {
	for _, c := range core.Categories() {
		s.printf("  %s\n", c)
	}
}

func (s *Shell) currencies() {
	for _, c := range core.Currencies() {
		s.printf("  %s  %s\n", c.Symbol(), c.Label())
	}
}

// requireLedger reports whether someone is signed in, telling the user otherwise.
func (s *Shell) requireLedger() bool {
	if s.ledger == nil {
		s.printf("Please log in first.\n")
		return false
	}
	return true
}

func (s *Shell) expense(ctx context.Context, args []string) {
	if !s.requireLedger() {
		return
	}
	if len(args) < 2 {
		s.printf("Usage: expense <amount> <category> [note...]\n")
		return
	}
	amount, ok := s.amount(args[0])
	if !ok {
		return
	}
	category, err := core.ParseCategory(args[1])
	if err != nil {
		s.printf("Unknown category %q. Type 'categories' to list them.\n", args[1])
		return
	}

	e := s.ledger.AddExpense(ctx, amount, category, strings.Join(args[2:], " "), s.recordDate(), "")
	s.printf("Added %s expense of %s on %s.\n",
		e.Category, core.FormatAmount(e.Amount, e.Currency), s.day(e.Date))
}

func (s *Shell) income(ctx context.Context, args []string) {
	if !s.requireLedger() {
		return
	}
	if len(args) < 1 {
		s.printf("Usage: income <amount> [note...]\n")
		return
	}
	amount, ok := s.amount(args[0])
	if !ok {
		return
	}

	in := s.ledger.AddIncome(ctx, amount, strings.Join(args[1:], " "), s.recordDate())
	s.printf("Added income of %s on %s.\n", s.money(in.Amount), s.day(in.Date))
}

func (s *Shell) amount(arg string) (decimal.Decimal, bool) {
	amount, err := core.ParseAmount(arg)
	if err != nil {
		s.printf("Invalid amount %q. Enter a positive number such as 12.50 or 12,50.\n", arg)
		return decimal.Zero, false
	}
	return amount, true
}

func (s *Shell) currency(ctx context.Context, args []string) {
	if !s.requireLedger() {
		return
	}
	if len(args) == 0 {
		s.printf("Currency: %s\n", s.ledger.Currency().Label())
		return
	}
	c, err := core.ParseCurrency(strings.Join(args, " "))
	if err == nil {
		err = s.ledger.SetCurrency(ctx, c)
	}
	if err != nil {
		s.printf("Unknown currency %q. Type 'currencies' to list them.\n", strings.Join(args, " "))
		return
	}
	s.printf("Currency set to %s.\n", c.Label())
}

func (s *Shell) date(args []string) {
	if len(args) == 0 {
		s.printf("Date: %s\n", s.day(s.reference()))
		return
	}
	if strings.EqualFold(args[0], "today") {
		s.selected = time.Time{}
		s.printf("Date: %s\n", s.day(s.reference()))
		return
	}
	d, err := s.parseDay(args[0])
	if err != nil {
		s.printf("Invalid date %q. Use YYYY-MM-DD or 'today'.\n", args[0])
		return
	}
	s.selected = d
	s.printf("Date: %s\n", s.day(d))
}

func (s *Shell) summary(args []string) {
	if !s.requireLedger() {
		return
	}
	sum, ok := s.window(args, "summary")
	if !ok {
		return
	}

	s.printf("%s\n", s.heading(sum))
	s.printf("  Income:   %s\n", s.money(sum.TotalIncome))
	s.printf("  Expenses: %s\n", s.money(sum.TotalExpenses))
	s.printf("  Balance:  %s\n", s.money(sum.Balance))
	if len(sum.Shares) == 0 {
		s.printf("  No expenses.\n")
		return
	}
	s.printf("  By category:\n")
	for _, share := range sum.Shares {
		s.printf("    %-15s %12s %6s%%\n", share.Category, s.money(share.Amount), share.Percent.StringFixed(1))
	}
}

func (s *Shell) list(args []string) {
	if !s.requireLedger() {
		return
	}
	if len(args) == 0 {
		args = []string{"all"}
	}
	sum, ok := s.window(args, "list")
	if !ok {
		return
	}

	s.printf("%s\n", s.heading(sum))
	if len(sum.Expenses) == 0 && len(sum.Income) == 0 {
		s.printf("  Nothing recorded.\n")
		return
	}
	for _, e := range sum.Expenses {
		s.printf("  %s  %-15s %12s  %s\n", s.day(e.Date), e.Category, core.FormatAmount(e.Amount, e.Currency), e.Note)
	}
	for _, in := range sum.Income {
		s.printf("  %s  %-15s %12s  %s\n", s.day(in.Date), "Income", s.money(in.Amount), in.Note)
	}
}

// window resolves "[daily|weekly|monthly|all] [YYYY-MM-DD]" or
// "custom FROM TO" into a summary of the signed-in ledger.
func (s *Shell) window(args []string, cmd string) (aggregate.Summary, bool) {
	usage := func() (aggregate.Summary, bool) {
		s.printf("Usage: %s [daily|weekly|monthly|all] [YYYY-MM-DD] | %s custom <from> <to>\n", cmd, cmd)
		return aggregate.Summary{}, false
	}

	kind := "monthly"
	if len(args) > 0 {
		kind = strings.ToLower(args[0])
		args = args[1:]
	}

	switch kind {
	case "all":
		if len(args) != 0 {
			return usage()
		}
		return s.ledger.SummaryAll(), true
	case "custom":
		if len(args) != 2 {
			return usage()
		}
		from, err1 := s.parseDay(args[0])
		to, err2 := s.parseDay(args[1])
		if err := errors.Join(err1, err2); err != nil {
			s.printf("Invalid date. Use YYYY-MM-DD.\n")
			return aggregate.Summary{}, false
		}
		// the last day counts in full, like a daily window
		end := to.AddDate(0, 0, 1)
		if to.Before(from) {
			end = to
		}
		iv := aggregate.Custom(from, end)
		return s.ledger.Summary(iv, from), true
	}

	iv, err := aggregate.ParseInterval(kind)
	if err != nil || len(args) > 1 {
		return usage()
	}
	ref := s.reference()
	if len(args) == 1 {
		if ref, err = s.parseDay(args[0]); err != nil {
			s.printf("Invalid date %q. Use YYYY-MM-DD.\n", args[0])
			return aggregate.Summary{}, false
		}
	}
	return s.ledger.Summary(iv, ref), true
}

func (s *Shell) heading(sum aggregate.Summary) string {
	if sum.AllTime {
		return "All time"
	}
	name := sum.Interval.Kind().String()
	name = strings.ToUpper(name[:1]) + name[1:]
	end := sum.End
	if sum.Interval.Kind() == aggregate.KindCustom {
		end = end.AddDate(0, 0, -1)
	}
	return name + ": " + s.day(sum.Start) + " to " + s.day(end)
}

func (s *Shell) money(d decimal.Decimal) string {
	return core.FormatAmount(d, s.ledger.Currency())
}

func (s *Shell) location() *time.Location {
	if s.calendar.Location == nil {
		return time.Local
	}
	return s.calendar.Location
}

func (s *Shell) parseDay(v string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, v, s.location())
}

func (s *Shell) day(t time.Time) string {
	return t.In(s.location()).Format(dateLayout)
}

// reference is the selected date, or now when none is selected.
func (s *Shell) reference() time.Time {
	if s.selected.IsZero() {
		return s.now()
	}
	return s.selected
}

// recordDate stamps new records with the selected day at the current time
// of day. Without a selection the ledger uses its own clock.
func (s *Shell) recordDate() time.Time {
	if s.selected.IsZero() {
		return time.Time{}
	}
	now := s.now().In(s.location())
	y, m, d := s.selected.Date()
	return time.Date(y, m, d, now.Hour(), now.Minute(), now.Second(), 0, s.location())
}
