// Package shell is a line-oriented front end over the account and ledger
// stores. It parses user input, calls into the core and renders results.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"budgetbuddy/internal/account"
	"budgetbuddy/internal/aggregate"
	"budgetbuddy/internal/events"
	"budgetbuddy/internal/ledger"
	"budgetbuddy/internal/log"
)

const dateLayout = "2006-01-02"

var errQuit = errors.New("quit")

type Shell struct {
	accounts  *account.Store
	ledgers   *ledger.Registry
	bus       *events.Bus
	logger    *log.Logger
	in        *bufio.Scanner
	out       io.Writer
	passwords PasswordReader
	now       func() time.Time
	calendar  aggregate.Calendar

	ledger   *ledger.Ledger
	selected time.Time // zero means today
	dirty    bool
}

type Option func(*Shell)

// WithPasswordReader reads passwords through r instead of the input stream.
func WithPasswordReader(r PasswordReader) Option {
	return func(s *Shell) { s.passwords = r }
}

// WithBus lets the shell refresh the balance after ledger changes.
func WithBus(b *events.Bus) Option {
	return func(s *Shell) { s.bus = b }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// WithCalendar sets the zone used to read dates typed by the user.
func WithCalendar(c aggregate.Calendar) Option {
	return func(s *Shell) { s.calendar = c }
}

func New(accounts *account.Store, ledgers *ledger.Registry, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		accounts: accounts,
		ledgers:  ledgers,
		logger:   log.Discard(),
		in:       bufio.NewScanner(in),
		out:      out,
		now:      time.Now,
		calendar: aggregate.DefaultCalendar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentShell)
	return s
}

// Run reads commands until quit, end of input or ctx is done. Whoever is
// still signed in is logged out before Run returns.
func (s *Shell) Run(ctx context.Context) error {
	if s.bus != nil {
		unsubscribe := s.bus.Subscribe(s.observe)
		defer unsubscribe()
	}
	defer s.endSession(context.WithoutCancel(ctx))

	s.printf("BudgetBuddy. Type 'help' for commands.\n")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printf("> ")
		line, err := s.readLine()
		if err == io.EOF {
			s.printf("\n")
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		err = s.dispatch(ctx, strings.ToLower(fields[0]), fields[1:])
		if errors.Is(err, errQuit) {
			s.printf("Bye.\n")
			return nil
		}
		if err == io.EOF {
			s.printf("\n")
			return nil
		}
		if err != nil {
			return err
		}
		s.refresh()
	}
}

func (s *Shell) dispatch(ctx context.Context, cmd string, args []string) error {
	s.logger.DebugContext(ctx, "Command", log.FieldCommand, cmd)
	switch cmd {
	case "help", "?":
		s.help()
	case "quit", "exit":
		return errQuit
	case "signup":
		return s.signup(ctx, args)
	case "login":
		return s.login(ctx, args)
	case "logout":
		s.logout(ctx)
	case "whoami":
		s.whoami()
	case "categories":
		s.categories()
	case "currencies":
		s.currencies()
	case "expense":
		s.expense(ctx, args)
	case "income":
		s.income(ctx, args)
	case "currency":
		s.currency(ctx, args)
	case "date":
		s.date(args)
	case "summary":
		s.summary(args)
	case "list":
		s.list(args)
	default:
		s.printf("Unknown command %q. Type 'help' for commands.\n", cmd)
	}
	return nil
}

// observe marks the view stale when the signed-in ledger changes.
func (s *Shell) observe(e events.Event) {
	if s.ledger == nil || e.Email != s.ledger.Email() {
		return
	}
	switch e.Type {
	case events.ExpenseAdded, events.IncomeAdded, events.CurrencyChanged:
		s.dirty = true
	}
}

func (s *Shell) endSession(ctx context.Context) {
	if _, ok := s.accounts.Current(); !ok {
		return
	}
	s.accounts.Logout(ctx)
	s.ledger = nil
	s.selected = time.Time{}
	s.dirty = false
}

func (s *Shell) refresh() {
	if !s.dirty || s.ledger == nil {
		return
	}
	s.dirty = false
	s.printf("Balance: %s\n", s.money(s.ledger.Balance()))
}

func (s *Shell) readLine() (string, error) {
	if s.in.Scan() {
		return strings.TrimSpace(s.in.Text()), nil
	}
	if err := s.in.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *Shell) prompt(label string) (string, error) {
	s.printf("%s: ", label)
	return s.readLine()
}

func (s *Shell) readPassword() (string, error) {
	s.printf("Password: ")
	if s.passwords == nil {
		return s.readLine()
	}
	pw, err := s.passwords.ReadPassword()
	s.printf("\n")
	return pw, err
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) help() {
	s.printf(`Commands:
  signup [email] [name...]              create an account and sign in
  login [email]                         sign in
  logout                                sign out
  whoami                                show the signed-in user
  expense <amount> <category> [note...] record an expense on the selected date
  income <amount> [note...]             record income on the selected date
  currency [code]                       show or change the display currency
  date [YYYY-MM-DD|today]               show or select the date for new records
  summary [daily|weekly|monthly|all] [YYYY-MM-DD]
  summary custom <from> <to>            totals and category breakdown
  list [daily|weekly|monthly|all] [YYYY-MM-DD]
  categories                            list expense categories
  currencies                            list currencies
  help                                  show this help
  quit                                  leave
`)
}
