package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	AUD Currency = "AUD"
	CAD Currency = "CAD"
)

const (
	Housing        Category = "Housing"
	Utilities      Category = "Utilities"
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Healthcare     Category = "Healthcare"
	Entertainment  Category = "Entertainment"
	Other          Category = "Other"
)

// DefaultCurrency is the display currency of a ledger with no stored preference.
const DefaultCurrency = USD

type (
	Currency string

	Category string

	User struct {
		ID           uuid.UUID `json:"id"`
		Email        string    `json:"email"`
		Name         string    `json:"name"`
		PasswordHash string    `json:"password_hash"`
	}

	Expense struct {
		ID       uuid.UUID       `json:"id"`
		Amount   decimal.Decimal `json:"amount"`
		Category Category        `json:"category"`
		Date     time.Time       `json:"date"`
		Note     string          `json:"note"`
		Currency Currency        `json:"currency"`
	}

	Income struct {
		ID     uuid.UUID       `json:"id"`
		Amount decimal.Decimal `json:"amount"`
		Date   time.Time       `json:"date"`
		Note   string          `json:"note"`
	}

	// Dated is implemented by records that can be placed on a timeline.
	Dated interface {
		OccurredAt() time.Time
	}

	// Valued is implemented by records carrying an amount.
	Valued interface {
		Value() decimal.Decimal
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrZeroDate        = errors.New("date cannot be zero")
)

var (
	currencies = []Currency{USD, EUR, GBP, JPY, AUD, CAD}
	categories = []Category{Housing, Utilities, Food, Transportation, Healthcare, Entertainment, Other}

	symbols = map[Currency]string{
		USD: "$",
		EUR: "€",
		GBP: "£",
		JPY: "¥",
		AUD: "A$",
		CAD: "C$",
	}
)

// Currencies returns every supported currency in display order.
func Currencies() []Currency {
	return append([]Currency(nil), currencies...)
}

// Categories returns every expense category in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

func (c Currency) Valid() bool {
	_, ok := symbols[c]
	return ok
}

// Symbol returns the display symbol, e.g. "$" for USD.
func (c Currency) Symbol() string {
	return symbols[c]
}

// Label returns the picker label, e.g. "USD ($)".
func (c Currency) Label() string {
	return string(c) + " (" + c.Symbol() + ")"
}

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency accepts a tag ("usd") or a label ("USD ($)").
func ParseCurrency(s string) (Currency, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	c := Currency(strings.ToUpper(s))
	if !c.Valid() {
		return "", ErrUnknownCurrency
	}
	return c, nil
}

func (c Category) Valid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// NormalizeEmail case-folds an email so it can be used as a registry key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (e Expense) OccurredAt() time.Time  { return e.Date }
func (e Expense) Value() decimal.Decimal { return e.Amount }

func (i Income) OccurredAt() time.Time  { return i.Date }
func (i Income) Value() decimal.Decimal { return i.Amount }

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrUnknownCategory
	}
	if !e.Currency.Valid() {
		return ErrUnknownCurrency
	}
	return nil
}

func (i Income) Validate() error {
	if i.Date.IsZero() {
		return ErrZeroDate
	}
	if !i.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
