package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// CategoryShare is a category's slice of a spending breakdown.
type CategoryShare struct {
	CategoryAmount
	Percent decimal.Decimal // 0-100, one fractional digit
}
