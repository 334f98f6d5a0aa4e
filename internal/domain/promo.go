package domain

import "github.com/shopspring/decimal"

// PromoCode is read-only reference data.
type PromoCode struct {
	Code     string
	Fraction decimal.Decimal // e.g. 0.25 for 25% off
	Label    string
}
