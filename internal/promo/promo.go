// Package promo validates promo codes and computes discounted totals.
package promo

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/reefcrew/seabooking/internal/domain"
)

// Result is the outcome of applying a valid code to a base amount.
type Result struct {
	FinalCents    int64
	DiscountCents int64
	Label         string
}

// Engine looks codes up case-insensitively against an injected table.
// One code per booking, no expiry, no stacking.
type Engine struct {
	codes map[string]domain.PromoCode
}

func NewEngine(codes []domain.PromoCode) *Engine {
	m := make(map[string]domain.PromoCode, len(codes))
	for _, c := range codes {
		m[strings.ToUpper(c.Code)] = c
	}
	return &Engine{codes: m}
}

// DefaultCodes is the static catalog.
func DefaultCodes() []domain.PromoCode {
	return []domain.PromoCode{
		{Code: "CREW25", Fraction: decimal.NewFromFloat(0.25), Label: "Crew Discount (25%)"},
		{Code: "PARADISE10", Fraction: decimal.NewFromFloat(0.10), Label: "Paradise Deal (10%)"},
		{Code: "SUNSET15", Fraction: decimal.NewFromFloat(0.15), Label: "Sunset Special (15%)"},
		{Code: "FOILTRIBE20", Fraction: decimal.NewFromFloat(0.20), Label: "Foil Tribe (20%)"},
	}
}

// Apply returns the discounted amount for a known code, or ok=false for an
// unknown one. An unknown code means no discount applied, not an error.
func (e *Engine) Apply(code string, baseAmountCents int64) (*Result, bool) {
	entry, ok := e.codes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, false
	}
	discount := decimal.NewFromInt(baseAmountCents).Mul(entry.Fraction).Round(0).IntPart()
	return &Result{
		FinalCents:    baseAmountCents - discount,
		DiscountCents: discount,
		Label:         entry.Label,
	}, true
}
