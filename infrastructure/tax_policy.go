package infrastructure

import (
	"context"

	"prizepool/domain/interfaces"

	"github.com/shopspring/decimal"
)

// CappedRateTaxPolicy deducts a proportional transfer tax up to a fixed cap.
// net = min(amount / (1 + rate) * rate, cap) subtracted from the amount, so
// sending `net` plus the tax never exceeds the original balance.
type CappedRateTaxPolicy struct {
	rate decimal.Decimal
	cap  decimal.Decimal
}

// NewCappedRateTaxPolicy creates a tax policy with the given rate and cap
func NewCappedRateTaxPolicy(rate, cap decimal.Decimal) interfaces.TaxPolicy {
	return &CappedRateTaxPolicy{rate: rate, cap: cap}
}

// NewZeroTaxPolicy creates a tax policy that deducts nothing
func NewZeroTaxPolicy() interfaces.TaxPolicy {
	return &CappedRateTaxPolicy{rate: decimal.Zero, cap: decimal.Zero}
}

// NetOf returns the amount remaining after the transfer tax
func (p *CappedRateTaxPolicy) NetOf(_ context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if p.rate.IsZero() || !amount.IsPositive() {
		return amount, nil
	}

	tax := amount.Sub(amount.Div(decimal.NewFromInt(1).Add(p.rate)))
	if tax.GreaterThan(p.cap) {
		tax = p.cap
	}
	return amount.Sub(tax), nil
}
