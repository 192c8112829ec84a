package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnbondingClaim is a withdrawn amount locked until its release time.
type UnbondingClaim struct {
	ID        int64           `db:"id"`
	Address   string          `db:"address"`
	Amount    decimal.Decimal `db:"amount"`
	ReleaseAt time.Time       `db:"release_at"`
	CreatedAt time.Time       `db:"created_at"`
}

// Matured reports whether the claim can be paid out at the given time.
func (c *UnbondingClaim) Matured(now time.Time) bool {
	return !now.Before(c.ReleaseAt)
}
