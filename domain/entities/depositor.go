package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Depositor is the per-account ledger record. Created on first deposit and
// never deleted; a full withdrawal zeroes the amounts instead.
//
// Tickets and UnbondingClaims are stored in their own tables and populated
// only on read paths that need the full record.
type Depositor struct {
	Address       string          `db:"address"`
	DepositAmount decimal.Decimal `db:"deposit_amount"` // gross, pre-tax
	Shares        decimal.Decimal `db:"shares"`
	Redeemable    decimal.Decimal `db:"redeemable"` // won prizes not yet claimed
	CreatedAt     time.Time       `db:"created_at"`

	Tickets         []string
	UnbondingClaims []UnbondingClaim
}

// HasDeposits reports whether the depositor currently owns pool shares.
func (d *Depositor) HasDeposits() bool {
	return d.Shares.IsPositive()
}
