package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PoolConfig holds the pool parameters. Written once at pool creation and
// mutable afterwards only through the owner-gated update operation.
type PoolConfig struct {
	Owner              string            `db:"owner"`
	StableDenom        string            `db:"stable_denom"`
	VaultAddress       string            `db:"vault_address"`
	CollectorAddress   string            `db:"collector_address"`
	DistributorAddress string            `db:"distributor_address"`
	LotteryInterval    time.Duration     `db:"lottery_interval"`
	BlockTime          time.Duration     `db:"block_time"`
	TicketPrice        decimal.Decimal   `db:"ticket_price"`
	PrizeDistribution  []decimal.Decimal `db:"prize_distribution"`
	ReserveFactor      decimal.Decimal   `db:"reserve_factor"`
	SplitFactor        decimal.Decimal   `db:"split_factor"`
	UnbondingPeriod    time.Duration     `db:"unbonding_period"`
}

// Validate checks the structural constraints on the pool parameters.
func (c *PoolConfig) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("pool owner must be set")
	}
	if c.StableDenom == "" {
		return fmt.Errorf("stable denom must be set")
	}
	if !c.TicketPrice.IsPositive() {
		return fmt.Errorf("ticket price must be positive, got %s", c.TicketPrice)
	}
	// One tier per possible match count, zero matches included.
	if len(c.PrizeDistribution) != SequenceDigits+1 {
		return fmt.Errorf("prize distribution must have %d tiers, got %d",
			SequenceDigits+1, len(c.PrizeDistribution))
	}
	sum := decimal.Zero
	for i, f := range c.PrizeDistribution {
		if f.IsNegative() {
			return fmt.Errorf("prize distribution tier %d is negative", i)
		}
		sum = sum.Add(f)
	}
	if sum.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("prize distribution fractions sum to %s, must not exceed 1", sum)
	}
	if c.ReserveFactor.IsNegative() || !c.ReserveFactor.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("reserve factor must be in [0, 1), got %s", c.ReserveFactor)
	}
	if c.SplitFactor.IsNegative() || c.SplitFactor.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("split factor must be in [0, 1], got %s", c.SplitFactor)
	}
	if c.LotteryInterval <= 0 {
		return fmt.Errorf("lottery interval must be positive")
	}
	if c.UnbondingPeriod < 0 {
		return fmt.Errorf("unbonding period must not be negative")
	}
	return nil
}

// HasCollaborators reports whether the collector and distributor have been
// registered. Registration is one-shot.
func (c *PoolConfig) HasCollaborators() bool {
	return c.CollectorAddress != "" || c.DistributorAddress != ""
}
