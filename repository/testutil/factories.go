package testutil

import (
	"time"

	"prizepool/domain/entities"

	"github.com/shopspring/decimal"
)

// CreateTestPoolConfig creates a pool config with sensible defaults: 100 per
// ticket, one week between draws, quarter reserve factor and a 75/25 split
// toward the lottery pot.
func CreateTestPoolConfig(owner string) *entities.PoolConfig {
	return &entities.PoolConfig{
		Owner:           owner,
		StableDenom:     "uusd",
		VaultAddress:    "vault0000",
		LotteryInterval: 7 * 24 * time.Hour,
		BlockTime:       6 * time.Second,
		TicketPrice:     decimal.NewFromInt(100),
		PrizeDistribution: []decimal.Decimal{
			decimal.Zero,
			decimal.Zero,
			decimal.RequireFromString("0.05"),
			decimal.RequireFromString("0.15"),
			decimal.RequireFromString("0.3"),
			decimal.RequireFromString("0.5"),
		},
		ReserveFactor:   decimal.RequireFromString("0.25"),
		SplitFactor:     decimal.RequireFromString("0.75"),
		UnbondingPeriod: 21 * 24 * time.Hour,
	}
}

// CreateTestPoolState creates a fresh pool state whose first draw is due at
// the given time
func CreateTestPoolState(nextDraw time.Time) *entities.PoolState {
	return &entities.PoolState{
		TotalReserve:    decimal.Zero,
		LotteryDeposits: decimal.Zero,
		SharesSupply:    decimal.Zero,
		DepositShares:   decimal.Zero,
		AwardAvailable:  decimal.Zero,
		CurrentBalance:  decimal.Zero,
		NextDrawTime:    nextDraw,
		DrawPhase:       entities.DrawPhaseIdle,
	}
}

// CreateTestDepositor creates a depositor record with the given share balance
func CreateTestDepositor(address string, deposit, shares decimal.Decimal) *entities.Depositor {
	return &entities.Depositor{
		Address:       address,
		DepositAmount: deposit,
		Shares:        shares,
		Redeemable:    decimal.Zero,
		CreatedAt:     time.Now(),
	}
}
