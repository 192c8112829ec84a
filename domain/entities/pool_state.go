package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// DrawPhase tags where the two-phase draw pipeline currently stands. The tag
// is persisted with the pool state so the prize-assignment step can only run
// as the second half of a draw this process started.
type DrawPhase string

const (
	// DrawPhaseIdle means no draw is in flight.
	DrawPhaseIdle DrawPhase = "idle"
	// DrawPhasePrizePending means the vault redemption has been requested and
	// the round is waiting for prize assignment.
	DrawPhasePrizePending DrawPhase = "prize_pending"
)

// PoolState is the singleton global ledger record. Every deposit, withdrawal
// and draw mutates it, always inside a single transaction holding its row lock.
type PoolState struct {
	TotalTickets    int64           `db:"total_tickets"`
	TotalReserve    decimal.Decimal `db:"total_reserve"`
	LotteryDeposits decimal.Decimal `db:"lottery_deposits"`
	SharesSupply    decimal.Decimal `db:"shares_supply"`
	DepositShares   decimal.Decimal `db:"deposit_shares"`
	AwardAvailable  decimal.Decimal `db:"award_available"`
	CurrentBalance  decimal.Decimal `db:"current_balance"`
	CurrentRound    int64           `db:"current_round"`
	NextDrawTime    time.Time       `db:"next_draw_time"`
	DrawPhase       DrawPhase       `db:"draw_phase"`
}

// LotteryShares returns the share portion exposed to the lottery pool.
// Invariant: shares_supply == deposit_shares + lottery shares.
func (s *PoolState) LotteryShares() decimal.Decimal {
	return s.SharesSupply.Sub(s.DepositShares)
}

// DepositWindowOpen reports whether deposits are still accepted. Once the
// next-draw deadline passes the pool is locked until the draw executes and
// advances the deadline.
func (s *PoolState) DepositWindowOpen(now time.Time) bool {
	return s.DrawPhase == DrawPhaseIdle && now.Before(s.NextDrawTime)
}

// DrawDue reports whether the draw deadline has been reached.
func (s *PoolState) DrawDue(now time.Time) bool {
	return !now.Before(s.NextDrawTime)
}
