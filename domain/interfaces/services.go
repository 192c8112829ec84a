package interfaces

import (
	"context"
	"time"

	"prizepool/domain/entities"

	"github.com/shopspring/decimal"
)

// DepositResult summarizes a completed deposit operation
type DepositResult struct {
	Depositor    string
	GrossAmount  decimal.Decimal
	NetAmount    decimal.Decimal
	SharesMinted decimal.Decimal
	Tickets      []string
}

// WithdrawResult summarizes a full withdrawal
type WithdrawResult struct {
	Depositor       string
	TicketsRemoved  int64
	SharesBurned    decimal.Decimal
	VaultRedemption decimal.Decimal
	UnbondingAmount decimal.Decimal
	ReleaseAt       time.Time
}

// ClaimResult summarizes a claim payout
type ClaimResult struct {
	Depositor     string
	GrossAmount   decimal.Decimal
	NetAmount     decimal.Decimal
	ClaimsDrained int
}

// DrawExecution summarizes the first half of a draw
type DrawExecution struct {
	Round           int64
	RealizedYield   decimal.Decimal
	ReserveAccrued  decimal.Decimal
	AwardAvailable  decimal.Decimal
	VaultRedemption decimal.Decimal
}

// SweepResult summarizes an epoch reserve sweep
type SweepResult struct {
	GrossReserve decimal.Decimal
	NetTransfer  decimal.Decimal
	Collector    string
}

// ConfigUpdate carries the optional fields of an owner config update. Nil
// fields leave the current value untouched.
type ConfigUpdate struct {
	Owner             *string
	LotteryInterval   *time.Duration
	BlockTime         *time.Duration
	TicketPrice       *decimal.Decimal
	PrizeDistribution []decimal.Decimal
	ReserveFactor     *decimal.Decimal
	SplitFactor       *decimal.Decimal
	UnbondingPeriod   *time.Duration
}

// PoolService implements the depositor-facing ledger operations
type PoolService interface {
	// SingleDeposit buys exactly one ticket; the amount must equal the
	// ticket price exactly
	SingleDeposit(ctx context.Context, now time.Time, depositor string, amount decimal.Decimal, sequence string) (*DepositResult, error)

	// Deposit buys a batch of tickets; amounts above the required total are
	// accepted and absorbed
	Deposit(ctx context.Context, now time.Time, depositor string, amount decimal.Decimal, sequences []string) (*DepositResult, error)

	// GiftTickets deposits on behalf of a different recipient; the amount
	// must match the ticket total exactly
	GiftTickets(ctx context.Context, now time.Time, gifter, recipient string, amount decimal.Decimal, sequences []string) (*DepositResult, error)

	// Sponsor donates to the pool. With toAward the amount goes straight to
	// the prize pool; otherwise it earns yield for the lottery pot without
	// tickets.
	Sponsor(ctx context.Context, now time.Time, sponsor string, amount decimal.Decimal, toAward bool) error

	// Withdraw performs a full withdrawal into the unbonding queue
	Withdraw(ctx context.Context, now time.Time, depositor string) (*WithdrawResult, error)

	// Claim pays out matured unbonding claims plus any redeemable prize
	// balance. A non-nil requested amount caps the payout.
	Claim(ctx context.Context, now time.Time, depositor string, requested *decimal.Decimal) (*ClaimResult, error)
}

// PrizeService implements the two-phase draw pipeline and the reserve sweep
type PrizeService interface {
	// ExecuteDraw starts a due draw: realizes yield, accrues reserve and
	// requests the vault redemption. Leaves the pool in the prize-pending
	// phase.
	ExecuteDraw(ctx context.Context, now time.Time) (*DrawExecution, error)

	// AssignPrizes completes a pending draw with the given winning sequence,
	// credits winners and seals the round record
	AssignPrizes(ctx context.Context, now time.Time, winningSequence string) (*entities.LotteryRound, error)

	// SweepReserve transfers the accrued reserve to the collector and zeroes
	// the counter
	SweepReserve(ctx context.Context) (*SweepResult, error)
}

// AdminService implements owner operations and read-only queries
type AdminService interface {
	// RegisterCollaborators sets the collector and distributor addresses.
	// Owner only, one-shot.
	RegisterCollaborators(ctx context.Context, sender, collector, distributor string) error

	// UpdateConfig applies the non-nil fields of the update. Owner only.
	UpdateConfig(ctx context.Context, sender string, update ConfigUpdate) error

	// GetConfig returns the pool configuration
	GetConfig(ctx context.Context) (*entities.PoolConfig, error)

	// GetState returns the global pool state
	GetState(ctx context.Context) (*entities.PoolState, error)

	// GetRound returns the round with the given id, or the current round
	// when id is nil
	GetRound(ctx context.Context, id *int64) (*entities.LotteryRound, error)

	// GetDepositor returns the full depositor record including tickets and
	// unbonding claims
	GetDepositor(ctx context.Context, address string) (*entities.Depositor, error)

	// ListDepositors pages through depositor records
	ListDepositors(ctx context.Context, startAfter string, limit *int) ([]*entities.Depositor, error)
}
