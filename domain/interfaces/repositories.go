package interfaces

import (
	"context"
	"time"

	"prizepool/domain/entities"

	"github.com/shopspring/decimal"
)

// PoolConfigRepository defines access to the singleton pool configuration
type PoolConfigRepository interface {
	// Get retrieves the pool configuration
	Get(ctx context.Context) (*entities.PoolConfig, error)

	// Save persists the pool configuration
	Save(ctx context.Context, cfg *entities.PoolConfig) error
}

// PoolStateRepository defines access to the singleton global pool state
type PoolStateRepository interface {
	// Get retrieves the pool state without locking
	Get(ctx context.Context) (*entities.PoolState, error)

	// GetForUpdate retrieves the pool state holding its row lock, which
	// serializes all ledger mutations for the rest of the transaction
	GetForUpdate(ctx context.Context) (*entities.PoolState, error)

	// Save persists the pool state
	Save(ctx context.Context, state *entities.PoolState) error
}

// DepositorRepository defines access to per-account ledger records
type DepositorRepository interface {
	// Get retrieves a depositor record, or nil if none exists
	Get(ctx context.Context, address string) (*entities.Depositor, error)

	// GetOrCreate retrieves a depositor record, creating a zeroed one on
	// first use
	GetOrCreate(ctx context.Context, address string) (*entities.Depositor, error)

	// Save persists a depositor's amounts
	Save(ctx context.Context, d *entities.Depositor) error

	// List returns depositor records ordered by address, starting after the
	// given address when non-empty
	List(ctx context.Context, startAfter string, limit int) ([]*entities.Depositor, error)

	// SumShares returns the sum of shares across all depositor records
	SumShares(ctx context.Context) (decimal.Decimal, error)
}

// TicketRepository maintains the ticket instances and the derived
// sequence-to-holders index
type TicketRepository interface {
	// Register appends one ticket instance per sequence for the holder
	Register(ctx context.Context, address string, sequences []string) error

	// Unregister removes exactly one instance of the holder's registration
	// under the sequence. A missing instance signals a ledger inconsistency.
	Unregister(ctx context.Context, sequence, address string) error

	// SequencesByAddress returns the holder's sequences, one entry per
	// instance, in registration order
	SequencesByAddress(ctx context.Context, address string) ([]string, error)

	// HoldersBySequence returns the addresses registered under a sequence,
	// one entry per instance, in registration order
	HoldersBySequence(ctx context.Context, sequence string) ([]string, error)

	// AllSequenceHolders returns every registered sequence with its holders
	AllSequenceHolders(ctx context.Context) ([]*entities.SequenceHolders, error)

	// CountByAddress returns the number of ticket instances held by address
	CountByAddress(ctx context.Context, address string) (int64, error)

	// CountAll returns the total number of ticket instances
	CountAll(ctx context.Context) (int64, error)
}

// UnbondingClaimRepository defines access to the unbonding queue
type UnbondingClaimRepository interface {
	// Add appends a new unbonding claim for the address
	Add(ctx context.Context, address string, amount decimal.Decimal, releaseAt time.Time) error

	// ListByAddress returns all claims for an address ordered by creation
	ListByAddress(ctx context.Context, address string) ([]entities.UnbondingClaim, error)

	// ListMatured returns the address's claims whose release time has
	// elapsed, oldest first
	ListMatured(ctx context.Context, address string, now time.Time) ([]entities.UnbondingClaim, error)

	// Remove deletes the claims with the given ids
	Remove(ctx context.Context, ids []int64) error

	// UpdateAmount reduces a claim in place after a partial drain
	UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error
}

// LotteryRoundRepository defines access to immutable round records
type LotteryRoundRepository interface {
	// Create persists a round together with its winner pairs
	Create(ctx context.Context, round *entities.LotteryRound) error

	// Get retrieves a round with its winners, or nil if none exists
	Get(ctx context.Context, id int64) (*entities.LotteryRound, error)
}
