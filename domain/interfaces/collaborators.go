package interfaces

import (
	"context"

	"prizepool/domain/events"

	"github.com/shopspring/decimal"
)

// YieldVault is the external money-market style vault holding the pooled
// funds. Deposits and redemptions are deferred instructions; only pricing and
// balance queries happen synchronously.
type YieldVault interface {
	// ExchangeRate returns the stable-asset value of one vault share at call
	// time. Never cached by the ledger.
	ExchangeRate(ctx context.Context) (decimal.Decimal, error)

	// ShareBalance returns the pool's current vault share balance
	ShareBalance(ctx context.Context) (decimal.Decimal, error)
}

// TaxPolicy models the network transfer cost applied to every inbound and
// outbound transfer.
type TaxPolicy interface {
	// NetOf returns the amount remaining after the transfer tax
	NetOf(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
}

// StableBank exposes the pool's own liquid stable-asset balance, used to
// refuse claims the pool could not back.
type StableBank interface {
	// LiquidBalance returns the pool's spendable stable balance
	LiquidBalance(ctx context.Context) (decimal.Decimal, error)
}

// WinningSequenceSource produces the winning sequence for a draw. The ledger
// treats it as an opaque, assumed-fair input.
type WinningSequenceSource interface {
	// Draw returns a new winning sequence
	Draw() (string, error)
}

// EventPublisher publishes domain events and deferred instructions
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a transaction and
// publishes them only after a successful commit
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all pending events. Called after commit.
	Flush(ctx context.Context) error

	// Discard drops all pending events. Called on rollback.
	Discard()
}
