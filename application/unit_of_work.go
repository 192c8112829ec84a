package application

import (
	"context"

	"prizepool/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// All ledger mutations run inside one unit of work so that either every
// record changes or none do, and buffered instruction events only leave the
// process after the commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	PoolConfigRepository() interfaces.PoolConfigRepository
	PoolStateRepository() interfaces.PoolStateRepository
	DepositorRepository() interfaces.DepositorRepository
	TicketRepository() interfaces.TicketRepository
	UnbondingClaimRepository() interfaces.UnbondingClaimRepository
	LotteryRoundRepository() interfaces.LotteryRoundRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork

	// CreateWithPublisher creates a new UnitOfWork with a specific
	// transactional publisher
	CreateWithPublisher(publisher interfaces.TransactionalEventPublisher) UnitOfWork
}
