package repository

import (
	"context"
	"fmt"

	"prizepool/application"
	"prizepool/database"
	"prizepool/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher

	configRepo    interfaces.PoolConfigRepository
	stateRepo     interfaces.PoolStateRepository
	depositorRepo interfaces.DepositorRepository
	ticketRepo    interfaces.TicketRepository
	unbondingRepo interfaces.UnbondingClaimRepository
	roundRepo     interfaces.LotteryRoundRepository
}

type unitOfWorkFactory struct {
	db        *database.DB
	publisher func() interfaces.TransactionalEventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. The publisher
// function is called once per unit of work so each transaction buffers its
// own events.
func NewUnitOfWorkFactory(db *database.DB, publisher func() interfaces.TransactionalEventPublisher) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db, publisher: publisher}
}

func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return f.CreateWithPublisher(f.publisher())
}

func (f *unitOfWorkFactory) CreateWithPublisher(publisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: publisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.configRepo = newPoolConfigRepositoryWithTx(tx)
	u.stateRepo = newPoolStateRepositoryWithTx(tx)
	u.depositorRepo = newDepositorRepositoryWithTx(tx)
	u.ticketRepo = newTicketRepositoryWithTx(tx)
	u.unbondingRepo = newUnbondingClaimRepositoryWithTx(tx)
	u.roundRepo = newLotteryRoundRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			return fmt.Errorf("committed but failed to flush events: %w", err)
		}
	}
	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) PoolConfigRepository() interfaces.PoolConfigRepository {
	if u.configRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.configRepo
}

func (u *unitOfWork) PoolStateRepository() interfaces.PoolStateRepository {
	if u.stateRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.stateRepo
}

func (u *unitOfWork) DepositorRepository() interfaces.DepositorRepository {
	if u.depositorRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.depositorRepo
}

func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	if u.ticketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ticketRepo
}

func (u *unitOfWork) UnbondingClaimRepository() interfaces.UnbondingClaimRepository {
	if u.unbondingRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.unbondingRepo
}

func (u *unitOfWork) LotteryRoundRepository() interfaces.LotteryRoundRepository {
	if u.roundRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.roundRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalPublisher
}
