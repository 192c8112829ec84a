package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prizepool/domain/interfaces"
	"prizepool/domain/services"

	log "github.com/sirupsen/logrus"
)

// DrawWorker runs scheduled lottery draws. Each due draw is processed in two
// transactions: one to execute the draw and request the vault redemption, one
// to draw the winning sequence and assign prizes.
type DrawWorker struct {
	uowFactory     UnitOfWorkFactory
	sequenceSource interfaces.WinningSequenceSource
	vault          interfaces.YieldVault
	tax            interfaces.TaxPolicy
	bank           interfaces.StableBank
}

// NewDrawWorker creates a new draw worker
func NewDrawWorker(
	uowFactory UnitOfWorkFactory,
	sequenceSource interfaces.WinningSequenceSource,
	vault interfaces.YieldVault,
	tax interfaces.TaxPolicy,
	bank interfaces.StableBank,
) *DrawWorker {
	return &DrawWorker{
		uowFactory:     uowFactory,
		sequenceSource: sequenceSource,
		vault:          vault,
		tax:            tax,
		bank:           bank,
	}
}

// Start begins the draw worker. The returned function stops it.
func (w *DrawWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Draw worker started")

		for {
			if err := w.processDueDraw(ctx); err != nil {
				log.Errorf("Error processing draw: %v", err)
			}

			wait := w.nextWait(ctx)
			log.WithField("wait", wait).Debug("Draw worker sleeping")

			select {
			case <-ctx.Done():
				log.Info("Draw worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Draw worker shutting down (stop requested)...")
				return
			case <-time.After(wait):
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// nextWait returns how long to sleep before re-checking. Never less than the
// configured block time so a stuck draw does not busy-loop.
func (w *DrawWorker) nextWait(ctx context.Context) time.Duration {
	const fallback = time.Minute

	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Failed to begin transaction for next draw time: %v", err)
		return fallback
	}
	defer uow.Rollback()

	cfg, err := uow.PoolConfigRepository().Get(ctx)
	if err != nil {
		log.Errorf("Failed to get pool config: %v", err)
		return fallback
	}
	state, err := uow.PoolStateRepository().Get(ctx)
	if err != nil {
		log.Errorf("Failed to get pool state: %v", err)
		return fallback
	}

	wait := time.Until(state.NextDrawTime)
	if wait < cfg.BlockTime {
		wait = cfg.BlockTime
	}
	return wait
}

// processDueDraw runs one draw cycle if a draw is due or pending
func (w *DrawWorker) processDueDraw(ctx context.Context) error {
	now := time.Now().UTC()

	if err := w.executeDraw(ctx, now); err != nil {
		return err
	}
	return w.assignPrizes(ctx, now)
}

func (w *DrawWorker) executeDraw(ctx context.Context, now time.Time) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	prizeService := w.newPrizeService(uow)
	execution, err := prizeService.ExecuteDraw(ctx, now)
	if errors.Is(err, services.ErrDrawInProgress) {
		// A previous cycle crashed between the two transactions; prize
		// assignment below picks it up.
		return nil
	}
	if errors.Is(err, services.ErrDrawNotDue) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to execute draw: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit draw execution: %w", err)
	}

	log.WithFields(log.Fields{
		"round":           execution.Round,
		"realized_yield":  execution.RealizedYield,
		"award_available": execution.AwardAvailable,
	}).Info("Draw executed")
	return nil
}

func (w *DrawWorker) assignPrizes(ctx context.Context, now time.Time) error {
	sequence, err := w.sequenceSource.Draw()
	if err != nil {
		return fmt.Errorf("failed to draw winning sequence: %w", err)
	}

	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	prizeService := w.newPrizeService(uow)
	round, err := prizeService.AssignPrizes(ctx, now, sequence)
	if errors.Is(err, services.ErrNoPendingPrize) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to assign prizes: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit prize assignment: %w", err)
	}

	log.WithFields(log.Fields{
		"round":            round.ID,
		"winning_sequence": round.WinningSequence,
		"total_prizes":     round.TotalPrizes,
		"winner_count":     len(round.Winners),
	}).Info("Prizes assigned")
	return nil
}

func (w *DrawWorker) newPrizeService(uow UnitOfWork) interfaces.PrizeService {
	return services.NewPrizeService(
		uow.PoolConfigRepository(),
		uow.PoolStateRepository(),
		uow.DepositorRepository(),
		uow.TicketRepository(),
		uow.LotteryRoundRepository(),
		w.vault,
		w.tax,
		w.bank,
		uow.EventBus(),
	)
}
