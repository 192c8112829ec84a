package application

import (
	"context"
	"fmt"
	"time"

	"prizepool/domain/interfaces"
	"prizepool/domain/services"

	log "github.com/sirupsen/logrus"
)

// SweepWorker periodically transfers the accrued reserve to the collector
type SweepWorker struct {
	uowFactory UnitOfWorkFactory
	tax        interfaces.TaxPolicy
	interval   time.Duration
}

// NewSweepWorker creates a new sweep worker running at the given interval
func NewSweepWorker(uowFactory UnitOfWorkFactory, tax interfaces.TaxPolicy, interval time.Duration) *SweepWorker {
	return &SweepWorker{
		uowFactory: uowFactory,
		tax:        tax,
		interval:   interval,
	}
}

// Start begins the sweep worker. The returned function stops it.
func (w *SweepWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", w.interval).Info("Sweep worker started")

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Sweep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Sweep worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				if err := w.sweep(ctx); err != nil {
					log.Errorf("Error sweeping reserve: %v", err)
				}
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

func (w *SweepWorker) sweep(ctx context.Context) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	prizeService := services.NewPrizeService(
		uow.PoolConfigRepository(),
		uow.PoolStateRepository(),
		uow.DepositorRepository(),
		uow.TicketRepository(),
		uow.LotteryRoundRepository(),
		nil, // sweep never prices shares
		w.tax,
		nil, // sweep never checks liquidity
		uow.EventBus(),
	)

	result, err := prizeService.SweepReserve(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep reserve: %w", err)
	}
	if result.NetTransfer.IsZero() {
		return uow.Rollback()
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit sweep: %w", err)
	}

	log.WithFields(log.Fields{
		"net_transfer": result.NetTransfer,
		"collector":    result.Collector,
	}).Info("Reserve sweep completed")
	return nil
}
