package cmd

import (
	"context"
	"fmt"
	"time"

	"prizepool/application"
	"prizepool/config"
	"prizepool/database"
	"prizepool/domain/interfaces"
	"prizepool/infrastructure"
	"prizepool/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the pool service
func Run(ctx context.Context) error {
	log.Info("Starting prize pool service...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	log.Info("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsurePoolEventStream(); err != nil {
		natsClient.Close()
		db.Close()
		return fmt.Errorf("failed to ensure event stream: %w", err)
	}

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return fmt.Errorf("invalid TAX_RATE: %w", err)
	}
	taxCap, err := decimal.NewFromString(cfg.TaxCap)
	if err != nil {
		return fmt.Errorf("invalid TAX_CAP: %w", err)
	}
	tax := infrastructure.NewCappedRateTaxPolicy(taxRate, taxCap)

	gateway := infrastructure.NewGatewayClient(natsClient, cfg.PoolAddress)
	sequenceSource := infrastructure.NewRandomSequenceSource()

	uowFactory := repository.NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNATSTransactionalPublisher(eventPublisher)
	})

	drawWorker := application.NewDrawWorker(uowFactory, sequenceSource, gateway, tax, gateway)
	stopDraw := drawWorker.Start(ctx)

	sweepWorker := application.NewSweepWorker(uowFactory, tax, cfg.SweepInterval)
	stopSweep := sweepWorker.Start(ctx)

	log.WithField("environment", cfg.Environment).Info("Prize pool service is running")
	<-ctx.Done()

	log.Info("Shutting down...")
	stopDraw()
	stopSweep()

	if err := natsClient.Close(); err != nil {
		log.Errorf("Error closing NATS connection: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
