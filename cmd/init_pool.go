package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"prizepool/config"
	"prizepool/database"
	"prizepool/domain/entities"
	"prizepool/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// InitPool seeds the pool configuration and a fresh pool state. Idempotent:
// an already-initialized pool is left untouched.
func InitPool(ctx context.Context) error {
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	stateRepo := repository.NewPoolStateRepository(db)
	if _, err := stateRepo.Get(ctx); err == nil {
		log.Info("Pool already initialized, nothing to do")
		return nil
	}

	poolCfg, err := poolConfigFromEnv()
	if err != nil {
		return fmt.Errorf("invalid pool parameters: %w", err)
	}
	if err := poolCfg.Validate(); err != nil {
		return fmt.Errorf("invalid pool parameters: %w", err)
	}

	configRepo := repository.NewPoolConfigRepository(db)
	if err := configRepo.Save(ctx, poolCfg); err != nil {
		return fmt.Errorf("failed to save pool config: %w", err)
	}

	now := time.Now().UTC()
	state := &entities.PoolState{
		NextDrawTime: now.Add(poolCfg.LotteryInterval),
		DrawPhase:    entities.DrawPhaseIdle,
	}
	if err := stateRepo.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save pool state: %w", err)
	}

	log.WithFields(log.Fields{
		"owner":          poolCfg.Owner,
		"ticket_price":   poolCfg.TicketPrice,
		"next_draw_time": state.NextDrawTime,
	}).Info("Pool initialized")
	return nil
}

func poolConfigFromEnv() (*entities.PoolConfig, error) {
	ticketPrice, err := decimal.NewFromString(envOr("TICKET_PRICE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid TICKET_PRICE: %w", err)
	}
	reserveFactor, err := decimal.NewFromString(envOr("RESERVE_FACTOR", "0.25"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESERVE_FACTOR: %w", err)
	}
	splitFactor, err := decimal.NewFromString(envOr("SPLIT_FACTOR", "0.75"))
	if err != nil {
		return nil, fmt.Errorf("invalid SPLIT_FACTOR: %w", err)
	}

	distribution, err := parseDistribution(envOr("PRIZE_DISTRIBUTION", "0,0,0.05,0.15,0.3,0.5"))
	if err != nil {
		return nil, err
	}

	interval, err := time.ParseDuration(envOr("LOTTERY_INTERVAL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOTTERY_INTERVAL: %w", err)
	}
	blockTime, err := time.ParseDuration(envOr("BLOCK_TIME", "6s"))
	if err != nil {
		return nil, fmt.Errorf("invalid BLOCK_TIME: %w", err)
	}
	unbonding, err := time.ParseDuration(envOr("UNBONDING_PERIOD", "504h"))
	if err != nil {
		return nil, fmt.Errorf("invalid UNBONDING_PERIOD: %w", err)
	}

	return &entities.PoolConfig{
		Owner:             os.Getenv("POOL_OWNER"),
		StableDenom:       envOr("STABLE_DENOM", "uusd"),
		VaultAddress:      os.Getenv("VAULT_ADDRESS"),
		LotteryInterval:   interval,
		BlockTime:         blockTime,
		TicketPrice:       ticketPrice,
		PrizeDistribution: distribution,
		ReserveFactor:     reserveFactor,
		SplitFactor:       splitFactor,
		UnbondingPeriod:   unbonding,
	}, nil
}

func parseDistribution(s string) ([]decimal.Decimal, error) {
	parts := strings.Split(s, ",")
	out := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		d, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid PRIZE_DISTRIBUTION entry %q: %w", p, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
