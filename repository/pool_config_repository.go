package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prizepool/database"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type poolConfigRepository struct {
	q Queryable
}

// NewPoolConfigRepository creates a new pool config repository
func NewPoolConfigRepository(db *database.DB) interfaces.PoolConfigRepository {
	return &poolConfigRepository{q: db.Pool}
}

func newPoolConfigRepositoryWithTx(tx Queryable) interfaces.PoolConfigRepository {
	return &poolConfigRepository{q: tx}
}

func (r *poolConfigRepository) Get(ctx context.Context) (*entities.PoolConfig, error) {
	query := `
		SELECT owner, stable_denom, vault_address, collector_address, distributor_address,
		       lottery_interval_seconds, block_time_seconds, ticket_price,
		       prize_distribution, reserve_factor, split_factor, unbonding_period_seconds
		FROM pool_config
		WHERE id = 1
	`

	var cfg entities.PoolConfig
	var intervalSecs, blockSecs, unbondingSecs int64
	var distribution string
	err := r.q.QueryRow(ctx, query).Scan(
		&cfg.Owner,
		&cfg.StableDenom,
		&cfg.VaultAddress,
		&cfg.CollectorAddress,
		&cfg.DistributorAddress,
		&intervalSecs,
		&blockSecs,
		&cfg.TicketPrice,
		&distribution,
		&cfg.ReserveFactor,
		&cfg.SplitFactor,
		&unbondingSecs,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("pool config not initialized")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool config: %w", err)
	}

	cfg.LotteryInterval = time.Duration(intervalSecs) * time.Second
	cfg.BlockTime = time.Duration(blockSecs) * time.Second
	cfg.UnbondingPeriod = time.Duration(unbondingSecs) * time.Second

	cfg.PrizeDistribution, err = parseDistribution(distribution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prize distribution: %w", err)
	}

	return &cfg, nil
}

func (r *poolConfigRepository) Save(ctx context.Context, cfg *entities.PoolConfig) error {
	query := `
		INSERT INTO pool_config (
			id, owner, stable_denom, vault_address, collector_address, distributor_address,
			lottery_interval_seconds, block_time_seconds, ticket_price,
			prize_distribution, reserve_factor, split_factor, unbonding_period_seconds, updated_at
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (id) DO UPDATE SET
			owner = EXCLUDED.owner,
			stable_denom = EXCLUDED.stable_denom,
			vault_address = EXCLUDED.vault_address,
			collector_address = EXCLUDED.collector_address,
			distributor_address = EXCLUDED.distributor_address,
			lottery_interval_seconds = EXCLUDED.lottery_interval_seconds,
			block_time_seconds = EXCLUDED.block_time_seconds,
			ticket_price = EXCLUDED.ticket_price,
			prize_distribution = EXCLUDED.prize_distribution,
			reserve_factor = EXCLUDED.reserve_factor,
			split_factor = EXCLUDED.split_factor,
			unbonding_period_seconds = EXCLUDED.unbonding_period_seconds,
			updated_at = NOW()
	`

	_, err := r.q.Exec(ctx, query,
		cfg.Owner,
		cfg.StableDenom,
		cfg.VaultAddress,
		cfg.CollectorAddress,
		cfg.DistributorAddress,
		int64(cfg.LotteryInterval/time.Second),
		int64(cfg.BlockTime/time.Second),
		cfg.TicketPrice,
		formatDistribution(cfg.PrizeDistribution),
		cfg.ReserveFactor,
		cfg.SplitFactor,
		int64(cfg.UnbondingPeriod/time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to save pool config: %w", err)
	}
	return nil
}

func parseDistribution(s string) ([]decimal.Decimal, error) {
	parts := strings.Split(s, ",")
	out := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		d, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid tier fraction %q: %w", p, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func formatDistribution(fractions []decimal.Decimal) string {
	parts := make([]string, len(fractions))
	for i, f := range fractions {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}
