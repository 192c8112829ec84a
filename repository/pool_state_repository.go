package repository

import (
	"context"
	"fmt"

	"prizepool/database"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type poolStateRepository struct {
	q Queryable
}

// NewPoolStateRepository creates a new pool state repository
func NewPoolStateRepository(db *database.DB) interfaces.PoolStateRepository {
	return &poolStateRepository{q: db.Pool}
}

func newPoolStateRepositoryWithTx(tx Queryable) interfaces.PoolStateRepository {
	return &poolStateRepository{q: tx}
}

const poolStateColumns = `
	total_tickets, total_reserve, lottery_deposits, shares_supply, deposit_shares,
	award_available, current_balance, current_round, next_draw_time, draw_phase
`

func (r *poolStateRepository) Get(ctx context.Context) (*entities.PoolState, error) {
	query := `SELECT ` + poolStateColumns + ` FROM pool_state WHERE id = 1`
	return r.scan(r.q.QueryRow(ctx, query))
}

// GetForUpdate locks the singleton row, serializing every ledger mutation for
// the remainder of the transaction.
func (r *poolStateRepository) GetForUpdate(ctx context.Context) (*entities.PoolState, error) {
	query := `SELECT ` + poolStateColumns + ` FROM pool_state WHERE id = 1 FOR UPDATE`
	return r.scan(r.q.QueryRow(ctx, query))
}

func (r *poolStateRepository) scan(row pgx.Row) (*entities.PoolState, error) {
	var state entities.PoolState
	var phase string
	err := row.Scan(
		&state.TotalTickets,
		&state.TotalReserve,
		&state.LotteryDeposits,
		&state.SharesSupply,
		&state.DepositShares,
		&state.AwardAvailable,
		&state.CurrentBalance,
		&state.CurrentRound,
		&state.NextDrawTime,
		&phase,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("pool state not initialized")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool state: %w", err)
	}
	state.DrawPhase = entities.DrawPhase(phase)
	return &state, nil
}

func (r *poolStateRepository) Save(ctx context.Context, state *entities.PoolState) error {
	query := `
		INSERT INTO pool_state (
			id, total_tickets, total_reserve, lottery_deposits, shares_supply,
			deposit_shares, award_available, current_balance, current_round,
			next_draw_time, draw_phase, updated_at
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			total_tickets = EXCLUDED.total_tickets,
			total_reserve = EXCLUDED.total_reserve,
			lottery_deposits = EXCLUDED.lottery_deposits,
			shares_supply = EXCLUDED.shares_supply,
			deposit_shares = EXCLUDED.deposit_shares,
			award_available = EXCLUDED.award_available,
			current_balance = EXCLUDED.current_balance,
			current_round = EXCLUDED.current_round,
			next_draw_time = EXCLUDED.next_draw_time,
			draw_phase = EXCLUDED.draw_phase,
			updated_at = NOW()
	`

	_, err := r.q.Exec(ctx, query,
		state.TotalTickets,
		state.TotalReserve,
		state.LotteryDeposits,
		state.SharesSupply,
		state.DepositShares,
		state.AwardAvailable,
		state.CurrentBalance,
		state.CurrentRound,
		state.NextDrawTime,
		string(state.DrawPhase),
	)
	if err != nil {
		return fmt.Errorf("failed to save pool state: %w", err)
	}
	return nil
}
