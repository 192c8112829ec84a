package repository

import (
	"context"
	"fmt"

	"prizepool/database"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type depositorRepository struct {
	q Queryable
}

// NewDepositorRepository creates a new depositor repository
func NewDepositorRepository(db *database.DB) interfaces.DepositorRepository {
	return &depositorRepository{q: db.Pool}
}

func newDepositorRepositoryWithTx(tx Queryable) interfaces.DepositorRepository {
	return &depositorRepository{q: tx}
}

func (r *depositorRepository) Get(ctx context.Context, address string) (*entities.Depositor, error) {
	query := `
		SELECT address, deposit_amount, shares, redeemable, created_at
		FROM depositors
		WHERE address = $1
	`

	var d entities.Depositor
	err := r.q.QueryRow(ctx, query, address).Scan(
		&d.Address,
		&d.DepositAmount,
		&d.Shares,
		&d.Redeemable,
		&d.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get depositor: %w", err)
	}
	return &d, nil
}

func (r *depositorRepository) GetOrCreate(ctx context.Context, address string) (*entities.Depositor, error) {
	query := `
		INSERT INTO depositors (address)
		VALUES ($1)
		ON CONFLICT (address) DO UPDATE SET updated_at = NOW()
		RETURNING address, deposit_amount, shares, redeemable, created_at
	`

	var d entities.Depositor
	err := r.q.QueryRow(ctx, query, address).Scan(
		&d.Address,
		&d.DepositAmount,
		&d.Shares,
		&d.Redeemable,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create depositor: %w", err)
	}
	return &d, nil
}

func (r *depositorRepository) Save(ctx context.Context, d *entities.Depositor) error {
	query := `
		UPDATE depositors
		SET deposit_amount = $2, shares = $3, redeemable = $4, updated_at = NOW()
		WHERE address = $1
	`

	tag, err := r.q.Exec(ctx, query, d.Address, d.DepositAmount, d.Shares, d.Redeemable)
	if err != nil {
		return fmt.Errorf("failed to save depositor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("depositor %s does not exist", d.Address)
	}
	return nil
}

func (r *depositorRepository) List(ctx context.Context, startAfter string, limit int) ([]*entities.Depositor, error) {
	query := `
		SELECT address, deposit_amount, shares, redeemable, created_at
		FROM depositors
		WHERE address > $1
		ORDER BY address
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, startAfter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list depositors: %w", err)
	}
	defer rows.Close()

	var out []*entities.Depositor
	for rows.Next() {
		var d entities.Depositor
		if err := rows.Scan(&d.Address, &d.DepositAmount, &d.Shares, &d.Redeemable, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan depositor: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *depositorRepository) SumShares(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(shares), 0) FROM depositors`

	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum depositor shares: %w", err)
	}
	return sum, nil
}
