package repository

import (
	"context"
	"fmt"
	"time"

	"prizepool/database"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/shopspring/decimal"
)

type unbondingClaimRepository struct {
	q Queryable
}

// NewUnbondingClaimRepository creates a new unbonding claim repository
func NewUnbondingClaimRepository(db *database.DB) interfaces.UnbondingClaimRepository {
	return &unbondingClaimRepository{q: db.Pool}
}

func newUnbondingClaimRepositoryWithTx(tx Queryable) interfaces.UnbondingClaimRepository {
	return &unbondingClaimRepository{q: tx}
}

func (r *unbondingClaimRepository) Add(ctx context.Context, address string, amount decimal.Decimal, releaseAt time.Time) error {
	query := `INSERT INTO unbonding_claims (address, amount, release_at) VALUES ($1, $2, $3)`

	if _, err := r.q.Exec(ctx, query, address, amount, releaseAt); err != nil {
		return fmt.Errorf("failed to add unbonding claim: %w", err)
	}
	return nil
}

func (r *unbondingClaimRepository) ListByAddress(ctx context.Context, address string) ([]entities.UnbondingClaim, error) {
	query := `
		SELECT id, address, amount, release_at, created_at
		FROM unbonding_claims
		WHERE address = $1
		ORDER BY id
	`
	return r.list(ctx, query, address)
}

// ListMatured returns released claims oldest first, which fixes the drain
// order for partial claims.
func (r *unbondingClaimRepository) ListMatured(ctx context.Context, address string, now time.Time) ([]entities.UnbondingClaim, error) {
	query := `
		SELECT id, address, amount, release_at, created_at
		FROM unbonding_claims
		WHERE address = $1 AND release_at <= $2
		ORDER BY release_at, id
	`
	return r.list(ctx, query, address, now)
}

func (r *unbondingClaimRepository) list(ctx context.Context, query string, args ...any) ([]entities.UnbondingClaim, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query unbonding claims: %w", err)
	}
	defer rows.Close()

	var out []entities.UnbondingClaim
	for rows.Next() {
		var c entities.UnbondingClaim
		if err := rows.Scan(&c.ID, &c.Address, &c.Amount, &c.ReleaseAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unbonding claim: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *unbondingClaimRepository) Remove(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM unbonding_claims WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("failed to remove unbonding claims: %w", err)
	}
	return nil
}

func (r *unbondingClaimRepository) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE unbonding_claims SET amount = $2 WHERE id = $1`, id, amount)
	if err != nil {
		return fmt.Errorf("failed to update unbonding claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("unbonding claim %d does not exist", id)
	}
	return nil
}
