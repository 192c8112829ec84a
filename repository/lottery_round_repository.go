package repository

import (
	"context"
	"fmt"

	"prizepool/database"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type lotteryRoundRepository struct {
	q Queryable
}

// NewLotteryRoundRepository creates a new lottery round repository
func NewLotteryRoundRepository(db *database.DB) interfaces.LotteryRoundRepository {
	return &lotteryRoundRepository{q: db.Pool}
}

func newLotteryRoundRepositoryWithTx(tx Queryable) interfaces.LotteryRoundRepository {
	return &lotteryRoundRepository{q: tx}
}

func (r *lotteryRoundRepository) Create(ctx context.Context, round *entities.LotteryRound) error {
	query := `
		INSERT INTO lottery_rounds (id, winning_sequence, awarded, total_prizes)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.q.Exec(ctx, query, round.ID, round.WinningSequence, round.Awarded, round.TotalPrizes)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}

	if len(round.Winners) == 0 {
		return nil
	}

	winnerQuery := `INSERT INTO round_winners (round_id, matches, address, ordinal) VALUES `
	values := make([]any, 0, len(round.Winners)*4)
	for i, w := range round.Winners {
		if i > 0 {
			winnerQuery += ", "
		}
		winnerQuery += fmt.Sprintf("($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4)
		values = append(values, round.ID, w.Matches, w.Address, i)
	}
	if _, err := r.q.Exec(ctx, winnerQuery, values...); err != nil {
		return fmt.Errorf("failed to create round winners: %w", err)
	}
	return nil
}

func (r *lotteryRoundRepository) Get(ctx context.Context, id int64) (*entities.LotteryRound, error) {
	query := `
		SELECT id, winning_sequence, awarded, total_prizes, created_at
		FROM lottery_rounds
		WHERE id = $1
	`

	var round entities.LotteryRound
	err := r.q.QueryRow(ctx, query, id).Scan(
		&round.ID,
		&round.WinningSequence,
		&round.Awarded,
		&round.TotalPrizes,
		&round.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT round_id, matches, address FROM round_winners WHERE round_id = $1 ORDER BY ordinal`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query round winners: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w entities.RoundWinner
		if err := rows.Scan(&w.RoundID, &w.Matches, &w.Address); err != nil {
			return nil, fmt.Errorf("failed to scan round winner: %w", err)
		}
		round.Winners = append(round.Winners, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &round, nil
}
