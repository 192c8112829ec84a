package repository

import (
	"context"
	"fmt"

	"prizepool/database"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"
)

type ticketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) interfaces.TicketRepository {
	return &ticketRepository{q: db.Pool}
}

func newTicketRepositoryWithTx(tx Queryable) interfaces.TicketRepository {
	return &ticketRepository{q: tx}
}

func (r *ticketRepository) Register(ctx context.Context, address string, sequences []string) error {
	if len(sequences) == 0 {
		return nil
	}

	query := `INSERT INTO tickets (sequence, address) VALUES `
	values := make([]any, 0, len(sequences)*2)
	for i, seq := range sequences {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2)
		values = append(values, seq, address)
	}

	if _, err := r.q.Exec(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to register tickets: %w", err)
	}
	return nil
}

// Unregister removes exactly one ticket instance. Older instances go first so
// repeated unregistration drains registrations in order.
func (r *ticketRepository) Unregister(ctx context.Context, sequence, address string) error {
	query := `
		DELETE FROM tickets
		WHERE id = (
			SELECT id FROM tickets
			WHERE sequence = $1 AND address = $2
			ORDER BY id
			LIMIT 1
		)
	`

	tag, err := r.q.Exec(ctx, query, sequence, address)
	if err != nil {
		return fmt.Errorf("failed to unregister ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no ticket registered under sequence %s for %s", sequence, address)
	}
	return nil
}

func (r *ticketRepository) SequencesByAddress(ctx context.Context, address string) ([]string, error) {
	query := `SELECT sequence FROM tickets WHERE address = $1 ORDER BY id`

	rows, err := r.q.Query(ctx, query, address)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets by address: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var seq string
		if err := rows.Scan(&seq); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		out = append(out, seq)
	}
	return out, rows.Err()
}

func (r *ticketRepository) HoldersBySequence(ctx context.Context, sequence string) ([]string, error) {
	query := `SELECT address FROM tickets WHERE sequence = $1 ORDER BY id`

	rows, err := r.q.Query(ctx, query, sequence)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket holders: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("failed to scan ticket holder: %w", err)
		}
		out = append(out, addr)
	}
	return out, rows.Err()
}

func (r *ticketRepository) AllSequenceHolders(ctx context.Context) ([]*entities.SequenceHolders, error) {
	query := `SELECT sequence, address FROM tickets ORDER BY sequence, id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sequence holders: %w", err)
	}
	defer rows.Close()

	var out []*entities.SequenceHolders
	var current *entities.SequenceHolders
	for rows.Next() {
		var seq, addr string
		if err := rows.Scan(&seq, &addr); err != nil {
			return nil, fmt.Errorf("failed to scan sequence holder: %w", err)
		}
		if current == nil || current.Sequence != seq {
			current = &entities.SequenceHolders{Sequence: seq}
			out = append(out, current)
		}
		current.Addresses = append(current.Addresses, addr)
	}
	return out, rows.Err()
}

func (r *ticketRepository) CountByAddress(ctx context.Context, address string) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE address = $1`, address).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets by address: %w", err)
	}
	return count, nil
}

func (r *ticketRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}
