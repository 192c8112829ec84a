package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotteryRound is the immutable record of one executed draw.
type LotteryRound struct {
	ID              int64           `db:"id"`
	WinningSequence string          `db:"winning_sequence"`
	Awarded         bool            `db:"awarded"`
	TotalPrizes     decimal.Decimal `db:"total_prizes"`
	CreatedAt       time.Time       `db:"created_at"`

	Winners []RoundWinner
}

// RoundWinner is one (match-count, holder) pair of a round. A holder appears
// once per winning ticket instance.
type RoundWinner struct {
	RoundID int64  `db:"round_id"`
	Matches int    `db:"matches"`
	Address string `db:"address"`
}
