package services

import "errors"

// Validation errors: rejected before any mutation, retryable after fixing the
// input.
var (
	ErrAmountNotPositive   = errors.New("amount must be greater than zero")
	ErrInsufficientDeposit = errors.New("deposit does not cover the ticket price")
	ErrInvalidSequence     = errors.New("ticket sequence must be decimal digits of the fixed length")
	ErrSelfGift            = errors.New("cannot gift tickets to yourself, make a regular deposit")
)

// Authorization errors: rejected, not retryable with the same credentials.
var (
	ErrUnauthorized = errors.New("unauthorized")
)

// State errors: rejected with no mutation, retryable once the external
// condition changes.
var (
	ErrDepositWindowClosed     = errors.New("deposit window is closed until the pending draw executes")
	ErrNoDeposits              = errors.New("no deposits to withdraw")
	ErrNothingToClaim          = errors.New("nothing to claim")
	ErrInsufficientLiquidity   = errors.New("not enough liquid funds to pay the claim")
	ErrDrawNotDue              = errors.New("draw time has not been reached")
	ErrDrawInProgress          = errors.New("a draw is already in progress")
	ErrNoPendingPrize          = errors.New("no prize assignment is pending")
	ErrCollaboratorsRegistered = errors.New("collaborators already registered")
)

// ErrRegistryInconsistent signals a ledger inconsistency between depositor
// records and the sequence index. Unreachable under correct accounting.
var ErrRegistryInconsistent = errors.New("ticket registry inconsistent with depositor records")
