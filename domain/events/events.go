package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeDepositRecorded     EventType = "deposit_recorded"
	EventTypeWithdrawalRequested EventType = "withdrawal_requested"
	EventTypeClaimPaid           EventType = "claim_paid"
	EventTypeRoundAwarded        EventType = "round_awarded"
	EventTypeReserveSwept        EventType = "reserve_swept"

	// Instruction events are deferred side effects: the ledger never moves
	// funds synchronously, it publishes an instruction after commit and the
	// host executes it.
	EventTypeVaultDepositRequested  EventType = "vault_deposit_requested"
	EventTypeVaultRedeemRequested   EventType = "vault_redeem_requested"
	EventTypeFundsTransferRequested EventType = "funds_transfer_requested"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// DepositRecordedEvent represents a completed ticket deposit
type DepositRecordedEvent struct {
	Depositor    string
	Amount       decimal.Decimal
	SharesMinted decimal.Decimal
	TicketCount  int
}

func (e DepositRecordedEvent) Type() EventType {
	return EventTypeDepositRecorded
}

// WithdrawalRequestedEvent represents a full withdrawal entering unbonding
type WithdrawalRequestedEvent struct {
	Depositor       string
	SharesBurned    decimal.Decimal
	UnbondingAmount decimal.Decimal
	ReleaseAt       time.Time
}

func (e WithdrawalRequestedEvent) Type() EventType {
	return EventTypeWithdrawalRequested
}

// ClaimPaidEvent represents a successful claim of matured funds and prizes
type ClaimPaidEvent struct {
	Depositor string
	Amount    decimal.Decimal
}

func (e ClaimPaidEvent) Type() EventType {
	return EventTypeClaimPaid
}

// RoundAwardedEvent represents a completed lottery round
type RoundAwardedEvent struct {
	RoundID         int64
	WinningSequence string
	TotalPrizes     decimal.Decimal
	WinnerCount     int
}

func (e RoundAwardedEvent) Type() EventType {
	return EventTypeRoundAwarded
}

// ReserveSweptEvent represents an epoch reserve sweep to the collector
type ReserveSweptEvent struct {
	Collector string
	Amount    decimal.Decimal
}

func (e ReserveSweptEvent) Type() EventType {
	return EventTypeReserveSwept
}

// VaultDepositRequestedEvent instructs the host to deposit stable funds into
// the yield vault
type VaultDepositRequestedEvent struct {
	InstructionID string
	Amount        decimal.Decimal
	Denom         string
}

func (e VaultDepositRequestedEvent) Type() EventType {
	return EventTypeVaultDepositRequested
}

// VaultRedeemRequestedEvent instructs the host to redeem vault shares back
// into stable funds
type VaultRedeemRequestedEvent struct {
	InstructionID string
	ShareAmount   decimal.Decimal
}

func (e VaultRedeemRequestedEvent) Type() EventType {
	return EventTypeVaultRedeemRequested
}

// FundsTransferRequestedEvent instructs the host to pay stable funds to a
// recipient
type FundsTransferRequestedEvent struct {
	InstructionID string
	Recipient     string
	Amount        decimal.Decimal
	Denom         string
}

func (e FundsTransferRequestedEvent) Type() EventType {
	return EventTypeFundsTransferRequested
}
