package infrastructure

import (
	"fmt"

	"prizepool/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeDepositRecorded:
		return "pool.deposits.recorded"
	case events.EventTypeWithdrawalRequested:
		return "pool.withdrawals.requested"
	case events.EventTypeClaimPaid:
		return "pool.claims.paid"
	case events.EventTypeRoundAwarded:
		return "pool.rounds.awarded"
	case events.EventTypeReserveSwept:
		return "pool.reserve.swept"
	case events.EventTypeVaultDepositRequested:
		return "instructions.vault.deposit"
	case events.EventTypeVaultRedeemRequested:
		return "instructions.vault.redeem"
	case events.EventTypeFundsTransferRequested:
		return "instructions.funds.transfer"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"pool.deposits.recorded",
		"pool.withdrawals.requested",
		"pool.claims.paid",
		"pool.rounds.awarded",
		"pool.reserve.swept",
		"instructions.vault.deposit",
		"instructions.vault.redeem",
		"instructions.funds.transfer",
	}
}
