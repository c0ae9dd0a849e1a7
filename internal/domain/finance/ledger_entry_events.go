package finance

import (
	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeLedgerEntry = "LedgerEntry"

// Event type constants
const (
	EventTypeLedgerEntryOpened           = "LedgerEntryOpened"
	EventTypeLedgerEntryBalanceReduced   = "LedgerEntryBalanceReduced"
	EventTypeLedgerEntryBalanceIncreased = "LedgerEntryBalanceIncreased"
	EventTypeLedgerEntryPaid             = "LedgerEntryPaid"
	EventTypeLedgerEntryOverdue          = "LedgerEntryOverdue"
	EventTypeLedgerEntryCancelled        = "LedgerEntryCancelled"
)

// LedgerEntryOpenedEvent is raised when a new ledger entry is opened
type LedgerEntryOpenedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID       `json:"entry_id"`
	Folio       string          `json:"folio"`
	Direction   EntryDirection  `json:"direction"`
	ReferenceID uuid.UUID       `json:"reference_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewLedgerEntryOpenedEvent creates a new LedgerEntryOpenedEvent
func NewLedgerEntryOpenedEvent(entry *LedgerEntry) *LedgerEntryOpenedEvent {
	return &LedgerEntryOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryOpened, AggregateTypeLedgerEntry, entry.ID),
		EntryID:         entry.ID,
		Folio:           entry.Folio,
		Direction:       entry.Direction,
		ReferenceID:     entry.ReferenceID,
		CustomerID:      entry.CustomerID,
		Amount:          entry.Amount,
	}
}

// EventType returns the event type name
func (e *LedgerEntryOpenedEvent) EventType() string {
	return EventTypeLedgerEntryOpened
}

// LedgerEntryBalanceReducedEvent is raised on a partial payment application
type LedgerEntryBalanceReducedEvent struct {
	shared.BaseDomainEvent
	EntryID       uuid.UUID       `json:"entry_id"`
	Folio         string          `json:"folio"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	Balance       decimal.Decimal `json:"balance"`
}

// NewLedgerEntryBalanceReducedEvent creates a new LedgerEntryBalanceReducedEvent
func NewLedgerEntryBalanceReducedEvent(entry *LedgerEntry, applied decimal.Decimal) *LedgerEntryBalanceReducedEvent {
	return &LedgerEntryBalanceReducedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryBalanceReduced, AggregateTypeLedgerEntry, entry.ID),
		EntryID:         entry.ID,
		Folio:           entry.Folio,
		AppliedAmount:   applied,
		Balance:         entry.Balance,
	}
}

// EventType returns the event type name
func (e *LedgerEntryBalanceReducedEvent) EventType() string {
	return EventTypeLedgerEntryBalanceReduced
}

// LedgerEntryBalanceIncreasedEvent is raised when a refund restores balance
type LedgerEntryBalanceIncreasedEvent struct {
	shared.BaseDomainEvent
	EntryID        uuid.UUID       `json:"entry_id"`
	Folio          string          `json:"folio"`
	RestoredAmount decimal.Decimal `json:"restored_amount"`
	Balance        decimal.Decimal `json:"balance"`
}

// NewLedgerEntryBalanceIncreasedEvent creates a new LedgerEntryBalanceIncreasedEvent
func NewLedgerEntryBalanceIncreasedEvent(entry *LedgerEntry, restored decimal.Decimal) *LedgerEntryBalanceIncreasedEvent {
	return &LedgerEntryBalanceIncreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryBalanceIncreased, AggregateTypeLedgerEntry, entry.ID),
		EntryID:         entry.ID,
		Folio:           entry.Folio,
		RestoredAmount:  restored,
		Balance:         entry.Balance,
	}
}

// EventType returns the event type name
func (e *LedgerEntryBalanceIncreasedEvent) EventType() string {
	return EventTypeLedgerEntryBalanceIncreased
}

// LedgerEntryPaidEvent is raised when the balance reaches zero
type LedgerEntryPaidEvent struct {
	shared.BaseDomainEvent
	EntryID    uuid.UUID       `json:"entry_id"`
	Folio      string          `json:"folio"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// NewLedgerEntryPaidEvent creates a new LedgerEntryPaidEvent
func NewLedgerEntryPaidEvent(entry *LedgerEntry) *LedgerEntryPaidEvent {
	return &LedgerEntryPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryPaid, AggregateTypeLedgerEntry, entry.ID),
		EntryID:         entry.ID,
		Folio:           entry.Folio,
		CustomerID:      entry.CustomerID,
		Amount:          entry.Amount,
	}
}

// EventType returns the event type name
func (e *LedgerEntryPaidEvent) EventType() string {
	return EventTypeLedgerEntryPaid
}

// LedgerEntryOverdueEvent is raised when a pending entry passes its due date
type LedgerEntryOverdueEvent struct {
	shared.BaseDomainEvent
	EntryID    uuid.UUID       `json:"entry_id"`
	Folio      string          `json:"folio"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
}

// NewLedgerEntryOverdueEvent creates a new LedgerEntryOverdueEvent
func NewLedgerEntryOverdueEvent(entry *LedgerEntry) *LedgerEntryOverdueEvent {
	return &LedgerEntryOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryOverdue, AggregateTypeLedgerEntry, entry.ID),
		EntryID:         entry.ID,
		Folio:           entry.Folio,
		CustomerID:      entry.CustomerID,
		Balance:         entry.Balance,
	}
}

// EventType returns the event type name
func (e *LedgerEntryOverdueEvent) EventType() string {
	return EventTypeLedgerEntryOverdue
}

// LedgerEntryCancelledEvent is raised when an entry is voided
type LedgerEntryCancelledEvent struct {
	shared.BaseDomainEvent
	EntryID      uuid.UUID `json:"entry_id"`
	Folio        string    `json:"folio"`
	CancelReason string    `json:"cancel_reason"`
}

// NewLedgerEntryCancelledEvent creates a new LedgerEntryCancelledEvent
func NewLedgerEntryCancelledEvent(entry *LedgerEntry) *LedgerEntryCancelledEvent {
	return &LedgerEntryCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryCancelled, AggregateTypeLedgerEntry, entry.ID),
		EntryID:         entry.ID,
		Folio:           entry.Folio,
		CancelReason:    entry.CancelReason,
	}
}

// EventType returns the event type name
func (e *LedgerEntryCancelledEvent) EventType() string {
	return EventTypeLedgerEntryCancelled
}
