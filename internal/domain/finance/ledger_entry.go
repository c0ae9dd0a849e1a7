package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// EntryDirection distinguishes money owed to us from money we owe
type EntryDirection string

const (
	DirectionReceivable EntryDirection = "RECEIVABLE"
	DirectionPayable    EntryDirection = "PAYABLE"
)

// IsValid checks if the direction is valid
func (d EntryDirection) IsValid() bool {
	return d == DirectionReceivable || d == DirectionPayable
}

// String returns the string representation of EntryDirection
func (d EntryDirection) String() string {
	return string(d)
}

// ReferenceType identifies the kind of origin document for a ledger entry
type ReferenceType string

const (
	ReferenceTypeSale   ReferenceType = "SALE"
	ReferenceTypeManual ReferenceType = "MANUAL"
)

// IsValid checks if the reference type is valid
func (r ReferenceType) IsValid() bool {
	return r == ReferenceTypeSale || r == ReferenceTypeManual
}

// LedgerEntryStatus represents the settlement status of a ledger entry
type LedgerEntryStatus string

const (
	LedgerEntryStatusPending   LedgerEntryStatus = "PENDING"
	LedgerEntryStatusPaid      LedgerEntryStatus = "PAID"
	LedgerEntryStatusOverdue   LedgerEntryStatus = "OVERDUE"
	LedgerEntryStatusCancelled LedgerEntryStatus = "CANCELLED"
)

// ledgerEntryTransitions is the allowed-transition table. PAID can move
// back to PENDING or OVERDUE only through a refund that restores
// balance; CANCELLED is terminal.
var ledgerEntryTransitions = map[LedgerEntryStatus]map[LedgerEntryStatus]bool{
	LedgerEntryStatusPending: {
		LedgerEntryStatusPaid:      true,
		LedgerEntryStatusOverdue:   true,
		LedgerEntryStatusCancelled: true,
	},
	LedgerEntryStatusOverdue: {
		LedgerEntryStatusPaid:      true,
		LedgerEntryStatusPending:   true,
		LedgerEntryStatusCancelled: true,
	},
	LedgerEntryStatusPaid: {
		LedgerEntryStatusPending: true,
		LedgerEntryStatusOverdue: true,
	},
	LedgerEntryStatusCancelled: {},
}

// IsValid checks if the status is a valid LedgerEntryStatus
func (s LedgerEntryStatus) IsValid() bool {
	_, ok := ledgerEntryTransitions[s]
	return ok
}

// String returns the string representation of LedgerEntryStatus
func (s LedgerEntryStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s LedgerEntryStatus) CanTransitionTo(target LedgerEntryStatus) bool {
	return ledgerEntryTransitions[s][target]
}

// IsTerminal returns true if no transition leaves this status
func (s LedgerEntryStatus) IsTerminal() bool {
	return len(ledgerEntryTransitions[s]) == 0 && s.IsValid()
}

// CanModifyBalance returns true if the balance can still be reduced
func (s LedgerEntryStatus) CanModifyBalance() bool {
	return s == LedgerEntryStatusPending || s == LedgerEntryStatusOverdue
}

// LedgerEntry tracks an amount owed and its remaining balance against an
// origin document. The invariant 0 <= Balance <= Amount holds at every
// observable point; Amount never changes after creation.
type LedgerEntry struct {
	shared.AuditedAggregateRoot
	Folio         string
	Direction     EntryDirection
	ReferenceType ReferenceType
	ReferenceID   uuid.UUID
	CustomerID    uuid.UUID
	CustomerName  string
	Description   string
	Amount        decimal.Decimal // Original amount, immutable after creation
	Balance       decimal.Decimal // Remaining balance, only mutated via Reduce/IncreaseBalance
	IssueDate     time.Time
	DueDate       time.Time
	Status        LedgerEntryStatus
	PaidAt        *time.Time
	CancelledAt   *time.Time
	CancelReason  string
}

// NewLedgerEntry opens a new ledger entry with balance equal to the
// original amount and status PENDING.
func NewLedgerEntry(
	folio string,
	direction EntryDirection,
	referenceType ReferenceType,
	referenceID uuid.UUID,
	customerID uuid.UUID,
	customerName string,
	description string,
	amount valueobject.Money,
	issueDate time.Time,
	dueDate time.Time,
) (*LedgerEntry, error) {
	if folio == "" {
		return nil, shared.NewDomainError("INVALID_FOLIO", "Folio cannot be empty")
	}
	if len(folio) > 50 {
		return nil, shared.NewDomainError("INVALID_FOLIO", "Folio cannot exceed 50 characters")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Entry direction is not valid")
	}
	if !referenceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference type is not valid")
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}
	if issueDate.IsZero() || dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Issue date and due date are required")
	}
	if dueDate.Before(issueDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before issue date")
	}

	entry := &LedgerEntry{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Folio:                folio,
		Direction:            direction,
		ReferenceType:        referenceType,
		ReferenceID:          referenceID,
		CustomerID:           customerID,
		CustomerName:         customerName,
		Description:          description,
		Amount:               amount.Amount(),
		Balance:              amount.Amount(),
		IssueDate:            issueDate,
		DueDate:              dueDate,
		Status:               LedgerEntryStatusPending,
	}

	entry.AddDomainEvent(NewLedgerEntryOpenedEvent(entry))

	return entry, nil
}

// ReduceBalance applies a payment against the remaining balance.
// The balance check and write happen here together; callers must hold
// the per-entry lock so no other writer interleaves.
func (le *LedgerEntry) ReduceBalance(payment valueobject.Money) error {
	if !le.Status.CanModifyBalance() {
		return shared.NewInvalidStateError("LedgerEntry", le.Status.String(), "balance reduction")
	}
	if !payment.IsPositive() {
		return shared.NewDomainError("INVALID_ARGUMENT", "Payment amount must be positive")
	}
	if payment.Amount().GreaterThan(le.Balance) {
		return shared.NewDomainError("EXCEEDS_BALANCE", "Payment amount exceeds remaining balance")
	}

	balance, err := valueobject.NewMoneyMXN(le.Balance).Subtract(payment)
	if err != nil {
		return err
	}
	le.Balance = balance.Amount()

	now := time.Now()
	if le.Balance.IsZero() {
		le.Status = LedgerEntryStatusPaid
		le.PaidAt = &now
		le.AddDomainEvent(NewLedgerEntryPaidEvent(le))
	} else {
		le.AddDomainEvent(NewLedgerEntryBalanceReducedEvent(le, payment.Amount()))
	}

	le.UpdatedAt = now
	le.IncrementVersion()

	return nil
}

// IncreaseBalance restores part of the balance after a payment refund.
// The balance never exceeds the original amount. A PAID entry reverts
// to PENDING, or to OVERDUE when today is already past the due date.
func (le *LedgerEntry) IncreaseBalance(refund valueobject.Money, today time.Time) error {
	if le.Status == LedgerEntryStatusCancelled {
		return shared.NewInvalidStateError("LedgerEntry", le.Status.String(), "balance increase")
	}
	if !refund.IsPositive() {
		return shared.NewDomainError("INVALID_ARGUMENT", "Refund amount must be positive")
	}

	newBalance := le.Balance.Add(refund.Amount())
	if newBalance.GreaterThan(le.Amount) {
		return shared.NewDomainError("EXCEEDS_AMOUNT", "Refund would raise balance above the original amount")
	}

	wasPaid := le.Status == LedgerEntryStatusPaid
	le.Balance = newBalance

	if wasPaid {
		le.PaidAt = nil
		if today.After(le.DueDate) {
			le.Status = LedgerEntryStatusOverdue
		} else {
			le.Status = LedgerEntryStatusPending
		}
	}

	le.AddDomainEvent(NewLedgerEntryBalanceIncreasedEvent(le, refund.Amount()))
	le.UpdatedAt = time.Now()
	le.IncrementVersion()

	return nil
}

// Cancel voids the entry. A PAID entry cannot be cancelled: that would
// erase a completed settlement.
func (le *LedgerEntry) Cancel(reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if !le.Status.CanTransitionTo(LedgerEntryStatusCancelled) {
		return shared.NewInvalidStateError("LedgerEntry", le.Status.String(), LedgerEntryStatusCancelled.String())
	}

	now := time.Now()
	le.Status = LedgerEntryStatusCancelled
	le.CancelledAt = &now
	le.CancelReason = reason
	le.UpdatedAt = now
	le.IncrementVersion()

	le.AddDomainEvent(NewLedgerEntryCancelledEvent(le))

	return nil
}

// RefreshOverdueStatus performs the lazy overdue transition: a PENDING
// entry with an outstanding balance whose due date has passed becomes
// OVERDUE. Called on every read and mutation path instead of a timer.
// Returns true if the status changed.
func (le *LedgerEntry) RefreshOverdueStatus(today time.Time) bool {
	if le.Status != LedgerEntryStatusPending {
		return false
	}
	if !today.After(le.DueDate) {
		return false
	}
	if !le.Balance.IsPositive() {
		return false
	}

	le.Status = LedgerEntryStatusOverdue
	le.UpdatedAt = time.Now()
	le.IncrementVersion()

	le.AddDomainEvent(NewLedgerEntryOverdueEvent(le))

	return true
}

// DaysOverdue returns the number of days past the due date, 0 when the
// entry is not overdue.
func (le *LedgerEntry) DaysOverdue(today time.Time) int {
	if le.Status.IsTerminal() || le.Status == LedgerEntryStatusPaid {
		return 0
	}
	if !today.After(le.DueDate) {
		return 0
	}
	return int(today.Sub(le.DueDate).Hours() / 24)
}

// GetAmountMoney returns the original amount as Money
func (le *LedgerEntry) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyMXN(le.Amount)
}

// GetBalanceMoney returns the remaining balance as Money
func (le *LedgerEntry) GetBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyMXN(le.Balance)
}

// SettledAmount returns the portion of the original amount already paid
func (le *LedgerEntry) SettledAmount() decimal.Decimal {
	return le.Amount.Sub(le.Balance)
}

// IsPending returns true if the entry is pending
func (le *LedgerEntry) IsPending() bool {
	return le.Status == LedgerEntryStatusPending
}

// IsPaid returns true if the entry is fully settled
func (le *LedgerEntry) IsPaid() bool {
	return le.Status == LedgerEntryStatusPaid
}

// IsOverdue returns true if the entry is overdue
func (le *LedgerEntry) IsOverdue() bool {
	return le.Status == LedgerEntryStatusOverdue
}

// IsCancelled returns true if the entry is cancelled
func (le *LedgerEntry) IsCancelled() bool {
	return le.Status == LedgerEntryStatusCancelled
}
