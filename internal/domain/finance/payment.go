package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodTransfer   PaymentMethod = "TRANSFER"
	PaymentMethodCheck      PaymentMethod = "CHECK"
	PaymentMethodOther      PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus represents the lifecycle status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// paymentTransitions is the allowed-transition table.
// FAILED and REFUNDED are terminal.
var paymentTransitions = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentStatusPending: {
		PaymentStatusCompleted: true,
		PaymentStatusFailed:    true,
	},
	PaymentStatusCompleted: {
		PaymentStatusRefunded: true,
	},
	PaymentStatusFailed:   {},
	PaymentStatusRefunded: {},
}

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	return paymentTransitions[s][target]
}

// IsTerminal returns true if no transition leaves this status
func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0 && s.IsValid()
}

// Payment tracks a payment made against a sale. Completing a payment is
// the only trigger that reduces the matching ledger entry balance;
// refunding it is the only trigger that restores it. Both go through
// the reconciliation coordinator, never directly.
type Payment struct {
	shared.AuditedAggregateRoot
	Folio       string
	SaleID      uuid.UUID // Immutable after creation
	Method      PaymentMethod
	Amount      decimal.Decimal // Immutable after creation
	PaymentDate time.Time
	Status      PaymentStatus
	Reference   string
	Notes       string
	CompletedAt *time.Time
	FailedAt    *time.Time
	FailReason  string
	RefundedAt  *time.Time
}

// NewPayment creates a new payment in PENDING status
func NewPayment(
	folio string,
	saleID uuid.UUID,
	method PaymentMethod,
	amount valueobject.Money,
	paymentDate time.Time,
	reference string,
	notes string,
) (*Payment, error) {
	if folio == "" {
		return nil, shared.NewDomainError("INVALID_FOLIO", "Folio cannot be empty")
	}
	if len(folio) > 50 {
		return nil, shared.NewDomainError("INVALID_FOLIO", "Folio cannot exceed 50 characters")
	}
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Payment date is required")
	}

	payment := &Payment{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Folio:                folio,
		SaleID:               saleID,
		Method:               method,
		Amount:               amount.Amount(),
		PaymentDate:          paymentDate,
		Status:               PaymentStatusPending,
		Reference:            reference,
		Notes:                notes,
	}

	payment.AddDomainEvent(NewPaymentCreatedEvent(payment))

	return payment, nil
}

// ChangeState validates the requested transition against the table and
// applies it. The three named operations route through here; it is also
// the entry point for administrative transitions.
func (p *Payment) ChangeState(target PaymentStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_ARGUMENT", "Target payment status is not valid")
	}
	if !p.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError("Payment", p.Status.String(), target.String())
	}

	now := time.Now()
	p.Status = target

	switch target {
	case PaymentStatusCompleted:
		p.CompletedAt = &now
		p.AddDomainEvent(NewPaymentCompletedEvent(p))
	case PaymentStatusFailed:
		p.FailedAt = &now
		p.AddDomainEvent(NewPaymentFailedEvent(p))
	case PaymentStatusRefunded:
		p.RefundedAt = &now
		p.AddDomainEvent(NewPaymentRefundedEvent(p))
	}

	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Complete marks the payment as completed.
// The coordinator reduces the matching ledger entry on this transition.
func (p *Payment) Complete() error {
	return p.ChangeState(PaymentStatusCompleted)
}

// Fail marks the payment as failed with an optional reason
func (p *Payment) Fail(reason string) error {
	if err := p.ChangeState(PaymentStatusFailed); err != nil {
		return err
	}
	p.FailReason = reason
	return nil
}

// Refund marks a completed payment as refunded.
// The coordinator restores the matching ledger entry on this transition.
func (p *Payment) Refund() error {
	return p.ChangeState(PaymentStatusRefunded)
}

// SetNotes sets the free-text notes on the payment
func (p *Payment) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// GetAmountMoney returns the payment amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyMXN(p.Amount)
}

// IsPending returns true if the payment is pending
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// IsCompleted returns true if the payment is completed
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

// IsRefunded returns true if the payment is refunded
func (p *Payment) IsRefunded() bool {
	return p.Status == PaymentStatusRefunded
}

// IsTerminal returns true if the payment is failed or refunded
func (p *Payment) IsTerminal() bool {
	return p.Status.IsTerminal()
}
