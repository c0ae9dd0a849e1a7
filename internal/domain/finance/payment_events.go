package finance

import (
	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePayment = "Payment"

// Event type constants
const (
	EventTypePaymentCreated   = "PaymentCreated"
	EventTypePaymentCompleted = "PaymentCompleted"
	EventTypePaymentFailed    = "PaymentFailed"
	EventTypePaymentRefunded  = "PaymentRefunded"
)

// PaymentCreatedEvent is raised when a new payment is registered
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	Folio     string          `json:"folio"`
	SaleID    uuid.UUID       `json:"sale_id"`
	Method    PaymentMethod   `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(payment *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCreated, AggregateTypePayment, payment.ID),
		PaymentID:       payment.ID,
		Folio:           payment.Folio,
		SaleID:          payment.SaleID,
		Method:          payment.Method,
		Amount:          payment.Amount,
	}
}

// EventType returns the event type name
func (e *PaymentCreatedEvent) EventType() string {
	return EventTypePaymentCreated
}

// PaymentCompletedEvent is raised when a payment completes.
// The reconciliation coordinator reduces the matching ledger entry
// in response to this transition.
type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	Folio     string          `json:"folio"`
	SaleID    uuid.UUID       `json:"sale_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewPaymentCompletedEvent creates a new PaymentCompletedEvent
func NewPaymentCompletedEvent(payment *Payment) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCompleted, AggregateTypePayment, payment.ID),
		PaymentID:       payment.ID,
		Folio:           payment.Folio,
		SaleID:          payment.SaleID,
		Amount:          payment.Amount,
	}
}

// EventType returns the event type name
func (e *PaymentCompletedEvent) EventType() string {
	return EventTypePaymentCompleted
}

// PaymentFailedEvent is raised when a payment fails
type PaymentFailedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	Folio     string          `json:"folio"`
	SaleID    uuid.UUID       `json:"sale_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(payment *Payment) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentFailed, AggregateTypePayment, payment.ID),
		PaymentID:       payment.ID,
		Folio:           payment.Folio,
		SaleID:          payment.SaleID,
		Amount:          payment.Amount,
	}
}

// EventType returns the event type name
func (e *PaymentFailedEvent) EventType() string {
	return EventTypePaymentFailed
}

// PaymentRefundedEvent is raised when a completed payment is refunded.
// The reconciliation coordinator restores the matching ledger entry
// balance in response to this transition.
type PaymentRefundedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID       `json:"payment_id"`
	Folio     string          `json:"folio"`
	SaleID    uuid.UUID       `json:"sale_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewPaymentRefundedEvent creates a new PaymentRefundedEvent
func NewPaymentRefundedEvent(payment *Payment) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRefunded, AggregateTypePayment, payment.ID),
		PaymentID:       payment.ID,
		Folio:           payment.Folio,
		SaleID:          payment.SaleID,
		Amount:          payment.Amount,
	}
}

// EventType returns the event type name
func (e *PaymentRefundedEvent) EventType() string {
	return EventTypePaymentRefunded
}
