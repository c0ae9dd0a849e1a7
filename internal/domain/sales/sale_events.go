package sales

import (
	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleCreated   = "SaleCreated"
	EventTypeSaleConfirmed = "SaleConfirmed"
	EventTypeSaleShipped   = "SaleShipped"
	EventTypeSaleCompleted = "SaleCompleted"
	EventTypeSaleCancelled = "SaleCancelled"
)

// SaleCreatedEvent is raised when a new sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID `json:"sale_id"`
	Folio        string    `json:"folio"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		Folio:           sale.Folio,
		CustomerID:      sale.CustomerID,
		CustomerName:    sale.CustomerName,
	}
}

// EventType returns the event type name
func (e *SaleCreatedEvent) EventType() string {
	return EventTypeSaleCreated
}

// SaleItemInfo represents line item information carried by events
type SaleItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

func saleItemInfos(sale *Sale) []SaleItemInfo {
	items := make([]SaleItemInfo, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
	}
	return items
}

// SaleConfirmedEvent is raised when a sale is confirmed.
// This event triggers the opening of the matching receivable ledger entry.
type SaleConfirmedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID       `json:"sale_id"`
	Folio        string          `json:"folio"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Items        []SaleItemInfo  `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Total        decimal.Decimal `json:"total"`
}

// NewSaleConfirmedEvent creates a new SaleConfirmedEvent
func NewSaleConfirmedEvent(sale *Sale) *SaleConfirmedEvent {
	return &SaleConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleConfirmed, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		Folio:           sale.Folio,
		CustomerID:      sale.CustomerID,
		CustomerName:    sale.CustomerName,
		Items:           saleItemInfos(sale),
		Subtotal:        sale.Subtotal,
		Total:           sale.Total,
	}
}

// EventType returns the event type name
func (e *SaleConfirmedEvent) EventType() string {
	return EventTypeSaleConfirmed
}

// SaleShippedEvent is raised when a sale is marked shipped
type SaleShippedEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID       `json:"sale_id"`
	Folio  string          `json:"folio"`
	Total  decimal.Decimal `json:"total"`
}

// NewSaleShippedEvent creates a new SaleShippedEvent
func NewSaleShippedEvent(sale *Sale) *SaleShippedEvent {
	return &SaleShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleShipped, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		Folio:           sale.Folio,
		Total:           sale.Total,
	}
}

// EventType returns the event type name
func (e *SaleShippedEvent) EventType() string {
	return EventTypeSaleShipped
}

// SaleCompletedEvent is raised when a sale is marked completed
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	Folio      string          `json:"folio"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		Folio:           sale.Folio,
		CustomerID:      sale.CustomerID,
		Total:           sale.Total,
	}
}

// EventType returns the event type name
func (e *SaleCompletedEvent) EventType() string {
	return EventTypeSaleCompleted
}

// SaleCancelledEvent is raised when a sale is cancelled.
// WasConfirmed tells downstream listeners whether a ledger entry may
// already exist for this sale.
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID `json:"sale_id"`
	Folio        string    `json:"folio"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CancelReason string    `json:"cancel_reason"`
	WasConfirmed bool      `json:"was_confirmed"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale, wasConfirmed bool) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		Folio:           sale.Folio,
		CustomerID:      sale.CustomerID,
		CancelReason:    sale.CancelReason,
		WasConfirmed:    wasConfirmed,
	}
}

// EventType returns the event type name
func (e *SaleCancelledEvent) EventType() string {
	return EventTypeSaleCancelled
}
