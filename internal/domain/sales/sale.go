package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the lifecycle status of a sale
type SaleStatus string

const (
	SaleStatusDraft     SaleStatus = "DRAFT"
	SaleStatusConfirmed SaleStatus = "CONFIRMED"
	SaleStatusShipped   SaleStatus = "SHIPPED"
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// saleTransitions is the allowed-transition table. A transition absent
// from the table is rejected; terminal states have no entries.
var saleTransitions = map[SaleStatus]map[SaleStatus]bool{
	SaleStatusDraft: {
		SaleStatusConfirmed: true,
		SaleStatusCancelled: true,
	},
	SaleStatusConfirmed: {
		SaleStatusShipped:   true,
		SaleStatusCancelled: true,
	},
	SaleStatusShipped: {
		SaleStatusCompleted: true,
		SaleStatusCancelled: true,
	},
	SaleStatusCompleted: {},
	SaleStatusCancelled: {},
}

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	_, ok := saleTransitions[s]
	return ok
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	return saleTransitions[s][target]
}

// IsTerminal returns true if no transition leaves this status
func (s SaleStatus) IsTerminal() bool {
	return len(saleTransitions[s]) == 0 && s.IsValid()
}

// SaleItem represents a line item owned by a sale.
// Items have no lifecycle of their own: they are created and removed
// only through the owning sale while it is in draft.
type SaleItem struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductCode string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // Line-level discount, subtracted from UnitPrice * Quantity
	Subtotal    decimal.Decimal // UnitPrice * Quantity - Discount
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSaleItem creates a new sale line item
func NewSaleItem(saleID, productID uuid.UUID, productName, productCode string, quantity int64, unitPrice, discount valueobject.Money) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if !unitPrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price must be positive")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Line discount cannot be negative")
	}

	gross := unitPrice.MultiplyByQuantity(quantity)
	subtotal, err := gross.Subtract(discount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Line discount cannot exceed line amount")
	}

	now := time.Now()
	return &SaleItem{
		ID:          uuid.New(),
		SaleID:      saleID,
		ProductID:   productID,
		ProductName: productName,
		ProductCode: productCode,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Discount:    discount.Amount(),
		Subtotal:    subtotal.Amount(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the item quantity and recomputes the line subtotal
func (i *SaleItem) UpdateQuantity(quantity int64) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	gross := valueobject.NewMoneyMXN(i.UnitPrice).MultiplyByQuantity(quantity)
	subtotal, err := gross.Subtract(valueobject.NewMoneyMXN(i.Discount))
	if err != nil {
		return shared.NewDomainError("INVALID_DISCOUNT", "Line discount cannot exceed line amount")
	}

	i.Quantity = quantity
	i.Subtotal = subtotal.Amount()
	i.UpdatedAt = time.Now()

	return nil
}

// UpdateUnitPrice updates the unit price and recomputes the line subtotal
func (i *SaleItem) UpdateUnitPrice(unitPrice valueobject.Money) error {
	if !unitPrice.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price must be positive")
	}

	gross := unitPrice.MultiplyByQuantity(i.Quantity)
	subtotal, err := gross.Subtract(valueobject.NewMoneyMXN(i.Discount))
	if err != nil {
		return shared.NewDomainError("INVALID_DISCOUNT", "Line discount cannot exceed line amount")
	}

	i.UnitPrice = unitPrice.Amount()
	i.Subtotal = subtotal.Amount()
	i.UpdatedAt = time.Now()

	return nil
}

// GetUnitPriceMoney returns the unit price as Money value object
func (i *SaleItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyMXN(i.UnitPrice)
}

// GetSubtotalMoney returns the line subtotal as Money value object
func (i *SaleItem) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyMXN(i.Subtotal)
}

// Sale represents a sale aggregate root.
// It owns its line items and keeps Subtotal, DiscountAmount, TaxAmount
// and Total consistent on every mutation:
//
//	Subtotal = sum of item subtotals
//	Total    = Subtotal - DiscountAmount + TaxAmount
type Sale struct {
	shared.AuditedAggregateRoot
	Folio          string
	CustomerID     uuid.UUID
	CustomerName   string
	SaleDate       time.Time
	Items          []SaleItem
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal // Header-level discount, subtracted from Subtotal
	TaxAmount      decimal.Decimal // Flat tax added on top
	Total          decimal.Decimal
	Status         SaleStatus
	Notes          string
	ConfirmedAt    *time.Time
	ShippedAt      *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// NewSale creates a new sale in draft status with an empty item list
func NewSale(folio string, customerID uuid.UUID, customerName string, saleDate time.Time) (*Sale, error) {
	if folio == "" {
		return nil, shared.NewDomainError("INVALID_FOLIO", "Folio cannot be empty")
	}
	if len(folio) > 50 {
		return nil, shared.NewDomainError("INVALID_FOLIO", "Folio cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if saleDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Sale date is required")
	}

	sale := &Sale{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Folio:                folio,
		CustomerID:           customerID,
		CustomerName:         customerName,
		SaleDate:             saleDate,
		Items:                make([]SaleItem, 0),
		Subtotal:             decimal.Zero,
		DiscountAmount:       decimal.Zero,
		TaxAmount:            decimal.Zero,
		Total:                decimal.Zero,
		Status:               SaleStatusDraft,
	}

	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, nil
}

// changeStatus validates the requested transition against the table and
// applies it. Every state mutation on the sale routes through here.
func (s *Sale) changeStatus(target SaleStatus) error {
	if !s.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError("Sale", s.Status.String(), target.String())
	}
	s.Status = target
	return nil
}

// AddItem adds a new line item to the sale.
// Only allowed in DRAFT status.
func (s *Sale) AddItem(productID uuid.UUID, productName, productCode string, quantity int64, unitPrice, discount valueobject.Money) (*SaleItem, error) {
	if s.Status != SaleStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft sale")
	}

	for _, item := range s.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in sale, update quantity instead")
		}
	}

	item, err := NewSaleItem(s.ID, productID, productName, productCode, quantity, unitPrice, discount)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	if err := s.RecalculateTotals(); err != nil {
		s.Items = s.Items[:len(s.Items)-1]
		return nil, err
	}
	s.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing item.
// Only allowed in DRAFT status.
func (s *Sale) UpdateItemQuantity(itemID uuid.UUID, quantity int64) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft sale")
	}

	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			prev := s.Items[idx]
			if err := s.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			if err := s.RecalculateTotals(); err != nil {
				s.Items[idx] = prev
				return err
			}
			s.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
}

// UpdateItemPrice updates the unit price of an existing item.
// Only allowed in DRAFT status.
func (s *Sale) UpdateItemPrice(itemID uuid.UUID, unitPrice valueobject.Money) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft sale")
	}

	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			prev := s.Items[idx]
			if err := s.Items[idx].UpdateUnitPrice(unitPrice); err != nil {
				return err
			}
			if err := s.RecalculateTotals(); err != nil {
				s.Items[idx] = prev
				return err
			}
			s.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
}

// RemoveItem removes a line item from the sale.
// Only allowed in DRAFT status. Fails if the header discount would
// exceed the reduced subtotal; the discount must be adjusted first.
func (s *Sale) RemoveItem(itemID uuid.UUID) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft sale")
	}

	for idx, item := range s.Items {
		if item.ID == itemID {
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			if err := s.RecalculateTotals(); err != nil {
				s.Items = append(s.Items[:idx], append([]SaleItem{item}, s.Items[idx:]...)...)
				return err
			}
			s.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
}

// ApplyDiscount sets the header-level discount.
// Only allowed in DRAFT status.
func (s *Sale) ApplyDiscount(discount valueobject.Money) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply discount to a non-draft sale")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.Amount().GreaterThan(s.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal")
	}

	s.DiscountAmount = discount.Amount()
	if err := s.RecalculateTotals(); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()

	return nil
}

// SetTax sets the flat tax amount added to the total.
// Only allowed in DRAFT status.
func (s *Sale) SetTax(tax valueobject.Money) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot set tax on a non-draft sale")
	}
	if tax.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax cannot be negative")
	}

	s.TaxAmount = tax.Amount()
	if err := s.RecalculateTotals(); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets the free-text notes on the sale
func (s *Sale) SetNotes(notes string) {
	s.Notes = notes
	s.UpdatedAt = time.Now()
}

// Confirm confirms the sale, transitioning from DRAFT to CONFIRMED.
// Requires at least one line item.
func (s *Sale) Confirm() error {
	if !s.Status.CanTransitionTo(SaleStatusConfirmed) {
		return shared.NewInvalidStateError("Sale", s.Status.String(), SaleStatusConfirmed.String())
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError("EMPTY_SALE", "Cannot confirm a sale without line items")
	}
	if err := s.RecalculateTotals(); err != nil {
		return err
	}

	now := time.Now()
	s.Status = SaleStatusConfirmed
	s.ConfirmedAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleConfirmedEvent(s))

	return nil
}

// MarkShipped marks the sale as shipped
func (s *Sale) MarkShipped() error {
	if err := s.changeStatus(SaleStatusShipped); err != nil {
		return err
	}

	now := time.Now()
	s.ShippedAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleShippedEvent(s))

	return nil
}

// MarkCompleted marks the sale as completed (delivered and settled)
func (s *Sale) MarkCompleted() error {
	if err := s.changeStatus(SaleStatusCompleted); err != nil {
		return err
	}

	now := time.Now()
	s.CompletedAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleCompletedEvent(s))

	return nil
}

// Cancel cancels the sale. Allowed from DRAFT, CONFIRMED or SHIPPED.
func (s *Sale) Cancel(reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	wasConfirmed := s.Status == SaleStatusConfirmed || s.Status == SaleStatusShipped
	if err := s.changeStatus(SaleStatusCancelled); err != nil {
		return err
	}

	now := time.Now()
	s.CancelledAt = &now
	s.CancelReason = reason
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleCancelledEvent(s, wasConfirmed))

	return nil
}

// RecalculateTotals recomputes Subtotal and Total from the current
// items and the discount and tax fields. Idempotent: calling it twice
// with no mutation in between yields identical totals. It never clamps;
// a discount left exceeding the subtotal surfaces as an error.
func (s *Sale) RecalculateTotals() error {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}

	if s.DiscountAmount.GreaterThan(subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount exceeds subtotal, adjust the discount first")
	}

	s.Subtotal = subtotal
	s.Total = subtotal.Sub(s.DiscountAmount).Add(s.TaxAmount)

	return nil
}

// GetSubtotalMoney returns the subtotal as Money
func (s *Sale) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyMXN(s.Subtotal)
}

// GetDiscountMoney returns the header discount as Money
func (s *Sale) GetDiscountMoney() valueobject.Money {
	return valueobject.NewMoneyMXN(s.DiscountAmount)
}

// GetTaxMoney returns the tax amount as Money
func (s *Sale) GetTaxMoney() valueobject.Money {
	return valueobject.NewMoneyMXN(s.TaxAmount)
}

// GetTotalMoney returns the total as Money
func (s *Sale) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyMXN(s.Total)
}

// ItemCount returns the number of line items in the sale
func (s *Sale) ItemCount() int {
	return len(s.Items)
}

// IsDraft returns true if the sale is in draft status
func (s *Sale) IsDraft() bool {
	return s.Status == SaleStatusDraft
}

// IsConfirmed returns true if the sale is confirmed
func (s *Sale) IsConfirmed() bool {
	return s.Status == SaleStatusConfirmed
}

// IsTerminal returns true if the sale is completed or cancelled
func (s *Sale) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// CanModify returns true if items, discount and tax can still change
func (s *Sale) CanModify() bool {
	return s.IsDraft()
}

// GetItem returns an item by its ID
func (s *Sale) GetItem(itemID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			return &s.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product ID
func (s *Sale) GetItemByProduct(productID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			return &s.Items[idx]
		}
	}
	return nil
}
