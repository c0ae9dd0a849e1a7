package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	AuditedAggregateModel
	Folio          string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	CustomerName   string           `gorm:"type:varchar(200);not null"`
	SaleDate       time.Time        `gorm:"not null;index"`
	Items          []SaleItemModel  `gorm:"foreignKey:SaleID;references:ID"`
	Subtotal       decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Total          decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Status         sales.SaleStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes          string           `gorm:"type:text"`
	ConfirmedAt    *time.Time       `gorm:"index"`
	ShippedAt      *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *sales.Sale {
	sale := &sales.Sale{
		Folio:          m.Folio,
		CustomerID:     m.CustomerID,
		CustomerName:   m.CustomerName,
		SaleDate:       m.SaleDate,
		Subtotal:       m.Subtotal,
		DiscountAmount: m.DiscountAmount,
		TaxAmount:      m.TaxAmount,
		Total:          m.Total,
		Status:         m.Status,
		Notes:          m.Notes,
		ConfirmedAt:    m.ConfirmedAt,
		ShippedAt:      m.ShippedAt,
		CompletedAt:    m.CompletedAt,
		CancelledAt:    m.CancelledAt,
		CancelReason:   m.CancelReason,
		Items:          make([]sales.SaleItem, len(m.Items)),
	}
	m.PopulateAuditedAggregateRoot(&sale.AuditedAggregateRoot)
	for i, item := range m.Items {
		sale.Items[i] = *item.ToDomain()
	}
	return sale
}

// FromDomain populates the persistence model from a domain Sale entity.
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromDomainAuditedAggregateRoot(s.AuditedAggregateRoot)
	m.Folio = s.Folio
	m.CustomerID = s.CustomerID
	m.CustomerName = s.CustomerName
	m.SaleDate = s.SaleDate
	m.Subtotal = s.Subtotal
	m.DiscountAmount = s.DiscountAmount
	m.TaxAmount = s.TaxAmount
	m.Total = s.Total
	m.Status = s.Status
	m.Notes = s.Notes
	m.ConfirmedAt = s.ConfirmedAt
	m.ShippedAt = s.ShippedAt
	m.CompletedAt = s.CompletedAt
	m.CancelledAt = s.CancelledAt
	m.CancelReason = s.CancelReason
	m.Items = make([]SaleItemModel, len(s.Items))
	for i, item := range s.Items {
		m.Items[i] = *SaleItemModelFromDomain(&item)
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale entity.
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleItemModel is the persistence model for the SaleItem entity.
type SaleItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain SaleItem entity.
func (m *SaleItemModel) ToDomain() *sales.SaleItem {
	return &sales.SaleItem{
		ID:          m.ID,
		SaleID:      m.SaleID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		ProductCode: m.ProductCode,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Discount:    m.Discount,
		Subtotal:    m.Subtotal,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// SaleItemModelFromDomain creates a new persistence model from a domain SaleItem entity.
func SaleItemModelFromDomain(i *sales.SaleItem) *SaleItemModel {
	return &SaleItemModel{
		ID:          i.ID,
		SaleID:      i.SaleID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		ProductCode: i.ProductCode,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		Discount:    i.Discount,
		Subtotal:    i.Subtotal,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
