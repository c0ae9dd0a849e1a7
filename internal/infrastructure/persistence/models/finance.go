package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// LedgerEntryModel is the persistence model for the LedgerEntry aggregate root.
type LedgerEntryModel struct {
	AuditedAggregateModel
	Folio         string                    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Direction     finance.EntryDirection    `gorm:"type:varchar(20);not null;index"`
	ReferenceType finance.ReferenceType     `gorm:"type:varchar(20);not null;index:idx_ledger_entry_reference,priority:1"`
	ReferenceID   uuid.UUID                 `gorm:"type:uuid;not null;index:idx_ledger_entry_reference,priority:2"`
	CustomerID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	CustomerName  string                    `gorm:"type:varchar(200);not null"`
	Description   string                    `gorm:"type:varchar(500)"`
	Amount        decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	Balance       decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	IssueDate     time.Time                 `gorm:"not null"`
	DueDate       time.Time                 `gorm:"not null;index"`
	Status        finance.LedgerEntryStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidAt        *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry entity.
func (m *LedgerEntryModel) ToDomain() *finance.LedgerEntry {
	entry := &finance.LedgerEntry{
		Folio:         m.Folio,
		Direction:     m.Direction,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		Description:   m.Description,
		Amount:        m.Amount,
		Balance:       m.Balance,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		Status:        m.Status,
		PaidAt:        m.PaidAt,
		CancelledAt:   m.CancelledAt,
		CancelReason:  m.CancelReason,
	}
	m.PopulateAuditedAggregateRoot(&entry.AuditedAggregateRoot)
	return entry
}

// FromDomain populates the persistence model from a domain LedgerEntry entity.
func (m *LedgerEntryModel) FromDomain(e *finance.LedgerEntry) {
	m.FromDomainAuditedAggregateRoot(e.AuditedAggregateRoot)
	m.Folio = e.Folio
	m.Direction = e.Direction
	m.ReferenceType = e.ReferenceType
	m.ReferenceID = e.ReferenceID
	m.CustomerID = e.CustomerID
	m.CustomerName = e.CustomerName
	m.Description = e.Description
	m.Amount = e.Amount
	m.Balance = e.Balance
	m.IssueDate = e.IssueDate
	m.DueDate = e.DueDate
	m.Status = e.Status
	m.PaidAt = e.PaidAt
	m.CancelledAt = e.CancelledAt
	m.CancelReason = e.CancelReason
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry entity.
func LedgerEntryModelFromDomain(e *finance.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AuditedAggregateModel
	Folio       string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	SaleID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Method      finance.PaymentMethod `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaymentDate time.Time             `gorm:"not null;index"`
	Status      finance.PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Reference   string                `gorm:"type:varchar(100)"`
	Notes       string                `gorm:"type:text"`
	CompletedAt *time.Time
	FailedAt    *time.Time
	FailReason  string `gorm:"type:varchar(500)"`
	RefundedAt  *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *finance.Payment {
	payment := &finance.Payment{
		Folio:       m.Folio,
		SaleID:      m.SaleID,
		Method:      m.Method,
		Amount:      m.Amount,
		PaymentDate: m.PaymentDate,
		Status:      m.Status,
		Reference:   m.Reference,
		Notes:       m.Notes,
		CompletedAt: m.CompletedAt,
		FailedAt:    m.FailedAt,
		FailReason:  m.FailReason,
		RefundedAt:  m.RefundedAt,
	}
	m.PopulateAuditedAggregateRoot(&payment.AuditedAggregateRoot)
	return payment
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *finance.Payment) {
	m.FromDomainAuditedAggregateRoot(p.AuditedAggregateRoot)
	m.Folio = p.Folio
	m.SaleID = p.SaleID
	m.Method = p.Method
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate
	m.Status = p.Status
	m.Reference = p.Reference
	m.Notes = p.Notes
	m.CompletedAt = p.CompletedAt
	m.FailedAt = p.FailedAt
	m.FailReason = p.FailReason
	m.RefundedAt = p.RefundedAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
