package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// ==================== Ledger Entry DTOs ====================

// OpenLedgerEntryRequest represents a request to open a manual ledger entry
type OpenLedgerEntryRequest struct {
	Direction    finance.EntryDirection `json:"direction" binding:"required"`
	CustomerID   uuid.UUID              `json:"customer_id" binding:"required"`
	CustomerName string                 `json:"customer_name" binding:"required,min=1,max=200"`
	Description  string                 `json:"description" binding:"max=500"`
	Amount       decimal.Decimal        `json:"amount" binding:"required"`
	IssueDate    *time.Time             `json:"issue_date"`
	DueDate      *time.Time             `json:"due_date"`
}

// CancelLedgerEntryRequest represents a request to cancel a ledger entry
type CancelLedgerEntryRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// LedgerEntryListFilter represents filter options for the ledger entry list
type LedgerEntryListFilter struct {
	Search     string                     `form:"search"`
	CustomerID *uuid.UUID                 `form:"customer_id"`
	Direction  *finance.EntryDirection    `form:"direction"`
	Status     *finance.LedgerEntryStatus `form:"status"`
	Page       int                        `form:"page" binding:"omitempty,min=1"`
	PageSize   int                        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string                     `form:"order_by"`
	OrderDir   string                     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Folio         string          `json:"folio"`
	Direction     string          `json:"direction"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   uuid.UUID       `json:"reference_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	DaysOverdue   int             `json:"days_overdue"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToLedgerEntryResponse converts a domain LedgerEntry to a response
func ToLedgerEntryResponse(entry *finance.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            entry.ID,
		Folio:         entry.Folio,
		Direction:     string(entry.Direction),
		ReferenceType: string(entry.ReferenceType),
		ReferenceID:   entry.ReferenceID,
		CustomerID:    entry.CustomerID,
		CustomerName:  entry.CustomerName,
		Description:   entry.Description,
		Amount:        entry.Amount,
		Balance:       entry.Balance,
		PaidAmount:    entry.Amount.Sub(entry.Balance),
		IssueDate:     entry.IssueDate,
		DueDate:       entry.DueDate,
		Status:        string(entry.Status),
		DaysOverdue:   entry.DaysOverdue(time.Now()),
		PaidAt:        entry.PaidAt,
		CancelledAt:   entry.CancelledAt,
		CancelReason:  entry.CancelReason,
		Version:       entry.Version,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
	}
}

// ToLedgerEntryResponses converts domain LedgerEntries to responses
func ToLedgerEntryResponses(entries []finance.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses
}

// ==================== Payment DTOs ====================

// CreatePaymentRequest represents a request to register a payment against a sale
type CreatePaymentRequest struct {
	SaleID      uuid.UUID             `json:"sale_id" binding:"required"`
	Method      finance.PaymentMethod `json:"method" binding:"required"`
	Amount      decimal.Decimal       `json:"amount" binding:"required"`
	PaymentDate *time.Time            `json:"payment_date"`
	Reference   string                `json:"reference" binding:"max=100"`
	Notes       string                `json:"notes"`
}

// FailPaymentRequest represents a request to mark a payment as failed
type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	Search   string                 `form:"search"`
	SaleID   *uuid.UUID             `form:"sale_id"`
	Status   *finance.PaymentStatus `form:"status"`
	Method   *finance.PaymentMethod `form:"method"`
	Page     int                    `form:"page" binding:"omitempty,min=1"`
	PageSize int                    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string                 `form:"order_by"`
	OrderDir string                 `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	Folio       string          `json:"folio"`
	SaleID      uuid.UUID       `json:"sale_id"`
	Method      string          `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	FailedAt    *time.Time      `json:"failed_at,omitempty"`
	FailReason  string          `json:"fail_reason,omitempty"`
	RefundedAt  *time.Time      `json:"refunded_at,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToPaymentResponse converts a domain Payment to a response
func ToPaymentResponse(payment *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          payment.ID,
		Folio:       payment.Folio,
		SaleID:      payment.SaleID,
		Method:      string(payment.Method),
		Amount:      payment.Amount,
		PaymentDate: payment.PaymentDate,
		Status:      string(payment.Status),
		Reference:   payment.Reference,
		Notes:       payment.Notes,
		CompletedAt: payment.CompletedAt,
		FailedAt:    payment.FailedAt,
		FailReason:  payment.FailReason,
		RefundedAt:  payment.RefundedAt,
		Version:     payment.Version,
		CreatedAt:   payment.CreatedAt,
		UpdatedAt:   payment.UpdatedAt,
	}
}

// ToPaymentResponses converts domain Payments to responses
func ToPaymentResponses(payments []finance.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
