package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	CustomerID   uuid.UUID             `json:"customer_id" binding:"required"`
	CustomerName string                `json:"customer_name" binding:"required,min=1,max=200"`
	SaleDate     *time.Time            `json:"sale_date"`
	Items        []CreateSaleItemInput `json:"items"`
	Discount     *decimal.Decimal      `json:"discount"`
	Tax          *decimal.Decimal      `json:"tax"`
	Notes        string                `json:"notes"`
}

// CreateSaleItemInput represents a line item in the create sale request
type CreateSaleItemInput struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	ProductName string           `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string           `json:"product_code" binding:"required,min=1,max=50"`
	Quantity    int64            `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal  `json:"unit_price" binding:"required"`
	Discount    *decimal.Decimal `json:"discount"`
}

// AddSaleItemRequest represents a request to add an item to a sale
type AddSaleItemRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	ProductName string           `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string           `json:"product_code" binding:"required,min=1,max=50"`
	Quantity    int64            `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal  `json:"unit_price" binding:"required"`
	Discount    *decimal.Decimal `json:"discount"`
}

// UpdateSaleItemRequest represents a request to update a sale item
type UpdateSaleItemRequest struct {
	Quantity  *int64           `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// ApplyDiscountRequest represents a request to set the sale-level discount
type ApplyDiscountRequest struct {
	Discount decimal.Decimal `json:"discount" binding:"required"`
}

// SetTaxRequest represents a request to set the flat tax amount
type SetTaxRequest struct {
	Tax decimal.Decimal `json:"tax" binding:"required"`
}

// CancelSaleRequest represents a request to cancel a sale
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Search     string            `form:"search"`
	CustomerID *uuid.UUID        `form:"customer_id"`
	Status     *sales.SaleStatus `form:"status"`
	Page       int               `form:"page" binding:"omitempty,min=1"`
	PageSize   int               `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string            `form:"order_by"`
	OrderDir   string            `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	Folio          string             `json:"folio"`
	CustomerID     uuid.UUID          `json:"customer_id"`
	CustomerName   string             `json:"customer_name"`
	SaleDate       time.Time          `json:"sale_date"`
	Items          []SaleItemResponse `json:"items"`
	ItemCount      int                `json:"item_count"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	Total          decimal.Decimal    `json:"total"`
	Currency       string             `json:"currency"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes"`
	ConfirmedAt    *time.Time         `json:"confirmed_at,omitempty"`
	ShippedAt      *time.Time         `json:"shipped_at,omitempty"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	CancelledAt    *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason   string             `json:"cancel_reason,omitempty"`
	Version        int                `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// SaleItemResponse represents a sale line item in API responses
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleListItemResponse represents a sale in list responses, without items
type SaleListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Folio        string          `json:"folio"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	SaleDate     time.Time       `json:"sale_date"`
	ItemCount    int             `json:"item_count"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToSaleResponse converts a domain Sale to a SaleResponse
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Subtotal:    item.Subtotal,
		}
	}

	return SaleResponse{
		ID:             sale.ID,
		Folio:          sale.Folio,
		CustomerID:     sale.CustomerID,
		CustomerName:   sale.CustomerName,
		SaleDate:       sale.SaleDate,
		Items:          items,
		ItemCount:      len(items),
		Subtotal:       sale.Subtotal,
		DiscountAmount: sale.DiscountAmount,
		TaxAmount:      sale.TaxAmount,
		Total:          sale.Total,
		Currency:       string(sale.GetTotalMoney().Currency()),
		Status:         string(sale.Status),
		Notes:          sale.Notes,
		ConfirmedAt:    sale.ConfirmedAt,
		ShippedAt:      sale.ShippedAt,
		CompletedAt:    sale.CompletedAt,
		CancelledAt:    sale.CancelledAt,
		CancelReason:   sale.CancelReason,
		Version:        sale.Version,
		CreatedAt:      sale.CreatedAt,
		UpdatedAt:      sale.UpdatedAt,
	}
}

// ToSaleListItemResponses converts domain Sales to list item responses
func ToSaleListItemResponses(domainSales []sales.Sale) []SaleListItemResponse {
	responses := make([]SaleListItemResponse, len(domainSales))
	for i, sale := range domainSales {
		responses[i] = SaleListItemResponse{
			ID:           sale.ID,
			Folio:        sale.Folio,
			CustomerID:   sale.CustomerID,
			CustomerName: sale.CustomerName,
			SaleDate:     sale.SaleDate,
			ItemCount:    len(sale.Items),
			Total:        sale.Total,
			Status:       string(sale.Status),
			CreatedAt:    sale.CreatedAt,
		}
	}
	return responses
}
