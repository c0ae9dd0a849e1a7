package handler

import (
	"github.com/gin-gonic/gin"

	appfinance "github.com/nexoerp/backend/internal/application/finance"
)

// PaymentHandler exposes the payment operations over HTTP
type PaymentHandler struct {
	BaseHandler
	service *appfinance.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service *appfinance.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Create handles POST /finance/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req appfinance.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, payment)
}

// List handles GET /finance/payments
func (h *PaymentHandler) List(c *gin.Context) {
	var filter appfinance.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize, result.TotalPages)
}

// GetByID handles GET /finance/payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	paymentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	payment, err := h.service.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// GetByFolio handles GET /finance/payments/folio/:folio
func (h *PaymentHandler) GetByFolio(c *gin.Context) {
	folio := c.Param("folio")
	if folio == "" {
		h.BadRequest(c, "folio is required")
		return
	}

	payment, err := h.service.GetByFolio(c.Request.Context(), folio)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// ListBySale handles GET /finance/payments/sale/:sale_id
func (h *PaymentHandler) ListBySale(c *gin.Context) {
	saleID, ok := h.parseID(c, "sale_id")
	if !ok {
		return
	}

	payments, err := h.service.ListBySale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payments)
}

// Complete handles POST /finance/payments/:id/complete
func (h *PaymentHandler) Complete(c *gin.Context) {
	paymentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	payment, err := h.service.Complete(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// Fail handles POST /finance/payments/:id/fail
func (h *PaymentHandler) Fail(c *gin.Context) {
	paymentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req appfinance.FailPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.service.Fail(c.Request.Context(), paymentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// Refund handles POST /finance/payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	paymentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	payment, err := h.service.Refund(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}
