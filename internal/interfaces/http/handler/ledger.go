package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfinance "github.com/nexoerp/backend/internal/application/finance"
)

// LedgerHandler exposes the ledger entry operations over HTTP
type LedgerHandler struct {
	BaseHandler
	service *appfinance.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(service *appfinance.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// OpenManual handles POST /finance/ledger
func (h *LedgerHandler) OpenManual(c *gin.Context) {
	var req appfinance.OpenLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.OpenManual(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, entry)
}

// List handles GET /finance/ledger
func (h *LedgerHandler) List(c *gin.Context) {
	var filter appfinance.LedgerEntryListFilter
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

// ListOutstanding handles GET /finance/ledger/outstanding
func (h *LedgerHandler) ListOutstanding(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		h.BadRequest(c, "invalid customer_id")
		return
	}

	entries, err := h.service.ListOutstanding(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// GetByID handles GET /finance/ledger/:id
func (h *LedgerHandler) GetByID(c *gin.Context) {
	entryID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.GetByID(c.Request.Context(), entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entry)
}

// GetByFolio handles GET /finance/ledger/folio/:folio
func (h *LedgerHandler) GetByFolio(c *gin.Context) {
	folio := c.Param("folio")
	if folio == "" {
		h.BadRequest(c, "folio is required")
		return
	}

	entry, err := h.service.GetByFolio(c.Request.Context(), folio)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entry)
}

// GetBySale handles GET /finance/ledger/sale/:sale_id
func (h *LedgerHandler) GetBySale(c *gin.Context) {
	saleID, ok := h.parseID(c, "sale_id")
	if !ok {
		return
	}

	entries, err := h.service.GetBySale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// Cancel handles POST /finance/ledger/:id/cancel
func (h *LedgerHandler) Cancel(c *gin.Context) {
	entryID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req appfinance.CancelLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.Cancel(c.Request.Context(), entryID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entry)
}
