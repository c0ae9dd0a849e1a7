package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appsales "github.com/nexoerp/backend/internal/application/sales"
)

// SaleHandler exposes the sales operations over HTTP
type SaleHandler struct {
	BaseHandler
	service *appsales.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(service *appsales.SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req appsales.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, sale)
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var filter appsales.SaleListFilter
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

// GetByID handles GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	saleID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	sale, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}

// GetByFolio handles GET /sales/folio/:folio
func (h *SaleHandler) GetByFolio(c *gin.Context) {
	folio := c.Param("folio")
	if folio == "" {
		h.BadRequest(c, "folio is required")
		return
	}

	sale, err := h.service.GetByFolio(c.Request.Context(), folio)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}

// AddItem handles POST /sales/:id/items
func (h *SaleHandler) AddItem(c *gin.Context) {
	saleID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req appsales.AddSaleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.AddItem(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}

// UpdateItem handles PUT /sales/:id/items/:item_id
func (h *SaleHandler) UpdateItem(c *gin.Context) {
	saleID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "item_id")
	if !ok {
		return
	}

	var req appsales.UpdateSaleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.UpdateItem(c.Request.Context(), saleID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}

// RemoveItem handles DELETE /sales/:id/items/:item_id
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	saleID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "item_id")
	if !ok {
		return
	}

	sale, err := h.service.RemoveItem(c.Request.Context(), saleID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}

// ApplyDiscount handles PUT /sales/:id/discount
func (h *SaleHandler) ApplyDiscount(c *gin.Context) {
	saleID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req appsales.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.ApplyDiscount(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}

// SetTax handles PUT /sales/:id/tax
func (h *SaleHandler) SetTax(c *gin.Context) {
	saleID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req appsales.SetTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.SetTax(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}

// Confirm handles POST /sales/:id/confirm
func (h *SaleHandler) Confirm(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

// Ship handles POST /sales/:id/ship
func (h *SaleHandler) Ship(c *gin.Context) {
	h.transition(c, h.service.Ship)
}

// Complete handles POST /sales/:id/complete
func (h *SaleHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

// Cancel handles POST /sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	saleID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req appsales.CancelSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.service.Cancel(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}

// Delete handles DELETE /sales/:id. The deleting user is taken from the
// X-User-ID header when present.
func (h *SaleHandler) Delete(c *gin.Context) {
	saleID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	deletedBy := uuid.Nil
	if header := c.GetHeader("X-User-ID"); header != "" {
		parsed, err := uuid.Parse(header)
		if err != nil {
			h.BadRequest(c, "invalid X-User-ID header")
			return
		}
		deletedBy = parsed
	}

	if err := h.service.Delete(c.Request.Context(), saleID, deletedBy); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *SaleHandler) transition(c *gin.Context, fn func(ctx context.Context, saleID uuid.UUID) (*appsales.SaleResponse, error)) {
	saleID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	sale, err := fn(c.Request.Context(), saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sale)
}
