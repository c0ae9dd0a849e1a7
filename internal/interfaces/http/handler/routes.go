package handler

import (
	"github.com/nexoerp/backend/internal/interfaces/http/router"
)

// Routes returns the sales route group
func (h *SaleHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup("/sales").
		POST("", h.Create).
		GET("", h.List).
		GET("/folio/:folio", h.GetByFolio).
		GET("/:id", h.GetByID).
		POST("/:id/items", h.AddItem).
		PUT("/:id/items/:item_id", h.UpdateItem).
		DELETE("/:id/items/:item_id", h.RemoveItem).
		PUT("/:id/discount", h.ApplyDiscount).
		PUT("/:id/tax", h.SetTax).
		POST("/:id/confirm", h.Confirm).
		POST("/:id/ship", h.Ship).
		POST("/:id/complete", h.Complete).
		POST("/:id/cancel", h.Cancel).
		DELETE("/:id", h.Delete)
}

// Routes returns the ledger route group
func (h *LedgerHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup("/finance/ledger").
		POST("", h.OpenManual).
		GET("", h.List).
		GET("/outstanding", h.ListOutstanding).
		GET("/folio/:folio", h.GetByFolio).
		GET("/sale/:sale_id", h.GetBySale).
		GET("/:id", h.GetByID).
		POST("/:id/cancel", h.Cancel)
}

// Routes returns the payments route group
func (h *PaymentHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup("/finance/payments").
		POST("", h.Create).
		GET("", h.List).
		GET("/folio/:folio", h.GetByFolio).
		GET("/sale/:sale_id", h.ListBySale).
		GET("/:id", h.GetByID).
		POST("/:id/complete", h.Complete).
		POST("/:id/fail", h.Fail).
		POST("/:id/refund", h.Refund)
}

// Routes returns the system route group
func (h *SystemHandler) Routes() *router.DomainGroup {
	return router.NewDomainGroup("/system").
		GET("/ping", h.Ping).
		GET("/info", h.Info)
}
