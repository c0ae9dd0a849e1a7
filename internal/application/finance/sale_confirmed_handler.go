package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/nexoerp/backend/internal/domain/sales"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// SaleConfirmedHandler opens a receivable ledger entry when a sale is
// confirmed. The entry's amount is the sale total and the due date is
// the confirmation date plus the configured payment term.
type SaleConfirmedHandler struct {
	entryRepo       finance.LedgerEntryRepository
	logger          *zap.Logger
	defaultTermDays int
}

// NewSaleConfirmedHandler creates a new handler for sale confirmed events
func NewSaleConfirmedHandler(entryRepo finance.LedgerEntryRepository, logger *zap.Logger, defaultTermDays int) *SaleConfirmedHandler {
	return &SaleConfirmedHandler{
		entryRepo:       entryRepo,
		logger:          logger,
		defaultTermDays: defaultTermDays,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SaleConfirmedHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleConfirmed}
}

// Handle processes a SaleConfirmedEvent by opening a receivable ledger entry
func (h *SaleConfirmedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	confirmedEvent, ok := event.(*sales.SaleConfirmedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", sales.EventTypeSaleConfirmed),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSaleConfirmed, event.EventType())
	}

	h.logger.Info("opening ledger entry for confirmed sale",
		zap.String("sale_id", confirmedEvent.SaleID.String()),
		zap.String("folio", confirmedEvent.Folio),
		zap.String("total", confirmedEvent.Total.String()),
	)

	// Idempotency: redelivered confirmations must not open a second entry.
	existing, err := h.entryRepo.FindByReference(ctx, finance.ReferenceTypeSale, confirmedEvent.SaleID)
	if err != nil {
		return fmt.Errorf("failed to check existing ledger entry: %w", err)
	}
	if len(existing) > 0 {
		h.logger.Warn("ledger entry already exists for sale, skipping",
			zap.String("sale_id", confirmedEvent.SaleID.String()),
			zap.String("folio", confirmedEvent.Folio),
		)
		return nil
	}

	// Fully discounted sales settle themselves; there is nothing to collect.
	if confirmedEvent.Total.IsZero() {
		h.logger.Info("skipping ledger entry, sale total is zero",
			zap.String("sale_id", confirmedEvent.SaleID.String()),
			zap.String("folio", confirmedEvent.Folio),
		)
		return nil
	}

	folio, err := h.entryRepo.GenerateFolio(ctx, finance.DirectionReceivable)
	if err != nil {
		return fmt.Errorf("failed to generate ledger entry folio: %w", err)
	}

	amount, err := valueobject.NewMoney(confirmedEvent.Total, valueobject.MXN)
	if err != nil {
		return fmt.Errorf("invalid sale total: %w", err)
	}

	issueDate := time.Now()
	dueDate := issueDate.AddDate(0, 0, h.defaultTermDays)

	entry, err := finance.NewLedgerEntry(
		folio,
		finance.DirectionReceivable,
		finance.ReferenceTypeSale,
		confirmedEvent.SaleID,
		confirmedEvent.CustomerID,
		confirmedEvent.CustomerName,
		fmt.Sprintf("Venta %s", confirmedEvent.Folio),
		amount,
		issueDate,
		dueDate,
	)
	if err != nil {
		return fmt.Errorf("failed to open ledger entry: %w", err)
	}

	if err := h.entryRepo.Save(ctx, entry); err != nil {
		return fmt.Errorf("failed to save ledger entry: %w", err)
	}

	h.logger.Info("ledger entry opened",
		zap.String("entry_id", entry.ID.String()),
		zap.String("entry_folio", entry.Folio),
		zap.String("sale_id", confirmedEvent.SaleID.String()),
	)

	return nil
}
