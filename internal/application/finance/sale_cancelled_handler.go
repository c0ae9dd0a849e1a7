package finance

import (
	"context"
	"fmt"

	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/nexoerp/backend/internal/domain/sales"
	"github.com/nexoerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SaleCancelledHandler voids the ledger entry of a cancelled sale.
// Entries with payments already applied are left alone; collections
// and refunds on a cancelled sale need human review.
type SaleCancelledHandler struct {
	entryRepo finance.LedgerEntryRepository
	logger    *zap.Logger
}

// NewSaleCancelledHandler creates a new handler for sale cancelled events
func NewSaleCancelledHandler(entryRepo finance.LedgerEntryRepository, logger *zap.Logger) *SaleCancelledHandler {
	return &SaleCancelledHandler{
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SaleCancelledHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleCancelled}
}

// Handle processes a SaleCancelledEvent by cancelling the matching ledger entry
func (h *SaleCancelledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	cancelledEvent, ok := event.(*sales.SaleCancelledEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", sales.EventTypeSaleCancelled),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSaleCancelled, event.EventType())
	}

	// A sale cancelled while still in draft never had a ledger entry.
	if !cancelledEvent.WasConfirmed {
		return nil
	}

	entries, err := h.entryRepo.FindByReference(ctx, finance.ReferenceTypeSale, cancelledEvent.SaleID)
	if err != nil {
		return fmt.Errorf("failed to find ledger entries for sale: %w", err)
	}

	for i := range entries {
		entry := &entries[i]
		if entry.Status.IsTerminal() {
			continue
		}
		if !entry.Balance.Equal(entry.Amount) {
			h.logger.Warn("sale cancelled but ledger entry has applied payments, leaving open",
				zap.String("entry_id", entry.ID.String()),
				zap.String("entry_folio", entry.Folio),
				zap.String("sale_id", cancelledEvent.SaleID.String()),
			)
			continue
		}

		reason := cancelledEvent.CancelReason
		if reason == "" {
			reason = "Venta cancelada"
		}
		if err := entry.Cancel(reason); err != nil {
			return fmt.Errorf("failed to cancel ledger entry: %w", err)
		}
		if err := h.entryRepo.SaveWithLock(ctx, entry); err != nil {
			return fmt.Errorf("failed to save cancelled ledger entry: %w", err)
		}

		h.logger.Info("ledger entry cancelled after sale cancellation",
			zap.String("entry_id", entry.ID.String()),
			zap.String("entry_folio", entry.Folio),
			zap.String("sale_id", cancelledEvent.SaleID.String()),
		)
	}

	return nil
}
