package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/shared"
)

// LedgerEntryRepository defines the interface for ledger entry persistence
type LedgerEntryRepository interface {
	// FindByID finds a ledger entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindByFolio finds a ledger entry by its folio
	FindByFolio(ctx context.Context, folio string) (*LedgerEntry, error)

	// FindByReference finds ledger entries for an origin document
	FindByReference(ctx context.Context, referenceType ReferenceType, referenceID uuid.UUID) ([]LedgerEntry, error)

	// FindAll finds all ledger entries with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]LedgerEntry, error)

	// FindByCustomer finds ledger entries for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)

	// FindByStatus finds ledger entries by status
	FindByStatus(ctx context.Context, status LedgerEntryStatus, filter shared.Filter) ([]LedgerEntry, error)

	// FindOutstanding finds entries with a positive balance (PENDING or OVERDUE)
	FindOutstanding(ctx context.Context, customerID uuid.UUID) ([]LedgerEntry, error)

	// Save creates or updates a ledger entry
	Save(ctx context.Context, entry *LedgerEntry) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, entry *LedgerEntry) error

	// Delete soft-deletes a ledger entry
	Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error

	// Count counts ledger entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateFolio generates the next unique ledger entry folio
	GenerateFolio(ctx context.Context, direction EntryDirection) (string, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByFolio finds a payment by its folio
	FindByFolio(ctx context.Context, folio string) (*Payment, error)

	// FindBySale finds payments made against a sale
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]Payment, error)

	// FindAll finds all payments with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)

	// FindByStatus finds payments by status
	FindByStatus(ctx context.Context, status PaymentStatus, filter shared.Filter) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *Payment) error

	// Delete soft-deletes a payment
	Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error

	// Count counts payments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateFolio generates the next unique payment folio
	GenerateFolio(ctx context.Context) (string, error)
}
