package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/shared"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByFolio finds a sale by its folio
	FindByFolio(ctx context.Context, folio string) (*Sale, error)

	// FindAll finds all sales with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// FindByCustomer finds sales for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Sale, error)

	// FindByStatus finds sales by status
	FindByStatus(ctx context.Context, status SaleStatus, filter shared.Filter) ([]Sale, error)

	// Save creates or updates a sale
	Save(ctx context.Context, sale *Sale) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, sale *Sale) error

	// Delete soft-deletes a sale
	Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts sales by status
	CountByStatus(ctx context.Context, status SaleStatus) (int64, error)

	// ExistsByFolio checks if a folio is already taken
	ExistsByFolio(ctx context.Context, folio string) (bool, error)

	// GenerateFolio generates the next unique sale folio
	GenerateFolio(ctx context.Context) (string, error)
}
