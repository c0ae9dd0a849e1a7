package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/sales"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db          *gorm.DB
	folioPrefix string
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB, folioPrefix string) *GormSaleRepository {
	return &GormSaleRepository{db: db, folioPrefix: folioPrefix}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFolio finds a sale by its folio
func (r *GormSaleRepository) FindByFolio(ctx context.Context, folio string) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("folio = ? AND deleted_at IS NULL", folio).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all sales with filtering
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SaleModel{}).
			Where("deleted_at IS NULL"),
		filter,
	)
	return r.findModels(query)
}

// FindByCustomer finds sales for a customer
func (r *GormSaleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SaleModel{}).
			Where("customer_id = ? AND deleted_at IS NULL", customerID),
		filter,
	)
	return r.findModels(query)
}

// FindByStatus finds sales by status
func (r *GormSaleRepository) FindByStatus(ctx context.Context, status sales.SaleStatus, filter shared.Filter) ([]sales.Sale, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SaleModel{}).
			Where("status = ? AND deleted_at IS NULL", status),
		filter,
	)
	return r.findModels(query)
}

func (r *GormSaleRepository) findModels(query *gorm.DB) ([]sales.Sale, error) {
	var saleModels []models.SaleModel
	if err := query.Preload("Items").Find(&saleModels).Error; err != nil {
		return nil, err
	}
	result := make([]sales.Sale, len(saleModels))
	for i, model := range saleModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// Save creates or updates a sale together with its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		return r.syncItems(tx, model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Get current version from database
		var currentVersion int
		if err := tx.Model(&models.SaleModel{}).
			Where("id = ? AND deleted_at IS NULL", sale.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != sale.Version {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The sale has been modified by another user")
		}

		sale.Version++
		sale.UpdatedAt = time.Now()
		model := models.SaleModelFromDomain(sale)

		result := tx.Model(&models.SaleModel{}).
			Where("id = ? AND version = ?", sale.ID, currentVersion).
			Updates(map[string]interface{}{
				"customer_id":     model.CustomerID,
				"customer_name":   model.CustomerName,
				"sale_date":       model.SaleDate,
				"subtotal":        model.Subtotal,
				"discount_amount": model.DiscountAmount,
				"tax_amount":      model.TaxAmount,
				"total":           model.Total,
				"status":          model.Status,
				"notes":           model.Notes,
				"confirmed_at":    model.ConfirmedAt,
				"shipped_at":      model.ShippedAt,
				"completed_at":    model.CompletedAt,
				"cancelled_at":    model.CancelledAt,
				"cancel_reason":   model.CancelReason,
				"updated_by":      model.UpdatedBy,
				"version":         model.Version,
				"updated_at":      model.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The sale has been modified by another user")
		}

		return r.syncItems(tx, model)
	})
}

// syncItems deletes removed items and upserts the current list.
func (r *GormSaleRepository) syncItems(tx *gorm.DB, model *models.SaleModel) error {
	currentItemIDs := make([]uuid.UUID, len(model.Items))
	for i, item := range model.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("sale_id = ? AND id NOT IN ?", model.ID, currentItemIDs).
			Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("sale_id = ?", model.ID).
			Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}
	}

	for i := range model.Items {
		model.Items[i].SaleID = model.ID
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete soft-deletes a sale. The row stays in the table with the
// deletion marker set; items are kept for audit.
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"deleted_by": deletedBy,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("deleted_at IS NULL")
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts sales by status
func (r *GormSaleRepository) CountByStatus(ctx context.Context, status sales.SaleStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("status = ? AND deleted_at IS NULL", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByFolio checks if a folio is already taken
func (r *GormSaleRepository) ExistsByFolio(ctx context.Context, folio string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("folio = ?", folio).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateFolio generates the next unique sale folio.
// Format: VTA-YYYY-NNNNN (e.g., VTA-2026-00001)
func (r *GormSaleRepository) GenerateFolio(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", r.folioPrefix, time.Now().Year())

	var lastFolio string
	err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("folio LIKE ?", prefix+"%").
		Order("folio DESC").
		Limit(1).
		Select("folio").
		Scan(&lastFolio).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextNum := nextFolioNumber(lastFolio)
	folio := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByFolio(ctx, folio)
	if err != nil {
		return "", err
	}
	for i := 0; exists && i < 100; i++ {
		nextNum++
		folio = fmt.Sprintf("%s%05d", prefix, nextNum)
		exists, err = r.ExistsByFolio(ctx, folio)
		if err != nil {
			return "", err
		}
	}

	return folio, nil
}

// nextFolioNumber parses the sequential part of a PREFIX-YYYY-NNNNN folio
// and returns the next number, or 1 when there is no previous folio.
func nextFolioNumber(lastFolio string) int64 {
	if lastFolio == "" {
		return 1
	}
	parts := strings.Split(lastFolio, "-")
	if len(parts) != 3 {
		return 1
	}
	var num int64
	if _, err := fmt.Sscanf(parts[2], "%d", &num); err != nil {
		return 1
	}
	return num + 1
}

// applyFilter applies filter options to the query
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter)
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("LOWER(folio) LIKE LOWER(?) OR LOWER(customer_name) LIKE LOWER(?)", search, search)
	}
	for field, value := range filter.Filters {
		query = query.Where(field+" = ?", value)
	}
	return query
}

// applyPagination applies paging and ordering shared by all repositories.
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}
	return query
}
