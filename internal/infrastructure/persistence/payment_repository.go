package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db          *gorm.DB
	folioPrefix string
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB, folioPrefix string) *GormPaymentRepository {
	return &GormPaymentRepository{db: db, folioPrefix: folioPrefix}
}

// conn returns the transaction bound to ctx when one is active, the plain
// handle otherwise.
func (r *GormPaymentRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.conn(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFolio finds a payment by its folio
func (r *GormPaymentRepository) FindByFolio(ctx context.Context, folio string) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.conn(ctx).
		Where("folio = ? AND deleted_at IS NULL", folio).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySale finds payments made against a sale
func (r *GormPaymentRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]finance.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.conn(ctx).
		Where("sale_id = ? AND deleted_at IS NULL", saleID).
		Order("created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindAll finds all payments with filtering
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Payment, error) {
	var paymentModels []models.PaymentModel
	query := r.applyFilter(
		r.conn(ctx).Model(&models.PaymentModel{}).
			Where("deleted_at IS NULL"),
		filter,
	)
	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindByStatus finds payments by status
func (r *GormPaymentRepository) FindByStatus(ctx context.Context, status finance.PaymentStatus, filter shared.Filter) ([]finance.Payment, error) {
	var paymentModels []models.PaymentModel
	query := r.applyFilter(
		r.conn(ctx).Model(&models.PaymentModel{}).
			Where("status = ? AND deleted_at IS NULL", status),
		filter,
	)
	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	if err := r.conn(ctx).Save(model).Error; err != nil {
		return err
	}
	payment.MarkLoaded()
	return nil
}

// SaveWithLock saves with optimistic locking. The row must still hold the
// version the payment carried when it was loaded.
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, payment *finance.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", payment.ID, payment.LoadedVersion()).
		Select("*").Omit("id", "created_at", "created_by").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "The payment has been modified by another transaction")
	}
	payment.MarkLoaded()
	return nil
}

// Delete soft-deletes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	now := time.Now()
	result := r.conn(ctx).Model(&models.PaymentModel{}).
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

// Count counts payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.conn(ctx).Model(&models.PaymentModel{}).
		Where("deleted_at IS NULL")
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateFolio generates the next unique payment folio.
// Format: PAG-YYYY-NNNNN (e.g., PAG-2026-00001)
func (r *GormPaymentRepository) GenerateFolio(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", r.folioPrefix, time.Now().Year())

	var lastFolio string
	err := r.conn(ctx).
		Model(&models.PaymentModel{}).
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

	for i := 0; i < 100; i++ {
		var count int64
		if err := r.conn(ctx).
			Model(&models.PaymentModel{}).
			Where("folio = ?", folio).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			break
		}
		nextNum++
		folio = fmt.Sprintf("%s%05d", prefix, nextNum)
	}

	return folio, nil
}

func toDomainPayments(paymentModels []models.PaymentModel) []finance.Payment {
	payments := make([]finance.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments
}

// applyFilter applies filter options to the query
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter)
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("LOWER(folio) LIKE LOWER(?) OR LOWER(reference) LIKE LOWER(?)", search, search)
	}
	for field, value := range filter.Filters {
		query = query.Where(field+" = ?", value)
	}
	return query
}
