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

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db               *gorm.DB
	receivablePrefix string
	payablePrefix    string
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB, receivablePrefix, payablePrefix string) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{
		db:               db,
		receivablePrefix: receivablePrefix,
		payablePrefix:    payablePrefix,
	}
}

// conn returns the transaction bound to ctx when one is active, so the
// repository joins a surrounding TxManager.WithinTx block, and the plain
// handle otherwise.
func (r *GormLedgerEntryRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// FindByID finds a ledger entry by its ID
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	var model models.LedgerEntryModel
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

// FindByFolio finds a ledger entry by its folio
func (r *GormLedgerEntryRepository) FindByFolio(ctx context.Context, folio string) (*finance.LedgerEntry, error) {
	var model models.LedgerEntryModel
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

// FindByReference finds ledger entries for an origin document
func (r *GormLedgerEntryRepository) FindByReference(ctx context.Context, referenceType finance.ReferenceType, referenceID uuid.UUID) ([]finance.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.conn(ctx).
		Where("reference_type = ? AND reference_id = ? AND deleted_at IS NULL", referenceType, referenceID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindAll finds all ledger entries with filtering
func (r *GormLedgerEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.applyFilter(
		r.conn(ctx).Model(&models.LedgerEntryModel{}).
			Where("deleted_at IS NULL"),
		filter,
	)
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindByCustomer finds ledger entries for a customer
func (r *GormLedgerEntryRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]finance.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.applyFilter(
		r.conn(ctx).Model(&models.LedgerEntryModel{}).
			Where("customer_id = ? AND deleted_at IS NULL", customerID),
		filter,
	)
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindByStatus finds ledger entries by status
func (r *GormLedgerEntryRepository) FindByStatus(ctx context.Context, status finance.LedgerEntryStatus, filter shared.Filter) ([]finance.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.applyFilter(
		r.conn(ctx).Model(&models.LedgerEntryModel{}).
			Where("status = ? AND deleted_at IS NULL", status),
		filter,
	)
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindOutstanding finds entries with a positive balance for a customer
func (r *GormLedgerEntryRepository) FindOutstanding(ctx context.Context, customerID uuid.UUID) ([]finance.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.conn(ctx).
		Where("customer_id = ? AND status IN ? AND balance > 0 AND deleted_at IS NULL",
			customerID,
			[]finance.LedgerEntryStatus{finance.LedgerEntryStatusPending, finance.LedgerEntryStatusOverdue}).
		Order("due_date ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// Save creates or updates a ledger entry
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	if err := r.conn(ctx).Save(model).Error; err != nil {
		return err
	}
	entry.MarkLoaded()
	return nil
}

// SaveWithLock saves with optimistic locking. The row must still hold the
// version the entry carried when it was loaded; a unit of work may have run
// several mutators since then, each bumping the in-memory version.
func (r *GormLedgerEntryRepository) SaveWithLock(ctx context.Context, entry *finance.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	// Select("*") forces zero-valued fields through, so a cleared paid_at
	// actually reaches the row.
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", entry.ID, entry.LoadedVersion()).
		Select("*").Omit("id", "created_at", "created_by").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "The ledger entry has been modified by another transaction")
	}
	entry.MarkLoaded()
	return nil
}

// Delete soft-deletes a ledger entry
func (r *GormLedgerEntryRepository) Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	now := time.Now()
	result := r.conn(ctx).Model(&models.LedgerEntryModel{}).
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

// Count counts ledger entries matching the filter
func (r *GormLedgerEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.conn(ctx).Model(&models.LedgerEntryModel{}).
		Where("deleted_at IS NULL")
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateFolio generates the next unique ledger entry folio.
// Receivables and payables carry separate prefixes, e.g. CXC-2026-00001
// and CXP-2026-00001.
func (r *GormLedgerEntryRepository) GenerateFolio(ctx context.Context, direction finance.EntryDirection) (string, error) {
	directionPrefix := r.receivablePrefix
	if direction == finance.DirectionPayable {
		directionPrefix = r.payablePrefix
	}
	prefix := fmt.Sprintf("%s-%d-", directionPrefix, time.Now().Year())

	var lastFolio string
	err := r.conn(ctx).
		Model(&models.LedgerEntryModel{}).
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
			Model(&models.LedgerEntryModel{}).
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

func toDomainEntries(entryModels []models.LedgerEntryModel) []finance.LedgerEntry {
	entries := make([]finance.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries
}

// applyFilter applies filter options to the query
func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPagination(query, filter)
}

// applyFilterWithoutPagination applies search and field filters only
func (r *GormLedgerEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("LOWER(folio) LIKE LOWER(?) OR LOWER(customer_name) LIKE LOWER(?)", search, search)
	}
	for field, value := range filter.Filters {
		query = query.Where(field+" = ?", value)
	}
	return query
}
