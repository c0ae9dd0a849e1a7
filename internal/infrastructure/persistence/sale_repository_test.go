package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/sales"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSaleRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db, "VTA")
	ctx := context.Background()

	t.Run("saves and reloads a sale with items", func(t *testing.T) {
		sale := newPersistedSale(t, "VTA-2026-00001")
		_, err := sale.AddItem(uuid.New(), "Mesa de trabajo", "MES-010", 1, testMoney(t, 30.00), valueobject.ZeroMXN())
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, sale))

		found, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, sale.Folio, found.Folio)
		assert.Equal(t, sales.SaleStatusDraft, found.Status)
		assert.Len(t, found.Items, 2)
		assert.True(t, found.Subtotal.Equal(sale.Subtotal))
		assert.True(t, found.Total.Equal(sale.Total))
	})

	t.Run("finds by folio", func(t *testing.T) {
		sale := newPersistedSale(t, "VTA-2026-00002")
		require.NoError(t, repo.Save(ctx, sale))

		found, err := repo.FindByFolio(ctx, "VTA-2026-00002")
		require.NoError(t, err)
		assert.Equal(t, sale.ID, found.ID)
		assert.Len(t, found.Items, 1)
	})

	t.Run("returns not found for missing sale", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)

		_, err = repo.FindByFolio(ctx, "VTA-2026-99999")
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("removed items disappear on save", func(t *testing.T) {
		sale := newPersistedSale(t, "VTA-2026-00003")
		item, err := sale.AddItem(uuid.New(), "Lampara LED", "LAM-200", 3, testMoney(t, 15.00), valueobject.ZeroMXN())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, sale))

		require.NoError(t, sale.RemoveItem(item.ID))
		require.NoError(t, repo.Save(ctx, sale))

		found, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Len(t, found.Items, 1)
	})
}

func TestGormSaleRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db, "VTA")
	ctx := context.Background()

	t.Run("persists changes and bumps version", func(t *testing.T) {
		sale := newPersistedSale(t, "VTA-2026-00010")
		require.NoError(t, repo.Save(ctx, sale))

		require.NoError(t, sale.Confirm())
		require.NoError(t, repo.SaveWithLock(ctx, sale))

		found, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, sales.SaleStatusConfirmed, found.Status)
		assert.NotNil(t, found.ConfirmedAt)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		sale := newPersistedSale(t, "VTA-2026-00011")
		require.NoError(t, repo.Save(ctx, sale))

		fresh, err := repo.FindByID(ctx, sale.ID)
		require.NoError(t, err)
		require.NoError(t, fresh.Confirm())
		require.NoError(t, repo.SaveWithLock(ctx, fresh))

		// The first copy still carries the original version.
		require.NoError(t, sale.Confirm())
		err = repo.SaveWithLock(ctx, sale)
		requireDomainCode(t, err, "CONCURRENCY_CONFLICT")
	})
}

func TestGormSaleRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db, "VTA")
	ctx := context.Background()

	t.Run("soft-deleted sale is no longer visible", func(t *testing.T) {
		sale := newPersistedSale(t, "VTA-2026-00020")
		require.NoError(t, repo.Save(ctx, sale))

		require.NoError(t, repo.Delete(ctx, sale.ID, uuid.New()))

		_, err := repo.FindByID(ctx, sale.ID)
		assert.Equal(t, shared.ErrNotFound, err)

		// The folio stays reserved.
		exists, err := repo.ExistsByFolio(ctx, "VTA-2026-00020")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		sale := newPersistedSale(t, "VTA-2026-00021")
		require.NoError(t, repo.Save(ctx, sale))
		require.NoError(t, repo.Delete(ctx, sale.ID, uuid.New()))

		err := repo.Delete(ctx, sale.ID, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormSaleRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db, "VTA")
	ctx := context.Background()

	customerID := uuid.New()
	for i := 1; i <= 3; i++ {
		sale, err := sales.NewSale(fmt.Sprintf("VTA-2026-0003%d", i), customerID, "Abarrotes La Central", time.Now())
		require.NoError(t, err)
		_, err = sale.AddItem(uuid.New(), "Caja de archivo", "CAJ-001", int64(i), testMoney(t, 10.00), valueobject.ZeroMXN())
		require.NoError(t, err)
		if i == 3 {
			require.NoError(t, sale.Confirm())
		}
		require.NoError(t, repo.Save(ctx, sale))
	}

	t.Run("finds by customer", func(t *testing.T) {
		result, err := repo.FindByCustomer(ctx, customerID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, result, 3)
	})

	t.Run("finds by status", func(t *testing.T) {
		result, err := repo.FindByStatus(ctx, sales.SaleStatusConfirmed, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Equal(t, "VTA-2026-00033", result[0].Folio)
	})

	t.Run("counts by status", func(t *testing.T) {
		count, err := repo.CountByStatus(ctx, sales.SaleStatusDraft)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("paginates results", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2
		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, result, 2)

		total, err := repo.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
	})

	t.Run("search matches folio and customer name", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "la central"
		result, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, result, 3)
	})
}

func TestGormSaleRepository_GenerateFolio(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSaleRepository(db, "VTA")
	ctx := context.Background()

	year := time.Now().Year()

	t.Run("starts the sequence at one", func(t *testing.T) {
		folio, err := repo.GenerateFolio(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("VTA-%d-00001", year), folio)
	})

	t.Run("continues after the highest persisted folio", func(t *testing.T) {
		sale := newPersistedSale(t, fmt.Sprintf("VTA-%d-00007", year))
		require.NoError(t, repo.Save(ctx, sale))

		folio, err := repo.GenerateFolio(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("VTA-%d-00008", year), folio)
	})
}
