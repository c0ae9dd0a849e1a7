package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPaymentRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db, "PAG")
	ctx := context.Background()

	t.Run("saves and reloads a payment", func(t *testing.T) {
		payment := newPersistedPayment(t, "PAG-2026-00001", uuid.New(), 78.00)
		require.NoError(t, repo.Save(ctx, payment))

		found, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, payment.Folio, found.Folio)
		assert.Equal(t, finance.PaymentStatusPending, found.Status)
		assert.Equal(t, finance.PaymentMethodTransfer, found.Method)
		assert.True(t, found.Amount.Equal(payment.Amount))
	})

	t.Run("finds payments for a sale in creation order", func(t *testing.T) {
		saleID := uuid.New()
		first := newPersistedPayment(t, "PAG-2026-00002", saleID, 50.00)
		require.NoError(t, repo.Save(ctx, first))
		second := newPersistedPayment(t, "PAG-2026-00003", saleID, 28.00)
		require.NoError(t, repo.Save(ctx, second))

		found, err := repo.FindBySale(ctx, saleID)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "PAG-2026-00002", found[0].Folio)
		assert.Equal(t, "PAG-2026-00003", found[1].Folio)
	})

	t.Run("returns not found for missing payment", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormPaymentRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db, "PAG")
	ctx := context.Background()

	t.Run("persists a completion", func(t *testing.T) {
		payment := newPersistedPayment(t, "PAG-2026-00010", uuid.New(), 100.00)
		require.NoError(t, repo.Save(ctx, payment))

		require.NoError(t, payment.Complete())
		require.NoError(t, repo.SaveWithLock(ctx, payment))

		found, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.PaymentStatusCompleted, found.Status)
		assert.NotNil(t, found.CompletedAt)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		payment := newPersistedPayment(t, "PAG-2026-00011", uuid.New(), 100.00)
		require.NoError(t, repo.Save(ctx, payment))

		stale, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)

		require.NoError(t, payment.Complete())
		require.NoError(t, repo.SaveWithLock(ctx, payment))

		require.NoError(t, stale.Fail("Rechazado por el banco"))
		err = repo.SaveWithLock(ctx, stale)
		requireDomainCode(t, err, "CONCURRENCY_CONFLICT")
	})
}

func TestGormPaymentRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db, "PAG")
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		payment := newPersistedPayment(t, fmt.Sprintf("PAG-2026-0002%d", i), uuid.New(), float64(i)*25)
		if i == 2 {
			require.NoError(t, payment.Complete())
		}
		require.NoError(t, repo.Save(ctx, payment))
	}

	t.Run("finds by status", func(t *testing.T) {
		result, err := repo.FindByStatus(ctx, finance.PaymentStatusCompleted, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "PAG-2026-00022", result[0].Folio)
	})

	t.Run("counts all payments", func(t *testing.T) {
		count, err := repo.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)
	})

	t.Run("soft-deleted payments drop out of queries", func(t *testing.T) {
		payment := newPersistedPayment(t, "PAG-2026-00030", uuid.New(), 10.00)
		require.NoError(t, repo.Save(ctx, payment))
		require.NoError(t, repo.Delete(ctx, payment.ID, uuid.New()))

		_, err := repo.FindByID(ctx, payment.ID)
		assert.Equal(t, shared.ErrNotFound, err)

		count, err := repo.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)
	})
}

func TestGormPaymentRepository_GenerateFolio(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db, "PAG")
	ctx := context.Background()

	year := time.Now().Year()

	t.Run("starts the sequence at one", func(t *testing.T) {
		folio, err := repo.GenerateFolio(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PAG-%d-00001", year), folio)
	})

	t.Run("continues after the highest persisted folio", func(t *testing.T) {
		payment := newPersistedPayment(t, fmt.Sprintf("PAG-%d-00012", year), uuid.New(), 10.00)
		require.NoError(t, repo.Save(ctx, payment))

		folio, err := repo.GenerateFolio(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PAG-%d-00013", year), folio)
	})
}
