package finance

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"github.com/nexoerp/backend/internal/infrastructure/persistence"
	"github.com/nexoerp/backend/internal/infrastructure/persistence/models"
)

// Settlement against real repositories: the entry goes through more than
// one mutation between read and write, so these tests exercise the
// optimistic lock as the mock-based ones cannot.
func setupSettlementService(t *testing.T) (*PaymentService, *persistence.GormLedgerEntryRepository) {
	t.Helper()

	database, err := persistence.NewSQLiteDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.DB.AutoMigrate(models.AllModels()...))

	entryRepo := persistence.NewGormLedgerEntryRepository(database.DB, "CXC", "CXP")
	paymentRepo := persistence.NewGormPaymentRepository(database.DB, "PAG")

	service := NewPaymentService(paymentRepo, entryRepo, finance.NewReconciliationCoordinator(), zap.NewNop(), 3)
	service.SetTxManager(persistence.NewGormTxManager(database.DB))
	return service, entryRepo
}

func pastDueEntry(t *testing.T, saleID uuid.UUID, amount float64) *finance.LedgerEntry {
	t.Helper()

	money, err := valueobject.NewMoneyMXNFromFloat(amount)
	require.NoError(t, err)
	issued := time.Now().AddDate(0, 0, -60)
	entry, err := finance.NewLedgerEntry(
		"CXC-2026-00001",
		finance.DirectionReceivable,
		finance.ReferenceTypeSale,
		saleID,
		uuid.New(),
		"Comercial del Norte SA",
		"Venta a credito",
		money,
		issued,
		issued.AddDate(0, 0, 30),
	)
	require.NoError(t, err)
	entry.ClearDomainEvents()
	return entry
}

func TestPaymentService_PastDueSettlement(t *testing.T) {
	ctx := context.Background()

	t.Run("settles an entry stored as pending past its due date", func(t *testing.T) {
		service, entryRepo := setupSettlementService(t)

		saleID := uuid.New()
		entry := pastDueEntry(t, saleID, 250.00)
		require.NoError(t, entryRepo.Save(ctx, entry))

		created, err := service.Create(ctx, CreatePaymentRequest{
			SaleID: saleID,
			Method: finance.PaymentMethodTransfer,
			Amount: decimal.RequireFromString("250.00"),
		})
		require.NoError(t, err)

		completed, err := service.Complete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", completed.Status)

		found, err := entryRepo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.LedgerEntryStatusPaid, found.Status)
		assert.True(t, found.Balance.IsZero())
	})

	t.Run("partial payment leaves the entry overdue", func(t *testing.T) {
		service, entryRepo := setupSettlementService(t)

		saleID := uuid.New()
		entry := pastDueEntry(t, saleID, 250.00)
		require.NoError(t, entryRepo.Save(ctx, entry))

		created, err := service.Create(ctx, CreatePaymentRequest{
			SaleID: saleID,
			Method: finance.PaymentMethodCash,
			Amount: decimal.RequireFromString("100.00"),
		})
		require.NoError(t, err)
		_, err = service.Complete(ctx, created.ID)
		require.NoError(t, err)

		found, err := entryRepo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.LedgerEntryStatusOverdue, found.Status)
		assert.True(t, found.Balance.Equal(decimal.RequireFromString("150.00")))
	})

	t.Run("refund restores the balance on an overdue entry", func(t *testing.T) {
		service, entryRepo := setupSettlementService(t)

		saleID := uuid.New()
		entry := pastDueEntry(t, saleID, 250.00)
		require.NoError(t, entryRepo.Save(ctx, entry))

		created, err := service.Create(ctx, CreatePaymentRequest{
			SaleID: saleID,
			Method: finance.PaymentMethodTransfer,
			Amount: decimal.RequireFromString("100.00"),
		})
		require.NoError(t, err)
		_, err = service.Complete(ctx, created.ID)
		require.NoError(t, err)

		refunded, err := service.Refund(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "REFUNDED", refunded.Status)

		found, err := entryRepo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.LedgerEntryStatusOverdue, found.Status)
		assert.True(t, found.Balance.Equal(decimal.RequireFromString("250.00")))
	})
}
