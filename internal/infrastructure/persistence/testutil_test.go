package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/nexoerp/backend/internal/domain/sales"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nexoerp/backend/internal/infrastructure/persistence/models"
)

// setupTestDB opens a throwaway SQLite database and migrates all models.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := NewSQLiteDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, database.DB.AutoMigrate(models.AllModels()...))
	return database.DB
}

func testMoney(t *testing.T, amount float64) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyMXNFromFloat(amount)
	require.NoError(t, err)
	return m
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}

func newPersistedSale(t *testing.T, folio string) *sales.Sale {
	t.Helper()

	sale, err := sales.NewSale(folio, uuid.New(), "Comercial del Norte SA", time.Now())
	require.NoError(t, err)
	_, err = sale.AddItem(uuid.New(), "Silla plegable", "SIL-001", 2, testMoney(t, 50.00), valueobject.ZeroMXN())
	require.NoError(t, err)
	return sale
}

func newPersistedEntry(t *testing.T, folio string, amount float64) *finance.LedgerEntry {
	t.Helper()

	issued := time.Now()
	entry, err := finance.NewLedgerEntry(
		folio,
		finance.DirectionReceivable,
		finance.ReferenceTypeSale,
		uuid.New(),
		uuid.New(),
		"Comercial del Norte SA",
		"Venta a credito",
		testMoney(t, amount),
		issued,
		issued.AddDate(0, 0, 30),
	)
	require.NoError(t, err)
	return entry
}

func newPersistedPayment(t *testing.T, folio string, saleID uuid.UUID, amount float64) *finance.Payment {
	t.Helper()

	payment, err := finance.NewPayment(
		folio,
		saleID,
		finance.PaymentMethodTransfer,
		testMoney(t, amount),
		time.Now(),
		"SPEI-123456",
		"",
	)
	require.NoError(t, err)
	return payment
}
