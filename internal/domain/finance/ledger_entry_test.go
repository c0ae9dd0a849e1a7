package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func mustMoney(t *testing.T, amount float64) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyMXNFromFloat(amount)
	require.NoError(t, err)
	return m
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}

func createTestEntry(t *testing.T, amount float64) *LedgerEntry {
	t.Helper()
	issue := time.Now()
	due := issue.AddDate(0, 1, 0)
	entry, err := NewLedgerEntry(
		"CXC-2026-00001",
		DirectionReceivable,
		ReferenceTypeSale,
		uuid.New(),
		uuid.New(),
		"Test Customer",
		"Sale VTA-2026-00001",
		mustMoney(t, amount),
		issue,
		due,
	)
	require.NoError(t, err)
	return entry
}

// ============================================
// LedgerEntryStatus Tests
// ============================================

func TestLedgerEntryStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     LedgerEntryStatus
		to       LedgerEntryStatus
		canTrans bool
	}{
		// From PENDING
		{LedgerEntryStatusPending, LedgerEntryStatusPaid, true},
		{LedgerEntryStatusPending, LedgerEntryStatusOverdue, true},
		{LedgerEntryStatusPending, LedgerEntryStatusCancelled, true},
		// From OVERDUE
		{LedgerEntryStatusOverdue, LedgerEntryStatusPaid, true},
		{LedgerEntryStatusOverdue, LedgerEntryStatusPending, true},
		{LedgerEntryStatusOverdue, LedgerEntryStatusCancelled, true},
		// From PAID (refund only)
		{LedgerEntryStatusPaid, LedgerEntryStatusPending, true},
		{LedgerEntryStatusPaid, LedgerEntryStatusOverdue, true},
		{LedgerEntryStatusPaid, LedgerEntryStatusCancelled, false},
		// From CANCELLED (terminal)
		{LedgerEntryStatusCancelled, LedgerEntryStatusPending, false},
		{LedgerEntryStatusCancelled, LedgerEntryStatusPaid, false},
		{LedgerEntryStatusCancelled, LedgerEntryStatusOverdue, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestLedgerEntryStatus_IsTerminal(t *testing.T) {
	assert.False(t, LedgerEntryStatusPending.IsTerminal())
	assert.False(t, LedgerEntryStatusOverdue.IsTerminal())
	assert.False(t, LedgerEntryStatusPaid.IsTerminal())
	assert.True(t, LedgerEntryStatusCancelled.IsTerminal())
}

// ============================================
// NewLedgerEntry Tests
// ============================================

func TestNewLedgerEntry(t *testing.T) {
	issue := time.Now()
	due := issue.AddDate(0, 1, 0)

	t.Run("opens entry with balance equal to amount", func(t *testing.T) {
		entry := createTestEntry(t, 128.00)

		assert.Equal(t, LedgerEntryStatusPending, entry.Status)
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(128)))
		assert.True(t, entry.Balance.Equal(entry.Amount))
		assert.Equal(t, DirectionReceivable, entry.Direction)

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeLedgerEntryOpened, events[0].EventType())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewLedgerEntry("CXC-2026-00002", DirectionReceivable, ReferenceTypeSale,
			uuid.New(), uuid.New(), "Customer", "", valueobject.ZeroMXN(), issue, due)
		assertDomainCode(t, err, "INVALID_AMOUNT")
	})

	t.Run("rejects due date before issue date", func(t *testing.T) {
		_, err := NewLedgerEntry("CXC-2026-00003", DirectionReceivable, ReferenceTypeSale,
			uuid.New(), uuid.New(), "Customer", "", mustMoney(t, 100), issue, issue.AddDate(0, 0, -1))
		assertDomainCode(t, err, "INVALID_DUE_DATE")
	})

	t.Run("rejects invalid direction", func(t *testing.T) {
		_, err := NewLedgerEntry("CXC-2026-00004", EntryDirection("SIDEWAYS"), ReferenceTypeSale,
			uuid.New(), uuid.New(), "Customer", "", mustMoney(t, 100), issue, due)
		assertDomainCode(t, err, "INVALID_DIRECTION")
	})

	t.Run("rejects nil reference", func(t *testing.T) {
		_, err := NewLedgerEntry("CXC-2026-00005", DirectionReceivable, ReferenceTypeSale,
			uuid.Nil, uuid.New(), "Customer", "", mustMoney(t, 100), issue, due)
		assertDomainCode(t, err, "INVALID_REFERENCE")
	})
}

// ============================================
// ReduceBalance Tests
// ============================================

func TestLedgerEntry_ReduceBalance(t *testing.T) {
	t.Run("partial payment keeps entry pending", func(t *testing.T) {
		entry := createTestEntry(t, 128.00)

		require.NoError(t, entry.ReduceBalance(mustMoney(t, 50.00)))
		assert.True(t, entry.Balance.Equal(decimal.NewFromInt(78)))
		assert.Equal(t, LedgerEntryStatusPending, entry.Status)
	})

	t.Run("full settlement transitions to paid", func(t *testing.T) {
		entry := createTestEntry(t, 128.00)

		require.NoError(t, entry.ReduceBalance(mustMoney(t, 50.00)))
		require.NoError(t, entry.ReduceBalance(mustMoney(t, 78.00)))

		assert.True(t, entry.Balance.IsZero())
		assert.Equal(t, LedgerEntryStatusPaid, entry.Status)
		require.NotNil(t, entry.PaidAt)

		events := entry.GetDomainEvents()
		assert.Equal(t, EventTypeLedgerEntryPaid, events[len(events)-1].EventType())
	})

	t.Run("rejects payment against paid entry", func(t *testing.T) {
		entry := createTestEntry(t, 128.00)
		require.NoError(t, entry.ReduceBalance(mustMoney(t, 128.00)))

		err := entry.ReduceBalance(mustMoney(t, 1.00))
		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("rejects payment exceeding balance", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)

		err := entry.ReduceBalance(mustMoney(t, 100.01))
		assertDomainCode(t, err, "EXCEEDS_BALANCE")
		assert.True(t, entry.Balance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects non-positive payment", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)

		err := entry.ReduceBalance(valueobject.ZeroMXN())
		assertDomainCode(t, err, "INVALID_ARGUMENT")
	})

	t.Run("rejects payment against cancelled entry", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		require.NoError(t, entry.Cancel("voided"))

		err := entry.ReduceBalance(mustMoney(t, 10.00))
		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("reduces overdue entry", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		entry.RefreshOverdueStatus(entry.DueDate.AddDate(0, 0, 5))
		require.Equal(t, LedgerEntryStatusOverdue, entry.Status)

		require.NoError(t, entry.ReduceBalance(mustMoney(t, 100.00)))
		assert.Equal(t, LedgerEntryStatusPaid, entry.Status)
	})

	t.Run("no drift across many partial payments", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		for i := 0; i < 9; i++ {
			require.NoError(t, entry.ReduceBalance(mustMoney(t, 11.11)))
		}
		assert.True(t, entry.Balance.Equal(decimal.NewFromFloat(0.01)))

		require.NoError(t, entry.ReduceBalance(mustMoney(t, 0.01)))
		assert.Equal(t, LedgerEntryStatusPaid, entry.Status)
	})
}

// ============================================
// IncreaseBalance Tests
// ============================================

func TestLedgerEntry_IncreaseBalance(t *testing.T) {
	today := time.Now()

	t.Run("refund reverts paid entry to pending", func(t *testing.T) {
		entry := createTestEntry(t, 128.00)
		require.NoError(t, entry.ReduceBalance(mustMoney(t, 50.00)))
		require.NoError(t, entry.ReduceBalance(mustMoney(t, 78.00)))
		require.Equal(t, LedgerEntryStatusPaid, entry.Status)

		require.NoError(t, entry.IncreaseBalance(mustMoney(t, 78.00), today))
		assert.True(t, entry.Balance.Equal(decimal.NewFromInt(78)))
		assert.Equal(t, LedgerEntryStatusPending, entry.Status)
		assert.Nil(t, entry.PaidAt)
	})

	t.Run("refund reverts paid entry to overdue past due date", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		require.NoError(t, entry.ReduceBalance(mustMoney(t, 100.00)))

		pastDue := entry.DueDate.AddDate(0, 0, 3)
		require.NoError(t, entry.IncreaseBalance(mustMoney(t, 100.00), pastDue))
		assert.Equal(t, LedgerEntryStatusOverdue, entry.Status)
	})

	t.Run("round-trip restores the prior balance exactly", func(t *testing.T) {
		entry := createTestEntry(t, 99.97)
		require.NoError(t, entry.ReduceBalance(mustMoney(t, 33.33)))
		prior := entry.Balance

		require.NoError(t, entry.ReduceBalance(mustMoney(t, 11.11)))
		require.NoError(t, entry.IncreaseBalance(mustMoney(t, 11.11), today))
		assert.True(t, entry.Balance.Equal(prior))
	})

	t.Run("refund cannot raise balance above original amount", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		require.NoError(t, entry.ReduceBalance(mustMoney(t, 40.00)))

		err := entry.IncreaseBalance(mustMoney(t, 40.01), today)
		assertDomainCode(t, err, "EXCEEDS_AMOUNT")
		assert.True(t, entry.Balance.Equal(decimal.NewFromInt(60)))
	})

	t.Run("rejects refund on cancelled entry", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		require.NoError(t, entry.Cancel("voided"))

		err := entry.IncreaseBalance(mustMoney(t, 10.00), today)
		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("rejects non-positive refund", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		err := entry.IncreaseBalance(valueobject.ZeroMXN(), today)
		assertDomainCode(t, err, "INVALID_ARGUMENT")
	})
}

// ============================================
// Cancel Tests
// ============================================

func TestLedgerEntry_Cancel(t *testing.T) {
	t.Run("cancels pending entry", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		require.NoError(t, entry.Cancel("sale voided"))

		assert.Equal(t, LedgerEntryStatusCancelled, entry.Status)
		assert.Equal(t, "sale voided", entry.CancelReason)
		require.NotNil(t, entry.CancelledAt)
	})

	t.Run("cannot cancel a paid entry", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		require.NoError(t, entry.ReduceBalance(mustMoney(t, 100.00)))

		err := entry.Cancel("too late")
		assertDomainCode(t, err, "INVALID_STATE")
	})

	t.Run("requires a reason", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		err := entry.Cancel("")
		assertDomainCode(t, err, "INVALID_REASON")
	})
}

// ============================================
// Overdue Tests
// ============================================

func TestLedgerEntry_RefreshOverdueStatus(t *testing.T) {
	t.Run("pending entry past due becomes overdue", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		changed := entry.RefreshOverdueStatus(entry.DueDate.AddDate(0, 0, 1))

		assert.True(t, changed)
		assert.Equal(t, LedgerEntryStatusOverdue, entry.Status)
	})

	t.Run("no change before due date", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		changed := entry.RefreshOverdueStatus(entry.DueDate.AddDate(0, 0, -1))

		assert.False(t, changed)
		assert.Equal(t, LedgerEntryStatusPending, entry.Status)
	})

	t.Run("no change for paid entry", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		require.NoError(t, entry.ReduceBalance(mustMoney(t, 100.00)))

		changed := entry.RefreshOverdueStatus(entry.DueDate.AddDate(0, 0, 1))
		assert.False(t, changed)
		assert.Equal(t, LedgerEntryStatusPaid, entry.Status)
	})

	t.Run("idempotent once overdue", func(t *testing.T) {
		entry := createTestEntry(t, 100.00)
		past := entry.DueDate.AddDate(0, 0, 1)
		require.True(t, entry.RefreshOverdueStatus(past))
		assert.False(t, entry.RefreshOverdueStatus(past))
	})
}

func TestLedgerEntry_DaysOverdue(t *testing.T) {
	entry := createTestEntry(t, 100.00)

	assert.Equal(t, 0, entry.DaysOverdue(entry.DueDate.AddDate(0, 0, -2)))
	assert.Equal(t, 5, entry.DaysOverdue(entry.DueDate.AddDate(0, 0, 5)))

	require.NoError(t, entry.ReduceBalance(mustMoney(t, 100.00)))
	assert.Equal(t, 0, entry.DaysOverdue(entry.DueDate.AddDate(0, 0, 5)))
}

// ============================================
// Invariant Tests
// ============================================

func TestLedgerEntry_BalanceInvariant(t *testing.T) {
	// 0 <= balance <= amount holds after every operation
	entry := createTestEntry(t, 50.00)
	today := time.Now()

	checkInvariant := func() {
		assert.False(t, entry.Balance.IsNegative())
		assert.False(t, entry.Balance.GreaterThan(entry.Amount))
	}

	checkInvariant()
	require.NoError(t, entry.ReduceBalance(mustMoney(t, 20.00)))
	checkInvariant()
	require.Error(t, entry.ReduceBalance(mustMoney(t, 40.00)))
	checkInvariant()
	require.NoError(t, entry.IncreaseBalance(mustMoney(t, 15.00), today))
	checkInvariant()
	require.Error(t, entry.IncreaseBalance(mustMoney(t, 10.00), today))
	checkInvariant()
	require.NoError(t, entry.ReduceBalance(mustMoney(t, 45.00)))
	checkInvariant()
	assert.Equal(t, LedgerEntryStatusPaid, entry.Status)
}
