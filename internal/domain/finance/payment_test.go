package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPayment(t *testing.T, amount float64) *Payment {
	t.Helper()
	payment, err := NewPayment(
		"PAG-2026-00001",
		uuid.New(),
		PaymentMethodTransfer,
		mustMoney(t, amount),
		time.Now(),
		"REF-001",
		"",
	)
	require.NoError(t, err)
	return payment
}

// ============================================
// PaymentStatus Tests
// ============================================

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PaymentStatus
		to       PaymentStatus
		canTrans bool
	}{
		// From PENDING
		{PaymentStatusPending, PaymentStatusCompleted, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusPending, PaymentStatusRefunded, false},
		// From COMPLETED
		{PaymentStatusCompleted, PaymentStatusRefunded, true},
		{PaymentStatusCompleted, PaymentStatusPending, false},
		{PaymentStatusCompleted, PaymentStatusFailed, false},
		// From FAILED (terminal)
		{PaymentStatusFailed, PaymentStatusPending, false},
		{PaymentStatusFailed, PaymentStatusCompleted, false},
		{PaymentStatusFailed, PaymentStatusRefunded, false},
		// From REFUNDED (terminal)
		{PaymentStatusRefunded, PaymentStatusPending, false},
		{PaymentStatusRefunded, PaymentStatusCompleted, false},
		{PaymentStatusRefunded, PaymentStatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentMethod_IsValid(t *testing.T) {
	valid := []PaymentMethod{
		PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodOther,
	}
	for _, m := range valid {
		assert.True(t, m.IsValid(), m)
	}
	assert.False(t, PaymentMethod("BARTER").IsValid())
}

// ============================================
// NewPayment Tests
// ============================================

func TestNewPayment(t *testing.T) {
	saleID := uuid.New()

	t.Run("creates pending payment", func(t *testing.T) {
		payment, err := NewPayment("PAG-2026-00001", saleID, PaymentMethodCash,
			mustMoney(t, 50.00), time.Now(), "", "first installment")
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusPending, payment.Status)
		assert.Equal(t, saleID, payment.SaleID)
		assert.Equal(t, "first installment", payment.Notes)

		events := payment.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePaymentCreated, events[0].EventType())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPayment("PAG-2026-00002", saleID, PaymentMethodCash,
			valueobject.ZeroMXN(), time.Now(), "", "")
		assertDomainCode(t, err, "INVALID_AMOUNT")
	})

	t.Run("rejects nil sale reference", func(t *testing.T) {
		_, err := NewPayment("PAG-2026-00003", uuid.Nil, PaymentMethodCash,
			mustMoney(t, 10.00), time.Now(), "", "")
		assertDomainCode(t, err, "INVALID_SALE")
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := NewPayment("PAG-2026-00004", saleID, PaymentMethod("BARTER"),
			mustMoney(t, 10.00), time.Now(), "", "")
		assertDomainCode(t, err, "INVALID_METHOD")
	})
}

// ============================================
// Transition Tests
// ============================================

func TestPayment_Complete(t *testing.T) {
	t.Run("completes pending payment", func(t *testing.T) {
		payment := createTestPayment(t, 50.00)

		require.NoError(t, payment.Complete())
		assert.Equal(t, PaymentStatusCompleted, payment.Status)
		require.NotNil(t, payment.CompletedAt)

		events := payment.GetDomainEvents()
		assert.Equal(t, EventTypePaymentCompleted, events[len(events)-1].EventType())
	})

	t.Run("rejects double completion", func(t *testing.T) {
		payment := createTestPayment(t, 50.00)
		require.NoError(t, payment.Complete())

		err := payment.Complete()
		assertDomainCode(t, err, "INVALID_STATE")
	})
}

func TestPayment_Fail(t *testing.T) {
	t.Run("fails pending payment with reason", func(t *testing.T) {
		payment := createTestPayment(t, 50.00)

		require.NoError(t, payment.Fail("card declined"))
		assert.Equal(t, PaymentStatusFailed, payment.Status)
		assert.Equal(t, "card declined", payment.FailReason)
		assert.True(t, payment.IsTerminal())
	})

	t.Run("cannot fail a completed payment", func(t *testing.T) {
		payment := createTestPayment(t, 50.00)
		require.NoError(t, payment.Complete())

		err := payment.Fail("too late")
		assertDomainCode(t, err, "INVALID_STATE")
	})
}

func TestPayment_Refund(t *testing.T) {
	t.Run("refunds completed payment", func(t *testing.T) {
		payment := createTestPayment(t, 50.00)
		require.NoError(t, payment.Complete())

		require.NoError(t, payment.Refund())
		assert.Equal(t, PaymentStatusRefunded, payment.Status)
		require.NotNil(t, payment.RefundedAt)
		assert.True(t, payment.IsTerminal())
	})

	t.Run("cannot refund a pending payment", func(t *testing.T) {
		payment := createTestPayment(t, 50.00)

		err := payment.Refund()
		assertDomainCode(t, err, "INVALID_STATE")
		assert.Contains(t, err.Error(), "PENDING")
		assert.Contains(t, err.Error(), "REFUNDED")
	})

	t.Run("cannot refund twice", func(t *testing.T) {
		payment := createTestPayment(t, 50.00)
		require.NoError(t, payment.Complete())
		require.NoError(t, payment.Refund())

		err := payment.Refund()
		assertDomainCode(t, err, "INVALID_STATE")
	})
}

func TestPayment_ChangeState(t *testing.T) {
	t.Run("rejects invalid target status", func(t *testing.T) {
		payment := createTestPayment(t, 50.00)
		err := payment.ChangeState(PaymentStatus("SETTLED"))
		assertDomainCode(t, err, "INVALID_ARGUMENT")
	})

	t.Run("drives the full happy path", func(t *testing.T) {
		payment := createTestPayment(t, 50.00)
		require.NoError(t, payment.ChangeState(PaymentStatusCompleted))
		require.NoError(t, payment.ChangeState(PaymentStatusRefunded))
		assert.Equal(t, PaymentStatusRefunded, payment.Status)
	})
}
