package finance

import (
	"sync"
	"time"

	"github.com/nexoerp/backend/internal/domain/shared"
)

// ReconciliationCoordinator is the domain service that keeps payments
// and ledger entries numerically consistent. It is the only component
// allowed to call ReduceBalance and IncreaseBalance: every balance
// mutation in the system routes through ApplyPayment or ReversePayment.
//
// It serializes mutations per ledger entry: two concurrent payment
// applications against the same entry are applied one after the other,
// so the balance check and write form a single atomic step. Entries
// with different IDs never block each other.
type ReconciliationCoordinator struct {
	locks sync.Map // ledger entry ID -> *sync.Mutex
	now   func() time.Time
}

// ReconciliationCoordinatorOption is a functional option for configuring the coordinator
type ReconciliationCoordinatorOption func(*ReconciliationCoordinator)

// WithClock overrides the time source used for overdue evaluation
func WithClock(now func() time.Time) ReconciliationCoordinatorOption {
	return func(c *ReconciliationCoordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewReconciliationCoordinator creates a new reconciliation coordinator
func NewReconciliationCoordinator(opts ...ReconciliationCoordinatorOption) *ReconciliationCoordinator {
	c := &ReconciliationCoordinator{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ReconciliationCoordinator) entryLock(entry *LedgerEntry) *sync.Mutex {
	lock, _ := c.locks.LoadOrStore(entry.ID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// validatePair checks that the payment and the ledger entry refer to
// the same sale. Entries with a non-sale origin cannot be reconciled
// against payments.
func (c *ReconciliationCoordinator) validatePair(payment *Payment, entry *LedgerEntry) error {
	if payment == nil {
		return shared.NewDomainError("INVALID_ARGUMENT", "Payment cannot be nil")
	}
	if entry == nil {
		return shared.NewDomainError("INVALID_ARGUMENT", "Ledger entry cannot be nil")
	}
	if entry.ReferenceType != ReferenceTypeSale {
		return shared.NewDomainError("INVALID_REFERENCE", "Ledger entry does not originate from a sale")
	}
	if entry.ReferenceID != payment.SaleID {
		return shared.NewDomainError("REFERENCE_MISMATCH", "Payment and ledger entry refer to different sales")
	}
	return nil
}

// ApplyPayment reduces the ledger entry balance by the amount of a
// completed payment. Failures from the entry (wrong state, amount over
// balance) surface unchanged; nothing is clamped.
func (c *ReconciliationCoordinator) ApplyPayment(payment *Payment, entry *LedgerEntry) error {
	if err := c.validatePair(payment, entry); err != nil {
		return err
	}
	if payment.Status != PaymentStatusCompleted {
		return shared.NewInvalidStateError("Payment", payment.Status.String(), "ledger application")
	}

	lock := c.entryLock(entry)
	lock.Lock()
	defer lock.Unlock()

	entry.RefreshOverdueStatus(c.now())

	return entry.ReduceBalance(payment.GetAmountMoney())
}

// ReversePayment restores the ledger entry balance by the amount of a
// refunded payment, bounded by the entry's original amount.
func (c *ReconciliationCoordinator) ReversePayment(payment *Payment, entry *LedgerEntry) error {
	if err := c.validatePair(payment, entry); err != nil {
		return err
	}
	if payment.Status != PaymentStatusRefunded {
		return shared.NewInvalidStateError("Payment", payment.Status.String(), "ledger reversal")
	}

	lock := c.entryLock(entry)
	lock.Lock()
	defer lock.Unlock()

	entry.RefreshOverdueStatus(c.now())

	return entry.IncreaseBalance(payment.GetAmountMoney(), c.now())
}
