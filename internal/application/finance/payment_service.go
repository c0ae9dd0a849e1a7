package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// PaymentService handles payment registration and settlement against
// the receivable ledger. All balance mutations go through the
// reconciliation coordinator; the service never touches an entry's
// balance directly.
type PaymentService struct {
	paymentRepo     finance.PaymentRepository
	entryRepo       finance.LedgerEntryRepository
	coordinator     *finance.ReconciliationCoordinator
	txManager       shared.TxManager
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
	conflictRetries int
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo finance.PaymentRepository,
	entryRepo finance.LedgerEntryRepository,
	coordinator *finance.ReconciliationCoordinator,
	logger *zap.Logger,
	conflictRetries int,
) *PaymentService {
	if conflictRetries < 1 {
		conflictRetries = 1
	}
	return &PaymentService{
		paymentRepo:     paymentRepo,
		entryRepo:       entryRepo,
		coordinator:     coordinator,
		logger:          logger,
		conflictRetries: conflictRetries,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTxManager sets the transaction manager. When set, settlement writes
// the ledger entry and the payment atomically.
func (s *PaymentService) SetTxManager(txManager shared.TxManager) {
	s.txManager = txManager
}

// Create registers a pending payment against a sale. The sale must
// already have an open ledger entry; settlement happens in Complete.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	if _, err := s.activeEntryForSale(ctx, req.SaleID); err != nil {
		return nil, err
	}

	folio, err := s.paymentRepo.GenerateFolio(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, valueobject.MXN)
	if err != nil {
		return nil, err
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment, err := finance.NewPayment(folio, req.SaleID, req.Method, amount, paymentDate, req.Reference, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Complete marks a payment as completed and applies it to the sale's
// ledger entry. Both aggregates are written in one transaction; the
// entry write retries on optimistic lock conflicts, re-reading the
// entry and re-checking the balance each time.
func (s *PaymentService) Complete(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.Complete(); err != nil {
		return nil, err
	}

	entry, err := s.settleAndSave(ctx, payment, func(entry *finance.LedgerEntry) error {
		return s.coordinator.ApplyPayment(payment, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishEntryEvents(ctx, entry)
	s.publishEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Fail marks a pending payment as failed. The ledger is untouched.
func (s *PaymentService) Fail(ctx context.Context, paymentID uuid.UUID, req FailPaymentRequest) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.Fail(req.Reason); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithLock(ctx, payment); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Refund reverses a completed payment, restoring the amount onto the
// sale's ledger entry.
func (s *PaymentService) Refund(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.Refund(); err != nil {
		return nil, err
	}

	entry, err := s.settleAndSave(ctx, payment, func(entry *finance.LedgerEntry) error {
		return s.coordinator.ReversePayment(payment, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publishEntryEvents(ctx, entry)
	s.publishEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// GetByFolio retrieves a payment by folio
func (s *PaymentService) GetByFolio(ctx context.Context, folio string) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByFolio(ctx, folio)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// ListBySale retrieves payments made against a sale
func (s *PaymentService) ListBySale(ctx context.Context, saleID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) (*shared.Paginated[PaymentResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.SaleID != nil {
		domainFilter.Filters["sale_id"] = *filter.SaleID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.Method != nil {
		domainFilter.Filters["method"] = string(*filter.Method)
	}

	payments, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.paymentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToPaymentResponses(payments), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// settleAndSave runs a coordinator operation against the sale's ledger
// entry and persists the entry and the payment in one transaction, so a
// failure on either write rolls both back. The entry write retries on
// optimistic lock conflicts, re-reading the entry each time.
func (s *PaymentService) settleAndSave(ctx context.Context, payment *finance.Payment, apply func(*finance.LedgerEntry) error) (*finance.LedgerEntry, error) {
	var entry *finance.LedgerEntry
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.settle(ctx, payment, apply)
		if err != nil {
			return err
		}
		return s.paymentRepo.SaveWithLock(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// settle runs a coordinator operation against the sale's ledger entry
// and persists the result, re-reading the entry on each optimistic
// lock conflict. Domain events stay on the returned entry; the caller
// publishes them once the surrounding unit of work commits.
func (s *PaymentService) settle(ctx context.Context, payment *finance.Payment, apply func(*finance.LedgerEntry) error) (*finance.LedgerEntry, error) {
	var lastErr error
	for attempt := 0; attempt < s.conflictRetries; attempt++ {
		entry, err := s.activeEntryForSale(ctx, payment.SaleID)
		if err != nil {
			return nil, err
		}

		if err := apply(entry); err != nil {
			return nil, err
		}

		err = s.entryRepo.SaveWithLock(ctx, entry)
		if err == nil {
			return entry, nil
		}
		if !isConcurrencyConflict(err) {
			return nil, err
		}

		lastErr = err
		s.logger.Debug("ledger entry conflict, retrying",
			zap.String("sale_id", payment.SaleID.String()),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, lastErr
}

// inTx runs fn through the transaction manager when one is configured.
func (s *PaymentService) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.WithinTx(ctx, fn)
}

// activeEntryForSale finds the single non-cancelled ledger entry
// opened for a sale.
func (s *PaymentService) activeEntryForSale(ctx context.Context, saleID uuid.UUID) (*finance.LedgerEntry, error) {
	entries, err := s.entryRepo.FindByReference(ctx, finance.ReferenceTypeSale, saleID)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].Status != finance.LedgerEntryStatusCancelled {
			return &entries[i], nil
		}
	}
	return nil, shared.NewDomainError("INVALID_SALE", "Sale has no open ledger entry")
}

func isConcurrencyConflict(err error) bool {
	var derr *shared.DomainError
	return errors.As(err, &derr) && derr.Code == "CONCURRENCY_CONFLICT"
}

func (s *PaymentService) publishEvents(ctx context.Context, payment *finance.Payment) {
	if s.eventPublisher == nil {
		payment.ClearDomainEvents()
		return
	}
	for _, event := range payment.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	payment.ClearDomainEvents()
}

func (s *PaymentService) publishEntryEvents(ctx context.Context, entry *finance.LedgerEntry) {
	if s.eventPublisher == nil {
		entry.ClearDomainEvents()
		return
	}
	for _, event := range entry.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	entry.ClearDomainEvents()
}
