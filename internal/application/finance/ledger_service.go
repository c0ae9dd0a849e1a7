package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// LedgerService handles receivable and payable ledger entries.
// Overdue detection is lazy: entries are re-checked against the due
// date whenever they are read, never by a background job.
type LedgerService struct {
	entryRepo       finance.LedgerEntryRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
	defaultTermDays int
	graceDays       int
	now             func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(entryRepo finance.LedgerEntryRepository, logger *zap.Logger, defaultTermDays int) *LedgerService {
	return &LedgerService{
		entryRepo:       entryRepo,
		logger:          logger,
		defaultTermDays: defaultTermDays,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source, used by tests
func (s *LedgerService) SetClock(now func() time.Time) {
	s.now = now
}

// SetOverdueGrace sets extra days past the due date before an entry is
// flipped to overdue
func (s *LedgerService) SetOverdueGrace(days int) {
	if days > 0 {
		s.graceDays = days
	}
}

// OpenManual opens a ledger entry that is not backed by a sale,
// e.g. an opening balance or a manual adjustment.
func (s *LedgerService) OpenManual(ctx context.Context, req OpenLedgerEntryRequest) (*LedgerEntryResponse, error) {
	folio, err := s.entryRepo.GenerateFolio(ctx, req.Direction)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, valueobject.MXN)
	if err != nil {
		return nil, err
	}

	issueDate := s.now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}
	dueDate := issueDate.AddDate(0, 0, s.defaultTermDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	entry, err := finance.NewLedgerEntry(
		folio,
		req.Direction,
		finance.ReferenceTypeManual,
		uuid.New(),
		req.CustomerID,
		req.CustomerName,
		req.Description,
		amount,
		issueDate,
		dueDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry)

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// GetByID retrieves a ledger entry, refreshing its overdue status first
func (s *LedgerService) GetByID(ctx context.Context, entryID uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	s.refreshOverdue(ctx, entry)

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// GetByFolio retrieves a ledger entry by folio, refreshing its overdue status
func (s *LedgerService) GetByFolio(ctx context.Context, folio string) (*LedgerEntryResponse, error) {
	entry, err := s.entryRepo.FindByFolio(ctx, folio)
	if err != nil {
		return nil, err
	}

	s.refreshOverdue(ctx, entry)

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// GetBySale retrieves the ledger entries opened for a sale
func (s *LedgerService) GetBySale(ctx context.Context, saleID uuid.UUID) ([]LedgerEntryResponse, error) {
	entries, err := s.entryRepo.FindByReference(ctx, finance.ReferenceTypeSale, saleID)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		s.refreshOverdue(ctx, &entries[i])
	}

	return ToLedgerEntryResponses(entries), nil
}

// List retrieves ledger entries with filtering and pagination
func (s *LedgerService) List(ctx context.Context, filter LedgerEntryListFilter) (*shared.Paginated[LedgerEntryResponse], error) {
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
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Direction != nil {
		domainFilter.Filters["direction"] = string(*filter.Direction)
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	entries, err := s.entryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.entryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		s.refreshOverdue(ctx, &entries[i])
	}

	page := shared.NewPaginated(ToLedgerEntryResponses(entries), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ListOutstanding retrieves a customer's entries that still carry a balance
func (s *LedgerService) ListOutstanding(ctx context.Context, customerID uuid.UUID) ([]LedgerEntryResponse, error) {
	entries, err := s.entryRepo.FindOutstanding(ctx, customerID)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		s.refreshOverdue(ctx, &entries[i])
	}

	return ToLedgerEntryResponses(entries), nil
}

// Cancel voids a ledger entry. Entries that are already settled cannot
// be cancelled.
func (s *LedgerService) Cancel(ctx context.Context, entryID uuid.UUID, req CancelLedgerEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := entry.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveWithLock(ctx, entry); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, entry)

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// refreshOverdue flips a past-due entry to OVERDUE and persists the
// change. A persistence failure only logs: the caller still sees the
// refreshed status, and the next read retries the write.
func (s *LedgerService) refreshOverdue(ctx context.Context, entry *finance.LedgerEntry) {
	if !entry.RefreshOverdueStatus(s.now().AddDate(0, 0, -s.graceDays)) {
		return
	}

	if err := s.entryRepo.SaveWithLock(ctx, entry); err != nil {
		s.logger.Warn("failed to persist overdue status",
			zap.String("entry_id", entry.ID.String()),
			zap.String("folio", entry.Folio),
			zap.Error(err),
		)
		return
	}

	s.publishEvents(ctx, entry)
}

func (s *LedgerService) publishEvents(ctx context.Context, entry *finance.LedgerEntry) {
	if s.eventPublisher == nil {
		entry.ClearDomainEvents()
		return
	}
	for _, event := range entry.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	entry.ClearDomainEvents()
}
