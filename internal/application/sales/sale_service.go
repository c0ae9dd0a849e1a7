package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nexoerp/backend/internal/domain/sales"
	"github.com/nexoerp/backend/internal/domain/shared"
	"github.com/nexoerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleService handles sale business operations
type SaleService struct {
	saleRepo       sales.SaleRepository
	eventPublisher shared.EventPublisher
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo sales.SaleRepository) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new sale in draft status
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	folio, err := s.saleRepo.GenerateFolio(ctx)
	if err != nil {
		return nil, err
	}

	saleDate := time.Now()
	if req.SaleDate != nil {
		saleDate = *req.SaleDate
	}

	sale, err := sales.NewSale(folio, req.CustomerID, req.CustomerName, saleDate)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		unitPrice, err := moneyFromDecimal(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		discount := valueobject.ZeroMXN()
		if item.Discount != nil {
			if discount, err = moneyFromDecimal(*item.Discount); err != nil {
				return nil, err
			}
		}
		if _, err := sale.AddItem(item.ProductID, item.ProductName, item.ProductCode, item.Quantity, unitPrice, discount); err != nil {
			return nil, err
		}
	}

	if req.Discount != nil {
		discount, err := moneyFromDecimal(*req.Discount)
		if err != nil {
			return nil, err
		}
		if err := sale.ApplyDiscount(discount); err != nil {
			return nil, err
		}
	}

	if req.Tax != nil {
		tax, err := moneyFromDecimal(*req.Tax)
		if err != nil {
			return nil, err
		}
		if err := sale.SetTax(tax); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		sale.SetNotes(req.Notes)
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByFolio retrieves a sale by folio
func (s *SaleService) GetByFolio(ctx context.Context, folio string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByFolio(ctx, folio)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) (*shared.Paginated[SaleListItemResponse], error) {
	domainFilter := toDomainFilter(filter)

	result, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToSaleListItemResponses(result), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// AddItem adds an item to a draft sale
func (s *SaleService) AddItem(ctx context.Context, saleID uuid.UUID, req AddSaleItemRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	unitPrice, err := moneyFromDecimal(req.UnitPrice)
	if err != nil {
		return nil, err
	}
	discount := valueobject.ZeroMXN()
	if req.Discount != nil {
		if discount, err = moneyFromDecimal(*req.Discount); err != nil {
			return nil, err
		}
	}

	if _, err := sale.AddItem(req.ProductID, req.ProductName, req.ProductCode, req.Quantity, unitPrice, discount); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// UpdateItem updates an item of a draft sale
func (s *SaleService) UpdateItem(ctx context.Context, saleID, itemID uuid.UUID, req UpdateSaleItemRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := sale.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return nil, err
		}
	}

	if req.UnitPrice != nil {
		unitPrice, err := moneyFromDecimal(*req.UnitPrice)
		if err != nil {
			return nil, err
		}
		if err := sale.UpdateItemPrice(itemID, unitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// RemoveItem removes an item from a draft sale
func (s *SaleService) RemoveItem(ctx context.Context, saleID, itemID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// ApplyDiscount sets the sale-level discount amount
func (s *SaleService) ApplyDiscount(ctx context.Context, saleID uuid.UUID, req ApplyDiscountRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	discount, err := moneyFromDecimal(req.Discount)
	if err != nil {
		return nil, err
	}
	if err := sale.ApplyDiscount(discount); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// SetTax sets the flat tax amount
func (s *SaleService) SetTax(ctx context.Context, saleID uuid.UUID, req SetTaxRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	tax, err := moneyFromDecimal(req.Tax)
	if err != nil {
		return nil, err
	}
	if err := sale.SetTax(tax); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// Confirm confirms a sale. The confirmation event triggers the
// opening of the matching receivable ledger entry.
func (s *SaleService) Confirm(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.Confirm(); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Ship marks a sale as shipped
func (s *SaleService) Ship(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.MarkShipped(); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Complete marks a sale as completed
func (s *SaleService) Complete(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.MarkCompleted(); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Cancel cancels a sale. The cancellation event carries whether the
// sale had been confirmed, so listeners can void the linked ledger entry.
func (s *SaleService) Cancel(ctx context.Context, saleID uuid.UUID, req CancelSaleRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Delete soft-deletes a sale (only allowed in DRAFT status)
func (s *SaleService) Delete(ctx context.Context, saleID uuid.UUID, deletedBy uuid.UUID) error {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return err
	}

	if !sale.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft sales can be deleted")
	}

	return s.saleRepo.Delete(ctx, saleID, deletedBy)
}

// publishEvents publishes pending domain events after a successful save.
// Event handling is asynchronous from the caller's point of view; a
// publish failure never rolls back the operation.
func (s *SaleService) publishEvents(ctx context.Context, sale *sales.Sale) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range sale.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	sale.ClearDomainEvents()
}

func moneyFromDecimal(amount decimal.Decimal) (valueobject.Money, error) {
	return valueobject.NewMoney(amount, valueobject.MXN)
}

func toDomainFilter(filter SaleListFilter) shared.Filter {
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
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	return domainFilter
}
