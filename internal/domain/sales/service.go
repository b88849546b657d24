package sales

import (
	"context"
	"fmt"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/customers"
	"bizdesk/internal/domain/inventory"
	"bizdesk/pkg/logger"
)

// Catalog resolves sold products and posts their stock exits. Implemented
// by inventory.Service.
type Catalog interface {
	GetProduct(ctx context.Context, ownerID, productID id.ID) (*inventory.Product, error)
	ApplyStockEvents(ctx context.Context, ownerID id.ID, in inventory.StockBatchInput) (inventory.StockBatchResult, error)
}

// PurchaseRecorder books sale amounts on customers. Implemented by customers.Service.
type PurchaseRecorder interface {
	RecordPurchase(ctx context.Context, ownerID, customerID id.ID, amount types.Money, at time.Time) (*customers.Customer, error)
}

// Service handles checkout and fulfillment.
type Service struct {
	repo      Repository
	catalog   Catalog
	customers PurchaseRecorder
	txm       tx.Manager
	notifier  domain.ChangeNotifier
	now       func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithNotifier sets the change notifier called after every write.
func WithNotifier(n domain.ChangeNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new sales service.
func NewService(repo Repository, catalog Catalog, purchases PurchaseRecorder, txm tx.Manager, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		catalog:   catalog,
		customers: purchases,
		txm:       txm,
		notifier:  domain.NopNotifier{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckoutInput is a checkout request.
type CheckoutInput struct {
	SaleInput
	// DeductStock posts one Exit/Sale stock event per line. Line names then
	// come from the catalog, and lines without a price take the catalog price.
	DeductStock bool
}

// CheckoutResult is returned by Checkout.
type CheckoutResult struct {
	Sale Sale `json:"sale"`
	// Underflows lists products whose stock was clamped to zero.
	Underflows []id.ID `json:"underflows,omitempty"`
}

// Checkout finalizes a sale. The sale, the customer's purchase totals and
// the optional stock exits are written in one transaction.
func (s *Service) Checkout(ctx context.Context, ownerID id.ID, in CheckoutInput) (CheckoutResult, error) {
	if in.Timestamp.IsZero() {
		in.Timestamp = s.now()
	}
	if in.DeductStock {
		items, err := s.fromCatalog(ctx, ownerID, in.Items)
		if err != nil {
			return CheckoutResult{}, err
		}
		in.Items = items
	}
	sale, err := NewSale(ownerID, in.SaleInput)
	if err != nil {
		return CheckoutResult{}, err
	}

	res := CheckoutResult{}
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if sale.CustomerID != nil {
			c, err := s.customers.RecordPurchase(ctx, ownerID, *sale.CustomerID, sale.TotalAmount, sale.Timestamp)
			if err != nil {
				return fmt.Errorf("record purchase: %w", err)
			}
			sale.CustomerName = c.Name
		}

		if in.DeductStock {
			lines := make([]inventory.StockLine, len(sale.Items))
			for i, it := range sale.Items {
				lines[i] = inventory.StockLine{ProductID: it.ProductID, Quantity: it.Quantity}
			}
			posted, err := s.catalog.ApplyStockEvents(ctx, ownerID, inventory.StockBatchInput{
				Kind:        inventory.KindExit,
				Reason:      inventory.ReasonSale,
				Lines:       lines,
				Description: fmt.Sprintf("sale %s", sale.ID),
				ActorID:     sale.ActorID,
				Timestamp:   sale.Timestamp,
			})
			if err != nil {
				return fmt.Errorf("deduct stock: %w", err)
			}
			res.Underflows = posted.Underflows
		}

		if err := s.repo.Create(ctx, &sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}
	res.Sale = sale

	s.notifier.Invalidate(ctx, ownerID)
	logger.Info(ctx, "sale created",
		"sale_id", sale.ID,
		"total", sale.TotalAmount.StringFixed(types.MoneyScale),
		"items", len(sale.Items),
		"payment_method", sale.PaymentMethod,
		"status", sale.Status,
	)
	return res, nil
}

// fromCatalog names every line after its product and prices unpriced lines
// at the catalog price.
func (s *Service) fromCatalog(ctx context.Context, ownerID id.ID, items []ItemInput) ([]ItemInput, error) {
	out := make([]ItemInput, len(items))
	for i, it := range items {
		if it.Quantity <= 0 {
			return nil, apperror.NewInvalidQuantity(it.Quantity).WithDetail("line", i)
		}
		p, err := s.catalog.GetProduct(ctx, ownerID, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		it.ProductName = p.Name
		if it.UnitPrice.IsZero() {
			it.UnitPrice = p.UnitPrice
		}
		out[i] = it
	}
	return out, nil
}

// TransitionFulfillment applies a fulfillment action to a stored sale.
func (s *Service) TransitionFulfillment(ctx context.Context, ownerID, saleID id.ID, action Action) (*Sale, error) {
	var out Sale
	var from FulfillmentStatus
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, ownerID, saleID)
		if err != nil {
			return err
		}
		from = current.Status
		next, err := TransitionFulfillment(*current, action)
		if err != nil {
			return err
		}
		next.UpdatedAt = s.now()
		if err := s.repo.UpdateStatus(ctx, &next); err != nil {
			return fmt.Errorf("update sale status: %w", err)
		}
		out = next
		return nil
	})
	if err != nil {
		if apperror.IsInvalidTransition(err) {
			logger.Warn(ctx, "fulfillment transition refused", "sale_id", saleID, "action", action)
		}
		return nil, err
	}

	s.notifier.Invalidate(ctx, ownerID)
	logger.Info(ctx, "fulfillment transition", "sale_id", saleID, "from", from, "to", out.Status)
	return &out, nil
}

// GetSale returns one sale with its items.
func (s *Service) GetSale(ctx context.Context, ownerID, saleID id.ID) (*Sale, error) {
	return s.repo.Get(ctx, ownerID, saleID)
}

// ListSales returns a filtered page of sales, newest first.
func (s *Service) ListSales(ctx context.Context, ownerID id.ID, filter Filter) (domain.ListResult[Sale], error) {
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		return domain.ListResult[Sale]{}, apperror.NewValidation("fromDate must be before toDate")
	}
	filter.Page = filter.Page.Normalize(50, 500)
	return s.repo.List(ctx, ownerID, filter)
}

// SalesBetween returns sales with from <= timestamp < to.
func (s *Service) SalesBetween(ctx context.Context, ownerID id.ID, from, to time.Time) ([]Sale, error) {
	return s.repo.ListBetween(ctx, ownerID, from, to)
}
