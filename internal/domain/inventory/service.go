package inventory

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/pkg/logger"
)

// Service provides catalog management and stock movements.
type Service struct {
	products  ProductRepository
	events    EventRepository
	txm       tx.Manager
	ledger    *Ledger
	notifier  domain.ChangeNotifier
	suppliers SupplierChecker
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

// SupplierChecker confirms a supplier reference names one of the owner's suppliers.
type SupplierChecker interface {
	CheckSupplier(ctx context.Context, ownerID, supplierID id.ID) error
}

// WithSupplierChecker validates product supplier references against s.
func WithSupplierChecker(c SupplierChecker) Option {
	return func(s *Service) { s.suppliers = c }
}

// NewService creates a new inventory service.
func NewService(products ProductRepository, events EventRepository, txm tx.Manager, ledger *Ledger, opts ...Option) *Service {
	s := &Service{
		products: products,
		events:   events,
		txm:      txm,
		ledger:   ledger,
		notifier: domain.NopNotifier{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Catalog ---

// CreateProductInput holds data for a new catalog entry.
type CreateProductInput struct {
	Name        string
	Category    Category
	UnitPrice   types.Money
	Stock       int64
	MinStock    int64
	SupplierRef *id.ID
}

// CreateProduct adds a product to the owner's catalog.
func (s *Service) CreateProduct(ctx context.Context, ownerID id.ID, in CreateProductInput) (*Product, error) {
	p := NewProduct(ownerID, in.Name, in.Category, in.UnitPrice, in.Stock, in.MinStock, s.now())
	p.SupplierRef = in.SupplierRef
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkSupplier(ctx, ownerID, p.SupplierRef); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.notifier.Invalidate(ctx, ownerID)

	logger.Info(ctx, "product created", "product_id", p.ID, "name", p.Name)
	return &p, nil
}

// UpdateProductInput holds editable product fields. Stock is not editable
// here: it changes only through stock events.
type UpdateProductInput struct {
	Name        string
	Category    Category
	UnitPrice   types.Money
	MinStock    int64
	SupplierRef *id.ID
}

// UpdateProduct changes descriptive fields of a product.
func (s *Service) UpdateProduct(ctx context.Context, ownerID, productID id.ID, in UpdateProductInput) (*Product, error) {
	var out *Product
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, ownerID, productID)
		if err != nil {
			return err
		}
		p.Name = in.Name
		p.Category = in.Category
		p.UnitPrice = in.UnitPrice
		p.MinStock = in.MinStock
		p.SupplierRef = in.SupplierRef
		p.UpdatedAt = s.now()
		if err := p.Validate(); err != nil {
			return err
		}
		if err := s.checkSupplier(ctx, ownerID, p.SupplierRef); err != nil {
			return err
		}
		if err := s.products.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Invalidate(ctx, ownerID)
	return out, nil
}

func (s *Service) checkSupplier(ctx context.Context, ownerID id.ID, ref *id.ID) error {
	if ref == nil || s.suppliers == nil {
		return nil
	}
	return s.suppliers.CheckSupplier(ctx, ownerID, *ref)
}

// DeleteProduct removes a product. Its ledger history is kept.
func (s *Service) DeleteProduct(ctx context.Context, ownerID, productID id.ID) error {
	if err := s.products.Delete(ctx, ownerID, productID); err != nil {
		return err
	}
	s.notifier.Invalidate(ctx, ownerID)
	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}

// GetProduct returns one product.
func (s *Service) GetProduct(ctx context.Context, ownerID, productID id.ID) (*Product, error) {
	return s.products.Get(ctx, ownerID, productID)
}

// ListProducts returns a filtered page of the catalog.
func (s *Service) ListProducts(ctx context.Context, ownerID id.ID, filter ProductFilter) (domain.ListResult[Product], error) {
	filter.Page = filter.Page.Normalize(100, 1000)
	return s.products.List(ctx, ownerID, filter)
}

// Summary returns the inventory overview (value, low stock, out of stock).
func (s *Service) Summary(ctx context.Context, ownerID id.ID) (Summary, error) {
	products, err := s.products.ListAll(ctx, ownerID)
	if err != nil {
		return Summary{}, fmt.Errorf("list products: %w", err)
	}
	return Summarize(products), nil
}

// --- Stock ledger ---

// StockEventInput is a requested stock adjustment.
type StockEventInput struct {
	ProductID   id.ID
	Kind        Kind
	Quantity    int64
	Reason      Reason
	Description string
	ActorID     string
	// Timestamp defaults to now.
	Timestamp time.Time
}

// StockEventResult is returned by ApplyStockEvent.
type StockEventResult struct {
	Product        Product    `json:"product"`
	Event          StockEvent `json:"event"`
	WouldUnderflow bool       `json:"wouldUnderflow"`
}

// ApplyStockEvent records a stock adjustment: the product row is locked,
// the ledger computes the new stock, and product + event are written in
// one transaction.
func (s *Service) ApplyStockEvent(ctx context.Context, ownerID id.ID, in StockEventInput) (StockEventResult, error) {
	at := in.Timestamp
	if at.IsZero() {
		at = s.now()
	}
	event := NewStockEvent(ownerID, in.ProductID, in.Kind, in.Quantity, in.Reason, in.Description, at, in.ActorID)

	// Reject bad input before touching storage.
	if err := validateEvent(event); err != nil {
		return StockEventResult{}, err
	}

	var res StockEventResult
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, ownerID, in.ProductID)
		if err != nil {
			return err
		}

		applied, err := s.ledger.ApplyEvent(event, []Product{*p})
		if err != nil {
			return err
		}

		if err := s.products.UpdateStock(ctx, &applied.Product); err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if err := s.events.Append(ctx, applied.Entry); err != nil {
			return fmt.Errorf("append stock event: %w", err)
		}

		res = StockEventResult{
			Product:        applied.Product,
			Event:          applied.Entry,
			WouldUnderflow: applied.WouldUnderflow,
		}
		return nil
	})
	if err != nil {
		return StockEventResult{}, err
	}

	s.notifier.Invalidate(ctx, ownerID)

	if res.WouldUnderflow {
		logger.Warn(ctx, "stock exit exceeded stock on hand, clamped to zero",
			"product_id", res.Product.ID,
			"requested", event.Quantity,
		)
	}
	logger.Info(ctx, "stock event applied",
		"event_id", res.Event.ID,
		"product_id", res.Product.ID,
		"kind", res.Event.Kind,
		"reason", res.Event.Reason,
		"quantity", res.Event.Quantity,
		"stock", res.Product.Stock,
	)

	return res, nil
}

// StockLine is one product and quantity of a batch movement.
type StockLine struct {
	ProductID id.ID
	Quantity  int64
}

// StockBatchInput posts one event per line, all of the same kind and reason.
type StockBatchInput struct {
	Kind        Kind
	Reason      Reason
	Lines       []StockLine
	Description string
	ActorID     string
	// Timestamp defaults to now.
	Timestamp time.Time
}

// StockBatchResult is returned by ApplyStockEvents.
type StockBatchResult struct {
	// Products holds every touched product after the batch.
	Products []Product
	Events   []StockEvent
	// Underflows lists products whose stock was clamped to zero.
	Underflows []id.ID
}

// ApplyStockEvents posts every line in one transaction. The touched products
// are locked in id order, the ledger applies the events in line order and all
// entries are appended with a single write. A failing line leaves stock and
// ledger untouched.
func (s *Service) ApplyStockEvents(ctx context.Context, ownerID id.ID, in StockBatchInput) (StockBatchResult, error) {
	if len(in.Lines) == 0 {
		return StockBatchResult{}, nil
	}
	at := in.Timestamp
	if at.IsZero() {
		at = s.now()
	}
	events := make([]StockEvent, len(in.Lines))
	for i, l := range in.Lines {
		events[i] = NewStockEvent(ownerID, l.ProductID, in.Kind, l.Quantity, in.Reason, in.Description, at, in.ActorID)
		if err := validateEvent(events[i]); err != nil {
			return StockBatchResult{}, fmt.Errorf("line %d: %w", i, err)
		}
	}

	var res StockBatchResult
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		catalog, err := s.lockProducts(ctx, ownerID, events)
		if err != nil {
			return err
		}

		applied, err := s.ledger.ApplyEvents(events, catalog)
		if err != nil {
			return err
		}

		for i := range applied.Catalog {
			if err := s.products.UpdateStock(ctx, &applied.Catalog[i]); err != nil {
				return fmt.Errorf("update stock: %w", err)
			}
		}
		if err := s.events.Append(ctx, applied.Entries...); err != nil {
			return fmt.Errorf("append stock events: %w", err)
		}

		res = StockBatchResult{Products: applied.Catalog, Events: applied.Entries}
		for _, u := range applied.Underflows {
			if !slices.Contains(res.Underflows, u.ProductID) {
				res.Underflows = append(res.Underflows, u.ProductID)
			}
		}
		return nil
	})
	if err != nil {
		return StockBatchResult{}, err
	}

	s.notifier.Invalidate(ctx, ownerID)

	if len(res.Underflows) > 0 {
		logger.Warn(ctx, "stock exits exceeded stock on hand, clamped to zero", "products", res.Underflows)
	}
	logger.Info(ctx, "stock events applied",
		"kind", in.Kind,
		"reason", in.Reason,
		"events", len(res.Events),
		"products", len(res.Products),
	)
	return res, nil
}

// lockProducts loads each product referenced by events once, in id order.
func (s *Service) lockProducts(ctx context.Context, ownerID id.ID, events []StockEvent) ([]Product, error) {
	ids := make([]id.ID, 0, len(events))
	for _, ev := range events {
		if !slices.Contains(ids, ev.ProductID) {
			ids = append(ids, ev.ProductID)
		}
	}
	slices.SortFunc(ids, func(a, b id.ID) int { return bytes.Compare(a[:], b[:]) })

	catalog := make([]Product, 0, len(ids))
	for _, pid := range ids {
		p, err := s.products.GetForUpdate(ctx, ownerID, pid)
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, *p)
	}
	return catalog, nil
}

// ListStockEvents returns ledger entries, newest first.
func (s *Service) ListStockEvents(ctx context.Context, ownerID id.ID, filter EventFilter) (domain.ListResult[StockEvent], error) {
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		return domain.ListResult[StockEvent]{}, apperror.NewValidation("fromDate must be before toDate")
	}
	filter.Page = filter.Page.Normalize(100, 1000)
	return s.events.List(ctx, ownerID, filter)
}
