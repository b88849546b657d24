package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bizdesk/internal/core/calendar"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/customers"
	"bizdesk/internal/domain/finance"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/sales"
	"bizdesk/pkg/logger"
)

var tracer = otel.Tracer("bizdesk/dashboard")

// Loaders fetch the full collections of one owner.
type (
	SalesLoader interface {
		ListAll(ctx context.Context, ownerID id.ID) ([]sales.Sale, error)
	}
	ProductLoader interface {
		ListAll(ctx context.Context, ownerID id.ID) ([]inventory.Product, error)
	}
	RecordLoader interface {
		ListAll(ctx context.Context, ownerID id.ID, filter finance.RecordFilter) ([]finance.Record, error)
	}
	CustomerLoader interface {
		ListAll(ctx context.Context, ownerID id.ID) ([]customers.Customer, error)
	}
)

// Cache stores computed stats per owner and calendar day.
//
// Every owner has a generation that Delete advances. Get reports the current
// generation even on a miss; Set stores only while the generation is still the
// one the caller read, so stats computed before an invalidation are dropped.
type Cache interface {
	Get(ctx context.Context, ownerID id.ID, day string) (st *Stats, gen int64, err error)
	Set(ctx context.Context, ownerID id.ID, day string, gen int64, st Stats) error
	Delete(ctx context.Context, ownerID id.ID) error
}

// Service computes dashboard stats from repositories.
type Service struct {
	sales     SalesLoader
	products  ProductLoader
	records   RecordLoader
	customers CustomerLoader
	cal       calendar.Calendar
	cache     Cache
	snapshot  tx.ReadOnlyManager
	now       func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithCache enables caching of computed stats.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithSnapshot loads all collections inside one read-only transaction.
func WithSnapshot(m tx.ReadOnlyManager) Option {
	return func(s *Service) { s.snapshot = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a dashboard service.
func NewService(sl SalesLoader, pl ProductLoader, rl RecordLoader, cl CustomerLoader, cal calendar.Calendar, opts ...Option) *Service {
	s := &Service{
		sales:     sl,
		products:  pl,
		records:   rl,
		customers: cl,
		cal:       cal,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domain.ChangeNotifier = (*Service)(nil)

// Stats returns the owner's dashboard, served from cache when present.
func (s *Service) Stats(ctx context.Context, ownerID id.ID) (Stats, error) {
	ctx, span := tracer.Start(ctx, "dashboard.stats",
		trace.WithAttributes(attribute.String("owner.id", ownerID.String())))
	defer span.End()

	now := s.now()
	day := s.cal.StartOfDay(now).Format(time.DateOnly)

	var (
		gen      int64
		storable bool
	)
	if s.cache != nil {
		cached, g, err := s.cache.Get(ctx, ownerID, day)
		switch {
		case err != nil:
			logger.Warn(ctx, "dashboard cache read failed", "error", err)
		case cached != nil:
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return *cached, nil
		default:
			gen, storable = g, true
		}
	}

	c, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return Stats{}, err
	}
	st := Compute(c, now, s.cal)

	if storable {
		if err := s.cache.Set(ctx, ownerID, day, gen, st); err != nil {
			logger.Warn(ctx, "dashboard cache write failed", "error", err)
		}
	}
	return st, nil
}

func (s *Service) loadSnapshot(ctx context.Context, ownerID id.ID) (Collections, error) {
	if s.snapshot == nil {
		return s.load(ctx, ownerID)
	}
	var c Collections
	err := s.snapshot.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.load(ctx, ownerID)
		return err
	})
	return c, err
}

func (s *Service) load(ctx context.Context, ownerID id.ID) (Collections, error) {
	var (
		c   Collections
		err error
	)
	if c.Sales, err = s.sales.ListAll(ctx, ownerID); err != nil {
		return c, fmt.Errorf("load sales: %w", err)
	}
	if c.Products, err = s.products.ListAll(ctx, ownerID); err != nil {
		return c, fmt.Errorf("load products: %w", err)
	}
	if c.Records, err = s.records.ListAll(ctx, ownerID, finance.RecordFilter{}); err != nil {
		return c, fmt.Errorf("load records: %w", err)
	}
	if c.Customers, err = s.customers.ListAll(ctx, ownerID); err != nil {
		return c, fmt.Errorf("load customers: %w", err)
	}
	return c, nil
}

// Invalidate drops cached stats of ownerID and advances its generation.
func (s *Service) Invalidate(ctx context.Context, ownerID id.ID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, ownerID); err != nil {
		logger.Warn(ctx, "dashboard cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}
