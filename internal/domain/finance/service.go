package finance

import (
	"context"
	"fmt"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/sales"
	"bizdesk/pkg/logger"
)

// SalesSource loads the sales of a closure window. Implemented by sales.Service.
type SalesSource interface {
	SalesBetween(ctx context.Context, ownerID id.ID, from, to time.Time) ([]sales.Sale, error)
}

// Locker serializes closures of one owner across processes.
// Obtain fails with CONFLICT when the key is already held.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context), err error)
}

const closureLockTTL = 30 * time.Second

// Service manages financial records and closures.
type Service struct {
	records  RecordRepository
	closures ClosureRepository
	sales    SalesSource
	txm      tx.Manager
	notifier domain.ChangeNotifier
	locker   Locker
	now      func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithNotifier sets the change notifier called after every write.
func WithNotifier(n domain.ChangeNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLocker enables the per-owner closure lock.
func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new finance service.
func NewService(records RecordRepository, closures ClosureRepository, src SalesSource, txm tx.Manager, opts ...Option) *Service {
	s := &Service{
		records:  records,
		closures: closures,
		sales:    src,
		txm:      txm,
		notifier: domain.NopNotifier{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddRecord validates and stores a manual income or expense.
func (s *Service) AddRecord(ctx context.Context, ownerID id.ID, in RecordInput) (*Record, error) {
	r, err := NewRecord(ownerID, in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.records.Create(ctx, &r); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	s.notifier.Invalidate(ctx, ownerID)
	logger.Info(ctx, "financial record added",
		"record_id", r.ID,
		"kind", r.Kind,
		"category", r.Category,
		"amount", r.Amount.StringFixed(types.MoneyScale),
	)
	return &r, nil
}

// ListRecords returns a filtered page of records, newest first.
func (s *Service) ListRecords(ctx context.Context, ownerID id.ID, filter RecordFilter) (domain.ListResult[Record], error) {
	if err := checkRange(filter.FromDate, filter.ToDate); err != nil {
		return domain.ListResult[Record]{}, err
	}
	filter.Page = filter.Page.Normalize(100, 1000)
	return s.records.List(ctx, ownerID, filter)
}

// Summary totals records in [from, to). Nil bounds are open.
func (s *Service) Summary(ctx context.Context, ownerID id.ID, from, to *time.Time) (Summary, error) {
	if err := checkRange(from, to); err != nil {
		return Summary{}, err
	}
	list, err := s.records.ListAll(ctx, ownerID, RecordFilter{FromDate: from, ToDate: to})
	if err != nil {
		return Summary{}, fmt.Errorf("list records: %w", err)
	}
	return Summarize(list), nil
}

// CloseRegisterInput is a closure request.
type CloseRegisterInput struct {
	Window     Window
	ActualCash types.Money
	Notes      string
	ActorID    string
}

// CloseRegisterResult holds the closure and its derived income record.
type CloseRegisterResult struct {
	Closure Closure `json:"closure"`
	Record  Record  `json:"record"`
}

// CloseRegister reconciles the window's sales against counted cash and
// stores the closure together with its income record.
func (s *Service) CloseRegister(ctx context.Context, ownerID id.ID, in CloseRegisterInput) (CloseRegisterResult, error) {
	if s.locker != nil {
		release, err := s.locker.Obtain(ctx, "closure:"+ownerID.String(), closureLockTTL)
		if err != nil {
			return CloseRegisterResult{}, err
		}
		defer release(context.WithoutCancel(ctx))
	}

	var res CloseRegisterResult
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		list, err := s.sales.SalesBetween(ctx, ownerID, in.Window.Start, in.Window.End)
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		c, err := Close(ownerID, list, in.Window, in.ActualCash, in.Notes, in.ActorID, s.now())
		if err != nil {
			return err
		}
		rec := c.ClosureRecord()
		if err := s.closures.Create(ctx, &c); err != nil {
			return fmt.Errorf("create closure: %w", err)
		}
		if err := s.records.Create(ctx, &rec); err != nil {
			return fmt.Errorf("create closure record: %w", err)
		}
		res = CloseRegisterResult{Closure: c, Record: rec}
		return nil
	})
	if err != nil {
		return CloseRegisterResult{}, err
	}

	s.notifier.Invalidate(ctx, ownerID)
	if !res.Closure.Difference.IsZero() {
		logger.Warn(ctx, "cash register difference",
			"closure_id", res.Closure.ID,
			"expected", res.Closure.ExpectedCash.StringFixed(types.MoneyScale),
			"actual", res.Closure.ActualCash.StringFixed(types.MoneyScale),
		)
	}
	logger.Info(ctx, "cash register closed",
		"closure_id", res.Closure.ID,
		"sales_count", res.Closure.SalesCount,
		"total", res.Closure.TotalSales.StringFixed(types.MoneyScale),
	)
	return res, nil
}

// ListClosures returns closures newest first.
func (s *Service) ListClosures(ctx context.Context, ownerID id.ID, page domain.Page) (domain.ListResult[Closure], error) {
	return s.closures.List(ctx, ownerID, page.Normalize(50, 500))
}

func checkRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return apperror.NewValidation("fromDate must be before toDate")
	}
	return nil
}
