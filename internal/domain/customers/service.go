package customers

import (
	"context"
	"fmt"
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/pkg/logger"
)

// Service manages customers.
type Service struct {
	repo     Repository
	txm      tx.Manager
	notifier domain.ChangeNotifier
	now      func() time.Time
	region   string
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

// WithPhoneRegion sets the region national phone numbers are read in.
func WithPhoneRegion(region string) Option {
	return func(s *Service) { s.region = region }
}

// NewService creates a new customer service.
func NewService(repo Repository, txm tx.Manager, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		txm:      txm,
		notifier: domain.NopNotifier{},
		now:      func() time.Time { return time.Now().UTC() },
		region:   DefaultPhoneRegion,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input holds editable customer fields.
type Input struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (in Input) apply(c *Customer, region string) error {
	c.Name = in.Name
	c.Email = optional(in.Email)
	c.Phone = optional(in.Phone)
	c.Address = optional(in.Address)
	if c.Phone != nil {
		phone, err := NormalizePhone(*c.Phone, region)
		if err != nil {
			return err
		}
		c.Phone = &phone
	}
	return nil
}

// Create adds a customer with no purchase history.
func (s *Service) Create(ctx context.Context, ownerID id.ID, in Input) (*Customer, error) {
	c := &Customer{
		ID:             id.New(),
		OwnerID:        ownerID,
		TotalPurchases: types.Zero(),
		CreatedAt:      s.now(),
	}
	if err := in.apply(c, s.region); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	s.notifier.Invalidate(ctx, ownerID)
	logger.Info(ctx, "customer created", "customer_id", c.ID)
	return c, nil
}

// Update changes contact fields. Purchase totals are only changed by sales.
func (s *Service) Update(ctx context.Context, ownerID, customerID id.ID, in Input) (*Customer, error) {
	var out *Customer
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetForUpdate(ctx, ownerID, customerID)
		if err != nil {
			return err
		}
		if err := in.apply(c, s.region); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, c); err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a customer. Past sales keep their reference.
func (s *Service) Delete(ctx context.Context, ownerID, customerID id.ID) error {
	if err := s.repo.Delete(ctx, ownerID, customerID); err != nil {
		return err
	}
	s.notifier.Invalidate(ctx, ownerID)
	logger.Info(ctx, "customer deleted", "customer_id", customerID)
	return nil
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, ownerID, customerID id.ID) (*Customer, error) {
	return s.repo.Get(ctx, ownerID, customerID)
}

// List returns a filtered page of customers.
func (s *Service) List(ctx context.Context, ownerID id.ID, filter Filter) (domain.ListResult[Customer], error) {
	filter.Page = filter.Page.Normalize(100, 1000)
	return s.repo.List(ctx, ownerID, filter)
}

// Stats summarizes the owner's customer book.
func (s *Service) Stats(ctx context.Context, ownerID id.ID) (Stats, error) {
	list, err := s.repo.ListAll(ctx, ownerID)
	if err != nil {
		return Stats{}, fmt.Errorf("list customers: %w", err)
	}
	return ComputeStats(list), nil
}

// RecordPurchase books a sale amount on the customer. It must run inside
// the checkout transaction.
func (s *Service) RecordPurchase(ctx context.Context, ownerID, customerID id.ID, amount types.Money, at time.Time) (*Customer, error) {
	var out *Customer
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetForUpdate(ctx, ownerID, customerID)
		if err != nil {
			return err
		}
		before := c.Tier()
		c.RecordPurchase(amount, at)
		if err := s.repo.Update(ctx, c); err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		if after := c.Tier(); after != before {
			logger.Info(ctx, "customer tier changed", "customer_id", c.ID, "from", before, "to", after)
		}
		out = c
		return nil
	})
	return out, err
}
