package sales

import (
	"context"
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
)

// Repository persists sales with their line items. Every call is scoped by owner.
type Repository interface {
	// Create stores the sale and its items.
	Create(ctx context.Context, s *Sale) error

	// UpdateStatus writes status and updated_at only.
	UpdateStatus(ctx context.Context, s *Sale) error

	Get(ctx context.Context, ownerID, saleID id.ID) (*Sale, error)

	// GetForUpdate locks the sale row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, ownerID, saleID id.ID) (*Sale, error)

	// List returns sales newest first.
	List(ctx context.Context, ownerID id.ID, filter Filter) (domain.ListResult[Sale], error)

	// ListBetween returns all sales with from <= timestamp < to, oldest first.
	ListBetween(ctx context.Context, ownerID id.ID, from, to time.Time) ([]Sale, error)

	ListAll(ctx context.Context, ownerID id.ID) ([]Sale, error)
}

// Filter narrows sale lists. Search matches the customer name or any product name.
type Filter struct {
	FromDate      *time.Time
	ToDate        *time.Time
	Status        *FulfillmentStatus
	PaymentMethod *PaymentMethod
	CustomerID    *id.ID
	Search        string
	domain.Page
}

// Match reports whether s passes the filter (pagination aside).
func (f Filter) Match(s *Sale) bool {
	if f.FromDate != nil && s.Timestamp.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && !s.Timestamp.Before(*f.ToDate) {
		return false
	}
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.PaymentMethod != nil && s.PaymentMethod != *f.PaymentMethod {
		return false
	}
	if f.CustomerID != nil && (s.CustomerID == nil || *s.CustomerID != *f.CustomerID) {
		return false
	}
	if f.Search != "" {
		if domain.ContainsFold(s.CustomerName, f.Search) {
			return true
		}
		for _, it := range s.Items {
			if domain.ContainsFold(it.ProductName, f.Search) {
				return true
			}
		}
		return false
	}
	return true
}
