package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/inventory"
)

// ProductRepo implements inventory.ProductRepository.
type ProductRepo struct {
	s *Store
}

var _ inventory.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *inventory.Product) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.products[p.ID]; ok {
		return apperror.NewDuplicate("product", "id", p.ID.String())
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Update(ctx context.Context, p *inventory.Product) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.products[p.ID]
	if !ok || cur.OwnerID != p.OwnerID {
		return apperror.NewNotFound("product", p.ID.String())
	}
	cur.Name = p.Name
	cur.Category = p.Category
	cur.UnitPrice = p.UnitPrice
	cur.MinStock = p.MinStock
	cur.SupplierRef = p.SupplierRef
	cur.UpdatedAt = p.UpdatedAt
	r.s.products[p.ID] = cur
	return nil
}

func (r *ProductRepo) UpdateStock(ctx context.Context, p *inventory.Product) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.products[p.ID]
	if !ok || cur.OwnerID != p.OwnerID {
		return apperror.NewNotFound("product", p.ID.String())
	}
	cur.Stock = p.Stock
	cur.LastRestocked = p.LastRestocked
	cur.UpdatedAt = p.UpdatedAt
	r.s.products[p.ID] = cur
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, ownerID, productID id.ID) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.products[productID]
	if !ok || cur.OwnerID != ownerID {
		return apperror.NewNotFound("product", productID.String())
	}
	delete(r.s.products, productID)
	return nil
}

func (r *ProductRepo) Get(_ context.Context, ownerID, productID id.ID) (*inventory.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[productID]
	if !ok || p.OwnerID != ownerID {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return &p, nil
}

// GetForUpdate is Get: TxManager already serializes transactions.
func (r *ProductRepo) GetForUpdate(ctx context.Context, ownerID, productID id.ID) (*inventory.Product, error) {
	return r.Get(ctx, ownerID, productID)
}

func (r *ProductRepo) List(ctx context.Context, ownerID id.ID, filter inventory.ProductFilter) (domain.ListResult[inventory.Product], error) {
	all, _ := r.ListAll(ctx, ownerID)
	out := slices.DeleteFunc(all, func(p inventory.Product) bool { return !filter.MatchProduct(&p) })
	return domain.Paginate(out, filter.Page), nil
}

func (r *ProductRepo) ListAll(_ context.Context, ownerID id.ID) ([]inventory.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]inventory.Product, 0)
	for _, p := range r.s.products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b inventory.Product) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return out, nil
}

// EventRepo implements inventory.EventRepository.
type EventRepo struct {
	s *Store
}

var _ inventory.EventRepository = (*EventRepo)(nil)

func (r *EventRepo) Append(ctx context.Context, events ...inventory.StockEvent) error {
	defer r.s.lock(ctx)()
	r.s.events = append(r.s.events, events...)
	return nil
}

func (r *EventRepo) List(_ context.Context, ownerID id.ID, filter inventory.EventFilter) (domain.ListResult[inventory.StockEvent], error) {
	r.s.mu.RLock()
	out := make([]inventory.StockEvent, 0)
	for _, e := range r.s.events {
		if e.OwnerID == ownerID && filter.MatchEvent(&e) {
			out = append(out, e)
		}
	}
	r.s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b inventory.StockEvent) int {
		return cmp.Or(
			b.Timestamp.Compare(a.Timestamp),
			strings.Compare(b.ID.String(), a.ID.String()),
		)
	})
	return domain.Paginate(out, filter.Page), nil
}
