package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/inventory"
)

// CreateProductRequest for POST /products.
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Category    string          `json:"category" binding:"required,oneof=raw_material sale_item"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Stock       int64           `json:"stock" binding:"min=0"`
	MinStock    int64           `json:"minStock" binding:"min=0"`
	SupplierRef string          `json:"supplierRef" binding:"omitempty,uuid"`
}

// ToInput converts to the service input.
func (r CreateProductRequest) ToInput() inventory.CreateProductInput {
	return inventory.CreateProductInput{
		Name:        r.Name,
		Category:    inventory.Category(r.Category),
		UnitPrice:   r.UnitPrice,
		Stock:       r.Stock,
		MinStock:    r.MinStock,
		SupplierRef: optionalID(r.SupplierRef),
	}
}

// UpdateProductRequest for PUT /products/:id. Stock changes only through
// stock events.
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Category    string          `json:"category" binding:"required,oneof=raw_material sale_item"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	MinStock    int64           `json:"minStock" binding:"min=0"`
	SupplierRef string          `json:"supplierRef" binding:"omitempty,uuid"`
}

// ToInput converts to the service input.
func (r UpdateProductRequest) ToInput() inventory.UpdateProductInput {
	return inventory.UpdateProductInput{
		Name:        r.Name,
		Category:    inventory.Category(r.Category),
		UnitPrice:   r.UnitPrice,
		MinStock:    r.MinStock,
		SupplierRef: optionalID(r.SupplierRef),
	}
}

// ProductListQuery for GET /products.
type ProductListQuery struct {
	Category   string `form:"category" binding:"omitempty,oneof=raw_material sale_item"`
	LowStock   bool   `form:"lowStock"`
	SupplierID string `form:"supplierId" binding:"omitempty,uuid"`
	Search     string `form:"search"`
	PageQuery
}

// ToFilter converts to the repository filter.
func (q ProductListQuery) ToFilter() inventory.ProductFilter {
	f := inventory.ProductFilter{
		LowStockOnly: q.LowStock,
		SupplierID:   optionalID(q.SupplierID),
		Search:       q.Search,
		Page:         q.ToPage(),
	}
	if q.Category != "" {
		c := inventory.Category(q.Category)
		f.Category = &c
	}
	return f
}

// StockEventRequest for POST /stock/events.
type StockEventRequest struct {
	ProductID   string     `json:"productId" binding:"required,uuid"`
	Kind        string     `json:"kind" binding:"required,stock_kind"`
	Quantity    int64      `json:"quantity"`
	Reason      string     `json:"reason" binding:"required,stock_reason"`
	Description string     `json:"description" binding:"max=500"`
	Timestamp   *time.Time `json:"timestamp"`
}

// ToInput converts to the service input. Quantity is checked by the ledger
// so that zero and negative values report INVALID_QUANTITY.
func (r StockEventRequest) ToInput(actorID string) inventory.StockEventInput {
	in := inventory.StockEventInput{
		ProductID:   id.MustParse(r.ProductID),
		Kind:        inventory.Kind(r.Kind),
		Quantity:    r.Quantity,
		Reason:      inventory.Reason(r.Reason),
		Description: r.Description,
		ActorID:     actorID,
	}
	if r.Timestamp != nil {
		in.Timestamp = *r.Timestamp
	}
	return in
}

// StockEventListQuery for GET /stock/events.
type StockEventListQuery struct {
	ProductID string `form:"productId" binding:"omitempty,uuid"`
	Kind      string `form:"kind" binding:"omitempty,stock_kind"`
	DateRangeQuery
	PageQuery
}

// ToFilter converts to the repository filter.
func (q StockEventListQuery) ToFilter() inventory.EventFilter {
	f := inventory.EventFilter{
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Page:     q.ToPage(),
	}
	if q.ProductID != "" {
		pid := id.MustParse(q.ProductID)
		f.ProductID = &pid
	}
	if q.Kind != "" {
		k := inventory.Kind(q.Kind)
		f.Kind = &k
	}
	return f
}

// ReasonsResponse lists the reasons accepted per kind.
type ReasonsResponse struct {
	Entry []inventory.Reason `json:"entry"`
	Exit  []inventory.Reason `json:"exit"`
}
