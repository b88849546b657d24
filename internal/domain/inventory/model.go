// Package inventory holds the product catalog and the stock ledger.
//
// Stock levels change only through StockEvents applied by the Ledger.
// The Ledger itself is pure: it takes a catalog and returns a new one,
// leaving persistence to Service.
package inventory

import (
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

// Category classifies products.
type Category string

const (
	// CategoryRawMaterial is consumed by production.
	CategoryRawMaterial Category = "raw_material"
	// CategorySaleItem is sold to customers.
	CategorySaleItem Category = "sale_item"
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	return c == CategoryRawMaterial || c == CategorySaleItem
}

// Product is a catalog entry with its current stock level.
type Product struct {
	ID            id.ID       `db:"id" json:"id"`
	OwnerID       id.ID       `db:"owner_id" json:"ownerId"`
	Name          string      `db:"name" json:"name"`
	Category      Category    `db:"category" json:"category"`
	UnitPrice     types.Money `db:"unit_price" json:"unitPrice"`
	Stock         int64       `db:"stock" json:"stock"`
	MinStock      int64       `db:"min_stock" json:"minStock"`
	SupplierRef   *id.ID      `db:"supplier_ref" json:"supplierRef,omitempty"`
	LastRestocked time.Time   `db:"last_restocked" json:"lastRestocked"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// NewProduct creates a product with a generated ID. The initial stock
// counts as the first restock.
func NewProduct(ownerID id.ID, name string, category Category, unitPrice types.Money, stock, minStock int64, now time.Time) Product {
	return Product{
		ID:            id.New(),
		OwnerID:       ownerID,
		Name:          strings.TrimSpace(name),
		Category:      category,
		UnitPrice:     unitPrice,
		Stock:         stock,
		MinStock:      minStock,
		LastRestocked: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks product invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !p.Category.IsValid() {
		return apperror.NewValidation("unknown category").
			WithDetail("field", "category").
			WithDetail("value", p.Category)
	}
	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").WithDetail("field", "unitPrice")
	}
	if !types.FitsScale(p.UnitPrice) {
		return apperror.NewValidation("unit price has more than two decimal places").WithDetail("field", "unitPrice")
	}
	if p.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").WithDetail("field", "stock")
	}
	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative").WithDetail("field", "minStock")
	}
	return nil
}

// IsLowStock reports stock at or below the configured minimum.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// IsOutOfStock reports an empty stock.
func (p *Product) IsOutOfStock() bool {
	return p.Stock == 0
}

// StockValue is the value of the stock on hand at unit price.
func (p *Product) StockValue() types.Money {
	return types.MulQty(p.UnitPrice, p.Stock)
}

// Summary aggregates the catalog for the inventory overview.
type Summary struct {
	ProductCount int         `json:"productCount"`
	TotalValue   types.Money `json:"totalValue"`
	LowStock     []Product   `json:"lowStock"`
	OutOfStock   []Product   `json:"outOfStock"`
}

// Summarize computes the inventory overview.
func Summarize(products []Product) Summary {
	s := Summary{
		ProductCount: len(products),
		TotalValue:   types.Zero(),
		LowStock:     []Product{},
		OutOfStock:   []Product{},
	}
	for i := range products {
		p := &products[i]
		s.TotalValue = s.TotalValue.Add(p.StockValue())
		if p.IsLowStock() {
			s.LowStock = append(s.LowStock, *p)
		}
		if p.IsOutOfStock() {
			s.OutOfStock = append(s.OutOfStock, *p)
		}
	}
	return s
}
