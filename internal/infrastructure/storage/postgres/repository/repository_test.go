package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/journal"
	"bizdesk/internal/domain/sales"
	"bizdesk/internal/domain/suppliers"
)

const productColumns = "id, owner_id, name, category, unit_price, stock, min_stock, supplier_ref, last_restocked, created_at, updated_at"

// squirrel.Eq hands ids to the driver through uuid.UUID.Value, so they
// appear as strings in the built args.
var owner = id.MustParse("018f0000-0000-7000-8000-000000000001")

func TestProductRepo_Filtered(t *testing.T) {
	repo := NewProductRepo(nil)
	category := inventory.CategorySaleItem
	supplier := id.MustParse("018f0000-0000-7000-8000-0000000000aa")

	tests := []struct {
		name     string
		filter   inventory.ProductFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "owner only",
			filter:   inventory.ProductFilter{},
			wantSQL:  "SELECT " + productColumns + " FROM products WHERE owner_id = $1",
			wantArgs: []any{owner.String()},
		},
		{
			name:   "category and search",
			filter: inventory.ProductFilter{Category: &category, Search: "bread"},
			wantSQL: "SELECT " + productColumns + " FROM products WHERE owner_id = $1" +
				" AND category = $2 AND name ILIKE $3",
			wantArgs: []any{owner.String(), category, "%bread%"},
		},
		{
			name:     "low stock",
			filter:   inventory.ProductFilter{LowStockOnly: true},
			wantSQL:  "SELECT " + productColumns + " FROM products WHERE owner_id = $1 AND stock <= min_stock",
			wantArgs: []any{owner.String()},
		},
		{
			name:     "supplier",
			filter:   inventory.ProductFilter{SupplierID: &supplier},
			wantSQL:  "SELECT " + productColumns + " FROM products WHERE owner_id = $1 AND supplier_ref = $2",
			wantArgs: []any{owner.String(), supplier.String()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.filtered(owner, tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBaseRepo_GetQueryLocks(t *testing.T) {
	repo := NewProductRepo(nil)
	productID := id.New()

	sql, args, err := repo.getQuery(owner, productID, true).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT "+productColumns+" FROM products WHERE owner_id = $1 AND id = $2 LIMIT 1 FOR UPDATE", sql)
	assert.Equal(t, []any{owner.String(), productID.String()}, args)

	sql, _, err = repo.getQuery(owner, productID, false).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "FOR UPDATE")
}

func TestProductRepo_UpdateStockTouchesStockOnly(t *testing.T) {
	repo := NewProductRepo(nil)
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	p := &inventory.Product{ID: id.New(), OwnerID: owner, Name: "Bread", Stock: 7, LastRestocked: now, UpdatedAt: now}

	sql, args, err := repo.updateQuery(p, p.OwnerID, p.ID, "stock", "last_restocked", "updated_at").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE products SET stock = $1, last_restocked = $2, updated_at = $3 WHERE id = $4 AND owner_id = $5", sql)
	assert.Equal(t, []any{int64(7), now, now, p.ID.String(), owner.String()}, args)
}

func TestEventRepo_FilteredRange(t *testing.T) {
	repo := NewEventRepo(nil)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	kind := inventory.KindExit

	sql, args, err := repo.filtered(owner, inventory.EventFilter{Kind: &kind, FromDate: &from, ToDate: &to}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE owner_id = $1 AND kind = $2 AND timestamp >= $3 AND timestamp < $4")
	assert.Equal(t, []any{owner.String(), kind, from, to}, args)
}

func TestEventRepo_CopyRowsFollowColumns(t *testing.T) {
	repo := NewEventRepo(nil)
	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	productID := id.New()
	events := []inventory.StockEvent{
		inventory.NewStockEvent(owner, productID, inventory.KindExit, 2, inventory.ReasonSale, "sale 1", at, "cashier"),
		inventory.NewStockEvent(owner, productID, inventory.KindExit, 1, inventory.ReasonSale, "", at, "cashier"),
	}

	require.Equal(t, []string{"id", "owner_id", "product_id", "kind", "quantity", "reason", "description", "timestamp", "actor_id"}, repo.cols)
	rows := repo.copyRows(events)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{events[0].ID, owner, productID, inventory.KindExit, int64(2), inventory.ReasonSale, events[0].Description, at, "cashier"}, rows[0])
	assert.Nil(t, rows[1][6])
}

func TestSaleRepo_SearchMatchesItems(t *testing.T) {
	repo := NewSaleRepo(nil)

	sql, args, err := repo.filtered(owner, sales.Filter{Search: "coffee"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "(customer_name ILIKE $2 OR EXISTS (SELECT 1 FROM sale_items si WHERE si.sale_id = sales.id AND si.product_name ILIKE $3))")
	assert.Equal(t, []any{owner.String(), "%coffee%", "%coffee%"}, args)
	assert.NotContains(t, sql, "JOIN", "line matches must not duplicate sales")
}

func TestSaleItemsInsert_NumbersLines(t *testing.T) {
	s := &sales.Sale{
		ID: id.New(),
		Items: []sales.LineItem{
			{ProductID: id.New(), ProductName: "Bread", Quantity: 2, UnitPrice: types.MustMoney("1.50"), LineTotal: types.MustMoney("3.00")},
			{ProductID: id.New(), ProductName: "Coffee", Quantity: 1, UnitPrice: types.MustMoney("2.00"), LineTotal: types.MustMoney("2.00")},
		},
	}

	sql, args, err := saleItemsInsert(s).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO sale_items (sale_id,line_no,product_id,product_name,quantity,unit_price,line_total) "+
		"VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)", sql)
	require.Len(t, args, 14)
	assert.Equal(t, 1, args[1])
	assert.Equal(t, 2, args[8])
	assert.Equal(t, "Coffee", args[10])
}

func TestInvoiceRepo_FilteredDue(t *testing.T) {
	repo := NewInvoiceRepo(nil)
	supplier := id.MustParse("018f0000-0000-7000-8000-0000000000bb")
	status := suppliers.InvoicePending
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	sql, args, err := repo.filtered(owner, suppliers.InvoiceFilter{SupplierID: &supplier, Status: &status, DueBefore: &due}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM supplier_invoices WHERE owner_id = $1 AND supplier_id = $2 AND status = $3 AND due_date < $4")
	assert.Equal(t, []any{owner.String(), supplier.String(), status, due}, args)
}

func TestSupplierRepo_UpdateWritesBalances(t *testing.T) {
	repo := NewSupplierRepo(nil)
	s := &suppliers.Supplier{ID: id.New(), OwnerID: owner, Name: "Mill", Status: suppliers.StatusActive,
		TotalDebt: types.MustMoney("120.50"), TotalCredit: types.Zero()}

	sql, args, err := repo.updateQuery(s, s.OwnerID, s.ID,
		"name", "total_debt", "total_credit").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE suppliers SET name = $1, total_debt = $2, total_credit = $3 WHERE id = $4 AND owner_id = $5", sql)
	assert.Equal(t, "Mill", args[0])
	assert.True(t, types.MustMoney("120.50").Equal(args[1].(types.Money)))
}

func TestJournalRepo_SearchTitleOrContent(t *testing.T) {
	repo := NewJournalRepo(nil)
	category := journal.CategoryIdeas

	sql, args, err := repo.filtered(owner, journal.Filter{Category: &category, Search: "oven"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE owner_id = $1 AND category = $2 AND (title ILIKE $3 OR content ILIKE $4)")
	assert.Equal(t, []any{owner.String(), category, "%oven%", "%oven%"}, args)
}

func TestPaginate(t *testing.T) {
	repo := NewCustomerRepo(nil)

	sql, _, err := paginate(repo.selectQuery(owner).OrderBy("lower(name)"), domain.Page{Limit: 20, Offset: 40}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY lower(name) LIMIT 20 OFFSET 40")

	sql, _, err = paginate(repo.selectQuery(owner), domain.Page{}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "LIMIT")
}
