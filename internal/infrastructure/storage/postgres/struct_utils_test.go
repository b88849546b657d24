package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/sales"
)

type auditFields struct {
	CreatedAt time.Time `db:"created_at"`
}

type embeddedRow struct {
	auditFields
	Name     string `db:"name"`
	Internal string `db:"-"`
	Ignored  string
}

func TestExtractDBColumns_Product(t *testing.T) {
	cols := ExtractDBColumns[inventory.Product]()

	assert.Equal(t, []string{
		"id", "owner_id", "name", "category", "unit_price", "stock", "min_stock",
		"supplier_ref", "last_restocked", "created_at", "updated_at",
	}, cols)
}

func TestExtractDBColumns_SkipsItems(t *testing.T) {
	cols := ExtractDBColumns[sales.Sale]()
	assert.NotContains(t, cols, "items")
	assert.Contains(t, cols, "total_amount")
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	assert.Equal(t, []string{"created_at", "name"}, ExtractDBColumns[embeddedRow]())
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	p := inventory.NewProduct(id.New(), "Flour", inventory.CategoryRawMaterial, types.MustMoney("0.80"), 12, 3, now)

	m := StructToMap(&p)

	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, "Flour", m["name"])
	assert.Equal(t, inventory.CategoryRawMaterial, m["category"])
	assert.Equal(t, int64(12), m["stock"])
	assert.Equal(t, now, m["last_restocked"])
	assert.Nil(t, m["supplier_ref"])
	assert.Len(t, m, 11)

	row := embeddedRow{auditFields: auditFields{CreatedAt: now}, Name: "x", Internal: "y"}
	assert.Equal(t, map[string]any{"created_at": now, "name": "x"}, StructToMap(row))

	assert.Nil(t, StructToMap(42))
}
