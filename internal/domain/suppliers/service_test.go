package suppliers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/finance"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/suppliers"
	"bizdesk/internal/infrastructure/storage/memory"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type env struct {
	store *memory.Store
	svc   *suppliers.Service
	fin   *finance.Service
	inv   *inventory.Service
}

func newEnv(opts ...suppliers.Option) env {
	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	clock := func() time.Time { return now }
	fin := finance.NewService(store.Records(), store.Closures(), nil, txm, finance.WithClock(clock))
	inv := inventory.NewService(store.Products(), store.StockEvents(), txm, inventory.NewLedger(inventory.PolicyClamp),
		inventory.WithSupplierChecker(suppliers.NewChecker(store.Suppliers())))
	opts = append([]suppliers.Option{
		suppliers.WithClock(clock),
		suppliers.WithProducts(store.Products()),
		suppliers.WithExpenses(fin),
	}, opts...)
	return env{
		store: store,
		svc:   suppliers.NewService(store.Suppliers(), store.SupplierInvoices(), txm, opts...),
		fin:   fin,
		inv:   inv,
	}
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := id.New()

	sup, err := e.svc.Create(ctx, owner, suppliers.Input{Name: "Mill", ContactPerson: "Jean", Phone: "(650) 253-0000"})
	require.NoError(t, err)
	assert.Equal(t, suppliers.StatusActive, sup.Status)
	assert.Equal(t, suppliers.DefaultPaymentTermsDays, sup.PaymentTermsDays)
	require.NotNil(t, sup.Phone)
	assert.Equal(t, "+16502530000", *sup.Phone)

	terms := 10
	updated, err := e.svc.Update(ctx, owner, sup.ID, suppliers.Input{Name: "Mill & Co", PaymentTermsDays: &terms, Status: suppliers.StatusInactive})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.PaymentTermsDays)
	assert.Equal(t, suppliers.StatusInactive, updated.Status)

	active := suppliers.StatusActive
	list, err := e.svc.List(ctx, owner, suppliers.Filter{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.TotalCount)

	list, err = e.svc.List(ctx, owner, suppliers.Filter{Search: "jean"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)

	_, err = e.svc.Get(ctx, id.New(), sup.ID)
	assert.True(t, apperror.IsNotFound(err))

	require.NoError(t, e.svc.Delete(ctx, owner, sup.ID))
	_, err = e.svc.Get(ctx, owner, sup.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_ProductSupplierRef(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := id.New()

	unknown := id.New()
	_, err := e.inv.CreateProduct(ctx, owner, inventory.CreateProductInput{
		Name: "Flour", Category: inventory.CategoryRawMaterial, UnitPrice: types.MustMoney("18.90"), SupplierRef: &unknown,
	})
	require.True(t, apperror.IsValidation(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "supplierRef", appErr.Details["field"])

	sup, err := e.svc.Create(ctx, owner, suppliers.Input{Name: "Mill"})
	require.NoError(t, err)
	_, err = e.inv.CreateProduct(ctx, id.New(), inventory.CreateProductInput{
		Name: "Flour", Category: inventory.CategoryRawMaterial, UnitPrice: types.MustMoney("18.90"), SupplierRef: &sup.ID,
	})
	assert.True(t, apperror.IsValidation(err), "suppliers of other owners are unknown")

	p, err := e.inv.CreateProduct(ctx, owner, inventory.CreateProductInput{
		Name: "Flour", Category: inventory.CategoryRawMaterial, UnitPrice: types.MustMoney("18.90"), SupplierRef: &sup.ID,
	})
	require.NoError(t, err)

	err = e.svc.Delete(ctx, owner, sup.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))

	_, err = e.inv.UpdateProduct(ctx, owner, p.ID, inventory.UpdateProductInput{
		Name: "Flour", Category: inventory.CategoryRawMaterial, UnitPrice: types.MustMoney("18.90"),
	})
	require.NoError(t, err)
	require.NoError(t, e.svc.Delete(ctx, owner, sup.ID))
}

func TestService_InvoiceLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := id.New()

	sup, err := e.svc.Create(ctx, owner, suppliers.Input{Name: "Mill"})
	require.NoError(t, err)

	inv, err := e.svc.RecordInvoice(ctx, owner, sup.ID, suppliers.InvoiceInput{Number: "F-1", Amount: types.MustMoney("94.50"), Date: now})
	require.NoError(t, err)
	_, err = e.svc.RecordInvoice(ctx, owner, sup.ID, suppliers.InvoiceInput{Number: "F-1", Amount: types.MustMoney("3")})
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))

	got, err := e.svc.Get(ctx, owner, sup.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalDebt.Equal(types.MustMoney("94.50")), "a rejected invoice leaves the debt alone")
	require.NotNil(t, got.LastOrder)
	assert.Equal(t, now, *got.LastOrder)

	assert.True(t, apperror.HasCode(e.svc.Delete(ctx, owner, sup.ID), apperror.CodeConflict))

	paid, err := e.svc.PayInvoice(ctx, owner, inv.ID, suppliers.PaymentInput{})
	require.NoError(t, err)
	assert.Equal(t, suppliers.InvoicePaid, paid.Status)
	_, err = e.svc.PayInvoice(ctx, owner, inv.ID, suppliers.PaymentInput{})
	assert.True(t, apperror.IsInvalidTransition(err))

	got, err = e.svc.Get(ctx, owner, sup.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalDebt.IsZero())

	records, err := e.fin.ListRecords(ctx, owner, finance.RecordFilter{Category: finance.CategorySuppliers})
	require.NoError(t, err)
	require.Len(t, records.Items, 1)
	assert.Equal(t, finance.KindExpense, records.Items[0].Kind)
	assert.True(t, records.Items[0].Amount.Equal(types.MustMoney("94.50")))

	terms := 30
	_, err = e.svc.Update(ctx, owner, sup.ID, suppliers.Input{Name: "Mill", PaymentTermsDays: &terms, Status: suppliers.StatusInactive})
	require.NoError(t, err)
	_, err = e.svc.RecordInvoice(ctx, owner, sup.ID, suppliers.InvoiceInput{Number: "F-2", Amount: types.MustMoney("1")})
	assert.True(t, apperror.IsValidation(err), "inactive suppliers take no new invoices")
}

func TestService_PayFromCredit(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := id.New()

	sup, err := e.svc.Create(ctx, owner, suppliers.Input{Name: "Mill"})
	require.NoError(t, err)
	inv, err := e.svc.RecordInvoice(ctx, owner, sup.ID, suppliers.InvoiceInput{Number: "F-1", Amount: types.MustMoney("30")})
	require.NoError(t, err)

	_, err = e.svc.AddCredit(ctx, owner, sup.ID, types.MustMoney("20"))
	require.NoError(t, err)
	_, err = e.svc.PayInvoice(ctx, owner, inv.ID, suppliers.PaymentInput{UseCredit: true})
	assert.True(t, apperror.IsValidation(err))

	stored, err := e.svc.ListInvoices(ctx, owner, suppliers.InvoiceFilter{SupplierID: &sup.ID})
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, suppliers.InvoicePending, stored.Items[0].Status)

	_, err = e.svc.AddCredit(ctx, owner, sup.ID, types.MustMoney("15"))
	require.NoError(t, err)
	_, err = e.svc.PayInvoice(ctx, owner, inv.ID, suppliers.PaymentInput{UseCredit: true})
	require.NoError(t, err)

	got, err := e.svc.Get(ctx, owner, sup.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalCredit.Equal(types.MustMoney("5")))
	assert.True(t, got.TotalDebt.IsZero())
	assert.True(t, got.Balance().Equal(types.MustMoney("5")))

	records, err := e.fin.ListRecords(ctx, owner, finance.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, records.Items, "credit payments book no expense")
}

type failingExpenses struct{}

func (failingExpenses) AddRecord(context.Context, id.ID, finance.RecordInput) (*finance.Record, error) {
	return nil, errors.New("journal unavailable")
}

func TestService_PayRollsBackWhenExpenseFails(t *testing.T) {
	ctx := context.Background()
	e := newEnv(suppliers.WithExpenses(failingExpenses{}))
	owner := id.New()

	sup, err := e.svc.Create(ctx, owner, suppliers.Input{Name: "Mill"})
	require.NoError(t, err)
	inv, err := e.svc.RecordInvoice(ctx, owner, sup.ID, suppliers.InvoiceInput{Number: "F-1", Amount: types.MustMoney("12")})
	require.NoError(t, err)

	_, err = e.svc.PayInvoice(ctx, owner, inv.ID, suppliers.PaymentInput{})
	require.Error(t, err)

	got, err := e.svc.Get(ctx, owner, sup.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalDebt.Equal(types.MustMoney("12")))
	pending := suppliers.InvoicePending
	list, err := e.svc.ListInvoices(ctx, owner, suppliers.InvoiceFilter{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
}

func TestService_ListOverdueInvoices(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := id.New()

	sup, err := e.svc.Create(ctx, owner, suppliers.Input{Name: "Mill"})
	require.NoError(t, err)
	_, err = e.svc.RecordInvoice(ctx, owner, sup.ID, suppliers.InvoiceInput{
		Number: "late", Amount: types.MustMoney("5"), Date: now.AddDate(0, -2, 0),
	})
	require.NoError(t, err)
	_, err = e.svc.RecordInvoice(ctx, owner, sup.ID, suppliers.InvoiceInput{Number: "fresh", Amount: types.MustMoney("5"), Date: now})
	require.NoError(t, err)

	overdue := suppliers.InvoiceOverdue
	list, err := e.svc.ListInvoices(ctx, owner, suppliers.InvoiceFilter{Status: &overdue})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "late", list.Items[0].Number)
	assert.Equal(t, suppliers.InvoiceOverdue, list.Items[0].EffectiveStatus(now))
}
