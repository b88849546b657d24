package suppliers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

func newSupplier() *Supplier {
	return &Supplier{
		ID:               id.New(),
		OwnerID:          id.New(),
		Name:             "Mill",
		PaymentTermsDays: 30,
		Status:           StatusActive,
		TotalDebt:        types.Zero(),
		TotalCredit:      types.Zero(),
	}
}

func TestSupplier_Validate(t *testing.T) {
	email := "not-an-email"
	tests := []struct {
		name   string
		mutate func(s *Supplier)
		field  string
	}{
		{"blank name", func(s *Supplier) { s.Name = " " }, "name"},
		{"bad email", func(s *Supplier) { s.Email = &email }, "email"},
		{"unknown status", func(s *Supplier) { s.Status = "archived" }, "status"},
		{"terms too long", func(s *Supplier) { s.PaymentTermsDays = 400 }, "paymentTermsDays"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSupplier()
			tt.mutate(s)
			err := s.Validate()
			require.True(t, apperror.IsValidation(err))
			appErr, _ := apperror.AsAppError(err)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
	assert.NoError(t, newSupplier().Validate())
}

func TestSupplier_Balance(t *testing.T) {
	s := newSupplier()
	first := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	s.BookInvoice(types.MustMoney("100"), first)
	s.BookInvoice(types.MustMoney("50.25"), first.AddDate(0, 0, -3))
	require.NotNil(t, s.LastOrder)
	assert.Equal(t, first, *s.LastOrder, "older invoices do not move the last order back")

	require.NoError(t, s.AddCredit(types.MustMoney("20")))
	assert.True(t, s.Balance().Equal(types.MustMoney("-130.25")))

	s.SettleInvoice(types.MustMoney("100"))
	assert.True(t, s.TotalDebt.Equal(types.MustMoney("50.25")))

	assert.True(t, apperror.IsValidation(s.AddCredit(types.MustMoney("0"))))
	assert.True(t, apperror.IsValidation(s.AddCredit(types.MustMoney("1.005"))))
}

func TestNewInvoice(t *testing.T) {
	s := newSupplier()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	inv, err := NewInvoice(s, InvoiceInput{Number: " F-1 ", Amount: types.MustMoney("12.40")}, now)
	require.NoError(t, err)
	assert.Equal(t, "F-1", inv.Number)
	assert.Equal(t, now, inv.Date)
	assert.Equal(t, now.AddDate(0, 0, 30), inv.DueDate)
	assert.Equal(t, InvoicePending, inv.Status)
	assert.Equal(t, s.ID, inv.SupplierID)
	assert.Nil(t, inv.Notes)

	tests := []struct {
		name string
		in   InvoiceInput
	}{
		{"no number", InvoiceInput{Amount: types.MustMoney("1")}},
		{"zero amount", InvoiceInput{Number: "F-2", Amount: types.Zero()}},
		{"sub-cent amount", InvoiceInput{Number: "F-2", Amount: types.MustMoney("0.005")}},
		{"due before date", InvoiceInput{Number: "F-2", Amount: types.MustMoney("1"), Date: now, DueDate: now.AddDate(0, 0, -1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInvoice(s, tt.in, now)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestInvoice_StatusAndPay(t *testing.T) {
	due := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	inv := Invoice{Status: InvoicePending, DueDate: due}

	assert.Equal(t, InvoicePending, inv.EffectiveStatus(due))
	assert.Equal(t, InvoiceOverdue, inv.EffectiveStatus(due.Add(time.Second)))

	require.NoError(t, inv.Pay(due.AddDate(0, 0, 2)))
	assert.Equal(t, InvoicePaid, inv.EffectiveStatus(due.AddDate(0, 1, 0)))
	require.NotNil(t, inv.PaidAt)
	assert.True(t, apperror.IsInvalidTransition(inv.Pay(due)))
}

func TestComputeStats(t *testing.T) {
	a, b := newSupplier(), newSupplier()
	a.TotalDebt = types.MustMoney("40")
	b.Status = StatusInactive
	b.TotalCredit = types.MustMoney("15")

	st := ComputeStats([]Supplier{*a, *b})
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Active)
	assert.True(t, st.Balance.Equal(types.MustMoney("-25")))
}
