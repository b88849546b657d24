package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

var (
	testOwner = id.MustParse("0190a5b8-0000-7000-8000-0000000000f1")
	testNow   = time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)
)

func TestNewRecord(t *testing.T) {
	r, err := NewRecord(testOwner, RecordInput{
		Kind: KindIncome, Amount: types.MustMoney("40"), Description: "  catering  ",
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, CategorySales, r.Category)
	assert.Equal(t, "catering", r.Description)
	assert.Equal(t, testNow, r.Date)
	assert.Nil(t, r.Receipt)

	r, err = NewRecord(testOwner, RecordInput{
		Kind: KindExpense, Amount: types.MustMoney("12.30"), Description: "gas", Receipt: "R-17",
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, CategoryGeneral, r.Category)
	require.NotNil(t, r.Receipt)

	for _, in := range []RecordInput{
		{Kind: "transfer", Amount: types.MustMoney("1"), Description: "x"},
		{Kind: KindIncome, Amount: types.Zero(), Description: "x"},
		{Kind: KindIncome, Amount: types.MustMoney("-3"), Description: "x"},
		{Kind: KindIncome, Amount: types.MustMoney("3"), Description: " "},
		{Kind: KindExpense, Amount: types.MustMoney("0.005"), Description: "x"},
	} {
		_, err := NewRecord(testOwner, in, testNow)
		assert.True(t, apperror.IsValidation(err), "input %+v", in)
	}
}

func rec(kind RecordKind, category, amount string) Record {
	return Record{Kind: kind, Category: category, Amount: types.MustMoney(amount)}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Record{
		rec(KindIncome, CategorySales, "100"),
		rec(KindIncome, "Catering", "40"),
		rec(KindIncome, CategorySales, "20.50"),
		rec(KindExpense, "Rent", "80"),
		rec(KindExpense, "Flour", "15"),
	})

	assert.True(t, s.Income.Equal(types.MustMoney("160.50")))
	assert.True(t, s.Expense.Equal(types.MustMoney("95")))
	assert.True(t, s.Net.Equal(types.MustMoney("65.50")))
	assert.Equal(t, 5, s.Count)

	require.Len(t, s.IncomeByCategory, 2)
	assert.Equal(t, CategorySales, s.IncomeByCategory[0].Category)
	assert.Equal(t, 2, s.IncomeByCategory[0].Count)
	assert.Equal(t, "Rent", s.ExpenseByCategory[0].Category)
}

func TestSummarize_BalancedIsZero(t *testing.T) {
	s := Summarize([]Record{
		rec(KindIncome, CategorySales, "10.10"),
		rec(KindIncome, CategorySales, "4.90"),
		rec(KindExpense, "Rent", "15.00"),
	})
	assert.True(t, s.Net.IsZero(), "got %s", s.Net)

	empty := Summarize(nil)
	assert.True(t, empty.Net.IsZero())
	assert.Empty(t, empty.IncomeByCategory)
}
