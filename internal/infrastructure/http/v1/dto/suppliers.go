package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"bizdesk/internal/domain/suppliers"
)

// SupplierRequest for POST /suppliers and PUT /suppliers/:id.
// Email and phone formats are checked by the domain.
type SupplierRequest struct {
	Name             string `json:"name" binding:"required,max=200"`
	ContactPerson    string `json:"contactPerson" binding:"max=200"`
	Email            string `json:"email" binding:"max=200"`
	Phone            string `json:"phone" binding:"max=50"`
	Address          string `json:"address" binding:"max=500"`
	PaymentTermsDays *int   `json:"paymentTermsDays" binding:"omitempty,min=0,max=365"`
	Status           string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ToInput converts to the service input.
func (r SupplierRequest) ToInput() suppliers.Input {
	return suppliers.Input{
		Name:             r.Name,
		ContactPerson:    r.ContactPerson,
		Email:            r.Email,
		Phone:            r.Phone,
		Address:          r.Address,
		PaymentTermsDays: r.PaymentTermsDays,
		Status:           suppliers.Status(r.Status),
	}
}

// SupplierListQuery for GET /suppliers.
type SupplierListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search string `form:"search"`
	PageQuery
}

// ToFilter converts to the repository filter.
func (q SupplierListQuery) ToFilter() suppliers.Filter {
	f := suppliers.Filter{Search: q.Search, Page: q.ToPage()}
	if q.Status != "" {
		st := suppliers.Status(q.Status)
		f.Status = &st
	}
	return f
}

// SupplierResponse adds the derived balance to a supplier.
type SupplierResponse struct {
	*suppliers.Supplier
	Balance decimal.Decimal `json:"balance"`
}

// NewSupplierResponse wraps s.
func NewSupplierResponse(s *suppliers.Supplier) SupplierResponse {
	return SupplierResponse{Supplier: s, Balance: s.Balance()}
}

// InvoiceRequest for POST /suppliers/:id/invoices.
type InvoiceRequest struct {
	Number  string          `json:"number" binding:"required,max=100"`
	Date    *time.Time      `json:"date"`
	DueDate *time.Time      `json:"dueDate"`
	Amount  decimal.Decimal `json:"amount"`
	Notes   string          `json:"notes" binding:"max=1000"`
}

// ToInput converts to the service input.
func (r InvoiceRequest) ToInput() suppliers.InvoiceInput {
	in := suppliers.InvoiceInput{Number: r.Number, Amount: r.Amount, Notes: r.Notes}
	if r.Date != nil {
		in.Date = *r.Date
	}
	if r.DueDate != nil {
		in.DueDate = *r.DueDate
	}
	return in
}

// InvoiceListQuery for GET /supplier-invoices and GET /suppliers/:id/invoices.
type InvoiceListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending paid overdue"`
	PageQuery
}

// ToFilter converts to the repository filter.
func (q InvoiceListQuery) ToFilter() suppliers.InvoiceFilter {
	f := suppliers.InvoiceFilter{Page: q.ToPage()}
	if q.Status != "" {
		st := suppliers.InvoiceStatus(q.Status)
		f.Status = &st
	}
	return f
}

// PaymentRequest for POST /supplier-invoices/:id/pay.
type PaymentRequest struct {
	UseCredit bool       `json:"useCredit"`
	Date      *time.Time `json:"date"`
}

// ToInput converts to the service input.
func (r PaymentRequest) ToInput() suppliers.PaymentInput {
	in := suppliers.PaymentInput{UseCredit: r.UseCredit}
	if r.Date != nil {
		in.Date = *r.Date
	}
	return in
}

// CreditRequest for POST /suppliers/:id/credit.
type CreditRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
