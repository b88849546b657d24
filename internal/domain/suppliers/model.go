// Package suppliers manages the supplier book, supplier invoices and the
// debt and credit balance kept with each supplier.
package suppliers

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

// Status marks whether new invoices may be booked against a supplier.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// DefaultPaymentTermsDays applies when a supplier is created without terms.
const DefaultPaymentTermsDays = 30

var validate = validator.New()

// Supplier is an entry of the supplier book.
//
// TotalDebt is what the owner still has to pay on open invoices. TotalCredit
// is prepayments and credit notes the supplier holds for the owner.
type Supplier struct {
	ID               id.ID       `db:"id" json:"id"`
	OwnerID          id.ID       `db:"owner_id" json:"ownerId"`
	Name             string      `db:"name" json:"name"`
	ContactPerson    *string     `db:"contact_person" json:"contactPerson,omitempty"`
	Email            *string     `db:"email" json:"email,omitempty"`
	Phone            *string     `db:"phone" json:"phone,omitempty"`
	Address          *string     `db:"address" json:"address,omitempty"`
	PaymentTermsDays int         `db:"payment_terms_days" json:"paymentTermsDays"`
	Status           Status      `db:"status" json:"status"`
	TotalDebt        types.Money `db:"total_debt" json:"totalDebt"`
	TotalCredit      types.Money `db:"total_credit" json:"totalCredit"`
	LastOrder        *time.Time  `db:"last_order" json:"lastOrder,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updatedAt"`
}

// Balance is credit minus debt. Negative means the owner owes the supplier.
func (s *Supplier) Balance() types.Money {
	return s.TotalCredit.Sub(s.TotalDebt)
}

// Validate checks supplier fields.
func (s *Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if s.Email != nil {
		if err := validate.Var(*s.Email, "email"); err != nil {
			return apperror.NewValidation("invalid email").WithDetail("field", "email")
		}
	}
	if !s.Status.IsValid() {
		return apperror.NewValidation("invalid status").WithDetail("field", "status")
	}
	if s.PaymentTermsDays < 0 || s.PaymentTermsDays > 365 {
		return apperror.NewValidation("payment terms must be between 0 and 365 days").
			WithDetail("field", "paymentTermsDays")
	}
	if s.TotalDebt.IsNegative() || s.TotalCredit.IsNegative() {
		return apperror.NewValidation("supplier balances cannot be negative")
	}
	return nil
}

// BookInvoice adds an invoice amount to the debt and moves LastOrder forward.
func (s *Supplier) BookInvoice(amount types.Money, date time.Time) {
	s.TotalDebt = s.TotalDebt.Add(amount)
	if s.LastOrder == nil || date.After(*s.LastOrder) {
		d := date
		s.LastOrder = &d
	}
}

// SettleInvoice removes a paid invoice amount from the debt.
func (s *Supplier) SettleInvoice(amount types.Money) {
	s.TotalDebt = s.TotalDebt.Sub(amount)
	if s.TotalDebt.IsNegative() {
		s.TotalDebt = types.Zero()
	}
}

// AddCredit books a prepayment or credit note.
func (s *Supplier) AddCredit(amount types.Money) error {
	if !amount.IsPositive() || !types.FitsScale(amount) {
		return apperror.NewValidation("credit must be a positive amount with at most two decimal places").
			WithDetail("field", "amount")
	}
	s.TotalCredit = s.TotalCredit.Add(amount)
	return nil
}

// InvoiceStatus is the stored state of a supplier invoice.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"

	// InvoiceOverdue is never stored: a pending invoice reads as overdue
	// once its due date has passed.
	InvoiceOverdue InvoiceStatus = "overdue"
)

// Invoice is a bill received from a supplier.
type Invoice struct {
	ID         id.ID         `db:"id" json:"id"`
	OwnerID    id.ID         `db:"owner_id" json:"ownerId"`
	SupplierID id.ID         `db:"supplier_id" json:"supplierId"`
	Number     string        `db:"number" json:"number"`
	Date       time.Time     `db:"date" json:"date"`
	DueDate    time.Time     `db:"due_date" json:"dueDate"`
	Amount     types.Money   `db:"amount" json:"amount"`
	Status     InvoiceStatus `db:"status" json:"status"`
	PaidAt     *time.Time    `db:"paid_at" json:"paidAt,omitempty"`
	Notes      *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
}

// InvoiceInput holds data for a new supplier invoice. A zero DueDate means
// Date plus the supplier's payment terms.
type InvoiceInput struct {
	Number  string
	Date    time.Time
	DueDate time.Time
	Amount  types.Money
	Notes   string
}

// NewInvoice validates in and builds a pending invoice for supplier.
func NewInvoice(supplier *Supplier, in InvoiceInput, now time.Time) (Invoice, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return Invoice{}, apperror.NewValidation("invoice number is required").WithDetail("field", "number")
	}
	if !in.Amount.IsPositive() {
		return Invoice{}, apperror.NewValidation("invoice amount must be positive").WithDetail("field", "amount")
	}
	if !types.FitsScale(in.Amount) {
		return Invoice{}, apperror.NewValidation("invoice amount has more than two decimal places").
			WithDetail("field", "amount")
	}
	date := in.Date
	if date.IsZero() {
		date = now
	}
	due := in.DueDate
	if due.IsZero() {
		due = date.AddDate(0, 0, supplier.PaymentTermsDays)
	}
	if due.Before(date) {
		return Invoice{}, apperror.NewValidation("due date is before the invoice date").WithDetail("field", "dueDate")
	}
	return Invoice{
		ID:         id.New(),
		OwnerID:    supplier.OwnerID,
		SupplierID: supplier.ID,
		Number:     number,
		Date:       date,
		DueDate:    due,
		Amount:     in.Amount,
		Status:     InvoicePending,
		Notes:      optional(in.Notes),
		CreatedAt:  now,
	}, nil
}

// EffectiveStatus reports overdue for pending invoices past their due date.
func (i *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if i.Status == InvoicePending && now.After(i.DueDate) {
		return InvoiceOverdue
	}
	return i.Status
}

// Pay marks the invoice paid. Paying twice is an invalid transition.
func (i *Invoice) Pay(at time.Time) error {
	if i.Status != InvoicePending {
		return apperror.NewInvalidTransition("supplier invoice", string(i.Status), "pay")
	}
	i.Status = InvoicePaid
	t := at
	i.PaidAt = &t
	return nil
}

// Stats summarizes the supplier book.
type Stats struct {
	Total       int         `json:"total"`
	Active      int         `json:"active"`
	TotalDebt   types.Money `json:"totalDebt"`
	TotalCredit types.Money `json:"totalCredit"`
	Balance     types.Money `json:"balance"`
}

// ComputeStats aggregates suppliers.
func ComputeStats(list []Supplier) Stats {
	s := Stats{
		Total:       len(list),
		TotalDebt:   types.Zero(),
		TotalCredit: types.Zero(),
	}
	for i := range list {
		sup := &list[i]
		if sup.Status == StatusActive {
			s.Active++
		}
		s.TotalDebt = s.TotalDebt.Add(sup.TotalDebt)
		s.TotalCredit = s.TotalCredit.Add(sup.TotalCredit)
	}
	s.Balance = s.TotalCredit.Sub(s.TotalDebt)
	return s
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
