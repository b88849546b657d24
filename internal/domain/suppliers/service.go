package suppliers

import (
	"context"
	"fmt"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/customers"
	"bizdesk/internal/domain/finance"
	"bizdesk/internal/domain/inventory"
	"bizdesk/pkg/logger"
)

// ProductLister finds catalog products that reference a supplier.
// inventory.ProductRepository satisfies it.
type ProductLister interface {
	List(ctx context.Context, ownerID id.ID, filter inventory.ProductFilter) (domain.ListResult[inventory.Product], error)
}

// ExpenseRecorder books invoice payments in the finance journal.
type ExpenseRecorder interface {
	AddRecord(ctx context.Context, ownerID id.ID, in finance.RecordInput) (*finance.Record, error)
}

// Checker validates product supplier references against the supplier book.
// It satisfies inventory.SupplierChecker.
type Checker struct {
	repo Repository
}

// NewChecker creates a checker reading repo.
func NewChecker(repo Repository) *Checker {
	return &Checker{repo: repo}
}

// CheckSupplier reports a validation error on supplierRef unless supplierID
// names one of the owner's suppliers.
func (c *Checker) CheckSupplier(ctx context.Context, ownerID, supplierID id.ID) error {
	_, err := c.repo.Get(ctx, ownerID, supplierID)
	if apperror.IsNotFound(err) {
		return apperror.NewValidation("unknown supplier").
			WithDetail("field", "supplierRef").
			WithDetail("supplierId", supplierID.String())
	}
	return err
}

// Service manages suppliers and their invoices.
type Service struct {
	repo     Repository
	invoices InvoiceRepository
	txm      tx.Manager
	products ProductLister
	expenses ExpenseRecorder
	notifier domain.ChangeNotifier
	now      func() time.Time
	region   string
}

// Option configures Service.
type Option func(*Service)

// WithNotifier sets the change notifier called after every write.
func WithNotifier(n domain.ChangeNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPhoneRegion sets the region national phone numbers are read in.
func WithPhoneRegion(region string) Option {
	return func(s *Service) { s.region = region }
}

// WithProducts makes Delete refuse suppliers still referenced by products.
func WithProducts(p ProductLister) Option {
	return func(s *Service) { s.products = p }
}

// WithExpenses records an expense for every invoice paid in cash.
func WithExpenses(e ExpenseRecorder) Option {
	return func(s *Service) { s.expenses = e }
}

// NewService creates a new supplier service.
func NewService(repo Repository, invoices InvoiceRepository, txm tx.Manager, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		invoices: invoices,
		txm:      txm,
		notifier: domain.NopNotifier{},
		now:      func() time.Time { return time.Now().UTC() },
		region:   customers.DefaultPhoneRegion,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input holds editable supplier fields. A nil PaymentTermsDays keeps the
// current terms, or the default on create.
type Input struct {
	Name             string
	ContactPerson    string
	Email            string
	Phone            string
	Address          string
	PaymentTermsDays *int
	Status           Status
}

func (in Input) apply(sup *Supplier, region string) error {
	sup.Name = in.Name
	sup.ContactPerson = optional(in.ContactPerson)
	sup.Email = optional(in.Email)
	sup.Phone = optional(in.Phone)
	sup.Address = optional(in.Address)
	if in.PaymentTermsDays != nil {
		sup.PaymentTermsDays = *in.PaymentTermsDays
	}
	if in.Status != "" {
		sup.Status = in.Status
	}
	if sup.Phone != nil {
		phone, err := customers.NormalizePhone(*sup.Phone, region)
		if err != nil {
			return err
		}
		sup.Phone = &phone
	}
	return nil
}

// Create adds an active supplier with an empty balance.
func (s *Service) Create(ctx context.Context, ownerID id.ID, in Input) (*Supplier, error) {
	now := s.now()
	sup := &Supplier{
		ID:               id.New(),
		OwnerID:          ownerID,
		PaymentTermsDays: DefaultPaymentTermsDays,
		Status:           StatusActive,
		TotalDebt:        types.Zero(),
		TotalCredit:      types.Zero(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := in.apply(sup, s.region); err != nil {
		return nil, err
	}
	if err := sup.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	s.notifier.Invalidate(ctx, ownerID)
	logger.Info(ctx, "supplier created", "supplier_id", sup.ID)
	return sup, nil
}

// Update changes contact fields, terms and status. Balances are only
// changed by invoices and credits.
func (s *Service) Update(ctx context.Context, ownerID, supplierID id.ID, in Input) (*Supplier, error) {
	var out *Supplier
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		sup, err := s.repo.GetForUpdate(ctx, ownerID, supplierID)
		if err != nil {
			return err
		}
		if err := in.apply(sup, s.region); err != nil {
			return err
		}
		sup.UpdatedAt = s.now()
		if err := sup.Validate(); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, sup); err != nil {
			return fmt.Errorf("update supplier: %w", err)
		}
		out = sup
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Invalidate(ctx, ownerID)
	return out, nil
}

// Delete removes a supplier that has no open debt and no products
// referencing it.
func (s *Service) Delete(ctx context.Context, ownerID, supplierID id.ID) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		sup, err := s.repo.GetForUpdate(ctx, ownerID, supplierID)
		if err != nil {
			return err
		}
		if sup.TotalDebt.IsPositive() {
			return apperror.NewConflict("supplier has unpaid invoices").
				WithDetail("totalDebt", sup.TotalDebt.StringFixed(types.MoneyScale))
		}
		if s.products != nil {
			refs, err := s.products.List(ctx, ownerID, inventory.ProductFilter{
				SupplierID: &supplierID,
				Page:       domain.Page{Limit: 1},
			})
			if err != nil {
				return fmt.Errorf("list supplier products: %w", err)
			}
			if refs.TotalCount > 0 {
				return apperror.NewConflict("supplier is referenced by products").
					WithDetail("products", refs.TotalCount)
			}
		}
		return s.repo.Delete(ctx, ownerID, supplierID)
	})
	if err != nil {
		return err
	}
	s.notifier.Invalidate(ctx, ownerID)
	logger.Info(ctx, "supplier deleted", "supplier_id", supplierID)
	return nil
}

// Get returns one supplier.
func (s *Service) Get(ctx context.Context, ownerID, supplierID id.ID) (*Supplier, error) {
	return s.repo.Get(ctx, ownerID, supplierID)
}

// List returns a filtered page of suppliers.
func (s *Service) List(ctx context.Context, ownerID id.ID, filter Filter) (domain.ListResult[Supplier], error) {
	filter.Page = filter.Page.Normalize(100, 1000)
	return s.repo.List(ctx, ownerID, filter)
}

// Stats summarizes the owner's supplier book.
func (s *Service) Stats(ctx context.Context, ownerID id.ID) (Stats, error) {
	list, err := s.repo.ListAll(ctx, ownerID)
	if err != nil {
		return Stats{}, fmt.Errorf("list suppliers: %w", err)
	}
	return ComputeStats(list), nil
}

// RecordInvoice books an invoice against an active supplier and adds its
// amount to the supplier's debt.
func (s *Service) RecordInvoice(ctx context.Context, ownerID, supplierID id.ID, in InvoiceInput) (*Invoice, error) {
	var out *Invoice
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		sup, err := s.repo.GetForUpdate(ctx, ownerID, supplierID)
		if err != nil {
			return err
		}
		if sup.Status != StatusActive {
			return apperror.NewValidation("supplier is inactive").WithDetail("supplierId", supplierID.String())
		}
		now := s.now()
		inv, err := NewInvoice(sup, in, now)
		if err != nil {
			return err
		}
		if err := s.invoices.Create(ctx, &inv); err != nil {
			return fmt.Errorf("create supplier invoice: %w", err)
		}
		sup.BookInvoice(inv.Amount, inv.Date)
		sup.UpdatedAt = now
		if err := s.repo.Update(ctx, sup); err != nil {
			return fmt.Errorf("update supplier: %w", err)
		}
		out = &inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Invalidate(ctx, ownerID)
	logger.Info(ctx, "supplier invoice recorded",
		"supplier_id", supplierID,
		"invoice_id", out.ID,
		"amount", out.Amount.StringFixed(types.MoneyScale),
	)
	return out, nil
}

// PaymentInput selects how an invoice is paid. With UseCredit the supplier's
// credit must cover the whole amount and no expense is recorded.
type PaymentInput struct {
	UseCredit bool
	Date      time.Time
}

// PayInvoice marks an invoice paid and settles the supplier's debt. Cash
// payments are booked as a Suppliers expense in the same transaction.
func (s *Service) PayInvoice(ctx context.Context, ownerID, invoiceID id.ID, in PaymentInput) (*Invoice, error) {
	var out *Invoice
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetForUpdate(ctx, ownerID, invoiceID)
		if err != nil {
			return err
		}
		sup, err := s.repo.GetForUpdate(ctx, ownerID, inv.SupplierID)
		if err != nil {
			return err
		}
		now := s.now()
		paidAt := in.Date
		if paidAt.IsZero() {
			paidAt = now
		}
		if err := inv.Pay(paidAt); err != nil {
			return err
		}
		if in.UseCredit {
			if sup.TotalCredit.LessThan(inv.Amount) {
				return apperror.NewValidation("supplier credit does not cover the invoice").
					WithDetail("credit", sup.TotalCredit.StringFixed(types.MoneyScale)).
					WithDetail("amount", inv.Amount.StringFixed(types.MoneyScale))
			}
			sup.TotalCredit = sup.TotalCredit.Sub(inv.Amount)
		}
		sup.SettleInvoice(inv.Amount)
		sup.UpdatedAt = now
		if err := s.invoices.UpdateStatus(ctx, inv); err != nil {
			return fmt.Errorf("update supplier invoice: %w", err)
		}
		if err := s.repo.Update(ctx, sup); err != nil {
			return fmt.Errorf("update supplier: %w", err)
		}
		if !in.UseCredit && s.expenses != nil {
			_, err := s.expenses.AddRecord(ctx, ownerID, finance.RecordInput{
				Date:        paidAt,
				Kind:        finance.KindExpense,
				Category:    finance.CategorySuppliers,
				Amount:      inv.Amount,
				Description: fmt.Sprintf("Invoice %s paid to %s", inv.Number, sup.Name),
				Receipt:     inv.Number,
			})
			if err != nil {
				return fmt.Errorf("record invoice expense: %w", err)
			}
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Invalidate(ctx, ownerID)
	logger.Info(ctx, "supplier invoice paid",
		"invoice_id", out.ID,
		"supplier_id", out.SupplierID,
		"use_credit", in.UseCredit,
	)
	return out, nil
}

// AddCredit books a prepayment or credit note with the supplier.
func (s *Service) AddCredit(ctx context.Context, ownerID, supplierID id.ID, amount types.Money) (*Supplier, error) {
	var out *Supplier
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		sup, err := s.repo.GetForUpdate(ctx, ownerID, supplierID)
		if err != nil {
			return err
		}
		if err := sup.AddCredit(amount); err != nil {
			return err
		}
		sup.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, sup); err != nil {
			return fmt.Errorf("update supplier: %w", err)
		}
		out = sup
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Invalidate(ctx, ownerID)
	return out, nil
}

// ListInvoices returns a filtered page of invoices. An overdue status filter
// selects pending invoices already past their due date.
func (s *Service) ListInvoices(ctx context.Context, ownerID id.ID, filter InvoiceFilter) (domain.ListResult[Invoice], error) {
	if filter.Status != nil && *filter.Status == InvoiceOverdue {
		pending := InvoicePending
		now := s.now()
		filter.Status = &pending
		if filter.DueBefore == nil || now.Before(*filter.DueBefore) {
			filter.DueBefore = &now
		}
	}
	filter.Page = filter.Page.Normalize(100, 1000)
	return s.invoices.List(ctx, ownerID, filter)
}
