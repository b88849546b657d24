// Package app wires repositories and domain services together.
package app

import (
	"time"

	"bizdesk/internal/core/calendar"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/domain/customers"
	"bizdesk/internal/domain/dashboard"
	"bizdesk/internal/domain/finance"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/journal"
	"bizdesk/internal/domain/production"
	"bizdesk/internal/domain/sales"
	"bizdesk/internal/domain/suppliers"
	"bizdesk/internal/infrastructure/storage/memory"
	"bizdesk/internal/infrastructure/storage/postgres"
	"bizdesk/internal/infrastructure/storage/postgres/repository"
)

// Repositories is one storage backend.
type Repositories struct {
	Products  inventory.ProductRepository
	Events    inventory.EventRepository
	Sales     sales.Repository
	Customers customers.Repository
	Records   finance.RecordRepository
	Closures  finance.ClosureRepository
	Plans     production.Repository
	Suppliers suppliers.Repository
	Invoices  suppliers.InvoiceRepository
	Journal   journal.Repository
	TxManager tx.Manager
}

// MemoryRepositories backs every repository with s.
func MemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		Products:  s.Products(),
		Events:    s.StockEvents(),
		Sales:     s.Sales(),
		Customers: s.Customers(),
		Records:   s.Records(),
		Closures:  s.Closures(),
		Plans:     s.Plans(),
		Suppliers: s.Suppliers(),
		Invoices:  s.SupplierInvoices(),
		Journal:   s.Journal(),
		TxManager: memory.NewTxManager(s),
	}
}

// PostgresRepositories backs every repository with PostgreSQL.
func PostgresRepositories(txm *postgres.TxManager) Repositories {
	return Repositories{
		Products:  repository.NewProductRepo(txm),
		Events:    repository.NewEventRepo(txm),
		Sales:     repository.NewSaleRepo(txm),
		Customers: repository.NewCustomerRepo(txm),
		Records:   repository.NewRecordRepo(txm),
		Closures:  repository.NewClosureRepo(txm),
		Plans:     repository.NewPlanRepo(txm),
		Suppliers: repository.NewSupplierRepo(txm),
		Invoices:  repository.NewInvoiceRepo(txm),
		Journal:   repository.NewJournalRepo(txm),
		TxManager: txm,
	}
}

// Options tune the services.
type Options struct {
	Policy   inventory.UnderflowPolicy
	Calendar calendar.Calendar
	Cache    dashboard.Cache
	Locker   finance.Locker
	// PhoneRegion reads national customer and supplier phone numbers; empty
	// means customers.DefaultPhoneRegion.
	PhoneRegion string
	// Clock overrides time.Now in every service.
	Clock func() time.Time
}

// Services are the domain services of one backend.
type Services struct {
	Inventory  *inventory.Service
	Sales      *sales.Service
	Customers  *customers.Service
	Finance    *finance.Service
	Production *production.Service
	Dashboard  *dashboard.Service
	Suppliers  *suppliers.Service
	Journal    *journal.Service
}

// NewServices builds the services. The dashboard is the change notifier of
// every writing service, so any write drops the owner's cached stats.
func NewServices(r Repositories, opts Options) *Services {
	var dashOpts []dashboard.Option
	if opts.Cache != nil {
		dashOpts = append(dashOpts, dashboard.WithCache(opts.Cache))
	}
	if opts.Clock != nil {
		dashOpts = append(dashOpts, dashboard.WithClock(opts.Clock))
	}
	if ro, ok := r.TxManager.(tx.ReadOnlyManager); ok {
		dashOpts = append(dashOpts, dashboard.WithSnapshot(ro))
	}
	dash := dashboard.NewService(r.Sales, r.Products, r.Records, r.Customers, opts.Calendar, dashOpts...)

	invOpts := []inventory.Option{inventory.WithNotifier(dash)}
	custOpts := []customers.Option{customers.WithNotifier(dash)}
	if opts.PhoneRegion != "" {
		custOpts = append(custOpts, customers.WithPhoneRegion(opts.PhoneRegion))
	}
	saleOpts := []sales.Option{sales.WithNotifier(dash)}
	finOpts := []finance.Option{finance.WithNotifier(dash)}
	supOpts := []suppliers.Option{suppliers.WithNotifier(dash), suppliers.WithProducts(r.Products)}
	if opts.PhoneRegion != "" {
		supOpts = append(supOpts, suppliers.WithPhoneRegion(opts.PhoneRegion))
	}
	var prodOpts []production.Option
	var journalOpts []journal.Option
	if opts.Clock != nil {
		invOpts = append(invOpts, inventory.WithClock(opts.Clock))
		custOpts = append(custOpts, customers.WithClock(opts.Clock))
		saleOpts = append(saleOpts, sales.WithClock(opts.Clock))
		finOpts = append(finOpts, finance.WithClock(opts.Clock))
		prodOpts = append(prodOpts, production.WithClock(opts.Clock))
		supOpts = append(supOpts, suppliers.WithClock(opts.Clock))
		journalOpts = append(journalOpts, journal.WithClock(opts.Clock))
	}
	if opts.Locker != nil {
		finOpts = append(finOpts, finance.WithLocker(opts.Locker))
	}

	invOpts = append(invOpts, inventory.WithSupplierChecker(suppliers.NewChecker(r.Suppliers)))

	inv := inventory.NewService(r.Products, r.Events, r.TxManager, inventory.NewLedger(opts.Policy), invOpts...)
	cust := customers.NewService(r.Customers, r.TxManager, custOpts...)
	sale := sales.NewService(r.Sales, inv, cust, r.TxManager, saleOpts...)
	fin := finance.NewService(r.Records, r.Closures, sale, r.TxManager, finOpts...)
	sup := suppliers.NewService(r.Suppliers, r.Invoices, r.TxManager, append(supOpts, suppliers.WithExpenses(fin))...)

	return &Services{
		Inventory:  inv,
		Sales:      sale,
		Customers:  cust,
		Finance:    fin,
		Production: production.NewService(r.Plans, inv, r.TxManager, prodOpts...),
		Dashboard:  dash,
		Suppliers:  sup,
		Journal:    journal.NewService(r.Journal, journalOpts...),
	}
}
