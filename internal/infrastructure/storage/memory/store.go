// Package memory provides in-memory repositories for development mode and tests.
// Data lives in one Store guarded by a RWMutex; every repository call is scoped
// by owner exactly like the PostgreSQL implementation.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/domain/customers"
	"bizdesk/internal/domain/finance"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/journal"
	"bizdesk/internal/domain/production"
	"bizdesk/internal/domain/sales"
	"bizdesk/internal/domain/suppliers"
)

// Store holds every collection.
type Store struct {
	mu        sync.RWMutex
	products  map[id.ID]inventory.Product
	events    []inventory.StockEvent
	sales     map[id.ID]sales.Sale
	customers map[id.ID]customers.Customer
	records   []finance.Record
	closures  []finance.Closure
	plans     map[id.ID]production.Plan
	suppliers map[id.ID]suppliers.Supplier
	invoices  map[id.ID]suppliers.Invoice
	journal   map[id.ID]journal.Entry

	// txMu is held by a running transaction and by every write made outside
	// one, so a rollback restores only what that transaction changed.
	txMu sync.Mutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products:  make(map[id.ID]inventory.Product),
		sales:     make(map[id.ID]sales.Sale),
		customers: make(map[id.ID]customers.Customer),
		plans:     make(map[id.ID]production.Plan),
		suppliers: make(map[id.ID]suppliers.Supplier),
		invoices:  make(map[id.ID]suppliers.Invoice),
		journal:   make(map[id.ID]journal.Entry),
	}
}

// Products returns the product repository.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// StockEvents returns the stock ledger repository.
func (s *Store) StockEvents() *EventRepo { return &EventRepo{s: s} }

// Sales returns the sale repository.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Customers returns the customer repository.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

// Records returns the financial record repository.
func (s *Store) Records() *RecordRepo { return &RecordRepo{s: s} }

// Closures returns the closure repository.
func (s *Store) Closures() *ClosureRepo { return &ClosureRepo{s: s} }

// Plans returns the production plan repository.
func (s *Store) Plans() *PlanRepo { return &PlanRepo{s: s} }

// Suppliers returns the supplier repository.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }

// SupplierInvoices returns the supplier invoice repository.
func (s *Store) SupplierInvoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// Journal returns the journal entry repository.
func (s *Store) Journal() *JournalRepo { return &JournalRepo{s: s} }

// lock takes the write lock for a repository call. Outside a transaction it
// first waits for the running transaction to finish.
func (s *Store) lock(ctx context.Context) (unlock func()) {
	if ctx.Value(txKey{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

type snapshot struct {
	products  map[id.ID]inventory.Product
	events    []inventory.StockEvent
	sales     map[id.ID]sales.Sale
	customers map[id.ID]customers.Customer
	records   []finance.Record
	closures  []finance.Closure
	plans     map[id.ID]production.Plan
	suppliers map[id.ID]suppliers.Supplier
	invoices  map[id.ID]suppliers.Invoice
	journal   map[id.ID]journal.Entry
}

// Stored values are replaced, never modified in place, so shallow copies suffice.
func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		products:  maps.Clone(s.products),
		events:    slices.Clone(s.events),
		sales:     maps.Clone(s.sales),
		customers: maps.Clone(s.customers),
		records:   slices.Clone(s.records),
		closures:  slices.Clone(s.closures),
		plans:     maps.Clone(s.plans),
		suppliers: maps.Clone(s.suppliers),
		invoices:  maps.Clone(s.invoices),
		journal:   maps.Clone(s.journal),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.events = snap.events
	s.sales = snap.sales
	s.customers = snap.customers
	s.records = snap.records
	s.closures = snap.closures
	s.plans = snap.plans
	s.suppliers = snap.suppliers
	s.invoices = snap.invoices
	s.journal = snap.journal
}

// TxManager runs functions atomically against a Store: a failing function
// leaves the store as it was before the outermost call.
type TxManager struct {
	s *Store
}

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// NewTxManager creates a transaction manager for s.
func NewTxManager(s *Store) *TxManager {
	return &TxManager{s: s}
}

type txKey struct{}

// RunInTransaction implements tx.Manager. Nested calls join the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

// ReadOnly implements tx.ReadOnlyManager. Writes are held off until fn
// returns, so every read inside fn sees the same state.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}
