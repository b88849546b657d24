package inventory

import (
	"fmt"

	"bizdesk/internal/core/apperror"
)

// UnderflowPolicy decides what an exit larger than the stock on hand does.
type UnderflowPolicy string

const (
	// PolicyClamp sets stock to zero and flags WouldUnderflow.
	PolicyClamp UnderflowPolicy = "clamp"
	// PolicyReject fails with INSUFFICIENT_STOCK and leaves the catalog unchanged.
	PolicyReject UnderflowPolicy = "reject"
)

// ParseUnderflowPolicy maps a configuration value to a policy.
func ParseUnderflowPolicy(s string) (UnderflowPolicy, error) {
	switch UnderflowPolicy(s) {
	case PolicyClamp, "":
		return PolicyClamp, nil
	case PolicyReject:
		return PolicyReject, nil
	}
	return "", fmt.Errorf("unknown underflow policy %q", s)
}

// Ledger applies stock events to a catalog. It holds no state besides its policy.
type Ledger struct {
	policy UnderflowPolicy
}

// NewLedger creates a ledger with the given underflow policy.
func NewLedger(policy UnderflowPolicy) *Ledger {
	if policy == "" {
		policy = PolicyClamp
	}
	return &Ledger{policy: policy}
}

// Policy returns the configured underflow policy.
func (l *Ledger) Policy() UnderflowPolicy {
	return l.policy
}

// ApplyResult is the outcome of applying one event.
type ApplyResult struct {
	// Catalog is a copy of the input catalog with the product updated.
	Catalog []Product
	// Product is the updated product.
	Product Product
	// Entry is the event as recorded in the ledger.
	Entry StockEvent
	// WouldUnderflow is set when an exit asked for more than the stock on hand.
	WouldUnderflow bool
}

// ApplyEvent validates event and applies it to catalog.
// The input catalog is never modified.
func (l *Ledger) ApplyEvent(event StockEvent, catalog []Product) (ApplyResult, error) {
	if err := validateEvent(event); err != nil {
		return ApplyResult{}, err
	}

	idx := -1
	for i := range catalog {
		if catalog[i].ID == event.ProductID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ApplyResult{}, apperror.NewNotFound("product", event.ProductID.String())
	}

	product := catalog[idx]
	underflow := false

	switch event.Kind {
	case KindEntry:
		product.Stock += event.Quantity
		product.LastRestocked = event.Timestamp
	case KindExit:
		if event.Quantity > product.Stock {
			if l.policy == PolicyReject {
				return ApplyResult{}, apperror.NewInsufficientStock(
					product.ID.String(), event.Quantity, product.Stock,
				)
			}
			underflow = true
			product.Stock = 0
		} else {
			product.Stock -= event.Quantity
		}
	}
	product.UpdatedAt = event.Timestamp

	updated := make([]Product, len(catalog))
	copy(updated, catalog)
	updated[idx] = product

	return ApplyResult{
		Catalog:        updated,
		Product:        product,
		Entry:          event,
		WouldUnderflow: underflow,
	}, nil
}

// BatchResult is the outcome of ApplyEvents.
type BatchResult struct {
	Catalog    []Product
	Entries    []StockEvent
	Underflows []StockEvent
}

// ApplyEvents applies events one by one in order. On the first failure it
// returns the error together with the state reached before the failing event.
func (l *Ledger) ApplyEvents(events []StockEvent, catalog []Product) (BatchResult, error) {
	res := BatchResult{Catalog: catalog}
	for i, ev := range events {
		r, err := l.ApplyEvent(ev, res.Catalog)
		if err != nil {
			return res, fmt.Errorf("event %d: %w", i, err)
		}
		res.Catalog = r.Catalog
		res.Entries = append(res.Entries, r.Entry)
		if r.WouldUnderflow {
			res.Underflows = append(res.Underflows, r.Entry)
		}
	}
	return res, nil
}

func validateEvent(event StockEvent) error {
	if event.Quantity <= 0 {
		return apperror.NewInvalidQuantity(event.Quantity)
	}
	if !event.Kind.IsValid() {
		return apperror.NewValidation("unknown stock event kind").
			WithDetail("field", "kind").
			WithDetail("value", event.Kind)
	}
	if !ValidReason(event.Kind, event.Reason) {
		return apperror.NewValidation("reason not allowed for this kind").
			WithDetail("field", "reason").
			WithDetail("kind", event.Kind).
			WithDetail("value", event.Reason)
	}
	return nil
}
