package inventory

import (
	"strings"
	"time"

	"bizdesk/internal/core/id"
)

// Kind is the direction of a stock event.
type Kind string

const (
	// KindEntry increases stock.
	KindEntry Kind = "entry"
	// KindExit decreases stock.
	KindExit Kind = "exit"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == KindEntry || k == KindExit
}

// Reason explains a stock event. Entries and exits accept different sets.
type Reason string

const (
	ReasonRestock             Reason = "restock"
	ReasonCustomerReturn      Reason = "customer_return"
	ReasonInventoryCorrection Reason = "inventory_correction"
	ReasonProductionCompleted Reason = "production_completed"
	ReasonWarehouseTransfer   Reason = "warehouse_transfer"
	ReasonSale                Reason = "sale"
	ReasonLoss                Reason = "loss"
	ReasonExpiry              Reason = "expiry"
	ReasonSample              Reason = "sample"
	ReasonOther               Reason = "other"
)

var reasonsByKind = map[Kind][]Reason{
	KindEntry: {
		ReasonRestock,
		ReasonCustomerReturn,
		ReasonInventoryCorrection,
		ReasonProductionCompleted,
		ReasonWarehouseTransfer,
		ReasonOther,
	},
	KindExit: {
		ReasonSale,
		ReasonLoss,
		ReasonExpiry,
		ReasonInventoryCorrection,
		ReasonWarehouseTransfer,
		ReasonSample,
		ReasonOther,
	},
}

// ReasonsFor returns the reasons accepted for kind, in display order.
func ReasonsFor(kind Kind) []Reason {
	src := reasonsByKind[kind]
	out := make([]Reason, len(src))
	copy(out, src)
	return out
}

// ValidReason reports whether reason is accepted for kind.
func ValidReason(kind Kind, reason Reason) bool {
	for _, r := range reasonsByKind[kind] {
		if r == reason {
			return true
		}
	}
	return false
}

// StockEvent is one immutable line of the stock ledger.
type StockEvent struct {
	ID          id.ID     `db:"id" json:"id"`
	OwnerID     id.ID     `db:"owner_id" json:"ownerId"`
	ProductID   id.ID     `db:"product_id" json:"productId"`
	Kind        Kind      `db:"kind" json:"kind"`
	Quantity    int64     `db:"quantity" json:"quantity"`
	Reason      Reason    `db:"reason" json:"reason"`
	Description *string   `db:"description" json:"description,omitempty"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	ActorID     string    `db:"actor_id" json:"actorId"`
}

// NewStockEvent builds an event with a generated ID. A blank description is dropped.
func NewStockEvent(ownerID, productID id.ID, kind Kind, quantity int64, reason Reason, description string, at time.Time, actorID string) StockEvent {
	ev := StockEvent{
		ID:        id.New(),
		OwnerID:   ownerID,
		ProductID: productID,
		Kind:      kind,
		Quantity:  quantity,
		Reason:    reason,
		Timestamp: at,
		ActorID:   actorID,
	}
	if d := strings.TrimSpace(description); d != "" {
		ev.Description = &d
	}
	return ev
}
