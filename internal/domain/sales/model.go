// Package sales records checkouts and tracks their fulfillment.
package sales

import (
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

// PaymentMethod is how a sale was settled.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCheck    PaymentMethod = "check"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentTransfer, PaymentCheck}

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCheck:
		return true
	}
	return false
}

// LineItem is one product line of a sale. ProductName is captured at
// checkout so reports survive renames and deletions.
type LineItem struct {
	ProductID   id.ID       `db:"product_id" json:"productId"`
	ProductName string      `db:"product_name" json:"productName"`
	Quantity    int64       `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal   types.Money `db:"line_total" json:"lineTotal"`
}

// Sale is a finalized checkout.
type Sale struct {
	ID            id.ID             `db:"id" json:"id"`
	OwnerID       id.ID             `db:"owner_id" json:"ownerId"`
	Timestamp     time.Time         `db:"timestamp" json:"timestamp"`
	CustomerID    *id.ID            `db:"customer_id" json:"customerId,omitempty"`
	CustomerName  string            `db:"customer_name" json:"customerName"`
	Items         []LineItem        `db:"-" json:"items"`
	TotalAmount   types.Money       `db:"total_amount" json:"totalAmount"`
	PaymentMethod PaymentMethod     `db:"payment_method" json:"paymentMethod"`
	Status        FulfillmentStatus `db:"status" json:"status"`
	ActorID       string            `db:"actor_id" json:"actorId"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updatedAt"`
}

// GuestName is shown for sales without a customer.
const GuestName = "Guest"

// ItemInput is a requested sale line.
type ItemInput struct {
	ProductID   id.ID
	ProductName string
	Quantity    int64
	UnitPrice   types.Money
}

// SaleInput is the data collected at checkout.
type SaleInput struct {
	CustomerID    *id.ID
	CustomerName  string
	Items         []ItemInput
	PaymentMethod PaymentMethod
	Status        FulfillmentStatus
	ActorID       string
	Timestamp     time.Time
}

// NewSale validates in and builds a sale. Lines for the same product are
// merged when their unit price matches; TotalAmount is the sum of line totals.
func NewSale(ownerID id.ID, in SaleInput) (Sale, error) {
	if len(in.Items) == 0 {
		return Sale{}, apperror.NewValidation("sale must have at least one item").WithDetail("field", "items")
	}
	if !in.PaymentMethod.IsValid() {
		return Sale{}, apperror.NewValidation("unknown payment method").
			WithDetail("field", "paymentMethod").
			WithDetail("value", in.PaymentMethod)
	}
	if !in.Status.IsValid() {
		return Sale{}, apperror.NewValidation("unknown fulfillment status").
			WithDetail("field", "status").
			WithDetail("value", in.Status)
	}
	if in.Timestamp.IsZero() {
		return Sale{}, apperror.NewValidation("timestamp is required").WithDetail("field", "timestamp")
	}

	items := make([]LineItem, 0, len(in.Items))
	index := make(map[id.ID]int, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return Sale{}, apperror.NewInvalidQuantity(it.Quantity).WithDetail("line", i)
		}
		if it.UnitPrice.IsNegative() {
			return Sale{}, apperror.NewValidation("unit price cannot be negative").WithDetail("line", i)
		}
		if !types.FitsScale(it.UnitPrice) {
			return Sale{}, apperror.NewValidation("unit price has more than two decimal places").WithDetail("line", i)
		}
		if strings.TrimSpace(it.ProductName) == "" {
			return Sale{}, apperror.NewValidation("product name is required").WithDetail("line", i)
		}

		if j, ok := index[it.ProductID]; ok && items[j].UnitPrice.Equal(it.UnitPrice) {
			items[j].Quantity += it.Quantity
			items[j].LineTotal = types.MulQty(items[j].UnitPrice, items[j].Quantity)
			continue
		}
		index[it.ProductID] = len(items)
		items = append(items, LineItem{
			ProductID:   it.ProductID,
			ProductName: strings.TrimSpace(it.ProductName),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   types.MulQty(it.UnitPrice, it.Quantity),
		})
	}

	name := strings.TrimSpace(in.CustomerName)
	if in.CustomerID == nil && name == "" {
		name = GuestName
	}

	s := Sale{
		ID:            id.New(),
		OwnerID:       ownerID,
		Timestamp:     in.Timestamp,
		CustomerID:    in.CustomerID,
		CustomerName:  name,
		Items:         items,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
		ActorID:       in.ActorID,
		UpdatedAt:     in.Timestamp,
	}
	s.TotalAmount = s.ComputeTotal()
	return s, nil
}

// ComputeTotal sums line totals.
func (s *Sale) ComputeTotal() types.Money {
	totals := make([]types.Money, len(s.Items))
	for i, it := range s.Items {
		totals[i] = it.LineTotal
	}
	return types.Sum(totals...)
}

// Quantity is the number of units sold across all lines.
func (s *Sale) Quantity() int64 {
	var n int64
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}
