package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/sales"
)

// SaleItemRequest is one checkout line.
type SaleItemRequest struct {
	ProductID   string          `json:"productId" binding:"required,uuid"`
	ProductName string          `json:"productName" binding:"max=200"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CheckoutRequest for POST /sales.
type CheckoutRequest struct {
	CustomerID    string            `json:"customerId" binding:"omitempty,uuid"`
	CustomerName  string            `json:"customerName" binding:"max=200"`
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string            `json:"paymentMethod" binding:"required,payment_method"`
	Status        string            `json:"status" binding:"required,oneof=paid_delivered paid_not_delivered delivered_not_paid"`
	DeductStock   *bool             `json:"deductStock"`
	Timestamp     *time.Time        `json:"timestamp"`
}

// ToInput converts to the checkout input. Stock is deducted unless
// deductStock is false.
func (r CheckoutRequest) ToInput(actorID string) sales.CheckoutInput {
	in := sales.CheckoutInput{
		SaleInput: sales.SaleInput{
			CustomerName:  r.CustomerName,
			Items:         make([]sales.ItemInput, len(r.Items)),
			PaymentMethod: sales.PaymentMethod(r.PaymentMethod),
			Status:        sales.FulfillmentStatus(r.Status),
			ActorID:       actorID,
		},
		DeductStock: r.DeductStock == nil || *r.DeductStock,
	}
	if r.CustomerID != "" {
		cid := id.MustParse(r.CustomerID)
		in.CustomerID = &cid
	}
	if r.Timestamp != nil {
		in.Timestamp = *r.Timestamp
	}
	for i, it := range r.Items {
		in.Items[i] = sales.ItemInput{
			ProductID:   id.MustParse(it.ProductID),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	return in
}

// FulfillmentRequest for POST /sales/:id/fulfillment.
type FulfillmentRequest struct {
	Action string `json:"action" binding:"required,oneof=mark_delivered mark_paid"`
}

// SaleListQuery for GET /sales.
type SaleListQuery struct {
	Status        string `form:"status" binding:"omitempty,oneof=paid_delivered paid_not_delivered delivered_not_paid"`
	PaymentMethod string `form:"paymentMethod" binding:"omitempty,payment_method"`
	CustomerID    string `form:"customerId" binding:"omitempty,uuid"`
	Search        string `form:"search"`
	DateRangeQuery
	PageQuery
}

// ToFilter converts to the repository filter.
func (q SaleListQuery) ToFilter() sales.Filter {
	f := sales.Filter{
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Search:   q.Search,
		Page:     q.ToPage(),
	}
	if q.Status != "" {
		s := sales.FulfillmentStatus(q.Status)
		f.Status = &s
	}
	if q.PaymentMethod != "" {
		m := sales.PaymentMethod(q.PaymentMethod)
		f.PaymentMethod = &m
	}
	if q.CustomerID != "" {
		cid := id.MustParse(q.CustomerID)
		f.CustomerID = &cid
	}
	return f
}
