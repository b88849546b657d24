package sales

import (
	"bizdesk/internal/core/apperror"
)

// FulfillmentStatus tracks whether a sale is paid and delivered.
type FulfillmentStatus string

const (
	// StatusPaidDelivered is terminal.
	StatusPaidDelivered    FulfillmentStatus = "paid_delivered"
	StatusPaidNotDelivered FulfillmentStatus = "paid_not_delivered"
	StatusDeliveredNotPaid FulfillmentStatus = "delivered_not_paid"
)

// IsValid reports whether s is a known status.
func (s FulfillmentStatus) IsValid() bool {
	switch s {
	case StatusPaidDelivered, StatusPaidNotDelivered, StatusDeliveredNotPaid:
		return true
	}
	return false
}

// IsTerminal reports whether no action applies to s.
func (s FulfillmentStatus) IsTerminal() bool {
	return s == StatusPaidDelivered
}

// Action is a fulfillment state change requested by a user.
type Action string

const (
	ActionMarkDelivered Action = "mark_delivered"
	ActionMarkPaid      Action = "mark_paid"
)

type transitionKey struct {
	from   FulfillmentStatus
	action Action
}

var transitions = map[transitionKey]FulfillmentStatus{
	{StatusPaidNotDelivered, ActionMarkDelivered}: StatusPaidDelivered,
	{StatusDeliveredNotPaid, ActionMarkPaid}:      StatusPaidDelivered,
}

// NextStatus returns the status reached by applying action to from.
func NextStatus(from FulfillmentStatus, action Action) (FulfillmentStatus, error) {
	to, ok := transitions[transitionKey{from, action}]
	if !ok {
		return "", apperror.NewInvalidTransition("sale", string(from), string(action))
	}
	return to, nil
}

// TransitionFulfillment returns a copy of sale with action applied.
// The input sale is not modified.
func TransitionFulfillment(sale Sale, action Action) (Sale, error) {
	to, err := NextStatus(sale.Status, action)
	if err != nil {
		return Sale{}, err
	}
	sale.Status = to
	return sale, nil
}
