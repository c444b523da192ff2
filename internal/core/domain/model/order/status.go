package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status is the raw, persisted lifecycle stage of an order.
//
// Stage chain:
//
//	New ──> Paid ──> Ordered ──> Shipped ──> Linked ──> Arrived ──> WeightPaid ──> InDelivery ──> Delivered
//	 │       ^         ^
//	 └─> PartiallyPaid─┘
//
// PartiallyPaid is only stored while the order is still in the payment stage.
// Past that stage an outstanding balance is an overlay computed by
// (*Order).EffectiveStatus, not a stored value.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// New is the status of a freshly created order with no payment.
	New

	// PartiallyPaid means a payment was received that does not cover the final price.
	PartiallyPaid

	// Paid means the final price is covered.
	Paid

	// Ordered means the goods were ordered internationally and shipping numbers are known.
	Ordered

	// Shipped means local tracking numbers are known.
	Shipped

	// Linked means the order was linked to an inbound shipment.
	Linked

	// Arrived means the goods reached the warehouse and were weighed and stored.
	Arrived

	// WeightPaid means the weight-dependent stage is settled.
	WeightPaid

	// InDelivery means a delivery method was chosen and the order left the warehouse.
	InDelivery

	// Delivered is terminal.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:       "unknown",
		New:           "new",
		PartiallyPaid: "partially_paid",
		Paid:          "paid",
		Ordered:       "ordered",
		Shipped:       "shipped",
		Linked:        "linked",
		Arrived:       "arrived",
		WeightPaid:    "weight_paid",
		InDelivery:    "in_delivery",
		Delivered:     "delivered",
	}
}

// AllStatuses returns the valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{New, PartiallyPaid, Paid, Ordered, Shipped, Linked, Arrived, WeightPaid, InDelivery, Delivered}
}

// ParseStatus maps a wire name such as "in_delivery" to its Status.
func ParseStatus(s string) (Status, error) {
	for _, status := range AllStatuses() {
		if status.String() == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a known status", s),
	)
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s < New || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, or "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no forward transition can leave s.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// IsPaymentStage reports whether s precedes the international order, i.e. whether
// an underpaid payment is recorded as a stored PartiallyPaid status.
func (s Status) IsPaymentStage() bool {
	return s == New || s == PartiallyPaid || s == Paid
}
