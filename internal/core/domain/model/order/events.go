package order

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// ChangeKind names what happened to an order.
type ChangeKind string

const (
	ChangeCreated     ChangeKind = "created"
	ChangeForward     ChangeKind = "forward"
	ChangeBackward    ChangeKind = "backward"
	ChangeInvoiceSent ChangeKind = "invoice_sent"
)

// ChangedEvent is emitted once per successful change and carries the complete new order.
// Subscribers key it by OrderID.
type ChangedEvent struct {
	EventID    string          `json:"eventId"`
	OrderID    string          `json:"orderId"`
	Change     ChangeKind      `json:"change"`
	Transition *TransitionView `json:"transition,omitempty"`

	// InvoiceRequested is set for payment-bearing transitions; the invoicing
	// collaborator generates exactly one document per such event.
	InvoiceRequested bool      `json:"invoiceRequested"`
	OccurredAt       time.Time `json:"occurredAt"`
	Order            OrderView `json:"order"`
}

// TransitionView is the wire form of a Transition.
type TransitionView struct {
	From      string `json:"from"`
	To        string `json:"to"`
	InputKind string `json:"inputKind"`
	Backward  bool   `json:"backward"`
}

// OrderView is the wire form of an Order.
type OrderView struct {
	ID                           string           `json:"id"`
	Status                       string           `json:"status"`
	EffectiveStatus              string           `json:"effectiveStatus"`
	FinalPrice                   decimal.Decimal  `json:"finalPrice"`
	PaymentAmount                *decimal.Decimal `json:"paymentAmount,omitempty"`
	PaymentMethod                string           `json:"paymentMethod,omitempty"`
	PaymentDate                  *time.Time       `json:"paymentDate,omitempty"`
	PaymentNotes                 string           `json:"paymentNotes,omitempty"`
	PaymentReceipt               string           `json:"paymentReceipt,omitempty"`
	InternationalShippingNumbers []string         `json:"internationalShippingNumbers"`
	TrackingNumber               string           `json:"trackingNumber,omitempty"`
	TrackingNumbers              []string         `json:"trackingNumbers"`
	Weight                       *decimal.Decimal `json:"weight,omitempty"`
	StorageLocation              string           `json:"storageLocation,omitempty"`
	Notes                        string           `json:"notes"`
	InvoiceSent                  bool             `json:"invoiceSent"`
	CreatedAt                    time.Time        `json:"createdAt"`
	UpdatedAt                    time.Time        `json:"updatedAt"`
}

// NewChangedEvent builds the event for o after change. t is nil for changes that
// are not transitions.
func NewChangedEvent(o *Order, change ChangeKind, t *Transition, at time.Time) ChangedEvent {
	event := ChangedEvent{
		EventID:    kernel.NewUUID().String(),
		OrderID:    o.ID().String(),
		Change:     change,
		OccurredAt: at,
		Order:      NewOrderView(o),
	}
	if t != nil {
		event.Transition = NewTransitionView(*t)
		event.InvoiceRequested = !t.Backward && t.Kind.IsPaymentBearing()
	}
	return event
}

// EventType is the routing name of the event, e.g. "order.forward".
func (e ChangedEvent) EventType() string {
	return "order." + string(e.Change)
}

func NewTransitionView(t Transition) *TransitionView {
	return &TransitionView{
		From:      t.From.String(),
		To:        t.To.String(),
		InputKind: t.Kind.String(),
		Backward:  t.Backward,
	}
}

func NewOrderView(o *Order) OrderView {
	view := OrderView{
		ID:                           o.ID().String(),
		Status:                       o.Status().String(),
		EffectiveStatus:              o.EffectiveStatus().String(),
		FinalPrice:                   o.FinalPrice().Decimal(),
		InternationalShippingNumbers: nonNil(o.InternationalShippingNumbers()),
		TrackingNumber:               o.TrackingNumber(),
		TrackingNumbers:              nonNil(o.TrackingNumbers()),
		StorageLocation:              o.StorageLocation(),
		Notes:                        o.Notes(),
		InvoiceSent:                  o.InvoiceSent(),
		CreatedAt:                    o.CreatedAt(),
		UpdatedAt:                    o.UpdatedAt(),
	}

	if o.HasPayment() {
		amount := o.PaymentAmount().Decimal()
		date := o.PaymentDate()
		view.PaymentAmount = &amount
		view.PaymentDate = &date
		view.PaymentMethod = string(o.PaymentMethod())
		view.PaymentNotes = o.PaymentNotes()
		view.PaymentReceipt = o.PaymentReceipt()
	}
	if w, ok := o.Weight(); ok {
		weight := w.Weight
		view.Weight = &weight
	}

	return view
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
