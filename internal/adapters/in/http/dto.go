package http

import (
	"time"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response. Fields is set for incomplete transition input.
type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// NewOrder is the body of POST /api/v1/orders.
type NewOrder struct {
	FinalPrice decimal.Decimal `json:"finalPrice"`
	Notes      string          `json:"notes"`
}

type OrderCreated struct {
	ID string `json:"id"`
}

// OrderSummary is one entry of GET /api/v1/orders.
type OrderSummary struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	EffectiveStatus string          `json:"effectiveStatus"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Transition is the wire form of a catalog entry.
type Transition struct {
	From          string `json:"from"`
	To            string `json:"to"`
	InputKind     string `json:"inputKind"`
	Backward      bool   `json:"backward"`
	RequiresInput bool   `json:"requiresInput"`
	Label         string `json:"label"`
	Description   string `json:"description,omitempty"`
}

// OrderTransitions is the body of GET /api/v1/orders/:id/transitions.
type OrderTransitions struct {
	OrderID         string       `json:"orderId"`
	Status          string       `json:"status"`
	EffectiveStatus string       `json:"effectiveStatus"`
	Forward         []Transition `json:"forward"`
	Backward        []Transition `json:"backward"`
	AutoAdvance     *Transition  `json:"autoAdvance,omitempty"`
}

// TransitionInput carries the values a forward transition captures. Only the fields of
// the chosen input kind are read.
type TransitionInput struct {
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	PaymentDate     *time.Time      `json:"paymentDate,omitempty"`
	PaymentNotes    string          `json:"paymentNotes"`
	Receipt         string          `json:"receipt"`
	ShippingNumbers []string        `json:"shippingNumbers"`
	TrackingNumbers []string        `json:"trackingNumbers"`
	Weight          decimal.Decimal `json:"weight"`
	StorageLocation string          `json:"storageLocation"`
	DeliveryChoice  string          `json:"deliveryChoice"`
	DeliveryNote    string          `json:"deliveryNote"`
}

// ForwardTransitionRequest is the body of POST /api/v1/orders/:id/transitions/forward.
type ForwardTransitionRequest struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	InputKind string          `json:"inputKind"`
	Input     TransitionInput `json:"input"`
}

// BackwardTransitionRequest is the body of POST /api/v1/orders/:id/transitions/backward.
type BackwardTransitionRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func toTransition(t order.Transition) Transition {
	return Transition{
		From:          t.From.String(),
		To:            t.To.String(),
		InputKind:     t.Kind.String(),
		Backward:      t.Backward,
		RequiresInput: t.RequiresInput(),
		Label:         t.Label,
		Description:   t.Description,
	}
}

func toTransitions(ts []order.Transition) []Transition {
	result := make([]Transition, 0, len(ts))
	for _, t := range ts {
		result = append(result, toTransition(t))
	}
	return result
}

func toOrderTransitions(resp queries.GetOrderTransitionsQueryResponse) OrderTransitions {
	body := OrderTransitions{
		OrderID:         resp.OrderID.String(),
		Status:          resp.Status.String(),
		EffectiveStatus: resp.EffectiveStatus.String(),
		Forward:         toTransitions(resp.Forward),
		Backward:        toTransitions(resp.Backward),
	}
	if resp.AutoAdvance != nil {
		auto := toTransition(*resp.AutoAdvance)
		body.AutoAdvance = &auto
	}
	return body
}

func toOrderSummary(o queries.GetUndeliveredOrdersQueryResponse) OrderSummary {
	return OrderSummary{
		ID:              o.ID.String(),
		Status:          o.Status.String(),
		EffectiveStatus: o.EffectiveStatus.String(),
		FinalPrice:      o.FinalPrice.Decimal(),
		PaidAmount:      o.PaidAmount.Decimal(),
		UpdatedAt:       o.UpdatedAt,
	}
}

func (in TransitionInput) toDomain() order.TransitionInput {
	result := order.TransitionInput{
		Amount:          in.Amount,
		Method:          order.PaymentMethod(in.Method),
		PaymentNotes:    in.PaymentNotes,
		Receipt:         in.Receipt,
		ShippingNumbers: in.ShippingNumbers,
		TrackingNumbers: in.TrackingNumbers,
		Weight:          in.Weight,
		StorageLocation: in.StorageLocation,
		DeliveryChoice:  order.DeliveryChoice(in.DeliveryChoice),
		DeliveryNote:    in.DeliveryNote,
	}
	if in.PaymentDate != nil {
		result.PaymentDate = *in.PaymentDate
	}
	return result
}
