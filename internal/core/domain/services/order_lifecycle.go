package services

import (
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// OrderLifecycle is a domain service that decides which transitions an order may take
// and executes them.
//
// Key responsibilities:
//   - Resolving the effective status (raw stage plus the partial-payment overlay)
//   - Filtering the catalog down to the transitions legal for one order
//   - Validating transition input
//   - Producing the next order for forward and backward transitions
//
// Business rules:
//   - The input order is never mutated; every execution returns a new order
//   - A failed execution changes nothing
//   - An underpaid order past the payment stage keeps its stage and reports
//     partially_paid as its effective status
//   - Backward transitions ignore the overlay and look at the raw status only
//
// Example usage:
//
//	lifecycle := services.NewOrderLifecycle(order.DefaultCatalog(), time.Now)
//	for _, t := range lifecycle.AvailableTransitions(o) {
//	    fmt.Println(t.Label)
//	}
//	next, err := lifecycle.ExecuteForward(o, chosen, input)
//	if errors.Is(err, errs.ErrInputIsIncomplete) {
//	    // Re-prompt for the fields listed in the error
//	}
type OrderLifecycle struct {
	catalog order.Catalog
	now     func() time.Time
}

// NewOrderLifecycle creates the service over catalog. A nil clock falls back to time.Now.
func NewOrderLifecycle(catalog order.Catalog, clock func() time.Time) OrderLifecycle {
	if clock == nil {
		clock = time.Now
	}
	return OrderLifecycle{catalog: catalog, now: clock}
}

// EffectiveStatus returns the status used for transition lookup.
func (l OrderLifecycle) EffectiveStatus(o *order.Order) order.Status {
	return o.EffectiveStatus()
}

// AvailableTransitions returns the forward transitions legal for o, in catalog order.
//
// Filtering steps:
//   - start with the entries leaving the raw status
//   - a partially paid order in a payment stage also gets every partially_paid entry;
//     past the payment stage it gets the payment-completion entry only
//   - at arrived and in_delivery exactly one entry survives, chosen by the payment state
func (l OrderLifecycle) AvailableTransitions(o *order.Order) []order.Transition {
	raw := o.Status()
	if raw.IsTerminal() {
		return []order.Transition{}
	}

	partial := o.IsPartiallyPaid()
	available := l.catalog.ForwardFrom(raw)

	if partial && raw != order.PartiallyPaid {
		if raw.IsPaymentStage() {
			available = append(available, l.catalog.ForwardFrom(order.PartiallyPaid)...)
		} else if t, ok := l.catalog.Lookup(order.PartiallyPaid, order.InputPaymentConfirmation, false); ok {
			// The goods are already ordered, so partially_paid -> ordered would move the stage backwards.
			available = append(available, t)
		}
	}

	switch raw {
	case order.Arrived:
		available = keep(available, func(t order.Transition) bool {
			if partial {
				return t.From == order.Arrived && t.Kind == order.InputRemainingPaymentWithWeight
			}
			return t.Kind != order.InputRemainingPaymentWithWeight
		})
	case order.InDelivery:
		available = keep(available, func(t order.Transition) bool {
			if partial {
				return t.From == order.InDelivery && t.Kind == order.InputPaymentConfirmation
			}
			return t.Kind == order.InputNone
		})
	}

	return available
}

// AvailableBackwardTransitions returns the backward transitions leaving the raw status.
func (l OrderLifecycle) AvailableBackwardTransitions(o *order.Order) []order.Transition {
	return l.catalog.BackwardFrom(o.Status())
}

// AutoAdvance returns the single input-less transition a caller may apply without
// asking for input. ok is false when there is a choice or input is needed.
func (l OrderLifecycle) AutoAdvance(o *order.Order) (order.Transition, bool) {
	available := l.AvailableTransitions(o)
	if len(available) != 1 || available[0].RequiresInput() {
		return order.Transition{}, false
	}
	return available[0], true
}

// Validate checks input against the completeness rules of t's input kind.
func (l OrderLifecycle) Validate(t order.Transition, input order.TransitionInput) error {
	return input.Validate(t.Kind)
}

// ExecuteForward applies t to a copy of o and returns the copy.
//
// Errors:
//   - *errs.TransitionIsIllegalError when t is not available for o
//   - *errs.InputIsIncompleteError when input fails validation
//   - *errs.InvariantIsViolatedError when the payment ledger would break its invariants
func (l OrderLifecycle) ExecuteForward(
	o *order.Order,
	t order.Transition,
	input order.TransitionInput,
) (*order.Order, error) {
	if err := l.validate(o); err != nil {
		return nil, err
	}

	chosen, ok := find(l.AvailableTransitions(o), t)
	if !ok || chosen.Backward {
		return nil, errs.NewTransitionIsIllegalError(t.From.String(), t.To.String())
	}

	if err := l.Validate(chosen, input); err != nil {
		return nil, err
	}

	now := l.now()
	next := o.Clone()
	target := chosen.To

	var err error
	switch chosen.Kind {
	case order.InputNone:
	case order.InputPaymentConfirmation:
		target, err = l.applyPayment(o, next, chosen, input, now)
	case order.InputInternationalShipping:
		next.AppendInternationalShippingNumbers(input.CleanShippingNumbers())
	case order.InputTracking:
		next.AppendTrackingNumbers(input.CleanTrackingNumbers())
	case order.InputWeightStorage:
		err = captureWeight(next, target, input)
	case order.InputDeliveryChoice:
		next.RecordDeliveryChoice(input.DeliveryChoice, input.DeliveryNote)
	case order.InputRemainingPaymentWithWeight:
		if target, err = l.applyPayment(o, next, chosen, input, now); err == nil {
			err = captureWeight(next, target, input)
		}
	default:
		err = chosen.Kind.Validate()
	}
	if err != nil {
		return nil, err
	}

	if err = next.MoveTo(target, now); err != nil {
		return nil, err
	}

	return next, nil
}

// ExecuteBackward reverts t on a copy of o and returns the copy. Only the data introduced
// by the forward step into t.From is removed.
//
// The ordered -> paid rollback lands on partially_paid when the remaining payments
// do not cover the final price.
func (l OrderLifecycle) ExecuteBackward(o *order.Order, t order.Transition) (*order.Order, error) {
	if err := l.validate(o); err != nil {
		return nil, err
	}

	chosen, ok := find(l.AvailableBackwardTransitions(o), t)
	if !ok || !chosen.Backward {
		return nil, errs.NewTransitionIsIllegalError(t.From.String(), t.To.String())
	}

	next := o.Clone()
	next.RevertStage(chosen.From)

	target := chosen.To
	if target == order.Paid && next.IsPartiallyPaid() {
		target = order.PartiallyPaid
	}

	if err := next.MoveTo(target, l.now()); err != nil {
		return nil, err
	}

	return next, nil
}

// applyPayment records the payment on next and returns the resulting status.
// Fully paid orders reach the nominal target, except that completing the overlay
// payment past the payment stage keeps the raw stage. Underpaid orders become
// partially_paid in a payment stage and keep their raw stage otherwise.
// The entry is tagged with the resulting status so the backward step leaving it
// removes exactly this payment.
func (l OrderLifecycle) applyPayment(
	current, next *order.Order,
	t order.Transition,
	input order.TransitionInput,
	now time.Time,
) (order.Status, error) {
	amount, err := kernel.NewMoney(input.Amount)
	if err != nil {
		return order.Unknown, errs.NewInvariantIsViolatedError("payment amount is positive", err)
	}

	date := input.PaymentDate
	if date.IsZero() {
		date = now
	}

	target := paymentTarget(current, t, amount)
	if err = next.RecordPayment(order.PaymentEntry{
		Stage:   target,
		Amount:  amount,
		Method:  input.Method,
		Date:    date,
		Notes:   strings.TrimSpace(input.PaymentNotes),
		Receipt: input.Receipt,
	}); err != nil {
		return order.Unknown, err
	}

	return target, nil
}

func paymentTarget(current *order.Order, t order.Transition, amount kernel.Money) order.Status {
	raw := current.Status()
	total := current.PaymentAmount().Add(amount)

	if total.GreaterThanOrEqual(current.FinalPrice()) {
		if t.From == order.PartiallyPaid && !raw.IsPaymentStage() {
			return raw
		}
		return t.To
	}

	if raw.IsPaymentStage() {
		return order.PartiallyPaid
	}
	return raw
}

func (l OrderLifecycle) validate(o *order.Order) error {
	if err := l.catalog.Validate(); err != nil {
		return err
	}
	return o.Validate()
}

func captureWeight(next *order.Order, stage order.Status, input order.TransitionInput) error {
	return next.CaptureWeight(order.WeightCapture{
		Stage:           stage,
		Weight:          input.Weight,
		StorageLocation: strings.TrimSpace(input.StorageLocation),
	})
}

func find(transitions []order.Transition, t order.Transition) (order.Transition, bool) {
	for _, candidate := range transitions {
		if candidate.IsEqual(t) {
			return candidate, true
		}
	}
	return order.Transition{}, false
}

func keep(transitions []order.Transition, predicate func(order.Transition) bool) []order.Transition {
	result := transitions[:0]
	for _, t := range transitions {
		if predicate(t) {
			result = append(result, t)
		}
	}
	return result
}
