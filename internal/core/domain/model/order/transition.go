package order

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrCatalogIsNotConstructed is returned when a zero-value Catalog is used.
var ErrCatalogIsNotConstructed = errors.New("Catalog must be created via NewCatalog constructor")

// Transition is an immutable catalog entry describing one legal move between statuses.
// Several entries may share From; they differ by Kind and are narrowed by contextual
// filtering in the lifecycle service.
type Transition struct {
	From        Status
	To          Status
	Kind        InputKind
	Backward    bool
	Label       string
	Description string
}

// TransitionKey identifies a catalog entry.
type TransitionKey struct {
	From     Status
	Kind     InputKind
	Backward bool
}

func (t Transition) Key() TransitionKey {
	return TransitionKey{From: t.From, Kind: t.Kind, Backward: t.Backward}
}

// IsEqual compares the structural identity of two transitions, ignoring labels.
func (t Transition) IsEqual(other Transition) bool {
	return t.From == other.From && t.To == other.To && t.Kind == other.Kind && t.Backward == other.Backward
}

// RequiresInput reports whether the transition needs a payload before it may execute.
func (t Transition) RequiresInput() bool {
	return t.Kind != InputNone
}

func (t Transition) String() string {
	direction := "forward"
	if t.Backward {
		direction = "backward"
	}
	return fmt.Sprintf("%s %s -> %s [%s]", direction, t.From, t.To, t.Kind)
}

// Validate checks the structural rules every catalog entry obeys.
func (t Transition) Validate() error {
	if err := errors.Join(t.From.Validate(), t.To.Validate(), t.Kind.Validate()); err != nil {
		return err
	}
	if t.From == t.To {
		return errs.NewValueIsInvalidErrorWithCause("transition is invalid",
			fmt.Errorf("%s loops to itself", t))
	}
	if t.Backward && t.Kind != InputNone {
		return errs.NewValueIsInvalidErrorWithCause("transition is invalid",
			fmt.Errorf("%s is backward but requires input", t))
	}
	if !t.Backward && t.From.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("transition is invalid",
			fmt.Errorf("%s leaves a terminal status", t))
	}
	return nil
}

// Catalog is the read-only table of legal transitions. It is built once and shared;
// every accessor returns copies so callers cannot mutate it.
type Catalog struct { //nolint:recvcheck //using for validation
	forward  []Transition
	backward []Transition
	byKey    map[TransitionKey]Transition
	guard    guard.ConstructorGuard
}

// NewCatalog validates and indexes the given transitions, preserving declaration order.
// Entries must be unique per (From, Kind, Backward). Backward entries carry no input,
// so there is at most one per From.
func NewCatalog(transitions ...Transition) (Catalog, error) {
	c := Catalog{
		byKey: make(map[TransitionKey]Transition, len(transitions)),
		guard: guard.NewConstructorGuard(),
	}

	for _, t := range transitions {
		if err := t.Validate(); err != nil {
			return Catalog{}, err
		}
		if _, exists := c.byKey[t.Key()]; exists {
			return Catalog{}, errs.NewValueIsInvalidErrorWithCause("catalog is invalid",
				fmt.Errorf("%s is declared twice", t))
		}
		if t.Backward {
			c.backward = append(c.backward, t)
		} else {
			c.forward = append(c.forward, t)
		}
		c.byKey[t.Key()] = t
	}

	return c, nil
}

// MustNewCatalog is NewCatalog for tables known at compile time.
func MustNewCatalog(transitions ...Transition) Catalog {
	c, err := NewCatalog(transitions...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Catalog) Validate() error {
	return c.guard.Validate(ErrCatalogIsNotConstructed)
}

// ForwardFrom returns the forward entries leaving s, in declaration order.
func (c Catalog) ForwardFrom(s Status) []Transition {
	return filterFrom(c.forward, s)
}

// BackwardFrom returns the backward entries leaving s.
func (c Catalog) BackwardFrom(s Status) []Transition {
	return filterFrom(c.backward, s)
}

// Lookup finds the entry for (from, kind, backward).
func (c Catalog) Lookup(from Status, kind InputKind, backward bool) (Transition, bool) {
	t, ok := c.byKey[TransitionKey{From: from, Kind: kind, Backward: backward}]
	return t, ok
}

// Transitions returns every entry, forward first.
func (c Catalog) Transitions() []Transition {
	all := make([]Transition, 0, len(c.forward)+len(c.backward))
	all = append(all, c.forward...)
	return append(all, c.backward...)
}

func filterFrom(transitions []Transition, s Status) []Transition {
	result := make([]Transition, 0, 2)
	for _, t := range transitions {
		if t.From == s {
			result = append(result, t)
		}
	}
	return result
}

// DefaultCatalog returns the order lifecycle table.
func DefaultCatalog() Catalog {
	return MustNewCatalog(
		// forward
		Transition{From: New, To: Paid, Kind: InputPaymentConfirmation,
			Label: "Confirm payment", Description: "Record a payment from the customer"},
		Transition{From: PartiallyPaid, To: Paid, Kind: InputPaymentConfirmation,
			Label: "Complete payment", Description: "Record a payment toward the outstanding balance"},
		Transition{From: PartiallyPaid, To: Ordered, Kind: InputInternationalShipping,
			Label: "Order internationally", Description: "Place the international order before full payment"},
		Transition{From: Paid, To: Ordered, Kind: InputInternationalShipping,
			Label: "Order internationally", Description: "Place the international order and record shipping numbers"},
		Transition{From: Ordered, To: Shipped, Kind: InputTracking,
			Label: "Mark shipped", Description: "Record tracking numbers"},
		Transition{From: Shipped, To: Linked, Kind: InputNone,
			Label: "Link shipment", Description: "Link the order to an inbound shipment"},
		Transition{From: Linked, To: Arrived, Kind: InputWeightStorage,
			Label: "Receive at warehouse", Description: "Record weight and storage location"},
		Transition{From: Arrived, To: WeightPaid, Kind: InputNone,
			Label: "Settle weight", Description: "Confirm the weight-dependent stage for a fully paid order"},
		Transition{From: Arrived, To: WeightPaid, Kind: InputRemainingPaymentWithWeight,
			Label: "Pay remaining balance", Description: "Record the remaining payment together with weight and storage"},
		Transition{From: WeightPaid, To: InDelivery, Kind: InputDeliveryChoice,
			Label: "Dispatch", Description: "Choose delivery or pickup"},
		Transition{From: InDelivery, To: Delivered, Kind: InputPaymentConfirmation,
			Label: "Deliver and collect", Description: "Collect the outstanding balance on delivery"},
		Transition{From: InDelivery, To: Delivered, Kind: InputNone,
			Label: "Deliver", Description: "Hand the order over to the customer"},

		// backward
		Transition{From: PartiallyPaid, To: New, Backward: true,
			Label: "Cancel payment", Description: "Remove recorded payments"},
		Transition{From: Paid, To: New, Backward: true,
			Label: "Cancel payment", Description: "Remove recorded payments"},
		Transition{From: Ordered, To: Paid, Backward: true,
			Label: "Cancel international order", Description: "Remove international shipping numbers"},
		Transition{From: Shipped, To: Ordered, Backward: true,
			Label: "Cancel shipment", Description: "Remove tracking numbers"},
		Transition{From: Linked, To: Shipped, Backward: true,
			Label: "Unlink shipment", Description: "Return to shipped"},
		Transition{From: Arrived, To: Linked, Backward: true,
			Label: "Cancel arrival", Description: "Remove weight and storage location"},
		Transition{From: WeightPaid, To: Arrived, Backward: true,
			Label: "Cancel weight settlement", Description: "Remove data captured when settling weight"},
		Transition{From: InDelivery, To: WeightPaid, Backward: true,
			Label: "Cancel dispatch", Description: "Remove the delivery method note"},
		Transition{From: Delivered, To: InDelivery, Backward: true,
			Label: "Cancel delivery", Description: "Remove payments collected on delivery"},
	)
}
