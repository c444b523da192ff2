package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// InputKind names the data a forward transition captures before it may execute.
type InputKind int

const (
	// InputNone marks an immediate transition.
	InputNone InputKind = iota
	InputPaymentConfirmation
	InputInternationalShipping
	InputTracking
	InputWeightStorage
	InputDeliveryChoice
	InputRemainingPaymentWithWeight
)

func getInputKindStrings() map[InputKind]string {
	return map[InputKind]string{
		InputNone:                       "none",
		InputPaymentConfirmation:        "payment_confirmation",
		InputInternationalShipping:      "international_shipping",
		InputTracking:                   "tracking",
		InputWeightStorage:              "weight_storage",
		InputDeliveryChoice:             "delivery_choice",
		InputRemainingPaymentWithWeight: "remaining_payment_with_weight",
	}
}

// ParseInputKind maps a wire name to its InputKind. The empty string means InputNone.
func ParseInputKind(s string) (InputKind, error) {
	if s == "" {
		return InputNone, nil
	}
	for kind, name := range getInputKindStrings() {
		if name == s {
			return kind, nil
		}
	}
	return InputNone, errs.NewValueIsInvalidErrorWithCause(
		"input kind is invalid",
		fmt.Errorf("%q is not a known input kind", s),
	)
}

func (k InputKind) Validate() error {
	if _, ok := getInputKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("input kind is invalid", fmt.Errorf("%d is not a valid input kind", k))
	}
	return nil
}

func (k InputKind) String() string {
	if str, ok := getInputKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

// IsPaymentBearing reports whether executing a transition of this kind records a payment.
// Callers use it to trigger invoice generation exactly once per transition.
func (k InputKind) IsPaymentBearing() bool {
	return k == InputPaymentConfirmation || k == InputRemainingPaymentWithWeight
}

// CapturesWeight reports whether the kind captures weight and storage location.
func (k InputKind) CapturesWeight() bool {
	return k == InputWeightStorage || k == InputRemainingPaymentWithWeight
}
