package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was received.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentMobileMoney  PaymentMethod = "mobile_money"
	PaymentCard         PaymentMethod = "card"
	PaymentOther        PaymentMethod = "other"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentMobileMoney, PaymentCard, PaymentOther:
		return true
	default:
		return false
	}
}

// DeliveryChoice is how the order leaves the warehouse.
type DeliveryChoice string

const (
	DeliveryHome   DeliveryChoice = "delivery"
	DeliveryPickup DeliveryChoice = "pickup"
)

func (c DeliveryChoice) IsValid() bool {
	return c == DeliveryHome || c == DeliveryPickup
}

// Field names reported by TransitionInput.Validate.
const (
	FieldAmount          = "amount"
	FieldMethod          = "method"
	FieldShippingNumbers = "shipping_numbers"
	FieldTrackingNumbers = "tracking_numbers"
	FieldWeight          = "weight"
	FieldStorageLocation = "storage_location"
	FieldDeliveryChoice  = "delivery_choice"
)

// TransitionInput is the caller-supplied payload of a forward transition. Only the
// fields relevant to the transition's InputKind are read. Receipt is an already
// resolved reference (URI or storage key); uploads are decoded before execution.
type TransitionInput struct {
	Amount       decimal.Decimal
	Method       PaymentMethod
	PaymentDate  time.Time
	PaymentNotes string
	Receipt      string

	ShippingNumbers []string
	TrackingNumbers []string

	Weight          decimal.Decimal
	StorageLocation string

	DeliveryChoice DeliveryChoice
	DeliveryNote   string
}

// Validate applies the completeness predicate of kind. On failure it returns an
// *errs.InputIsIncompleteError naming every failed field.
func (in TransitionInput) Validate(kind InputKind) error {
	var checks []fieldCheck

	switch kind {
	case InputNone:
		return nil
	case InputPaymentConfirmation:
		checks = in.paymentChecks()
	case InputInternationalShipping:
		checks = []fieldCheck{numbersCheck(FieldShippingNumbers, in.ShippingNumbers)}
	case InputTracking:
		checks = []fieldCheck{numbersCheck(FieldTrackingNumbers, in.TrackingNumbers)}
	case InputWeightStorage:
		checks = in.weightChecks()
	case InputDeliveryChoice:
		checks = []fieldCheck{in.deliveryChoiceCheck()}
	case InputRemainingPaymentWithWeight:
		checks = append(in.paymentChecks(), in.weightChecks()...)
	default:
		return kind.Validate()
	}

	var (
		fields []string
		causes []error
	)
	for _, check := range checks {
		if check.err != nil {
			fields = append(fields, check.field)
			causes = append(causes, check.err)
		}
	}
	if len(fields) == 0 {
		return nil
	}

	return errs.NewInputIsIncompleteError(kind.String(), fields, errors.Join(causes...))
}

// CleanShippingNumbers returns the trimmed, non-blank shipping numbers in input order.
func (in TransitionInput) CleanShippingNumbers() []string {
	return cleanNumbers(in.ShippingNumbers)
}

// CleanTrackingNumbers returns the trimmed, non-blank tracking numbers in input order.
func (in TransitionInput) CleanTrackingNumbers() []string {
	return cleanNumbers(in.TrackingNumbers)
}

type fieldCheck struct {
	field string
	err   error
}

func (in TransitionInput) paymentChecks() []fieldCheck {
	amount := fieldCheck{field: FieldAmount}
	if !in.Amount.IsPositive() {
		amount.err = errs.NewValueIsInvalidErrorWithCause(FieldAmount,
			fmt.Errorf("%s is not greater than 0", in.Amount.String()))
	}

	method := fieldCheck{field: FieldMethod}
	switch {
	case in.Method == "":
		method.err = errs.NewValueIsRequiredError(FieldMethod)
	case !in.Method.IsValid():
		method.err = errs.NewValueIsInvalidErrorWithCause(FieldMethod,
			fmt.Errorf("%q is not a supported payment method", in.Method))
	}

	return []fieldCheck{amount, method}
}

func (in TransitionInput) weightChecks() []fieldCheck {
	weight := fieldCheck{field: FieldWeight}
	if !in.Weight.IsPositive() {
		weight.err = errs.NewValueIsInvalidErrorWithCause(FieldWeight,
			fmt.Errorf("%s is not greater than 0", in.Weight.String()))
	}

	location := fieldCheck{field: FieldStorageLocation}
	if strings.TrimSpace(in.StorageLocation) == "" {
		location.err = errs.NewValueIsRequiredError(FieldStorageLocation)
	}

	return []fieldCheck{weight, location}
}

func (in TransitionInput) deliveryChoiceCheck() fieldCheck {
	check := fieldCheck{field: FieldDeliveryChoice}
	switch {
	case in.DeliveryChoice == "":
		check.err = errs.NewValueIsRequiredError(FieldDeliveryChoice)
	case !in.DeliveryChoice.IsValid():
		check.err = errs.NewValueIsInvalidErrorWithCause(FieldDeliveryChoice,
			fmt.Errorf("%q is neither delivery nor pickup", in.DeliveryChoice))
	}
	return check
}

func numbersCheck(field string, numbers []string) fieldCheck {
	check := fieldCheck{field: field}
	if len(cleanNumbers(numbers)) == 0 {
		check.err = errs.NewValueIsRequiredErrorWithCause(field, errors.New("at least one number must be supplied"))
	}
	return check
}

func cleanNumbers(numbers []string) []string {
	result := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
