package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root moved through the lifecycle by the transition executors.
//
// Order follows these invariants:
//   - finalPrice is positive and never changes after creation
//   - the payment total only grows while moving forward
//   - shipping and tracking numbers are append-only; only a rollback resets them
//   - every rollback removes only the data its forward counterpart introduced
//
// Executors never mutate the order they receive. They work on Clone and return it.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// status is the raw, persisted stage. See EffectiveStatus for the payment overlay.
	status Status

	// finalPrice is the amount owed
	finalPrice kernel.Money

	// payments is the ordered payment ledger
	payments []PaymentEntry

	internationalShippingNumbers []string
	trackingNumbers              []string

	// weights holds warehouse captures; the latest one is current
	weights []WeightCapture

	// notes is the free text given at creation; noteEntries are lines appended by transitions
	notes       string
	noteEntries []NoteEntry

	// invoiceSent is set by the invoicing collaborator
	invoiceSent bool

	createdAt time.Time
	updatedAt time.Time

	// version is the persisted revision used for optimistic locking
	version int64

	// isConstructed ensures the order was created via NewOrder or RestoreOrder
	isConstructed bool
}

// Snapshot is the full state of an Order, used for persistence and for comparing orders.
type Snapshot struct {
	ID                           kernel.UUID
	Status                       Status
	FinalPrice                   kernel.Money
	Payments                     []PaymentEntry
	InternationalShippingNumbers []string
	TrackingNumbers              []string
	Weights                      []WeightCapture
	Notes                        string
	NoteEntries                  []NoteEntry
	InvoiceSent                  bool
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
	Version                      int64
}

// NewOrder creates an order in status New with no payment, shipping or weight data.
//
// Example:
//
//	price, _ := kernel.MoneyFromString("65000")
//	o, err := order.NewOrder(kernel.NewUUID(), price, "", time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id kernel.UUID, finalPrice kernel.Money, notes string, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        New,
		notes:         notes,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setFinalPrice(finalPrice),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}
	o.updatedAt = o.createdAt

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		status:                       s.Status,
		payments:                     copyPayments(s.Payments),
		internationalShippingNumbers: copyStrings(s.InternationalShippingNumbers),
		trackingNumbers:              copyStrings(s.TrackingNumbers),
		weights:                      copyWeights(s.Weights),
		notes:                        s.Notes,
		noteEntries:                  copyNotes(s.NoteEntries),
		invoiceSent:                  s.InvoiceSent,
		updatedAt:                    s.UpdatedAt,
		version:                      s.Version,
		isConstructed:                true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.status.Validate(),
		o.setFinalPrice(s.FinalPrice),
		o.setCreatedAt(s.CreatedAt),
		validatePayments(o.payments),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// Clone returns a deep copy that can be mutated without affecting o.
func (o *Order) Clone() *Order {
	c := *o
	c.payments = copyPayments(o.payments)
	c.internationalShippingNumbers = copyStrings(o.internationalShippingNumbers)
	c.trackingNumbers = copyStrings(o.trackingNumbers)
	c.weights = copyWeights(o.weights)
	c.noteEntries = copyNotes(o.noteEntries)
	return &c
}

// Snapshot returns a copy of the full order state.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                           o.id,
		Status:                       o.status,
		FinalPrice:                   o.finalPrice,
		Payments:                     copyPayments(o.payments),
		InternationalShippingNumbers: copyStrings(o.internationalShippingNumbers),
		TrackingNumbers:              copyStrings(o.trackingNumbers),
		Weights:                      copyWeights(o.weights),
		Notes:                        o.notes,
		NoteEntries:                  copyNotes(o.noteEntries),
		InvoiceSent:                  o.invoiceSent,
		CreatedAt:                    o.createdAt,
		UpdatedAt:                    o.updatedAt,
		Version:                      o.version,
	}
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the raw stored stage.
func (o *Order) Status() Status {
	return o.status
}

func (o *Order) FinalPrice() kernel.Money {
	return o.finalPrice
}

// HasPayment reports whether any payment was recorded.
func (o *Order) HasPayment() bool {
	return len(o.payments) > 0
}

// PaymentAmount returns the cumulative amount received, zero when nothing was paid.
func (o *Order) PaymentAmount() kernel.Money {
	total := kernel.ZeroMoney()
	for _, p := range o.payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Payments returns a copy of the payment ledger.
func (o *Order) Payments() []PaymentEntry {
	return copyPayments(o.payments)
}

// PaymentMethod returns the method of the latest payment.
func (o *Order) PaymentMethod() PaymentMethod {
	if p, ok := o.latestPayment(); ok {
		return p.Method
	}
	return ""
}

// PaymentDate returns the date of the latest payment.
func (o *Order) PaymentDate() time.Time {
	if p, ok := o.latestPayment(); ok {
		return p.Date
	}
	return time.Time{}
}

func (o *Order) PaymentNotes() string {
	if p, ok := o.latestPayment(); ok {
		return p.Notes
	}
	return ""
}

func (o *Order) PaymentReceipt() string {
	if p, ok := o.latestPayment(); ok {
		return p.Receipt
	}
	return ""
}

// IsPartiallyPaid reports whether something positive was paid but less than the final price.
func (o *Order) IsPartiallyPaid() bool {
	if !o.HasPayment() {
		return false
	}
	total := o.PaymentAmount()
	return total.IsPositive() && total.LessThan(o.finalPrice)
}

// IsFullyPaid reports whether the payments cover the final price.
func (o *Order) IsFullyPaid() bool {
	return o.PaymentAmount().GreaterThanOrEqual(o.finalPrice)
}

// EffectiveStatus returns PartiallyPaid while a partial payment is outstanding,
// otherwise the raw status.
func (o *Order) EffectiveStatus() Status {
	if o.IsPartiallyPaid() {
		return PartiallyPaid
	}
	return o.status
}

func (o *Order) InternationalShippingNumbers() []string {
	return copyStrings(o.internationalShippingNumbers)
}

func (o *Order) TrackingNumbers() []string {
	return copyStrings(o.trackingNumbers)
}

// TrackingNumber mirrors the first tracking number. It is empty when none was recorded.
func (o *Order) TrackingNumber() string {
	if len(o.trackingNumbers) == 0 {
		return ""
	}
	return o.trackingNumbers[0]
}

// Weight returns the latest captured weight and whether one exists.
func (o *Order) Weight() (WeightCapture, bool) {
	if len(o.weights) == 0 {
		return WeightCapture{}, false
	}
	return o.weights[len(o.weights)-1], true
}

func (o *Order) Weights() []WeightCapture {
	return copyWeights(o.weights)
}

// StorageLocation returns the storage location of the latest weight capture.
func (o *Order) StorageLocation() string {
	if w, ok := o.Weight(); ok {
		return w.StorageLocation
	}
	return ""
}

// Notes renders the creation notes followed by every appended line.
func (o *Order) Notes() string {
	lines := make([]string, 0, len(o.noteEntries)+1)
	if o.notes != "" {
		lines = append(lines, o.notes)
	}
	for _, e := range o.noteEntries {
		lines = append(lines, e.Text)
	}
	return strings.Join(lines, "\n")
}

func (o *Order) NoteEntries() []NoteEntry {
	return copyNotes(o.noteEntries)
}

func (o *Order) InvoiceSent() bool {
	return o.invoiceSent
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) Version() int64 {
	return o.version
}

// MoveTo sets the raw status and refreshes updatedAt.
func (o *Order) MoveTo(status Status, at time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	o.updatedAt = at
	return nil
}

// RecordPayment appends entry to the payment ledger. A non-positive amount or a
// total that would decrease violates the accumulation invariant.
func (o *Order) RecordPayment(entry PaymentEntry) error {
	if err := entry.Amount.Validate(); err != nil {
		return errs.NewInvariantIsViolatedError("payment amount is positive", err)
	}
	if !entry.Amount.IsPositive() {
		return errs.NewInvariantIsViolatedError("payment amount is positive",
			fmt.Errorf("%s is not greater than 0", entry.Amount))
	}

	before := o.PaymentAmount()
	after := before.Add(entry.Amount)
	if after.LessThan(before) {
		return errs.NewInvariantIsViolatedError("payment total never decreases",
			fmt.Errorf("%s is less than %s", after, before))
	}

	o.payments = append(o.payments, entry)
	return nil
}

// AppendInternationalShippingNumbers appends numbers in order and logs one note line per number.
func (o *Order) AppendInternationalShippingNumbers(numbers []string) {
	for _, n := range numbers {
		o.internationalShippingNumbers = append(o.internationalShippingNumbers, n)
		o.noteEntries = append(o.noteEntries, NoteEntry{
			Tag:  NoteShippingNumber,
			Text: fmt.Sprintf("International shipping number: %s", n),
		})
	}
}

// AppendTrackingNumbers appends numbers in order.
func (o *Order) AppendTrackingNumbers(numbers []string) {
	o.trackingNumbers = append(o.trackingNumbers, numbers...)
}

// CaptureWeight records a warehouse measurement.
func (o *Order) CaptureWeight(capture WeightCapture) error {
	if !capture.Weight.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("weight is invalid",
			fmt.Errorf("%s is not greater than 0", capture.Weight))
	}
	if strings.TrimSpace(capture.StorageLocation) == "" {
		return errs.NewValueIsRequiredError("storage location")
	}
	o.weights = append(o.weights, capture)
	return nil
}

// RecordDeliveryChoice appends a note line naming the choice and the optional free-text note.
func (o *Order) RecordDeliveryChoice(choice DeliveryChoice, note string) {
	text := fmt.Sprintf("Delivery method: %s", choice)
	if note = strings.TrimSpace(note); note != "" {
		text += " - " + note
	}
	o.noteEntries = append(o.noteEntries, NoteEntry{Tag: NoteDeliveryMethod, Text: text})
}

// RevertStage removes the data introduced by the forward steps that left the order in
// stage: every payment and weight capture tagged with stage plus the stage's own evidence.
// It does not change the status.
func (o *Order) RevertStage(stage Status) {
	o.payments = withoutPayments(o.payments, stage)
	o.weights = withoutWeights(o.weights, stage)

	switch stage {
	case PartiallyPaid, Paid:
		o.payments = nil
	case Ordered:
		o.internationalShippingNumbers = nil
		o.noteEntries = withoutNotes(o.noteEntries, NoteShippingNumber)
	case Shipped:
		o.trackingNumbers = nil
	case InDelivery:
		o.noteEntries = withoutNotes(o.noteEntries, NoteDeliveryMethod)
	}
}

// MarkInvoiceSent records that the invoicing collaborator delivered an invoice.
func (o *Order) MarkInvoiceSent(at time.Time) {
	o.invoiceSent = true
	o.updatedAt = at
}

func (o *Order) latestPayment() (PaymentEntry, bool) {
	if len(o.payments) == 0 {
		return PaymentEntry{}, false
	}
	return o.payments[len(o.payments)-1], true
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setFinalPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	if !price.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("final price is invalid",
			fmt.Errorf("%s is not greater than 0", price))
	}
	o.finalPrice = price
	return nil
}

func (o *Order) setCreatedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	o.createdAt = at
	return nil
}

func validatePayments(payments []PaymentEntry) error {
	for i, p := range payments {
		if err := p.Amount.Validate(); err != nil {
			return err
		}
		if !p.Amount.IsPositive() {
			return errs.NewValueIsInvalidErrorWithCause("payment is invalid",
				fmt.Errorf("payment %d amount %s is not greater than 0", i, p.Amount))
		}
	}
	return nil
}

func copyStrings(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	return append([]string(nil), src...)
}

func copyPayments(src []PaymentEntry) []PaymentEntry {
	if len(src) == 0 {
		return nil
	}
	return append([]PaymentEntry(nil), src...)
}

func copyWeights(src []WeightCapture) []WeightCapture {
	if len(src) == 0 {
		return nil
	}
	return append([]WeightCapture(nil), src...)
}

func copyNotes(src []NoteEntry) []NoteEntry {
	if len(src) == 0 {
		return nil
	}
	return append([]NoteEntry(nil), src...)
}
