package order

import (
	"slices"
	"time"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// PaymentEntry is one recorded payment. Stage is the status the recording step left
// the order in, so the backward step leaving that status removes exactly its entries.
type PaymentEntry struct {
	Stage   Status
	Amount  kernel.Money
	Method  PaymentMethod
	Date    time.Time
	Notes   string
	Receipt string
}

// WeightCapture is one weight and storage measurement taken at the warehouse.
// Stage is tagged like PaymentEntry.Stage.
type WeightCapture struct {
	Stage           Status
	Weight          decimal.Decimal
	StorageLocation string
}

// NoteTag identifies which transition appended a note.
type NoteTag string

const (
	NoteShippingNumber NoteTag = "shipping_number"
	NoteDeliveryMethod NoteTag = "delivery_method"
)

// NoteEntry is a structured line appended to the order notes.
type NoteEntry struct {
	Tag  NoteTag
	Text string
}

func withoutPayments(entries []PaymentEntry, stage Status) []PaymentEntry {
	if !slices.ContainsFunc(entries, func(e PaymentEntry) bool { return e.Stage == stage }) {
		return entries
	}
	var result []PaymentEntry
	for _, e := range entries {
		if e.Stage != stage {
			result = append(result, e)
		}
	}
	return result
}

func withoutWeights(captures []WeightCapture, stage Status) []WeightCapture {
	if !slices.ContainsFunc(captures, func(c WeightCapture) bool { return c.Stage == stage }) {
		return captures
	}
	var result []WeightCapture
	for _, c := range captures {
		if c.Stage != stage {
			result = append(result, c)
		}
	}
	return result
}

func withoutNotes(entries []NoteEntry, tag NoteTag) []NoteEntry {
	var result []NoteEntry
	for _, e := range entries {
		if e.Tag != tag {
			result = append(result, e)
		}
	}
	return result
}
