// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Ledgers and number sequences are stored as JSONB columns so an order is always read and
// written as one row.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is indexed for the undelivered orders listing. Version backs optimistic locking.
type OrderDTO struct {
	ID                           uuid.UUID                          `gorm:"type:uuid;primaryKey"`
	Status                       int                                `gorm:"index"`
	FinalPrice                   decimal.Decimal                    `gorm:"type:numeric"`
	Payments                     datatypes.JSONSlice[PaymentDTO]    `gorm:"type:jsonb"`
	InternationalShippingNumbers datatypes.JSONSlice[string]        `gorm:"type:jsonb"`
	TrackingNumbers              datatypes.JSONSlice[string]        `gorm:"type:jsonb"`
	Weights                      datatypes.JSONSlice[WeightDTO]     `gorm:"type:jsonb"`
	Notes                        string                             `gorm:"type:text"`
	NoteEntries                  datatypes.JSONSlice[NoteEntryDTO] `gorm:"type:jsonb"`
	InvoiceSent                  bool
	CreatedAt                    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt                    time.Time `gorm:"autoUpdateTime:false"`
	Version                      int64     `gorm:"not null;default:0"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// PaymentDTO is one payment ledger entry inside the payments column.
type PaymentDTO struct {
	Stage   int             `json:"stage"`
	Amount  decimal.Decimal `json:"amount"`
	Method  string          `json:"method"`
	Date    time.Time       `json:"date"`
	Notes   string          `json:"notes,omitempty"`
	Receipt string          `json:"receipt,omitempty"`
}

// WeightDTO is one warehouse capture inside the weights column.
type WeightDTO struct {
	Stage           int             `json:"stage"`
	Weight          decimal.Decimal `json:"weight"`
	StorageLocation string          `json:"storageLocation"`
}

// NoteEntryDTO is one tagged note line inside the note_entries column.
type NoteEntryDTO struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	var payments []PaymentDTO
	for _, p := range s.Payments {
		payments = append(payments, PaymentDTO{
			Stage:   int(p.Stage),
			Amount:  p.Amount.Decimal(),
			Method:  string(p.Method),
			Date:    p.Date,
			Notes:   p.Notes,
			Receipt: p.Receipt,
		})
	}

	var weights []WeightDTO
	for _, w := range s.Weights {
		weights = append(weights, WeightDTO{
			Stage:           int(w.Stage),
			Weight:          w.Weight,
			StorageLocation: w.StorageLocation,
		})
	}

	var notes []NoteEntryDTO
	for _, n := range s.NoteEntries {
		notes = append(notes, NoteEntryDTO{Tag: string(n.Tag), Text: n.Text})
	}

	return OrderDTO{
		ID:                           s.ID.Bytes(),
		Status:                       int(s.Status),
		FinalPrice:                   s.FinalPrice.Decimal(),
		Payments:                     payments,
		InternationalShippingNumbers: s.InternationalShippingNumbers,
		TrackingNumbers:              s.TrackingNumbers,
		Weights:                      weights,
		Notes:                        s.Notes,
		NoteEntries:                  notes,
		InvoiceSent:                  s.InvoiceSent,
		CreatedAt:                    s.CreatedAt,
		UpdatedAt:                    s.UpdatedAt,
		Version:                      s.Version,
	}
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	finalPrice, err := kernel.NewMoney(dto.FinalPrice)
	if err != nil {
		return nil, err
	}

	var payments []order.PaymentEntry
	for _, p := range dto.Payments {
		amount, amountErr := kernel.NewMoney(p.Amount)
		if amountErr != nil {
			return nil, amountErr
		}
		payments = append(payments, order.PaymentEntry{
			Stage:   order.Status(p.Stage),
			Amount:  amount,
			Method:  order.PaymentMethod(p.Method),
			Date:    p.Date,
			Notes:   p.Notes,
			Receipt: p.Receipt,
		})
	}

	var weights []order.WeightCapture
	for _, w := range dto.Weights {
		weights = append(weights, order.WeightCapture{
			Stage:           order.Status(w.Stage),
			Weight:          w.Weight,
			StorageLocation: w.StorageLocation,
		})
	}

	var notes []order.NoteEntry
	for _, n := range dto.NoteEntries {
		notes = append(notes, order.NoteEntry{Tag: order.NoteTag(n.Tag), Text: n.Text})
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                           id,
		Status:                       order.Status(dto.Status),
		FinalPrice:                   finalPrice,
		Payments:                     payments,
		InternationalShippingNumbers: dto.InternationalShippingNumbers,
		TrackingNumbers:              dto.TrackingNumbers,
		Weights:                      weights,
		Notes:                        dto.Notes,
		NoteEntries:                  notes,
		InvoiceSent:                  dto.InvoiceSent,
		CreatedAt:                    dto.CreatedAt,
		UpdatedAt:                    dto.UpdatedAt,
		Version:                      dto.Version,
	})
}
