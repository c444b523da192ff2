package queries

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetUndeliveredOrdersQueryHandler reads the order list straight from the orders table.
// The paid amount is summed from the payments JSONB column in SQL.
type GetUndeliveredOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetUndeliveredOrdersQueryHandler(db *gorm.DB) GetUndeliveredOrdersQueryHandler {
	return GetUndeliveredOrdersQueryHandler{db: db}
}

// Handle returns undelivered orders, most recently updated first.
func (h GetUndeliveredOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUndeliveredOrdersQuery,
) ([]GetUndeliveredOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUndeliveredOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.status,
			o.final_price,
			COALESCE((
				SELECT SUM((p->>'amount')::numeric)
				FROM jsonb_array_elements(
					CASE WHEN jsonb_typeof(o.payments) = 'array' THEN o.payments ELSE '[]'::jsonb END
				) AS p
			), 0) AS paid_amount,
			o.updated_at
		FROM orders o
		WHERE o.status != ?
		ORDER BY o.updated_at DESC, o.id
	`, int(order.Delivered)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         uuid.UUID
			status     int
			finalPrice decimal.Decimal
			paidAmount decimal.Decimal
			updatedAt  time.Time
		)

		if err = rows.Scan(&id, &status, &finalPrice, &paidAmount, &updatedAt); err != nil {
			return nil, err
		}

		resp, mapErr := toUndeliveredOrder(id, order.Status(status), finalPrice, paidAmount)
		if mapErr != nil {
			return nil, mapErr
		}
		resp.UpdatedAt = updatedAt
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func toUndeliveredOrder(
	id uuid.UUID,
	status order.Status,
	finalPrice, paidAmount decimal.Decimal,
) (GetUndeliveredOrdersQueryResponse, error) {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetUndeliveredOrdersQueryResponse{}, err
	}

	price, err := kernel.NewMoney(finalPrice)
	if err != nil {
		return GetUndeliveredOrdersQueryResponse{}, err
	}

	paid, err := kernel.NewMoney(paidAmount)
	if err != nil {
		return GetUndeliveredOrdersQueryResponse{}, err
	}

	// Same overlay as (*order.Order).EffectiveStatus, computed without loading the ledger.
	effective := status
	if paid.IsPositive() && paid.LessThan(price) {
		effective = order.PartiallyPaid
	}

	return GetUndeliveredOrdersQueryResponse{
		ID:              orderID,
		Status:          status,
		EffectiveStatus: effective,
		FinalPrice:      price,
		PaidAmount:      paid,
	}, nil
}
