package ports

import "context"

// OrderChangedPublisher delivers change events to subscribers such as inventory
// and shipment linkage. Messages for one order keep their relative order.
type OrderChangedPublisher interface {
	Publish(ctx context.Context, messages ...OutboxMessage) error
}
