package http

import (
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// resolve finds the catalog entry named by a request. Backward entries never carry input.
func (s *Server) resolve(from, to, inputKind string, backward bool) (order.Transition, error) {
	fromStatus, err := order.ParseStatus(from)
	if err != nil {
		return order.Transition{}, err
	}
	toStatus, err := order.ParseStatus(to)
	if err != nil {
		return order.Transition{}, err
	}

	kind, err := order.ParseInputKind(inputKind)
	if err != nil {
		return order.Transition{}, err
	}

	t, ok := s.catalog.Lookup(fromStatus, kind, backward)
	if !ok || t.To != toStatus {
		return order.Transition{}, errs.NewTransitionIsIllegalError(from, to)
	}
	return t, nil
}

func parseOrderID(raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return id, nil
}
