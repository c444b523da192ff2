package http

import (
	"errors"
	"net/http"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK         = "ok"
	outcomeIncomplete = "incomplete"
	outcomeIllegal    = "illegal"
	outcomeConflict   = "conflict"
	outcomeError      = "error"
)

// Metrics counts executed transitions and serves the registry on /metrics.
type Metrics struct {
	transitions *prometheus.CounterVec
	handler     http.Handler
}

// NewMetrics registers the transition counter on registry.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderflow",
		Name:      "transitions_total",
		Help:      "Order transitions requested, by direction, stages, input kind and outcome.",
	}, []string{"direction", "from", "to", "input_kind", "outcome"})

	if err := registry.Register(transitions); err != nil {
		return nil, err
	}

	return &Metrics{
		transitions: transitions,
		handler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}, nil
}

// ObserveTransition records one transition attempt and its result.
func (m *Metrics) ObserveTransition(t order.Transition, err error) {
	direction := "forward"
	if t.Backward {
		direction = "backward"
	}
	m.transitions.WithLabelValues(direction, t.From.String(), t.To.String(), t.Kind.String(), outcome(err)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return m.handler
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, errs.ErrInputIsIncomplete):
		return outcomeIncomplete
	case errors.Is(err, errs.ErrTransitionIsIllegal):
		return outcomeIllegal
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return outcomeConflict
	default:
		return outcomeError
	}
}
