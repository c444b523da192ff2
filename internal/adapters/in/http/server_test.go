package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	server "orderflow/internal/adapters/in/http"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockExecuteTransitionHandler struct{ mock.Mock }

func (m *MockExecuteTransitionHandler) HandleForward(
	ctx context.Context,
	cmd commands.ExecuteForwardTransitionCommand,
) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockExecuteTransitionHandler) HandleBackward(
	ctx context.Context,
	cmd commands.ExecuteBackwardTransitionCommand,
) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockMarkInvoiceSentHandler struct{ mock.Mock }

func (m *MockMarkInvoiceSentHandler) Handle(ctx context.Context, cmd commands.MarkInvoiceSentCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockUndeliveredOrdersHandler struct{ mock.Mock }

func (m *MockUndeliveredOrdersHandler) Handle(
	ctx context.Context,
	query queries.GetUndeliveredOrdersQuery,
) ([]queries.GetUndeliveredOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	result, _ := args.Get(0).([]queries.GetUndeliveredOrdersQueryResponse)
	return result, args.Error(1)
}

type MockOrderTransitionsHandler struct{ mock.Mock }

func (m *MockOrderTransitionsHandler) Handle(
	ctx context.Context,
	query queries.GetOrderTransitionsQuery,
) (queries.GetOrderTransitionsQueryResponse, error) {
	args := m.Called(ctx, query)
	result, _ := args.Get(0).(queries.GetOrderTransitionsQueryResponse)
	return result, args.Error(1)
}

type fixture struct {
	e           *echo.Echo
	registry    *prometheus.Registry
	create      *MockCreateOrderHandler
	transitions *MockExecuteTransitionHandler
	invoice     *MockMarkInvoiceSentHandler
	undelivered *MockUndeliveredOrdersHandler
	available   *MockOrderTransitionsHandler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	registry := prometheus.NewRegistry()
	metrics, err := server.NewMetrics(registry)
	require.NoError(t, err)

	f := fixture{
		e:           echo.New(),
		registry:    registry,
		create:      &MockCreateOrderHandler{},
		transitions: &MockExecuteTransitionHandler{},
		invoice:     &MockMarkInvoiceSentHandler{},
		undelivered: &MockUndeliveredOrdersHandler{},
		available:   &MockOrderTransitionsHandler{},
	}

	server.NewServer(
		f.create, f.transitions, f.invoice, f.undelivered, f.available,
		order.DefaultCatalog(), metrics,
	).RegisterHandlers(f.e)

	return f
}

func (f fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func newStoredOrder(t *testing.T) *order.Order {
	t.Helper()

	price, err := kernel.MoneyFromString("65000")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), price, "", time.Date(2025, 4, 3, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return o
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) server.Error {
	t.Helper()

	var body server.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestServer_CreateOrder(t *testing.T) {
	t.Run("should create an order and return its id", func(t *testing.T) {
		f := newFixture(t)
		f.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
			return cmd.FinalPrice().Decimal().Equal(decimal.NewFromInt(65000)) && cmd.Notes() == "fragile"
		})).Return(nil)

		rec := f.do(http.MethodPost, "/api/v1/orders", `{"finalPrice":"65000","notes":"fragile"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body server.OrderCreated
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		_, err := kernel.UUIDFromString(body.ID)
		require.NoError(t, err)
		f.create.AssertExpectations(t)
	})

	t.Run("should reject a negative price", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders", `{"finalPrice":"-1"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.create.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders", `{"finalPrice":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_GetOrders(t *testing.T) {
	t.Run("should list undelivered orders", func(t *testing.T) {
		f := newFixture(t)
		price, _ := kernel.MoneyFromString("100")
		paid, _ := kernel.MoneyFromString("40")
		id := kernel.NewUUID()
		f.undelivered.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetUndeliveredOrdersQueryResponse{{
			ID:              id,
			Status:          order.Shipped,
			EffectiveStatus: order.PartiallyPaid,
			FinalPrice:      price,
			PaidAmount:      paid,
		}}, nil)

		rec := f.do(http.MethodGet, "/api/v1/orders", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body []server.OrderSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, id.String(), body[0].ID)
		assert.Equal(t, "shipped", body[0].Status)
		assert.Equal(t, "partially_paid", body[0].EffectiveStatus)
		assert.True(t, body[0].PaidAmount.Equal(decimal.NewFromInt(40)))
	})

	t.Run("should hide internal errors", func(t *testing.T) {
		f := newFixture(t)
		f.undelivered.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		rec := f.do(http.MethodGet, "/api/v1/orders", "")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestServer_GetOrderTransitions(t *testing.T) {
	t.Run("should return forward, backward and auto-advance transitions", func(t *testing.T) {
		f := newFixture(t)
		catalog := order.DefaultCatalog()
		auto := catalog.ForwardFrom(order.Shipped)[0]
		id := kernel.NewUUID()
		f.available.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderTransitionsQuery) bool {
			return q.OrderID().IsEqual(id)
		})).Return(queries.GetOrderTransitionsQueryResponse{
			OrderID:         id,
			Status:          order.Shipped,
			EffectiveStatus: order.Shipped,
			Forward:         catalog.ForwardFrom(order.Shipped),
			Backward:        catalog.BackwardFrom(order.Shipped),
			AutoAdvance:     &auto,
		}, nil)

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String()+"/transitions", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body server.OrderTransitions
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Forward, 1)
		assert.Equal(t, "linked", body.Forward[0].To)
		require.Len(t, body.Backward, 1)
		assert.Equal(t, "ordered", body.Backward[0].To)
		require.NotNil(t, body.AutoAdvance)
		assert.False(t, body.AutoAdvance.RequiresInput)
	})

	t.Run("should reject a malformed id", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders/not-a-uuid/transitions", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should map a missing order to 404", func(t *testing.T) {
		f := newFixture(t)
		f.available.On("Handle", mock.Anything, mock.Anything).
			Return(queries.GetOrderTransitionsQueryResponse{}, errs.NewObjectNotFoundError("orderID", "x"))

		rec := f.do(http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_ExecuteForwardTransition(t *testing.T) {
	const paymentBody = `{"from":"new","to":"paid","inputKind":"payment_confirmation",` +
		`"input":{"amount":"65000","method":"cash"}}`

	t.Run("should resolve the transition and return the updated order", func(t *testing.T) {
		f := newFixture(t)
		o := newStoredOrder(t)
		f.transitions.On("HandleForward", mock.Anything, mock.MatchedBy(func(cmd commands.ExecuteForwardTransitionCommand) bool {
			tr := cmd.Transition()
			return cmd.OrderID().IsEqual(o.ID()) &&
				tr.From == order.New && tr.To == order.Paid &&
				tr.Kind == order.InputPaymentConfirmation &&
				cmd.Input().Amount.Equal(decimal.NewFromInt(65000)) &&
				cmd.Input().Method == order.PaymentCash
		})).Return(o, nil)

		rec := f.do(http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/transitions/forward", paymentBody)

		require.Equal(t, http.StatusOK, rec.Code)
		var view order.OrderView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, o.ID().String(), view.ID)
		f.transitions.AssertExpectations(t)

		expected := `
# HELP orderflow_transitions_total Order transitions requested, by direction, stages, input kind and outcome.
# TYPE orderflow_transitions_total counter
orderflow_transitions_total{direction="forward",from="new",input_kind="payment_confirmation",outcome="ok",to="paid"} 1
`
		require.NoError(t, testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "orderflow_transitions_total"))
	})

	t.Run("should answer 422 with the missing fields", func(t *testing.T) {
		f := newFixture(t)
		f.transitions.On("HandleForward", mock.Anything, mock.Anything).Return(nil,
			errs.NewInputIsIncompleteError("payment_confirmation", []string{order.FieldAmount}, nil))

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions/forward", paymentBody)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, []string{order.FieldAmount}, decodeError(t, rec).Fields)
	})

	t.Run("should answer 409 for a transition missing from the catalog", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions/forward",
			`{"from":"new","to":"delivered"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		f.transitions.AssertNotCalled(t, "HandleForward", mock.Anything, mock.Anything)
	})

	t.Run("should answer 409 for a stale version", func(t *testing.T) {
		f := newFixture(t)
		f.transitions.On("HandleForward", mock.Anything, mock.Anything).
			Return(nil, errs.NewVersionIsInvalidError("version", nil))

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions/forward", paymentBody)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("should answer 400 for an unknown status", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions/forward",
			`{"from":"lost","to":"paid"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_ExecuteBackwardTransition(t *testing.T) {
	t.Run("should resolve the backward transition", func(t *testing.T) {
		f := newFixture(t)
		o := newStoredOrder(t)
		f.transitions.On("HandleBackward", mock.Anything, mock.MatchedBy(func(cmd commands.ExecuteBackwardTransitionCommand) bool {
			tr := cmd.Transition()
			return tr.Backward && tr.From == order.Ordered && tr.To == order.Paid
		})).Return(o, nil)

		rec := f.do(http.MethodPost, "/api/v1/orders/"+o.ID().String()+"/transitions/backward",
			`{"from":"ordered","to":"paid"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		f.transitions.AssertExpectations(t)
	})

	t.Run("should answer 409 for a target the catalog does not declare", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/transitions/backward",
			`{"from":"ordered","to":"new"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestServer_MarkInvoiceSent(t *testing.T) {
	t.Run("should answer 204", func(t *testing.T) {
		f := newFixture(t)
		id := kernel.NewUUID()
		f.invoice.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.MarkInvoiceSentCommand) bool {
			return cmd.OrderID().IsEqual(id)
		})).Return(nil)

		rec := f.do(http.MethodPost, "/api/v1/orders/"+id.String()+"/invoice-sent", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.invoice.AssertExpectations(t)
	})
}

func TestServer_Metrics(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
