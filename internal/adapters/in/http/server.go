package http

import (
	"context"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
}

type ExecuteTransitionHandler interface {
	HandleForward(ctx context.Context, cmd commands.ExecuteForwardTransitionCommand) (*order.Order, error)
	HandleBackward(ctx context.Context, cmd commands.ExecuteBackwardTransitionCommand) (*order.Order, error)
}

type MarkInvoiceSentHandler interface {
	Handle(ctx context.Context, cmd commands.MarkInvoiceSentCommand) error
}

type UndeliveredOrdersHandler interface {
	Handle(
		ctx context.Context,
		query queries.GetUndeliveredOrdersQuery,
	) ([]queries.GetUndeliveredOrdersQueryResponse, error)
}

type OrderTransitionsHandler interface {
	Handle(
		ctx context.Context,
		query queries.GetOrderTransitionsQuery,
	) (queries.GetOrderTransitionsQueryResponse, error)
}

// Server exposes the order lifecycle over HTTP.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       CreateOrderHandler
	executeTransitionHandler ExecuteTransitionHandler
	markInvoiceSentHandler   MarkInvoiceSentHandler

	// Query handlers
	undeliveredOrdersHandler UndeliveredOrdersHandler
	orderTransitionsHandler  OrderTransitionsHandler

	catalog order.Catalog
	metrics *Metrics
}

// NewServer creates a new HTTP server with the required command and query handlers.
// Transitions named in requests are resolved against catalog.
func NewServer(
	createOrderHandler CreateOrderHandler,
	executeTransitionHandler ExecuteTransitionHandler,
	markInvoiceSentHandler MarkInvoiceSentHandler,
	undeliveredOrdersHandler UndeliveredOrdersHandler,
	orderTransitionsHandler OrderTransitionsHandler,
	catalog order.Catalog,
	metrics *Metrics,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		executeTransitionHandler: executeTransitionHandler,
		markInvoiceSentHandler:   markInvoiceSentHandler,
		undeliveredOrdersHandler: undeliveredOrdersHandler,
		orderTransitionsHandler:  orderTransitionsHandler,
		catalog:                  catalog,
		metrics:                  metrics,
	}
}

// RegisterHandlers mounts every route on e.
func (s *Server) RegisterHandlers(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	api := e.Group("/api/v1")
	api.GET("/orders", s.GetOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id/transitions", s.GetOrderTransitions)
	api.POST("/orders/:id/transitions/forward", s.ExecuteForwardTransition)
	api.POST("/orders/:id/transitions/backward", s.ExecuteBackwardTransition)
	api.POST("/orders/:id/invoice-sent", s.MarkInvoiceSent)
}

func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GetOrders handles GET /api/v1/orders - lists orders not yet delivered.
func (s *Server) GetOrders(ctx echo.Context) error {
	result, err := s.undeliveredOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetUndeliveredOrdersQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]OrderSummary, len(result))
	for i, o := range result {
		response[i] = toOrderSummary(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders - creates a new order in status new.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var newOrder NewOrder
	if err := ctx.Bind(&newOrder); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	finalPrice, err := kernel.NewMoney(newOrder.FinalPrice)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, finalPrice, newOrder.Notes)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, OrderCreated{ID: orderID.String()})
}

// GetOrderTransitions handles GET /api/v1/orders/:id/transitions.
func (s *Server) GetOrderTransitions(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderTransitionsQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.orderTransitionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderTransitions(result))
}

// ExecuteForwardTransition handles POST /api/v1/orders/:id/transitions/forward.
func (s *Server) ExecuteForwardTransition(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req ForwardTransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	t, err := s.resolve(req.From, req.To, req.InputKind, false)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewExecuteForwardTransitionCommand(orderID, t, req.Input.toDomain())
	if err != nil {
		return writeError(ctx, err)
	}

	next, err := s.executeTransitionHandler.HandleForward(ctx.Request().Context(), cmd)
	s.metrics.ObserveTransition(t, err)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, order.NewOrderView(next))
}

// ExecuteBackwardTransition handles POST /api/v1/orders/:id/transitions/backward.
func (s *Server) ExecuteBackwardTransition(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req BackwardTransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	t, err := s.resolve(req.From, req.To, "", true)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewExecuteBackwardTransitionCommand(orderID, t)
	if err != nil {
		return writeError(ctx, err)
	}

	next, err := s.executeTransitionHandler.HandleBackward(ctx.Request().Context(), cmd)
	s.metrics.ObserveTransition(t, err)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, order.NewOrderView(next))
}

// MarkInvoiceSent handles POST /api/v1/orders/:id/invoice-sent.
func (s *Server) MarkInvoiceSent(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewMarkInvoiceSentCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.markInvoiceSentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
