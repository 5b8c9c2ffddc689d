// Package http exposes the delivery workflow over a hand-written Echo API.
// Handlers translate wire DTOs into commands and queries; all business
// rules stay behind the application layer.
package http

import (
	"errors"
	"net/http"

	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/eventbus"
	"fooddelivery/internal/tracking"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	registerAgentHandler    commands.RegisterAgentCommandHandler
	changeStatusHandler     commands.ChangeOrderStatusCommandHandler
	acceptOrderHandler      commands.AcceptOrderCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler
	reportLocationHandler   commands.ReportAgentLocationCommandHandler

	// Query handlers
	undeliveredOrdersHandler queries.GetUndeliveredOrdersQueryHandler
	nearbyOrdersHandler      queries.GetNearbyOrdersQueryHandler
	activeAgentsHandler      queries.GetActiveAgentsQueryHandler

	// Live tracking
	simulator *tracking.Simulator
	bus       *eventbus.Bus
	upgrader  websocket.Upgrader
}

// NewServer creates a new HTTP server with the required command and query
// handlers plus the tracking simulator and event bus for the live stream.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	registerAgentHandler commands.RegisterAgentCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	reportLocationHandler commands.ReportAgentLocationCommandHandler,
	undeliveredOrdersHandler queries.GetUndeliveredOrdersQueryHandler,
	nearbyOrdersHandler queries.GetNearbyOrdersQueryHandler,
	activeAgentsHandler queries.GetActiveAgentsQueryHandler,
	simulator *tracking.Simulator,
	bus *eventbus.Bus,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		registerAgentHandler:     registerAgentHandler,
		changeStatusHandler:      changeStatusHandler,
		acceptOrderHandler:       acceptOrderHandler,
		completeDeliveryHandler:  completeDeliveryHandler,
		reportLocationHandler:    reportLocationHandler,
		undeliveredOrdersHandler: undeliveredOrdersHandler,
		nearbyOrdersHandler:      nearbyOrdersHandler,
		activeAgentsHandler:      activeAgentsHandler,
		simulator:                simulator,
		bus:                      bus,
		upgrader: websocket.Upgrader{
			// The demo UI is served from a different origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// RegisterRoutes attaches all API routes to the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/nearby", s.GetNearbyOrders)
	api.POST("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/orders/:id/accept", s.AcceptOrder)
	api.POST("/orders/:id/delivered", s.CompleteDelivery)
	api.GET("/orders/:id/tracking", s.GetOrderTracking)
	api.GET("/orders/:id/tracking/ws", s.StreamOrderTracking)

	api.POST("/agents", s.RegisterAgent)
	api.GET("/agents", s.GetAgents)
	api.POST("/agents/:id/location", s.ReportAgentLocation)
}

// CreateOrder handles POST /api/v1/orders - places a new order in "pending".
func (s *Server) CreateOrder(ctx echo.Context) error {
	var newOrder NewOrder
	if err := ctx.Bind(&newOrder); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	location, err := kernel.NewGeoPoint(
		newOrder.DeliveryLocation.Lat, newOrder.DeliveryLocation.Lng)
	if err != nil {
		return badRequest(ctx, "Invalid delivery location: "+err.Error())
	}

	items := make([]order.LineItem, len(newOrder.Items))
	for i, item := range newOrder.Items {
		items[i] = order.LineItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		newOrder.CustomerName,
		newOrder.CustomerPhone,
		newOrder.DeliveryAddress,
		location,
		items,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, Created{ID: orderID.String()})
}

// GetOrders handles GET /api/v1/orders - retrieves all undelivered orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	query := queries.NewGetUndeliveredOrdersQuery()

	rows, err := s.undeliveredOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err, "Failed to retrieve orders")
	}

	response := make([]Order, len(rows))
	for i, row := range rows {
		response[i] = toOrder(row)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetNearbyOrders handles GET /api/v1/orders/nearby - finds confirmed
// orders around an agent's last reported position. Accepts agentId and an
// optional radiusKm; an explicit non-positive radius is rejected rather
// than silently replaced with the default.
func (s *Server) GetNearbyOrders(ctx echo.Context) error {
	var params struct {
		AgentID  string   `query:"agentId"`
		RadiusKm *float64 `query:"radiusKm"`
	}
	if err := ctx.Bind(&params); err != nil {
		return badRequest(ctx, "Invalid query parameters")
	}

	agentID, err := kernel.UUIDFromString(params.AgentID)
	if err != nil {
		return badRequest(ctx, "Invalid agent id")
	}

	radiusKm := queries.DefaultNearbyRadiusKm
	if params.RadiusKm != nil {
		radiusKm = *params.RadiusKm
	}

	query, err := queries.NewGetNearbyOrdersQuery(agentID, radiusKm)
	if err != nil {
		return badRequest(ctx, "Invalid radius: "+err.Error())
	}

	rows, err := s.nearbyOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err, "Failed to retrieve nearby orders")
	}

	response := make([]NearbyOrder, len(rows))
	for i, row := range rows {
		response[i] = toNearbyOrder(row)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ChangeOrderStatus handles POST /api/v1/orders/:id/status - applies one
// status transition through the order's transition graph.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var change StatusChange
	if err := ctx.Bind(&change); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.StatusFromString(change.Status)
	if err != nil {
		return badRequest(ctx, "Unknown status: "+change.Status)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target, change.Actor)
	if err != nil {
		return badRequest(ctx, "Invalid transition request: "+err.Error())
	}

	if handleErr := s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to change order status")
	}

	return ctx.NoContent(http.StatusOK)
}

// AcceptOrder handles POST /api/v1/orders/:id/accept - an agent takes a
// confirmed order out for delivery.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var accept AcceptOrder
	if err := ctx.Bind(&accept); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	agentID, err := kernel.UUIDFromString(accept.AgentID)
	if err != nil {
		return badRequest(ctx, "Invalid agent id")
	}

	cmd, err := commands.NewAcceptOrderCommand(orderID, agentID)
	if err != nil {
		return badRequest(ctx, "Invalid acceptance request: "+err.Error())
	}

	if handleErr := s.acceptOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to accept order")
	}

	return ctx.NoContent(http.StatusOK)
}

// CompleteDelivery handles POST /api/v1/orders/:id/delivered - marks an
// out-for-delivery order as delivered.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewCompleteDeliveryCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid completion request: "+err.Error())
	}

	if handleErr := s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to complete delivery")
	}

	return ctx.NoContent(http.StatusOK)
}

// GetOrderTracking handles GET /api/v1/orders/:id/tracking - returns the
// latest tracking snapshot for an order.
func (s *Server) GetOrderTracking(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	snap, ok := s.simulator.Snapshot(orderID)
	if !ok {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Order is not being tracked",
		})
	}

	return ctx.JSON(http.StatusOK, toTrackingSnapshot(snap))
}

// StreamOrderTracking handles GET /api/v1/orders/:id/tracking/ws - streams
// tracking snapshots over a websocket until tracking stops or the client
// disconnects. The current snapshot, when present, is sent immediately.
func (s *Server) StreamOrderTracking(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	conn, err := s.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()

	// Slow clients drop intermediate snapshots instead of blocking ticks.
	updates := make(chan tracking.Snapshot, 8)
	stopped := make(chan struct{}, 1)

	updateSub := s.bus.Subscribe(events.TopicTrackingUpdate, func(event any) {
		snap, ok := event.(tracking.Snapshot)
		if !ok || !snap.OrderID.IsEqual(orderID) {
			return
		}
		select {
		case updates <- snap:
		default:
		}
	})
	defer updateSub.Unsubscribe()

	stopSub := s.bus.Subscribe(events.TopicTrackingStopped, func(event any) {
		payload, ok := event.(events.TrackingStopped)
		if !ok || !payload.OrderID.IsEqual(orderID) {
			return
		}
		select {
		case stopped <- struct{}{}:
		default:
		}
	})
	defer stopSub.Unsubscribe()

	if snap, ok := s.simulator.Snapshot(orderID); ok {
		if writeErr := conn.WriteJSON(toTrackingSnapshot(snap)); writeErr != nil {
			return nil
		}
	}

	// The read loop only detects the client going away.
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap := <-updates:
			if writeErr := conn.WriteJSON(toTrackingSnapshot(snap)); writeErr != nil {
				return nil
			}
		case <-stopped:
			_ = conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "tracking stopped"))
			return nil
		case <-disconnected:
			return nil
		}
	}
}

// RegisterAgent handles POST /api/v1/agents - registers a delivery agent.
func (s *Server) RegisterAgent(ctx echo.Context) error {
	var newAgent NewAgent
	if err := ctx.Bind(&newAgent); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	position, err := kernel.NewGeoPoint(newAgent.Position.Lat, newAgent.Position.Lng)
	if err != nil {
		return badRequest(ctx, "Invalid position: "+err.Error())
	}

	agentID := kernel.NewUUID()
	cmd, err := commands.NewRegisterAgentCommand(agentID, newAgent.Name, newAgent.Phone, position)
	if err != nil {
		return badRequest(ctx, "Invalid agent data: "+err.Error())
	}

	if handleErr := s.registerAgentHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to register agent")
	}

	return ctx.JSON(http.StatusCreated, Created{ID: agentID.String()})
}

// GetAgents handles GET /api/v1/agents - retrieves all active agents.
func (s *Server) GetAgents(ctx echo.Context) error {
	query := queries.NewGetActiveAgentsQuery()

	rows, err := s.activeAgentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err, "Failed to retrieve agents")
	}

	response := make([]Agent, len(rows))
	for i, row := range rows {
		response[i] = toAgent(row)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ReportAgentLocation handles POST /api/v1/agents/:id/location - records a
// fresh position report for a registered agent.
func (s *Server) ReportAgentLocation(ctx echo.Context) error {
	agentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid agent id")
	}

	var position Location
	if err := ctx.Bind(&position); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	point, err := kernel.NewGeoPoint(position.Lat, position.Lng)
	if err != nil {
		return badRequest(ctx, "Invalid position: "+err.Error())
	}

	cmd, err := commands.NewReportAgentLocationCommand(agentID, point)
	if err != nil {
		return badRequest(ctx, "Invalid location report: "+err.Error())
	}

	if handleErr := s.reportLocationHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to report location")
	}

	return ctx.NoContent(http.StatusOK)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application errors onto HTTP status codes: missing
// records become 404, rule violations 400, a busy agent 409 and
// everything else 500 with the fallback message.
func writeError(ctx echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrAgentHasActiveDelivery):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: fallback,
		})
	}
}
