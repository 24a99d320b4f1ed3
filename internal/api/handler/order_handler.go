package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/core/ports"
)

// OrderHandler serves the orders screen. Admins see every order; other
// operators see only their own.
type OrderHandler struct {
	api     ports.OrderAPI
	session ports.Session
	writes  ports.WriteSerializer
	feedback
}

func NewOrderHandler(api ports.OrderAPI, session ports.Session, writes ports.WriteSerializer, notify ports.Notifier) *OrderHandler {
	return &OrderHandler{api: api, session: session, writes: writes, feedback: feedback{notify: notify}}
}

// List handles GET /orders.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        page  query     int     false  "Page number (0-based)"
// @Param        size  query     int     false  "Page size"
// @Param        sort  query     string  false  "Sort, e.g. orderDate,desc"
// @Success      200   {object}  domain.Page[domain.Order]
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	q, err := bindPage(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var page *domain.Page[domain.Order]
	if h.session.Snapshot().IsAdmin() {
		page, err = h.api.ListOrders(ctx, q)
	} else {
		page, err = h.api.ListMyOrders(ctx, q)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	o, err := h.api.GetOrder(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

// Create handles POST /orders.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      orderForm  true  "Order"
// @Success      201   {object}  domain.Order
// @Failure      422   {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var form orderForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	ctx := c.Request().Context()
	o, err := h.api.CreateOrder(ctx, form.toOrder())
	if err != nil {
		return h.failed(ctx, err, "Failed to create order")
	}
	h.done(ctx, "Order created successfully!")
	return c.JSON(http.StatusCreated, o)
}

// UpdateStatus handles PUT /orders/:id/status.
//
// @Summary      Change an order's status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Order ID"
// @Param        body  body      orderStatusForm  true  "New status"
// @Success      200   {object}  domain.Order
// @Failure      422   {object}  errorResponse
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form orderStatusForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var o *domain.Order
	err = h.writes.Do(ctx, entityKey("orders", id), func(ctx context.Context) (err error) {
		o, err = h.api.UpdateOrderStatus(ctx, id, domain.OrderStatus(form.NewStatus))
		return err
	})
	if err != nil {
		return h.failed(ctx, err, "Failed to update order status")
	}
	h.done(ctx, "Order status updated successfully!")
	return c.JSON(http.StatusOK, o)
}
