package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/core/ports"
)

// CustomerHandler serves the customers screen.
type CustomerHandler struct {
	api    ports.CustomerAPI
	orders ports.OrderAPI
	writes ports.WriteSerializer
	feedback
}

func NewCustomerHandler(api ports.CustomerAPI, orders ports.OrderAPI, writes ports.WriteSerializer, notify ports.Notifier) *CustomerHandler {
	return &CustomerHandler{api: api, orders: orders, writes: writes, feedback: feedback{notify: notify}}
}

// List handles GET /customers.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        page  query     int     false  "Page number (0-based)"
// @Param        size  query     int     false  "Page size"
// @Param        sort  query     string  false  "Sort, e.g. lastName,asc"
// @Success      200   {object}  domain.Page[domain.Customer]
// @Failure      502   {object}  errorResponse
// @Router       /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	q, err := bindPage(c)
	if err != nil {
		return err
	}
	page, err := h.api.ListCustomers(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /customers/:id.
//
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  domain.Customer
// @Failure      404  {object}  errorResponse
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	cust, err := h.api.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cust)
}

// Orders handles GET /customers/:id/orders.
//
// @Summary      List a customer's orders
// @Tags         customers
// @Produce      json
// @Param        id    path      int  true   "Customer ID"
// @Param        page  query     int  false  "Page number (0-based)"
// @Param        size  query     int  false  "Page size"
// @Success      200   {object}  domain.Page[domain.Order]
// @Router       /customers/{id}/orders [get]
func (h *CustomerHandler) Orders(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	q, err := bindPage(c)
	if err != nil {
		return err
	}
	page, err := h.orders.ListCustomerOrders(c.Request().Context(), id, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Create handles POST /customers.
//
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      customerForm  true  "Customer"
// @Success      201   {object}  domain.Customer
// @Failure      422   {object}  errorResponse
// @Router       /customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var form customerForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	ctx := c.Request().Context()
	cust, err := h.api.CreateCustomer(ctx, form.toCustomer())
	if err != nil {
		return h.failed(ctx, err, "Failed to create customer")
	}
	h.done(ctx, "Customer created successfully!")
	return c.JSON(http.StatusCreated, cust)
}

// Update handles PUT /customers/:id.
//
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Customer ID"
// @Param        body  body      customerForm  true  "Customer"
// @Success      200   {object}  domain.Customer
// @Failure      422   {object}  errorResponse
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form customerForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var cust *domain.Customer
	err = h.writes.Do(ctx, entityKey("customers", id), func(ctx context.Context) (err error) {
		cust, err = h.api.UpdateCustomer(ctx, id, form.toCustomer())
		return err
	})
	if err != nil {
		return h.failed(ctx, err, "Failed to update customer")
	}
	h.done(ctx, "Customer updated successfully!")
	return c.JSON(http.StatusOK, cust)
}

// Delete handles DELETE /customers/:id.
//
// @Summary      Delete a customer
// @Tags         customers
// @Param        id   path  int  true  "Customer ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	err = h.writes.Do(ctx, entityKey("customers", id), func(ctx context.Context) error {
		return h.api.DeleteCustomer(ctx, id)
	})
	if err != nil {
		return h.failed(ctx, err, "Failed to delete customer")
	}
	h.done(ctx, "Customer deleted successfully!")
	return c.NoContent(http.StatusNoContent)
}
