package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/core/ports"
)

// ProductHandler serves the products screen.
type ProductHandler struct {
	api    ports.ProductAPI
	writes ports.WriteSerializer
	feedback
}

func NewProductHandler(api ports.ProductAPI, writes ports.WriteSerializer, notify ports.Notifier) *ProductHandler {
	return &ProductHandler{api: api, writes: writes, feedback: feedback{notify: notify}}
}

// List handles GET /products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page  query     int     false  "Page number (0-based)"
// @Param        size  query     int     false  "Page size"
// @Param        sort  query     string  false  "Sort, e.g. name,asc"
// @Success      200   {object}  domain.Page[domain.Product]
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	q, err := bindPage(c)
	if err != nil {
		return err
	}
	page, err := h.api.ListProducts(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  domain.Product
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	p, err := h.api.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      productForm  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      422   {object}  errorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var form productForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	ctx := c.Request().Context()
	p, err := h.api.CreateProduct(ctx, form.toProduct())
	if err != nil {
		return h.failed(ctx, err, "Failed to create product")
	}
	h.done(ctx, "Product created successfully!")
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /products/:id.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Product ID"
// @Param        body  body      productForm  true  "Product"
// @Success      200   {object}  domain.Product
// @Failure      422   {object}  errorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form productForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var p *domain.Product
	err = h.writes.Do(ctx, entityKey("products", id), func(ctx context.Context) (err error) {
		p, err = h.api.UpdateProduct(ctx, id, form.toProduct())
		return err
	})
	if err != nil {
		return h.failed(ctx, err, "Failed to update product")
	}
	h.done(ctx, "Product updated successfully!")
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Param        id  path  int  true  "Product ID"
// @Success      204
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	err = h.writes.Do(ctx, entityKey("products", id), func(ctx context.Context) error {
		return h.api.DeleteProduct(ctx, id)
	})
	if err != nil {
		return h.failed(ctx, err, "Failed to delete product")
	}
	h.done(ctx, "Product deleted successfully!")
	return c.NoContent(http.StatusNoContent)
}
