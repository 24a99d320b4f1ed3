package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/core/ports"
)

// ActivityHandler serves the admin-only audit log.
type ActivityHandler struct {
	api ports.ActivityAPI
}

func NewActivityHandler(api ports.ActivityAPI) *ActivityHandler {
	return &ActivityHandler{api: api}
}

// List handles GET /activities.
//
// @Summary      List activities
// @Tags         activities
// @Produce      json
// @Param        page  query     int     false  "Page number (0-based)"
// @Param        size  query     int     false  "Page size"
// @Param        sort  query     string  false  "Sort, e.g. timestamp,desc"
// @Success      200   {object}  domain.Page[domain.Activity]
// @Router       /activities [get]
func (h *ActivityHandler) List(c echo.Context) error {
	q, err := bindPage(c)
	if err != nil {
		return err
	}
	page, err := h.api.ListActivities(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
