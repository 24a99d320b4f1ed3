package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/nimblecrm/crm-console/internal/core/ports"
)

const (
	recentCustomersCount  = 5
	recentActivitiesCount = 10
)

// DashboardHandler assembles the admin dashboard.
type DashboardHandler struct {
	api ports.DashboardAPI
}

func NewDashboardHandler(api ports.DashboardAPI) *DashboardHandler {
	return &DashboardHandler{api: api}
}

// Get handles GET /. The six backend reads run concurrently; the first
// failure cancels the rest.
//
// @Summary      Dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      502  {object}  errorResponse
// @Router       / [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	g, ctx := errgroup.WithContext(c.Request().Context())
	var resp dashboardResponse

	g.Go(func() (err error) {
		resp.Stats, err = h.api.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.MonthlySales, err = h.api.MonthlySales(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.DailySales, err = h.api.DailySales(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.ProductSales, err = h.api.ProductSales(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.RecentCustomers, err = h.api.RecentCustomers(ctx, recentCustomersCount)
		return err
	})
	g.Go(func() (err error) {
		resp.RecentActivities, err = h.api.RecentActivities(ctx, recentActivitiesCount)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
