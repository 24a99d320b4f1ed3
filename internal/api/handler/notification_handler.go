package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

// NoticeFeed exposes the most recent operator notices.
type NoticeFeed interface {
	Recent(limit int) []domain.Notice
}

type NotificationHandler struct {
	feed NoticeFeed
}

func NewNotificationHandler(feed NoticeFeed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// List handles GET /notifications.
//
// @Summary      Recent notices
// @Tags         notifications
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of notices"
// @Success      200    {array}   domain.Notice
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	return c.JSON(http.StatusOK, h.feed.Recent(limit))
}
