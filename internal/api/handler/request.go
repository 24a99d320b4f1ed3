package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/core/ports"
)

// bindForm decodes the body into form and runs the form's validation rules.
func bindForm(c echo.Context, form any) error {
	if err := c.Bind(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(form); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

// bindPage reads page, size and sort from the query string.
func bindPage(c echo.Context) (domain.PageQuery, error) {
	var p pageParams
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &p); err != nil {
		return domain.PageQuery{}, echo.NewHTTPError(http.StatusBadRequest, "invalid paging parameters")
	}
	if err := c.Validate(&p); err != nil {
		return domain.PageQuery{}, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return p.toQuery(), nil
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func entityKey(resource string, id int64) string {
	return resource + "/" + strconv.FormatInt(id, 10)
}

// feedback turns mutation outcomes into operator notices.
type feedback struct {
	notify ports.Notifier
}

func (f feedback) done(ctx context.Context, msg string) {
	f.notify.Success(ctx, msg)
}

// failed records the error as a notice and hands it back for the central
// error handler.
func (f feedback) failed(ctx context.Context, err error, fallback string) error {
	f.notify.Error(ctx, domain.Message(err, fallback))
	return err
}
