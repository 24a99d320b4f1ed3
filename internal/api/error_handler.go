package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nimblecrm/crm-console/internal/api/middleware"
	"github.com/nimblecrm/crm-console/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// SessionExpirer ends the session when the backend rejects its token.
type SessionExpirer interface {
	Expire(ctx context.Context)
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Expires the session and redirects to /login when the backend answers 401.
//   - Passes backend 4xx responses through and reports 5xx or transport failures as 502.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(session SessionExpirer, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if domain.IsUnauthorized(err) || errors.Is(err, domain.ErrNotAuthenticated) {
			if domain.IsUnauthorized(err) {
				session.Expire(c.Request().Context())
			}
			_ = c.Redirect(http.StatusSeeOther, middleware.LoginPath)
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Kind == domain.KindHTTPStatus && apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status, apiErr.Message
		}
		log.Warn().
			Err(err).
			Str("kind", apiErr.Kind.String()).
			Int("backend_status", apiErr.Status).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("backend call failed")
		return http.StatusBadGateway, apiErr.Message
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusUnprocessableEntity, "New passwords do not match"
	case errors.Is(err, domain.ErrNoRefreshToken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrSessionClosed), errors.Is(err, domain.ErrShuttingDown):
		return http.StatusServiceUnavailable, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
