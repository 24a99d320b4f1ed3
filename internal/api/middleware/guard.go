package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/api/metrics"
	"github.com/nimblecrm/crm-console/internal/core/domain"
)

// Redirect targets used by the guard.
const (
	LoginPath     = "/login"
	CustomersPath = "/customers"
	HomePath      = "/"
)

// Requirement is what a console view demands of the session.
type Requirement int

const (
	// NeedAuth admits any authenticated operator.
	NeedAuth Requirement = iota + 1
	// NeedAdmin admits authenticated operators with the admin role.
	NeedAdmin
	// NeedGuest admits only anonymous visitors (login and register screens).
	NeedGuest
)

// Outcome is the kind of decision the guard made.
type Outcome int

const (
	Allow Outcome = iota + 1
	Wait
	Redirect
)

// Decision is the result of evaluating a requirement against a session.
// Target is set only for Redirect.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Evaluate decides whether a view may render. It has no side effects.
func Evaluate(state domain.SessionState, req Requirement) Decision {
	if state.Loading {
		return Decision{Outcome: Wait}
	}

	switch req {
	case NeedGuest:
		if state.IsAuthenticated() {
			return Decision{Outcome: Redirect, Target: HomePath}
		}
	case NeedAuth:
		if !state.IsAuthenticated() {
			return Decision{Outcome: Redirect, Target: LoginPath}
		}
	case NeedAdmin:
		if !state.IsAuthenticated() {
			return Decision{Outcome: Redirect, Target: LoginPath}
		}
		if !state.IsAdmin() {
			return Decision{Outcome: Redirect, Target: CustomersPath}
		}
	}
	return Decision{Outcome: Allow}
}

// SessionReader is the read side of the console session.
type SessionReader interface {
	Snapshot() domain.SessionState
}

type loadingResponse struct {
	Status string `json:"status"`
}

// Guard enforces req on every request using the live session state.
func Guard(session SessionReader, req Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := Evaluate(session.Snapshot(), req)
			switch d.Outcome {
			case Wait:
				metrics.GuardDecisionsTotal.WithLabelValues("wait").Inc()
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, loadingResponse{Status: "loading"})
			case Redirect:
				metrics.GuardDecisionsTotal.WithLabelValues(d.Target).Inc()
				return c.Redirect(http.StatusSeeOther, d.Target)
			default:
				metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
				return next(c)
			}
		}
	}
}

// RequireAuth admits authenticated operators.
func RequireAuth(session SessionReader) echo.MiddlewareFunc {
	return Guard(session, NeedAuth)
}

// RequireAdmin admits authenticated admins.
func RequireAdmin(session SessionReader) echo.MiddlewareFunc {
	return Guard(session, NeedAdmin)
}

// GuestOnly admits anonymous visitors and sends operators home.
func GuestOnly(session SessionReader) echo.MiddlewareFunc {
	return Guard(session, NeedGuest)
}
