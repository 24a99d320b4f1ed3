package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

type fixedSession domain.SessionState

func (f fixedSession) Snapshot() domain.SessionState { return domain.SessionState(f) }

var (
	loading   = domain.SessionState{Loading: true}
	anonymous = domain.SessionState{}
	operator  = domain.SessionState{User: &domain.User{Username: "bob", Role: domain.RoleUser}}
	admin     = domain.SessionState{User: &domain.User{Username: "alice", Role: domain.RoleAdmin}}
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name  string
		state domain.SessionState
		req   Requirement
		want  Decision
	}{
		{"loading auth", loading, NeedAuth, Decision{Outcome: Wait}},
		{"loading admin", loading, NeedAdmin, Decision{Outcome: Wait}},
		{"loading guest", loading, NeedGuest, Decision{Outcome: Wait}},
		{"anonymous auth", anonymous, NeedAuth, Decision{Outcome: Redirect, Target: LoginPath}},
		{"anonymous admin", anonymous, NeedAdmin, Decision{Outcome: Redirect, Target: LoginPath}},
		{"anonymous guest", anonymous, NeedGuest, Decision{Outcome: Allow}},
		{"operator auth", operator, NeedAuth, Decision{Outcome: Allow}},
		{"operator admin", operator, NeedAdmin, Decision{Outcome: Redirect, Target: CustomersPath}},
		{"operator guest", operator, NeedGuest, Decision{Outcome: Redirect, Target: HomePath}},
		{"admin auth", admin, NeedAuth, Decision{Outcome: Allow}},
		{"admin admin", admin, NeedAdmin, Decision{Outcome: Allow}},
		{"admin guest", admin, NeedGuest, Decision{Outcome: Redirect, Target: HomePath}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.state, tc.req); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestGuard_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := RequireAdmin(fixedSession(admin))(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGuard_Redirects(t *testing.T) {
	cases := []struct {
		name     string
		mw       echo.MiddlewareFunc
		location string
	}{
		{"anonymous to login", RequireAuth(fixedSession(anonymous)), LoginPath},
		{"non-admin to customers", RequireAdmin(fixedSession(operator)), CustomersPath},
		{"operator away from login", GuestOnly(fixedSession(operator)), HomePath},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := tc.mw(func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})

			if err := handler(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("expected 303, got %d", rec.Code)
			}
			if got := rec.Header().Get(echo.HeaderLocation); got != tc.location {
				t.Fatalf("expected redirect to %s, got %s", tc.location, got)
			}
		})
	}
}

func TestGuard_WaitsWhileLoading(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireAuth(fixedSession(loading))(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After header")
	}
	if body := rec.Body.String(); body != "{\"status\":\"loading\"}\n" {
		t.Fatalf("unexpected body %q", body)
	}
}
