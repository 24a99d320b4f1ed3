package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/core/ports"
)

// ── stubs ──────────────────────────────────────────────────────────────────

type stubSession struct {
	ports.Session
	state   domain.SessionState
	updated *domain.User
}

func (s *stubSession) Snapshot() domain.SessionState { return s.state }
func (s *stubSession) CurrentUser() *domain.User     { return s.state.User }
func (s *stubSession) UpdateUser(u *domain.User) {
	s.updated = u
	s.state.User = u
}

type stubNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *stubNotifier) Success(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *stubNotifier) Error(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

// inlineWrites runs mutations on the caller's goroutine and records the keys.
type inlineWrites struct {
	keys []string
}

func (w *inlineWrites) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	w.keys = append(w.keys, key)
	return fn(ctx)
}

type stubOrderAPI struct {
	ports.OrderAPI
	calls []string
}

func (s *stubOrderAPI) ListOrders(context.Context, domain.PageQuery) (*domain.Page[domain.Order], error) {
	s.calls = append(s.calls, "all")
	return &domain.Page[domain.Order]{}, nil
}

func (s *stubOrderAPI) ListMyOrders(context.Context, domain.PageQuery) (*domain.Page[domain.Order], error) {
	s.calls = append(s.calls, "mine")
	return &domain.Page[domain.Order]{}, nil
}

type stubCustomerAPI struct {
	ports.CustomerAPI
	updatedID int64
	updateErr error
}

func (s *stubCustomerAPI) UpdateCustomer(_ context.Context, id int64, c domain.Customer) (*domain.Customer, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updatedID = id
	c.ID = id
	return &c, nil
}

type stubUserAPI struct {
	ports.UserAPI
	changed bool
	update  domain.UserUpdate
}

func (s *stubUserAPI) ChangeOwnPassword(context.Context, domain.PasswordChange) error {
	s.changed = true
	return nil
}

func (s *stubUserAPI) UpdateUser(_ context.Context, id int64, u domain.UserUpdate) (*domain.User, error) {
	s.update = u
	return &domain.User{ID: id, Username: "op", FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}, nil
}

type stubDashboardAPI struct {
	statsErr error
}

func (s *stubDashboardAPI) Stats(context.Context) (*domain.DashboardStats, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return &domain.DashboardStats{}, nil
}
func (s *stubDashboardAPI) MonthlySales(context.Context) ([]domain.MonthlySales, error) {
	return []domain.MonthlySales{}, nil
}
func (s *stubDashboardAPI) DailySales(context.Context) ([]domain.DailySales, error) {
	return []domain.DailySales{}, nil
}
func (s *stubDashboardAPI) ProductSales(context.Context) ([]domain.ProductSales, error) {
	return []domain.ProductSales{}, nil
}
func (s *stubDashboardAPI) RecentCustomers(_ context.Context, count int) ([]domain.Customer, error) {
	return make([]domain.Customer, count), nil
}
func (s *stubDashboardAPI) RecentActivities(_ context.Context, count int) ([]domain.Activity, error) {
	return make([]domain.Activity, count), nil
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

// ── validation ─────────────────────────────────────────────────────────────

func TestValidator_ProductMessages(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&productForm{Name: "a", Price: decimal.Zero, Stock: -1})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		"name must be at least 2 characters",
		"price must be greater than 0",
		"stock must be at least 0",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestValidator_AcceptsPositiveDecimalPrice(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(&productForm{Name: "Widget", Price: decimal.RequireFromString("0.01")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_OrderStatusEnumeration(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&orderStatusForm{NewStatus: "LOST"})
	if err == nil || !strings.Contains(err.Error(), "newStatus must be one of") {
		t.Fatalf("expected oneof message, got %v", err)
	}
}

func TestUserCreateForm_DefaultsToActive(t *testing.T) {
	req := userCreateForm{Username: "bob", Role: domain.RoleUser}.toRequest()
	if req.IsActive == nil || !*req.IsActive {
		t.Fatalf("expected isActive to default to true")
	}

	inactive := false
	req = userCreateForm{Username: "bob", IsActive: &inactive}.toRequest()
	if *req.IsActive {
		t.Fatalf("expected explicit false to be kept")
	}
}

func TestBindPage_RejectsOversizedPage(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/customers?size=5000", "")
	_, err := bindPage(c)
	if code := httpStatus(t, err); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestBindPage_PassesThroughQuery(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/customers?page=2&size=20&sort=lastName,asc", "")
	q, err := bindPage(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Page != 2 || q.Size != 20 || q.Sort != "lastName,asc" {
		t.Fatalf("unexpected query %+v", q)
	}
}

func TestIDParam(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/customers/x", "")
	c.SetParamNames("id")
	c.SetParamValues("x")
	if _, err := idParam(c); httpStatus(t, err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id")
	}
}

// ── handlers ───────────────────────────────────────────────────────────────

func TestOrderHandler_ListDependsOnRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{domain.RoleAdmin, "all"},
		{domain.RoleUser, "mine"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			api := &stubOrderAPI{}
			session := &stubSession{state: domain.SessionState{User: &domain.User{ID: 1, Role: tt.role}}}
			h := NewOrderHandler(api, session, &inlineWrites{}, &stubNotifier{})

			c, rec := newContext(http.MethodGet, "/orders", "")
			if err := h.List(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if len(api.calls) != 1 || api.calls[0] != tt.want {
				t.Fatalf("expected %q listing, got %v", tt.want, api.calls)
			}
		})
	}
}

func TestCustomerHandler_UpdateIsSerializedByEntity(t *testing.T) {
	api := &stubCustomerAPI{}
	writes := &inlineWrites{}
	notifier := &stubNotifier{}
	h := NewCustomerHandler(api, &stubOrderAPI{}, writes, notifier)

	c, rec := newContext(http.MethodPut, "/customers/7", `{"firstName":"Ada","lastName":"Lovelace"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK || api.updatedID != 7 {
		t.Fatalf("expected update of customer 7, got code=%d id=%d", rec.Code, api.updatedID)
	}
	if len(writes.keys) != 1 || writes.keys[0] != "customers/7" {
		t.Fatalf("unexpected serializer keys %v", writes.keys)
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != "Customer updated successfully!" {
		t.Fatalf("unexpected notices %v", notifier.successes)
	}
}

func TestCustomerHandler_UpdateFailureUsesBackendMessage(t *testing.T) {
	api := &stubCustomerAPI{updateErr: &domain.APIError{Kind: domain.KindHTTPStatus, Status: 409, Message: "Email already in use"}}
	notifier := &stubNotifier{}
	h := NewCustomerHandler(api, &stubOrderAPI{}, &inlineWrites{}, notifier)

	c, _ := newContext(http.MethodPut, "/customers/7", `{"firstName":"Ada","lastName":"Lovelace"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")

	err := h.Update(c)
	if domain.KindOf(err) != domain.KindHTTPStatus {
		t.Fatalf("expected the backend error to be returned, got %v", err)
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "Email already in use" {
		t.Fatalf("unexpected error notices %v", notifier.errors)
	}
}

func TestCustomerHandler_CreateValidation(t *testing.T) {
	h := NewCustomerHandler(&stubCustomerAPI{}, &stubOrderAPI{}, &inlineWrites{}, &stubNotifier{})

	c, _ := newContext(http.MethodPost, "/customers", `{"email":"not-an-email"}`)
	err := h.Create(c)
	if httpStatus(t, err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422")
	}
	var he *echo.HTTPError
	errors.As(err, &he)
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, "firstName is required") || !strings.Contains(msg, "email must be a valid email") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestSettingsHandler_PasswordMismatch(t *testing.T) {
	api := &stubUserAPI{}
	notifier := &stubNotifier{}
	session := &stubSession{state: domain.SessionState{User: &domain.User{ID: 3}}}
	h := NewSettingsHandler(api, session, &inlineWrites{}, notifier)

	c, _ := newContext(http.MethodPost, "/settings/password",
		`{"oldPassword":"old-secret","newPassword":"new-secret-1","confirmPassword":"new-secret-2"}`)

	err := h.ChangePassword(c)
	if !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if api.changed {
		t.Fatalf("backend must not be called when confirmation differs")
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "New passwords do not match" {
		t.Fatalf("unexpected notices %v", notifier.errors)
	}
}

func TestSettingsHandler_UpdateProfileRefreshesSessionUser(t *testing.T) {
	api := &stubUserAPI{}
	writes := &inlineWrites{}
	session := &stubSession{state: domain.SessionState{User: &domain.User{ID: 3, Username: "op"}}}
	h := NewSettingsHandler(api, session, writes, &stubNotifier{})

	c, rec := newContext(http.MethodPut, "/settings/profile",
		`{"firstName":"Grace","lastName":"Hopper","email":"grace@example.com"}`)

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if session.updated == nil || session.updated.FirstName != "Grace" {
		t.Fatalf("expected session user to be replaced, got %+v", session.updated)
	}
	if api.update.Email != "grace@example.com" || len(writes.keys) != 1 || writes.keys[0] != "users/3" {
		t.Fatalf("unexpected update %+v keys %v", api.update, writes.keys)
	}
}

func TestSettingsHandler_ProfileWithoutUser(t *testing.T) {
	h := NewSettingsHandler(&stubUserAPI{}, &stubSession{}, &inlineWrites{}, &stubNotifier{})
	c, _ := newContext(http.MethodGet, "/settings", "")
	if err := h.Profile(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestDashboardHandler(t *testing.T) {
	t.Run("assembles every panel", func(t *testing.T) {
		h := NewDashboardHandler(&stubDashboardAPI{})
		c, rec := newContext(http.MethodGet, "/", "")
		if err := h.Get(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		body := rec.Body.String()
		for _, key := range []string{`"stats"`, `"monthlySales"`, `"dailySales"`, `"productSales"`, `"recentCustomers"`, `"recentActivities"`} {
			if !strings.Contains(body, key) {
				t.Fatalf("expected %s in %s", key, body)
			}
		}
	})

	t.Run("one failed panel fails the view", func(t *testing.T) {
		boom := &domain.APIError{Kind: domain.KindNetwork, Message: "connection refused"}
		h := NewDashboardHandler(&stubDashboardAPI{statsErr: boom})
		c, _ := newContext(http.MethodGet, "/", "")
		if err := h.Get(c); domain.KindOf(err) != domain.KindNetwork {
			t.Fatalf("expected network error, got %v", err)
		}
	})
}

type stubFeed struct {
	limit int
}

func (f *stubFeed) Recent(limit int) []domain.Notice {
	f.limit = limit
	return []domain.Notice{}
}

func TestNotificationHandler_Limit(t *testing.T) {
	feed := &stubFeed{}
	h := NewNotificationHandler(feed)

	c, _ := newContext(http.MethodGet, "/notifications?limit=3", "")
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.limit != 3 {
		t.Fatalf("expected limit 3, got %d", feed.limit)
	}

	c, _ = newContext(http.MethodGet, "/notifications?limit=-1", "")
	if httpStatus(t, h.List(c)) != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative limit")
	}
}
