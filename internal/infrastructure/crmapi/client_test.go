package crmapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

type stubStore struct {
	mu      sync.Mutex
	creds   *domain.Credentials
	loadErr error
	cleared int
}

func (s *stubStore) Save(_ context.Context, c domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = &c
	return nil
}

func (s *stubStore) Load(context.Context) (*domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.creds == nil {
		return nil, nil
	}
	c := *s.creds
	return &c, nil
}

func (s *stubStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	s.cleared++
	return nil
}

func (s *stubStore) Ping(context.Context) error { return nil }

func newTestClient(t *testing.T, h http.HandlerFunc, store *stubStore) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/api/"}, store, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsNonHTTPScheme(t *testing.T) {
	_, err := New(Config{BaseURL: "ftp://backend"}, &stubStore{}, zerolog.Nop())
	require.Error(t, err)

	c, err := New(Config{BaseURL: "http://backend/api/"}, &stubStore{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://backend/api", c.BaseURL())
}

func TestClient_AttachesBearerWhenStored(t *testing.T) {
	store := &stubStore{creds: &domain.Credentials{AccessToken: "tok-1", RefreshToken: "ref-1"}}
	var gotAuth, gotPath, gotRequestID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": 7, "username": "alice", "role": "ROLE_ADMIN", "isActive": true},
		})
	}, store)

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "/api/auth/me", gotPath)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsAdmin())
}

func TestClient_OmitsBearerWhenAbsentOrStoreFails(t *testing.T) {
	for name, store := range map[string]*stubStore{
		"absent":       {},
		"load failure": {loadErr: errors.New("keyring locked")},
	} {
		t.Run(name, func(t *testing.T) {
			var gotAuth string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{}})
			}, store)

			_, err := c.Stats(context.Background())
			require.NoError(t, err)
			assert.Empty(t, gotAuth)
		})
	}
}

func TestClient_WithoutAuthSkipsBearer(t *testing.T) {
	store := &stubStore{creds: &domain.Credentials{AccessToken: "stale"}}
	var gotAuth string
	var gotBody domain.LoginRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": "new", "refreshToken": "r"})
	}, store)

	creds, err := c.Login(context.Background(), domain.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "alice", gotBody.Username)
	assert.Equal(t, "new", creds.AccessToken)
	assert.Equal(t, "r", creds.RefreshToken)
}

func TestClient_LoginWithoutTokenIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"refreshToken": "r"})
	}, &stubStore{})

	_, err := c.Login(context.Background(), domain.LoginRequest{Username: "a", Password: "b"})
	assert.Equal(t, domain.KindDecode, domain.KindOf(err))
}

func TestClient_UnauthorizedClearsStore(t *testing.T) {
	store := &stubStore{creds: &domain.Credentials{AccessToken: "expired"}}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	}, store)

	_, err := c.ListCustomers(context.Background(), domain.PageQuery{})
	require.Error(t, err)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.KindUnauthorized, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "token expired", apiErr.Message)
	assert.True(t, domain.IsUnauthorized(err))

	creds, _ := store.Load(context.Background())
	assert.Nil(t, creds)
	assert.Equal(t, 1, store.cleared)
}

func TestClient_OtherStatusKeepsCredentials(t *testing.T) {
	store := &stubStore{creds: &domain.Credentials{AccessToken: "tok"}}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Access denied"})
	}, store)

	err := c.DeleteUser(context.Background(), 3)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.KindHTTPStatus, apiErr.Kind)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Access denied", apiErr.Message)
	assert.Zero(t, store.cleared)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url}, &stubStore{}, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Stats(context.Background())
	assert.Equal(t, domain.KindNetwork, domain.KindOf(err))
	assert.Error(t, c.Reachable(context.Background()))
}

func TestClient_EmptyBodyIsAccepted(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}, &stubStore{})

	require.NoError(t, c.DeleteProduct(context.Background(), 42))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/products/42", gotPath)

	out, err := Get[domain.Product](context.Background(), c, "/products/42")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestClient_MalformedBodyIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "{not json")
	}, &stubStore{})

	_, err := c.GetProduct(context.Background(), 1)
	assert.Equal(t, domain.KindDecode, domain.KindOf(err))
}

func TestClient_PageQueryAndDecimalRoundTrip(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"content": []map[string]any{
					{"id": 1, "name": "Desk", "price": 199.99, "stock": 4},
				},
				"totalElements": 1,
				"totalPages":    1,
				"size":          20,
				"number":        0,
			},
		})
	}, &stubStore{})

	page, err := c.ListProducts(context.Background(), domain.PageQuery{Page: 2, Size: 20, Sort: "name,asc"})
	require.NoError(t, err)
	assert.Equal(t, "page=2&size=20&sort=name%2Casc", gotQuery)
	require.Len(t, page.Content, 1)
	assert.True(t, page.Content[0].Price.Equal(decimal.RequireFromString("199.99")))
	assert.EqualValues(t, 1, page.TotalElements)
}

func TestClient_UpdateOrderStatusBody(t *testing.T) {
	var got map[string]string
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": 5, "status": "SHIPPED"}})
	}, &stubStore{})

	order, err := c.UpdateOrderStatus(context.Background(), 5, domain.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/5/status", gotPath)
	assert.Equal(t, "SHIPPED", got["newStatus"])
	assert.Equal(t, domain.OrderShipped, order.Status)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", errorMessage(500, []byte(`{"message":"boom"}`)))
	assert.Equal(t, "  plain failure \n", errorMessage(500, []byte("  plain failure \n")))
	assert.Equal(t, "   ", errorMessage(503, []byte("   ")))
	assert.Equal(t, "HTTP 502", errorMessage(502, nil))
	assert.Equal(t, "An error occurred", errorMessage(400, []byte(`{"error":"Bad Request"}`)))

	for _, body := range []string{`"bad request"`, `[1,2]`, `42`, `null`, `{"message":""}`, `{"message":7}`} {
		assert.Equal(t, "An error occurred", errorMessage(400, []byte(body)), "body %s", body)
	}
}

func TestPagePath(t *testing.T) {
	assert.Equal(t, "/users", pagePath("/users", domain.PageQuery{}))
	assert.Equal(t, "/users?size=5", pagePath("/users", domain.PageQuery{Size: 5}))
}
