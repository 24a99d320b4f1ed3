package crmapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

// getData fetches an enveloped payload and returns its data field.
func getData[T any](ctx context.Context, c *Client, path string) (*T, error) {
	env, err := Get[domain.Envelope[T]](ctx, c, path)
	return unwrap(env, err)
}

func postData[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*T, error) {
	env, err := Post[domain.Envelope[T]](ctx, c, path, body, opts...)
	return unwrap(env, err)
}

func putData[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	env, err := Put[domain.Envelope[T]](ctx, c, path, body)
	return unwrap(env, err)
}

func unwrap[T any](env *domain.Envelope[T], err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, &domain.APIError{Kind: domain.KindDecode, Message: "empty response envelope"}
	}
	return &env.Data, nil
}

// discard runs a call whose payload the console does not need. Empty
// bodies are accepted.
func discard(ctx context.Context, c *Client, method, path string, body any) error {
	_, err := send[json.RawMessage](ctx, c, method, path, body, nil)
	return err
}

func pagePath(path string, q domain.PageQuery) string {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func itemPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

// --- auth ---

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.Credentials, error) {
	creds, err := Post[domain.Credentials](ctx, c, "/auth/login", req, WithoutAuth())
	if err != nil {
		return nil, err
	}
	if creds == nil || creds.AccessToken == "" {
		return nil, &domain.APIError{Kind: domain.KindDecode, Message: "login response carried no access token"}
	}
	return creds, nil
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	return postData[domain.User](ctx, c, "/auth/register", req, WithoutAuth())
}

func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	return getData[domain.User](ctx, c, "/auth/me")
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error) {
	body := map[string]string{"refreshToken": refreshToken}
	creds, err := Post[domain.Credentials](ctx, c, "/auth/refresh", body, WithoutAuth())
	if err != nil {
		return nil, err
	}
	if creds == nil || creds.AccessToken == "" {
		return nil, &domain.APIError{Kind: domain.KindDecode, Message: "refresh response carried no access token"}
	}
	return creds, nil
}

// --- customers ---

func (c *Client) ListCustomers(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Customer], error) {
	return getData[domain.Page[domain.Customer]](ctx, c, pagePath("/customers", q))
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return getData[domain.Customer](ctx, c, itemPath("/customers", id))
}

func (c *Client) CreateCustomer(ctx context.Context, cust domain.Customer) (*domain.Customer, error) {
	return postData[domain.Customer](ctx, c, "/customers", cust)
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, cust domain.Customer) (*domain.Customer, error) {
	return putData[domain.Customer](ctx, c, itemPath("/customers", id), cust)
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return discard(ctx, c, http.MethodDelete, itemPath("/customers", id), nil)
}

// --- products ---

func (c *Client) ListProducts(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Product], error) {
	return getData[domain.Page[domain.Product]](ctx, c, pagePath("/products", q))
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return getData[domain.Product](ctx, c, itemPath("/products", id))
}

func (c *Client) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return postData[domain.Product](ctx, c, "/products", p)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, p domain.Product) (*domain.Product, error) {
	return putData[domain.Product](ctx, c, itemPath("/products", id), p)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return discard(ctx, c, http.MethodDelete, itemPath("/products", id), nil)
}

// --- orders ---

func (c *Client) ListOrders(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Order], error) {
	return getData[domain.Page[domain.Order]](ctx, c, pagePath("/orders", q))
}

func (c *Client) ListMyOrders(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Order], error) {
	return getData[domain.Page[domain.Order]](ctx, c, pagePath("/orders/my-orders", q))
}

func (c *Client) ListCustomerOrders(ctx context.Context, customerID int64, q domain.PageQuery) (*domain.Page[domain.Order], error) {
	return getData[domain.Page[domain.Order]](ctx, c, pagePath(itemPath("/orders/customer", customerID), q))
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return getData[domain.Order](ctx, c, itemPath("/orders", id))
}

func (c *Client) CreateOrder(ctx context.Context, o domain.OrderCreate) (*domain.Order, error) {
	return postData[domain.Order](ctx, c, "/orders", o)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	return putData[domain.Order](ctx, c, itemPath("/orders", id)+"/status", domain.OrderStatusUpdate{NewStatus: status})
}

// --- users ---

func (c *Client) ListUsers(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.User], error) {
	return getData[domain.Page[domain.User]](ctx, c, pagePath("/users", q))
}

func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return getData[domain.User](ctx, c, itemPath("/users", id))
}

func (c *Client) CreateUser(ctx context.Context, u domain.RegisterRequest) (*domain.User, error) {
	return postData[domain.User](ctx, c, "/users", u)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, u domain.UserUpdate) (*domain.User, error) {
	return putData[domain.User](ctx, c, itemPath("/users", id), u)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return discard(ctx, c, http.MethodDelete, itemPath("/users", id), nil)
}

func (c *Client) ChangeOwnPassword(ctx context.Context, req domain.PasswordChange) error {
	return discard(ctx, c, http.MethodPost, "/users/me/change-password", req)
}

func (c *Client) ResetPassword(ctx context.Context, id int64, req domain.PasswordReset) error {
	return discard(ctx, c, http.MethodPost, itemPath("/users", id)+"/change-password", req)
}

// --- activities ---

func (c *Client) ListActivities(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Activity], error) {
	return getData[domain.Page[domain.Activity]](ctx, c, pagePath("/activities", q))
}

// --- dashboard ---

func (c *Client) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return getData[domain.DashboardStats](ctx, c, "/dashboard/stats")
}

func (c *Client) MonthlySales(ctx context.Context) ([]domain.MonthlySales, error) {
	return listData[domain.MonthlySales](ctx, c, "/dashboard/sales/bar-chart")
}

func (c *Client) DailySales(ctx context.Context) ([]domain.DailySales, error) {
	return listData[domain.DailySales](ctx, c, "/dashboard/sales/line-chart")
}

func (c *Client) ProductSales(ctx context.Context) ([]domain.ProductSales, error) {
	return listData[domain.ProductSales](ctx, c, "/dashboard/sales/pie-chart")
}

func (c *Client) RecentCustomers(ctx context.Context, count int) ([]domain.Customer, error) {
	return listData[domain.Customer](ctx, c, "/dashboard/recent-customers?count="+strconv.Itoa(count))
}

func (c *Client) RecentActivities(ctx context.Context, count int) ([]domain.Activity, error) {
	return listData[domain.Activity](ctx, c, "/dashboard/recent-activities?count="+strconv.Itoa(count))
}

func listData[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	items, err := getData[[]T](ctx, c, path)
	if err != nil {
		return nil, err
	}
	return *items, nil
}
