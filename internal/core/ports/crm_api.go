package ports

import (
	"context"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

// AuthAPI covers the /auth endpoints used by the session.
type AuthAPI interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Credentials, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Me(ctx context.Context) (*domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error)
}

type CustomerAPI interface {
	ListCustomers(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Customer], error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, c domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type ProductAPI interface {
	ListProducts(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Product], error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, p domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type OrderAPI interface {
	ListOrders(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Order], error)
	ListMyOrders(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Order], error)
	ListCustomerOrders(ctx context.Context, customerID int64, q domain.PageQuery) (*domain.Page[domain.Order], error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, o domain.OrderCreate) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}

type UserAPI interface {
	ListUsers(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.User], error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, u domain.RegisterRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, u domain.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ChangeOwnPassword(ctx context.Context, req domain.PasswordChange) error
	ResetPassword(ctx context.Context, id int64, req domain.PasswordReset) error
}

type ActivityAPI interface {
	ListActivities(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Activity], error)
}

type DashboardAPI interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	MonthlySales(ctx context.Context) ([]domain.MonthlySales, error)
	DailySales(ctx context.Context) ([]domain.DailySales, error)
	ProductSales(ctx context.Context) ([]domain.ProductSales, error)
	RecentCustomers(ctx context.Context, count int) ([]domain.Customer, error)
	RecentActivities(ctx context.Context, count int) ([]domain.Activity, error)
}

// CRMAPI is the full backend surface the console views consume.
type CRMAPI interface {
	CustomerAPI
	ProductAPI
	OrderAPI
	UserAPI
	ActivityAPI
	DashboardAPI
}
