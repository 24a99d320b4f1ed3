package handler

import (
	"github.com/shopspring/decimal"

	"github.com/nimblecrm/crm-console/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// viewResponse describes a screen that has no data of its own (login, register).
type viewResponse struct {
	View string `json:"view"`
}

// --- Forms ---

type pageParams struct {
	Page int    `query:"page" json:"page" validate:"min=0"`
	Size int    `query:"size" json:"size" validate:"min=0,max=1000"`
	Sort string `query:"sort" json:"sort"`
}

type loginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerForm struct {
	Username  string `json:"username"  validate:"required,min=3,max=50"`
	Password  string `json:"password"  validate:"required,min=8,max=100"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName"  validate:"required,max=50"`
	Email     string `json:"email"     validate:"required,email,max=100"`
}

type customerForm struct {
	FirstName   string `json:"firstName"   validate:"required,max=100"`
	LastName    string `json:"lastName"    validate:"required,max=100"`
	Email       string `json:"email"       validate:"omitempty,email,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"max=20"`
	Address     string `json:"address"     validate:"max=255"`
}

type productForm struct {
	Name        string          `json:"name"        validate:"required,min=2,max=100"`
	Price       decimal.Decimal `json:"price"       validate:"gt=0"`
	Stock       int             `json:"stock"       validate:"min=0"`
	Status      string          `json:"status"      validate:"max=50"`
	Category    string          `json:"category"    validate:"max=100"`
	Description string          `json:"description" validate:"max=1000"`
}

type orderForm struct {
	ProductID  int64 `json:"productId"  validate:"required"`
	CustomerID int64 `json:"customerId" validate:"required"`
	Quantity   int   `json:"quantity"   validate:"required,min=1"`
}

type orderStatusForm struct {
	NewStatus string `json:"newStatus" validate:"required,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED RETURNED"`
}

type userCreateForm struct {
	Username  string `json:"username"  validate:"required,min=3,max=50"`
	Password  string `json:"password"  validate:"required,min=8,max=100"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName"  validate:"required,max=50"`
	Email     string `json:"email"     validate:"required,email,max=100"`
	Role      string `json:"role"      validate:"required,oneof=ROLE_USER ROLE_ADMIN"`
	IsActive  *bool  `json:"isActive"`
}

type userUpdateForm struct {
	Username  string `json:"username"  validate:"omitempty,min=3,max=50"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName"  validate:"max=50"`
	Email     string `json:"email"     validate:"omitempty,email,max=100"`
	Role      string `json:"role"      validate:"omitempty,oneof=ROLE_USER ROLE_ADMIN"`
	IsActive  *bool  `json:"isActive"`
}

type passwordResetForm struct {
	NewPassword string `json:"newPassword" validate:"required,min=8,max=100"`
}

type profileForm struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName"  validate:"required,max=50"`
	Email     string `json:"email"     validate:"required,email,max=100"`
}

type passwordChangeForm struct {
	OldPassword     string `json:"oldPassword"     validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max=100"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// --- Responses ---

type sessionResponse struct {
	Loading       bool         `json:"loading"`
	Authenticated bool         `json:"authenticated"`
	Admin         bool         `json:"admin"`
	User          *domain.User `json:"user,omitempty"`
}

type dashboardResponse struct {
	Stats            *domain.DashboardStats `json:"stats"`
	MonthlySales     []domain.MonthlySales  `json:"monthlySales"`
	DailySales       []domain.DailySales    `json:"dailySales"`
	ProductSales     []domain.ProductSales  `json:"productSales"`
	RecentCustomers  []domain.Customer      `json:"recentCustomers"`
	RecentActivities []domain.Activity      `json:"recentActivities"`
}
