package domain

import "github.com/shopspring/decimal"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderReturned   OrderStatus = "RETURNED"
)

// Customer is a CRM contact.
type Customer struct {
	ID          int64      `json:"id,omitempty"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Address     string     `json:"address,omitempty"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt   *Timestamp `json:"updatedAt,omitempty"`
}

// Product is a catalogue item.
type Product struct {
	ID          int64           `json:"id,omitempty"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status,omitempty"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Order is a purchase of a product on behalf of a customer.
type Order struct {
	ID          int64           `json:"id"`
	Product     Product         `json:"product"`
	Customer    Customer        `json:"customer"`
	CreatedBy   User            `json:"createdBy"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"status"`
	OrderDate   Timestamp       `json:"orderDate"`
	CreatedAt   Timestamp       `json:"createdAt"`
	UpdatedAt   *Timestamp      `json:"updatedAt,omitempty"`
}

// OrderCreate is the body of POST /orders. Price and creator are set by
// the backend.
type OrderCreate struct {
	ProductID  int64 `json:"productId"`
	CustomerID int64 `json:"customerId"`
	Quantity   int   `json:"quantity"`
}

// OrderStatusUpdate is the body of PUT /orders/{id}/status.
type OrderStatusUpdate struct {
	NewStatus OrderStatus `json:"newStatus"`
}

// Activity is an audit entry recorded by the backend.
type Activity struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp Timestamp `json:"timestamp"`
}

// DashboardStats is the headline analytics card set.
type DashboardStats struct {
	TotalProduct    int64   `json:"totalProduct"`
	ProductRevenue  float64 `json:"productRevenue"`
	ProductSold     int64   `json:"productSold"`
	AvgMonthlySales float64 `json:"avgMonthlySales"`
	RevenueChange   float64 `json:"revenueChange"`
	SoldChange      float64 `json:"soldChange"`
	AvgSalesChange  float64 `json:"avgSalesChange"`
}

// MonthlySales is one bar of the revenue-per-month chart.
type MonthlySales struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// DailySales is one point of the revenue-per-day chart.
type DailySales struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// ProductSales is one slice of the revenue-per-product chart.
type ProductSales struct {
	Product string  `json:"product"`
	Total   float64 `json:"total"`
}
