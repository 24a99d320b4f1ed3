package handler

import (
	"github.com/nimblecrm/crm-console/internal/core/domain"
)

// --- Form → domain ---

func (f pageParams) toQuery() domain.PageQuery {
	return domain.PageQuery{Page: f.Page, Size: f.Size, Sort: f.Sort}
}

func (f loginForm) toRequest() domain.LoginRequest {
	return domain.LoginRequest{Username: f.Username, Password: f.Password}
}

func (f registerForm) toRequest() domain.RegisterRequest {
	return domain.RegisterRequest{
		Username:  f.Username,
		Password:  f.Password,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
	}
}

func (f customerForm) toCustomer() domain.Customer {
	return domain.Customer{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		PhoneNumber: f.PhoneNumber,
		Address:     f.Address,
	}
}

func (f productForm) toProduct() domain.Product {
	return domain.Product{
		Name:        f.Name,
		Price:       f.Price,
		Stock:       f.Stock,
		Status:      f.Status,
		Category:    f.Category,
		Description: f.Description,
	}
}

func (f orderForm) toOrder() domain.OrderCreate {
	return domain.OrderCreate{ProductID: f.ProductID, CustomerID: f.CustomerID, Quantity: f.Quantity}
}

// toRequest fills in isActive=true when the form leaves it out.
func (f userCreateForm) toRequest() domain.RegisterRequest {
	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}
	return domain.RegisterRequest{
		Username:  f.Username,
		Password:  f.Password,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Role:      f.Role,
		IsActive:  &active,
	}
}

func (f userUpdateForm) toUpdate() domain.UserUpdate {
	return domain.UserUpdate{
		Username:  f.Username,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Role:      f.Role,
		IsActive:  f.IsActive,
	}
}

func (f profileForm) toUpdate() domain.UserUpdate {
	return domain.UserUpdate{FirstName: f.FirstName, LastName: f.LastName, Email: f.Email}
}

func toSessionResponse(s domain.SessionState) sessionResponse {
	return sessionResponse{
		Loading:       s.Loading,
		Authenticated: s.IsAuthenticated(),
		Admin:         s.IsAdmin(),
		User:          s.User,
	}
}
