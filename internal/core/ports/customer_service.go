package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// ListCustomersFilter carries the pagination parameters for listing customers.
type ListCustomersFilter struct {
	Page  int // 1-based
	Limit int // capped at 100 by the service
}

// CustomerInput is the writable part of a customer record. Nil pointers in an
// update leave the remote value untouched.
type CustomerInput struct {
	Name    *string                `json:"name,omitempty"`
	Email   *string                `json:"email,omitempty"`
	Phone   *string                `json:"phone,omitempty"`
	Company *string                `json:"company,omitempty"`
	Address *string                `json:"address,omitempty"`
	Notes   *string                `json:"notes,omitempty"`
	Status  *domain.CustomerStatus `json:"status,omitempty"`
}

// CustomerView is a customer plus its display-ready phone number.
type CustomerView struct {
	domain.Customer
	PhoneDisplay string `json:"phoneDisplay"`
}

// CustomerList is one page of customers.
type CustomerList struct {
	Customers  []CustomerView `json:"customers"`
	Pagination domain.Page    `json:"pagination"`
}

// CustomerRepository is the remote customer collection.
type CustomerRepository interface {
	List(ctx context.Context, filter ListCustomersFilter) ([]domain.Customer, domain.Page, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, in CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, id string, in CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

type CustomerService interface {
	List(ctx context.Context, filter ListCustomersFilter) (*CustomerList, error)
	Get(ctx context.Context, id string) (*CustomerView, error)
	Create(ctx context.Context, in CustomerInput) (*CustomerView, error)
	Update(ctx context.Context, id string, in CustomerInput) (*CustomerView, error)
	Delete(ctx context.Context, id string) error
}
