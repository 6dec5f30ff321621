package handler

import (
	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Session ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User     *domain.Identity `json:"user"`
	Redirect string           `json:"redirect"`
}

type loginPageResponse struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Initializing  bool             `json:"initializing"`
	Verified      bool             `json:"verified"`
	User          *domain.Identity `json:"user,omitempty"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,nefield=OldPassword"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type completeResetRequest struct {
	Token       string `json:"token"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Customers ---

type createCustomerRequest struct {
	Name    string                 `json:"name"    validate:"required,max=200"`
	Email   string                 `json:"email"   validate:"required,email"`
	Phone   string                 `json:"phone"   validate:"required"`
	Company string                 `json:"company" validate:"omitempty,max=200"`
	Address string                 `json:"address" validate:"omitempty,max=500"`
	Notes   string                 `json:"notes"   validate:"omitempty,max=2000"`
	Status  *domain.CustomerStatus `json:"status"  validate:"omitempty,oneof=active inactive prospect"`
}

func (r createCustomerRequest) input() ports.CustomerInput {
	in := ports.CustomerInput{
		Name:   &r.Name,
		Email:  &r.Email,
		Phone:  &r.Phone,
		Status: r.Status,
	}
	if r.Company != "" {
		in.Company = &r.Company
	}
	if r.Address != "" {
		in.Address = &r.Address
	}
	if r.Notes != "" {
		in.Notes = &r.Notes
	}
	return in
}

type updateCustomerRequest struct {
	Name    *string                `json:"name"    validate:"omitempty,min=1,max=200"`
	Email   *string                `json:"email"   validate:"omitempty,email"`
	Phone   *string                `json:"phone"   validate:"omitempty,min=1"`
	Company *string                `json:"company" validate:"omitempty,max=200"`
	Address *string                `json:"address" validate:"omitempty,max=500"`
	Notes   *string                `json:"notes"   validate:"omitempty,max=2000"`
	Status  *domain.CustomerStatus `json:"status"  validate:"omitempty,oneof=active inactive prospect"`
}

func (r updateCustomerRequest) input() ports.CustomerInput {
	return ports.CustomerInput{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Company: r.Company,
		Address: r.Address,
		Notes:   r.Notes,
		Status:  r.Status,
	}
}

type dashboardResponse struct {
	User           *domain.Identity     `json:"user"`
	Customers      []ports.CustomerView `json:"customers"`
	TotalCustomers int64                `json:"totalCustomers"`
	TotalUsers     *int64               `json:"totalUsers,omitempty"`
}

// --- Users ---

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=admin viewer"`
	Email    string `json:"email"    validate:"omitempty,email"`
}

type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Role     *string `json:"role"     validate:"omitempty,oneof=admin viewer"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	IsActive *bool   `json:"isActive"`
}

type userStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
