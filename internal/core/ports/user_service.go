package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// ListUsersFilter carries optional filters for the user listing.
type ListUsersFilter struct {
	Role     string // optional: admin or viewer
	IsActive *bool  // optional
	Search   string // optional: partial match on username
	Page     int    // 1-based
	Limit    int
}

// CreateUserInput is the payload for provisioning an account.
type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
}

// UpdateUserInput changes an account. Nil pointers are left untouched.
type UpdateUserInput struct {
	Username *string `json:"username,omitempty"`
	Role     *string `json:"role,omitempty"`
	Email    *string `json:"email,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// UserList is one page of managed users.
type UserList struct {
	Users []domain.ManagedUser `json:"users"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// UserRepository is the remote user collection.
type UserRepository interface {
	List(ctx context.Context, filter ListUsersFilter) (*UserList, error)
	Get(ctx context.Context, id string) (*domain.ManagedUser, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.ManagedUser, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.ManagedUser, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, active bool) (*domain.ManagedUser, error)
	ResetPassword(ctx context.Context, id, newPassword string) error
	Activity(ctx context.Context, id string, limit int) ([]domain.UserActivity, error)
}

// UserService manages accounts on behalf of operator, the signed-in admin.
type UserService interface {
	List(ctx context.Context, filter ListUsersFilter) (*UserList, error)
	Get(ctx context.Context, id string) (*domain.ManagedUser, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.ManagedUser, error)
	Update(ctx context.Context, operator *domain.Identity, id string, in UpdateUserInput) (*domain.ManagedUser, error)
	Delete(ctx context.Context, operator *domain.Identity, id string) error
	SetStatus(ctx context.Context, operator *domain.Identity, id string, active bool) (*domain.ManagedUser, error)
	ResetPassword(ctx context.Context, id, newPassword string) error
	Activity(ctx context.Context, id string, limit int) ([]domain.UserActivity, error)
}
