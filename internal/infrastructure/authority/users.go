package authority

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// UserClient is the remote user collection. Every reply is wrapped in the
// {success, data, message} envelope.
type UserClient struct {
	client *Client
	tokens ports.TokenSource
}

func NewUserClient(client *Client, tokens ports.TokenSource) *UserClient {
	return &UserClient{client: client, tokens: tokens}
}

func (c *UserClient) path(id string, rest ...string) string {
	p := "/users/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func (c *UserClient) List(ctx context.Context, f ports.ListUsersFilter) (*ports.UserList, error) {
	q := url.Values{}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*f.IsActive))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var env envelope[ports.UserList]
	if err := c.client.do(ctx, request{Method: http.MethodGet, Path: "/users", Query: q, Token: c.tokens.Token()}, &env); err != nil {
		return nil, err
	}
	return env.unwrap("Failed to fetch users")
}

func (c *UserClient) Get(ctx context.Context, id string) (*domain.ManagedUser, error) {
	var env envelope[domain.ManagedUser]
	if err := c.client.do(ctx, request{Method: http.MethodGet, Path: c.path(id), Token: c.tokens.Token()}, &env); err != nil {
		return nil, err
	}
	return env.unwrap("Failed to fetch user")
}

func (c *UserClient) Create(ctx context.Context, in ports.CreateUserInput) (*domain.ManagedUser, error) {
	var env envelope[domain.ManagedUser]
	if err := c.client.do(ctx, request{Method: http.MethodPost, Path: "/users", Body: in, Token: c.tokens.Token()}, &env); err != nil {
		return nil, err
	}
	return env.unwrap("Failed to create user")
}

func (c *UserClient) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.ManagedUser, error) {
	var env envelope[domain.ManagedUser]
	if err := c.client.do(ctx, request{Method: http.MethodPut, Path: c.path(id), Body: in, Token: c.tokens.Token()}, &env); err != nil {
		return nil, err
	}
	return env.unwrap("Failed to update user")
}

func (c *UserClient) Delete(ctx context.Context, id string) error {
	var env envelope[struct{}]
	if err := c.client.do(ctx, request{Method: http.MethodDelete, Path: c.path(id), Token: c.tokens.Token()}, &env); err != nil {
		return err
	}
	return env.check("Failed to delete user")
}

type statusRequest struct {
	IsActive bool `json:"isActive"`
}

func (c *UserClient) SetStatus(ctx context.Context, id string, active bool) (*domain.ManagedUser, error) {
	var env envelope[domain.ManagedUser]
	if err := c.client.do(ctx, request{Method: http.MethodPatch, Path: c.path(id, "status"), Body: statusRequest{IsActive: active}, Token: c.tokens.Token()}, &env); err != nil {
		return nil, err
	}
	return env.unwrap("Failed to update user status")
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (c *UserClient) ResetPassword(ctx context.Context, id, newPassword string) error {
	var env envelope[struct{}]
	if err := c.client.do(ctx, request{Method: http.MethodPost, Path: c.path(id, "reset-password"), Body: resetPasswordRequest{NewPassword: newPassword}, Token: c.tokens.Token()}, &env); err != nil {
		return err
	}
	return env.check("Failed to reset user password")
}

func (c *UserClient) Activity(ctx context.Context, id string, limit int) ([]domain.UserActivity, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var env envelope[[]domain.UserActivity]
	if err := c.client.do(ctx, request{Method: http.MethodGet, Path: c.path(id, "activity"), Query: q, Token: c.tokens.Token()}, &env); err != nil {
		return nil, err
	}
	entries, err := env.unwrap("Failed to fetch user activity")
	if err != nil {
		return nil, err
	}
	return *entries, nil
}
