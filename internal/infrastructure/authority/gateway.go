package authority

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/api/metrics"
	"github.com/99minutos/admin-console/internal/core/domain"
)

// Gateway is the credential exchange with the authority.
type Gateway struct {
	client *Client
	log    zerolog.Logger
}

func NewGateway(client *Client, log zerolog.Logger) *Gateway {
	return &Gateway{client: client, log: log}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User        *domain.Identity `json:"user"`
	AccessToken string           `json:"access_token"`
}

// Login exchanges credentials for an identity and token. A 401/403 reply is
// reported as domain.ErrInvalidCredentials; a reply without both an identity
// and a token as domain.ErrMalformedResponse.
func (g *Gateway) Login(ctx context.Context, username, password string) (*domain.Identity, string, error) {
	var resp loginResponse
	err := g.client.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   loginRequest{Username: username, Password: password},
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && IsAuthRejection(apiErr) {
			return nil, "", fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, apiErr.Message)
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}

	if resp.User == nil || resp.User.Username == "" || resp.AccessToken == "" {
		return nil, "", fmt.Errorf("login: %w", domain.ErrMalformedResponse)
	}
	return resp.User, resp.AccessToken, nil
}

// Logout asks the authority to invalidate token. It never fails; a failed
// call is logged and the caller proceeds with its local cleanup.
func (g *Gateway) Logout(ctx context.Context, token string) {
	err := g.client.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Token:  token,
	}, nil)
	if err != nil {
		g.log.Warn().Err(err).Msg("logout failed on authority")
		metrics.LogoutsTotal.WithLabelValues("failed").Inc()
		return
	}
	metrics.LogoutsTotal.WithLabelValues("ok").Inc()
}

// Verify returns the identity token belongs to. An error matching
// domain.ErrAuthRejected means the authority refused the token; every other
// error leaves the token's validity unknown.
func (g *Gateway) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	var env envelope[domain.Identity]
	if err := g.client.do(ctx, request{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Token:  token,
	}, &env); err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	identity, err := env.unwrap("Token verification failed")
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return identity, nil
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// Refresh trades token for a new one. The authority has answered with both
// "access_token" and "token"; either is accepted.
func (g *Gateway) Refresh(ctx context.Context, token string) (string, error) {
	var env envelope[refreshResponse]
	if err := g.client.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
		Token:  token,
	}, &env); err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	data, err := env.unwrap("Token refresh failed")
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	fresh := data.AccessToken
	if fresh == "" {
		fresh = data.Token
	}
	if fresh == "" {
		return "", fmt.Errorf("refresh token: %w", domain.ErrMalformedResponse)
	}
	return fresh, nil
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword changes the password of the account token belongs to.
func (g *Gateway) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	var env envelope[struct{}]
	if err := g.client.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/auth/change-password",
		Body:   changePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword},
		Token:  token,
	}, &env); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return env.check("Password change failed")
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset asks the authority to mail a reset link to email.
func (g *Gateway) RequestPasswordReset(ctx context.Context, email string) error {
	var env envelope[struct{}]
	if err := g.client.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/auth/forgot-password",
		Body:   forgotPasswordRequest{Email: email},
	}, &env); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return env.check("Password reset request failed")
}

type completeResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// CompletePasswordReset sets a new password using the token from a reset link.
func (g *Gateway) CompletePasswordReset(ctx context.Context, resetToken, newPassword string) error {
	var env envelope[struct{}]
	if err := g.client.do(ctx, request{
		Method: http.MethodPost,
		Path:   "/auth/reset-password",
		Body:   completeResetRequest{Token: resetToken, NewPassword: newPassword},
	}, &env); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return env.check("Password reset failed")
}
