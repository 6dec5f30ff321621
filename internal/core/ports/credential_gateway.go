package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// CredentialGateway performs the credential exchanges with the remote authority.
type CredentialGateway interface {
	// Login exchanges credentials for an identity and an opaque token.
	Login(ctx context.Context, username, password string) (*domain.Identity, string, error)
	// Logout asks the authority to invalidate token. Failures are not reported.
	Logout(ctx context.Context, token string)
	// Verify returns the identity token belongs to. An authority rejection
	// matches domain.ErrAuthRejected; any other error is transient.
	Verify(ctx context.Context, token string) (*domain.Identity, error)
	// Refresh trades token for a new one. A rejection matches
	// domain.ErrAuthRejected.
	Refresh(ctx context.Context, token string) (string, error)
	// ChangePassword changes the password of the account token belongs to.
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error
}

// PasswordRecovery is the signed-out password reset flow.
type PasswordRecovery interface {
	RequestPasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, resetToken, newPassword string) error
}

// TokenSource yields the bearer token for outgoing resource calls.
type TokenSource interface {
	Token() string
}
