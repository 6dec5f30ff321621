package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// SessionSource exposes point-in-time snapshots of the operator's session.
type SessionSource interface {
	Snapshot() domain.Session
}

// SessionManager is the operator session as the console surface drives it.
type SessionManager interface {
	SessionSource
	Login(ctx context.Context, username, password string) (*domain.Identity, error)
	Logout(ctx context.Context)
	// Refresh replaces the current token with a fresh one from the authority.
	Refresh(ctx context.Context) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}
