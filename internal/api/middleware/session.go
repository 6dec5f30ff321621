package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/api/metrics"
	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/guard"
	"github.com/99minutos/admin-console/internal/core/ports"
)

const (
	// LoginPath is where unauthenticated navigations are sent.
	LoginPath = "/login"

	ctxIdentity = "identity"
	retryAfter  = "1"
)

type loadingResponse struct {
	State string `json:"state"`
}

type deniedResponse struct {
	Error string `json:"error"`
}

// RequireSession admits signed-in operators. While the session is still being
// restored it answers 503 so the client retries; without a session it
// redirects to LoginPath.
func RequireSession(sessions ports.SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := sessions.Snapshot()
			if done, err := authenticated(c, s); done {
				return err
			}
			c.Set(ctxIdentity, s.Identity)
			return next(c)
		}
	}
}

// RequireAdmin is RequireSession followed by the admin-role check, evaluated
// against a single snapshot.
func RequireAdmin(sessions ports.SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := sessions.Snapshot()
			if done, err := authenticated(c, s); done {
				return err
			}

			outcome := guard.Privileged(s)
			metrics.GuardDecisionsTotal.WithLabelValues("privileged", outcome.String()).Inc()
			if outcome == guard.Deny {
				return c.JSON(http.StatusForbidden, deniedResponse{Error: domain.UserMessage(domain.ErrForbidden)})
			}

			c.Set(ctxIdentity, s.Identity)
			return next(c)
		}
	}
}

// authenticated reports done=true when the request has been answered.
func authenticated(c echo.Context, s domain.Session) (bool, error) {
	outcome := guard.Authenticated(s)
	metrics.GuardDecisionsTotal.WithLabelValues("authenticated", outcome.String()).Inc()

	switch outcome {
	case guard.Loading:
		c.Response().Header().Set("Retry-After", retryAfter)
		return true, c.JSON(http.StatusServiceUnavailable, loadingResponse{State: "loading"})
	case guard.RedirectLogin:
		return true, c.Redirect(http.StatusSeeOther, LoginPath)
	}
	return false, nil
}

// Identity returns the operator admitted by RequireSession or RequireAdmin.
func Identity(c echo.Context) *domain.Identity {
	ident, _ := c.Get(ctxIdentity).(*domain.Identity)
	return ident
}
