package devauthority

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/core/domain"
)

const (
	ctxAccount = "account"
	ctxToken   = "token"
)

// bearerAuth resolves the bearer token and injects the account into context.
func bearerAuth(auth *Authority) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return fail(c, http.StatusUnauthorized, "No token provided")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return fail(c, http.StatusUnauthorized, "Invalid authorization header")
			}

			acct, err := auth.Authenticate(parts[1])
			if err != nil {
				return fail(c, http.StatusUnauthorized, message(err))
			}

			c.Set(ctxAccount, acct)
			c.Set(ctxToken, parts[1])
			return next(c)
		}
	}
}

// requireRole admits accounts holding one of the allowed roles.
func requireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct, _ := c.Get(ctxAccount).(*domain.ManagedUser)
			if acct == nil {
				return fail(c, http.StatusUnauthorized, "No token provided")
			}
			if _, ok := allowed[acct.Role]; !ok {
				return fail(c, http.StatusForbidden, "Forbidden")
			}
			return next(c)
		}
	}
}

func currentAccount(c echo.Context) *domain.ManagedUser {
	acct, _ := c.Get(ctxAccount).(*domain.ManagedUser)
	return acct
}
