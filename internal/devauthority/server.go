// Package devauthority is an in-memory stand-in for the remote API the console
// talks to. It issues real HS256 tokens and speaks the same wire shapes, so the
// console can run locally and end-to-end tests need no external service.
package devauthority

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// NewServer builds the Echo instance serving auth under prefix (for example
// "/api/v1").
func NewServer(auth *Authority, prefix string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			log.Debug().
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", c.Response().Status).
				Msg("authority request")
			return err
		}
	})

	h := &handlers{auth: auth, log: log}
	authed := bearerAuth(auth)
	adminOnly := requireRole(domain.RoleAdmin)

	api := e.Group(prefix)

	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", h.logout, authed)
	api.GET("/auth/me", h.me, authed)
	api.POST("/auth/register", h.register, authed, adminOnly)
	api.POST("/auth/refresh", h.refresh, authed)
	api.POST("/auth/change-password", h.changePassword, authed)
	api.POST("/auth/forgot-password", h.forgotPassword)
	api.POST("/auth/reset-password", h.completePasswordReset)

	customers := api.Group("/customers", authed)
	customers.GET("", h.listCustomers)
	customers.POST("", h.createCustomer)
	customers.GET("/:id", h.getCustomer)
	customers.PUT("/:id", h.updateCustomer)
	customers.DELETE("/:id", h.deleteCustomer)

	users := api.Group("/users", authed, adminOnly)
	users.GET("", h.listUsers)
	users.POST("", h.createUser)
	users.GET("/:id", h.getUser)
	users.PUT("/:id", h.updateUser)
	users.DELETE("/:id", h.deleteUser)
	users.PATCH("/:id/status", h.setUserStatus)
	users.POST("/:id/reset-password", h.resetUserPassword)
	users.GET("/:id/activity", h.userActivity)

	return e
}
