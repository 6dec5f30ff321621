package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/admin-console/internal/api/docs"
	"github.com/99minutos/admin-console/internal/api/handler"
	"github.com/99minutos/admin-console/internal/api/middleware"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// Dependencies are the services the console surface is built over.
type Dependencies struct {
	Sessions  ports.SessionManager
	Customers ports.CustomerService
	Users     ports.UserService
	// Recovery serves the signed-out password reset flow.
	Recovery ports.PasswordRecovery
	// Checks are run by /health/ready, keyed by dependency name.
	Checks map[string]handler.Check
	// Registry receives the HTTP metrics; nil uses a private registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "console",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Health and metrics (no session required) ---
	health := handler.NewHealthHandler(deps.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session ---
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	e.GET(middleware.LoginPath, sessionHandler.LoginPage)
	e.POST(middleware.LoginPath, sessionHandler.Login)
	e.POST("/logout", sessionHandler.Logout)
	e.GET("/session", sessionHandler.Status)
	e.GET("/", handler.Home)

	passwordHandler := handler.NewPasswordHandler(deps.Recovery)
	e.POST("/password/forgot", passwordHandler.Forgot)
	e.POST("/password/reset", passwordHandler.Reset)

	authenticated := middleware.RequireSession(deps.Sessions)
	adminOnly := middleware.RequireAdmin(deps.Sessions)

	e.POST("/session/refresh", sessionHandler.Refresh, authenticated)
	e.POST("/account/password", sessionHandler.ChangePassword, authenticated)

	// --- Customers (any signed-in operator) ---
	customerHandler := handler.NewCustomerHandler(deps.Customers, deps.Users, log)
	e.GET(handler.DashboardPath, customerHandler.Dashboard, authenticated)
	customers := e.Group("/customers", authenticated)
	customers.GET("", customerHandler.List)
	customers.POST("", customerHandler.Create)
	customers.GET("/:id", customerHandler.Get)
	customers.PUT("/:id", customerHandler.Update)
	customers.DELETE("/:id", customerHandler.Delete)

	// --- Users (admins only) ---
	userHandler := handler.NewUserHandler(deps.Users)
	users := e.Group("/users", adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.PATCH("/:id/status", userHandler.SetStatus)
	users.POST("/:id/reset-password", userHandler.ResetPassword)
	users.GET("/:id/activity", userHandler.Activity)

	return e
}
