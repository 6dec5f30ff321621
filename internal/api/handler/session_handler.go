package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/core/guard"
	"github.com/99minutos/admin-console/internal/core/ports"
)

const (
	// DashboardPath is the landing route after sign-in.
	DashboardPath = "/dashboard"
	loginPath     = "/login"
)

// SessionHandler drives the operator session: the login entry point, sign in,
// sign out and a status check.
type SessionHandler struct {
	sessions ports.SessionManager
}

func NewSessionHandler(sessions ports.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// LoginPage is the login entry point. A signed-in operator is sent on to the
// dashboard.
//
// @Summary      Login entry point
// @Tags         session
// @Produce      json
// @Success      200  {object}  loginPageResponse
// @Success      303
// @Failure      503  {object}  map[string]string
// @Router       /login [get]
func (h *SessionHandler) LoginPage(c echo.Context) error {
	s := h.sessions.Snapshot()
	switch guard.Authenticated(s) {
	case guard.Loading:
		c.Response().Header().Set("Retry-After", "1")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"state": "loading"})
	case guard.Allow:
		return c.Redirect(http.StatusSeeOther, DashboardPath)
	}
	return c.JSON(http.StatusOK, loginPageResponse{
		Authenticated: false,
		Message:       "Sign in with your username and password",
	})
}

// Login signs the operator in.
//
// @Summary      Sign in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := h.sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{User: identity, Redirect: DashboardPath})
}

// Logout signs the operator out and returns to the login entry point. It
// always succeeds locally.
//
// @Summary      Sign out
// @Tags         session
// @Success      303
// @Router       /logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, loginPath)
}

// Status reports the current session.
//
// @Summary      Session status
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Status(c echo.Context) error {
	s := h.sessions.Snapshot()
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: s.Authenticated(),
		Initializing:  s.Initializing,
		Verified:      s.Verified,
		User:          s.Identity,
	})
}

// Refresh trades the session token for a fresh one. A rejected token signs
// the operator out.
//
// @Summary      Refresh session token
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /session/refresh [post]
func (h *SessionHandler) Refresh(c echo.Context) error {
	if err := h.sessions.Refresh(c.Request().Context()); err != nil {
		return err
	}
	return h.Status(c)
}

// ChangePassword changes the signed-in operator's password.
//
// @Summary      Change own password
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /account/password [post]
func (h *SessionHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.sessions.ChangePassword(c.Request().Context(), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed successfully"})
}

// Home sends / to the dashboard; the guard on the dashboard decides the rest.
func Home(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, DashboardPath)
}

