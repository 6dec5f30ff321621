package devauthority

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

type handlers struct {
	auth *Authority
	log  zerolog.Logger
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: false, Message: msg})
}

// message renders err the way the production API words it.
func message(err error) string {
	switch {
	case errors.Is(err, errInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, errInvalidToken):
		return "Invalid token"
	case errors.Is(err, errAccountDisabled):
		return "Account disabled"
	case errors.Is(err, errInvalidInput):
		return "Invalid input"
	case errors.Is(err, errWrongPassword):
		return "Current password is incorrect"
	case errors.Is(err, errInvalidResetToken):
		return "Invalid or expired reset token"
	case errors.Is(err, errAccountExists):
		return "User already exists"
	case errors.Is(err, errAccountNotFound):
		return "User not found"
	case errors.Is(err, errCustomerMissing):
		return "Customer not found"
	default:
		return "Internal server error"
	}
}

func status(err error) int {
	switch {
	case errors.Is(err, errInvalidCredentials), errors.Is(err, errInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, errInvalidInput), errors.Is(err, errWrongPassword), errors.Is(err, errInvalidResetToken):
		return http.StatusBadRequest
	case errors.Is(err, errAccountExists):
		return http.StatusConflict
	case errors.Is(err, errAccountNotFound), errors.Is(err, errCustomerMissing):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func failErr(c echo.Context, err error) error {
	return fail(c, status(err), message(err))
}

// ── Auth ──────────────────────────────────────────────────────────────────────

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User        *domain.ManagedUser `json:"user"`
	AccessToken string              `json:"access_token"`
}

func (h *handlers) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	token, user, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, loginResponse{User: user, AccessToken: token})
}

func (h *handlers) logout(c echo.Context) error {
	token, _ := c.Get(ctxToken).(string)
	if err := h.auth.Logout(token); err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Logged out successfully"})
}

func (h *handlers) me(c echo.Context) error {
	return ok(c, http.StatusOK, currentAccount(c))
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Email    string `json:"email"`
}

func (h *handlers) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Role == "" {
		req.Role = domain.RoleViewer
	}
	user, err := h.auth.Register(req.Username, req.Password, req.Email, req.Role)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusCreated, user)
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expiresIn"`
}

func (h *handlers) refresh(c echo.Context) error {
	token, _ := c.Get(ctxToken).(string)
	fresh, err := h.auth.Refresh(token)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, refreshResponse{AccessToken: fresh, ExpiresIn: int64(h.auth.tokenTTL.Seconds())})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *handlers) changePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return fail(c, http.StatusBadRequest, "Missing required fields")
	}
	if err := h.auth.ChangePassword(currentAccount(c).ID.String(), req.OldPassword, req.NewPassword); err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Password changed successfully"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *handlers) forgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	token, err := h.auth.RequestPasswordReset(req.Email)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid email address")
	}
	if token != "" {
		// No mail transport here; the link goes to the log.
		h.log.Info().Str("email", req.Email).Str("reset_token", token).Msg("password reset requested")
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Password reset email sent"})
}

type completeResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *handlers) completePasswordReset(c echo.Context) error {
	var req completeResetRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return fail(c, http.StatusBadRequest, "Missing required fields")
	}
	if err := h.auth.CompletePasswordReset(req.Token, req.NewPassword); err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Password reset successfully"})
}

// ── Customers ─────────────────────────────────────────────────────────────────

type customerListResponse struct {
	Data       []domain.Customer `json:"data"`
	Pagination domain.Page       `json:"pagination"`
}

func (h *handlers) listCustomers(c echo.Context) error {
	page, limit := pageParams(c)
	customers, total := h.auth.store.listCustomers(page, limit)
	return c.JSON(http.StatusOK, customerListResponse{Data: customers, Pagination: domain.NewPage(total, page, limit)})
}

func (h *handlers) getCustomer(c echo.Context) error {
	cust, err := h.auth.store.customer(c.Param("id"))
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *handlers) createCustomer(c echo.Context) error {
	var in ports.CustomerInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if isBlank(in.Name) || isBlank(in.Email) || isBlank(in.Phone) {
		return fail(c, http.StatusBadRequest, "name, email and phone are required")
	}
	now := time.Now().UTC()
	cust := domain.Customer{CreatedAt: &now, Status: domain.CustomerActive}
	applyCustomer(&cust, in)
	cust.UpdatedAt = &now
	return c.JSON(http.StatusCreated, h.auth.store.putCustomer(cust))
}

func (h *handlers) updateCustomer(c echo.Context) error {
	var in ports.CustomerInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	cust, err := h.auth.store.customer(c.Param("id"))
	if err != nil {
		return failErr(c, err)
	}
	applyCustomer(cust, in)
	now := time.Now().UTC()
	cust.UpdatedAt = &now
	return c.JSON(http.StatusOK, h.auth.store.putCustomer(*cust))
}

func (h *handlers) deleteCustomer(c echo.Context) error {
	if err := h.auth.store.deleteCustomer(c.Param("id")); err != nil {
		return failErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func applyCustomer(cust *domain.Customer, in ports.CustomerInput) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cust.Name, in.Name)
	set(&cust.Email, in.Email)
	set(&cust.Phone, in.Phone)
	set(&cust.Company, in.Company)
	set(&cust.Address, in.Address)
	set(&cust.Notes, in.Notes)
	if in.Status != nil {
		cust.Status = *in.Status
	}
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (h *handlers) listUsers(c echo.Context) error {
	page, limit := pageParams(c)
	var active *bool
	if raw := c.QueryParam("isActive"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			active = &v
		}
	}
	users, total := h.auth.store.listAccounts(c.QueryParam("role"), active, c.QueryParam("search"), page, limit)
	return ok(c, http.StatusOK, ports.UserList{Users: users, Total: total, Page: page, Limit: limit})
}

func (h *handlers) getUser(c echo.Context) error {
	acct, err := h.auth.store.accountByID(c.Param("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, acct.ManagedUser)
}

func (h *handlers) createUser(c echo.Context) error {
	var in ports.CreateUserInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	user, err := h.auth.Register(in.Username, in.Password, in.Email, in.Role)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusCreated, user)
}

func (h *handlers) updateUser(c echo.Context) error {
	var in ports.UpdateUserInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	acct, err := h.auth.store.updateAccount(c.Param("id"), func(a *account) error {
		if in.Username != nil {
			if strings.TrimSpace(*in.Username) == "" {
				return errInvalidInput
			}
			a.Username = strings.TrimSpace(*in.Username)
		}
		if in.Role != nil {
			if !domain.ValidRole(*in.Role) {
				return errInvalidInput
			}
			a.Role = *in.Role
		}
		if in.Email != nil {
			a.Email = *in.Email
		}
		if in.IsActive != nil {
			active := *in.IsActive
			a.IsActive = &active
		}
		return nil
	})
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, acct.ManagedUser)
}

func (h *handlers) deleteUser(c echo.Context) error {
	if err := h.auth.store.deleteAccount(c.Param("id")); err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "User deleted successfully"})
}

type statusRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *handlers) setUserStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	acct, err := h.auth.store.updateAccount(c.Param("id"), func(a *account) error {
		active := req.IsActive
		a.IsActive = &active
		return nil
	})
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, acct.ManagedUser)
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *handlers) resetUserPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.NewPassword == "" {
		return fail(c, http.StatusBadRequest, "New password is required")
	}
	if err := h.auth.ResetPassword(c.Param("id"), req.NewPassword); err != nil {
		return failErr(c, err)
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Message: "Password reset successfully"})
}

func (h *handlers) userActivity(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.auth.store.accountByID(id); err != nil {
		return failErr(c, err)
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	return ok(c, http.StatusOK, h.auth.store.activityFor(id, limit))
}

func pageParams(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
