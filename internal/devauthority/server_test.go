package devauthority

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) (*echo.Echo, *Authority) {
	t.Helper()
	a := newSeededAuthority(t)
	return NewServer(a, "/api/v1", zerolog.Nop()), a
}

func serve(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()
	rec := serve(e, http.MethodPost, "/api/v1/auth/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp.AccessToken
}

func TestServer_LoginShape(t *testing.T) {
	e, _ := newTestServer(t)

	rec := serve(e, http.MethodPost, "/api/v1/auth/login", "", `{"username":"admin","password":"Admin@123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if tok, _ := resp["access_token"].(string); tok == "" {
		t.Fatalf("missing access_token")
	}
}

func TestServer_LoginInvalid(t *testing.T) {
	e, _ := newTestServer(t)

	rec := serve(e, http.MethodPost, "/api/v1/auth/login", "", `{"username":"admin","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestServer_MeAndLogout(t *testing.T) {
	e, _ := newTestServer(t)
	token := loginToken(t, e, "user", "User@123")

	rec := serve(e, http.MethodGet, "/api/v1/auth/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
	var me struct {
		Success bool `json:"success"`
		Data    struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !me.Success || me.Data.Username != "user" {
		t.Fatalf("unexpected me payload: %s", rec.Body.String())
	}

	if rec := serve(e, http.MethodPost, "/api/v1/auth/logout", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/api/v1/auth/me", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", rec.Code)
	}
}

func TestServer_MissingToken(t *testing.T) {
	e, _ := newTestServer(t)
	if rec := serve(e, http.MethodGet, "/api/v1/customers", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestServer_UsersRequireAdmin(t *testing.T) {
	e, _ := newTestServer(t)

	viewer := loginToken(t, e, "user", "User@123")
	if rec := serve(e, http.MethodGet, "/api/v1/users", viewer, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("viewer: expected 403, got %d", rec.Code)
	}

	admin := loginToken(t, e, "admin", "Admin@123")
	rec := serve(e, http.MethodGet, "/api/v1/users?role=viewer", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data struct {
			Users []struct {
				Username string `json:"username"`
			} `json:"users"`
			Total int64 `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data.Total != 1 || resp.Data.Users[0].Username != "user" {
		t.Fatalf("unexpected listing: %s", rec.Body.String())
	}
}

func TestServer_CustomerLifecycle(t *testing.T) {
	e, _ := newTestServer(t)
	token := loginToken(t, e, "user", "User@123")

	rec := serve(e, http.MethodPost, "/api/v1/customers", token, `{"name":"Ada","email":"ada@example.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing phone: expected 400, got %d", rec.Code)
	}

	rec = serve(e, http.MethodPost, "/api/v1/customers", token, `{"name":"Ada","email":"ada@example.com","phone":"5551234567"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if created.ID == "" || created.Status != "active" {
		t.Fatalf("unexpected customer: %s", rec.Body.String())
	}

	rec = serve(e, http.MethodGet, "/api/v1/customers?page=1&limit=2", token, "")
	var list struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"totalPages"`
			HasNext    bool  `json:"hasNext"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if list.Pagination.Total != 3 || len(list.Data) != 2 || !list.Pagination.HasNext || list.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected list: %s", rec.Body.String())
	}

	if rec := serve(e, http.MethodDelete, "/api/v1/customers/"+created.ID, token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/api/v1/customers/"+created.ID, token, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", rec.Code)
	}
}

func TestServer_RefreshAndChangePassword(t *testing.T) {
	e, _ := newTestServer(t)
	token := loginToken(t, e, "user", "User@123")

	rec := serve(e, http.MethodPost, "/api/v1/auth/refresh", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var refreshed struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &refreshed); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !refreshed.Success || refreshed.Data.AccessToken == "" {
		t.Fatalf("unexpected refresh payload: %s", rec.Body.String())
	}
	fresh := refreshed.Data.AccessToken

	rec = serve(e, http.MethodPost, "/api/v1/auth/change-password", fresh, `{"oldPassword":"nope","newPassword":"Next@123"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Current password is incorrect") {
		t.Fatalf("wrong old password: got %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(e, http.MethodPost, "/api/v1/auth/change-password", fresh, `{"oldPassword":"User@123"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Missing required fields") {
		t.Fatalf("missing field: got %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(e, http.MethodPost, "/api/v1/auth/change-password", fresh, `{"oldPassword":"User@123","newPassword":"Next@123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("change password: expected 200, got %d", rec.Code)
	}
	loginToken(t, e, "user", "Next@123")
}

func TestServer_ForgotAndResetPassword(t *testing.T) {
	e, a := newTestServer(t)

	rec := serve(e, http.MethodPost, "/api/v1/auth/forgot-password", "", `{"email":"bad"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Invalid email address") {
		t.Fatalf("bad email: got %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(e, http.MethodPost, "/api/v1/auth/forgot-password", "", `{"email":"user@test.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("forgot: expected 200, got %d", rec.Code)
	}

	rec = serve(e, http.MethodPost, "/api/v1/auth/reset-password", "", `{"token":"unknown","newPassword":"Reset@123"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Invalid or expired reset token") {
		t.Fatalf("unknown token: got %d %s", rec.Code, rec.Body.String())
	}

	token, err := a.RequestPasswordReset("user@test.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	rec = serve(e, http.MethodPost, "/api/v1/auth/reset-password", "", `{"token":"`+token+`","newPassword":"Reset@123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	loginToken(t, e, "user", "Reset@123")
}
