package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/infrastructure/authority"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid credentials", fmt.Errorf("%w: bad password", domain.ErrInvalidCredentials), http.StatusUnauthorized, "Invalid credentials"},
		{"malformed", fmt.Errorf("login: %w", domain.ErrMalformedResponse), http.StatusBadGateway, "Login failed - invalid response format"},
		{"unavailable", fmt.Errorf("%w: dial tcp", domain.ErrUnavailable), http.StatusBadGateway, "Network error occurred"},
		{"remote not found", fmt.Errorf("get customer 9: %w", &authority.APIError{Status: 404, Message: "Customer not found"}), http.StatusNotFound, "Customer not found"},
		{"remote forbidden", &authority.APIError{Status: 403, Message: "Forbidden"}, http.StatusForbidden, "You don't have permission to access this page."},
		{"remote conflict", &authority.APIError{Status: 409, Message: "User already exists"}, http.StatusBadRequest, "User already exists"},
		{"self modification", domain.ErrSelfModification, http.StatusBadRequest, domain.ErrSelfModification.Error()},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "nope"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, resp.Error)
			}
		})
	}
}
