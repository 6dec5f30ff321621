package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/99minutos/admin-console/internal/core/domain"
)

type stubRecovery struct {
	requested []string
	resets    map[string]string
	resetErr  error
}

func (s *stubRecovery) RequestPasswordReset(_ context.Context, email string) error {
	s.requested = append(s.requested, email)
	return nil
}

func (s *stubRecovery) CompletePasswordReset(_ context.Context, token, newPassword string) error {
	if s.resetErr != nil {
		return s.resetErr
	}
	if s.resets == nil {
		s.resets = make(map[string]string)
	}
	s.resets[token] = newPassword
	return nil
}

func TestPasswordHandler_Forgot(t *testing.T) {
	stub := &stubRecovery{}
	h := NewPasswordHandler(stub)

	c, rec := newContext(newEcho(), http.MethodPost, "/password/forgot", `{"email":"user@test.com"}`)
	if err := h.Forgot(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || len(stub.requested) != 1 || stub.requested[0] != "user@test.com" {
		t.Fatalf("unexpected result: %d %v", rec.Code, stub.requested)
	}

	c, _ = newContext(newEcho(), http.MethodPost, "/password/forgot", `{"email":"nope"}`)
	var ve *ValidationError
	if err := h.Forgot(c); !errors.As(err, &ve) || ve.Error() != "email must be a valid email" {
		t.Fatalf("expected email validation error, got %v", err)
	}
	if len(stub.requested) != 1 {
		t.Fatalf("invalid email reached the authority")
	}
}

func TestPasswordHandler_Reset(t *testing.T) {
	stub := &stubRecovery{}
	h := NewPasswordHandler(stub)

	c, rec := newContext(newEcho(), http.MethodPost, "/password/reset", `{"token":"abc","newPassword":"Reset@123"}`)
	if err := h.Reset(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || stub.resets["abc"] != "Reset@123" {
		t.Fatalf("unexpected result: %d %v", rec.Code, stub.resets)
	}

	stub.resetErr = domain.ErrValidation
	c, _ = newContext(newEcho(), http.MethodPost, "/password/reset", `{"token":"stale","newPassword":"Reset@123"}`)
	if err := h.Reset(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	c, _ = newContext(newEcho(), http.MethodPost, "/password/reset", `{"newPassword":"Reset@123"}`)
	var ve *ValidationError
	if err := h.Reset(c); !errors.As(err, &ve) || ve.Error() != "token is required" {
		t.Fatalf("expected token validation error, got %v", err)
	}
}
