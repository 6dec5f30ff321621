package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

type stubUserService struct {
	ports.UserService
	listFn      func(ctx context.Context, f ports.ListUsersFilter) (*ports.UserList, error)
	deleteFn    func(ctx context.Context, operator *domain.Identity, id string) error
	setStatusFn func(ctx context.Context, operator *domain.Identity, id string, active bool) (*domain.ManagedUser, error)
}

func (s *stubUserService) List(ctx context.Context, f ports.ListUsersFilter) (*ports.UserList, error) {
	return s.listFn(ctx, f)
}

func (s *stubUserService) Delete(ctx context.Context, operator *domain.Identity, id string) error {
	return s.deleteFn(ctx, operator, id)
}

func (s *stubUserService) SetStatus(ctx context.Context, operator *domain.Identity, id string, active bool) (*domain.ManagedUser, error) {
	return s.setStatusFn(ctx, operator, id, active)
}

func TestUserHandler_List_Filters(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		listFn: func(ctx context.Context, f ports.ListUsersFilter) (*ports.UserList, error) {
			if f.Role != "viewer" || f.Search != "ca" || f.IsActive == nil || *f.IsActive {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return &ports.UserList{Users: []domain.ManagedUser{}}, nil
		},
	})

	c, rec := newContext(e, http.MethodGet, "/users?role=viewer&search=ca&isActive=false", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_List_BadStatusFilter(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{})

	c, rec := newContext(e, http.MethodGet, "/users?isActive=maybe", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_PassesOperator(t *testing.T) {
	e := newEcho()
	operator := &domain.Identity{ID: "1", Username: "admin", Role: domain.RoleAdmin}
	h := NewUserHandler(&stubUserService{
		deleteFn: func(ctx context.Context, op *domain.Identity, id string) error {
			if op != operator {
				t.Fatalf("operator not passed through")
			}
			return domain.ErrSelfModification
		},
	})

	c, _ := newContext(e, http.MethodDelete, "/users/1", "")
	c.Set("identity", operator)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Delete(c); !errors.Is(err, domain.ErrSelfModification) {
		t.Fatalf("expected ErrSelfModification, got %v", err)
	}
}

func TestUserHandler_SetStatus_RequiresFlag(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{
		setStatusFn: func(ctx context.Context, op *domain.Identity, id string, active bool) (*domain.ManagedUser, error) {
			t.Fatalf("should not reach the service")
			return nil, nil
		},
	})

	c, _ := newContext(e, http.MethodPatch, "/users/2/status", `{}`)
	if err := h.SetStatus(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
