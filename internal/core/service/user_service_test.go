package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

var _ ports.UserService = (*UserService)(nil)

type stubUserRepo struct {
	users         map[string]domain.ManagedUser
	lastFilter    ports.ListUsersFilter
	lastCreate    ports.CreateUserInput
	activityLimit int
	deleted       []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]domain.ManagedUser{
		"1": {ID: "1", Username: "admin", Role: domain.RoleAdmin},
		"2": {ID: "2", Username: "user", Role: domain.RoleViewer},
	}}
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) (*ports.UserList, error) {
	r.lastFilter = f
	return &ports.UserList{Users: []domain.ManagedUser{r.users["1"], r.users["2"]}, Total: 2, Page: f.Page, Limit: f.Limit}, nil
}

func (r *stubUserRepo) Get(_ context.Context, id string) (*domain.ManagedUser, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) Create(_ context.Context, in ports.CreateUserInput) (*domain.ManagedUser, error) {
	r.lastCreate = in
	u := domain.ManagedUser{ID: "3", Username: in.Username, Role: in.Role, Email: in.Email}
	r.users["3"] = u
	return &u, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, in ports.UpdateUserInput) (*domain.ManagedUser, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	r.users[id] = u
	return &u, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubUserRepo) SetStatus(_ context.Context, id string, active bool) (*domain.ManagedUser, error) {
	u := r.users[id]
	u.IsActive = &active
	return &u, nil
}

func (r *stubUserRepo) ResetPassword(_ context.Context, id, _ string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r *stubUserRepo) Activity(_ context.Context, _ string, limit int) ([]domain.UserActivity, error) {
	r.activityLimit = limit
	return []domain.UserActivity{{ID: "1", Action: "login"}}, nil
}

var operator = &domain.Identity{ID: "1", Username: "admin", Role: domain.RoleAdmin}

func TestUserService_Create_DefaultsRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	u, err := svc.Create(context.Background(), ports.CreateUserInput{Username: " carol ", Password: "s3cret"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if u.Role != domain.RoleViewer || repo.lastCreate.Username != "carol" {
		t.Fatalf("unexpected user: %+v (input %+v)", u, repo.lastCreate)
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{Username: "dave"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing password, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CreateUserInput{Username: "dave", Password: "x", Role: "root"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad role, got %v", err)
	}
}

func TestUserService_List_RejectsUnknownRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	if _, err := svc.List(context.Background(), ports.ListUsersFilter{Role: "owner"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.List(context.Background(), ports.ListUsersFilter{Role: domain.RoleViewer, Search: "  us "}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Search != "us" || repo.lastFilter.Page != 1 || repo.lastFilter.Limit != defaultPageSize {
		t.Fatalf("unexpected filter: %+v", repo.lastFilter)
	}
}

func TestUserService_SelfProtection(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), operator, "1"); !errors.Is(err, domain.ErrSelfModification) {
		t.Fatalf("expected ErrSelfModification on self delete, got %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), operator, "1", false); !errors.Is(err, domain.ErrSelfModification) {
		t.Fatalf("expected ErrSelfModification on self deactivate, got %v", err)
	}
	inactive := false
	if _, err := svc.Update(context.Background(), operator, "1", ports.UpdateUserInput{IsActive: &inactive}); !errors.Is(err, domain.ErrSelfModification) {
		t.Fatalf("expected ErrSelfModification on self update, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("repository reached: %v", repo.deleted)
	}

	if err := svc.Delete(context.Background(), operator, "2"); err != nil {
		t.Fatalf("delete other user failed: %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), operator, "1", true); err != nil {
		t.Fatalf("self activate should be allowed: %v", err)
	}
}

func TestUserService_Update_RoleValidation(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	bad := "owner"
	if _, err := svc.Update(context.Background(), operator, "2", ports.UpdateUserInput{Role: &bad}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	good := domain.RoleAdmin
	u, err := svc.Update(context.Background(), operator, "2", ports.UpdateUserInput{Role: &good})
	if err != nil || u.Role != domain.RoleAdmin {
		t.Fatalf("unexpected result: %+v, %v", u, err)
	}
}

func TestUserService_ResetPasswordAndActivity(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.ResetPassword(context.Background(), "2", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := svc.ResetPassword(context.Background(), "999", "n3w"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Activity(context.Background(), "2", 0); err != nil {
		t.Fatalf("activity failed: %v", err)
	}
	if repo.activityLimit != defaultActivityLimit {
		t.Fatalf("expected default activity limit, got %d", repo.activityLimit)
	}
}
