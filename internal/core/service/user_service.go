package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

const defaultActivityLimit = 50

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) List(ctx context.Context, filter ports.ListUsersFilter) (*ports.UserList, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	if filter.Role != "" && !domain.ValidRole(filter.Role) {
		return nil, fmt.Errorf("%w: role must be one of: admin viewer", domain.ErrValidation)
	}
	filter.Search = strings.TrimSpace(filter.Search)

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.ManagedUser, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.ManagedUser, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = domain.RoleViewer
	}
	if in.Username == "" || in.Password == "" || !domain.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: username, password and a valid role are required", domain.ErrValidation)
	}

	u, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info().Str("user_id", u.ID.String()).Str("role", u.Role).Msg("user created")
	return u, nil
}

// Update applies in to the account. Operators may not deactivate themselves.
func (s *UserService) Update(ctx context.Context, operator *domain.Identity, id string, in ports.UpdateUserInput) (*domain.ManagedUser, error) {
	if in.Role != nil && !domain.ValidRole(*in.Role) {
		return nil, fmt.Errorf("%w: role must be one of: admin viewer", domain.ErrValidation)
	}
	if isSelf(operator, id) && in.IsActive != nil && !*in.IsActive {
		return nil, domain.ErrSelfModification
	}

	u, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	s.logger.Info().Str("user_id", id).Msg("user updated")
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, operator *domain.Identity, id string) error {
	if isSelf(operator, id) {
		return domain.ErrSelfModification
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) SetStatus(ctx context.Context, operator *domain.Identity, id string, active bool) (*domain.ManagedUser, error) {
	if isSelf(operator, id) && !active {
		return nil, domain.ErrSelfModification
	}
	u, err := s.repo.SetStatus(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("set user %s status: %w", id, err)
	}
	s.logger.Info().Str("user_id", id).Bool("active", active).Msg("user status changed")
	return u, nil
}

func (s *UserService) ResetPassword(ctx context.Context, id, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}
	if err := s.repo.ResetPassword(ctx, id, newPassword); err != nil {
		return fmt.Errorf("reset password for user %s: %w", id, err)
	}
	s.logger.Info().Str("user_id", id).Msg("user password reset")
	return nil
}

func (s *UserService) Activity(ctx context.Context, id string, limit int) ([]domain.UserActivity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	entries, err := s.repo.Activity(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("user %s activity: %w", id, err)
	}
	return entries, nil
}

func isSelf(operator *domain.Identity, id string) bool {
	return operator != nil && operator.ID.String() == id
}
