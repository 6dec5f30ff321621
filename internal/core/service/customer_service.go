package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type CustomerService struct {
	repo   ports.CustomerRepository
	logger zerolog.Logger
}

func NewCustomerService(repo ports.CustomerRepository, logger zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, logger: logger}
}

// List returns one page of customers with display-ready phone numbers.
func (s *CustomerService) List(ctx context.Context, filter ports.ListCustomersFilter) (*ports.CustomerList, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	customers, page, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	views := make([]ports.CustomerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, customerView(c))
	}
	return &ports.CustomerList{Customers: views, Pagination: page}, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*ports.CustomerView, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	v := customerView(*c)
	return &v, nil
}

func (s *CustomerService) Create(ctx context.Context, in ports.CustomerInput) (*ports.CustomerView, error) {
	in = trimCustomerInput(in)
	if in.Status == nil {
		active := domain.CustomerActive
		in.Status = &active
	}

	c, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	s.logger.Info().Str("customer_id", c.ID.String()).Msg("customer created")
	v := customerView(*c)
	return &v, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, in ports.CustomerInput) (*ports.CustomerView, error) {
	c, err := s.repo.Update(ctx, id, trimCustomerInput(in))
	if err != nil {
		return nil, fmt.Errorf("update customer %s: %w", id, err)
	}
	s.logger.Info().Str("customer_id", id).Msg("customer updated")
	v := customerView(*c)
	return &v, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	s.logger.Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}

func customerView(c domain.Customer) ports.CustomerView {
	return ports.CustomerView{Customer: c, PhoneDisplay: domain.FormatPhoneNumber(c.Phone)}
}

func trimCustomerInput(in ports.CustomerInput) ports.CustomerInput {
	for _, f := range []*string{in.Name, in.Email, in.Phone, in.Company, in.Address, in.Notes} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	return in
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
