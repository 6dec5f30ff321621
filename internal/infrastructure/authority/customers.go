package authority

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// CustomerClient is the remote customer collection.
type CustomerClient struct {
	client *Client
	tokens ports.TokenSource
}

func NewCustomerClient(client *Client, tokens ports.TokenSource) *CustomerClient {
	return &CustomerClient{client: client, tokens: tokens}
}

type customerListResponse struct {
	Data       []domain.Customer `json:"data"`
	Pagination *domain.Page      `json:"pagination"`
}

func (c *CustomerClient) List(ctx context.Context, f ports.ListCustomersFilter) ([]domain.Customer, domain.Page, error) {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var resp customerListResponse
	if err := c.client.do(ctx, request{Method: http.MethodGet, Path: "/customers", Query: q, Token: c.tokens.Token()}, &resp); err != nil {
		return nil, domain.Page{}, err
	}
	if resp.Pagination == nil {
		return nil, domain.Page{}, fmt.Errorf("%w: customer listing without pagination", domain.ErrMalformedResponse)
	}
	if resp.Data == nil {
		resp.Data = []domain.Customer{}
	}
	return resp.Data, *resp.Pagination, nil
}

func (c *CustomerClient) Get(ctx context.Context, id string) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.client.do(ctx, request{Method: http.MethodGet, Path: "/customers/" + url.PathEscape(id), Token: c.tokens.Token()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CustomerClient) Create(ctx context.Context, in ports.CustomerInput) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.client.do(ctx, request{Method: http.MethodPost, Path: "/customers", Body: in, Token: c.tokens.Token()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CustomerClient) Update(ctx context.Context, id string, in ports.CustomerInput) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.client.do(ctx, request{Method: http.MethodPut, Path: "/customers/" + url.PathEscape(id), Body: in, Token: c.tokens.Token()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CustomerClient) Delete(ctx context.Context, id string) error {
	return c.client.do(ctx, request{Method: http.MethodDelete, Path: "/customers/" + url.PathEscape(id), Token: c.tokens.Token()}, nil)
}
