package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/admin-console/internal/api/middleware"
	"github.com/99minutos/admin-console/internal/core/ports"
)

const dashboardRecent = 5

// CustomerHandler handles the customer pages and the dashboard.
type CustomerHandler struct {
	customers ports.CustomerService
	users     ports.UserService
	log       zerolog.Logger
}

func NewCustomerHandler(customers ports.CustomerService, users ports.UserService, log zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, users: users, log: log}
}

// Dashboard shows the operator, the most recent customers and, for admins,
// the number of accounts. The two remote reads run concurrently; a failed user
// count only drops that figure.
//
// @Summary      Dashboard
// @Tags         customers
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      502  {object}  errorResponse
// @Router       /dashboard [get]
func (h *CustomerHandler) Dashboard(c echo.Context) error {
	identity := middleware.Identity(c)
	g, ctx := errgroup.WithContext(c.Request().Context())

	var list *ports.CustomerList
	g.Go(func() error {
		var err error
		list, err = h.customers.List(ctx, ports.ListCustomersFilter{Page: 1, Limit: dashboardRecent})
		return err
	})

	var totalUsers *int64
	if identity.IsAdmin() && h.users != nil {
		g.Go(func() error {
			users, err := h.users.List(ctx, ports.ListUsersFilter{Page: 1, Limit: 1})
			if err != nil {
				h.log.Warn().Err(err).Msg("dashboard user count unavailable")
				return nil
			}
			totalUsers = &users.Total
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		User:           identity,
		Customers:      list.Customers,
		TotalCustomers: list.Pagination.Total,
		TotalUsers:     totalUsers,
	})
}

// List handles GET /customers.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  ports.CustomerList
// @Failure      502    {object}  errorResponse
// @Router       /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	list, err := h.customers.List(c.Request().Context(), ports.ListCustomersFilter{Page: page, Limit: limit})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /customers/:id.
//
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer id"
// @Success      200  {object}  ports.CustomerView
// @Failure      404  {object}  errorResponse
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	view, err := h.customers.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /customers.
//
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      createCustomerRequest  true  "Customer"
// @Success      201   {object}  ports.CustomerView
// @Failure      400   {object}  errorResponse
// @Router       /customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req createCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.customers.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// Update handles PUT /customers/:id. Omitted fields keep their value.
//
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Customer id"
// @Param        body  body      updateCustomerRequest  true  "Changed fields"
// @Success      200   {object}  ports.CustomerView
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	var req updateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	view, err := h.customers.Update(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /customers/:id.
//
// @Summary      Delete a customer
// @Tags         customers
// @Param        id   path  string  true  "Customer id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	if err := h.customers.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
