package authority_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/devauthority"
	"github.com/99minutos/admin-console/internal/infrastructure/authority"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func startAuthority(t *testing.T) *authority.Client {
	t.Helper()
	auth := devauthority.NewAuthority("e2e-secret", time.Hour)
	require.NoError(t, auth.Seed())
	srv := httptest.NewServer(devauthority.NewServer(auth, "/api/v1", zerolog.Nop()))
	t.Cleanup(srv.Close)
	return authority.NewClient(authority.Config{BaseURL: srv.URL, Prefix: "/api/v1"}, zerolog.Nop())
}

func TestGatewayAgainstDevAuthority(t *testing.T) {
	ctx := context.Background()
	gw := authority.NewGateway(startAuthority(t), zerolog.Nop())

	_, _, err := gw.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	identity, token, err := gw.Login(ctx, "admin", "Admin@123")
	require.NoError(t, err)
	assert.Equal(t, "admin", identity.Username)

	verified, err := gw.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, verified.ID)

	fresh, err := gw.Refresh(ctx, token)
	require.NoError(t, err)
	_, err = gw.Verify(ctx, token)
	assert.ErrorIs(t, err, domain.ErrAuthRejected, "refreshed-away token must be revoked")

	err = gw.ChangePassword(ctx, fresh, "wrong", "Next@1234")
	assert.ErrorIs(t, err, domain.ErrValidation)
	require.NoError(t, gw.ChangePassword(ctx, fresh, "Admin@123", "Next@1234"))

	gw.Logout(ctx, fresh)
	_, err = gw.Verify(ctx, fresh)
	assert.ErrorIs(t, err, domain.ErrAuthRejected)

	_, _, err = gw.Login(ctx, "admin", "Next@1234")
	assert.NoError(t, err)
}

func TestResourceClientsAgainstDevAuthority(t *testing.T) {
	ctx := context.Background()
	client := startAuthority(t)
	_, token, err := authority.NewGateway(client, zerolog.Nop()).Login(ctx, "admin", "Admin@123")
	require.NoError(t, err)
	tokens := staticToken(token)

	customers := authority.NewCustomerClient(client, tokens)
	list, page, err := customers.List(ctx, ports.ListCustomersFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.EqualValues(t, 2, page.Total)

	name, email, phone := "Ada", "ada@example.com", "5551234567"
	created, err := customers.Create(ctx, ports.CustomerInput{Name: &name, Email: &email, Phone: &phone})
	require.NoError(t, err)
	require.NoError(t, customers.Delete(ctx, created.ID.String()))
	_, err = customers.Get(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	users := authority.NewUserClient(client, tokens)
	u, err := users.Create(ctx, ports.CreateUserInput{Username: "carol", Password: "Carol@1", Role: domain.RoleViewer})
	require.NoError(t, err)

	u, err = users.SetStatus(ctx, u.ID.String(), false)
	require.NoError(t, err)
	require.NotNil(t, u.IsActive)
	assert.False(t, *u.IsActive)

	require.NoError(t, users.ResetPassword(ctx, u.ID.String(), "Carol@2"))
	activity, err := users.Activity(ctx, u.ID.String(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, activity)
	assert.Equal(t, "password_reset", activity[0].Action)

	_, err = users.Create(ctx, ports.CreateUserInput{Username: "carol", Password: "x", Role: domain.RoleViewer})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, users.Delete(ctx, u.ID.String()))
	_, err = users.Get(ctx, u.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
