package devauthority

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/admin-console/internal/core/domain"
)

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errInvalidToken       = errors.New("invalid token")
	errAccountDisabled    = errors.New("account disabled")
	errInvalidInput       = errors.New("invalid input")
	errWrongPassword      = errors.New("current password is incorrect")
	errInvalidResetToken  = errors.New("invalid or expired reset token")
)

const resetTokenTTL = time.Hour

// Authority issues and validates HS256 access tokens for accounts held in a
// memoryStore.
type Authority struct {
	store     *memoryStore
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthority(jwtSecret string, tokenTTL time.Duration) *Authority {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Authority{
		store:     newMemoryStore(),
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Register creates an account with a bcrypt-hashed password.
func (a *Authority) Register(username, password, email, role string) (*domain.ManagedUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || !domain.ValidRole(role) {
		return nil, errInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	active := true
	created, err := a.store.createAccount(account{
		ManagedUser: domain.ManagedUser{
			Username:  username,
			Email:     email,
			Role:      role,
			IsActive:  &active,
			CreatedAt: &now,
			UpdatedAt: &now,
		},
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	return &created.ManagedUser, nil
}

// Login checks the credentials and returns the account and a signed token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (a *Authority) Login(username, password string) (string, *domain.ManagedUser, error) {
	if username == "" || password == "" {
		return "", nil, errInvalidCredentials
	}

	acct, err := a.store.accountByUsername(username)
	if err != nil {
		return "", nil, errInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return "", nil, errInvalidCredentials
	}
	if acct.IsActive != nil && !*acct.IsActive {
		return "", nil, errAccountDisabled
	}

	token, err := a.generateToken(acct)
	if err != nil {
		return "", nil, err
	}
	a.store.recordActivity(acct.ID.String(), "login", "User logged in")
	return token, &acct.ManagedUser, nil
}

// Logout revokes the token until its natural expiry.
func (a *Authority) Logout(token string) error {
	claims, err := a.parse(token)
	if err != nil {
		return err
	}
	exp := a.now().Add(a.tokenTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	a.store.revoke(claims.ID, exp)
	a.store.recordActivity(claims.Subject, "logout", "User logged out")
	return nil
}

// Refresh issues a fresh token for the account behind token and revokes the
// old one.
func (a *Authority) Refresh(token string) (string, error) {
	claims, err := a.parse(token)
	if err != nil {
		return "", err
	}
	if a.store.isRevoked(claims.ID) {
		return "", errInvalidToken
	}
	acct, err := a.store.accountByID(claims.Subject)
	if err != nil {
		return "", errInvalidToken
	}
	if acct.IsActive != nil && !*acct.IsActive {
		return "", errAccountDisabled
	}

	fresh, err := a.generateToken(acct)
	if err != nil {
		return "", err
	}
	exp := a.now().Add(a.tokenTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	a.store.revoke(claims.ID, exp)
	return fresh, nil
}

// ChangePassword replaces the password of account id after checking the
// current one.
func (a *Authority) ChangePassword(id, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return errInvalidInput
	}
	acct, err := a.store.accountByID(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(oldPassword)) != nil {
		return errWrongPassword
	}
	if err := a.setPassword(id, newPassword); err != nil {
		return err
	}
	a.store.recordActivity(id, "password_changed", "Password changed by user")
	return nil
}

// RequestPasswordReset issues a one-time reset token for the account holding
// email. An unknown email yields an empty token and no error, so callers
// cannot discover which addresses exist.
func (a *Authority) RequestPasswordReset(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return "", errInvalidInput
	}
	acct, err := a.store.accountByEmail(email)
	if err != nil {
		return "", nil
	}
	token := uuid.NewString()
	a.store.putResetToken(token, acct.ID.String(), a.now().Add(resetTokenTTL))
	return token, nil
}

// CompletePasswordReset consumes a reset token and sets the new password.
func (a *Authority) CompletePasswordReset(token, newPassword string) error {
	if token == "" || newPassword == "" {
		return errInvalidInput
	}
	id, ok := a.store.takeResetToken(token, a.now())
	if !ok {
		return errInvalidResetToken
	}
	if err := a.setPassword(id, newPassword); err != nil {
		return err
	}
	a.store.recordActivity(id, "password_reset", "Password reset by email link")
	return nil
}

// Authenticate resolves a bearer token to its account.
func (a *Authority) Authenticate(token string) (*domain.ManagedUser, error) {
	claims, err := a.parse(token)
	if err != nil {
		return nil, err
	}
	if a.store.isRevoked(claims.ID) {
		return nil, errInvalidToken
	}
	acct, err := a.store.accountByID(claims.Subject)
	if err != nil {
		return nil, errInvalidToken
	}
	if acct.IsActive != nil && !*acct.IsActive {
		return nil, errAccountDisabled
	}
	return &acct.ManagedUser, nil
}

type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (a *Authority) generateToken(acct *account) (string, error) {
	now := a.now()
	claims := tokenClaims{
		Username: acct.Username,
		Role:     acct.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   acct.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.jwtSecret)
}

func (a *Authority) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return a.jwtSecret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !tkn.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}

// Seed installs the well-known development accounts and a couple of customers.
func (a *Authority) Seed() error {
	if _, err := a.Register("admin", "Admin@123", "admin@test.com", domain.RoleAdmin); err != nil && !errors.Is(err, errAccountExists) {
		return err
	}
	if _, err := a.Register("user", "User@123", "user@test.com", domain.RoleViewer); err != nil && !errors.Is(err, errAccountExists) {
		return err
	}
	now := a.now().UTC()
	a.store.putCustomer(domain.Customer{Name: "John Doe", Email: "john@example.com", Phone: "+12345678901", Company: "Acme Corp", Status: domain.CustomerActive, CreatedAt: &now, UpdatedAt: &now})
	a.store.putCustomer(domain.Customer{Name: "Jane Smith", Email: "jane@example.com", Phone: "2345678901", Status: domain.CustomerProspect, CreatedAt: &now, UpdatedAt: &now})
	return nil
}

// ResetPassword replaces an account's password hash.
func (a *Authority) ResetPassword(id, newPassword string) error {
	if err := a.setPassword(id, newPassword); err != nil {
		return err
	}
	a.store.recordActivity(id, "password_reset", "Password reset by administrator")
	return nil
}

func (a *Authority) setPassword(id, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = a.store.updateAccount(id, func(acct *account) error {
		acct.PasswordHash = string(hash)
		return nil
	})
	return err
}
