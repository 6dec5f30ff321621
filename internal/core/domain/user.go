package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// ValidRole reports whether role is one the remote authority issues.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleViewer
}

// ID is a remote identifier. The authority has emitted both numeric and string
// ids over time, so it decodes from either JSON form and always re-encodes as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Identity is the authenticated operator's profile as issued by the remote
// authority. It is replaced wholesale on re-login and never edited locally.
type Identity struct {
	ID        ID         `json:"id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// IsAdmin reports whether the identity holds the privileged role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// ParseIdentity decodes a persisted identity record. A record that is not JSON,
// or that lacks an id or username, is reported as ErrCorruptIdentity.
func ParseIdentity(raw string) (*Identity, error) {
	var ident Identity
	if err := json.Unmarshal([]byte(raw), &ident); err != nil {
		return nil, ErrCorruptIdentity
	}
	if ident.ID == "" || strings.TrimSpace(ident.Username) == "" {
		return nil, ErrCorruptIdentity
	}
	return &ident, nil
}

// ManagedUser is an account as listed on the user-management surface.
type ManagedUser struct {
	ID        ID         `json:"id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UserActivity is one audit entry for a managed user.
type UserActivity struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"userId,omitempty"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
