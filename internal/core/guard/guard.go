// Package guard holds the navigation predicates that decide what an operator
// may see. They are pure functions of a session snapshot.
package guard

import "github.com/99minutos/admin-console/internal/core/domain"

// Outcome is the decision a guard reaches for one navigation.
type Outcome int

const (
	// Allow renders the guarded content.
	Allow Outcome = iota
	// Loading renders a neutral placeholder; no decision can be made yet.
	Loading
	// RedirectLogin sends the operator to the login entry point.
	RedirectLogin
	// Deny renders the access-denied state.
	Deny
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// Authenticated waits out session initialization, then admits any signed-in operator.
func Authenticated(s domain.Session) Outcome {
	if s.Initializing {
		return Loading
	}
	if s.Identity == nil {
		return RedirectLogin
	}
	return Allow
}

// Privileged admits admins only. It does not consult Initializing: it is
// evaluated inside Authenticated, after initialization has finished.
func Privileged(s domain.Session) Outcome {
	if !s.Identity.IsAdmin() {
		return Deny
	}
	return Allow
}
