package domain

// Session is a point-in-time view of the operator's session. Identity and Token
// are either both set or both empty.
type Session struct {
	Identity     *Identity
	Token        string
	Initializing bool
	// Verified is false while a restored session awaits confirmation from the
	// authority. Guards treat verified and unverified sessions alike.
	Verified bool
}

// Authenticated reports whether an identity is present.
func (s Session) Authenticated() bool {
	return s.Identity != nil && s.Token != ""
}
