package models

import "time"

// Session is an authenticated session owned by one account. The token is an
// opaque random secret returned to the caller once at login. Expired rows are
// rejected at read time; nothing sweeps them proactively.
type Session struct {
	ID        string
	AccountID string
	Token     string
	IPAddr    string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
