package models

import "time"

// LoginChallenge is a transient sign-in challenge keyed by DID. Issuing a new
// challenge for the same DID overwrites the previous one, so only the newest
// message can ever verify.
type LoginChallenge struct {
	DID       string
	Message   string
	ExpiresAt time.Time
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c *LoginChallenge) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

// OneTimeMessage is a proof-of-address challenge keyed by account. It has no
// expiry; validity is bounded by one-time consumption instead.
type OneTimeMessage struct {
	AccountID string
	Message   string
}
