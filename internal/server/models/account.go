// Package models contains the persistence-level entities of the everid
// backend: accounts bound to DIDs, their sessions, transient sign-in
// challenges, verifiable credentials, and the credential template catalog.
package models

import "time"

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusDisabled AccountStatus = "DISABLED"
)

// Account is an identity bound to a DID. Exactly one account exists per DID;
// it is created on the first successful challenge verification and only ever
// mutated by status changes.
type Account struct {
	ID        string
	DID       string
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
