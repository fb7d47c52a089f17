// Package ledger talks to the distributed ledger holding DID documents and
// multisig wallets. The engine consumes it through the Gateway interface so
// tests can substitute a fake.
package ledger

import "context"

// VerificationMethod describes how a DID document's key may be used.
type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

// DIDDocument is the on-ledger document bound to a DID. The engine only ever
// needs the single ed25519 public key.
type DIDDocument struct {
	Context            []string           `json:"@context"`
	ID                 string             `json:"id"`
	CreatedAt          string             `json:"createdAt"`
	PublicKey          string             `json:"publicKey"`
	VerificationMethod VerificationMethod `json:"verificationMethod"`
}

// Gateway is the ledger access contract consumed by the auth and credential
// services.
type Gateway interface {
	// ResolveDIDPublicKey fetches the DID document at the given address and
	// returns its hex-encoded public key. Transport failures surface as
	// common.ErrLedgerUnavailable.
	ResolveDIDPublicKey(ctx context.Context, didDocumentAddress string) (string, error)

	// MultisigCustodians returns the custodian public keys of a multisig
	// wallet. Any resolution failure yields (nil, nil): the caller treats
	// "no custodians" as a denial rather than an outage.
	MultisigCustodians(ctx context.Context, walletAddress string) ([]string, error)

	// IssueDIDDocument submits a new DID document to the registry and
	// returns the on-ledger document address.
	IssueDIDDocument(ctx context.Context, ownerPublicKey string, doc *DIDDocument) (string, error)
}
