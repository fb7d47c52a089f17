package models

import "time"

// Credential is a stored verifiable credential row. At most one live
// credential exists per (owner, template type); reissuing replaces the old
// row entirely so each credential object keeps its own id and signature.
type Credential struct {
	ID           string
	OwnerID      string
	TemplateType TemplateType
	ValueJSON    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Degree carries the template-specific claim payload of a credential subject.
type Degree struct {
	Type TemplateType `json:"type"`
	Data any          `json:"data"`
}

// CredentialSubject is the signed core of a verifiable credential: the
// subject DID plus the claimed facts.
type CredentialSubject struct {
	ID     string `json:"id"`
	Degree Degree `json:"degree"`
}

// Proof holds the service signature over the JSON-serialized subject.
type Proof struct {
	Type               TemplateType `json:"type"`
	Signature          string       `json:"signature"`
	Created            time.Time    `json:"created"`
	VerificationMethod string       `json:"verificationMethod"`
}

// Issuer identifies the issuing service by its DID.
type Issuer struct {
	ID string `json:"id"`
}

// VerifiableCredential is the full signed credential envelope persisted as
// the credential's value and returned to the caller.
type VerifiableCredential struct {
	Context           []string          `json:"@context"`
	ID                string            `json:"id"`
	Type              []string          `json:"type"`
	Proof             Proof             `json:"proof"`
	CredentialSubject CredentialSubject `json:"credentialSubject"`
	IssuanceDate      time.Time         `json:"issuanceDate"`
	Issuer            Issuer            `json:"issuer"`
}

// Per-type claim payloads. Most carry fixed illustrative facts until a real
// verification source exists for the credential type; only the shape is
// contractual.

type TonAddressData struct {
	Address string `json:"address"`
}

type StateIDData struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	Birthday    string `json:"birthday"`
	Country     string `json:"country"`
	IssuingBody string `json:"issuing_body"`
}

type TaxResidencyData struct {
	Name         string `json:"name"`
	ID           string `json:"id"`
	TaxResidency string `json:"tax_residency"`
	IssuingBody  string `json:"issuing_body"`
}

type EthAddressData struct {
	Address string `json:"address"`
}

type UniswapAccountData struct {
	EthAddress    string `json:"eth_address"`
	UniswapStatus string `json:"uniswap_status"`
}

type TwitterAccountData struct {
	TwitterID string `json:"twitter_id"`
}

type FunfairAccountData struct {
	EthAddress  string `json:"eth_address"`
	GamerStatus string `json:"gamer_status"`
}
