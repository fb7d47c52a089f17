package models

// TemplateType identifies one kind of issuable verifiable credential.
type TemplateType string

const (
	ProofOfTonAddress     TemplateType = "ProofOfTonAddress"
	ProofOfStateID        TemplateType = "ProofOfStateId"
	ProofOfTaxResidency   TemplateType = "ProofOfTaxResidency"
	ProofOfEthAddress     TemplateType = "ProofOfEthAddress"
	ProofOfUniswapAccount TemplateType = "ProofOfUniswapAccount"
	ProofOfTwitterAccount TemplateType = "ProofOfTwitterAccount"
	ProofOfFunfairAccount TemplateType = "ProofOfFunfairAccount"
)

// TemplateTypes lists every known credential template type.
var TemplateTypes = []TemplateType{
	ProofOfTonAddress,
	ProofOfStateID,
	ProofOfTaxResidency,
	ProofOfEthAddress,
	ProofOfUniswapAccount,
	ProofOfTwitterAccount,
	ProofOfFunfairAccount,
}

// ValidTemplateType reports whether t names a known template type.
func ValidTemplateType(t TemplateType) bool {
	for _, known := range TemplateTypes {
		if t == known {
			return true
		}
	}
	return false
}

// VCTemplate is a catalog entry describing one kind of issuable credential.
// Catalog data is static and read-only from the engine's perspective.
type VCTemplate struct {
	ID          string
	Type        TemplateType
	Title       string
	Description string
	Issuer      string
}

// TemplateSection groups templates in the catalog UI (e.g. "State Documents").
type TemplateSection struct {
	ID    string
	Title string
}

// Service is a third-party consumer of credentials listed in the catalog.
type Service struct {
	ID          string
	Name        string
	LogoURL     string
	Description string
	Pros        string
}
