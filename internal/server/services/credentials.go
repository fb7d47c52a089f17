// This file implements CredentialService: template-driven construction,
// signing, and storage of verifiable credentials, including the
// custodian-gated proof-of-address flow.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/everscaleid/backend/internal/common"
	"github.com/everscaleid/backend/internal/cryptox"
	"github.com/everscaleid/backend/internal/dbx"
	"github.com/everscaleid/backend/internal/logging"
	"github.com/everscaleid/backend/internal/server/config"
	"github.com/everscaleid/backend/internal/server/ledger"
	"github.com/everscaleid/backend/internal/server/models"
	"github.com/everscaleid/backend/internal/server/repositories/repomanager"
)

// subjectDataBuilders supplies the degree.data payload per template type.
// Until a real verification source exists for these credential kinds, the
// payloads are fixed illustrative facts; only their shape is contractual.
// ProofOfTonAddress is absent on purpose: it goes through its own gated flow.
var subjectDataBuilders = map[models.TemplateType]func() any{
	models.ProofOfStateID: func() any {
		return models.StateIDData{
			Name:        "Name Lastname",
			ID:          "123456789",
			Birthday:    "01.01.1970",
			Country:     "Free TON Land",
			IssuingBody: "Administration",
		}
	},
	models.ProofOfTaxResidency: func() any {
		return models.TaxResidencyData{
			Name:         "Name Lastname",
			ID:           "123456789",
			TaxResidency: "Free TON Land",
			IssuingBody:  "Administration",
		}
	},
	models.ProofOfEthAddress: func() any {
		return models.EthAddressData{
			Address: "0xC572Ec7B6F4404A1806aeBbE5ABa5854F73f4091",
		}
	},
	models.ProofOfUniswapAccount: func() any {
		return models.UniswapAccountData{
			EthAddress:    "0xC572Ec7B6F4404A1806aeBbE5ABa5854F73f4091",
			UniswapStatus: "active trader",
		}
	},
	models.ProofOfTwitterAccount: func() any {
		return models.TwitterAccountData{
			TwitterID: "@username",
		}
	},
	models.ProofOfFunfairAccount: func() any {
		return models.FunfairAccountData{
			EthAddress:  "0xC572Ec7B6F4404A1806aeBbE5ABa5854F73f4091",
			GamerStatus: "gold player",
		}
	},
}

// CredentialService issues and lists verifiable credentials. Every credential
// is built by one shared pipeline: replace prior credentials of the same
// (owner, type), sign the credential subject with the service key, assemble
// and persist the envelope.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gateway     ledger.Gateway
	config      *config.Config
	logger      logging.Logger
}

// NewCredentialService constructs a CredentialService.
func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, gw ledger.Gateway,
	cfg *config.Config, logger logging.Logger) *CredentialService {
	return &CredentialService{
		db:          db,
		repomanager: m,
		gateway:     gw,
		config:      cfg,
		logger:      logger.With("module", "credentials"),
	}
}

func (s *CredentialService) serviceDID() string {
	return DIDPrefix + s.config.ServicePublicKey
}

// GenerateOneTimeMessage stores a fresh proof-of-address message for the
// calling account and returns it. A prior message is overwritten; validity is
// bounded by one-time consumption rather than expiry.
func (s *CredentialService) GenerateOneTimeMessage(ctx context.Context, session *models.Session) (string, error) {
	if session == nil {
		return "", common.ErrForbidden
	}

	message, err := common.MakeRandHexString(32)
	if err != nil {
		return "", common.ErrInternal
	}

	if err := s.repomanager.Challenges(s.db).UpsertOneTime(ctx, session.AccountID, message); err != nil {
		return "", common.ErrInternal
	}

	return message, nil
}

// Issue mints a credential of the given template type for the calling
// account using the type's fixed subject payload. Template types with their
// own flow (proof of TON address) or unknown types are rejected with
// ErrInvalidArgument.
func (s *CredentialService) Issue(ctx context.Context, session *models.Session, t models.TemplateType) (*models.VerifiableCredential, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}

	build, ok := subjectDataBuilders[t]
	if !ok {
		return nil, common.ErrInvalidArgument
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrForbidden
		}
		return nil, common.ErrInternal
	}

	return s.issue(ctx, account, t, build())
}

// IssueTonAddressProof mints a proof-of-address credential, the only flow
// with an extra gate: the caller must present a signature over their pending
// one-time message, and the account's ledger key must be among the custodians
// of the presented multisig wallet.
func (s *CredentialService) IssueTonAddressProof(ctx context.Context, session *models.Session,
	walletAddress, signatureHex string) (*models.VerifiableCredential, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrForbidden
		}
		return nil, common.ErrInternal
	}

	challengeRepo := s.repomanager.Challenges(s.db)
	message, err := challengeRepo.GetOneTime(ctx, account.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}

	publicKey, err := s.gateway.ResolveDIDPublicKey(ctx, DIDAddress(account.DID))
	if err != nil {
		return nil, err
	}

	if !cryptox.VerifyHex(signatureHex, message.Message, publicKey) {
		return nil, common.ErrForbidden
	}

	won, err := challengeRepo.ConsumeOneTime(ctx, account.ID, message.Message)
	if err != nil {
		return nil, common.ErrInternal
	}
	if !won {
		return nil, common.ErrNotFound
	}

	custodians, err := s.gateway.MultisigCustodians(ctx, walletAddress)
	if err != nil {
		return nil, common.ErrInternal
	}
	if !containsKey(custodians, publicKey) {
		s.logger.Warn(ctx, "custodian check failed",
			"account_id", account.ID, "wallet", walletAddress, "custodians", len(custodians))
		return nil, common.ErrForbidden
	}

	return s.issue(ctx, account, models.ProofOfTonAddress, models.TonAddressData{Address: walletAddress})
}

// containsKey reports whether keys contains the given hex key, ignoring 0x
// prefixes and hex case.
func containsKey(keys []string, key string) bool {
	want := cryptox.NormalizeHexKey(key)
	for _, k := range keys {
		if strings.EqualFold(cryptox.NormalizeHexKey(k), want) {
			return true
		}
	}
	return false
}

// issue runs the shared pipeline: build and sign the credential subject,
// assemble the envelope, and replace any prior credential of the same
// (owner, type) with the new one in a single transaction.
func (s *CredentialService) issue(ctx context.Context, account *models.Account,
	t models.TemplateType, data any) (*models.VerifiableCredential, error) {

	subject := models.CredentialSubject{
		ID:     DIDURI(account.DID),
		Degree: models.Degree{Type: t, Data: data},
	}

	subjectJSON, err := json.Marshal(subject)
	if err != nil {
		return nil, common.ErrInternal
	}

	signature, err := cryptox.SignHex(string(subjectJSON), s.config.ServiceSecretKey)
	if err != nil {
		return nil, common.ErrInternal
	}

	now := time.Now().UTC()
	vc := &models.VerifiableCredential{
		Context: []string{"https://www.w3.org/2018/credentials/v1"},
		ID:      account.DID,
		Type:    []string{"VerifiableCredential"},
		Proof: models.Proof{
			Type:               t,
			Signature:          signature,
			Created:            now,
			VerificationMethod: s.serviceDID() + "#" + account.DID,
		},
		CredentialSubject: subject,
		IssuanceDate:      now,
		Issuer:            models.Issuer{ID: s.serviceDID()},
	}

	valueJSON, err := json.Marshal(vc)
	if err != nil {
		return nil, common.ErrInternal
	}

	// Replace, not update: the old credential row disappears and the new one
	// gets its own id and signature.
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Credentials(tx)
		if _, err := repo.DeleteByOwnerAndType(ctx, account.ID, t); err != nil {
			return err
		}
		_, err := repo.Create(ctx, &models.Credential{
			OwnerID:      account.ID,
			TemplateType: t,
			ValueJSON:    string(valueJSON),
		})
		return err
	})
	if err != nil {
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "credential issued", "account_id", account.ID, "type", t)

	return vc, nil
}

// CredentialsForAccount lists the caller's stored credentials.
func (s *CredentialService) CredentialsForAccount(ctx context.Context, session *models.Session) ([]*models.Credential, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}
	list, err := s.repomanager.Credentials(s.db).ListByOwner(ctx, session.AccountID)
	if err != nil {
		return nil, common.ErrInternal
	}
	return list, nil
}

// CredentialForTemplate returns the caller's credential of the given template
// type, or ErrNotFound.
func (s *CredentialService) CredentialForTemplate(ctx context.Context, session *models.Session,
	t models.TemplateType) (*models.Credential, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}
	cred, err := s.repomanager.Credentials(s.db).GetByOwnerAndType(ctx, session.AccountID, t)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	return cred, nil
}
