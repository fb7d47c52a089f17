// Package services contains server-side business logic. This file implements
// AuthService: challenge-response DID login, session lifecycle, and DID
// document issuance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/everscaleid/backend/internal/common"
	"github.com/everscaleid/backend/internal/cryptox"
	"github.com/everscaleid/backend/internal/logging"
	"github.com/everscaleid/backend/internal/server/config"
	"github.com/everscaleid/backend/internal/server/ledger"
	"github.com/everscaleid/backend/internal/server/models"
	"github.com/everscaleid/backend/internal/server/repositories/repomanager"
	"github.com/mileusna/useragent"
)

// DIDPrefix is the DID method prefix of identities handled by this service.
const DIDPrefix = "did:ever:"

// DIDAddress returns the ledger address part of a DID, accepting both plain
// addresses and full did:ever: strings.
func DIDAddress(did string) string {
	return strings.TrimPrefix(did, DIDPrefix)
}

// DIDURI returns the full did:ever: form of a DID or ledger address.
func DIDURI(did string) string {
	return DIDPrefix + DIDAddress(did)
}

// RequestMeta carries per-request client metadata captured by the transport
// layer and stored on new sessions.
type RequestMeta struct {
	IPAddr    string
	UserAgent string
}

// LoginResult bundles everything returned on a successful login. Token is the
// cleartext session secret; it is handed out exactly once.
type LoginResult struct {
	Account *models.Account
	Session *models.Session
	Token   string
}

// SessionInfo is a session enriched with the client software parsed from the
// raw user-agent string.
type SessionInfo struct {
	*models.Session
	Client string
}

// AuthService handles DID login and sessions:
// - BeginLogin: issue a sign-in challenge for a DID
// - CompleteLogin: verify the signed challenge and mint a session
// - Logout: delete the caller's sessions
// - Whoami: resolve the calling account
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gateway     ledger.Gateway
	config      *config.Config
	logger      logging.Logger
}

// NewAuthService constructs an AuthService using repositories, the ledger
// gateway, and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, gw ledger.Gateway,
	cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		gateway:     gw,
		config:      cfg,
		logger:      logger.With("module", "auth"),
	}
}

// newChallengeMessage builds the human-readable text a caller must sign to
// prove control of their DID key.
func newChallengeMessage() (string, error) {
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", common.ErrInternal
	}
	return fmt.Sprintf("Please sign this data: %s", token), nil
}

// BeginLogin stores a fresh sign-in challenge for the DID and returns its
// message. A prior challenge for the same DID is overwritten, so only the
// newest message can verify.
func (s *AuthService) BeginLogin(ctx context.Context, did string) (string, error) {
	message, err := newChallengeMessage()
	if err != nil {
		return "", err
	}

	repo := s.repomanager.Challenges(s.db)
	expiresAt := time.Now().Add(s.config.ChallengeTTL)
	if err := repo.UpsertLogin(ctx, did, message, expiresAt); err != nil {
		return "", common.ErrInternal
	}

	return message, nil
}

// CompleteLogin verifies the signed challenge for the DID and, on success,
// upserts the account and mints a new session.
//
// Steps, in order: load the challenge (ErrNotFound if absent,
// ErrChallengeExpired if stale), resolve the DID document's public key from
// the ledger, verify the signature (ErrForbidden on mismatch), consume the
// challenge atomically (a concurrent verification that lost the race sees
// ErrNotFound), upsert the account, create the session.
func (s *AuthService) CompleteLogin(ctx context.Context, did, signatureHex string, meta RequestMeta) (*LoginResult, error) {
	challengeRepo := s.repomanager.Challenges(s.db)

	challenge, err := challengeRepo.GetLogin(ctx, did)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	if challenge.Expired(time.Now()) {
		// The stale row stays behind; the caller has to begin a new login.
		return nil, common.ErrChallengeExpired
	}

	publicKey, err := s.gateway.ResolveDIDPublicKey(ctx, DIDAddress(did))
	if err != nil {
		return nil, err
	}

	if !cryptox.VerifyHex(signatureHex, challenge.Message, publicKey) {
		return nil, common.ErrForbidden
	}

	won, err := challengeRepo.ConsumeLogin(ctx, did, challenge.Message)
	if err != nil {
		return nil, common.ErrInternal
	}
	if !won {
		// Someone else consumed or replaced the challenge between our read
		// and the delete.
		return nil, common.ErrNotFound
	}

	account, err := s.repomanager.Accounts(s.db).UpsertByDID(ctx, did)
	if err != nil {
		return nil, common.ErrInternal
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrInternal
	}

	session := &models.Session{
		AccountID: account.ID,
		Token:     token,
		IPAddr:    meta.IPAddr,
		UserAgent: meta.UserAgent,
		ExpiresAt: time.Now().Add(s.config.SessionTTL),
	}
	session, err = s.repomanager.Sessions(s.db).Create(ctx, session)
	if err != nil {
		return nil, common.ErrInternal
	}

	s.logger.Info(ctx, "login completed", "did", did, "account_id", account.ID)

	return &LoginResult{Account: account, Session: session, Token: token}, nil
}

// ResolveSession looks up the live session for a bearer token. Expired or
// unknown tokens yield ErrNotFound.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.Session, error) {
	return s.repomanager.Sessions(s.db).GetByToken(ctx, token, time.Now())
}

// Logout deletes sessions of the calling account and returns how many went
// away. With an empty id list only the calling session is removed; explicit
// ids belonging to another account are silently skipped.
func (s *AuthService) Logout(ctx context.Context, session *models.Session, sessionIDs []string) (int64, error) {
	if session == nil {
		return 0, common.ErrForbidden
	}
	if len(sessionIDs) == 0 {
		sessionIDs = []string{session.ID}
	}

	count, err := s.repomanager.Sessions(s.db).DeleteByIDs(ctx, session.AccountID, sessionIDs)
	if err != nil {
		return 0, common.ErrInternal
	}

	return count, nil
}

// Whoami returns the calling account. A disabled account is rejected with
// ErrAccountInactive on this read path.
func (s *AuthService) Whoami(ctx context.Context, session *models.Session) (*models.Account, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, common.ErrInternal
	}
	if account.Status != models.AccountStatusActive {
		return nil, common.ErrAccountInactive
	}

	return account, nil
}

// SessionsForAccount lists the caller's sessions, newest last, each enriched
// with the parsed client software name.
func (s *AuthService) SessionsForAccount(ctx context.Context, session *models.Session) ([]*SessionInfo, error) {
	if session == nil {
		return nil, common.ErrForbidden
	}

	list, err := s.repomanager.Sessions(s.db).ListByAccount(ctx, session.AccountID)
	if err != nil {
		return nil, common.ErrInternal
	}

	result := make([]*SessionInfo, 0, len(list))
	for _, item := range list {
		result = append(result, &SessionInfo{Session: item, Client: describeClient(item.UserAgent)})
	}

	return result, nil
}

// describeClient condenses a raw user-agent string into "Name Version (OS)".
// An unparseable string is returned as-is.
func describeClient(rawUserAgent string) string {
	if rawUserAgent == "" {
		return ""
	}

	ua := useragent.Parse(rawUserAgent)
	if ua.Name == "" {
		return rawUserAgent
	}

	client := ua.Name
	if ua.Version != "" {
		client += " " + ua.Version
	}
	if ua.OS != "" {
		client += " (" + ua.OS + ")"
	}
	return client
}

// CreateDIDDocument builds a DID document for the given ed25519 public key
// and submits it to the on-ledger registry, returning the document address.
// The key must carry a 0x prefix.
func (s *AuthService) CreateDIDDocument(ctx context.Context, ownerPublicKey string) (string, error) {
	if !strings.HasPrefix(ownerPublicKey, "0x") {
		return "", fmt.Errorf("%w: public key must start with 0x", common.ErrInvalidArgument)
	}

	doc := &ledger.DIDDocument{
		Context: []string{
			"https://www.w3.org/ns/did/v1",
			"https://w3id.org/security/suites/ed25519-2020/v1",
		},
		ID:        DIDPrefix + ownerPublicKey,
		CreatedAt: strconv.FormatInt(time.Now().UnixMilli(), 10),
		PublicKey: ownerPublicKey,
		VerificationMethod: ledger.VerificationMethod{
			// The registry stores the document verbatim; method id and
			// controller are not dereferenced anywhere yet.
			ID:                 "null",
			Type:               "Ed25519VerificationKey2020",
			Controller:         "null",
			PublicKeyMultibase: ownerPublicKey,
		},
	}

	address, err := s.gateway.IssueDIDDocument(ctx, ownerPublicKey, doc)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "did document issued", "address", address)

	return address, nil
}
