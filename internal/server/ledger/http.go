package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/everscaleid/backend/internal/common"
	"github.com/everscaleid/backend/internal/logging"
)

// HTTPGateway resolves DID documents and multisig state over the Everscale
// HTTP endpoints. Endpoints are tried in order until one answers.
type HTTPGateway struct {
	endpoints       []string
	registryAddress string
	client          *http.Client
	logger          logging.Logger
}

func NewHTTPGateway(endpoints []string, registryAddress string, logger logging.Logger) *HTTPGateway {
	return &HTTPGateway{
		endpoints:       endpoints,
		registryAddress: registryAddress,
		client:          &http.Client{Timeout: 15 * time.Second},
		logger:          logger.With("module", "ledger"),
	}
}

// postJSON sends the payload to path on each endpoint in turn and decodes the
// first successful response into out.
func (g *HTTPGateway) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	var lastErr error
	for _, endpoint := range g.endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+path, bytes.NewReader(body))
		if err != nil {
			lastErr = err
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("endpoint %s: status %s", endpoint, resp.Status)
			continue
		}

		if err := json.Unmarshal(data, out); err != nil {
			lastErr = fmt.Errorf("decoding response: %w", err)
			continue
		}
		return nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no endpoints configured")
	}
	return fmt.Errorf("%w: %v", common.ErrLedgerUnavailable, lastErr)
}

type docContentResponse struct {
	Content string `json:"content"`
}

func (g *HTTPGateway) ResolveDIDPublicKey(ctx context.Context, didDocumentAddress string) (string, error) {
	var resp docContentResponse
	err := g.postJSON(ctx, "/did/document/content", map[string]string{
		"address": didDocumentAddress,
	}, &resp)
	if err != nil {
		return "", err
	}

	var doc DIDDocument
	if err := json.Unmarshal([]byte(resp.Content), &doc); err != nil {
		return "", fmt.Errorf("%w: malformed DID document: %v", common.ErrLedgerUnavailable, err)
	}

	return doc.PublicKey, nil
}

type custodiansResponse struct {
	Custodians []struct {
		PubKey string `json:"pubkey"`
	} `json:"custodians"`
}

func (g *HTTPGateway) MultisigCustodians(ctx context.Context, walletAddress string) ([]string, error) {
	var resp custodiansResponse
	err := g.postJSON(ctx, "/multisig/custodians", map[string]string{
		"address": walletAddress,
	}, &resp)
	if err != nil {
		// Resolution failures deny issuance instead of failing the call.
		g.logger.Warn(ctx, "custodian resolution failed", "wallet", walletAddress, "error", err.Error())
		return nil, nil
	}

	keys := make([]string, 0, len(resp.Custodians))
	for _, c := range resp.Custodians {
		keys = append(keys, c.PubKey)
	}
	return keys, nil
}

type issueDocumentResponse struct {
	Address string `json:"address"`
}

func (g *HTTPGateway) IssueDIDDocument(ctx context.Context, ownerPublicKey string, doc *DIDDocument) (string, error) {
	content, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding DID document: %w", err)
	}

	var resp issueDocumentResponse
	err = g.postJSON(ctx, "/did/document/issue", map[string]string{
		"registry":       g.registryAddress,
		"docOwnerPubKey": ownerPublicKey,
		"content":        string(content),
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.Address, nil
}
