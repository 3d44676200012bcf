package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/verses-xyz/interdependence"
)

// ErrNoWallet is returned by Sign when no signing capability is available.
// It fires before any network call.
var ErrNoWallet = errors.New("no wallet found, a signing key is required")

// RelayClient shapes and submits state-changing requests to the relay
// server. It holds no aggregation logic; the server owns correctness.
type RelayClient struct {
	client  *http.Client
	baseURL string
}

// NewRelay creates a requester for the relay server at baseURL.
func NewRelay(baseURL string) *RelayClient {
	return &RelayClient{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (r *RelayClient) postForm(ctx context.Context, path string, form url.Values) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach relay server: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode relay response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		if msg, ok := result["error"].(string); ok {
			return result, fmt.Errorf("relay rejected request: %s", msg)
		}
		return result, fmt.Errorf("relay rejected request: status %d", resp.StatusCode)
	}
	return result, nil
}

// Fork asks the relay to publish a derivative of an existing declaration
// with new text and a new author list. The authors travel as a JSON array
// string inside the form body.
func (r *RelayClient) Fork(ctx context.Context, oldTxID, newText string, authors []string) (map[string]any, error) {
	authorsJSON, err := json.Marshal(authors)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal authors: %v", err)
	}

	form := url.Values{
		"authors": {string(authorsJSON)},
		"newText": {newText},
	}
	return r.postForm(ctx, "/fork/"+oldTxID, form)
}

// Sign signs the literal declaration text with the given wallet, binding the
// signature to the content, then submits it to the relay. The signature
// exists once the wallet produced it; a relay failure after that point is
// surfaced but cannot retract it.
func (r *RelayClient) Sign(ctx context.Context, txID, name, handle, declarationText string, wallet interdependence.Wallet) (map[string]any, error) {
	if wallet == nil {
		return nil, ErrNoWallet
	}

	signature, err := wallet.SignMessage([]byte(declarationText))
	if err != nil {
		return nil, fmt.Errorf("failed to sign declaration: %v", err)
	}

	if handle == "" {
		handle = interdependence.HandleNull
	}

	form := url.Values{
		"name":      {name},
		"address":   {wallet.Address()},
		"signature": {signature},
		"handle":    {handle},
	}
	return r.postForm(ctx, "/sign/"+txID, form)
}

// Verify asks the relay to check an identity proof binding address to the
// given social handle. Proof logic lives entirely on the server.
func (r *RelayClient) Verify(ctx context.Context, address, handle string) (map[string]any, error) {
	form := url.Values{
		"address": {address},
	}
	return r.postForm(ctx, "/verify/"+handle, form)
}
