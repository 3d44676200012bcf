// Package client implements the read side of the ledger gateway protocol:
// transaction status, tag, payload and block lookups plus the tag-filtered
// search query, and the form-encoded requesters for the relay server.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verses-xyz/interdependence"
)

const defaultTimeout = 20 * time.Second

// Client issues read queries against a ledger gateway. It is an explicitly
// constructed instance; pass it to every component that reads the ledger.
type Client struct {
	client     *http.Client
	gatewayURL string
}

// New creates a ledger client for the given gateway base URL
// (e.g. "https://arweave.net").
func New(gatewayURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		gatewayURL: strings.TrimSuffix(gatewayURL, "/"),
	}
}

// NewWithHTTPClient creates a ledger client with a caller-supplied transport,
// used by tests and by callers that need their own timeout policy.
func NewWithHTTPClient(gatewayURL string, httpClient *http.Client) *Client {
	return &Client{
		client:     httpClient,
		gatewayURL: strings.TrimSuffix(gatewayURL, "/"),
	}
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gatewayURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %v", err)
	}
	return resp, nil
}

// GetTxStatus queries the confirmation status of a transaction. Non-200
// gateway verdicts (202 pending, 404 unknown) are normal result states, not
// errors; only transport and decode failures return an error.
func (c *Client) GetTxStatus(ctx context.Context, txID string) (interdependence.TxStatus, error) {
	resp, err := c.get(ctx, "/tx/"+txID+"/status")
	if err != nil {
		return interdependence.TxStatus{}, err
	}
	defer resp.Body.Close()

	status := interdependence.TxStatus{Status: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return status, nil
	}

	var confirmed interdependence.TxConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&confirmed); err != nil {
		return interdependence.TxStatus{}, fmt.Errorf("failed to decode tx status: %v", err)
	}
	status.Confirmed = &confirmed
	return status, nil
}

// wire shape of GET /tx/{id}: tags are base64url on the wire.
type txMetadata struct {
	Tags []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"tags"`
}

// GetTxTags fetches a transaction's tag set decoded to UTF-8 strings.
func (c *Client) GetTxTags(ctx context.Context, txID string) (interdependence.Tags, error) {
	resp, err := c.get(ctx, "/tx/"+txID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var meta txMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode tx metadata: %v", err)
	}

	tags := interdependence.Tags{}
	for _, tag := range meta.Tags {
		name, err := base64.RawURLEncoding.DecodeString(tag.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to decode tag name: %v", err)
		}
		value, err := base64.RawURLEncoding.DecodeString(tag.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode tag value: %v", err)
		}
		tags[string(name)] = string(value)
	}
	return tags, nil
}

// GetTxData fetches a transaction's raw body as a UTF-8 string. The caller
// parses it (declaration payloads are JSON).
func (c *Client) GetTxData(ctx context.Context, txID string) (string, error) {
	resp, err := c.get(ctx, "/tx/"+txID+"/data")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	encoded, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read tx data: %v", err)
	}

	decoded, err := base64.RawURLEncoding.DecodeString(string(encoded))
	if err != nil {
		return "", fmt.Errorf("failed to decode tx data: %v", err)
	}
	return string(decoded), nil
}

// GetBlock fetches block metadata by independent hash.
func (c *Client) GetBlock(ctx context.Context, blockID string) (interdependence.Block, error) {
	resp, err := c.get(ctx, "/block/hash/"+blockID)
	if err != nil {
		return interdependence.Block{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return interdependence.Block{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var block interdependence.Block
	if err := json.NewDecoder(resp.Body).Decode(&block); err != nil {
		return interdependence.Block{}, fmt.Errorf("failed to decode block: %v", err)
	}
	return block, nil
}

// graphql wire shapes. Search results carry tags already decoded.
type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlResponse struct {
	Data struct {
		Transactions struct {
			Edges []struct {
				Node struct {
					ID   string `json:"id"`
					Tags []struct {
						Name  string `json:"name"`
						Value string `json:"value"`
					} `json:"tags"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"transactions"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// QueryTransactions runs a tag-filtered search against the gateway's query
// endpoint and returns the matching candidates. The ledger gives no ordering
// guarantee; callers must not rely on one.
func (c *Client) QueryTransactions(ctx context.Context, query Query) ([]interdependence.TxCandidate, error) {
	body, err := json.Marshal(graphqlRequest{Query: query.GraphQL()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var decoded graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %v", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("query rejected: %s", decoded.Errors[0].Message)
	}

	candidates := make([]interdependence.TxCandidate, 0, len(decoded.Data.Transactions.Edges))
	for _, edge := range decoded.Data.Transactions.Edges {
		tags := interdependence.Tags{}
		for _, tag := range edge.Node.Tags {
			tags[tag.Name] = tag.Value
		}
		candidates = append(candidates, interdependence.TxCandidate{
			ID:   edge.Node.ID,
			Tags: tags,
		})
	}
	return candidates, nil
}
