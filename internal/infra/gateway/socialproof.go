package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SocialProofGateway looks up the address a social handle has publicly
// claimed, via a proof service (e.g. a tweet-scraping endpoint). The relay
// only compares the claimed address; proof semantics live in the service.
type SocialProofGateway struct {
	client  *http.Client
	baseURL string
}

func NewSocialProofGateway(baseURL string) *SocialProofGateway {
	return &SocialProofGateway{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Lookup returns the address the handle's proof claims, or an error when no
// proof exists.
func (g *SocialProofGateway) Lookup(ctx context.Context, handle string) (string, error) {
	endpoint := g.baseURL + "/proof/" + url.PathEscape(handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach proof service: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("no proof found for handle %s", handle)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode proof response: %v", err)
	}
	return result.Address, nil
}
