package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/verses-xyz/interdependence"
	"github.com/verses-xyz/interdependence/internal/usecase"
)

// BundlerPublisher writes tagged data items through a bundler endpoint that
// holds the trusted publisher's ledger key. The relay never touches that key
// directly.
type BundlerPublisher struct {
	client     *http.Client
	bundlerURL string
}

func NewBundlerPublisher(bundlerURL string) *BundlerPublisher {
	return &BundlerPublisher{
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
		bundlerURL: strings.TrimSuffix(bundlerURL, "/"),
	}
}

type dataItem struct {
	Data string        `json:"data"`
	Tags []dataItemTag `json:"tags"`
}

type dataItemTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (p *BundlerPublisher) Publish(ctx context.Context, data []byte, tags interdependence.Tags) (string, error) {
	item := dataItem{Data: string(data)}
	for name, value := range tags {
		item.Tags = append(item.Tags, dataItemTag{Name: name, Value: value})
	}

	body, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data item: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.bundlerURL+"/tx", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach bundler: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("bundler rejected data item: status %d", resp.StatusCode)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode bundler response: %v", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("bundler returned no transaction id")
	}
	return result.ID, nil
}

var _ usecase.LedgerPublisher = (*BundlerPublisher)(nil)
