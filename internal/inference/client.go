// Package inference is the HTTP client for the external image
// classification service. The response body is opaque to the rest of
// the system beyond "ordered list of label/score pairs".
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leafcare.org/internal/diagnosis"
	"leafcare.org/internal/obs"
)

const maxResponseBytes = 1 << 20

var _ diagnosis.Classifier = (*Client)(nil)

// Client calls the classification endpoint with a bearer credential.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
}

// New constructs a Client. An empty apiKey produces an unconfigured
// client; Configured lets callers fail fast instead of issuing a
// request that the upstream will reject.
func New(url, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url:    strings.TrimSpace(url),
		apiKey: strings.TrimSpace(apiKey),
		http:   &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Classify posts the image bytes as an opaque binary payload and decodes
// the ranked predictions. Network failures and non-success statuses are
// reported uniformly; callers do not distinguish them.
func (c *Client) Classify(ctx context.Context, image []byte) ([]diagnosis.Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		obs.ObserveInference("transport_error", time.Since(start))
		return nil, fmt.Errorf("inference call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		obs.ObserveInference("read_error", time.Since(start))
		return nil, fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		obs.ObserveInference("upstream_error", time.Since(start))
		return nil, fmt.Errorf("inference status %d", resp.StatusCode)
	}

	var predictions []diagnosis.Prediction
	if err := json.Unmarshal(body, &predictions); err != nil {
		obs.ObserveInference("decode_error", time.Since(start))
		return nil, fmt.Errorf("decode inference response: %w", err)
	}
	obs.ObserveInference("ok", time.Since(start))
	return predictions, nil
}
