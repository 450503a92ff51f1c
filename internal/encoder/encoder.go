// Package encoder talks to the external face-encoding service. The service
// wraps the actual facial-recognition library; this backend never decodes
// image bytes itself, it only ships them over and receives zero or more
// 128-dimension float64 embedding vectors back.
package encoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bhuvanachandra14/FitAi/internal/facematch"
)

// Extractor produces facial embeddings from raw image bytes. The returned
// slice may be empty when no face is detected; that is not an error at this
// layer.
type Extractor interface {
	Extract(ctx context.Context, image []byte) ([]facematch.Embedding, error)
}

// Client is an Extractor backed by an HTTP face-encoding sidecar exposing
// POST {base}/encodings. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the encoder at baseURL. A nil httpClient
// falls back to a client with a 30s timeout; encoding a large photo on CPU
// can take several seconds.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// encodeResponse is the wire shape returned by the encoder service.
type encodeResponse struct {
	Encodings [][]float64 `json:"encodings"`
}

// Extract submits image bytes and returns every embedding the service
// found, preserving detection order. Callers that only care about a single
// face take the first entry.
func (c *Client) Extract(ctx context.Context, image []byte) ([]facematch.Embedding, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/encodings", bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("face encoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read a little of the body for the log line; encoders report
		// decode failures as plain-text 4xx/5xx.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("face encoder status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var body encodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("face encoder response: %w", err)
	}

	out := make([]facematch.Embedding, 0, len(body.Encodings))
	for _, enc := range body.Encodings {
		out = append(out, facematch.Embedding(enc))
	}
	return out, nil
}
