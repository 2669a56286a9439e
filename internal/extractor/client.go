// Package extractor is the client for the external ML extraction
// service. The service is an opaque collaborator: one POST per request,
// no retry, no caching, no rate limiting. Failures are terminal for the
// call and must be re-initiated by the caller.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/juiceai/juice-server/internal/config"
	"github.com/juiceai/juice-server/internal/domain"
)

// SourceType tags what kind of input the source payload is.
type SourceType string

const (
	SourceText SourceType = "text"
	SourceURL  SourceType = "url"
	SourceFile SourceType = "file"
)

// Request is the extraction request forwarded unmodified upstream.
type Request struct {
	Source string     `json:"source"`
	Type   SourceType `json:"type"`
}

// ExtractedContact is a partial contact as returned by the service:
// no id and no timestamps — those are assigned by the store.
type ExtractedContact struct {
	Type     domain.ContactType `json:"type"`
	Value    string             `json:"value"`
	Source   string             `json:"source,omitempty"`
	Metadata map[string]any     `json:"metadata,omitempty"`
	Tags     []string           `json:"tags,omitempty"`
}

// UpstreamError carries the extraction service's own error detail so
// the relay can forward it to the client.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("extraction service error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("extraction service error (status %d)", e.StatusCode)
}

// Client calls the extraction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an extraction service client.
func NewClient(cfg config.ExtractorConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Extract sends the source payload upstream and returns the extracted
// partial contacts. Upstream 4xx/5xx responses come back as
// *UpstreamError with the service's detail message when it sent one.
func (c *Client) Extract(ctx context.Context, source string, sourceType SourceType) ([]ExtractedContact, error) {
	body, err := json.Marshal(Request{Source: source, Type: sourceType})
	if err != nil {
		return nil, fmt.Errorf("marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read extraction response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// FastAPI-style error payloads carry a "detail" field.
		var payload struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(respBody, &payload)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Detail: payload.Detail}
	}

	var contacts []ExtractedContact
	if err := json.Unmarshal(respBody, &contacts); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	return contacts, nil
}
