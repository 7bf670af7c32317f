// Package httpapi talks to an OpenAI-compatible chat completion endpoint
// over plain HTTPS+JSON.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ai-gateway/domain-analyst/internal/provider"
)

// maxResponseBody caps how much of a non-streaming or error body is read.
const maxResponseBody = 10 * 1024 * 1024

// Provider posts chat requests to a fixed endpoint with a static bearer key.
type Provider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// New returns a Provider. A nil client means http.DefaultClient.
func New(endpoint, apiKey string, client *http.Client) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{endpoint: endpoint, apiKey: apiKey, client: client}
}

// Complete implements provider.Provider.
func (p *Provider) Complete(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	r := *req
	r.Stream = false

	resp, err := p.do(ctx, &r, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out provider.ChatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&out); err != nil {
		return nil, &provider.TransportError{Op: "decode response", Err: err}
	}
	return &out, nil
}

// Stream implements provider.Provider.
func (p *Provider) Stream(ctx context.Context, req *provider.ChatRequest) (io.ReadCloser, error) {
	r := *req
	r.Stream = true

	resp, err := p.do(ctx, &r, "text/event-stream")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (p *Provider) do(ctx context.Context, req *provider.ChatRequest, accept string) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", accept)
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &provider.TransportError{Op: "http request", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp, nil
}

// statusError builds an APIStatusError, decoding the body as JSON on a
// best-effort basis.
func statusError(resp *http.Response) *provider.APIStatusError {
	body := map[string]any{}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err == nil {
		var decoded map[string]any
		if json.Unmarshal(raw, &decoded) == nil && decoded != nil {
			body = decoded
		}
	}

	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &provider.APIStatusError{Status: resp.StatusCode, StatusText: text, Body: body}
}

var _ provider.Provider = (*Provider)(nil)
