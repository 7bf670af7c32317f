package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Roles used in chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest mirrors the OpenAI chat completion request.
type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	Stream    bool      `json:"stream"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

// ResponseMessage is the assistant message of a non-streaming completion.
type ResponseMessage struct {
	Role             string `json:"role,omitempty"`
	Content          string `json:"content"`
	ReasoningContent string `json:"reasoning_content,omitempty"`
}

// Choice is one entry of ChatResponse.Choices.
type Choice struct {
	Index   int             `json:"index"`
	Message ResponseMessage `json:"message"`
}

// ChatResponse is the single JSON document returned when stream is false.
type ChatResponse struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
}

// Content returns the first choice's answer text.
func (r *ChatResponse) Content() (string, error) {
	if r == nil || len(r.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return r.Choices[0].Message.Content, nil
}

// Provider handles LLM operations.
type Provider interface {
	// Complete issues a non-streaming request and decodes the whole document.
	Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	// Stream issues a streaming request and returns the open response body.
	// The caller must close it.
	Stream(ctx context.Context, req *ChatRequest) (io.ReadCloser, error)
}

// ErrEmptyResponse is returned when a completion carries no choices.
var ErrEmptyResponse = errors.New("completion response has no choices")

// TransportError wraps a network-level failure talking to the remote API.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIStatusError reports a non-2xx response. Body holds the decoded JSON
// error document, or an empty map when it could not be decoded.
type APIStatusError struct {
	Status     int
	StatusText string
	Body       map[string]any
}

func (e *APIStatusError) Error() string {
	return fmt.Sprintf("api request failed: %d %s", e.Status, e.StatusText)
}
