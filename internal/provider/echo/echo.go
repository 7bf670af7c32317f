package echo

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/ai-gateway/domain-analyst/internal/provider"
)

// Provider responds by echoing the last user message, split into a short
// reasoning phase and an answer. It never touches the network.
type Provider struct{}

func New() *Provider { return &Provider{} }

func lastUser(req *provider.ChatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == provider.RoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}

func (p *Provider) Complete(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &provider.ChatResponse{
		Model: req.Model,
		Choices: []provider.Choice{{
			Message: provider.ResponseMessage{Role: provider.RoleAssistant, Content: "Echo: " + lastUser(req)},
		}},
	}, nil
}

func (p *Provider) Stream(ctx context.Context, req *provider.ChatRequest) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	writeDelta(&b, "reasoning_content", "Echoing request. ")
	writeDelta(&b, "content", "Echo: ")
	writeDelta(&b, "content", lastUser(req))
	b.WriteString("data: [DONE]\n\n")
	return io.NopCloser(strings.NewReader(b.String())), nil
}

func writeDelta(b *strings.Builder, field, text string) {
	line, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"delta": map[string]string{field: text}}},
	})
	b.WriteString("data: ")
	b.Write(line)
	b.WriteString("\n\n")
}
