// Package prompt builds the chat request sent for a domain analysis.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ai-gateway/domain-analyst/internal/provider"
)

// DomainPlaceholder is replaced by the analyzed domain in Template.User.
const DomainPlaceholder = "{{domain}}"

// DefaultMaxTokens is the completion budget used when none is configured.
const DefaultMaxTokens = 4000

// Template holds the analyst persona and request wording. Sentinel is the
// phrase the model emits when its reasoning turns into the written analysis.
type Template struct {
	System   string `yaml:"system"`
	User     string `yaml:"user"`
	Sentinel string `yaml:"sentinel"`
}

// Default returns the built-in domain appraisal prompt.
func Default() Template {
	return Template{
		System: `You are a professional domain name analyst and appraiser. For the domain the user provides, give a detailed analysis covering:
1. The structure and type of the domain (generic, industry-specific, etc.)
2. Its brand value, memorability and market potential
3. An approximate valuation range under current market conditions
4. Recommended use cases and industries

Keep the analysis objective and professional, and back every opinion with concrete reasons.`,
		User:     "Please analyze the value, suitable use cases and recommended industries for this domain: " + DomainPlaceholder,
		Sentinel: "My analysis is as follows:",
	}
}

// Load reads a YAML template from path. Keys left out of the file keep
// their default values.
func Load(path string) (Template, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read prompt file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse prompt file %s: %w", path, err)
	}
	if !strings.Contains(t.User, DomainPlaceholder) {
		return t, fmt.Errorf("prompt file %s: user template must contain %s", path, DomainPlaceholder)
	}
	return t, nil
}

// ErrEmptyDomain is returned by Build for a blank domain.
var ErrEmptyDomain = errors.New("domain must not be empty")

// Build renders the two-message request for domain.
func (t Template) Build(domain, model string, maxTokens int, stream bool) (*provider.ChatRequest, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, ErrEmptyDomain
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &provider.ChatRequest{
		Model: model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: t.System},
			{Role: provider.RoleUser, Content: strings.ReplaceAll(t.User, DomainPlaceholder, domain)},
		},
		Stream:    stream,
		MaxTokens: maxTokens,
	}, nil
}
