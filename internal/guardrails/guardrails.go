package guardrails

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// maxDomainLength is the longest textual domain name DNS allows.
const maxDomainLength = 253

// ErrInvalidDomain wraps every rejection returned by CheckDomain.
var ErrInvalidDomain = errors.New("invalid domain")

// Guardrails performs simple input validation.
type Guardrails struct {
	banned []string
}

// New returns Guardrails rejecting domains that contain any of banned
// (case-insensitive).
func New(banned ...string) *Guardrails {
	lower := make([]string, 0, len(banned))
	for _, b := range banned {
		if b = strings.TrimSpace(strings.ToLower(b)); b != "" {
			lower = append(lower, b)
		}
	}
	return &Guardrails{banned: lower}
}

// CheckDomain returns the trimmed domain, or an error wrapping
// ErrInvalidDomain if it must not be sent upstream.
func (g *Guardrails) CheckDomain(domain string) (string, error) {
	d := strings.TrimSpace(domain)
	if d == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidDomain)
	}
	if len(d) > maxDomainLength {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidDomain, maxDomainLength)
	}
	if strings.IndexFunc(d, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return "", fmt.Errorf("%w: contains whitespace or control characters", ErrInvalidDomain)
	}
	lower := strings.ToLower(d)
	for _, w := range g.banned {
		if strings.Contains(lower, w) {
			return "", fmt.Errorf("%w: blocked term %q", ErrInvalidDomain, w)
		}
	}
	return d, nil
}
