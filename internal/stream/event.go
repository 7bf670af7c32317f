// Package stream decodes the line-oriented "data: <json>" response of a
// streaming chat completion into typed events.
package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind tags the shape of an Event.
type Kind int

const (
	// KindSkip marks a line that carries nothing of interest.
	KindSkip Kind = iota
	// KindComplete is a full, non-incremental message.
	KindComplete
	// KindReasoningDelta is a fragment of the reasoning phase.
	KindReasoningDelta
	// KindContentDelta is a fragment of the final answer.
	KindContentDelta
	// KindDone is the "data: [DONE]" sentinel.
	KindDone
)

func (k Kind) String() string {
	switch k {
	case KindComplete:
		return "complete"
	case KindReasoningDelta:
		return "reasoning_delta"
	case KindContentDelta:
		return "content_delta"
	case KindDone:
		return "done"
	default:
		return "skip"
	}
}

// Event is one decoded response line. Text is set for the delta kinds;
// Content and Reasoning for KindComplete, where an empty string means the
// field was absent.
type Event struct {
	Kind      Kind
	Text      string
	Content   string
	Reasoning string
}

const (
	dataPrefix = "data:"
	doneLine   = "data: [DONE]"
)

// DecodeError reports a data line whose payload could not be understood.
type DecodeError struct {
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode stream line %q: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var errNoChoices = errors.New("missing choices")

type chunk struct {
	Choices []map[string]json.RawMessage `json:"choices"`
}

type message struct {
	Content          *string `json:"content"`
	ReasoningContent *string `json:"reasoning_content"`
}

// ParseLine classifies a single response line. Lines that are blank, lack
// the data prefix, or carry none of the known fields yield KindSkip.
func ParseLine(line string) (Event, error) {
	if strings.TrimSpace(line) == "" || !strings.HasPrefix(line, dataPrefix) {
		return Event{}, nil
	}
	if line == doneLine {
		return Event{Kind: KindDone}, nil
	}

	var c chunk
	if err := json.Unmarshal([]byte(line[len(dataPrefix):]), &c); err != nil {
		return Event{}, &DecodeError{Line: line, Err: err}
	}
	if len(c.Choices) == 0 {
		return Event{}, &DecodeError{Line: line, Err: errNoChoices}
	}
	choice := c.Choices[0]

	if raw, ok := choice["message"]; ok && !isNull(raw) {
		var m message
		if err := json.Unmarshal(raw, &m); err != nil {
			return Event{}, &DecodeError{Line: line, Err: err}
		}
		return Event{Kind: KindComplete, Content: deref(m.Content), Reasoning: deref(m.ReasoningContent)}, nil
	}

	raw, ok := choice["delta"]
	if !ok || isNull(raw) {
		return Event{}, nil
	}
	var delta map[string]json.RawMessage
	if err := json.Unmarshal(raw, &delta); err != nil {
		return Event{}, &DecodeError{Line: line, Err: err}
	}

	// Key presence decides the branch; a null value counts as "".
	if v, ok := delta["reasoning_content"]; ok {
		text, err := optionalString(v)
		if err != nil {
			return Event{}, &DecodeError{Line: line, Err: err}
		}
		return Event{Kind: KindReasoningDelta, Text: text}, nil
	}
	if v, ok := delta["content"]; ok {
		text, err := optionalString(v)
		if err != nil {
			return Event{}, &DecodeError{Line: line, Err: err}
		}
		return Event{Kind: KindContentDelta, Text: text}, nil
	}
	return Event{}, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func optionalString(raw json.RawMessage) (string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return deref(s), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
