// Package analysis runs a domain analysis against a chat completion
// provider, turning its streamed reasoning and answer into snapshots.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ai-gateway/domain-analyst/internal/metrics"
	"github.com/ai-gateway/domain-analyst/internal/observability"
	"github.com/ai-gateway/domain-analyst/internal/prompt"
	"github.com/ai-gateway/domain-analyst/internal/provider"
	"github.com/ai-gateway/domain-analyst/internal/provider/httpapi"
	"github.com/ai-gateway/domain-analyst/internal/stream"
)

// Separator joins the reasoning and the answer in a streamed result.
const Separator = "\n\n"

// Options configures a Client.
type Options struct {
	APIKey        string
	EndpointURL   string
	Model         string
	MaxTokens     int
	FlushInterval time.Duration

	// Prompt overrides the built-in template when non-nil.
	Prompt     *prompt.Template
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client performs domain analyses. It holds no per-call state and may be
// shared.
type Client struct {
	provider  provider.Provider
	model     string
	maxTokens int
	interval  time.Duration
	tmpl      prompt.Template
	logger    *slog.Logger
	now       func() time.Time
}

// New returns a Client talking to opts.EndpointURL with opts.APIKey.
func New(opts Options) *Client {
	return NewWithProvider(httpapi.New(opts.EndpointURL, opts.APIKey, opts.HTTPClient), opts)
}

// NewWithProvider returns a Client using p as transport. The API key, endpoint
// and HTTP client in opts are ignored.
func NewWithProvider(p provider.Provider, opts Options) *Client {
	tmpl := prompt.Default()
	if opts.Prompt != nil {
		tmpl = *opts.Prompt
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.FlushInterval
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Client{
		provider:  p,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		interval:  interval,
		tmpl:      tmpl,
		logger:    logger,
		now:       time.Now,
	}
}

// Analyze asks for an analysis of domain. With a nil onUpdate it issues a
// single non-streaming request and returns the answer text. Otherwise it
// streams, delivering coalesced snapshots to onUpdate, and returns the
// reasoning and the answer joined by Separator.
func (c *Client) Analyze(ctx context.Context, domain string, onUpdate UpdateFunc) (string, error) {
	streaming := onUpdate != nil
	mode := "complete"
	if streaming {
		mode = "stream"
	}
	id := RequestID(ctx)
	logger := c.logger.With("request_id", id, "domain", domain, "model", c.model, "mode", mode)

	ctx, span := observability.StartSpan(ctx, "analysis.analyze",
		attribute.String("analysis.request_id", id),
		attribute.String("analysis.domain", domain),
		attribute.String("llm.model", c.model),
		attribute.Bool("analysis.streaming", streaming),
	)

	start := time.Now()
	var (
		out string
		err error
	)
	if streaming {
		var st state
		st, err = c.stream(ctx, logger, domain, onUpdate)
		if err == nil {
			out = st.reasoning + Separator + st.final
			span.SetAttributes(attribute.Bool("analysis.reasoning_done", st.reasoningDone))
			logger.Info("analysis finished",
				"reasoning_bytes", len(st.reasoning),
				"final_bytes", len(st.final),
				"reasoning_done", st.reasoningDone,
			)
		}
	} else {
		out, err = c.complete(ctx, domain)
		if err == nil {
			logger.Info("analysis finished", "final_bytes", len(out))
		}
	}

	status := "ok"
	if err != nil {
		status = "error"
		logger.Error("analysis failed", "error", err)
	}
	metrics.RecordRequest(mode, status, time.Since(start).Seconds())
	observability.End(span, err)
	return out, err
}

func (c *Client) complete(ctx context.Context, domain string) (string, error) {
	req, err := c.tmpl.Build(domain, c.model, c.maxTokens, false)
	if err != nil {
		return "", err
	}
	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content()
}

func (c *Client) stream(ctx context.Context, logger *slog.Logger, domain string, onUpdate UpdateFunc) (state, error) {
	req, err := c.tmpl.Build(domain, c.model, c.maxTokens, true)
	if err != nil {
		return state{}, err
	}
	body, err := c.provider.Stream(ctx, req)
	if err != nil {
		return state{}, err
	}
	defer body.Close()

	co := newCoalescer(c.interval, c.tmpl.Sentinel, c.now, onUpdate)
	stop := co.start()
	defer stop()

	dec := stream.NewDecoder(body)
	for {
		ev, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var decErr *stream.DecodeError
		if errors.As(err, &decErr) {
			metrics.RecordDecodeError()
			logger.Warn("skipping malformed stream line", "error", decErr.Err, "line", decErr.Line)
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return state{}, fmt.Errorf("read stream: %w", ctxErr)
			}
			return state{}, &provider.TransportError{Op: "read stream", Err: err}
		}

		switch ev.Kind {
		case stream.KindComplete:
			logger.Debug("received complete message")
			if ev.Content != "" {
				co.replaceFinal(ev.Content)
			}
			if ev.Reasoning != "" {
				co.replaceReasoning(ev.Reasoning)
			}
		case stream.KindReasoningDelta:
			co.addReasoning(ev.Text)
		case stream.KindContentDelta:
			co.addFinal(ev.Text)
		case stream.KindDone:
			logger.Debug("received [DONE]")
		}
	}

	stop()
	return co.finish(), nil
}
