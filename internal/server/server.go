package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ai-gateway/domain-analyst/internal/analysis"
	"github.com/ai-gateway/domain-analyst/internal/config"
	"github.com/ai-gateway/domain-analyst/internal/guardrails"
	"github.com/ai-gateway/domain-analyst/internal/prompt"
	"github.com/ai-gateway/domain-analyst/internal/provider"
	"github.com/ai-gateway/domain-analyst/internal/routing"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	router *routing.Router
	guards *guardrails.Guardrails
	tmpl   prompt.Template
	logger *slog.Logger
}

func New(cfg *config.Config, rt *routing.Router, tmpl prompt.Template, logger *slog.Logger) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	srv := &Server{cfg: cfg, engine: r, router: rt, guards: guardrails.New(), tmpl: tmpl, logger: logger}
	srv.registerRoutes()
	return srv
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/v1")
	api.POST("/analyze", s.analyze)
	api.GET("/models", s.listModels)
}

// Handler exposes the gin engine, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.engine,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	s.logger.Info("listening", "address", s.cfg.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type analyzeRequest struct {
	Domain string `json:"domain"`
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

func (s *Server) client(model string) (*analysis.Client, string) {
	resolved, p := s.router.Resolve(model)
	return analysis.NewWithProvider(p, analysis.Options{
		Model:         resolved,
		MaxTokens:     s.cfg.MaxTokens,
		FlushInterval: s.cfg.FlushInterval(),
		Prompt:        &s.tmpl,
		Logger:        s.logger,
	}), resolved
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	domain, err := s.guards.CheckDomain(req.Domain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(requestIDHeader, id)
	ctx := analysis.WithRequestID(c.Request.Context(), id)
	cl, model := s.client(req.Model)

	if !req.Stream {
		out, err := cl.Analyze(ctx, domain, nil)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"id": id, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "model": model, "analysis": out})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	// Snapshots are delivered one at a time and never after Analyze
	// returns, so writing from the callback is safe.
	out, err := cl.Analyze(ctx, domain, func(snap analysis.Snapshot) {
		c.SSEvent("snapshot", snap)
		c.Writer.Flush()
	})
	if err != nil {
		c.SSEvent("error", gin.H{"id": id, "status": statusFor(err), "error": err.Error()})
	} else {
		c.SSEvent("result", gin.H{"id": id, "model": model, "analysis": out})
	}
	c.Writer.Flush()
}

// statusFor maps an analysis error to the HTTP status returned to callers.
func statusFor(err error) int {
	var apiErr *provider.APIStatusError
	var tErr *provider.TransportError
	switch {
	case errors.Is(err, prompt.ErrEmptyDomain):
		return http.StatusBadRequest
	case errors.As(err, &apiErr), errors.As(err, &tErr):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) listModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": s.router.Models()})
}
