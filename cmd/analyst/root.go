package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ai-gateway/domain-analyst/internal/config"
	"github.com/ai-gateway/domain-analyst/internal/logging"
	"github.com/ai-gateway/domain-analyst/internal/observability"
	"github.com/ai-gateway/domain-analyst/internal/prompt"
	"github.com/ai-gateway/domain-analyst/internal/provider/echo"
	"github.com/ai-gateway/domain-analyst/internal/provider/httpapi"
	"github.com/ai-gateway/domain-analyst/internal/routing"
)

var (
	cfgFile  string
	verbose  bool
	cfg      *config.Config
	logger   *slog.Logger
	tmpl     prompt.Template
	shutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "Domain name analysis over a streaming reasoning model",
	Long: `analyst asks a reasoning chat model to appraise a domain name and
shows its reasoning and final answer as they stream in.

Example usage:
  analyst analyze example.com           # stream reasoning and answer
  analyst analyze example.com --no-stream
  analyst serve                         # HTTP API on :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdown == nil {
			return nil
		}
		return shutdown(context.Background())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("model", "", "model to use (overrides config)")

	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))

	rootCmd.AddCommand(analyzeCmd, serveCmd)
}

func initConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadFile(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if m := viper.GetString("model"); m != "" {
		cfg.Model = m
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	logger = logging.New(os.Stderr, cfg.Log)

	tmpl = prompt.Default()
	if cfg.PromptFile != "" {
		if tmpl, err = prompt.Load(cfg.PromptFile); err != nil {
			return err
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err = observability.Setup(ctx, cfg.TelemetryURL)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	return nil
}

// newRouter routes the configured model to the remote API and keeps the
// offline echo model available.
func newRouter(c *config.Config) *routing.Router {
	rt := routing.New()
	if c.Model != "echo" {
		client := &http.Client{Timeout: c.RequestTimeout}
		rt.Register(c.Model, httpapi.New(c.EndpointURL, c.APIKey, client))
	}
	rt.Register("echo", echo.New())
	return rt
}
