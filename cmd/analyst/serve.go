package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ai-gateway/domain-analyst/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analyses over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, newRouter(cfg), tmpl, logger)
		return srv.Start(ctx)
	},
}
