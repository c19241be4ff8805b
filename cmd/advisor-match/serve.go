// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/advisor-match/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the advisor ranking HTTP API",
	Long: `Serve exposes the ranking engine over HTTP: POST /api/search for queries,
GET /api/professors/:id and /api/publications/:id for detail lookups, and
GET /health. Shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logJSON, _ := cmd.Flags().GetBool("log-json")

		cfg := loadConfig()
		logger := newLogger(logJSON)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, closer, err := buildEngine(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closer()

		return api.NewServer(engine, cfg.Server, logger).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().Bool("log-json", false, "emit JSON logs instead of console output")

	rootCmd.AddCommand(serveCmd)
}
