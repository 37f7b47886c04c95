package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/shop-assist/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := newSessionStore(cfg)
	asst, err := newAssistant(ctx, cfg, store)
	if err != nil {
		return err
	}

	go newJanitor(cfg, store).Run(ctx)

	logger.Info("Starting shopping assistant",
		zap.String("domain", cfg.Domain),
		zap.String("backend", cfg.VectorBackend),
		zap.String("llmProvider", cfg.LLMProvider),
		zap.String("llmModel", cfg.LLMModel))

	return server.Serve(ctx, server.New(asst), cfg.HTTPPort)
}
