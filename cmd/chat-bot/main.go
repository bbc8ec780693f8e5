package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/genai-toolkit/internal/builder"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var environment string

	cmd := &cobra.Command{
		Use:           "chat-bot",
		Short:         "Run the persona chat as a Telegram bot",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(environment)
		},
	}
	cmd.Flags().StringVar(&environment, "env", "local", "Environment name used to pick the .env file")

	if err := cmd.Execute(); err != nil {
		log.Fatal("Failed to run telegram bot: ", err)
	}
}

func run(environment string) error {
	bot, logger, err := builder.BuildChatBot(environment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting telegram bot...")
		if err := bot.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal",
			zap.String("signal", sig.String()))
		cancel()
		if err := bot.Stop(); err != nil {
			logger.Error("error stopping bot",
				zap.Error(err))
		}
		logger.Info("telegram bot stopped gracefully")
		return nil
	case err := <-errChan:
		logger.Error("telegram bot error",
			zap.Error(err))
		return err
	}
}
