package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront-client/internal/app"
	"storefront-client/internal/config"
	"storefront-client/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	application := app.New(cfg)
	if err := application.Start(context.Background()); err != nil {
		logger.L().Fatal("failed to start storefront client", zap.Error(err))
	}

	logger.L().Info("storefront client running",
		zap.String("api", cfg.APIBaseURL),
		zap.Bool("live", application.Live != nil),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	application.Teardown()
}
