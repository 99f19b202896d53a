//go:build !lambda
// +build !lambda

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsclient "github.com/cyphera/custody-vault/internal/client/aws"
	"github.com/cyphera/custody-vault/internal/constants"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// A missing .env is fine when variables come from the environment.
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	logger.InitLogger(os.Getenv("STAGE"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var secrets server.SecretResolver
	if os.Getenv("LEDGER_BACKEND") == constants.PostgresBackend {
		client, err := awsclient.NewSecretsManagerClient(ctx)
		if err != nil {
			logger.Fatal("Unable to create Secrets Manager client", zap.Error(err))
		}
		secrets = client
	}

	cfg, err := server.LoadConfig(ctx, os.Getenv, secrets)
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	srv, err := server.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Unable to initialize server", zap.Error(err))
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting")
}
