package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gencraft/chat-api/internal/auth"
	"github.com/gencraft/chat-api/internal/handler"
	"github.com/gencraft/chat-api/internal/llm"
	"github.com/gencraft/chat-api/internal/service"
	"github.com/gencraft/chat-api/pkg/tracing"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}
	for _, w := range cfg.Warnings() {
		log.Warn("insecure configuration", zap.String("detail", w))
	}

	log.Info("starting API server", zap.String("store", cfg.StoreBackend))

	// Initialize tracing if enabled
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, serviceName, cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(context.Background(), tp)
		}
	}

	// Created at startup; nothing writes here yet.
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	verifier, err := auth.NewClerkVerifier(ctx, auth.ClerkConfig{
		JWKSURL:           cfg.ClerkJWKSURL,
		PublicKeyPEM:      cfg.ClerkJWTKey,
		Secret:            cfg.ClerkSecretKey,
		Issuer:            cfg.ClerkIssuer,
		AuthorizedParties: cfg.AuthorizedParties,
	})
	if err != nil {
		return fmt.Errorf("failed to configure token verification: %w", err)
	}

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close(context.Background())

	ev, err := openEvents(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer ev.close()

	var generator llm.Generator = llm.Placeholder{}
	log.Info("response generator ready", zap.String("generator", generator.Name()))
	chatSvc := service.NewChatService(store.chats, store.index, generator, ev.publisher, log)

	router := handler.NewRouter(handler.RouterConfig{
		Chats:             handler.NewChatHandler(chatSvc, log),
		Health:            handler.NewHealthHandler(store.pinger, ev.checker),
		Static:            handler.NewStaticHandler(cfg.StaticDir),
		Verifier:          verifier,
		Logger:            log,
		AllowedOrigins:    cfg.AllowedOrigins(),
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-quit:
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}
