package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gencraft/chat-api/internal/config"
	"github.com/gencraft/chat-api/internal/handler"
	natsclient "github.com/gencraft/chat-api/internal/nats"
	"github.com/gencraft/chat-api/internal/service"
	"github.com/gencraft/chat-api/internal/storage"
	"github.com/gencraft/chat-api/internal/storage/memory"
	"github.com/gencraft/chat-api/pkg/logger"
)

// backend holds the stores selected by STORE_BACKEND.
type backend struct {
	chats  service.ChatRepository
	index  service.IndexRepository
	pinger handler.Pinger
	close  func(ctx context.Context) error
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		log.Warn("using in-memory store, chats are lost on restart")
		return &backend{
			chats: memory.NewChatStore(),
			index: memory.NewUserChatStore(),
			close: func(context.Context) error { return nil },
		}, nil

	case config.StoreMongo:
		client, err := storage.Connect(ctx, storage.Config{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		}, log)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			client.Close(ctx)
			return nil, err
		}
		db := client.Database()
		return &backend{
			chats:  storage.NewChatStore(db),
			index:  storage.NewUserChatStore(db),
			pinger: client,
			close:  client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// events holds the optional JetStream publisher. Both fields are nil when
// NATS_URL is unset.
type events struct {
	publisher service.EventPublisher
	checker   handler.ConnectionChecker
	close     func()
}

func openEvents(ctx context.Context, cfg *config.Config, log *logger.Logger) (*events, error) {
	if cfg.NATSURL == "" {
		log.Info("NATS_URL not set, chat events disabled")
		return &events{close: func() {}}, nil
	}

	client, err := natsclient.Connect(ctx, natsclient.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		return nil, err
	}

	streams := natsclient.NewStreamManager(client)
	if err := streams.EnsureStream(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}

	log.Info("publishing chat events", zap.String("stream", natsclient.StreamName))
	return &events{
		publisher: streams,
		checker:   client,
		close:     client.Close,
	}, nil
}
