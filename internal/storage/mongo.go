// Package storage persists chats and per-user chat indexes in MongoDB.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/gencraft/chat-api/pkg/logger"
)

const (
	// ChatsCollection holds chat transcripts.
	ChatsCollection = "chats"
	// UserChatsCollection holds the per-user chat index.
	UserChatsCollection = "userChats"
)

// Config holds MongoDB connection configuration.
type Config struct {
	URI      string
	Database string
}

// Client wraps the MongoDB client and the application database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *logger.Logger
}

// Connect establishes a connection to MongoDB and verifies it with a ping.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("gencraft-chat-api")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("connected to MongoDB", zap.String("database", cfg.Database))

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
		logger: log,
	}, nil
}

// Database returns the application database.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the stores rely on.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(UserChatsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("userId_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create userChats index: %w", err)
	}

	_, err = c.db.Collection(ChatsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("userId_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create chats index: %w", err)
	}

	return nil
}
