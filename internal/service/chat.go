// Package service provides business logic for the chat API.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gencraft/chat-api/internal/llm"
	"github.com/gencraft/chat-api/internal/model"
	"github.com/gencraft/chat-api/internal/storage"
	"github.com/gencraft/chat-api/pkg/logger"
	"github.com/gencraft/chat-api/pkg/metrics"
)

// ChatRepository stores chat transcripts.
type ChatRepository interface {
	Insert(ctx context.Context, ownerID string, history []model.Message) (string, error)
	AppendHistory(ctx context.Context, id, ownerID string, msgs ...model.Message) (bool, error)
	FindOwned(ctx context.Context, id, ownerID string) (*model.Chat, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (bool, error)
	Owners(ctx context.Context) ([]string, error)
	SummariesByOwner(ctx context.Context, ownerID string) ([]model.ChatSummary, error)
}

// IndexRepository stores the per-user chat list.
type IndexRepository interface {
	Find(ctx context.Context, userID string) (*model.UserChats, error)
	Push(ctx context.Context, userID string, summary model.ChatSummary) error
	Pull(ctx context.Context, userID, chatID string) error
	Replace(ctx context.Context, userID string, summaries []model.ChatSummary) error
	Users(ctx context.Context) ([]string, error)
}

// EventPublisher receives chat lifecycle events.
type EventPublisher interface {
	PublishChatEvent(ctx context.Context, event *model.ChatEvent) (uint64, error)
}

// ChatService handles chat operations.
type ChatService struct {
	chats     ChatRepository
	index     IndexRepository
	generator llm.Generator
	events    EventPublisher
	logger    *logger.Logger
}

// NewChatService creates a new chat service. events may be nil.
func NewChatService(
	chats ChatRepository,
	index IndexRepository,
	generator llm.Generator,
	events EventPublisher,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		chats:     chats,
		index:     index,
		generator: generator,
		events:    events,
		logger:    log,
	}
}

// Create starts a new chat for ownerID with text and the generated reply,
// then records it in the owner's index.
func (s *ChatService) Create(ctx context.Context, ownerID, text string) (*model.CreateChatResponse, error) {
	response := s.generator.Generate(ctx, text)

	id, err := s.chats.Insert(ctx, ownerID, []model.Message{
		model.NewTextMessage(model.RoleUser, text),
		model.NewTextMessage(model.RoleAI, response),
	})
	if err != nil {
		s.logger.Error("failed to insert chat", zap.String("user_id", ownerID), zap.Error(err))
		return nil, internal("failed to create chat", err)
	}

	title := model.TitleFrom(text)
	if err := s.index.Push(ctx, ownerID, model.ChatSummary{ID: id, Title: title}); err != nil {
		// The chat exists but is missing from the index until the next reindex.
		metrics.IndexDriftTotal.WithLabelValues("create").Inc()
		s.logger.Error("failed to index new chat",
			zap.String("user_id", ownerID),
			zap.String("chat_id", id),
			zap.Error(err),
		)
		return nil, internal("failed to create chat", err)
	}

	metrics.ChatsTotal.WithLabelValues("created").Inc()
	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()
	metrics.MessagesTotal.WithLabelValues(string(model.RoleAI)).Inc()

	s.publish(ctx, &model.ChatEvent{ChatID: id, UserID: ownerID, Type: model.EventTypeCreated, Title: title, Messages: 2})

	s.logger.Info("chat created", zap.String("chat_id", id), zap.String("user_id", ownerID))

	return &model.CreateChatResponse{ChatID: id, Response: response}, nil
}

// Append adds question and its generated reply to the chat id owned by ownerID.
func (s *ChatService) Append(ctx context.Context, id, ownerID, question string) (string, error) {
	response := s.generator.Generate(ctx, question)

	matched, err := s.chats.AppendHistory(ctx, id, ownerID,
		model.NewTextMessage(model.RoleUser, question),
		model.NewTextMessage(model.RoleAI, response),
	)
	if err != nil {
		return "", badRequest(err)
	}
	if !matched {
		return "", notFound()
	}

	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()
	metrics.MessagesTotal.WithLabelValues(string(model.RoleAI)).Inc()

	s.publish(ctx, &model.ChatEvent{ChatID: id, UserID: ownerID, Type: model.EventTypeAppended, Messages: 2})

	return response, nil
}

// Get returns the chat id owned by ownerID.
func (s *ChatService) Get(ctx context.Context, id, ownerID string) (*model.Chat, error) {
	chat, err := s.chats.FindOwned(ctx, id, ownerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound()
	}
	if err != nil {
		return nil, badRequest(err)
	}
	return chat, nil
}

// Delete removes the chat id owned by ownerID and its index entry.
func (s *ChatService) Delete(ctx context.Context, id, ownerID string) error {
	deleted, err := s.chats.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return badRequest(err)
	}
	if !deleted {
		return notFound()
	}

	metrics.ChatsTotal.WithLabelValues("deleted").Inc()
	s.publish(ctx, &model.ChatEvent{ChatID: id, UserID: ownerID, Type: model.EventTypeDeleted})

	if err := s.index.Pull(ctx, ownerID, id); err != nil {
		metrics.IndexDriftTotal.WithLabelValues("delete").Inc()
		s.logger.Error("failed to remove deleted chat from index",
			zap.String("user_id", ownerID),
			zap.String("chat_id", id),
			zap.Error(err),
		)
		return badRequest(err)
	}

	return nil
}

// List returns the chat summaries of ownerID in creation order.
func (s *ChatService) List(ctx context.Context, ownerID string) ([]model.ChatSummary, error) {
	index, err := s.index.Find(ctx, ownerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, noChatsFound()
	}
	if err != nil {
		s.logger.Error("failed to load user chats", zap.String("user_id", ownerID), zap.Error(err))
		return nil, internal("failed to list chats", err)
	}

	if index.Chats == nil {
		return []model.ChatSummary{}, nil
	}
	return index.Chats, nil
}

// publish sends event best-effort; failures are logged only.
func (s *ChatService) publish(ctx context.Context, event *model.ChatEvent) {
	if s.events == nil {
		return
	}
	event.ID = uuid.Must(uuid.NewV7()).String()
	event.CreatedAt = time.Now().UTC()

	if _, err := s.events.PublishChatEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish chat event",
			zap.String("type", string(event.Type)),
			zap.String("chat_id", event.ChatID),
			zap.Error(err),
		)
	}
}
