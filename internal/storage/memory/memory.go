// Package memory provides in-process chat and index stores for local
// development and tests. Data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gencraft/chat-api/internal/model"
	"github.com/gencraft/chat-api/internal/storage"
)

// ChatStore keeps chats in a map keyed by ID.
type ChatStore struct {
	mu    sync.RWMutex
	chats map[string]*model.Chat
	order []string
}

// NewChatStore creates an empty chat store.
func NewChatStore() *ChatStore {
	return &ChatStore{chats: make(map[string]*model.Chat)}
}

// Insert stores a new chat and returns its ID.
func (s *ChatStore) Insert(_ context.Context, ownerID string, history []model.Message) (string, error) {
	id := primitive.NewObjectID().Hex()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[id] = &model.Chat{
		ID:      id,
		UserID:  ownerID,
		History: cloneMessages(history),
	}
	s.order = append(s.order, id)
	return id, nil
}

// AppendHistory appends msgs to the chat matching id and owner.
func (s *ChatStore) AppendHistory(_ context.Context, id, ownerID string, msgs ...model.Message) (bool, error) {
	if _, err := storage.ParseID(id); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[id]
	if !ok || chat.UserID != ownerID {
		return false, nil
	}
	chat.History = append(chat.History, cloneMessages(msgs)...)
	return true, nil
}

// FindOwned returns a copy of the chat matching id and owner.
func (s *ChatStore) FindOwned(_ context.Context, id, ownerID string) (*model.Chat, error) {
	if _, err := storage.ParseID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	chat, ok := s.chats[id]
	if !ok || chat.UserID != ownerID {
		return nil, storage.ErrNotFound
	}
	return &model.Chat{ID: chat.ID, UserID: chat.UserID, History: cloneMessages(chat.History)}, nil
}

// DeleteOwned removes the chat matching id and owner.
func (s *ChatStore) DeleteOwned(_ context.Context, id, ownerID string) (bool, error) {
	if _, err := storage.ParseID(id); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[id]
	if !ok || chat.UserID != ownerID {
		return false, nil
	}
	delete(s.chats, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Owners returns every user owning at least one chat, sorted.
func (s *ChatStore) Owners(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, c := range s.chats {
		set[c.UserID] = struct{}{}
	}
	owners := make([]string, 0, len(set))
	for o := range set {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	return owners, nil
}

// SummariesByOwner derives index entries for ownerID's chats, oldest first.
func (s *ChatStore) SummariesByOwner(_ context.Context, ownerID string) ([]model.ChatSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ChatSummary
	for _, id := range s.order {
		c := s.chats[id]
		if c.UserID != ownerID {
			continue
		}
		var title string
		if len(c.History) > 0 && len(c.History[0].Parts) > 0 {
			title = model.TitleFrom(c.History[0].Parts[0].Text)
		}
		out = append(out, model.ChatSummary{ID: id, Title: title})
	}
	return out, nil
}

// UserChatStore keeps per-user indexes in a map keyed by user ID.
type UserChatStore struct {
	mu      sync.RWMutex
	indexes map[string][]model.ChatSummary
}

// NewUserChatStore creates an empty index store.
func NewUserChatStore() *UserChatStore {
	return &UserChatStore{indexes: make(map[string][]model.ChatSummary)}
}

// Find returns a copy of the index of userID.
func (s *UserChatStore) Find(_ context.Context, userID string) (*model.UserChats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chats, ok := s.indexes[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &model.UserChats{UserID: userID, Chats: append([]model.ChatSummary{}, chats...)}, nil
}

// Push appends summary, creating the index if needed.
func (s *UserChatStore) Push(_ context.Context, userID string, summary model.ChatSummary) error {
	if _, err := storage.ParseID(summary.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[userID] = append(s.indexes[userID], summary)
	return nil
}

// Pull removes the entry for chatID, if present.
func (s *UserChatStore) Pull(_ context.Context, userID, chatID string) error {
	if _, err := storage.ParseID(chatID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	chats, ok := s.indexes[userID]
	if !ok {
		return nil
	}
	kept := chats[:0]
	for _, c := range chats {
		if c.ID != chatID {
			kept = append(kept, c)
		}
	}
	s.indexes[userID] = kept
	return nil
}

// Replace overwrites the index of userID.
func (s *UserChatStore) Replace(_ context.Context, userID string, summaries []model.ChatSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[userID] = append([]model.ChatSummary{}, summaries...)
	return nil
}

// Users returns every user with an index, sorted.
func (s *UserChatStore) Users(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]string, 0, len(s.indexes))
	for u := range s.indexes {
		users = append(users, u)
	}
	sort.Strings(users)
	return users, nil
}

func cloneMessages(msgs []model.Message) []model.Message {
	out := make([]model.Message, len(msgs))
	for i, m := range msgs {
		out[i] = model.Message{Role: m.Role, Parts: append([]model.Part{}, m.Parts...)}
	}
	return out
}
