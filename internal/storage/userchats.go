package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gencraft/chat-api/internal/model"
)

// UserChatStore maintains the denormalized per-user chat list.
type UserChatStore struct {
	coll *mongo.Collection
}

// NewUserChatStore creates a user chat index store on db.
func NewUserChatStore(db *mongo.Database) *UserChatStore {
	return &UserChatStore{coll: db.Collection(UserChatsCollection)}
}

// Find returns the index of userID, or ErrNotFound when the user has none.
func (s *UserChatStore) Find(ctx context.Context, userID string) (chats *model.UserChats, err error) {
	ctx, done := observe(ctx, UserChatsCollection, "find")
	defer func() { done(err) }()

	var doc userChatsDocument
	err = s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user chats: %w", err)
	}
	return doc.toModel(), nil
}

// Push appends summary to the index of userID, creating the index if needed.
func (s *UserChatStore) Push(ctx context.Context, userID string, summary model.ChatSummary) (err error) {
	oid, err := ParseID(summary.ID)
	if err != nil {
		return err
	}

	ctx, done := observe(ctx, UserChatsCollection, "push")
	defer func() { done(err) }()

	_, err = s.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$push": bson.M{"chats": summaryDocument{ID: oid, Title: summary.Title}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to add chat to user index: %w", err)
	}
	return nil
}

// Pull removes the entry for chatID from the index of userID, if present.
func (s *UserChatStore) Pull(ctx context.Context, userID, chatID string) (err error) {
	oid, err := ParseID(chatID)
	if err != nil {
		return err
	}

	ctx, done := observe(ctx, UserChatsCollection, "pull")
	defer func() { done(err) }()

	_, err = s.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$pull": bson.M{"chats": bson.M{"_id": oid}}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove chat from user index: %w", err)
	}
	return nil
}

// Replace overwrites the index of userID with summaries.
func (s *UserChatStore) Replace(ctx context.Context, userID string, summaries []model.ChatSummary) (err error) {
	docs, err := toSummaryDocuments(summaries)
	if err != nil {
		return err
	}

	ctx, done := observe(ctx, UserChatsCollection, "replace")
	defer func() { done(err) }()

	_, err = s.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"chats": docs}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to replace user index: %w", err)
	}
	return nil
}

// Users returns every user ID that has an index document.
func (s *UserChatStore) Users(ctx context.Context) (users []string, err error) {
	ctx, done := observe(ctx, UserChatsCollection, "users")
	defer func() { done(err) }()

	values, err := s.coll.Distinct(ctx, "userId", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list indexed users: %w", err)
	}
	for _, v := range values {
		if id, ok := v.(string); ok {
			users = append(users, id)
		}
	}
	return users, nil
}
