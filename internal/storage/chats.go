package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gencraft/chat-api/internal/model"
)

// ChatStore reads and writes chat transcripts.
type ChatStore struct {
	coll *mongo.Collection
}

// NewChatStore creates a chat store on db.
func NewChatStore(db *mongo.Database) *ChatStore {
	return &ChatStore{coll: db.Collection(ChatsCollection)}
}

// Insert stores a new chat and returns its ID.
func (s *ChatStore) Insert(ctx context.Context, ownerID string, history []model.Message) (id string, err error) {
	ctx, done := observe(ctx, ChatsCollection, "insert")
	defer func() { done(err) }()

	res, err := s.coll.InsertOne(ctx, chatDocument{
		UserID:  ownerID,
		History: toMessageDocuments(history),
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert chat: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted ID type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// AppendHistory pushes msgs onto the history of the chat matching id and
// owner. It reports whether a chat matched.
func (s *ChatStore) AppendHistory(ctx context.Context, id, ownerID string, msgs ...model.Message) (matched bool, err error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}

	ctx, done := observe(ctx, ChatsCollection, "append")
	defer func() { done(err) }()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "userId": ownerID},
		bson.M{"$push": bson.M{"history": bson.M{"$each": toMessageDocuments(msgs)}}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to append to chat: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// FindOwned returns the chat matching id and owner, or ErrNotFound.
func (s *ChatStore) FindOwned(ctx context.Context, id, ownerID string) (chat *model.Chat, err error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	ctx, done := observe(ctx, ChatsCollection, "find")
	defer func() { done(err) }()

	var doc chatDocument
	err = s.coll.FindOne(ctx, bson.M{"_id": oid, "userId": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}
	return doc.toModel(), nil
}

// DeleteOwned removes the chat matching id and owner. It reports whether a
// chat was removed.
func (s *ChatStore) DeleteOwned(ctx context.Context, id, ownerID string) (deleted bool, err error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}

	ctx, done := observe(ctx, ChatsCollection, "delete")
	defer func() { done(err) }()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid, "userId": ownerID})
	if err != nil {
		return false, fmt.Errorf("failed to delete chat: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// Owners returns every user ID that owns at least one chat.
func (s *ChatStore) Owners(ctx context.Context) (owners []string, err error) {
	ctx, done := observe(ctx, ChatsCollection, "owners")
	defer func() { done(err) }()

	values, err := s.coll.Distinct(ctx, "userId", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list chat owners: %w", err)
	}

	for _, v := range values {
		if id, ok := v.(string); ok {
			owners = append(owners, id)
		}
	}
	return owners, nil
}

// SummariesByOwner derives index entries for every chat of ownerID, oldest first.
func (s *ChatStore) SummariesByOwner(ctx context.Context, ownerID string) (summaries []model.ChatSummary, err error) {
	ctx, done := observe(ctx, ChatsCollection, "summaries")
	defer func() { done(err) }()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"history": bson.M{"$slice": 1}})

	cursor, err := s.coll.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc chatDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode chat: %w", err)
		}
		summaries = append(summaries, doc.summary())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chats: %w", err)
	}
	return summaries, nil
}
