package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gencraft/chat-api/internal/model"
)

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, err := ParseID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	_, err = ParseID("nope")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestChatDocumentBSONLayout(t *testing.T) {
	doc := chatDocument{
		UserID: "user_1",
		History: toMessageDocuments([]model.Message{
			model.NewTextMessage(model.RoleUser, "hi"),
			model.NewTextMessage(model.RoleAI, "This is an AI response to: hi"),
		}),
	}

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	stored := bson.Raw(raw)
	_, err = stored.LookupErr("_id")
	assert.Error(t, err, "zero _id must be omitted so the server assigns one")
	assert.Equal(t, "user_1", stored.Lookup("userId").StringValue())
	assert.Equal(t, "user", stored.Lookup("history", "0", "role").StringValue())
	assert.Equal(t, "hi", stored.Lookup("history", "0", "parts", "0", "text").StringValue())
	assert.Equal(t, "ai", stored.Lookup("history", "1", "role").StringValue())
}

func TestChatDocumentToModel(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := chatDocument{
		ID:     oid,
		UserID: "user_1",
		History: []messageDocument{
			{Role: "user", Parts: []partDocument{{Text: strings.Repeat("x", 50)}}},
			{Role: "ai", Parts: []partDocument{{Text: "reply"}}},
		},
	}

	chat := doc.toModel()
	assert.Equal(t, oid.Hex(), chat.ID)
	assert.Equal(t, "user_1", chat.UserID)
	require.Len(t, chat.History, 2)
	assert.Equal(t, model.RoleAI, chat.History[1].Role)
	assert.Equal(t, "reply", chat.History[1].Text())

	s := doc.summary()
	assert.Equal(t, oid.Hex(), s.ID)
	assert.Equal(t, strings.Repeat("x", 40), s.Title)
}

func TestSummaryOfEmptyChat(t *testing.T) {
	doc := chatDocument{ID: primitive.NewObjectID()}
	assert.Empty(t, doc.summary().Title)
}

func TestToSummaryDocuments(t *testing.T) {
	oid := primitive.NewObjectID()
	docs, err := toSummaryDocuments([]model.ChatSummary{{ID: oid.Hex(), Title: "t"}})
	require.NoError(t, err)
	assert.Equal(t, []summaryDocument{{ID: oid, Title: "t"}}, docs)

	_, err = toSummaryDocuments([]model.ChatSummary{{ID: "bad"}})
	assert.ErrorIs(t, err, ErrInvalidID)

	docs, err = toSummaryDocuments(nil)
	require.NoError(t, err)
	assert.NotNil(t, docs)
}

func TestUserChatsDocumentToModel(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	doc := userChatsDocument{
		UserID: "user_1",
		Chats:  []summaryDocument{{ID: a, Title: "first"}, {ID: b, Title: "second"}},
	}

	got := doc.toModel()
	assert.Equal(t, &model.UserChats{
		UserID: "user_1",
		Chats: []model.ChatSummary{
			{ID: a.Hex(), Title: "first"},
			{ID: b.Hex(), Title: "second"},
		},
	}, got)
}
