package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gencraft/chat-api/internal/model"
	"github.com/gencraft/chat-api/internal/storage"
)

func history(text string) []model.Message {
	return []model.Message{
		model.NewTextMessage(model.RoleUser, text),
		model.NewTextMessage(model.RoleAI, "re: "+text),
	}
}

func TestChatStoreOwnership(t *testing.T) {
	ctx := context.Background()
	s := NewChatStore()

	id, err := s.Insert(ctx, "alice", history("hello"))
	require.NoError(t, err)

	_, err = s.FindOwned(ctx, id, "bob")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	matched, err := s.AppendHistory(ctx, id, "bob", model.NewTextMessage(model.RoleUser, "x"))
	require.NoError(t, err)
	assert.False(t, matched)

	deleted, err := s.DeleteOwned(ctx, id, "bob")
	require.NoError(t, err)
	assert.False(t, deleted)
	_, err = s.FindOwned(ctx, id, "alice")
	require.NoError(t, err)

	matched, err = s.AppendHistory(ctx, id, "alice", history("again")...)
	require.NoError(t, err)
	assert.True(t, matched)

	chat, err := s.FindOwned(ctx, id, "alice")
	require.NoError(t, err)
	assert.Len(t, chat.History, 4)

	// Returned chats are copies.
	chat.History[0].Parts[0].Text = "mutated"
	again, err := s.FindOwned(ctx, id, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hello", again.History[0].Text())

	deleted, err = s.DeleteOwned(ctx, id, "alice")
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = s.FindOwned(ctx, id, "alice")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	owners, err := s.Owners(ctx)
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestChatStoreRejectsMalformedID(t *testing.T) {
	ctx := context.Background()
	s := NewChatStore()

	_, err := s.FindOwned(ctx, "nope", "alice")
	assert.ErrorIs(t, err, storage.ErrInvalidID)
	_, err = s.AppendHistory(ctx, "nope", "alice")
	assert.ErrorIs(t, err, storage.ErrInvalidID)
	_, err = s.DeleteOwned(ctx, "nope", "alice")
	assert.ErrorIs(t, err, storage.ErrInvalidID)
}

func TestChatStoreSummaries(t *testing.T) {
	ctx := context.Background()
	s := NewChatStore()

	first, _ := s.Insert(ctx, "alice", history("first"))
	_, _ = s.Insert(ctx, "bob", history("other"))
	second, _ := s.Insert(ctx, "alice", history("second"))

	owners, err := s.Owners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, owners)

	summaries, err := s.SummariesByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []model.ChatSummary{
		{ID: first, Title: "first"},
		{ID: second, Title: "second"},
	}, summaries)
}

func TestUserChatStore(t *testing.T) {
	ctx := context.Background()
	s := NewUserChatStore()

	_, err := s.Find(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	a := model.ChatSummary{ID: "65a1f0c2e4b0a1b2c3d4e5f6", Title: "a"}
	b := model.ChatSummary{ID: "65a1f0c2e4b0a1b2c3d4e5f7", Title: "b"}
	require.NoError(t, s.Push(ctx, "alice", a))
	require.NoError(t, s.Push(ctx, "alice", b))

	idx, err := s.Find(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []model.ChatSummary{a, b}, idx.Chats)

	require.NoError(t, s.Pull(ctx, "alice", a.ID))
	require.NoError(t, s.Pull(ctx, "carol", a.ID))

	idx, err = s.Find(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []model.ChatSummary{b}, idx.Chats)

	_, err = s.Find(ctx, "carol")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Replace(ctx, "dave", nil))
	idx, err = s.Find(ctx, "dave")
	require.NoError(t, err)
	assert.Empty(t, idx.Chats)

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "dave"}, users)
}
