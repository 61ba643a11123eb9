package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gencraft/chat-api/internal/model"
)

type fakePublisher struct {
	subject string
	data    []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, subject string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	f.subject = subject
	f.data = data
	if f.err != nil {
		return nil, f.err
	}
	return &jetstream.PubAck{Stream: StreamName, Sequence: 42}, nil
}

func TestEventSubject(t *testing.T) {
	assert.Equal(t, "chats.user_2abc.65a1f0c2e4b0a1b2c3d4e5f6.created",
		EventSubject("user_2abc", "65a1f0c2e4b0a1b2c3d4e5f6", model.EventTypeCreated))
	assert.Equal(t, "chats.a_b_c.x.deleted", EventSubject("a.b*c", "x", model.EventTypeDeleted))
	assert.Equal(t, "chats._.x.appended", EventSubject("", "x", model.EventTypeAppended))
}

func TestPublishChatEvent(t *testing.T) {
	fp := &fakePublisher{}
	m := &StreamManager{js: fp}

	event := &model.ChatEvent{
		ID:        "evt-1",
		ChatID:    "c1",
		UserID:    "u1",
		Type:      model.EventTypeCreated,
		Title:     "hello",
		CreatedAt: time.Unix(0, 0).UTC(),
	}

	seq, err := m.PublishChatEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), seq)
	assert.Equal(t, "chats.u1.c1.created", fp.subject)

	var got model.ChatEvent
	require.NoError(t, json.Unmarshal(fp.data, &got))
	assert.Equal(t, *event, got)
}

func TestPublishChatEventError(t *testing.T) {
	m := &StreamManager{js: &fakePublisher{err: errors.New("no responders")}}

	_, err := m.PublishChatEvent(context.Background(), &model.ChatEvent{ID: "e", Type: model.EventTypeDeleted})
	assert.ErrorContains(t, err, "no responders")
}
