package model

import (
	"time"
)

// EventType represents the type of chat lifecycle event.
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeAppended EventType = "appended"
	EventTypeDeleted  EventType = "deleted"
)

// ChatEvent records a change to a chat.
type ChatEvent struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	UserID    string    `json:"user_id"`
	Type      EventType `json:"type"`
	Title     string    `json:"title,omitempty"`
	Messages  int       `json:"messages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Sequence  uint64    `json:"sequence,omitempty"`
}
