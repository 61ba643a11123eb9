// Package model defines data structures for the chat API.
package model

// Chat represents one conversation owned by a single user.
type Chat struct {
	ID      string    `json:"_id"`
	UserID  string    `json:"userId"`
	History []Message `json:"history"`
}

// ChatSummary is one entry of a user's chat index.
type ChatSummary struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// UserChats is the denormalized per-user list of chat summaries.
type UserChats struct {
	UserID string        `json:"userId"`
	Chats  []ChatSummary `json:"chats"`
}

// TitleLength is the number of characters of the first user message kept as
// the chat title.
const TitleLength = 40

// TitleFrom returns the first TitleLength characters of text.
func TitleFrom(text string) string {
	runes := []rune(text)
	if len(runes) <= TitleLength {
		return text
	}
	return string(runes[:TitleLength])
}

// CreateChatRequest is the request to create a new chat.
// Text is nil when the key is absent; an empty string is a valid prompt.
type CreateChatRequest struct {
	Text *string `json:"text"`
}

// CreateChatResponse is the response after creating a chat.
type CreateChatResponse struct {
	ChatID   string `json:"chatId"`
	Response string `json:"response"`
}

// AppendChatRequest is the request to add a question to an existing chat.
type AppendChatRequest struct {
	Question *string `json:"question"`
}

// AppendChatResponse is the response after appending to a chat.
type AppendChatResponse struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

// MessageResponse is a bare status message.
type MessageResponse struct {
	Message string `json:"message"`
}
