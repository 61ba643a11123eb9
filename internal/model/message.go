package model

// Role represents the role of a message sender.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Part is one text fragment of a message.
type Part struct {
	Text string `json:"text"`
}

// Message is one turn in a chat.
type Message struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// NewTextMessage builds a single-part message.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Parts: []Part{{Text: text}}}
}

// Text returns the concatenated text of all parts.
func (m Message) Text() string {
	if len(m.Parts) == 1 {
		return m.Parts[0].Text
	}
	var s string
	for _, p := range m.Parts {
		s += p.Text
	}
	return s
}
