package storage

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gencraft/chat-api/internal/model"
)

type partDocument struct {
	Text string `bson:"text"`
}

type messageDocument struct {
	Role  string         `bson:"role"`
	Parts []partDocument `bson:"parts"`
}

type chatDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	UserID  string             `bson:"userId"`
	History []messageDocument  `bson:"history"`
}

type summaryDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Title string             `bson:"title"`
}

type userChatsDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID string             `bson:"userId"`
	Chats  []summaryDocument  `bson:"chats"`
}

func toMessageDocuments(msgs []model.Message) []messageDocument {
	docs := make([]messageDocument, len(msgs))
	for i, m := range msgs {
		parts := make([]partDocument, len(m.Parts))
		for j, p := range m.Parts {
			parts[j] = partDocument{Text: p.Text}
		}
		docs[i] = messageDocument{Role: string(m.Role), Parts: parts}
	}
	return docs
}

func (d *chatDocument) toModel() *model.Chat {
	history := make([]model.Message, len(d.History))
	for i, m := range d.History {
		parts := make([]model.Part, len(m.Parts))
		for j, p := range m.Parts {
			parts[j] = model.Part{Text: p.Text}
		}
		history[i] = model.Message{Role: model.Role(m.Role), Parts: parts}
	}
	return &model.Chat{
		ID:      d.ID.Hex(),
		UserID:  d.UserID,
		History: history,
	}
}

// summary derives the index entry for a stored chat from its first message.
func (d *chatDocument) summary() model.ChatSummary {
	var title string
	if len(d.History) > 0 && len(d.History[0].Parts) > 0 {
		title = model.TitleFrom(d.History[0].Parts[0].Text)
	}
	return model.ChatSummary{ID: d.ID.Hex(), Title: title}
}

func (d *userChatsDocument) toModel() *model.UserChats {
	chats := make([]model.ChatSummary, len(d.Chats))
	for i, c := range d.Chats {
		chats[i] = model.ChatSummary{ID: c.ID.Hex(), Title: c.Title}
	}
	return &model.UserChats{UserID: d.UserID, Chats: chats}
}

func toSummaryDocuments(summaries []model.ChatSummary) ([]summaryDocument, error) {
	docs := make([]summaryDocument, len(summaries))
	for i, s := range summaries {
		oid, err := ParseID(s.ID)
		if err != nil {
			return nil, err
		}
		docs[i] = summaryDocument{ID: oid, Title: s.Title}
	}
	return docs, nil
}
