package middleware

import (
	"errors"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxTextLength bounds user supplied chat text.
const MaxTextLength = 100000

// ValidateText validates the text of a user message. A nil text means the
// field was missing from the request.
func ValidateText(field string, text *string) error {
	if text == nil {
		return errors.New(field + " is required")
	}
	if len(*text) > MaxTextLength {
		return errors.New(field + " exceeds maximum length")
	}
	if !utf8.ValidString(*text) {
		return errors.New(field + " must be valid UTF-8")
	}
	return nil
}

// ValidateChatID validates a chat ID.
func ValidateChatID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return errors.New("invalid chat ID format")
	}
	return nil
}
