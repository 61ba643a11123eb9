package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChatID(t *testing.T) {
	assert.NoError(t, ValidateChatID("65a1f0c2e4b0a1b2c3d4e5f6"))
	assert.Error(t, ValidateChatID(""))
	assert.Error(t, ValidateChatID("not-an-id"))
	assert.Error(t, ValidateChatID("65a1f0c2e4b0a1b2c3d4e5fz"))
	assert.Error(t, ValidateChatID("65a1f0c2e4b0a1b2c3d4e5f6aa"))
}

func ptr(s string) *string { return &s }

func TestValidateText(t *testing.T) {
	assert.NoError(t, ValidateText("text", ptr("hello")))
	assert.NoError(t, ValidateText("text", ptr("")))
	assert.NoError(t, ValidateText("text", ptr(strings.Repeat("a", MaxTextLength))))
	assert.EqualError(t, ValidateText("text", nil), "text is required")
	assert.EqualError(t, ValidateText("question", ptr(strings.Repeat("a", MaxTextLength+1))), "question exceeds maximum length")
	assert.EqualError(t, ValidateText("text", ptr(string([]byte{0xff, 0xfe}))), "text must be valid UTF-8")
}
