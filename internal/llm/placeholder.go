package llm

import (
	"context"
)

// PlaceholderPrefix precedes the echoed input in every placeholder reply.
const PlaceholderPrefix = "This is an AI response to: "

// Placeholder returns a canned reply instead of calling a model.
type Placeholder struct{}

// Name returns "placeholder".
func (Placeholder) Name() string {
	return "placeholder"
}

// Generate echoes input behind PlaceholderPrefix.
func (Placeholder) Generate(_ context.Context, input string) string {
	return PlaceholderPrefix + input
}
