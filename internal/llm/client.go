// Package llm provides the response generator used to answer chat messages.
package llm

import (
	"context"
)

// Generator produces the assistant reply for a piece of user text.
type Generator interface {
	// Generate returns the reply for input. It never fails.
	Generate(ctx context.Context, input string) string

	// Name identifies the generator in logs.
	Name() string
}
