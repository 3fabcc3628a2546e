package ai

import (
	"context"
)

// ContentGenerator is the model collaborator: a fully rendered prompt in,
// the model's raw text out. Implementations are constructed per operation
// so retry, circuit breaking and tracing carry the operation's settings.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}
