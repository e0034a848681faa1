package repository

import (
	"context"

	"travelbuddy-relay/internal/domain/entity"
)

// AIProvider issues a single generation call. Implementations wrap
// transport failures in entity.ErrProviderUnreachable and unreadable
// replies in entity.ErrMalformedResponse.
type AIProvider interface {
	Generate(ctx context.Context, model, prompt string) (*entity.AIResponse, error)
}

// UsageRecorder accumulates per-model request and token counters.
type UsageRecorder interface {
	Record(ctx context.Context, model string, tokens int) error
}
