package client

import (
	"context"
	"strings"

	"travelbuddy-relay/internal/config"
	"travelbuddy-relay/internal/domain/repository"

	"go.uber.org/zap"
)

// NewProvider builds the backend named in cfg. The genai SDK will not start
// without a key, so an empty key falls back to REST: requests still go out
// and fail at the provider like any other unreadable reply.
func NewProvider(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (repository.AIProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Backend == config.BackendSDK {
		if strings.TrimSpace(cfg.APIKey) != "" {
			return NewGeminiSDKClient(ctx, cfg.APIKey, cfg.BaseURL, cfg.Timeout)
		}
		logger.Warn("sdk backend needs an API key, using rest backend instead")
	}
	return NewGeminiClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout, logger), nil
}
