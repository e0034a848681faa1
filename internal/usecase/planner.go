package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travelbuddy-relay/internal/domain/entity"
	"travelbuddy-relay/internal/domain/repository"
	"travelbuddy-relay/internal/metrics"

	"go.uber.org/zap"
)

const usageTimeout = 5 * time.Second

type Planner struct {
	aiProvider repository.AIProvider
	usage      repository.UsageRecorder
	models     entity.ModelSet
	logger     *zap.Logger
}

// NewPlanner wires the relay. usage may be nil when accounting is disabled.
func NewPlanner(ai repository.AIProvider, usage repository.UsageRecorder, models entity.ModelSet, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{aiProvider: ai, usage: usage, models: models, logger: logger}
}

// BuildPrompt picks the chat template whenever chat is truthy, ignoring
// days entirely; otherwise it builds the day plan, even when days is absent.
func BuildPrompt(req entity.GenerationRequest) entity.Prompt {
	if req.Chat.Truthy() {
		return entity.Prompt{
			Text: "You are TravelBuddy Hubli AI. User: " + req.Chat.String(),
			Tier: entity.TierFast,
		}
	}
	return entity.Prompt{
		Text: fmt.Sprintf("Create a detailed %s-day Hubli travel plan.", req.Days.String()),
		Tier: entity.TierAdvanced,
	}
}

// Execute makes exactly one provider call. An unreadable reply still
// produces a successful envelope carrying entity.FallbackResult; only
// transport failures are returned as errors.
func (p *Planner) Execute(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResponse, error) {
	prompt := BuildPrompt(req)
	model := p.models.For(prompt.Tier)
	tier := string(prompt.Tier)

	start := time.Now()
	resp, err := p.aiProvider.Generate(ctx, model, prompt.Text)
	metrics.ProviderDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, entity.ErrMalformedResponse) {
			metrics.GenerateRequests.WithLabelValues(tier, metrics.OutcomeMalformed).Inc()
			p.logger.Warn("provider reply unreadable", zap.String("model", model), zap.Error(err))
			return &entity.GenerationResponse{Success: true, Result: entity.FallbackResult}, nil
		}
		metrics.GenerateRequests.WithLabelValues(tier, metrics.OutcomeUnreachable).Inc()
		return nil, fmt.Errorf("AI provider generation failed: %w", err)
	}

	metrics.GenerateRequests.WithLabelValues(tier, metrics.OutcomeOK).Inc()
	p.logger.Debug("generation complete",
		zap.String("model", model),
		zap.Int("tokens", resp.TokenCount),
		zap.Int64("latency_ms", resp.Latency),
	)

	if p.usage != nil {
		go func() {
			// Detached from the request context, which ends with the response.
			bgCtx, cancel := context.WithTimeout(context.Background(), usageTimeout)
			defer cancel()
			if err := p.usage.Record(bgCtx, model, resp.TokenCount); err != nil {
				p.logger.Warn("usage accounting failed", zap.String("model", model), zap.Error(err))
			}
		}()
	}

	return &entity.GenerationResponse{Success: true, Result: resp.Content}, nil
}
