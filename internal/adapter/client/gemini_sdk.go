package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"travelbuddy-relay/internal/domain/entity"

	"google.golang.org/genai"
)

// GeminiSDKClient serves the same contract as GeminiClient through the
// official genai SDK.
type GeminiSDKClient struct {
	client *genai.Client
}

func NewGeminiSDKClient(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*GeminiSDKClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if strings.TrimSpace(baseURL) != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(baseURL, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	return &GeminiSDKClient{client: client}, nil
}

func NewGeminiSDKClientFromClient(c *genai.Client) *GeminiSDKClient {
	return &GeminiSDKClient{client: c}
}

func (g *GeminiSDKClient) Generate(ctx context.Context, model, prompt string) (*entity.AIResponse, error) {
	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return nil, classifySDKError(err)
	}

	text, ok := firstText(result)
	if !ok {
		return nil, fmt.Errorf("%w: no text part", entity.ErrMalformedResponse)
	}

	tokens := 0
	if result.UsageMetadata != nil {
		tokens = int(result.UsageMetadata.TotalTokenCount)
	}
	return &entity.AIResponse{
		Content:    text,
		Model:      model,
		TokenCount: tokens,
		Latency:    time.Since(start).Milliseconds(),
	}, nil
}

func firstText(result *genai.GenerateContentResponse) (string, bool) {
	if result == nil || len(result.Candidates) == 0 {
		return "", false
	}
	c := result.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 || c.Parts[0] == nil {
		return "", false
	}
	p := c.Parts[0]
	if p.Text == "" && carriesNonText(p) {
		return "", false
	}
	return p.Text, true
}

// carriesNonText reports whether a part holds a payload other than text,
// which is how the SDK surfaces a reply whose first part has no text key.
func carriesNonText(p *genai.Part) bool {
	return p.InlineData != nil ||
		p.FileData != nil ||
		p.FunctionCall != nil ||
		p.FunctionResponse != nil ||
		p.ExecutableCode != nil ||
		p.CodeExecutionResult != nil
}

// classifySDKError separates transport failures from API error payloads,
// which the SDK also reports as errors.
func classifySDKError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", entity.ErrProviderUnreachable, err)
	}
	return fmt.Errorf("%w: %w", entity.ErrMalformedResponse, err)
}
