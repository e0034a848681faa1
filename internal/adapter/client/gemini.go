package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"travelbuddy-relay/internal/domain/entity"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

// The reply is decoded one level at a time so that siblings of the text
// path (other candidates, other parts, usage metadata) can hold anything.
type replyEnvelope struct {
	Candidates    []json.RawMessage `json:"candidates"`
	UsageMetadata json.RawMessage   `json:"usageMetadata"`
}

type replyCandidate struct {
	Content struct {
		Parts []json.RawMessage `json:"parts"`
	} `json:"content"`
}

// Text is a pointer so an explicit empty string can be told apart from a
// missing key.
type replyPart struct {
	Text *string `json:"text"`
}

type replyUsage struct {
	TotalTokenCount int `json:"totalTokenCount"`
}

// GeminiClient calls generateContent over plain REST with the API key in
// the query string.
type GeminiClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewGeminiClient builds a REST client. A zero timeout means the call may
// block for as long as the provider keeps the connection open.
func NewGeminiClient(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) *GeminiClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (g *GeminiClient) endpoint(model string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(model), url.QueryEscape(g.apiKey))
}

func (g *GeminiClient) Generate(ctx context.Context, model, prompt string) (*entity.AIResponse, error) {
	data, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(model), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrProviderUnreachable, redactKey(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", entity.ErrProviderUnreachable, err)
	}
	latency := time.Since(start)

	// The status code is informational only; error payloads fail extraction below.
	if resp.StatusCode >= 300 {
		g.logger.Warn("gemini returned non-success status",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 512)),
		)
	}

	text, tokens, err := ExtractText(body)
	if err != nil {
		return nil, err
	}

	return &entity.AIResponse{
		Content:    text,
		Model:      model,
		TokenCount: tokens,
		Latency:    latency.Milliseconds(),
	}, nil
}

// ExtractText pulls candidates[0].content.parts[0].text out of a
// generateContent reply. Every shape problem is reported as
// entity.ErrMalformedResponse.
func ExtractText(body []byte) (string, int, error) {
	var env replyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", 0, fmt.Errorf("%w: %w", entity.ErrMalformedResponse, err)
	}
	if len(env.Candidates) == 0 {
		return "", 0, fmt.Errorf("%w: no candidates", entity.ErrMalformedResponse)
	}

	var cand replyCandidate
	if err := json.Unmarshal(env.Candidates[0], &cand); err != nil {
		return "", 0, fmt.Errorf("%w: candidate: %w", entity.ErrMalformedResponse, err)
	}
	if len(cand.Content.Parts) == 0 {
		return "", 0, fmt.Errorf("%w: no parts", entity.ErrMalformedResponse)
	}

	var p replyPart
	if err := json.Unmarshal(cand.Content.Parts[0], &p); err != nil {
		return "", 0, fmt.Errorf("%w: part: %w", entity.ErrMalformedResponse, err)
	}
	if p.Text == nil {
		return "", 0, fmt.Errorf("%w: no text part", entity.ErrMalformedResponse)
	}

	return *p.Text, tokenCount(env.UsageMetadata), nil
}

// tokenCount is best effort; an unreadable usage block counts as zero.
func tokenCount(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var u replyUsage
	if err := json.Unmarshal(raw, &u); err != nil {
		return 0
	}
	return u.TotalTokenCount
}

// redactKey strips the request URL from transport errors so the API key
// never reaches the logs.
func redactKey(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return fmt.Errorf("%s gemini endpoint: %w", strings.ToLower(ue.Op), ue.Err)
	}
	return err
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
