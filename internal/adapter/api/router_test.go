package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"travelbuddy-relay/internal/adapter/client"
	"travelbuddy-relay/internal/domain/entity"
	"travelbuddy-relay/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testModels = entity.ModelSet{Fast: "gemini-1.5-flash", Advanced: "gemini-1.5-pro"}

// providerStub answers every generateContent call with reply and records
// the model path and prompt it saw.
type providerStub struct {
	srv    *httptest.Server
	path   string
	prompt string
}

func newProviderStub(t *testing.T, status int, reply string) *providerStub {
	t.Helper()
	stub := &providerStub{}
	stub.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.path = r.URL.Path
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
			stub.prompt = body.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(stub.srv.Close)
	return stub
}

func newTestApp(t *testing.T, baseURL string) *fiber.App {
	t.Helper()
	log := zaptest.NewLogger(t)
	provider := client.NewGeminiClient("test-key", baseURL, time.Second, log)
	planner := usecase.NewPlanner(provider, nil, testModels, log)
	return NewApp(RouterConfig{Version: "1.2.3", Env: "test"}, NewGenerateHandler(planner, log))
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decodeEnvelope(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHome(t *testing.T) {
	// Unroutable provider: / must not depend on it.
	app := newTestApp(t, "http://127.0.0.1:1")

	status, body := doRequest(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, HomeMessage, string(body))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	status, body := doRequest(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, status)
	got := decodeEnvelope(t, body)
	assert.Equal(t, "healthy", got["status"])
	assert.Equal(t, "1.2.3", got["version"])
	assert.Equal(t, "test", got["env"])
}

func TestGenerate_ChatScenario(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Try Old Hubli market."}]}}]}`)
	app := newTestApp(t, stub.srv.URL)

	status, body := doRequest(t, app, http.MethodPost, "/api/generate", `{"chat": "Where should I eat?"}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success": true, "result": "Try Old Hubli market."}`, string(body))
	assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", stub.path)
	assert.Equal(t, "You are TravelBuddy Hubli AI. User: Where should I eat?", stub.prompt)
}

func TestGenerate_DaysWithProviderError(t *testing.T) {
	stub := newProviderStub(t, http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	app := newTestApp(t, stub.srv.URL)

	status, body := doRequest(t, app, http.MethodPost, "/api/generate", `{"days": 3}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success": true, "result": "AI Error. Check API response."}`, string(body))
	assert.Equal(t, "/v1beta/models/gemini-1.5-pro:generateContent", stub.path)
	assert.Equal(t, "Create a detailed 3-day Hubli travel plan.", stub.prompt)
}

func TestGenerate_EnvelopeAlwaysSuccessfulForAnyReply(t *testing.T) {
	replies := []string{
		`{}`,
		`not json at all`,
		`{"candidates":[{"content":{}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":42}]}}]}`,
		`[]`,
	}
	for _, reply := range replies {
		t.Run(reply, func(t *testing.T) {
			stub := newProviderStub(t, http.StatusOK, reply)
			app := newTestApp(t, stub.srv.URL)

			status, body := doRequest(t, app, http.MethodPost, "/api/generate", `{"chat": "hello"}`)
			require.Equal(t, http.StatusOK, status)
			got := decodeEnvelope(t, body)
			assert.Equal(t, true, got["success"])
			assert.Equal(t, entity.FallbackResult, got["result"])
		})
	}
}

func TestGenerate_EmptyBodyUsesDayTemplate(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"plan"}]}}]}`)
	app := newTestApp(t, stub.srv.URL)

	status, body := doRequest(t, app, http.MethodPost, "/api/generate", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success": true, "result": "plan"}`, string(body))
	assert.Equal(t, "Create a detailed None-day Hubli travel plan.", stub.prompt)
}

func TestGenerate_NullBodyUsesDayTemplate(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"plan"}]}}]}`)
	app := newTestApp(t, stub.srv.URL)

	status, body := doRequest(t, app, http.MethodPost, "/api/generate", "null")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success": true, "result": "plan"}`, string(body))
	assert.Equal(t, "Create a detailed None-day Hubli travel plan.", stub.prompt)
}

func TestGenerate_InvalidBody(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{}`)
	app := newTestApp(t, stub.srv.URL)

	status, body := doRequest(t, app, http.MethodPost, "/api/generate", `{"chat": `)
	require.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"success": false, "error": "invalid request body"}`, string(body))
	assert.Empty(t, stub.path, "provider must not be called")
}

func TestGenerate_ProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()
	app := newTestApp(t, addr)

	status, body := doRequest(t, app, http.MethodPost, "/api/generate", `{"days": "2"}`)
	require.Equal(t, http.StatusBadGateway, status)
	assert.JSONEq(t, `{"success": false, "error": "AI provider unreachable"}`, string(body))
}

func TestGenerate_SetsRequestID(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	app := newTestApp(t, stub.srv.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"chat":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestMetricsEndpoint(t *testing.T) {
	stub := newProviderStub(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	app := newTestApp(t, stub.srv.URL)

	status, _ := doRequest(t, app, http.MethodPost, "/api/generate", `{"chat":"hi"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "relay_generate_requests_total")
}
