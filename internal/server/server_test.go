package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erin/vibecheck/internal/credentials"
	"github.com/erin/vibecheck/internal/llm"
	"github.com/erin/vibecheck/internal/wizard"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

const testSlateJSON = `[
	{"name": "Dana Reyes", "role": "Skeptical Customer", "description": "Burned before.", "pain_points": ["hidden fees"]},
	{"name": "Sam Okafor", "role": "New Visitor", "description": "First contact.", "pain_points": ["jargon"]}
]`

const testInterviewJSON = `{"persona_name": "x", "strengths": ["clear"], "confusion_points": [], "suggestions": ["tighten"]}`

const testReportJSON = `{
	"overall_score": 8,
	"tone_analysis": {"defensiveness": 10, "corporatespeak": 20, "empathy": 70, "clarity": 80},
	"executive_summary": "Reads well."
}`

// happyClient answers every call with a canned payload for its tier.
func happyClient() *MockLLMClient {
	return &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			switch {
			case tier == llm.TierAdvanced:
				return testReportJSON, nil
			case strings.Contains(prompt, "Dana Reyes") || strings.Contains(prompt, "Sam Okafor"):
				return testInterviewJSON, nil
			default:
				return testSlateJSON, nil
			}
		},
	}
}

func newTestServer(t *testing.T, mock *MockLLMClient) (*Server, *credentials.Store) {
	t.Helper()

	store, err := credentials.Open(filepath.Join(t.TempDir(), "vibecheck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	factory := func(_ context.Context, _ string) (llm.Client, error) {
		return mock, nil
	}
	controller := wizard.NewController(store, factory)

	return New(Config{Port: 0}, controller, store), store
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) wizard.Session {
	t.Helper()
	var snap wizard.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, happyClient())
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestCredentialEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, happyClient())
	h := srv.Handler()

	// Nothing stored yet
	rec := doJSON(t, h, http.MethodGet, "/credential", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"present": false}`, rec.Body.String())

	// Whitespace-only keys are rejected
	rec = doJSON(t, h, http.MethodPut, "/credential", `{"api_key": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/credential", `{"api_key": "  test-key  "}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/credential", "")
	assert.JSONEq(t, `{"present": true}`, rec.Body.String())
}

func TestCredentialNeverEchoed(t *testing.T) {
	srv, _ := newTestServer(t, happyClient())
	h := srv.Handler()

	doJSON(t, h, http.MethodPut, "/credential", `{"api_key": "super-secret-key"}`)

	for _, path := range []string{"/credential", "/session"} {
		rec := doJSON(t, h, http.MethodGet, path, "")
		assert.NotContains(t, rec.Body.String(), "super-secret-key", path)
	}
}

func TestHandleSetContent(t *testing.T) {
	srv, _ := newTestServer(t, happyClient())
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPut, "/content", `{"content": "New pricing page.", "source": "file"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := sessionFrom(t, rec)
	assert.Equal(t, "New pricing page.", snap.Content)
	assert.Equal(t, "file", string(snap.ContentSource))

	// Empty content fails validation
	rec = doJSON(t, h, http.MethodPut, "/content", `{"content": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown source fails validation
	rec = doJSON(t, h, http.MethodPut, "/content", `{"content": "x", "source": "telegraph"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSetMode(t *testing.T) {
	srv, _ := newTestServer(t, happyClient())
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPut, "/mode", `{"mode": "crisis"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "crisis", string(sessionFrom(t, rec).ContentMode))

	rec = doJSON(t, h, http.MethodPut, "/mode", `{"mode": "panic"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAdvanceAndReset(t *testing.T) {
	srv, _ := newTestServer(t, happyClient())
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/step", `{"step": "content-input"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wizard.StepContentInput, sessionFrom(t, rec).CurrentStep)

	rec = doJSON(t, h, http.MethodPost, "/step", `{"step": "teleport"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wizard.StepContentInput, sessionFrom(t, rec).CurrentStep)
}

func TestHandleGeneratePersonas(t *testing.T) {
	srv, _ := newTestServer(t, happyClient())
	h := srv.Handler()

	// Guard: content missing
	rec := doJSON(t, h, http.MethodPost, "/personas/generate", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "content")

	doJSON(t, h, http.MethodPut, "/credential", `{"api_key": "test-key"}`)
	doJSON(t, h, http.MethodPut, "/content", `{"content": "Launch note."}`)

	rec = doJSON(t, h, http.MethodPost, "/personas/generate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, sessionFrom(t, rec).GeneratedPersonas, 2)
}

func TestHandleGeneratePersonas_UpstreamFailure(t *testing.T) {
	mock := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	srv, _ := newTestServer(t, mock)
	h := srv.Handler()

	doJSON(t, h, http.MethodPut, "/credential", `{"api_key": "test-key"}`)
	doJSON(t, h, http.MethodPut, "/content", `{"content": "Launch note."}`)

	rec := doJSON(t, h, http.MethodPost, "/personas/generate", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleTogglePersona(t *testing.T) {
	srv, _ := newTestServer(t, happyClient())
	h := srv.Handler()

	doJSON(t, h, http.MethodPut, "/credential", `{"api_key": "test-key"}`)
	doJSON(t, h, http.MethodPut, "/content", `{"content": "Launch note."}`)
	rec := doJSON(t, h, http.MethodPost, "/personas/generate", "")
	personas := sessionFrom(t, rec).GeneratedPersonas
	require.NotEmpty(t, personas)

	rec = doJSON(t, h, http.MethodPost, "/personas/"+personas[0].ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap := sessionFrom(t, rec)
	require.Len(t, snap.SelectedPersonas, 1)
	assert.Equal(t, personas[0].ID, snap.SelectedPersonas[0].ID)

	rec = doJSON(t, h, http.MethodPost, "/personas/no-such-id/toggle", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeStream_EndToEnd(t *testing.T) {
	srv, _ := newTestServer(t, happyClient())
	h := srv.Handler()

	doJSON(t, h, http.MethodPut, "/credential", `{"api_key": "test-key"}`)
	doJSON(t, h, http.MethodPut, "/content", `{"content": "Launch note."}`)
	rec := doJSON(t, h, http.MethodPost, "/personas/generate", "")
	for _, p := range sessionFrom(t, rec).GeneratedPersonas {
		doJSON(t, h, http.MethodPost, "/personas/"+p.ID+"/toggle", "")
	}

	rec = doJSON(t, h, http.MethodPost, "/analyze/stream", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: progress")
	assert.Contains(t, body, "event: interview")
	assert.Contains(t, body, "event: complete")
	assert.NotContains(t, body, "event: error")

	// The run landed on the report step with results in the session
	rec = doJSON(t, h, http.MethodGet, "/session", "")
	snap := sessionFrom(t, rec)
	assert.Equal(t, wizard.StepReport, snap.CurrentStep)
	assert.Len(t, snap.InterviewResults, 2)
	require.NotNil(t, snap.FinalReport)
	assert.InDelta(t, 8.0, snap.FinalReport.OverallScore, 0.001)
}

func TestHandleAnalyzeStream_GuardFailure(t *testing.T) {
	srv, _ := newTestServer(t, happyClient())
	h := srv.Handler()

	// Nothing selected: the stream opens and reports a single error event
	rec := doJSON(t, h, http.MethodPost, "/analyze/stream", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: error")
}
