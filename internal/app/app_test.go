package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/config"
	"github.com/kailas-cloud/placebook/internal/domain/place"
	openaiTag "github.com/kailas-cloud/placebook/internal/transport/openai"
	healthuc "github.com/kailas-cloud/placebook/internal/usecase/health"
	"github.com/kailas-cloud/placebook/internal/usecase/tagging"
)

func memoryConfig(t *testing.T, extra string) config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("database:\n  driver: memory\n" + extra))
	require.NoError(t, err)
	return cfg
}

func newMemoryApp(t *testing.T, extra string) *App {
	t.Helper()
	a, err := New(context.Background(), memoryConfig(t, extra), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func serve(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNew_MemoryBackendServesResources(t *testing.T) {
	a := newMemoryApp(t, "")
	require.NoError(t, a.EnsureIndexes(context.Background()))
	h := a.Handler()

	rr := serve(h, http.MethodPost, "/api/places", place.Input{Name: "Harbor Cafe", Tags: []string{"Coffee"}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var created place.View
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"coffee"}, created.Tags)

	rr = serve(h, http.MethodGet, "/api/places/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	for _, path := range []string{
		"/api/blogs", "/api/user-ratings", "/api/testimonials", "/api/users",
		"/api/chat-history", "/api/favorites", "/api/collections",
		"/api/prompt-history", "/api/about", "/api/privacy",
	} {
		rr := serve(h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, "[]", rr.Body.String(), path)
	}
}

func TestNew_SearchDisabledWithoutProviderKey(t *testing.T) {
	a := newMemoryApp(t, "")
	assert.Nil(t, a.Search)

	rr := serve(a.Handler(), http.MethodPost, "/api/search", map[string]string{"query": "coffee"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNew_HealthReportsDatabaseOnly(t *testing.T) {
	a := newMemoryApp(t, "")

	report := a.Health.Check(context.Background())
	assert.Equal(t, healthuc.Healthy, report.Status)
	assert.Equal(t, map[string]healthuc.CheckResult{healthuc.ComponentDatabase: healthuc.CheckOK}, report.Checks)
}

func TestNew_SearchEnabledWithProviderKey(t *testing.T) {
	a := newMemoryApp(t, "ai:\n  api_key: sk-test\n  base_url: http://127.0.0.1:1/v1\n")
	assert.NotNil(t, a.Search)
	assert.NotNil(t, a.Usage)
}

func TestNew_UsageReport(t *testing.T) {
	tests := []struct {
		name       string
		extra      string
		wantStatus int
		wantLimit  float64
	}{
		{name: "search disabled", extra: "", wantStatus: http.StatusNotFound},
		{
			name:       "unlimited budget",
			extra:      "ai:\n  api_key: sk-test\n",
			wantStatus: http.StatusOK,
		},
		{
			name:       "daily cap",
			extra:      "ai:\n  api_key: sk-test\n  budget:\n    daily_token_limit: 500\n",
			wantStatus: http.StatusOK,
			wantLimit:  500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newMemoryApp(t, tt.extra)
			h := a.Handler()

			rr := serve(h, http.MethodPost, "/api/prompt-history", map[string]any{"prompt": "quiet ramen"})
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			rr = serve(h, http.MethodGet, "/usage?period=day", nil)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var report map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
			assert.Equal(t, "day", report["period"])
			assert.Equal(t, float64(1), report["prompts"])
			assert.Equal(t, float64(0), report["tokensUsed"])
			budget := report["budget"].(map[string]any)
			assert.Equal(t, tt.wantLimit, budget["tokensLimit"])
		})
	}
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	cfg := memoryConfig(t, "")
	cfg.Database.Driver = "cassandra"

	_, err := OpenBackend(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestBuildTagger(t *testing.T) {
	t.Run("disabled without key", func(t *testing.T) {
		assert.Nil(t, BuildTagger(context.Background(), memoryConfig(t, ""), nil, zap.NewNop()))
	})

	t.Run("instrumented provider without cache store", func(t *testing.T) {
		cfg := memoryConfig(t, "ai:\n  api_key: sk-test\ntag_cache:\n  enabled: true\n")
		chain := BuildTagger(context.Background(), cfg, nil, zap.NewNop())
		require.NotNil(t, chain)
		assert.IsType(t, &tagging.InstrumentedTagger{}, chain.Generator)
		assert.IsType(t, &openaiTag.Tagger{}, chain.Provider)
		require.NotNil(t, chain.Budget, "tokens are counted even without caps")
		assert.Nil(t, chain.Counters)
	})
}
