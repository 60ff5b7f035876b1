package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/drawforge/pkg/cache"
	"github.com/matzehuels/drawforge/pkg/pipeline"
)

const sampleDescription = `{
	"title": "Deploy",
	"nodes": [
		{"id": "build", "label": "Build"},
		{"id": "test", "label": "Test"},
		{"id": "ship", "label": "Ship", "type": "success"}
	],
	"edges": [
		{"from": "build", "to": "test"},
		{"from": "test", "to": "ship"}
	]
}`

func testHandler(t *testing.T, store cache.Cache) http.Handler {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(store, nil, logger)
	return New(runner, logger).Handler()
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRenderSingleFormat(t *testing.T) {
	h := testHandler(t, nil)
	rec := post(t, h, "/v1/diagrams", sampleDescription)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<mxfile")
	assert.Len(t, rec.Header().Get("X-Diagram-ID"), 16)
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))
}

func TestRenderEnvelope(t *testing.T) {
	h := testHandler(t, nil)
	body := `{"diagram": ` + sampleDescription + `, "formats": ["drawio", "svg"]}`
	rec := post(t, h, "/v1/diagrams", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res renderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Stats.Nodes)
	assert.Equal(t, 2, res.Stats.Edges)
	require.Len(t, res.Artifacts, 2)
	assert.Contains(t, string(res.Artifacts["drawio"]), "<mxfile")
	assert.Contains(t, string(res.Artifacts["svg"]), "<svg")
}

func TestRenderThemeOverride(t *testing.T) {
	h := testHandler(t, nil)
	body := `{"diagram": ` + sampleDescription + `, "theme": "dark"}`
	rec := post(t, h, "/v1/diagrams", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `background="#0F172A"`)
}

func TestRenderErrors(t *testing.T) {
	h := testHandler(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "NotJSON",
			body:       `{nodes`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "SCHEMA_INVALID",
		},
		{
			name:       "UnknownEdgeTarget",
			body:       `{"nodes": [{"id": "a", "label": "A"}], "edges": [{"from": "a", "to": "x"}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "SCHEMA_UNKNOWN_NODE",
		},
		{
			name: "Cycle",
			body: `{"layout": "branching",
				"nodes": [{"id": "a", "label": "A"}, {"id": "b", "label": "B"}],
				"edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "a"}]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "LAYOUT_GRAPH_CYCLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/v1/diagrams", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			var res errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, tt.wantCode, res.Error.Code)
			assert.NotEmpty(t, res.Error.Message)
		})
	}
}

func TestCacheHitHeader(t *testing.T) {
	store, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	h := testHandler(t, store)

	first := post(t, h, "/v1/diagrams", sampleDescription)
	second := post(t, h, "/v1/diagrams", sampleDescription)

	assert.Equal(t, "miss", first.Header().Get("X-Cache"))
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Header().Get("X-Diagram-ID"), second.Header().Get("X-Diagram-ID"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestThemesEndpoint(t *testing.T) {
	h := testHandler(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/themes", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res themesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.Themes, "light")
	assert.Contains(t, res.Themes, "dark")
	assert.Contains(t, res.Layouts, "pipeline")
	assert.Contains(t, res.Types, "decision")
}

func TestHealthz(t *testing.T) {
	h := testHandler(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestRequestIDEcho(t *testing.T) {
	h := testHandler(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
