package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/matzehuels/drawforge/pkg/errors"
	"github.com/matzehuels/drawforge/pkg/pipeline"
	"github.com/matzehuels/drawforge/pkg/spec"
	"github.com/matzehuels/drawforge/pkg/theme"
)

// maxBodyBytes caps request bodies; descriptions are small JSON documents.
const maxBodyBytes = 1 << 20

// renderRequest is the envelope form of a render request. Posting a bare
// description (no "diagram" key) is also accepted.
type renderRequest struct {
	Diagram json.RawMessage `json:"diagram"`
	Theme   string          `json:"theme,omitempty"`
	Layout  string          `json:"layout,omitempty"`
	Formats []string        `json:"formats,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

// renderResponse is the JSON envelope returned for multi-format requests.
// Artifact bytes are base64-encoded by encoding/json.
type renderResponse struct {
	ID        string            `json:"id"`
	Warnings  []string          `json:"warnings,omitempty"`
	Stats     renderStats       `json:"stats"`
	Cached    bool              `json:"cached"`
	Artifacts map[string][]byte `json:"artifacts"`
}

type renderStats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// contentTypes maps formats to their raw response content type.
var contentTypes = map[string]string{
	pipeline.FormatDrawio: "application/xml",
	pipeline.FormatSVG:    "image/svg+xml",
	pipeline.FormatPNG:    "image/png",
}

func (s *Server) handleDiagrams(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidField, err, "read request body"))
		return
	}

	req := decodeRequest(body)
	if q := r.URL.Query().Get("format"); q != "" {
		req.Formats = strings.Split(q, ",")
	}
	if len(req.Formats) == 0 {
		req.Formats = []string{pipeline.FormatDrawio}
	}

	opts := pipeline.Options{
		Input:   req.Diagram,
		Theme:   req.Theme,
		Layout:  req.Layout,
		Formats: req.Formats,
		Refresh: req.Refresh,
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Diagram-ID", res.InputHash)
	w.Header().Set("X-Cache", cacheStatus(res))

	if len(opts.Formats) == 1 {
		format := opts.Formats[0]
		w.Header().Set("Content-Type", contentTypes[format])
		w.WriteHeader(http.StatusOK)
		w.Write(res.Artifacts[format])
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{
		ID:       res.InputHash,
		Warnings: res.Warnings,
		Stats: renderStats{
			Nodes: res.Stats.NodeCount,
			Edges: res.Stats.EdgeCount,
		},
		Cached:    res.CacheInfo.DocumentHit,
		Artifacts: res.Artifacts,
	})
}

// decodeRequest accepts either the envelope form or a bare description.
func decodeRequest(body []byte) renderRequest {
	var req renderRequest
	if err := json.Unmarshal(body, &req); err == nil && req.Diagram != nil {
		return req
	}
	return renderRequest{Diagram: body}
}

func cacheStatus(res *pipeline.Result) string {
	if res.CacheInfo.DocumentHit {
		return "hit"
	}
	return "miss"
}

// themesResponse lists what the engine accepts.
type themesResponse struct {
	Themes  []string `json:"themes"`
	Layouts []string `json:"layouts"`
	Types   []string `json:"types"`
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	cfg, err := theme.Load()
	if err != nil {
		writeError(w, r, err)
		return
	}

	names := make([]string, 0, len(cfg.Themes))
	for name := range cfg.Themes {
		names = append(names, name)
	}
	sort.Strings(names)

	writeJSON(w, http.StatusOK, themesResponse{
		Themes: names,
		Layouts: []string{
			string(spec.LayoutLinear), string(spec.LayoutHorizontal),
			string(spec.LayoutBranching), string(spec.LayoutHierarchical),
			string(spec.LayoutGrid), string(spec.LayoutSwimlane),
			string(spec.LayoutRows), string(spec.LayoutFlow),
			string(spec.LayoutPipeline),
		},
		Types: []string{
			string(spec.TypeStart), string(spec.TypeEnd), string(spec.TypeProcess),
			string(spec.TypeDecision), string(spec.TypeNote), string(spec.TypeSuccess),
			string(spec.TypeDarkPanel), string(spec.TypeCylinder), string(spec.TypeCloud),
			string(spec.TypeActor), string(spec.TypeIcon),
		},
	})
}

// errorResponse is the JSON error body.
type errorResponse struct {
	ID    string      `json:"id,omitempty"`
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, httpStatus(err), errorResponse{
		ID: reqID(r.Context()),
		Error: errorDetail{
			Code:    string(errors.GetCode(err)),
			Message: errors.UserMessage(err),
		},
	})
}

// httpStatus maps pipeline error codes onto HTTP status codes. Schema
// problems are the client's fault; layout and style failures mean the input
// was well-formed but unprocessable.
func httpStatus(err error) int {
	if errors.IsSchema(err) {
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeGraphCycle, errors.ErrCodeMissingStyle:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
