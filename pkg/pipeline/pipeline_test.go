package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/drawforge/pkg/cache"
	"github.com/matzehuels/drawforge/pkg/errors"
)

const sampleInput = `{
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

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return NewRunner(c, nil, nil)
}

func TestExecuteProducesDocument(t *testing.T) {
	r := fileRunner(t)
	res, err := r.Execute(context.Background(), Options{Input: []byte(sampleInput)})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	doc, ok := res.Artifacts[FormatDrawio]
	if !ok || len(doc) == 0 {
		t.Fatal("no drawio artifact produced")
	}
	if !strings.Contains(string(doc), "<mxfile") {
		t.Error("artifact is not a draw.io document")
	}
	if res.Stats.NodeCount != 3 || res.Stats.EdgeCount != 2 {
		t.Errorf("stats = %d nodes / %d edges, want 3/2", res.Stats.NodeCount, res.Stats.EdgeCount)
	}
	if res.InputHash == "" {
		t.Error("input hash not set")
	}
	if res.CacheInfo.DocumentHit {
		t.Error("first run reported a cache hit")
	}
}

func TestExecuteCachesDocument(t *testing.T) {
	r := fileRunner(t)
	ctx := context.Background()
	opts := Options{Input: []byte(sampleInput)}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := r.Execute(ctx, Options{Input: []byte(sampleInput)})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}

	if !second.CacheInfo.DocumentHit {
		t.Error("second run missed the cache")
	}
	if !bytes.Equal(first.Artifacts[FormatDrawio], second.Artifacts[FormatDrawio]) {
		t.Error("cached document differs from rendered document")
	}

	refreshed, err := r.Execute(ctx, Options{Input: []byte(sampleInput), Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if refreshed.CacheInfo.DocumentHit {
		t.Error("refresh run should bypass the cache")
	}
	if !bytes.Equal(first.Artifacts[FormatDrawio], refreshed.Artifacts[FormatDrawio]) {
		t.Error("re-rendered document not byte-identical")
	}
}

func TestExecuteOverrides(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Input: []byte(sampleInput),
		Theme: "dark",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(string(res.Artifacts[FormatDrawio]), `background="#0F172A"`) {
		t.Error("dark theme override not applied")
	}

	_, err = r.Execute(context.Background(), Options{
		Input:  []byte(sampleInput),
		Layout: "spiral",
	})
	if errors.GetCode(err) != errors.ErrCodeInvalidLayout {
		t.Errorf("invalid override code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidLayout)
	}
}

func TestExecuteRejectsInvalidInput(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{
			name:  "UnknownEdgeTarget",
			input: `{"nodes": [{"id": "a", "label": "A"}], "edges": [{"from": "a", "to": "Y"}]}`,
			code:  errors.ErrCodeUnknownNode,
		},
		{
			name:  "NotJSON",
			input: `{nodes`,
			code:  errors.ErrCodeSchema,
		},
		{
			name: "Cycle",
			input: `{"layout": "branching",
				"nodes": [{"id": "a", "label": "A"}, {"id": "b", "label": "B"}],
				"edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "a"}]}`,
			code: errors.ErrCodeGraphCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Execute(context.Background(), Options{Input: []byte(tt.input)})
			if err == nil {
				t.Fatal("Execute succeeded, want error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
			if res != nil {
				t.Error("failed run returned partial result")
			}
		})
	}
}

func TestOptionsValidation(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err == nil {
		t.Error("empty input accepted")
	}

	o = Options{Input: []byte(`{}`), Formats: []string{"gif"}}
	if err := o.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown format accepted")
	}

	o = Options{Input: []byte(`{}`)}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatDrawio {
		t.Errorf("default formats = %v, want [drawio]", o.Formats)
	}
	if o.Logger == nil {
		t.Error("logger default not applied")
	}
}

func TestLintWarningsSurface(t *testing.T) {
	input := `{
		"nodes": [{"id": "a", "label": "A"}],
		"groups": [{"id": "g", "label": "G", "members": ["a"]}]
	}`
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Input: []byte(input)})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], `"g"`) {
		t.Errorf("warnings = %v, want singleton group note", res.Warnings)
	}
}
