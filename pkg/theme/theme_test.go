package theme

import (
	"strings"
	"testing"

	"github.com/matzehuels/drawforge/pkg/errors"
	"github.com/matzehuels/drawforge/pkg/spec"
)

func mustLoad(t *testing.T) *Config {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoadEmbedded(t *testing.T) {
	c := mustLoad(t)
	if c.Page.ContentWidth() != 1120 {
		t.Errorf("content width = %d, want 1120", c.Page.ContentWidth())
	}
	if _, err := c.Palette(spec.ThemeDark); err != nil {
		t.Errorf("dark palette: %v", err)
	}
}

func TestDims(t *testing.T) {
	c := mustLoad(t)

	w, h, err := c.Dims(spec.Node{ID: "p", Type: spec.TypeProcess})
	if err != nil {
		t.Fatalf("Dims: %v", err)
	}
	if w != 260 || h != 56 {
		t.Errorf("process dims = %dx%d, want 260x56", w, h)
	}

	_, hd, err := c.Dims(spec.Node{ID: "p", Type: spec.TypeProcess, Detail: "sub"})
	if err != nil {
		t.Fatalf("Dims with detail: %v", err)
	}
	if hd != h+c.Spacing.DetailExtraHeight {
		t.Errorf("detail height = %d, want %d", hd, h+c.Spacing.DetailExtraHeight)
	}
}

func TestResolveNode(t *testing.T) {
	c := mustLoad(t)

	tests := []struct {
		name    string
		node    spec.Node
		theme   spec.Theme
		wantKey string // attribute that must be present
		wantVal string
	}{
		{
			name:    "ProcessDefaultsToPrimary",
			node:    spec.Node{ID: "p", Type: spec.TypeProcess},
			theme:   spec.ThemeLight,
			wantKey: "fillColor",
			wantVal: "#DBEAFE",
		},
		{
			name:    "ProcessDangerVariant",
			node:    spec.Node{ID: "p", Type: spec.TypeProcess, Variant: spec.VariantDanger},
			theme:   spec.ThemeLight,
			wantKey: "strokeColor",
			wantVal: "#DC2626",
		},
		{
			name:    "DecisionDark",
			node:    spec.Node{ID: "d", Type: spec.TypeDecision},
			theme:   spec.ThemeDark,
			wantKey: "fillColor",
			wantVal: "#78350F",
		},
		{
			name:    "IconGetsImage",
			node:    spec.Node{ID: "i", Type: spec.TypeIcon, Icon: "img/aws/lambda.svg"},
			theme:   spec.ThemeLight,
			wantKey: "image",
			wantVal: "img/aws/lambda.svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs, err := c.ResolveNode(tt.node, tt.theme)
			if err != nil {
				t.Fatalf("ResolveNode: %v", err)
			}
			got, ok := attrs.Get(tt.wantKey)
			if !ok || got != tt.wantVal {
				t.Errorf("%s = %q (present=%v), want %q", tt.wantKey, got, ok, tt.wantVal)
			}
		})
	}
}

func TestResolveNodeMissingCombination(t *testing.T) {
	c := mustLoad(t)

	// No decision_danger entry exists; the variant must not be dropped.
	_, err := c.ResolveNode(spec.Node{ID: "d", Type: spec.TypeDecision, Variant: spec.VariantDanger}, spec.ThemeLight)
	if errors.GetCode(err) != errors.ErrCodeMissingStyle {
		t.Fatalf("code = %q, want %q (err: %v)", errors.GetCode(err), errors.ErrCodeMissingStyle, err)
	}
}

func TestResolveEdge(t *testing.T) {
	c := mustLoad(t)

	attrs, err := c.ResolveEdge(spec.Edge{From: "a", To: "b", Style: spec.EdgeSolid}, spec.ThemeLight)
	if err != nil {
		t.Fatalf("ResolveEdge: %v", err)
	}
	if got, _ := attrs.Get("strokeColor"); got != "#64748B" {
		t.Errorf("default stroke = %q, want #64748B", got)
	}

	attrs, err = c.ResolveEdge(spec.Edge{From: "a", To: "b", Style: spec.EdgeDashed, Color: "red"}, spec.ThemeLight)
	if err != nil {
		t.Fatalf("ResolveEdge with color: %v", err)
	}
	if got, _ := attrs.Get("strokeColor"); got != "#DC2626" {
		t.Errorf("red stroke = %q, want #DC2626", got)
	}
	if _, ok := attrs.Get("dashed"); !ok {
		t.Error("dashed attribute lost by color override")
	}

	_, err = c.ResolveEdge(spec.Edge{From: "a", To: "b", Style: spec.EdgeSolid, Color: "magenta"}, spec.ThemeLight)
	if errors.GetCode(err) != errors.ErrCodeMissingStyle {
		t.Errorf("unknown color code = %q, want %q", errors.GetCode(err), errors.ErrCodeMissingStyle)
	}
}

// Every fill in the dark theme must keep at least one channel above the
// legibility floor. This holds for the whole palette, not just the keys a
// particular diagram happens to use.
func TestDarkFillsLegible(t *testing.T) {
	c := mustLoad(t)
	dark, err := c.Palette(spec.ThemeDark)
	if err != nil {
		t.Fatalf("dark palette: %v", err)
	}

	for key, style := range dark.Styles {
		fill, ok := ParseAttrs(style).Get("fillColor")
		if !ok {
			continue
		}
		if !Legible(fill) {
			t.Errorf("dark style %q fill %s below legibility floor", key, fill)
		}
	}
	if !Legible(dark.GroupFill) {
		t.Errorf("dark group fill %s below legibility floor", dark.GroupFill)
	}
}

func TestVerifyRejectsIllegibleFill(t *testing.T) {
	c := mustLoad(t)
	dark := c.Themes["dark"]
	styles := make(map[string]string, len(dark.Styles))
	for k, v := range dark.Styles {
		styles[k] = v
	}
	styles["process_primary"] = "rounded=1;fillColor=#101820;strokeColor=#60A5FA;"
	c.Themes["dark"] = Palette{
		Background: dark.Background,
		DetailText: dark.DetailText,
		GroupFill:  dark.GroupFill,
		Styles:     styles,
		EdgeColors: dark.EdgeColors,
	}

	err := c.Verify()
	if errors.GetCode(err) != errors.ErrCodeBadPalette {
		t.Fatalf("code = %q, want %q (err: %v)", errors.GetCode(err), errors.ErrCodeBadPalette, err)
	}
	if !strings.Contains(err.Error(), "process_primary") {
		t.Errorf("error %q does not name the offending style", err)
	}
}

func TestLoadBytesIncomplete(t *testing.T) {
	_, err := LoadBytes([]byte("[page]\nwidth = 100\n"))
	if errors.GetCode(err) != errors.ErrCodeBadPalette {
		t.Fatalf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeBadPalette)
	}
}

func TestLegible(t *testing.T) {
	tests := []struct {
		hex  string
		want bool
	}{
		{"#334155", true},  // 0x55 = 85
		{"#1E293B", false}, // max channel 0x3B = 59
		{"#000000", false},
		{"#460000", true}, // 0x46 = 70, exactly at the floor
		{"none", true},
		{"", true},
	}
	for _, tt := range tests {
		if got := Legible(tt.hex); got != tt.want {
			t.Errorf("Legible(%q) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestAttrsRoundTrip(t *testing.T) {
	const style = "rhombus;fillColor=#FEF3C7;strokeColor=#D97706;html=1;"
	attrs := ParseAttrs(style)

	if got := attrs.String(); got != style {
		t.Errorf("round trip = %q, want %q", got, style)
	}

	attrs = attrs.Set("fillColor", "#FFFFFF")
	if got := attrs.String(); got != "rhombus;fillColor=#FFFFFF;strokeColor=#D97706;html=1;" {
		t.Errorf("after Set = %q", got)
	}

	attrs = attrs.Remove("strokeColor")
	if _, ok := attrs.Get("strokeColor"); ok {
		t.Error("strokeColor survived Remove")
	}
}
