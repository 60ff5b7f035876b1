// Package theme resolves visual attributes from the palette/dimension
// configuration resource.
//
// The resource is an embedded TOML document mapping (type, variant, theme)
// to style descriptors and node types to dimensions. It is decoded once,
// verified, and passed explicitly to the layout, routing, and serialization
// stages; nothing reads it as ambient global state.
//
// Resolution is strict: a combination with no configured entry is an error,
// never a silent default. A misleading diagram is worse than a rejected one.
package theme

import (
	_ "embed"
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/drawforge/pkg/errors"
	"github.com/matzehuels/drawforge/pkg/spec"
)

//go:embed config.toml
var defaultConfig []byte

// MinLegibleChannel is the dark-theme legibility floor: every resolved fill
// must have at least one color channel at or above this value, so the hue
// stays distinguishable from a near-black canvas.
const MinLegibleChannel = 70

// Page describes the canvas and its horizontal content bounds.
type Page struct {
	Width        int `toml:"width"`
	ContentLeft  int `toml:"content_left"`
	ContentRight int `toml:"content_right"`
}

// ContentWidth returns the usable horizontal span.
func (p Page) ContentWidth() int { return p.ContentRight - p.ContentLeft }

// Spacing holds the global layout constants shared by all engines.
type Spacing struct {
	HGap              int `toml:"h_gap"`               // gap between horizontal siblings
	VGap              int `toml:"v_gap"`               // gap inside vertical pipeline stacks
	MinEdgeGap        int `toml:"min_edge_gap"`        // gap between successive rows/levels
	GroupPadding      int `toml:"group_padding"`       // margin between a group box and its members
	TitleBottomMargin int `toml:"title_bottom_margin"` // space between title area and content
	SwimlaneHeader    int `toml:"swimlane_header"`     // lane label band height
	SwimlanePadding   int `toml:"swimlane_padding"`    // top/bottom padding inside a lane
	DetailExtraHeight int `toml:"detail_extra_height"` // extra height for nodes with detail text
}

// Palette is one theme's worth of style descriptors and colors.
type Palette struct {
	Background string            `toml:"background"`
	DetailText string            `toml:"detail_text"`
	GroupFill  string            `toml:"group_fill"`
	Styles     map[string]string `toml:"styles"`
	EdgeColors map[string]string `toml:"edge_colors"`
}

// Config is the decoded palette/dimension resource. It is read-only after
// Load and safe to share across invocations.
type Config struct {
	Page       Page             `toml:"page"`
	Spacing    Spacing          `toml:"spacing"`
	Dimensions map[string][]int `toml:"dimensions"`
	Themes     map[string]Palette `toml:"themes"`
}

// Load decodes and verifies the embedded configuration resource.
func Load() (*Config, error) {
	return LoadBytes(defaultConfig)
}

// LoadBytes decodes and verifies a configuration from raw TOML.
// Use this to supply a custom palette in place of the embedded one.
func LoadBytes(data []byte) (*Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBadPalette, err, "decode palette configuration")
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Palette returns the style set for a theme.
func (c *Config) Palette(t spec.Theme) (Palette, error) {
	p, ok := c.Themes[string(t)]
	if !ok {
		return Palette{}, errors.New(errors.ErrCodeMissingStyle, "no palette for theme %q", t)
	}
	return p, nil
}

// Dims returns the box dimensions for a node, including the extra height
// added when the node carries detail subtext.
func (c *Config) Dims(n spec.Node) (w, h int, err error) {
	d, ok := c.Dimensions[string(n.Type)]
	if !ok || len(d) != 2 {
		return 0, 0, errors.New(errors.ErrCodeMissingStyle, "no dimensions for node type %q", n.Type)
	}
	w, h = d[0], d[1]
	if n.Detail != "" {
		h += c.Spacing.DetailExtraHeight
	}
	return w, h, nil
}

// styleKey maps a node to its palette lookup key. Process nodes carry a
// variant suffix (primary by default); any other type with an explicit
// variant resolves "<type>_<variant>" and fails if the palette has no such
// entry, rather than dropping the variant.
func styleKey(n spec.Node) string {
	v := n.Variant
	if n.Type == spec.TypeProcess {
		if v == "" {
			v = spec.VariantPrimary
		}
		return fmt.Sprintf("process_%s", v)
	}
	if v != "" {
		return fmt.Sprintf("%s_%s", n.Type, v)
	}
	return string(n.Type)
}

// Style returns the raw style descriptor string for a palette key.
func (c *Config) Style(t spec.Theme, key string) (string, error) {
	p, err := c.Palette(t)
	if err != nil {
		return "", err
	}
	s, ok := p.Styles[key]
	if !ok {
		return "", errors.New(errors.ErrCodeMissingStyle, "no style for key %q in theme %q", key, t)
	}
	return s, nil
}

// ResolveNode maps (type, variant, theme) to an ordered style descriptor.
// Icon nodes resolve the shared icon base and get their path reference
// appended; the label background is corrected later by the edge router once
// container membership is known.
func (c *Config) ResolveNode(n spec.Node, t spec.Theme) (Attrs, error) {
	if n.Type == spec.TypeIcon {
		base, err := c.Style(t, "icon_base")
		if err != nil {
			return nil, err
		}
		return ParseAttrs(base).Set("image", n.Icon), nil
	}

	s, err := c.Style(t, styleKey(n))
	if err != nil {
		return nil, err
	}
	return ParseAttrs(s), nil
}

// ResolveEdge maps (edge style, color, theme) to a connector descriptor.
// A semantic color name must exist in the theme's edge color table; an
// unknown name is an error, not the default stroke.
func (c *Config) ResolveEdge(e spec.Edge, t spec.Theme) (Attrs, error) {
	s, err := c.Style(t, fmt.Sprintf("edge_%s", e.Style))
	if err != nil {
		return nil, err
	}
	attrs := ParseAttrs(s)

	if e.Color != "" {
		p, err := c.Palette(t)
		if err != nil {
			return nil, err
		}
		hex, ok := p.EdgeColors[e.Color]
		if !ok {
			return nil, errors.New(errors.ErrCodeMissingStyle, "no edge color %q in theme %q", e.Color, t)
		}
		attrs = attrs.Set("strokeColor", hex)
	}
	return attrs, nil
}

// requiredStyleKeys are the palette entries every theme must define.
var requiredStyleKeys = []string{
	"title", "subtitle",
	"start", "end", "decision", "note", "success", "dark_panel",
	"cylinder", "cloud", "actor", "icon_base",
	"process_primary", "process_secondary", "process_accent",
	"process_warning", "process_danger", "process_neutral",
	"group", "swimlane",
	"edge_solid", "edge_curved", "edge_dashed", "edge_dotted", "edge_bidirectional",
}

// requiredEdgeColors are the semantic edge color names every theme must map.
var requiredEdgeColors = []string{"green", "orange", "blue", "red", "purple", "grey"}

// requiredDimensions are the node types that must have a [width, height] entry.
var requiredDimensions = []string{
	"start", "end", "process", "decision", "note", "success",
	"dark_panel", "cylinder", "cloud", "actor", "icon",
}

// Verify checks the configuration for completeness and for the dark-theme
// legibility invariant. Violations are configuration defects; they are
// reported, never corrected.
func (c *Config) Verify() error {
	for _, t := range []string{"light", "dark"} {
		p, ok := c.Themes[t]
		if !ok {
			return errors.New(errors.ErrCodeBadPalette, "palette is missing theme %q", t)
		}
		for _, key := range requiredStyleKeys {
			if _, ok := p.Styles[key]; !ok {
				return errors.New(errors.ErrCodeBadPalette, "theme %q is missing style %q", t, key)
			}
		}
		for _, name := range requiredEdgeColors {
			if _, ok := p.EdgeColors[name]; !ok {
				return errors.New(errors.ErrCodeBadPalette, "theme %q is missing edge color %q", t, name)
			}
		}
	}

	for _, t := range requiredDimensions {
		d, ok := c.Dimensions[t]
		if !ok || len(d) != 2 || d[0] <= 0 || d[1] <= 0 {
			return errors.New(errors.ErrCodeBadPalette, "invalid dimensions for node type %q", t)
		}
	}

	// Dark fills must stay distinguishable from the near-black canvas.
	dark := c.Themes["dark"]
	for key, style := range dark.Styles {
		fill, ok := ParseAttrs(style).Get("fillColor")
		if !ok {
			continue
		}
		if !Legible(fill) {
			return errors.New(errors.ErrCodeBadPalette,
				"dark style %q fill %s has no channel >= %d", key, fill, MinLegibleChannel)
		}
	}
	if !Legible(dark.GroupFill) {
		return errors.New(errors.ErrCodeBadPalette,
			"dark group fill %s has no channel >= %d", dark.GroupFill, MinLegibleChannel)
	}
	return nil
}

// Legible reports whether a #RRGGBB color has at least one channel at or
// above MinLegibleChannel. Non-hex values (e.g. "none") pass; there is no
// fill to wash out.
func Legible(hex string) bool {
	if len(hex) != 7 || hex[0] != '#' {
		return true
	}
	for i := 1; i < 7; i += 2 {
		ch, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return true
		}
		if ch >= MinLegibleChannel {
			return true
		}
	}
	return false
}
