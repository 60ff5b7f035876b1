package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawforge/pkg/pipeline"
)

// previewCommand creates the preview command for quick Graphviz renders.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		themeName  string
		layoutName string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "preview [description.json]",
		Short: "Render a quick SVG or PNG preview of a description",
		Long: `Render a quick SVG or PNG preview of a diagram description.

Previews use Graphviz placement rather than the draw.io layout, so they
approximate the structure, not the final geometry. Use them in the edit
loop where opening an editor is too slow. PNG output requires librsvg
(rsvg-convert).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr, pipeline.FormatSVG)
			for _, f := range formats {
				if f == pipeline.FormatDrawio {
					return fmt.Errorf("format drawio is not a preview; use 'drawforge generate'")
				}
			}
			opts := pipeline.Options{
				Theme:   themeName,
				Layout:  layoutName,
				Formats: formats,
				Refresh: refresh,
			}
			return c.runGenerate(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "preview format(s): svg (default), png (comma-separated)")
	cmd.Flags().StringVar(&themeName, "theme", "", "override the description's theme")
	cmd.Flags().StringVar(&layoutName, "layout", "", "override the description's layout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when a cached preview exists")

	return cmd
}
