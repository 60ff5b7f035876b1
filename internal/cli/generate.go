package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawforge/pkg/pipeline"
)

// generateCommand creates the generate command, the primary entry point.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		themeName  string
		layoutName string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "generate [description.json]",
		Short: "Generate a draw.io document from a diagram description",
		Long: `Generate a draw.io document from a diagram description.

The description is a JSON file listing nodes, edges, groups, and lanes.
Drawforge validates it, computes a deterministic layout, and writes an
editable .drawio document next to the input (or to --output).

Pass "-" as the input path to read the description from stdin.
Results are cached locally; identical input produces the identical document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Theme:   themeName,
				Layout:  layoutName,
				Formats: parseFormats(formatsStr, pipeline.FormatDrawio),
				Refresh: refresh,
			}
			return c.runGenerate(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): drawio (default), svg, png (comma-separated)")
	cmd.Flags().StringVar(&themeName, "theme", "", "override the description's theme")
	cmd.Flags().StringVar(&layoutName, "layout", "", "override the description's layout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when a cached document exists")

	return cmd
}

// runGenerate reads the description, runs the pipeline, and writes artifacts.
func (c *CLI) runGenerate(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	data, err := readInput(input)
	if err != nil {
		return fmt.Errorf("read description %s: %w", input, err)
	}
	opts.Input = data
	opts.Logger = c.Logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating diagram...")
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	return writeArtifacts(res, opts.Formats, input, output)
}
