package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/drawforge/pkg/pipeline"
)

// stdinBase is the output base name used when the description comes from stdin.
const stdinBase = "diagram"

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output already
// carries a format extension, that extension is stripped so per-format
// suffixes can be appended.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return stdinBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes every rendered artifact next to the input (or to the
// explicit output path) and prints a summary.
func writeArtifacts(res *pipeline.Result, formats []string, input, output string) error {
	base := basePath(output, input)

	for _, w := range res.Warnings {
		printWarning("%s", w)
	}

	for _, format := range formats {
		data, ok := res.Artifacts[format]
		if !ok {
			return fmt.Errorf("no %s artifact produced", format)
		}

		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	cached := res.CacheInfo.DocumentHit
	if !containsFormat(formats, pipeline.FormatDrawio) {
		cached = res.CacheInfo.PreviewHit
	}
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, cached)
	return nil
}

func containsFormat(formats []string, want string) bool {
	for _, f := range formats {
		if f == want {
			return true
		}
	}
	return false
}
