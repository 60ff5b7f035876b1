package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawforge/pkg/spec"
	"github.com/matzehuels/drawforge/pkg/theme"
)

// themesCommand creates the themes command for inspecting the palette set.
func (c *CLI) themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available themes, node types, and layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := theme.Load()
			if err != nil {
				return fmt.Errorf("load themes: %w", err)
			}

			fmt.Println(StyleTitle.Render("Themes"))
			names := make([]string, 0, len(cfg.Themes))
			for name := range cfg.Themes {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				pal := cfg.Themes[name]
				printKeyValue(name, swatch(pal.Background)+" "+pal.Background)
			}

			printNewline()
			fmt.Println(StyleTitle.Render("Node types"))
			printDetail("%s", strings.Join(nodeTypeNames(), ", "))

			printNewline()
			fmt.Println(StyleTitle.Render("Variants"))
			printDetail("%s", strings.Join(variantNames(), ", "))

			printNewline()
			fmt.Println(StyleTitle.Render("Edge colors"))
			printDetail("%s", strings.Join(edgeColorNames(cfg), ", "))

			printNewline()
			fmt.Println(StyleTitle.Render("Layouts"))
			printDetail("%s", strings.Join(layoutNames(), ", "))

			return nil
		},
	}
}

// swatch renders a small color block for terminals with truecolor support.
func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

func nodeTypeNames() []string {
	types := []spec.NodeType{
		spec.TypeStart, spec.TypeEnd, spec.TypeProcess, spec.TypeDecision,
		spec.TypeNote, spec.TypeSuccess, spec.TypeDarkPanel, spec.TypeCylinder,
		spec.TypeCloud, spec.TypeActor, spec.TypeIcon,
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

func variantNames() []string {
	variants := []spec.Variant{
		spec.VariantPrimary, spec.VariantSecondary, spec.VariantAccent,
		spec.VariantWarning, spec.VariantDanger, spec.VariantNeutral,
	}
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = string(v)
	}
	return names
}

// edgeColorNames lists the semantic edge colors shared by every theme.
func edgeColorNames(cfg *theme.Config) []string {
	for _, pal := range cfg.Themes {
		names := make([]string, 0, len(pal.EdgeColors))
		for name := range pal.EdgeColors {
			names = append(names, name)
		}
		sort.Strings(names)
		return names
	}
	return nil
}

func layoutNames() []string {
	kinds := []spec.LayoutKind{
		spec.LayoutLinear, spec.LayoutHorizontal, spec.LayoutBranching,
		spec.LayoutHierarchical, spec.LayoutGrid, spec.LayoutSwimlane,
		spec.LayoutRows, spec.LayoutFlow, spec.LayoutPipeline,
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
