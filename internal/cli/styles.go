package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/style"
)

// stylesCommand creates the styles command, which shows how the configured
// schema resolves.
func (c *CLI) stylesCommand() *cobra.Command {
	var showIcons bool

	cmd := &cobra.Command{
		Use:   "styles",
		Short: "Show the resolved label styles and the icon table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showIcons {
				c.printIcons()
				return nil
			}
			c.printStyles()
			return nil
		},
	}

	cmd.Flags().BoolVar(&showIcons, "icons", false, "list the built-in icon names")

	return cmd
}

func (c *CLI) printStyles() {
	r := style.NewResolver(c.Config.Style)
	schema := c.Config.Style.Schema

	printKeyValue(c.out, "Default", swatch(r.DefaultColor())+" "+r.DefaultColor())
	printKeyValue(c.out, "Arrows", fmt.Sprint(c.Config.Style.WithArrow))
	fmt.Fprintln(c.out)

	if len(schema.Vertices) == 0 && len(schema.Edges) == 0 {
		printInfo(c.out, "No label styles configured")
		return
	}

	if len(schema.Vertices) > 0 {
		var rows [][]string
		for _, label := range slices.Sorted(maps.Keys(schema.Vertices)) {
			res := r.ResolveVertex(label, graph.VertexStyle{})
			rows = append(rows, []string{
				label,
				swatch(res.FillColor) + " " + res.FillColor,
				orDash(res.IconName),
				orDash(strings.Join(r.DisplayFields(label, true), ", ")),
			})
		}
		fmt.Fprintln(c.out, StyleTitle.Render("Vertices"))
		fmt.Fprintln(c.out, styleTable([]string{"Label", "Color", "Icon", "Display"}, rows))
	}

	if len(schema.Edges) > 0 {
		var rows [][]string
		for _, label := range slices.Sorted(maps.Keys(schema.Edges)) {
			res := r.ResolveEdge(label, graph.EdgeStyle{})
			rows = append(rows, []string{
				label,
				swatch(res.StrokeColor) + " " + res.StrokeColor,
				fmt.Sprint(res.Arrow),
				orDash(strings.Join(r.DisplayFields(label, false), ", ")),
			})
		}
		fmt.Fprintln(c.out, StyleTitle.Render("Edges"))
		fmt.Fprintln(c.out, styleTable([]string{"Label", "Color", "Arrow", "Display"}, rows))
	}
}

func (c *CLI) printIcons() {
	names := style.IconNames()
	for name := range c.Config.Style.Icons {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	for _, name := range names {
		glyph := style.Glyph(name)
		if g, ok := c.Config.Style.Icons[name]; ok {
			glyph = g
		}
		code := "—"
		if r := []rune(glyph); len(r) > 0 {
			code = fmt.Sprintf("%U", r[0])
		}
		fmt.Fprintf(c.out, "%s %s  %s\n", glyph, StyleValue.Render(name), StyleDim.Render(code))
	}
}

func styleTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

// swatch renders a small block in the given color.
func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
