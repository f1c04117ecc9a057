package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/render/dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file path; stdout when empty
	format    string // dot, svg or png
	engine    string // Graphviz layout engine
	detailed  bool   // add ids and properties to node labels
	highlight string // outline color of highlighted elements
}

// renderCommand creates the render command, which draws a session with
// Graphviz. Highlighted elements are outlined so the last expansion stands
// out.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		format:    string(dot.FormatSVG),
		engine:    string(dot.EngineDOT),
		highlight: dot.DefaultHighlightColor,
	}

	cmd := &cobra.Command{
		Use:   "render <session>",
		Short: "Render a session to DOT, SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRenderOpts(opts); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().StringVar(&opts.engine, "engine", opts.engine, "layout engine: "+engineNames())
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show vertex ids and properties")
	cmd.Flags().StringVar(&opts.highlight, "highlight-color", opts.highlight, "outline color of newly added elements")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, session string, opts renderOpts) error {
	ctx := cmd.Context()
	runner, closeStore, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	s, err := runner.Snapshot(ctx, session)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	src := dot.ToDOT(s, dot.Options{Detailed: opts.detailed, HighlightColor: opts.highlight})
	data, err := dot.Render(ctx, src, dot.Format(opts.format), dot.Engine(opts.engine))
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.format, err)
	}
	prog.done("rendered session", "format", opts.format, "bytes", len(data))

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printSuccess(c.out, "Rendered %d nodes and %d edges", s.NodeCount(), s.EdgeCount())
	printFile(c.out, opts.output)
	return nil
}

func validateRenderOpts(opts renderOpts) error {
	switch dot.Format(opts.format) {
	case dot.FormatDOT, dot.FormatSVG, dot.FormatPNG:
	default:
		return fmt.Errorf("invalid format: %s (must be dot, svg or png)", opts.format)
	}
	if !slices.Contains(dot.Engines(), dot.Engine(opts.engine)) {
		return fmt.Errorf("invalid engine: %s (must be one of %s)", opts.engine, engineNames())
	}
	return nil
}

func engineNames() string {
	var names []string
	for _, e := range dot.Engines() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}
