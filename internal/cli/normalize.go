package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/graph"
)

// normalizeCommand creates the normalize command, which turns a raw
// graph_view payload into a render-ready fragment without touching any
// session.
func (c *CLI) normalizeCommand() *cobra.Command {
	var output string
	var withReport bool

	cmd := &cobra.Command{
		Use:   "normalize <payload.json|->",
		Short: "Normalize a raw query result into a styled fragment",
		Long: `Normalize reads a graph_view payload (vertices and edges), drops malformed
records, resolves styles, spreads parallel edges and writes the resulting
fragment as JSON. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPayloadArg(cmd, args[0])
			if err != nil {
				return err
			}
			prog := newProgress(c.Logger)
			res := c.newNormalizer().Normalize(p)
			prog.done("normalized payload",
				"nodes", len(res.Fragment.Nodes),
				"edges", len(res.Fragment.Edges),
				"dropped", res.Report.Dropped())

			var v any = res.Fragment
			if withReport {
				v = res
			}
			if err := writeJSONTo(cmd, output, v); err != nil {
				return err
			}
			if output != "" {
				printSuccess(c.out, "Normalized %d nodes and %d edges", len(res.Fragment.Nodes), len(res.Fragment.Edges))
				printFile(c.out, output)
				printReport(c.out, res.Report)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&withReport, "report", false, "include the normalization report in the output")

	return cmd
}

// readPayloadArg reads a payload from a file path, or from the command's
// stdin when the path is "-".
func readPayloadArg(cmd *cobra.Command, path string) (graph.Payload, error) {
	if path == "-" {
		return graph.ReadPayload(cmd.InOrStdin())
	}
	return graph.ReadPayloadFile(path)
}

// writeJSONTo writes v as indented JSON to path, or to the command's
// stdout when path is empty.
func writeJSONTo(cmd *cobra.Command, path string, v any) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
