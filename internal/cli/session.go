package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphview/pkg/explore"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/snapshot"
	"github.com/matzehuels/graphview/pkg/source/neo4j"
)

// sessionCommand creates the session command group.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s"},
		Short:   "Start, expand and inspect exploration sessions",
		Long: `An exploration session holds the rendered snapshot of a graph view.
Expanding a session merges only the vertices and edges it does not contain
yet and highlights what was added.`,
	}

	cmd.AddCommand(c.sessionStartCommand())
	cmd.AddCommand(c.sessionExpandCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionDropCommand())

	return cmd
}

// =============================================================================
// session start
// =============================================================================

func (c *CLI) sessionStartCommand() *cobra.Command {
	var cypher string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "start [payload.json|-]",
		Short: "Create a session from an initial query result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.initialPayload(cmd, args, cypher)
			if err != nil {
				return err
			}

			runner, closeStore, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			res, err := runner.Start(ctx, p)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSONTo(cmd, "", res)
			}
			printSuccess(c.out, "Started session %s", StyleHighlight.Render(res.SessionID))
			printCounts(c.out,
				countPart{len(res.Delta.AddedNodes), "nodes"},
				countPart{len(res.Delta.AddedEdges), "edges"},
			)
			printReport(c.out, res.Report)
			printNextStep(c.out, "Expand a vertex", fmt.Sprintf("%s session expand %s --vertex <id>", appName, res.SessionID))
			return nil
		},
	}

	cmd.Flags().StringVar(&cypher, "cypher", "", "run a Cypher query against the configured database instead of reading a payload")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) initialPayload(cmd *cobra.Command, args []string, cypher string) (graph.Payload, error) {
	switch {
	case cypher != "" && len(args) > 0:
		return graph.Payload{}, fmt.Errorf("pass either a payload file or --cypher, not both")
	case cypher != "":
		ctx := cmd.Context()
		src, err := c.openSource(ctx)
		if err != nil {
			return graph.Payload{}, err
		}
		defer src.Close(ctx)
		return withSpinner(ctx, os.Stderr, "Running query...", func() (graph.Payload, error) {
			return src.Query(ctx, cypher, nil)
		})
	case len(args) == 1:
		return readPayloadArg(cmd, args[0])
	default:
		return graph.Payload{}, fmt.Errorf("a payload file or --cypher is required")
	}
}

// =============================================================================
// session expand
// =============================================================================

func (c *CLI) sessionExpandCommand() *cobra.Command {
	var vertex string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "expand <session> [payload.json|-]",
		Short: "Merge an expansion result into a session",
		Long: `Expand merges new vertices and edges into a session. The expansion either
comes from a payload file, or with --vertex from the configured Neo4j
database as the neighbors of a vertex already in the session.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session := args[0]
			if (vertex == "") == (len(args) == 1) {
				return fmt.Errorf("pass either a payload file or --vertex")
			}

			runner, closeStore, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			var res explore.Result
			if vertex != "" {
				res, err = c.expandFromSource(ctx, runner, session, vertex, limit)
			} else {
				var p graph.Payload
				if p, err = readPayloadArg(cmd, args[1]); err != nil {
					return err
				}
				res, err = runner.Expand(ctx, session, p)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSONTo(cmd, "", res)
			}
			printResult(c.out, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&vertex, "vertex", "", "expand the neighbors of this vertex from the database")
	cmd.Flags().IntVar(&limit, "limit", neo4j.DefaultLimit, "maximum number of neighbor rows to fetch")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) expandFromSource(ctx context.Context, runner *explore.Runner, session, vertex string, limit int) (explore.Result, error) {
	src, err := c.openSource(ctx)
	if err != nil {
		return explore.Result{}, err
	}
	defer src.Close(ctx)

	return withSpinner(ctx, os.Stderr, fmt.Sprintf("Fetching neighbors of %s...", vertex), func() (explore.Result, error) {
		return runner.ExpandFrom(ctx, session, src, vertex, limit)
	})
}

// =============================================================================
// session show
// =============================================================================

func (c *CLI) sessionShowCommand() *cobra.Command {
	var plain, asJSON bool

	cmd := &cobra.Command{
		Use:   "show <session>",
		Short: "Browse the nodes and edges of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, closeStore, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			s, err := runner.Snapshot(ctx, args[0])
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				return snapshot.Write(s, cmd.OutOrStdout())
			case plain:
				printSnapshot(c, args[0], s)
				return nil
			}
			_, err = tea.NewProgram(NewSnapshotModel(args[0], s), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a summary instead of the interactive browser")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")

	return cmd
}

func printSnapshot(c *CLI, session string, s *snapshot.Snapshot) {
	fmt.Fprintln(c.out, StyleTitle.Render("Session "+session))
	printKeyValue(c.out, "Nodes", fmt.Sprint(s.NodeCount()))
	printKeyValue(c.out, "Edges", fmt.Sprint(s.EdgeCount()))

	nodes, edges := s.Highlighted()
	if len(nodes)+len(edges) == 0 {
		return
	}
	printInfo(c.out, "Last expansion added %d nodes and %d edges", len(nodes), len(edges))
	for _, id := range nodes {
		printDetail(c.out, "node %s", id)
	}
	for _, id := range edges {
		printDetail(c.out, "edge %s", id)
	}
}

// =============================================================================
// session drop
// =============================================================================

func (c *CLI) sessionDropCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "drop <session>",
		Aliases: []string{"rm"},
		Short:   "Discard a session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, closeStore, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := runner.Discard(ctx, args[0]); err != nil {
				return err
			}
			printSuccess(c.out, "Dropped session %s", args[0])
			return nil
		},
	}
}
