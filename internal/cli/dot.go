package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ntgraph/pkg/graph"
	"github.com/matzehuels/ntgraph/pkg/layout"
	"github.com/matzehuels/ntgraph/pkg/ranked"
	"github.com/matzehuels/ntgraph/pkg/solver"
)

// dotCommand creates the dot command, which prints the ranked graph a
// layout pass would hand to Graphviz.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output  string
		minimal bool
	)

	cmd := &cobra.Command{
		Use:   "dot [graph.json]",
		Short: "Print the ranked graph of a file as DOT",
		Long: `Print the ranked graph of a file as DOT.

Sizes are computed when missing. With --minimal the graph must carry a
layout or a layout backup; only the top-level entities are emitted, pinned
to the backup order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			if !g.HasWidths() {
				g = layout.ComputeSizes(g)
			}

			var rg *ranked.Graph
			if minimal {
				if !g.HasBackup() && g.HasLayout() {
					g = layout.Backup(g)
				}
				rg, err = ranked.BuildMinimal(g)
			} else {
				rg, err = ranked.BuildFull(g)
			}
			if err != nil {
				return err
			}

			dot, _ := solver.ToDOT(rg)
			if output == "" {
				fmt.Print(dot)
				return nil
			}
			if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("Wrote DOT")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&minimal, "minimal", false, "emit the minimal (top-level) graph")

	return cmd
}
