package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ntgraph/pkg/graph"
	"github.com/matzehuels/ntgraph/pkg/layout"
)

// checkCommand creates the check command, which compares the level-0 order
// of a graph's layout with the order of its backup.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [graph.json]",
		Short: "Check a layout against its backup",
		Long: `Check a layout against its backup.

For every time step the top-level entities are ordered by y in both the
layout and the layout backup; any position where the orders differ is
reported. The command fails when the orders differ or when a top-level
node lacks a layout or a backup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}

			report, err := layout.CheckOrder(g)
			if err != nil {
				return err
			}
			if report.Consistent() {
				printSuccess("Order matches backup")
				printKeyValue("time steps", strconv.Itoa(len(g.TimeSteps())))
				printKeyValue("top level", strconv.Itoa(len(g.NodesAtLevel(0))))
				return nil
			}

			for _, m := range report.Mismatches {
				printWarning("%s", m)
			}
			return report.Err()
		},
	}
}
