package main

import (
	"fmt"

	"github.com/aretw0/arbor/internal/demo"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/selector"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the demo leaf tree",
	Long:  `Outputs a Mermaid diagram (graph TD) of the demo tree, in the order leaves are tried.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := demo.Tree(demo.Options{})
		if err != nil {
			return err
		}
		fmt.Print(graph.GenerateMermaid(selector.EnumerateLeaves(tree), nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
