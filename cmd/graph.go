package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hubctl/internal/graph"
)

var (
	graphFile string
	graphDiff string
)

var graphCmd = &cobra.Command{
	Use:   "graph [ORG/IMAGE:VERSION]",
	Short: "Print the dependency graph of a version",
	Long: `Print the dependency graph extracted from the cell metadata of a version,
as a tree or (with --output json) as the diagram document.

Examples:
  hubctl graph wso2/pet-fe:1.0.0
  hubctl graph --file metadata.json
  hubctl graph wso2/pet-fe:1.0.0 --diff wso2/pet-fe:1.1.0`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if graphFile != "" {
			if len(args) > 0 {
				return fmt.Errorf("pass either a version or --file, not both")
			}
			d, err := diagramFromFile(graphFile)
			if err != nil {
				return err
			}
			f, err := formatter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return f.FormatDiagram(d)
		}
		if len(args) == 0 {
			return fmt.Errorf("a version or --file is required")
		}
		ref, err := parseVersionRef(args[0])
		if err != nil {
			return err
		}

		return withRuntime(cmd.Context(), func(rt *runtime) error {
			d, err := fetchDiagram(cmd.Context(), rt, ref)
			if err != nil {
				return err
			}
			if graphDiff == "" {
				f, err := formatter(cmd.OutOrStdout())
				if err != nil {
					return err
				}
				return f.FormatDiagram(d)
			}

			otherRef, err := parseVersionRef(graphDiff)
			if err != nil {
				return err
			}
			other, err := fetchDiagram(cmd.Context(), rt, otherRef)
			if err != nil {
				return err
			}
			diff := graph.Diff(d, other)
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Dependency graphs are identical")
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), diff)
			return err
		})
	},
}

func fetchDiagram(ctx context.Context, rt *runtime, ref graph.CellRef) (*graph.Diagram, error) {
	v, err := rt.client.GetVersion(ctx, ref.Org, ref.Name, ref.Version)
	if err != nil {
		return nil, err
	}
	if v.Metadata == nil {
		return nil, fmt.Errorf("%s has no cell metadata", ref)
	}
	return graph.Extract(v.Metadata)
}

func diagramFromFile(path string) (*graph.Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	md, err := graph.Decode(data)
	if err != nil {
		return nil, err
	}
	return graph.Extract(md)
}

func init() {
	graphCmd.Flags().StringVarP(&graphFile, "file", "f", "", "read cell metadata JSON from a file instead of the Hub")
	graphCmd.Flags().StringVar(&graphDiff, "diff", "", "compare with the graph of another version")
	rootCmd.AddCommand(graphCmd)
}
