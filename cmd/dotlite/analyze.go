package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ritzau/dotlite/pkg/analysis"
	"github.com/ritzau/dotlite/pkg/batch"
	"github.com/ritzau/dotlite/pkg/generator"
	"github.com/ritzau/dotlite/pkg/logging"
	"github.com/ritzau/dotlite/pkg/output"
	"github.com/spf13/cobra"
)

func (a *app) newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Report components, cycles and topological order of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := decodeFile(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			summary, err := analysis.Summarize(g)
			if err != nil {
				return err
			}
			if a.cfg.JSON {
				return output.WriteJSON(cmd.OutOrStdout(), summary)
			}
			output.PrintSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	return cmd
}

func (a *app) newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench <file>",
		Short: "Time repeated decodes of a DOT file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timing, err := batch.Benchmark(args[0], a.cfg.Iterations)
			if err != nil {
				return err
			}
			if a.cfg.JSON {
				return output.WriteJSON(cmd.OutOrStdout(), timing)
			}
			output.PrintTiming(cmd.OutOrStdout(), timing)
			return nil
		},
	}
	cmd.Flags().IntP("iterations", "n", 100, "Number of decodes")
	cmd.Flags().Bool("json", false, "Print timings as JSON")
	return cmd
}

func (a *app) newGenCmd() *cobra.Command {
	var (
		nodes     int
		connexity float64
		seed      uint64
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random undirected graph",
		Long: "Nodes are named 0 to n-1 and the graph gets connexity * n(n-1)/2 distinct edges.\n" +
			"A seed of 0 picks one from the clock.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			text, err := generator.Generate(nodes, connexity, seed)
			if err != nil {
				return err
			}
			logging.Debug("generated graph", "nodes", nodes, "connexity", connexity, "seed", seed,
				"edges", generator.EdgeCount(nodes, connexity))

			if outPath == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			return os.WriteFile(outPath, []byte(text), 0o644)
		},
	}

	cmd.Flags().IntVar(&nodes, "nodes", 1000, "Number of nodes")
	cmd.Flags().Float64Var(&connexity, "connexity", 0.1, "Fraction of all possible edges, between 0 and 1")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to a file instead of standard output")
	return cmd
}
