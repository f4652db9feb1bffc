package main

import (
	"fmt"
	"os"

	"github.com/ritzau/dotlite/pkg/batch"
	"github.com/ritzau/dotlite/pkg/finder"
	"github.com/ritzau/dotlite/pkg/format"
	"github.com/ritzau/dotlite/pkg/output"
	"github.com/spf13/cobra"
)

func (a *app) newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Decode a DOT file and print its nodes and adjacency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, name, err := decodeFile(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if a.cfg.JSON {
				return output.WriteJSON(cmd.OutOrStdout(), g)
			}
			output.PrintGraph(cmd.OutOrStdout(), name, g)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the decoded graph as JSON")
	return cmd
}

// checkResult is the JSON form of a batch.Result
type checkResult struct {
	Path  string `json:"path"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Nodes int    `json:"nodes"`
}

func (a *app) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file|dir]...",
		Short: "Decode many DOT files in parallel and report failures",
		Long:  "Directories are searched for .dot and .gv files. Without arguments the configured dir is checked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{a.cfg.Dir}
			}
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}

			results := batch.DecodeAll(cmd.Context(), paths, a.cfg.Workers)

			failed := 0
			if a.cfg.JSON {
				out := make([]checkResult, 0, len(results))
				for _, r := range results {
					c := checkResult{Path: r.Path, OK: r.OK()}
					if r.OK() {
						c.Nodes = len(r.Graph.Nodes)
					} else {
						c.Error = r.Err.Error()
						failed++
					}
					out = append(out, c)
				}
				if err := output.WriteJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			} else {
				failed = output.PrintBatch(cmd.OutOrStdout(), results)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed to decode", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Report results as JSON")
	cmd.Flags().Int("workers", 0, "Parallel decoders (0 = one per CPU)")
	return cmd
}

// expandPaths replaces directories with the DOT files they contain
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := finder.FindDotFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", arg, err)
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func (a *app) newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <file|->",
		Short: "Print a DOT file in canonical form",
		Long:  "Every node is declared first, then every edge gets its own statement.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, name, err := decodeFile(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), format.Serialize(g, name))
			return err
		},
	}
}
