package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ritzau/dotlite/pkg/format"
	"github.com/ritzau/dotlite/pkg/logging"
	"github.com/spf13/cobra"
)

func (a *app) newRenderCmd() *cobra.Command {
	var (
		outFormat string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "render <file|->",
		Short: "Decode a graph and render it with Graphviz",
		Long:  "Requires the Graphviz dot command on PATH. The format defaults to the output file extension, then svg.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, name, err := decodeFile(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			if outFormat == "" {
				outFormat = strings.TrimPrefix(filepath.Ext(outPath), ".")
			}
			if outFormat == "" {
				outFormat = "svg"
			}

			image, err := a.renderer.Render(cmd.Context(), []byte(format.Serialize(g, name)), outFormat)
			if err != nil {
				return err
			}
			logging.Debug("rendered graph", "path", args[0], "format", outFormat, "bytes", len(image))

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(image)
				return err
			}
			if err := os.WriteFile(outPath, image, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFormat, "format", "T", "", "Output format: svg, png or pdf")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to a file instead of standard output")
	return cmd
}
