package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ritzau/dotlite/pkg/config"
	"github.com/ritzau/dotlite/pkg/logging"
	"github.com/ritzau/dotlite/pkg/model"
	"github.com/ritzau/dotlite/pkg/parser"
	"github.com/ritzau/dotlite/pkg/render"
	"github.com/ritzau/dotlite/pkg/tokenizer"
	"github.com/spf13/cobra"
)

// app carries the configuration resolved before each command runs and the
// renderer used by the render command
type app struct {
	cfg      *config.Config
	renderer render.Renderer
}

func newRootCmd() *cobra.Command {
	return (&app{renderer: render.NewRenderer()}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dotlite",
		Short: "Decode graphs written in a small subset of DOT",
		Long: "dotlite decodes graph/digraph files made of node and edge chain statements\n" +
			"into node lists and adjacency lists, and serves them over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("verbosity", "", "Log level: trace, debug, info, warn, error")
	pf.CountP("verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
	pf.Bool("log-json", false, "Write logs as JSON")
	pf.String("config", "", "Config file (default ./"+config.DefaultFile+" when present)")

	root.AddCommand(
		a.newParseCmd(),
		a.newCheckCmd(),
		a.newFmtCmd(),
		a.newAnalyzeCmd(),
		a.newBenchCmd(),
		a.newGenCmd(),
		a.newRenderCmd(),
		a.newServeCmd(),
	)
	return root
}

// setup loads the configuration and applies the logging settings
func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")

	var err error
	if path != "" {
		a.cfg, err = config.LoadFile(path, cmd.Flags())
	} else {
		a.cfg, err = config.Load(cmd.Flags())
	}
	if err != nil {
		return err
	}

	level := logging.ParseLevel(a.cfg.Verbosity, a.cfg.VerboseCnt)
	if a.cfg.LogJSON {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}
	logging.Debug("configuration loaded", "command", cmd.Name(), "dir", a.cfg.Dir, "workers", a.cfg.Workers)
	return nil
}

// decodeFile decodes one file, or standard input for "-", and also returns
// the graph name
func decodeFile(path string, stdin io.Reader) (*model.Graph, string, error) {
	var (
		src []byte
		err error
	)
	if path == "-" {
		src, err = io.ReadAll(stdin)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", err
	}

	p := parser.New()
	g, err := p.Parse(tokenizer.Tokenize(string(src)))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	logging.Debug("decoded graph", "path", path, "name", p.Name(), "nodes", len(g.Nodes))
	return g, p.Name(), nil
}
