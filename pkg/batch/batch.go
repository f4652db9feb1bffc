package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/ritzau/dotlite/pkg/logging"
	"github.com/ritzau/dotlite/pkg/model"
	"github.com/ritzau/dotlite/pkg/parser"
	"github.com/ritzau/dotlite/pkg/tokenizer"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of decoding one file
type Result struct {
	Path     string
	Graph    *model.Graph
	Name     string
	Err      error
	Duration time.Duration
}

// OK reports whether the file decoded
func (r Result) OK() bool {
	return r.Err == nil
}

// DecodeAll decodes files in parallel, each with its own parser. A failing
// file records its error in its Result and does not stop the others. Results
// are returned in the order of paths. Workers <= 0 means one per CPU.
func DecodeAll(ctx context.Context, paths []string, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return nil
			}
			results[i] = decode(path)
			return nil
		})
	}

	// Workers only report through results
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	logging.Debug("batch decode finished", "files", len(paths), "failed", failed, "workers", workers)

	return results
}

func decode(path string) Result {
	start := time.Now()
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: err, Duration: time.Since(start)}
	}

	p := parser.New()
	g, err := p.Parse(tokenizer.Tokenize(string(src)))
	r := Result{Path: path, Graph: g, Name: p.Name(), Err: err, Duration: time.Since(start)}
	if err != nil {
		logging.Debug("decode failed", "path", path, "error", err)
	}
	return r
}

// Timing summarises repeated decodes of one input
type Timing struct {
	Path       string        `json:"path"`
	Iterations int           `json:"iterations"`
	Nodes      int           `json:"nodes"`
	Min        time.Duration `json:"min_ns"`
	Max        time.Duration `json:"max_ns"`
	Mean       time.Duration `json:"mean_ns"`
	Total      time.Duration `json:"total_ns"`
}

// Benchmark reads a file once and times iterations full decodes of it
// (tokenizing included). The first decode error stops the run.
func Benchmark(path string, iterations int) (Timing, error) {
	if iterations < 1 {
		return Timing{}, fmt.Errorf("iterations must be positive, got %d", iterations)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return Timing{}, err
	}
	text := string(src)

	t := Timing{Path: path, Iterations: iterations}
	for i := 0; i < iterations; i++ {
		start := time.Now()
		g, err := parser.ParseString(text)
		elapsed := time.Since(start)
		if err != nil {
			return Timing{}, fmt.Errorf("decoding %s: %w", path, err)
		}

		t.Nodes = len(g.Nodes)
		t.Total += elapsed
		if i == 0 || elapsed < t.Min {
			t.Min = elapsed
		}
		if elapsed > t.Max {
			t.Max = elapsed
		}
	}
	t.Mean = t.Total / time.Duration(iterations)

	logging.Debug("benchmark finished", "path", path, "iterations", iterations, "meanNs", t.Mean.Nanoseconds())
	return t, nil
}
