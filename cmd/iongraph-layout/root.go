package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mozilla-spidermonkey/iongraph/config"
	"github.com/mozilla-spidermonkey/iongraph/core"
	"github.com/mozilla-spidermonkey/iongraph/ir"
	"github.com/mozilla-spidermonkey/iongraph/layout"
	"github.com/mozilla-spidermonkey/iongraph/logging"
	"github.com/mozilla-spidermonkey/iongraph/metrics"
)

const defaultBlockWidth, defaultBlockHeight = 200, 60

// flags holds every CLI flag, grouped the way the analyzer's flag set does,
// set directly by cobra rather than threaded through a context struct.
type flags struct {
	file        string
	function    string
	pass        string
	kind        string
	out         string
	configPath  string
	metricsAddr string
	strict      bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "iongraph-layout",
		Short: "Lay out one optimization pass's control-flow graph",
		Long: `iongraph-layout reads a compiled function's pass document (the JSON
IonGraph emits per optimization pass), runs the layered graph-drawing
pipeline over one pass's basic blocks, and prints the resulting node
geometry as JSON for an external renderer to draw.`,
		Example: `  # Lay out the MIR blocks of the "RegisterAllocation" pass for "main"
  iongraph-layout --file pass.json --function main --pass RegisterAllocation

  # Same, but over LIR blocks, written to a file, with strict invariant checks
  iongraph-layout --file pass.json --function main --pass RegisterAllocation \
    --kind lir --out layout.json --strict

  # Expose Prometheus metrics while laying out
  iongraph-layout --file pass.json --function main --pass RegisterAllocation \
    --metrics-addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.file, "file", "", "path to the pass JSON document (required)")
	cmd.Flags().StringVar(&f.function, "function", "", "compiled function name to select within the document")
	cmd.Flags().StringVar(&f.pass, "pass", "", "optimization pass name to lay out (required)")
	cmd.Flags().StringVar(&f.kind, "kind", "mir", "IR kind to lay out: mir or lir")
	cmd.Flags().StringVar(&f.out, "out", "-", "output path for the Geometry JSON, or - for stdout")
	cmd.Flags().StringVar(&f.configPath, "config", "", "optional layout parameter overrides file (yaml/json/toml)")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address while running")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "panic on layout invariant violations instead of warning")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("pass")

	return cmd
}

func run(ctx context.Context, f flags) error {
	level := logging.LevelInfo
	if f.verbose {
		level = logging.LevelDebug
	}
	log := logging.New(logging.Config{Level: level, Component: "iongraph-layout"})
	defer log.Close()

	params, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	params.StrictMode = f.strict

	var m *metrics.Metrics
	if f.metricsAddr != "" {
		m = metrics.New()
		srvCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			if err := m.Serve(srvCtx, f.metricsAddr); err != nil {
				log.Error("metrics server stopped", "error", err)
			}
		}()
		log.Info("serving metrics", "addr", f.metricsAddr)
	}

	doc, err := ir.LoadDocument(f.file)
	if err != nil {
		return err
	}
	pass, err := doc.FindPass(f.function, f.pass)
	if err != nil {
		return err
	}

	var blocks *ir.BlockList
	switch f.kind {
	case "mir":
		blocks = pass.MIR
	case "lir":
		blocks = pass.LIR
	default:
		return fmt.Errorf("iongraph-layout: unknown --kind %q (want mir or lir)", f.kind)
	}
	if blocks == nil {
		return fmt.Errorf("iongraph-layout: pass %q has no %s blocks", f.pass, f.kind)
	}

	inputs := blocks.ToInputBlocks(core.Size{Width: defaultBlockWidth, Height: defaultBlockHeight})
	g, err := core.BuildGraph(inputs)
	if err != nil {
		return fmt.Errorf("iongraph-layout: %w", err)
	}
	if m != nil {
		m.SetBlockCount(f.kind, len(inputs))
	}

	log.Debug("built graph", "blocks", len(inputs), "roots", len(g.Roots()))

	start := time.Now()
	geo, buildErr := layout.Build(g, params, log)
	if m != nil {
		m.ObserveLayout(time.Since(start), buildErr)
	}
	if buildErr != nil {
		return fmt.Errorf("iongraph-layout: %w", buildErr)
	}

	data, err := json.MarshalIndent(geo, "", "  ")
	if err != nil {
		return fmt.Errorf("iongraph-layout: encoding geometry: %w", err)
	}
	data = append(data, '\n')

	if f.out == "" || f.out == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(f.out, data, 0644)
}
