package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/internal/logging"
	"github.com/vango-dev/reconcile/internal/scenario"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/hostlog"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

type benchOptions struct {
	iterations int
	strategies []string
	jsonPath   string
}

func benchCmd(g *globalFlags) *cobra.Command {
	var opts benchOptions

	cmd := &cobra.Command{
		Use:   "bench <scenario.yaml>",
		Short: "Measure render latency and host ops per keyed strategy",
		Long: `Play a scenario repeatedly against a fresh document and report render
latency percentiles, host operations and node moves for each keyed diff
strategy.

Examples:
  reconcile bench todo.yaml
  reconcile bench todo.yaml --iterations=1000 --strategy=lis
  reconcile bench todo.yaml --json=report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			report, err := runBench(cfg, s, opts)
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), report)
			if opts.jsonPath != "" {
				return writeJSON(opts.jsonPath, cmd.OutOrStdout(), report)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.iterations, "iterations", "n", 200, "Times to play the scenario per strategy")
	cmd.Flags().StringSliceVar(&opts.strategies, "strategy", []string{"lis", "forward"}, "Strategies to compare")
	cmd.Flags().StringVar(&opts.jsonPath, "json", "", "Write the report as JSON to a file (- for stdout)")

	return cmd
}

type benchReport struct {
	Version    string          `json:"version"`
	Run        runInfo         `json:"run"`
	Scenario   string          `json:"scenario"`
	Steps      int             `json:"steps"`
	Iterations int             `json:"iterations"`
	Results    []strategyStats `json:"results"`
}

type runInfo struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
}

type strategyStats struct {
	Strategy  string         `json:"strategy"`
	Renders   int            `json:"renders"`
	LatencyUS latencyInfo    `json:"latency_us"`
	HostOps   int            `json:"host_ops_per_play"`
	Moved     int            `json:"moved_per_play"`
	Ops       map[string]int `json:"ops_per_play"`
	AllocMB   float64        `json:"alloc_mb"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

func runBench(cfg *config.Config, s *scenario.Scenario, opts benchOptions) (benchReport, error) {
	if opts.iterations <= 0 {
		return benchReport{}, fmt.Errorf("iterations must be positive, got %d", opts.iterations)
	}
	report := benchReport{
		Version: "1",
		Run: runInfo{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
		},
		Scenario:   s.Name,
		Steps:      s.Len(),
		Iterations: opts.iterations,
	}

	for _, name := range opts.strategies {
		strategy, err := vdom.ParseStrategy(name)
		if err != nil {
			return benchReport{}, err
		}
		o := cfg.ToOptions(logging.NewNop())
		o.Strategy = strategy
		st, err := benchStrategy(s, o, opts.iterations)
		if err != nil {
			return benchReport{}, fmt.Errorf("%s: %w", name, err)
		}
		report.Results = append(report.Results, st)
	}
	return report, nil
}

// benchStrategy plays s iterations times. Op counts come from the first
// play; every play produces the same ops.
func benchStrategy(s *scenario.Scenario, o vdom.Options, iterations int) (strategyStats, error) {
	st := strategyStats{Strategy: o.Strategy.String(), Ops: map[string]int{}}
	latencies := make([]time.Duration, 0, iterations*s.Len())

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	for it := 0; it < iterations; it++ {
		doc := dom.New(s.Root)
		rec := hostlog.New(doc)
		c := vdom.NewContainer(rec, doc.Root(), vdom.WithOptions(o))

		for i := range s.Steps {
			tree := s.Tree(i)
			start := time.Now()
			if err := c.Render(tree); err != nil {
				return st, err
			}
			latencies = append(latencies, time.Since(start))
			if it == 0 {
				st.Moved += c.Stats().Moved
			}
		}
		if it == 0 {
			st.HostOps = rec.Len()
			for _, op := range rec.Codes() {
				st.Ops[op.String()]++
			}
		}
	}

	runtime.ReadMemStats(&after)
	st.AllocMB = float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024)
	st.Renders = len(latencies)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	if len(latencies) > 0 {
		st.LatencyUS = latencyInfo{
			Min: us(latencies[0]),
			P50: us(percentile(latencies, 0.50)),
			P95: us(percentile(latencies, 0.95)),
			P99: us(percentile(latencies, 0.99)),
			Max: us(latencies[len(latencies)-1]),
		}
	}
	return st, nil
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func us(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

func writeSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== Reconcile Benchmark ===")
	fmt.Fprintf(w, "Scenario: %s (%d steps)\n", report.Scenario, report.Steps)
	fmt.Fprintf(w, "Iterations: %d\n", report.Iterations)

	for _, st := range report.Results {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Strategy %s (%d renders):\n", st.Strategy, st.Renders)
		fmt.Fprintf(w, "  latency: min %.1f  p50 %.1f  p95 %.1f  p99 %.1f  max %.1f µs\n",
			st.LatencyUS.Min, st.LatencyUS.P50, st.LatencyUS.P95, st.LatencyUS.P99, st.LatencyUS.Max)
		fmt.Fprintf(w, "  host ops per play: %d (%d moves)\n", st.HostOps, st.Moved)
		names := make([]string, 0, len(st.Ops))
		for name := range st.Ops {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "    %-20s %d\n", name, st.Ops[name])
		}
		fmt.Fprintf(w, "  alloc: %.2f MB\n", st.AllocMB)
	}
}

func writeJSON(path string, stdout io.Writer, report benchReport) error {
	out := stdout
	if path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
