package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/internal/scenario"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/instrument"
	"github.com/vango-dev/reconcile/pkg/mirror"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// serveOptions holds the serve command's flags.
type serveOptions struct {
	addr     string
	interval time.Duration
	loop     bool
}

func serveCmd(g *globalFlags) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve <scenario.yaml>",
		Short: "Play a scenario and mirror the document over WebSocket",
		Long: `Play a scenario step by step and stream every host mutation to
connected replicas.

Endpoints:
  GET /ws        WebSocket op stream (snapshot first, then live batches)
  GET /snapshot  Current document HTML
  GET /metrics   Prometheus metrics
  GET /healthz   Liveness probe

Examples:
  reconcile serve todo.yaml
  reconcile serve todo.yaml --addr=:9000 --interval=250ms --loop`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.Mirror.Addr = opts.addr
			}
			if opts.interval > 0 {
				cfg.Mirror.Interval = opts.interval.String()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args[0], opts.loop)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().DurationVarP(&opts.interval, "interval", "i", 0, "Delay between steps (default from config)")
	cmd.Flags().BoolVar(&opts.loop, "loop", false, "Restart from the first step after the last")

	return cmd
}

// player renders scenario steps into a mirrored document.
type player struct {
	scenario  *scenario.Scenario
	mirror    *mirror.Mirror
	container *instrument.Container
	registry  *prometheus.Registry
	logger    *slog.Logger
	next      int
}

func newPlayer(cfg *config.Config, s *scenario.Scenario, logger *slog.Logger) *player {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := instrument.NewMetrics(
		instrument.WithRegistry(reg),
		instrument.WithNamespace(cfg.Metrics.Namespace),
	)

	m := mirror.New(dom.New(s.Root), &mirror.Config{
		CheckOrigin: cfg.Mirror.CheckOrigin(),
		Logger:      logger,
	})
	inner := vdom.NewContainer(instrument.Host(m, metrics), m.Root(), vdom.WithOptions(cfg.ToOptions(logger)))

	return &player{
		scenario:  s,
		mirror:    m,
		container: instrument.Wrap(inner, instrument.WithMetrics(metrics)),
		registry:  reg,
		logger:    logger,
	}
}

// step renders the next step and broadcasts its ops. It reports false once
// the scenario is exhausted and loop is off.
func (p *player) step(ctx context.Context, loop bool) (bool, error) {
	if p.next >= p.scenario.Len() {
		if !loop {
			return false, nil
		}
		p.next = 0
	}
	i := p.next
	p.next++

	if err := p.container.Render(ctx, p.scenario.Tree(i)); err != nil {
		return false, err
	}
	if err := p.mirror.Flush(); err != nil {
		return false, err
	}

	st := p.container.Unwrap().Stats()
	p.logger.Info("step rendered",
		"step", p.scenario.Steps[i].Name,
		"mode", st.Mode.String(),
		"host_ops", st.HostOps,
		"seq", p.mirror.Seq(),
		"clients", p.mirror.Hub().Len(),
	)
	return true, nil
}

// router serves the mirror endpoints plus metrics and a health probe.
func (p *player) router(metricsPath string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Handle(metricsPath, promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Mount("/", p.mirror.Handler())
	return r
}

func runServe(ctx context.Context, out, errOut io.Writer, cfg *config.Config, path string, loop bool) error {
	logger := newLogger(errOut, cfg)
	interval, err := cfg.Mirror.StepInterval()
	if err != nil {
		return err
	}

	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	s.OnEvent = func(handler string, e vdom.Event) {
		logger.Info("event", "handler", handler, "type", e.Type)
	}

	p := newPlayer(cfg, s, logger)
	defer p.mirror.Close()

	srv := &http.Server{
		Addr:              cfg.Mirror.Addr,
		Handler:           p.router(cfg.Metrics.Path),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	success(out, "Serving %s on %s", s.Name, cfg.Mirror.Addr)
	info(out, "Replicas:  ws://%s/ws", displayAddr(cfg.Mirror.Addr))
	info(out, "Metrics:   http://%s%s", displayAddr(cfg.Mirror.Addr), cfg.Metrics.Path)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	playing := true
	if _, err := p.step(ctx, loop); err != nil {
		playing = false
		logger.Error("render failed", "error", err)
	}
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ticker.C:
			if !playing {
				continue
			}
			more, err := p.step(ctx, loop)
			switch {
			case err != nil:
				playing = false
				logger.Error("render failed", "error", err)
			case !more:
				playing = false
				info(out, "Scenario finished; still serving the final document")
			}
		}
	}
}

// displayAddr turns a bare ":port" listen address into a dialable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
