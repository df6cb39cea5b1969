package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/internal/scenario"
	"github.com/vango-dev/reconcile/internal/snapshot"
	"github.com/vango-dev/reconcile/pkg/dom"
	"github.com/vango-dev/reconcile/pkg/hostlog"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// renderOptions holds the render command's flags.
type renderOptions struct {
	strategy string
	strict   bool
	snapshot string
	ops      bool
	htmlOut  bool
}

func renderCmd(g *globalFlags) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <scenario.yaml>",
		Short: "Render a scenario and print each step",
		Long: `Render every step of a scenario into an in-memory document.

For each step the command prints the render mode, the host operations it
performed and the resulting HTML. With --snapshot the HTML of each step
is also written to a directory or to S3.

Examples:
  reconcile render todo.yaml
  reconcile render todo.yaml --strategy=forward --ops=false
  reconcile render todo.yaml --snapshot=./snapshots
  reconcile render todo.yaml --snapshot=s3://ui-snapshots/runs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "Keyed diff strategy: lis or forward (default from config)")
	cmd.Flags().BoolVar(&opts.strict, "strict-keys", false, "Fail on duplicate sibling keys")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "Write step HTML to a directory or s3://bucket/prefix")
	cmd.Flags().BoolVar(&opts.ops, "ops", true, "Print the host operations of each step")
	cmd.Flags().BoolVar(&opts.htmlOut, "html", true, "Print the document HTML after each step")

	return cmd
}

func runRender(ctx context.Context, out, errOut io.Writer, cfg *config.Config, path string, opts renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.strategy != "" {
		cfg.Strategy = opts.strategy
	}
	if opts.strict {
		cfg.StrictKeys = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(errOut, cfg)

	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	s.OnEvent = func(handler string, e vdom.Event) {
		logger.Debug("event", "handler", handler, "type", e.Type)
	}

	store, err := openStore(cfg, opts.snapshot)
	if err != nil {
		return err
	}

	doc := dom.New(s.Root)
	rec := hostlog.New(doc)
	c := vdom.NewContainer(rec, doc.Root(), vdom.WithOptions(cfg.ToOptions(logger)))

	for i, step := range s.Steps {
		rec.Reset()
		if err := c.Render(s.Tree(i)); err != nil {
			errorMsg(out, "%s: %s", step.Name, err)
			return err
		}

		st := c.Stats()
		success(out, "%s (%s, %d ops, %d moved)", step.Name, st.Mode, rec.Len(), st.Moved)
		if opts.ops {
			for _, op := range rec.Strings() {
				info(out, "%s", op)
			}
		}
		html := doc.HTML()
		if opts.htmlOut {
			fmt.Fprintln(out, html)
		}
		if store != nil {
			name := snapshot.Name(s.Name, i, step.Name)
			if err := store.Put(ctx, name, []byte(html)); err != nil {
				return err
			}
			logger.Debug("snapshot written", "name", name)
		}
	}
	return nil
}

// openStore picks the snapshot store from the flag, falling back to the
// config. It returns nil when snapshots are disabled.
func openStore(cfg *config.Config, target string) (snapshot.Store, error) {
	switch {
	case target != "":
		return snapshot.Open(target, cfg.Snapshot.S3.Region)
	case cfg.Snapshot.S3.Bucket != "":
		return snapshot.NewS3Store(
			snapshot.NewS3Client(cfg.Snapshot.S3.Region),
			cfg.Snapshot.S3.Bucket,
			cfg.Snapshot.S3.Prefix,
		), nil
	case cfg.Snapshot.Dir != "":
		return snapshot.NewFileStore(cfg.Snapshot.Dir)
	}
	return nil, nil
}
