package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/imui/internal/demo"
	"github.com/vango-dev/imui/internal/errors"
	"github.com/vango-dev/imui/internal/script"
	"github.com/vango-dev/imui/pkg/imui"
	"github.com/vango-dev/imui/pkg/inspect"
	"github.com/vango-dev/imui/pkg/metrics"
	"github.com/vango-dev/imui/pkg/retained"
)

type runOptions struct {
	config  string
	script  string
	db      string
	inspect bool
	addr    string
	verbose bool
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <demo>",
		Short: "Run a demo",
		Long: `Run a bundled demo against an in-memory widget tree.

With --script, the YAML event script is applied and the final tree is
printed. With --inspect, the inspector serves the tree over HTTP and
applies posted actions until interrupted. Without either, the initial
tree is printed.

Examples:
  imui run counter --script counter.yaml
  imui run todo --db todo.db --inspect
  imui run converter --inspect --addr localhost:9000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runDemo(ctx, args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "Configuration file")
	cmd.Flags().StringVar(&opts.script, "script", "", "YAML event script to apply")
	cmd.Flags().StringVar(&opts.db, "db", "", "bbolt file for the todo demo (default: in memory)")
	cmd.Flags().BoolVar(&opts.inspect, "inspect", false, "Serve the inspector until interrupted")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Inspector address (default from config)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging and a tree dump after every script step")

	return cmd
}

func runDemo(ctx context.Context, name string, opts runOptions, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	logger := cfg.Logger(stderr)

	d, err := demo.Lookup(name)
	if err != nil {
		return err
	}
	env := demo.Env{Logger: logger, TodoDB: opts.db}
	if env.TodoDB == "" && cfg.Path() != "" {
		env.TodoDB = cfg.TodoDBPath()
	}
	p, err := d.New(env)
	if err != nil {
		return err
	}
	defer p.Close()

	tree := retained.New(retained.WithTitle(p.Title()), retained.WithLogger(logger))
	sessOpts := append(cfg.SessionOptions(), imui.WithLogger(logger), imui.WithContext(ctx))

	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		sessOpts = append(sessOpts, imui.WithMetrics(metrics.New(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithRegistry(reg),
		)))
	}

	sess := imui.NewSession(tree, tree.Root(), p.Render, sessOpts...)
	sess.OnRender(func(imui.Stats) {
		if n := tree.Flush(); n > 0 {
			logger.Debug("repaint", "nodes", n)
		}
	})

	var srv *inspect.Server
	if opts.inspect || cfg.Inspect.Enabled {
		srvOpts := []inspect.Option{inspect.WithLogger(logger)}
		if reg != nil {
			srvOpts = append(srvOpts, inspect.WithGatherer(reg))
		}
		srv = inspect.New(srvOpts...)
		sess.OnRender(func(st imui.Stats) {
			srv.Publish(tree.Snapshot(), st)
		})
	}

	logger.Info("starting demo", "demo", d.Name, "title", p.Title())
	sess.Render(ctx)

	if opts.script != "" {
		s, err := script.Load(opts.script)
		if err != nil {
			return err
		}
		runner := &script.Runner{Tree: tree, Logger: logger}
		if opts.verbose {
			runner.AfterStep = func(i int, step script.Step) {
				fmt.Fprintf(stdout, "# after step %d: %s\n", i+1, step)
				tree.Dump(stdout)
			}
		}
		if err := runner.Run(ctx, s); err != nil {
			return err
		}
	}

	if srv != nil {
		addr := opts.addr
		if addr == "" {
			addr = cfg.Inspect.Address
		}
		if err := serve(ctx, srv, addr, tree, logger); err != nil {
			return err
		}
	}

	logger.Info("demo finished", "demo", d.Name, "nodes", tree.Snapshot().Count())
	return tree.Dump(stdout)
}

// serve runs the inspector and applies its actions on the calling
// goroutine until ctx is cancelled.
func serve(ctx context.Context, srv *inspect.Server, addr string, tree *retained.Tree, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx, addr)
	}()

	for {
		select {
		case <-ctx.Done():
			return <-errCh
		case err := <-errCh:
			return err
		case a := <-srv.Events():
			applyAction(tree, a, logger)
		}
	}
}

// applyAction applies a posted action. Failures are logged and do not stop
// the demo.
func applyAction(tree *retained.Tree, a retained.Action, logger *slog.Logger) {
	if err := tree.Apply(a); err != nil {
		logger.Warn("action failed",
			"action", a.String(),
			"error", errors.FromError(err, "E132").FormatCompact(),
		)
	}
}
