package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbench/pkg/config"
	"github.com/matzehuels/flowbench/pkg/observability"
	"github.com/matzehuels/flowbench/pkg/playground"
	"github.com/matzehuels/flowbench/pkg/playground/server"
)

// sessionOpts holds the flags shared by playground and serve.
type sessionOpts struct {
	dataset string
	layout  string
	addr    string
}

func (o *sessionOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.dataset, "dataset", "", "initial dataset: workflow (default), organization, system, complex, complexNoGroups")
	cmd.Flags().StringVar(&o.layout, "layout", "", "initial layout: dagre (default), breadthfirst, cola, grid, circle")
	cmd.Flags().StringVar(&o.addr, "addr", "", "listen address (default: 127.0.0.1:8080)")
	_ = cmd.RegisterFlagCompletionFunc("dataset", cobra.FixedCompletions(playground.DatasetNames, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("layout", cobra.FixedCompletions(playground.LayoutNames, cobra.ShellCompDirectiveNoFileComp))
}

func (o *sessionOpts) apply(cfg *config.Config) error {
	if o.dataset != "" {
		cfg.Serve.Dataset = o.dataset
	}
	if o.layout != "" {
		cfg.Serve.Layout = o.layout
	}
	if o.addr != "" {
		cfg.Serve.Addr = o.addr
	}
	return cfg.Validate()
}

// playgroundCommand browses a playground session in the terminal.
func (c *CLI) playgroundCommand() *cobra.Command {
	var (
		opts      sessionOpts
		serve     bool
		exportDir string
	)

	cmd := &cobra.Command{
		Use:   "playground",
		Short: "Browse the sample flowcharts in an interactive terminal view",
		Long: `Browse the playground's sample flowcharts in the terminal: move through
nodes, select one to see its info panel, switch datasets and layout presets,
zoom, and export the graph as a Cytoscape JSON document.

With --serve the Cytoscape page is hosted as well, and the terminal and
browser stay in sync.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cfg); err != nil {
				return err
			}

			// The terminal belongs to the TUI; session logs would tear it.
			quiet := log.New(io.Discard)
			sess, err := playground.NewSession(playground.Options{
				Dataset: cfg.Serve.Dataset,
				Layout:  cfg.Serve.Layout,
				Logger:  quiet,
			})
			if err != nil {
				return err
			}

			m := NewPlaygroundModel(ctx, sess, exportDir)
			if serve {
				srv := server.New(sess, server.Options{Logger: quiet})
				base, err := srv.Listen(ctx, cfg.Serve.Addr)
				if err != nil {
					return err
				}
				defer srv.Close()
				m.URL = base
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			// Send from a fresh goroutine: the TUI's own dispatches notify
			// subscribers from inside Update.
			unsubscribe := sess.Subscribe(func(st playground.State) {
				go p.Send(stateMsg(st))
			})
			defer unsubscribe()

			_, err = p.Run()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&serve, "serve", false, "also host the Cytoscape page")
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for exported graphs")
	return cmd
}

// serveCommand hosts the playground page with websocket events and metrics.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		opts    sessionOpts
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the Cytoscape playground page",
		Long: `Host the Cytoscape playground page. The page talks to a shared session over
a websocket, so every open tab sees the same graph, selection and layout.
Prometheus metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cfg); err != nil {
				return err
			}

			sess, err := playground.NewSession(playground.Options{
				Dataset: cfg.Serve.Dataset,
				Layout:  cfg.Serve.Layout,
				Logger:  c.Logger,
			})
			if err != nil {
				return err
			}

			srvOpts := server.Options{Logger: c.Logger}
			if metrics {
				prom := observability.NewPrometheusHooks(appName)
				prom.Install()
				defer observability.Reset()
				srvOpts.Metrics = prom.Handler()
			}

			srv := server.New(sess, srvOpts)
			printInfo(cmd.OutOrStdout(), "Playground at %s", StyleLink.Render("http://"+cfg.Serve.Addr))
			if err := srv.ListenAndServe(ctx, cfg.Serve.Addr); err != nil {
				return err
			}
			return ctx.Err()
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&metrics, "metrics", true, "serve Prometheus metrics at /metrics")
	return cmd
}
