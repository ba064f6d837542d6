package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbench/pkg/compare"
	"github.com/matzehuels/flowbench/pkg/config"
	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/render"
)

// batchOpts holds the flags shared by compare and the batch shortcuts.
type batchOpts struct {
	backends    []string
	output      string
	casesFrom   string
	concurrency int
	png         bool
	noCache     bool
	watch       bool
}

func (o *batchOpts) register(cmd *cobra.Command, withBackends bool) {
	if withBackends {
		cmd.Flags().StringSliceVarP(&o.backends, "backend", "b", nil, "backends to run (default: all, or the config's list)")
		_ = cmd.RegisterFlagCompletionFunc("backend", completeBackends)
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output root (default: svgs)")
	cmd.Flags().StringVar(&o.casesFrom, "cases-from", "", "render only the cases named by *.svg files in this directory")
	cmd.Flags().IntVarP(&o.concurrency, "concurrency", "j", 0, "parallel renders (default: 4)")
	cmd.Flags().BoolVar(&o.png, "png", false, "rasterize SVG artifacts to PNG with rsvg-convert")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "re-run when the examples file changes")
}

// apply overrides cfg with the flags that were set.
func (o *batchOpts) apply(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		cfg.Examples = args[0]
	}
	if len(o.backends) > 0 {
		cfg.Backends = o.backends
	}
	if o.output != "" {
		cfg.Output = o.output
	}
	if o.casesFrom != "" {
		cfg.CasesFrom = o.casesFrom
	}
	if o.concurrency > 0 {
		cfg.Concurrency = o.concurrency
	}
	if o.png {
		cfg.Render.PNG = true
	}
	if o.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	cfg.ApplyDefaults()
	return cfg.Validate()
}

// compareCommand runs every selected backend over the example collection.
func (c *CLI) compareCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "compare [examples.json]",
		Short: "Render every example with every layout backend",
		Long: `Render every example with every selected layout backend, writing one
directory per backend under the output root:

  graphviz      svgs/graphviz/*.svg
  dot, d2       svgs/dot/*.dot, svgs/d2/*.d2
  elk, tala     svgs/elk/*.svg, svgs/tala/*.svg   (d2 binary)
  graphml       svgs/graphml/*.graphml
  elkjson       svgs/elkjson/*.json
  canvas        svgs/inhouse/*.png
  canvas-svg    svgs/inhouse-svg/*.svg
  browser       svgs/inhouse-full/*.png           (headless Chromium)

A failing example never stops the batch. The exit status is 1 when any
item failed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cfg, args); err != nil {
				return err
			}
			return c.runBatches(cmd.Context(), cmd.OutOrStdout(), cfg, opts.watch)
		},
	}
	opts.register(cmd, true)
	return cmd
}

// batchShortcut describes a shortcut that runs a fixed set of backends.
type batchShortcut struct {
	use      string
	short    string
	backends []string
}

var batchCommands = []batchShortcut{
	{"graphviz", "Render examples with Graphviz (svgs/graphviz)", []string{render.BackendGraphviz}},
	{"d2", "Write D2 sources (svgs/d2)", []string{render.BackendD2}},
	{"d2-render", "Render D2 sources with the ELK and TALA layouts (svgs/elk, svgs/tala)", []string{render.BackendELK, render.BackendTala}},
	{"graphml", "Write GraphML documents (svgs/graphml)", []string{render.BackendGraphML}},
	{"inhouse", "Draw examples with the canvas grid renderer (svgs/inhouse)", []string{render.BackendCanvas}},
	{"inhouse-full", "Screenshot examples in the Cytoscape playground (svgs/inhouse-full)", []string{render.BackendBrowser}},
}

func (c *CLI) batchCommand(shortcut batchShortcut) *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   shortcut.use + " [examples.json]",
		Short: shortcut.short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.backends = shortcut.backends
			if err := opts.apply(cfg, args); err != nil {
				return err
			}
			return c.runBatches(cmd.Context(), cmd.OutOrStdout(), cfg, opts.watch)
		},
	}
	opts.register(cmd, false)
	return cmd
}

// runBatches runs one batch and, in watch mode, re-runs it on every change
// to the examples file until ctx ends.
func (c *CLI) runBatches(ctx context.Context, w io.Writer, cfg *config.Config, watch bool) error {
	rep, err := c.runBatch(ctx, w, cfg)
	if !watch {
		if err != nil {
			return err
		}
		if !rep.OK() {
			return fmt.Errorf("%d of %d items failed", rep.Failed(), len(rep.Items))
		}
		return nil
	}
	if err != nil {
		printError(w, "%v", err)
	}

	printInfo(w, "Watching %s for changes (ctrl+c to stop)", cfg.Examples)
	err = compare.Watch(ctx, cfg.Examples, func(ctx context.Context) {
		printInfo(w, "%s changed, re-running", cfg.Examples)
		if _, err := c.runBatch(ctx, w, cfg); err != nil && ctx.Err() == nil {
			printError(w, "%v", err)
		}
	}, compare.WithOnError(func(err error) {
		c.Logger.Warn("watch", "err", err)
	}))
	if err != nil {
		return err
	}
	return ctx.Err()
}

// runBatch renders the configured backends once and prints per-item lines
// and the summary.
func (c *CLI) runBatch(ctx context.Context, w io.Writer, cfg *config.Config) (*compare.Report, error) {
	set, err := flowchart.LoadExamples(cfg.Examples)
	if err != nil {
		return nil, err
	}

	var cases []string
	if cfg.CasesFrom != "" {
		cases, err = compare.DiscoverCases(cfg.CasesFrom)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("cases from reference directory", "dir", cfg.CasesFrom, "count", len(cases))
	}

	store, err := c.newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	host, err := c.startPublisher(ctx, cfg, cfg.Backends)
	if err != nil {
		return nil, err
	}
	var pub render.Publisher
	if host != nil {
		defer host.Close()
		pub = host
	}

	targets, err := buildTargets(cfg, cfg.Backends, store, pub)
	if err != nil {
		return nil, err
	}

	multi := len(targets) > 1
	if !multi {
		printTargetHeader(w, targets[0])
	}

	sp := newSpinnerWithContext(ctx, w, "Rendering...")
	sp.Start()
	runner := compare.NewRunner(compare.Options{
		Concurrency: cfg.Concurrency,
		Cases:       cases,
		Logger:      c.Logger,
		OnItem: func(it compare.Item) {
			sp.Println(itemLine(it, multi))
			sp.SetMessage(fmt.Sprintf("Rendering %d/%d...", it.Index, it.Total))
		},
	})
	rep, err := runner.Run(ctx, set, targets)
	sp.Stop()
	if err != nil {
		return nil, err
	}

	printReport(w, rep)
	return rep, nil
}
