package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/goccy/go-json"

	"github.com/matzehuels/flowbench/pkg/cache"
	"github.com/matzehuels/flowbench/pkg/compare"
	"github.com/matzehuels/flowbench/pkg/config"
	"github.com/matzehuels/flowbench/pkg/convert"
	"github.com/matzehuels/flowbench/pkg/playground"
	"github.com/matzehuels/flowbench/pkg/playground/server"
	"github.com/matzehuels/flowbench/pkg/render"
)

func backendNames() []string {
	return append([]string(nil), render.Backends...)
}

// convertOptions maps the render config onto converter options.
func convertOptions(cfg *config.Config) convert.Options {
	return convert.Options{
		Styles:         cfg.StyleResolver(),
		OmitEdgeLabels: cfg.Render.OmitEdgeLabels,
		ELK: convert.ELKOptions{
			Direction:  cfg.Render.Direction,
			MergeEdges: cfg.Render.MergeEdges,
		},
	}
}

func renderConfig(cfg *config.Config, pub render.Publisher) render.Config {
	return render.Config{
		Convert: convertOptions(cfg),
		Canvas: render.CanvasOptions{
			Width:  cfg.Render.Canvas.Width,
			Height: cfg.Render.Canvas.Height,
			Styles: cfg.StyleResolver(),
		},
		D2Binary:  cfg.Render.D2Binary,
		Chrome:    cfg.Render.Chrome,
		Retry:     cfg.Retry.Policy(),
		Publisher: pub,
	}
}

// cacheVariant fingerprints every setting that changes an artifact for the
// same graph and backend.
func cacheVariant(cfg *config.Config) string {
	styles, _ := json.Marshal(cfg.Styles)
	return cache.Hash([]byte(fmt.Sprintf("%s|%t|%t|%dx%d|png=%t@%g|%s",
		cfg.Render.Direction,
		cfg.Render.MergeEdges,
		cfg.Render.OmitEdgeLabels,
		cfg.Render.Canvas.Width,
		cfg.Render.Canvas.Height,
		cfg.Render.PNG,
		cfg.Render.Scale,
		styles,
	)))[:16]
}

// buildTargets constructs one comparison target per backend. Each renderer
// is wrapped, innermost first, in a circuit breaker (external tools only),
// PNG rasterization (--png), the artifact cache and metrics instrumentation.
func buildTargets(cfg *config.Config, backends []string, store cache.Cache, pub render.Publisher) ([]compare.Target, error) {
	rc := renderConfig(cfg, pub)
	variant := cacheVariant(cfg)
	breaker := render.BreakerSettings{
		Failures: cfg.Render.Breaker.Failures,
		Cooldown: cfg.Render.Breaker.Cooldown,
	}

	targets := make([]compare.Target, 0, len(backends))
	for _, name := range backends {
		r, err := render.New(name, rc)
		if err != nil {
			return nil, err
		}
		if render.IsExternal(name) {
			r = render.WithBreaker(r, breaker)
		}
		if cfg.Render.PNG {
			r = render.Rasterize(r, cfg.Render.Scale)
		}
		r = render.Cached(r, store, cfg.Cache.TTL, variant)
		r = render.Instrument(r)

		targets = append(targets, compare.Target{
			Renderer: r,
			Dir:      filepath.Join(cfg.Output, render.OutputDir(name)),
		})
	}
	return targets, nil
}

// startPublisher starts a playground host on an ephemeral port for the
// browser backend. It returns nil when no requested backend needs one.
func (c *CLI) startPublisher(ctx context.Context, cfg *config.Config, backends []string) (*server.Server, error) {
	if !slices.Contains(backends, render.BackendBrowser) {
		return nil, nil
	}
	sess, err := playground.NewSession(playground.Options{
		Dataset: cfg.Serve.Dataset,
		Layout:  cfg.Serve.Layout,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, err
	}
	srv := server.New(sess, server.Options{Logger: c.Logger})
	base, err := srv.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("start playground host: %w", err)
	}
	c.Logger.Debug("playground host for browser backend", "url", base)
	return srv, nil
}

// referenceDir holds the reference SVGs the viewer compares against.
const referenceDir = "current"

// defaultCasesDir is where `cases` looks for reference SVGs when no
// directory is given.
func defaultCasesDir(output string) string {
	return filepath.Join(output, referenceDir)
}
