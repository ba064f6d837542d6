package render

import (
	"github.com/matzehuels/flowbench/pkg/convert"
	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/retry"
)

// Backends lists every backend name in comparison order.
var Backends = []string{
	BackendGraphviz,
	BackendDOT,
	BackendD2,
	BackendELK,
	BackendTala,
	BackendGraphML,
	BackendELKJSON,
	BackendCanvas,
	BackendCanvasSVG,
	BackendBrowser,
}

// outputDirs maps backends to their directory under the output root where
// it differs from the backend name.
var outputDirs = map[string]string{
	BackendCanvas:    "inhouse",
	BackendCanvasSVG: "inhouse-svg",
	BackendBrowser:   "inhouse-full",
}

// OutputDir returns the directory name, relative to the output root, that
// holds a backend's artifacts.
func OutputDir(backend string) string {
	if d, ok := outputDirs[backend]; ok {
		return d
	}
	return backend
}

// Config holds what backend constructors need.
type Config struct {
	Convert   convert.Options
	Canvas    CanvasOptions
	D2Binary  string
	Chrome    string
	Retry     retry.Policy
	Publisher Publisher
}

// New constructs the named backend.
func New(name string, cfg Config) (Renderer, error) {
	switch name {
	case BackendGraphviz:
		return NewGraphviz(cfg.Convert), nil
	case BackendDOT:
		return NewSource(name, convert.FormatDOT, cfg.Convert), nil
	case BackendD2:
		return NewSource(name, convert.FormatD2, cfg.Convert), nil
	case BackendGraphML:
		return NewSource(name, convert.FormatGraphML, cfg.Convert), nil
	case BackendELKJSON:
		return NewSource(name, convert.FormatELK, cfg.Convert), nil
	case BackendELK:
		return NewD2(LayoutELK, WithD2Binary(cfg.D2Binary), WithD2Options(cfg.Convert)), nil
	case BackendTala:
		return NewD2(LayoutTala, WithD2Binary(cfg.D2Binary), WithD2Options(cfg.Convert)), nil
	case BackendCanvas:
		return NewCanvas(cfg.Canvas), nil
	case BackendCanvasSVG:
		return NewCanvasSVG(cfg.Canvas), nil
	case BackendBrowser:
		if cfg.Publisher == nil {
			return nil, errors.New(errors.ErrCodeRendererUnavailable, "browser backend needs a running playground host")
		}
		opts := []BrowserOption{WithChrome(cfg.Chrome)}
		if cfg.Retry.Attempts > 0 {
			opts = append(opts, WithRetry(cfg.Retry))
		}
		if cfg.Canvas.Width > 0 && cfg.Canvas.Height > 0 {
			opts = append(opts, WithViewport(cfg.Canvas.Width, cfg.Canvas.Height))
		}
		return NewBrowser(cfg.Publisher, opts...), nil
	default:
		return nil, errors.New(errors.ErrCodeUnknownBackend, "unknown backend %q", name)
	}
}

// IsExternal reports whether a backend shells out to a tool that may be
// missing or flaky.
func IsExternal(name string) bool {
	switch name {
	case BackendELK, BackendTala, BackendBrowser:
		return true
	}
	return false
}
