package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/retry"
)

// Publisher makes a graph viewable at a URL for the duration of a render.
// The playground server implements it through its /view/{id} route.
type Publisher interface {
	Publish(g *flowchart.Graph) (url string, unpublish func())
}

// chromeNames are probed in order when no binary is configured.
var chromeNames = []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable", "chrome"}

// Browser screenshots the playground view page of a graph with headless
// Chromium. Page loads are retried under the configured policy.
type Browser struct {
	publisher Publisher
	binary    string
	policy    retry.Policy
	width     int
	height    int
	// settle is the virtual time budget given to page scripts, in ms.
	settle int
}

// BrowserOption configures a Browser renderer.
type BrowserOption func(*Browser)

// WithChrome sets the Chromium executable.
func WithChrome(path string) BrowserOption {
	return func(b *Browser) { b.binary = path }
}

// WithRetry sets the page-load retry policy.
func WithRetry(p retry.Policy) BrowserOption {
	return func(b *Browser) { b.policy = p }
}

// WithViewport sets the screenshot size.
func WithViewport(w, h int) BrowserOption {
	return func(b *Browser) {
		if w > 0 && h > 0 {
			b.width, b.height = w, h
		}
	}
}

// NewBrowser returns the browser backend. Screenshots are 1200x800 with
// three attempts, a 1s initial delay and a 30s per-attempt timeout unless
// overridden.
func NewBrowser(p Publisher, opts ...BrowserOption) *Browser {
	b := &Browser{
		publisher: p,
		policy:    retry.Default(),
		width:     1200,
		height:    800,
		settle:    5000,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (r *Browser) Name() string { return BackendBrowser }
func (r *Browser) Ext() string  { return "png" }

func (r *Browser) Render(ctx context.Context, g *flowchart.Graph) ([]byte, error) {
	binary := r.binary
	if binary == "" {
		var err error
		if binary, err = lookTool(chromeNames...); err != nil {
			return nil, err
		}
	}

	url, unpublish := r.publisher.Publish(g)
	defer unpublish()

	dir, err := os.MkdirTemp("", "flowbench-shot-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create screenshot dir")
	}
	defer os.RemoveAll(dir)
	shot := filepath.Join(dir, "shot.png")

	args := []string{
		"--headless",
		"--no-sandbox",
		"--disable-gpu",
		"--disable-dev-shm-usage",
		"--hide-scrollbars",
		fmt.Sprintf("--window-size=%d,%d", r.width, r.height),
		fmt.Sprintf("--virtual-time-budget=%d", r.settle),
		"--screenshot=" + shot,
		url,
	}

	err = retry.Do(ctx, r.policy, func(ctx context.Context) error {
		if _, err := runTool(ctx, binary, nil, args...); err != nil {
			if errors.Is(err, errors.ErrCodeRendererUnavailable) {
				return err
			}
			return retry.Retryable(err)
		}
		if _, err := os.Stat(shot); err != nil {
			return retry.Retryable(errors.New(errors.ErrCodeRenderFailed, "no screenshot written for %s", url))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return os.ReadFile(shot)
}
