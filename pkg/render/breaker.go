package render

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/observability"
)

// BreakerSettings configures [WithBreaker]. Zero fields use the defaults.
type BreakerSettings struct {
	// Failures is the number of consecutive failures that opens the breaker.
	// Default 5.
	Failures uint32
	// Cooldown is how long the breaker stays open before probing. Default 60s.
	Cooldown time.Duration
}

type breaker struct {
	Renderer
	cb *gobreaker.CircuitBreaker
}

// WithBreaker guards r with a circuit breaker. While open, Render fails
// immediately with RENDERER_UNAVAILABLE instead of invoking the tool.
// Context cancellation does not count as a failure.
func WithBreaker(r Renderer, s BreakerSettings) Renderer {
	if s.Failures == 0 {
		s.Failures = 5
	}
	if s.Cooldown == 0 {
		s.Cooldown = 60 * time.Second
	}
	name := r.Name()
	return &breaker{
		Renderer: r,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     s.Cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= s.Failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				observability.Render().OnBreakerStateChange(name, from.String(), to.String())
			},
			IsSuccessful: func(err error) bool {
				return err == nil || stderrors.Is(err, context.Canceled)
			},
		}),
	}
}

func (b *breaker) Render(ctx context.Context, g *flowchart.Graph) ([]byte, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.Renderer.Render(ctx, g)
	})
	switch {
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, errors.Wrap(errors.ErrCodeRendererUnavailable, err, "%s disabled after repeated failures", b.Name())
	case err != nil:
		return nil, err
	}
	return out.([]byte), nil
}
