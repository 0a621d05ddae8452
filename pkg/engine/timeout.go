package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/brushwork/pkg/graph"
)

// DefaultTimeout bounds a single evaluation unless the engine was built
// with NewEngineWithTimeout.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when an evaluation outlives the engine timeout
	// or the caller's deadline.
	ErrTimeout = errors.New("engine: evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one started.
	ErrSuperseded = errors.New("engine: evaluation superseded by newer request")
)

// outcome carries an evaluation's results from its goroutine.
type outcome struct {
	graph  *graph.DesignGraph
	errors []EvalError
	err    error
}

// await blocks until the evaluation for generation gen reports on ch, ctx
// ends or the engine timeout elapses. A result from a stale generation is
// dropped. The evaluating goroutine may outlive a timeout; ch is buffered so
// its late send never blocks.
func (e *Engine) await(ctx context.Context, ch <-chan outcome, gen uint64) (*graph.DesignGraph, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	select {
	case res := <-ch:
		if !e.isCurrent(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.graph, res.errors, res.err

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
		}
		return nil, nil, fmt.Errorf("engine: %w", ctx.Err())
	}
}

// isCurrent reports whether gen is the most recently started evaluation.
func (e *Engine) isCurrent(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation == gen
}
