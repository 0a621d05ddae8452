// Package engine runs brush programs. Source is rewritten for the zygomys
// reader, evaluated in a sandbox with the DSL forms installed, and the
// forms it calls assemble a graph.DesignGraph.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/brushwork/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a mistake in the user's program: a parse failure or an
// error raised while it ran. Line is zero when zygomys gave no position.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates brush programs. Every evaluation runs in a fresh
// zygomys sandbox, so results depend only on the source. Engine is safe
// for concurrent use; only the most recent evaluation delivers a graph.
type Engine struct {
	timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewEngine returns an Engine with DefaultTimeout.
func NewEngine() *Engine {
	return NewEngineWithTimeout(DefaultTimeout)
}

// NewEngineWithTimeout returns an Engine that abandons evaluations running
// longer than d. Non-positive values select DefaultTimeout.
func NewEngineWithTimeout(d time.Duration) *Engine {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &Engine{timeout: d}
}

// Evaluate is EvaluateContext without a caller deadline.
func (e *Engine) Evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext turns source into a DesignGraph.
//
// A program that fails to parse or run yields eval errors and a nil graph.
// Fatal failures (a panic, ErrTimeout, ErrSuperseded or ctx ending) yield
// only the error.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*graph.DesignGraph, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("engine: panic during evaluation: %v", r)}
			}
		}()
		g, evalErrs, err := e.evaluate(source, gen)
		ch <- outcome{graph: g, errors: evalErrs, err: err}
	}()

	return e.await(ctx, ch, gen)
}

// evaluate runs source in a fresh sandbox and stamps the resulting graph
// with gen.
func (e *Engine) evaluate(source string, gen uint64) (*graph.DesignGraph, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		g := graph.New()
		g.Version = gen
		return g, nil, nil
	}

	// The sandbox has no filesystem or system access.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := newBuilder()
	registerBuiltins(env, b)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	g := b.finish()
	g.Version = gen
	return g, nil, nil
}

// linePatterns pull a line number and detail out of zygomys error text,
// e.g. "Error on line 5: unexpected token" or "line 5: ...".
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`),
	regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`),
}

// parseZygomysError converts a zygomys error into EvalErrors, keeping the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range linePatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
