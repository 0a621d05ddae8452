package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/chazu/brushwork/pkg/config"
	"github.com/chazu/brushwork/pkg/engine"
	"github.com/chazu/brushwork/pkg/export"
	"github.com/chazu/brushwork/pkg/graph"
	"github.com/chazu/brushwork/pkg/kernel"
	"github.com/chazu/brushwork/pkg/kernel/hull"
	"github.com/chazu/brushwork/pkg/tessellate"
)

// App holds the editor session. Its exported methods are bound into the
// frontend by Wails as window.go.main.App.*.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	cfg    config.Config
	kernel kernel.Kernel
}

// MeshData is one part's render buffers plus the color the viewport should
// shade it with.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	UVs      []float32 `json:"uvs"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Material string    `json:"material"`
	Color    string    `json:"color"`
}

// WireframeData is one part's edge overlay.
type WireframeData struct {
	Points   []float32 `json:"points"`
	Edges    []uint32  `json:"edges"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a diagnostic shown in the editor gutter. Line and Col
// are zero when the position is unknown.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the reply to Evaluate. Every slice is non-nil so the
// frontend always receives JSON arrays.
type EvalResult struct {
	Meshes     []MeshData      `json:"meshes"`
	Wireframes []WireframeData `json:"wireframes"`
	Errors     []EvalErrorData `json:"errors"`
	Warnings   []EvalErrorData `json:"warnings"`
}

func newEvalResult() EvalResult {
	return EvalResult{
		Meshes:     []MeshData{},
		Wireframes: []WireframeData{},
		Errors:     []EvalErrorData{},
		Warnings:   []EvalErrorData{},
	}
}

// NewApp reads brushwork.yaml from the working directory. A missing file
// means defaults; a broken one is logged and also means defaults.
func NewApp() *App {
	cfg, err := config.LoadOrDefault(config.Filename)
	if err != nil {
		log.Printf("config: %v; using defaults", err)
		cfg = config.Default()
	}
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig builds an App on cfg. A kernel cfg cannot build falls
// back to the exact hull kernel.
func NewAppWithConfig(cfg config.Config) *App {
	k, err := cfg.NewKernel()
	if err != nil {
		log.Printf("kernel: %v; using hull", err)
		k = hull.New()
	}
	return &App{engine: engine.NewEngine(), cfg: cfg, kernel: k}
}

// startup receives the Wails runtime context.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// errNoParts is reported by Export when source evaluates cleanly but holds
// nothing to write.
var errNoParts = errors.New("nothing to export")

// build takes source through evaluation, validation and tessellation,
// recording diagnostics in result. It returns nil when an error stopped
// the pipeline; warnings never do.
func (a *App) build(source string, result *EvalResult) *tessellate.Result {
	g, evalErrs, err := a.engine.Evaluate(source)
	switch {
	case err != nil:
		// Panics, timeouts and superseded runs.
		log.Printf("evaluate: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return nil
	case len(evalErrs) > 0:
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return nil
	}

	vr := graph.ValidateAllTol(g, a.cfg.Tolerance)
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, findingData(g, w.NodeID, w.Message))
	}
	for _, e := range vr.Errors {
		result.Errors = append(result.Errors, findingData(g, e.NodeID, e.Message))
	}
	if len(vr.Errors) > 0 {
		return nil
	}

	tess, err := tessellate.Tessellate(g, a.kernel)
	if err != nil {
		log.Printf("tessellate: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "tessellation failed: " + err.Error()})
		return nil
	}
	return tess
}

// findingData places a validation finding at the source position of the
// node it concerns.
func findingData(g *graph.DesignGraph, id graph.NodeID, msg string) EvalErrorData {
	d := EvalErrorData{Message: msg}
	if n := g.Get(id); n != nil {
		d.Line, d.Col = n.Source.Line, n.Source.Col
	}
	return d
}

// Evaluate is called by the editor on every pause in typing. It returns
// one mesh and one wireframe per part, colored by material.
func (a *App) Evaluate(source string) EvalResult {
	result := newEvalResult()
	tess := a.build(source, &result)
	if tess == nil {
		return result
	}

	for i, p := range tess.Parts {
		color := a.cfg.Color(p.Material, i)
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: p.Mesh.Vertices,
			Normals:  p.Mesh.Normals,
			UVs:      p.Mesh.UVs,
			Indices:  p.Mesh.Indices,
			PartName: p.Name,
			Material: p.Material,
			Color:    color,
		})
		result.Wireframes = append(result.Wireframes, WireframeData{
			Points:   p.Wireframe.Points,
			Edges:    p.Wireframe.Edges,
			PartName: p.Name,
			Color:    color,
		})
	}
	return result
}

// Export builds source and writes it to path in the configured export
// format. The first blocking diagnostic becomes the error.
func (a *App) Export(source, path string) error {
	result := newEvalResult()
	tess := a.build(source, &result)
	if tess == nil {
		if len(result.Errors) == 0 {
			return fmt.Errorf("export: %w", errNoParts)
		}
		return fmt.Errorf("export: %s", result.Errors[0].Message)
	}
	return export.WriteFile(path, a.cfg, tess)
}
