// Package export writes tessellated parts to disk as binary STL or as the
// JSON interchange document consumed by the desktop frontend.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/chazu/brushwork/pkg/config"
	"github.com/chazu/brushwork/pkg/kernel"
	"github.com/chazu/brushwork/pkg/tessellate"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// ErrNoGeometry is returned when there is nothing to write to an STL file.
var ErrNoGeometry = errors.New("export: no triangles")

// Triangles flattens the meshes into sdfx triangles.
func Triangles(meshes ...*kernel.Mesh) []*sdf.Triangle3 {
	var tris []*sdf.Triangle3
	for _, m := range meshes {
		if m == nil {
			continue
		}
		for i := 0; i < m.TriangleCount(); i++ {
			a, b, c := m.Triangle(i)
			tris = append(tris, &sdf.Triangle3{vec(a), vec(b), vec(c)})
		}
	}
	return tris
}

func vec(p [3]float32) v3.Vec {
	return v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

// WriteSTL writes all meshes into one binary STL file.
func WriteSTL(path string, meshes ...*kernel.Mesh) error {
	tris := Triangles(meshes...)
	if len(tris) == 0 {
		return errors.Wrap(ErrNoGeometry, path)
	}
	return errors.Wrapf(render.SaveSTL(path, tris), "export: write %s", path)
}

// PartInfo describes a part in the interchange document.
type PartInfo struct {
	Name     string `json:"name"`
	Material string `json:"material"`
	NodeID   string `json:"nodeId"`
	Color    string `json:"color,omitempty"`
}

// Document is the interchange form of a tessellation: meshes and
// wireframes share indices with Parts.
type Document struct {
	Parts      []PartInfo          `json:"parts"`
	Meshes     []*kernel.Mesh      `json:"meshes"`
	Wireframes []*kernel.Wireframe `json:"wireframes"`
}

// NewDocument builds the interchange document for res. A nil color
// function leaves colors empty.
func NewDocument(res *tessellate.Result, color func(material string, index int) string) *Document {
	doc := &Document{
		Parts:      []PartInfo{},
		Meshes:     []*kernel.Mesh{},
		Wireframes: []*kernel.Wireframe{},
	}
	if res == nil {
		return doc
	}
	for i, p := range res.Parts {
		info := PartInfo{Name: p.Name, Material: p.Material, NodeID: p.NodeID.String()}
		if color != nil {
			info.Color = color(p.Material, i)
		}
		doc.Parts = append(doc.Parts, info)
		doc.Meshes = append(doc.Meshes, p.Mesh)
		doc.Wireframes = append(doc.Wireframes, p.Wireframe)
	}
	return doc
}

// WriteJSON encodes doc to w.
func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "export: encode json")
}

// WriteFile writes res to path in the given format (config.FormatSTL or
// config.FormatJSON). Colors in JSON output come from cfg.
func WriteFile(path string, cfg config.Config, res *tessellate.Result) error {
	switch cfg.Export.Format {
	case config.FormatSTL:
		return WriteSTL(path, res.Meshes()...)
	case config.FormatJSON:
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "export")
		}
		if err := WriteJSON(f, NewDocument(res, cfg.Color)); err != nil {
			f.Close()
			return err
		}
		return errors.Wrapf(f.Close(), "export: close %s", path)
	}
	return errors.Wrapf(config.ErrUnknownFormat, "export: %q", cfg.Export.Format)
}

// Ext returns the file extension for an export format, including the dot.
func Ext(format string) string {
	return "." + format
}
