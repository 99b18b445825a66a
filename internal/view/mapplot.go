package view

import (
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/stripcam/internal/camera"
	"github.com/banshee-data/stripcam/internal/geometry"
	"github.com/banshee-data/stripcam/internal/world"
)

const (
	// mapMargin pads the plotted area around the outermost wall vertex.
	mapMargin = 40.0

	// glyphDepth is how far ahead of the camera the field-of-view
	// triangle is drawn, in world units.
	glyphDepth = 30.0
)

var glyphColor = color.RGBA{A: 255}

// MapPlot plots every wall segment in its own colour and the camera's
// field of view as a triangle.
func MapPlot(m *world.Map, cam *camera.Camera) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Map"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	lines, err := segmentLines(m)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		p.Add(l)
	}

	glyph, err := cameraGlyph(cam)
	if err != nil {
		return nil, err
	}
	p.Add(glyph)

	lo, hi := m.Bounds()
	pos := cam.Position()
	p.X.Min = min(lo.X, pos.X) - mapMargin
	p.X.Max = max(hi.X, pos.X) + mapMargin
	p.Y.Min = min(lo.Y, pos.Y) - mapMargin
	p.Y.Max = max(hi.Y, pos.Y) + mapMargin
	return p, nil
}

// segmentLines returns one line per wall segment, in the segment's colour.
func segmentLines(m *world.Map) ([]*plotter.Line, error) {
	var lines []*plotter.Line
	for i, w := range m.Walls() {
		dir := w.Direction()
		for _, s := range w.Segments {
			a := w.Vertex1.Add(dir.Scale(s.T1))
			b := w.Vertex1.Add(dir.Scale(s.T2))
			line, err := plotter.NewLine(plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}})
			if err != nil {
				return nil, fmt.Errorf("wall %d: %w", i, err)
			}
			line.Color = s.Color
			line.Width = vg.Points(2)
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// cameraGlyph is a closed triangle from the optical centre to the two
// edges of the field of view at glyphDepth.
func cameraGlyph(cam *camera.Camera) (*plotter.Line, error) {
	size := cam.ImageSize()
	halfWidth := float64(size.X-1) / 2 / cam.FocalLength() * glyphDepth

	// Columns are camera-frame points (x, y, z, 1); z is the look axis.
	local := mat.NewDense(4, 3, []float64{
		0, -halfWidth, halfWidth,
		0, 0, 0,
		0, glyphDepth, glyphDepth,
		1, 1, 1,
	})
	var pts mat.Dense
	pts.Mul(cam.C2W(), local)

	xys := make(plotter.XYs, 0, 4)
	for j := 0; j < 3; j++ {
		xys = append(xys, plotter.XY{X: pts.At(0, j), Y: pts.At(1, j)})
	}
	xys = append(xys, xys[0])

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("camera glyph: %w", err)
	}
	line.Color = glyphColor
	line.Width = vg.Points(1)
	return line, nil
}

// MapImage rasterises MapPlot at the given size.
func MapImage(m *world.Map, cam *camera.Camera, width, height vg.Length) (image.Image, error) {
	p, err := MapPlot(m, cam)
	if err != nil {
		return nil, err
	}
	c := vgimg.New(width, height)
	p.Draw(draw.New(c))
	return c.Image(), nil
}

// aspectHeight returns the plot height that keeps world units square for
// a plot of the given width.
func aspectHeight(m *world.Map, cam *camera.Camera, width vg.Length) vg.Length {
	lo, hi := m.Bounds()
	pos := cam.Position()
	lo = geometry.V(min(lo.X, pos.X), min(lo.Y, pos.Y))
	hi = geometry.V(max(hi.X, pos.X), max(hi.Y, pos.Y))
	w := hi.X - lo.X + 2*mapMargin
	h := hi.Y - lo.Y + 2*mapMargin
	return width * vg.Length(h/w)
}
