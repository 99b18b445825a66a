package view

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/stripcam/internal/camera"
	"github.com/banshee-data/stripcam/internal/fsutil"
	"github.com/banshee-data/stripcam/internal/world"
)

const (
	padding     = 20
	labelHeight = 20
)

var (
	paperColor = color.RGBA{255, 255, 255, 255}
	labelColor = color.RGBA{0, 0, 100, 255}
)

// Composer lays out the map plot above the enlarged camera strip.
type Composer struct {
	Map *world.Map
	// Scale is the enlargement factor applied to each strip pixel.
	Scale int
	// MapWidth is the width of the map panel.
	MapWidth vg.Length
}

// NewComposer returns a Composer with a 6 inch map panel.
func NewComposer(m *world.Map, scale int) *Composer {
	return &Composer{Map: m, Scale: scale, MapWidth: 6 * vg.Inch}
}

// Compose draws the current state: the map with cam's field of view, and
// frame enlarged by Scale.
func (c *Composer) Compose(cam *camera.Camera, frame *camera.Frame) (*image.RGBA, error) {
	if c.Scale < 1 {
		return nil, fmt.Errorf("view scale must be at least 1, got %d", c.Scale)
	}

	mapImg, err := MapImage(c.Map, cam, c.MapWidth, aspectHeight(c.Map, cam, c.MapWidth))
	if err != nil {
		return nil, fmt.Errorf("draw map: %w", err)
	}
	mb := mapImg.Bounds()

	strip := frame.Image()
	stripW := frame.Width * c.Scale
	stripH := frame.Height * c.Scale

	width := max(mb.Dx(), stripW) + 2*padding
	height := padding + labelHeight + mb.Dy() + padding + labelHeight + stripH + padding
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(out, out.Bounds(), image.NewUniform(paperColor), image.Point{}, xdraw.Src)

	y := padding
	drawLabel(out, "Map", width/2, y+labelHeight-6)
	y += labelHeight

	mapRect := image.Rect((width-mb.Dx())/2, y, (width-mb.Dx())/2+mb.Dx(), y+mb.Dy())
	xdraw.Draw(out, mapRect, mapImg, mb.Min, xdraw.Over)
	y += mb.Dy() + padding

	drawLabel(out, "Image on camera", width/2, y+labelHeight-6)
	y += labelHeight

	stripRect := image.Rect((width-stripW)/2, y, (width-stripW)/2+stripW, y+stripH)
	xdraw.NearestNeighbor.Scale(out, stripRect, strip, strip.Bounds(), xdraw.Src, nil)

	return out, nil
}

// drawLabel centres text horizontally on cx with its baseline at y.
func drawLabel(dst *image.RGBA, text string, cx, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(text).Round()
	d.Dot = fixed.P(cx-w/2, y)
	d.DrawString(text)
}

// WritePNG encodes img to dir/name, creating dir if needed.
func WritePNG(fsys fsutil.FileSystem, dir, name string, img image.Image) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("view name %q must not contain a path", name)
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(dir, name)
	f, err := fsys.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
