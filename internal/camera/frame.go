package camera

import (
	"image"
	"image/color"

	"github.com/banshee-data/stripcam/internal/geometry"
)

// Background is the colour of pixels whose ray hits no wall.
var Background = color.RGBA{A: 255}

// Frame is a rendered image plus the pose it was rendered from.
// Pix is row-major: pixel (x, y) is Pix[y*Width+x].
type Frame struct {
	Width, Height int
	Pix           []color.RGBA

	Position geometry.Vec2
	Yaw      float64
}

func newFrame(w, h int) *Frame {
	return &Frame{Width: w, Height: h, Pix: make([]color.RGBA, w*h)}
}

// At returns the colour of pixel (x, y).
func (f *Frame) At(x, y int) color.RGBA { return f.Pix[y*f.Width+x] }

func (f *Frame) set(x, y int, c color.RGBA) { f.Pix[y*f.Width+x] = c }

// Image copies the frame into an *image.RGBA.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, f.At(x, y))
		}
	}
	return img
}

// Coverage returns the fraction of pixels that are not Background.
func (f *Frame) Coverage() float64 {
	if len(f.Pix) == 0 {
		return 0
	}
	hit := 0
	for _, c := range f.Pix {
		if c != Background {
			hit++
		}
	}
	return float64(hit) / float64(len(f.Pix))
}
