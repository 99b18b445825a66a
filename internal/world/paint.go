package world

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultSeed reproduces the palette the reference maps were tuned with.
	DefaultSeed uint64 = 11

	// DefaultSegmentLength is the expected segment length in world units.
	DefaultSegmentLength = 30.0

	// maxRedraws bounds consecutive non-positive length draws.
	maxRedraws = 64
)

// PaintStream is a seeded source of segment lengths and colours. Walls drain
// it in construction order, so the same seed and the same walls always
// produce the same paint. A PaintStream is not safe for concurrent use.
type PaintStream struct {
	lengths  distuv.Normal
	hues     distuv.Uniform
	expected float64
}

// NewPaintStream returns a stream whose segment lengths are drawn from
// Normal(expected, expected/5) and whose hues are uniform on [0, 1).
func NewPaintStream(seed uint64, expected float64) (*PaintStream, error) {
	if !(expected > 0) || math.IsInf(expected, 0) {
		return nil, fmt.Errorf("%w: expected length %v", ErrInvalidSegmentLength, expected)
	}
	src := rand.NewPCG(seed, seed)
	return &PaintStream{
		lengths:  distuv.Normal{Mu: expected, Sigma: expected / 5, Src: src},
		hues:     distuv.Uniform{Min: 0, Max: 1, Src: src},
		expected: expected,
	}, nil
}

// ExpectedLength returns the mean segment length.
func (p *PaintStream) ExpectedLength() float64 { return p.expected }

// nextLength draws a positive segment length. Non-positive draws are
// redrawn; the normal tail makes them vanishingly rare.
func (p *PaintStream) nextLength() (float64, error) {
	for i := 0; i < maxRedraws; i++ {
		if l := p.lengths.Rand(); l > 0 {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %d consecutive non-positive draws", ErrInvalidSegmentLength, maxRedraws)
}

// nextColor draws a fully saturated, full value colour of random hue.
func (p *PaintStream) nextColor() color.RGBA {
	return hueToRGBA(p.hues.Rand())
}

// hueToRGBA converts a hue in [0, 1) at full saturation and value to RGB.
// With S=1 and L=0.5 the HSL chroma equals HSV chroma at S=1, V=1.
func hueToRGBA(h float64) color.RGBA {
	const q, p = 1.0, 0.0
	r := hueChannel(p, q, h+1.0/3.0)
	g := hueChannel(p, q, h)
	b := hueChannel(p, q, h-1.0/3.0)
	return color.RGBA{R: toByte(r), G: toByte(g), B: toByte(b), A: 255}
}

func hueChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
