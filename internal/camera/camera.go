package camera

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/stripcam/internal/geometry"
	"github.com/banshee-data/stripcam/internal/world"
)

// WallProvider supplies the walls a camera renders. *world.Map satisfies it.
type WallProvider interface {
	Walls() []*world.Wall
}

// rc2wInit rotates camera axes into the world frame at yaw 0: camera X is
// world X, the camera look axis (Z) is world -Y, and camera Y is world Z.
var rc2wInit = mat.NewDense(3, 3, []float64{
	1, 0, 0,
	0, 0, -1,
	0, 1, 0,
})

// Camera is a pinhole camera in the world plane.
type Camera struct {
	walls      WallProvider
	focal      float64
	size       image.Point
	position   geometry.Vec2
	yaw        float64
	visibility Visibility

	// Memoised for the camera lifetime.
	k    *mat.Dense
	kInv *mat.Dense

	// Nil whenever the pose has changed since it was last derived.
	ext *extrinsics
}

type extrinsics struct {
	c2w *mat.Dense
	w2c *mat.Dense
	p   *mat.Dense
}

// New returns a camera looking at walls. size is the image width and
// height in pixels.
func New(walls WallProvider, focal float64, size image.Point, position geometry.Vec2, yaw float64) (*Camera, error) {
	switch {
	case walls == nil:
		return nil, fmt.Errorf("%w: nil wall provider", ErrInvalidCamera)
	case !(focal > 0) || math.IsInf(focal, 0):
		return nil, fmt.Errorf("%w: focal length %v", ErrInvalidCamera, focal)
	case size.X < 1 || size.Y < 1:
		return nil, fmt.Errorf("%w: image size %dx%d", ErrInvalidCamera, size.X, size.Y)
	case !position.IsFinite() || math.IsNaN(yaw) || math.IsInf(yaw, 0):
		return nil, fmt.Errorf("%w: pose %v yaw %v", ErrInvalidCamera, position, yaw)
	}

	c := &Camera{
		walls:    walls,
		focal:    focal,
		size:     size,
		position: position,
		yaw:      yaw,
	}
	diagf("new camera f=%.2f size=%dx%d at %v yaw=%.4f", focal, size.X, size.Y, position, yaw)
	return c, nil
}

func (c *Camera) FocalLength() float64    { return c.focal }
func (c *Camera) ImageSize() image.Point  { return c.size }
func (c *Camera) Position() geometry.Vec2 { return c.position }
func (c *Camera) Yaw() float64            { return c.yaw }

// SetPosition moves the camera and invalidates its extrinsics.
func (c *Camera) SetPosition(p geometry.Vec2) {
	c.position = p
	c.ext = nil
}

// SetYaw turns the camera and invalidates its extrinsics.
func (c *Camera) SetYaw(yaw float64) {
	c.yaw = yaw
	c.ext = nil
}

// Visibility returns the active overlap policy.
func (c *Camera) Visibility() Visibility { return c.visibility }

// SetVisibility selects how overlapping walls are resolved.
func (c *Camera) SetVisibility(v Visibility) { c.visibility = v }

// K returns a copy of the 3×3 intrinsics matrix.
func (c *Camera) K() *mat.Dense {
	c.intrinsics()
	return mat.DenseCopyOf(c.k)
}

// KInv returns a copy of K⁻¹.
func (c *Camera) KInv() *mat.Dense {
	c.intrinsics()
	return mat.DenseCopyOf(c.kInv)
}

// intrinsics fills K and K⁻¹ on first use. K is upper triangular with a
// positive diagonal, so its inverse is written directly.
func (c *Camera) intrinsics() {
	if c.k != nil {
		return
	}
	f := c.focal
	cx := float64(c.size.X-1) * 0.5
	cy := float64(c.size.Y-1) * 0.5

	c.k = mat.NewDense(3, 3, []float64{
		f, 0, cx,
		0, f, cy,
		0, 0, 1,
	})
	c.kInv = mat.NewDense(3, 3, []float64{
		1 / f, 0, -cx / f,
		0, 1 / f, -cy / f,
		0, 0, 1,
	})
}

// C2W returns a copy of the 4×4 camera-to-world transform. It panics if the
// pose is not finite; use Extrinsics to get an error instead.
func (c *Camera) C2W() *mat.Dense { return mat.DenseCopyOf(c.mustExtrinsics().c2w) }

// W2C returns a copy of the 4×4 world-to-camera transform, the inverse of C2W.
func (c *Camera) W2C() *mat.Dense { return mat.DenseCopyOf(c.mustExtrinsics().w2c) }

// P returns a copy of the 3×4 projection matrix K·W2C[:3,:].
func (c *Camera) P() *mat.Dense { return mat.DenseCopyOf(c.mustExtrinsics().p) }

// Extrinsics returns copies of C2W, W2C and P, or ErrSingularPose.
func (c *Camera) Extrinsics() (c2w, w2c, p *mat.Dense, err error) {
	ext, err := c.extrinsics()
	if err != nil {
		return nil, nil, nil, err
	}
	return mat.DenseCopyOf(ext.c2w), mat.DenseCopyOf(ext.w2c), mat.DenseCopyOf(ext.p), nil
}

func (c *Camera) mustExtrinsics() *extrinsics {
	ext, err := c.extrinsics()
	if err != nil {
		panic(err)
	}
	return ext
}

func (c *Camera) extrinsics() (*extrinsics, error) {
	if c.ext != nil {
		return c.ext, nil
	}
	if !c.position.IsFinite() || math.IsNaN(c.yaw) || math.IsInf(c.yaw, 0) {
		return nil, fmt.Errorf("%w: position %v yaw %v", ErrSingularPose, c.position, c.yaw)
	}
	c.intrinsics()

	c2w := c.cameraToWorld()
	var w2c mat.Dense
	if err := w2c.Inverse(c2w); err != nil {
		opsf("invert C2W at %v yaw=%.4f: %v", c.position, c.yaw, err)
		return nil, fmt.Errorf("%w: %v", ErrSingularPose, err)
	}

	var p mat.Dense
	p.Mul(c.k, w2c.Slice(0, 3, 0, 4))

	c.ext = &extrinsics{c2w: c2w, w2c: &w2c, p: &p}
	tracef("extrinsics recomputed at %v yaw=%.4f", c.position, c.yaw)
	return c.ext, nil
}

// cameraToWorld builds [R_yaw·RC2W_init | (x, y, 0)] as a homogeneous 4×4.
func (c *Camera) cameraToWorld() *mat.Dense {
	var r mat.Dense
	r.Mul(geometry.YawToRotationMatrix(c.yaw), rc2wInit)

	rt := mat.NewDense(4, 4, nil)
	rt.Slice(0, 3, 0, 3).(*mat.Dense).Copy(&r)
	rt.Set(0, 3, c.position.X)
	rt.Set(1, 3, c.position.Y)
	rt.Set(2, 3, 0)
	rt.Set(3, 3, 1)
	return rt
}

// Project maps a world point on the ground plane to pixel coordinates.
// inFront is false when the point is behind or on the camera plane.
func (c *Camera) Project(pt geometry.Vec2) (pixel geometry.Vec2, inFront bool) {
	ext := c.mustExtrinsics()

	var uvw mat.VecDense
	uvw.MulVec(ext.p, mat.NewVecDense(4, []float64{pt.X, pt.Y, 0, 1}))
	w := uvw.AtVec(2)
	if w <= 0 {
		return geometry.Vec2{}, false
	}
	return geometry.V(uvw.AtVec(0)/w, uvw.AtVec(1)/w), true
}
