package camera

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/stripcam/internal/geometry"
	"github.com/banshee-data/stripcam/internal/testutil"
	"github.com/banshee-data/stripcam/internal/world"
)

func buildMap(t *testing.T, edges ...world.Edge) *world.Map {
	t.Helper()
	m, err := world.NewMapFromEdges(edges, world.DefaultBuildOptions())
	require.NoError(t, err)
	return m
}

func newTestCamera(t *testing.T, walls WallProvider, width int, position geometry.Vec2, yaw float64) *Camera {
	t.Helper()
	c, err := New(walls, 5, image.Pt(width, 1), position, yaw)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	m := buildMap(t, world.Edge{geometry.V(0, 0), geometry.V(10, 0)})
	origin := geometry.V(0, 0)

	tests := []struct {
		name  string
		walls WallProvider
		focal float64
		size  image.Point
		pos   geometry.Vec2
		yaw   float64
	}{
		{"nil walls", nil, 5, image.Pt(10, 1), origin, 0},
		{"zero focal", m, 0, image.Pt(10, 1), origin, 0},
		{"negative focal", m, -1, image.Pt(10, 1), origin, 0},
		{"nan focal", m, math.NaN(), image.Pt(10, 1), origin, 0},
		{"zero width", m, 5, image.Pt(0, 1), origin, 0},
		{"zero height", m, 5, image.Pt(10, 0), origin, 0},
		{"nan position", m, 5, image.Pt(10, 1), geometry.V(math.NaN(), 0), 0},
		{"inf yaw", m, 5, image.Pt(10, 1), origin, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.walls, tt.focal, tt.size, tt.pos, tt.yaw)
			assert.ErrorIs(t, err, ErrInvalidCamera)
		})
	}
}

func TestCamera_Intrinsics(t *testing.T) {
	t.Parallel()

	m := buildMap(t, world.Edge{geometry.V(0, 0), geometry.V(10, 0)})
	c, err := New(m, 12, image.Pt(31, 5), geometry.V(1, 2), 0.3)
	require.NoError(t, err)

	want := mat.NewDense(3, 3, []float64{
		12, 0, 15,
		0, 12, 2,
		0, 0, 1,
	})
	testutil.AssertMatrixNear(t, want, c.K(), 1e-12)

	var prod mat.Dense
	prod.Mul(c.K(), c.KInv())
	testutil.AssertMatrixNear(t, testutil.Identity(3), &prod, 1e-12)

	var inv mat.Dense
	require.NoError(t, inv.Inverse(c.K()))
	testutil.AssertMatrixNear(t, &inv, c.KInv(), 1e-12)
}

func TestCamera_IntrinsicsSurvivePoseChanges(t *testing.T) {
	t.Parallel()

	m := buildMap(t, world.Edge{geometry.V(0, 0), geometry.V(10, 0)})
	c := newTestCamera(t, m, 11, geometry.V(0, 0), 0)

	k := c.K()
	kInv := c.KInv()
	cachedK := c.k

	c.SetPosition(geometry.V(40, -3))
	c.SetYaw(1.2)
	_ = c.C2W()

	assert.Same(t, cachedK, c.k, "K must be memoised across pose changes")
	testutil.AssertMatrixNear(t, k, c.K(), 0)
	testutil.AssertMatrixNear(t, kInv, c.KInv(), 0)
}

func TestCamera_C2WAtYawZero(t *testing.T) {
	t.Parallel()

	m := buildMap(t, world.Edge{geometry.V(0, 0), geometry.V(10, 0)})
	c := newTestCamera(t, m, 11, geometry.V(3, 4), 0)

	want := mat.NewDense(4, 4, []float64{
		1, 0, 0, 3,
		0, 0, -1, 4,
		0, 1, 0, 0,
		0, 0, 0, 1,
	})
	testutil.AssertMatrixNear(t, want, c.C2W(), 1e-12)
}

func TestCamera_W2CInvertsC2W(t *testing.T) {
	t.Parallel()

	m := buildMap(t, world.Edge{geometry.V(0, 0), geometry.V(10, 0)})
	c := newTestCamera(t, m, 11, geometry.V(0, 0), 0)

	poses := []struct {
		pos geometry.Vec2
		yaw float64
	}{
		{geometry.V(0, 0), 0},
		{geometry.V(120, -45), 0.7},
		{geometry.V(-3.5, 900), -2.9},
		{geometry.V(1e4, 1e4), math.Pi},
	}
	for _, p := range poses {
		c.SetPosition(p.pos)
		c.SetYaw(p.yaw)

		var prod mat.Dense
		prod.Mul(c.W2C(), c.C2W())
		testutil.AssertMatrixNear(t, testutil.Identity(4), &prod, 1e-9)
	}
}

func TestCamera_ExtrinsicsInvalidation(t *testing.T) {
	t.Parallel()

	m := buildMap(t, world.Edge{geometry.V(0, 0), geometry.V(10, 0)})
	c := newTestCamera(t, m, 11, geometry.V(0, 0), 0)

	before := c.C2W()
	require.NotNil(t, c.ext)
	cached := c.ext
	beforeP := c.P()

	// Reads reuse the cache.
	_ = c.W2C()
	_ = c.P()
	assert.Same(t, cached, c.ext)

	c.SetPosition(geometry.V(5, 6))
	assert.Nil(t, c.ext)
	moved := c.C2W()
	assert.Equal(t, 5.0, moved.At(0, 3))
	assert.Equal(t, 6.0, moved.At(1, 3))
	assert.False(t, mat.Equal(before, moved))
	movedP := c.P()
	assert.False(t, mat.EqualApprox(beforeP, movedP, 1e-9), "P must follow SetPosition")
	assertPMatchesPose(t, c)

	c.SetYaw(math.Pi / 2)
	assert.Nil(t, c.ext)
	turned := c.C2W()
	// Look axis (third column) is R_yaw·(0, -1, 0) = (-sin, -cos, 0).
	assert.InDelta(t, -1.0, turned.At(0, 2), 1e-12)
	assert.InDelta(t, 0.0, turned.At(1, 2), 1e-12)
	assert.False(t, mat.EqualApprox(movedP, c.P(), 1e-9), "P must follow SetYaw")
	assertPMatchesPose(t, c)

	// Several mutations before a read cost one recomputation.
	c.SetYaw(0.1)
	c.SetYaw(0.2)
	c.SetPosition(geometry.V(1, 1))
	assert.Nil(t, c.ext)
	_ = c.P()
	assert.NotNil(t, c.ext)
	assertPMatchesPose(t, c)
}

// assertPMatchesPose checks P against K·W2C[:3,:] built from a fresh camera
// at c's current pose.
func assertPMatchesPose(t *testing.T, c *Camera) {
	t.Helper()
	fresh, err := New(c.walls, c.FocalLength(), c.ImageSize(), c.Position(), c.Yaw())
	require.NoError(t, err)

	var want mat.Dense
	want.Mul(fresh.K(), fresh.W2C().Slice(0, 3, 0, 4))
	testutil.AssertMatrixNear(t, &want, c.P(), 1e-9)
}

func TestCamera_PIsKTimesW2C(t *testing.T) {
	t.Parallel()

	m := buildMap(t, world.Edge{geometry.V(0, 0), geometry.V(10, 0)})
	c := newTestCamera(t, m, 21, geometry.V(7, -2), 0.4)

	var want mat.Dense
	want.Mul(c.K(), c.W2C().Slice(0, 3, 0, 4))
	p := c.P()
	r, cols := p.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, cols)
	testutil.AssertMatrixNear(t, &want, p, 1e-12)
}

func TestCamera_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	m := buildMap(t, world.Edge{geometry.V(0, 0), geometry.V(10, 0)})
	c := newTestCamera(t, m, 11, geometry.V(0, 0), 0)

	c.K().Set(0, 0, 999)
	c.C2W().Set(0, 3, 999)
	assert.Equal(t, 5.0, c.K().At(0, 0))
	assert.Equal(t, 0.0, c.C2W().At(0, 3))
}

func TestCamera_SingularPose(t *testing.T) {
	t.Parallel()

	m := buildMap(t, world.Edge{geometry.V(0, 0), geometry.V(10, 0)})
	c := newTestCamera(t, m, 11, geometry.V(0, 0), 0)

	c.SetPosition(geometry.V(math.NaN(), 0))
	_, _, _, err := c.Extrinsics()
	assert.ErrorIs(t, err, ErrSingularPose)

	_, err = c.RenderFrame()
	assert.ErrorIs(t, err, ErrSingularPose)

	assert.Panics(t, func() { c.C2W() })

	c.SetPosition(geometry.V(0, 0))
	c2w, w2c, p, err := c.Extrinsics()
	require.NoError(t, err)
	assert.NotNil(t, c2w)
	assert.NotNil(t, w2c)
	assert.NotNil(t, p)
}

func TestCamera_Project(t *testing.T) {
	t.Parallel()

	m := buildMap(t, world.Edge{geometry.V(0, 0), geometry.V(10, 0)})
	c := newTestCamera(t, m, 11, geometry.V(0, 0), 0)

	px, ok := c.Project(geometry.V(0, -50))
	require.True(t, ok)
	assert.InDelta(t, 5.0, px.X, 1e-9)
	assert.InDelta(t, 0.0, px.Y, 1e-9)

	px, ok = c.Project(geometry.V(10, -50))
	require.True(t, ok)
	assert.InDelta(t, 6.0, px.X, 1e-9)

	_, ok = c.Project(geometry.V(0, 50))
	assert.False(t, ok, "point behind the camera")
}
