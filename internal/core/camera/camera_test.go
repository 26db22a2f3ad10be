package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

func TestNewRejectsMissingSurface(t *testing.T) {
	_, err := New(0, 600)
	assert.ErrorIs(t, err, twinerr.ErrRenderSurfaceUnavailable)

	c, err := New(800, 600)
	require.NoError(t, err)
	assert.ErrorIs(t, c.Resize(800, -1), twinerr.ErrRenderSurfaceUnavailable)
	w, h := c.Size()
	assert.Equal(t, 800, w, "failed resize keeps old size")
	assert.Equal(t, 600, h)
}

func TestResizeChangesAspect(t *testing.T) {
	c, err := New(800, 600)
	require.NoError(t, err)
	require.NoError(t, c.Resize(1920, 1080))
	assert.InDelta(t, 16.0/9.0, c.Aspect(), 1e-12)
	assert.Equal(t, 1920, c.Pose().Width)
}

func TestCentreRayPointsAtTarget(t *testing.T) {
	c, err := New(1200, 800)
	require.NoError(t, err)

	r := c.Ray(0, 0)
	want := HomeTarget.Sub(HomePosition).Normalize()
	assert.True(t, r.Dir.ApproxEqualThreshold(want, 1e-9))
	assert.Equal(t, HomePosition, r.Origin)
}

func TestProjectInvertsRay(t *testing.T) {
	c, err := New(1000, 500)
	require.NoError(t, err)

	px, py, ok := c.Project(HomeTarget)
	require.True(t, ok)
	assert.InDelta(t, 500, px, 1e-6)
	assert.InDelta(t, 250, py, 1e-6)

	_, _, ok = c.Project(HomePosition.Add(HomePosition.Sub(HomeTarget)))
	assert.False(t, ok, "point behind the camera")
}

func TestAutoRotateKeepsDistance(t *testing.T) {
	c, err := New(800, 600)
	require.NoError(t, err)

	d0 := geom.Distance(c.Position(), c.Target())
	for i := 0; i < 120; i++ {
		c.Update(1.0 / 60)
	}
	assert.InDelta(t, d0, geom.Distance(c.Position(), c.Target()), 1e-9)
	assert.NotEqual(t, HomePosition, c.Position())
	assert.InDelta(t, HomePosition.Y(), c.Position().Y(), 1e-9)

	c.SetAutoRotate(false)
	p := c.Position()
	c.Update(1)
	assert.Equal(t, p, c.Position())
}

func TestIntroEasesToIntroPosition(t *testing.T) {
	c, err := New(800, 600)
	require.NoError(t, err)
	c.SetAutoRotate(false)

	c.StartIntro()
	c.Update(IntroDuration / 2)
	assert.True(t, c.Intro())
	mid := c.Position()
	assert.NotEqual(t, HomePosition, mid)
	assert.NotEqual(t, IntroPosition, mid)

	c.Update(IntroDuration)
	assert.False(t, c.Intro())
	assert.True(t, c.Position().ApproxEqualThreshold(IntroPosition, 1e-9))

	c.Reset()
	assert.Equal(t, HomePosition, c.Position())
	assert.Equal(t, HomeTarget, c.Target())
}
