package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

func TestTrunkEndpoints(t *testing.T) {
	start, end := geom.V3(-40, 1.8, -12), geom.V3(-30, 1.8, 16)
	c, err := New([]geom.Vec3{start, end}, 0.18)
	require.NoError(t, err)

	assert.Equal(t, start, c.PointAt(0))
	assert.True(t, c.PointAt(1).ApproxEqualThreshold(end, 1e-9))
	assert.True(t, c.PointAt(0.999999).ApproxEqualThreshold(end, 1e-3))
	assert.InDelta(t, geom.Distance(start, end), c.Length(), 1e-6)
	assert.Equal(t, 0.18, c.Radius())
	assert.Equal(t, 80, c.Segments())
}

func TestStraightPipeStaysOnSegment(t *testing.T) {
	start, end := geom.V3(-20, 1.2, 3), geom.V3(20, 1.2, 3)
	c, err := New([]geom.Vec3{start, end}, 0.16)
	require.NoError(t, err)

	prevX := math.Inf(-1)
	for _, p := range c.Samples(50) {
		assert.InDelta(t, 1.2, p.Y(), 1e-12)
		assert.InDelta(t, 3, p.Z(), 1e-12)
		assert.Greater(t, p.X(), prevX-1e-12, "path must not fold back")
		prevX = p.X()
	}
}

func TestArcLengthIsUniform(t *testing.T) {
	c, err := New([]geom.Vec3{geom.V3(0, 0, 0), geom.V3(10, 0, 0)}, 0.1)
	require.NoError(t, err)

	for _, u := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		assert.InDelta(t, 10*u, c.PointAt(u).X(), 0.05, "u=%v", u)
	}
}

func TestPassesThroughEveryWaypoint(t *testing.T) {
	pts := []geom.Vec3{
		geom.V3(0, 0, 0),
		geom.V3(4, 0, 1),
		geom.V3(8, 1, 1),
		geom.V3(12, 1, 0),
	}
	c, err := New(pts, 0.12)
	require.NoError(t, err)

	for i, p := range pts {
		raw := float64(i) / float64(len(pts)-1)
		assert.True(t, c.Point(raw).ApproxEqualThreshold(p, 1e-12), "waypoint %d", i)
	}
	assert.Len(t, c.Samples(0), c.Segments()+1)
	assert.Equal(t, pts, c.Waypoints())
}

func TestTangentFollowsDirection(t *testing.T) {
	c, err := New([]geom.Vec3{geom.V3(0, 0, 0), geom.V3(0, 0, 5)}, 0.1)
	require.NoError(t, err)
	assert.True(t, c.TangentAt(0.5).ApproxEqualThreshold(geom.V3(0, 0, 1), 1e-6))
}

func TestRejectsDegenerateInput(t *testing.T) {
	cases := map[string]struct {
		pts    []geom.Vec3
		radius float64
	}{
		"no points":    {nil, 0.1},
		"single point": {[]geom.Vec3{geom.V3(1, 1, 1)}, 0.1},
		"nan":          {[]geom.Vec3{geom.V3(0, 0, 0), geom.V3(math.NaN(), 0, 0)}, 0.1},
		"zero radius":  {[]geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0)}, 0},
		"zero length":  {[]geom.Vec3{geom.V3(2, 2, 2), geom.V3(2, 2, 2)}, 0.1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, err := New(tc.pts, tc.radius)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, twinerr.ErrConfiguration)
		})
	}
}

func TestOptions(t *testing.T) {
	c, err := New([]geom.Vec3{geom.V3(0, 0, 0), geom.V3(1, 0, 0)}, 0.1, WithTension(0.5), WithDivisions(10))
	require.NoError(t, err)
	assert.Len(t, c.lengths, 11)
	assert.InDelta(t, 1, c.Length(), 1e-9)
}
