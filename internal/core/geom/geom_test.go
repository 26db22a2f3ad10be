package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxIntersect(t *testing.T) {
	b := BoxFromCenter(V3(0, 1.5, 0), V3(6, 3, 3))

	d, ok := b.Intersect(Ray{Origin: V3(0, 1.5, 10), Dir: V3(0, 0, -1)})
	assert.True(t, ok)
	assert.InDelta(t, 8.5, d, 1e-9)

	_, ok = b.Intersect(Ray{Origin: V3(0, 10, 10), Dir: V3(0, 0, -1)})
	assert.False(t, ok)

	_, ok = b.Intersect(Ray{Origin: V3(0, 1.5, 10), Dir: V3(0, 0, 1)})
	assert.False(t, ok, "box behind the ray")
}

func TestBoxIntersectFromInside(t *testing.T) {
	b := BoxFromCenter(V3(0, 0, 0), V3(2, 2, 2))
	d, ok := b.Intersect(Ray{Origin: V3(0, 0, 0), Dir: V3(1, 0, 0)})
	assert.True(t, ok)
	assert.InDelta(t, 1, d, 1e-9)
	assert.True(t, b.ContainsPoint(V3(0.5, -0.5, 1)))
}

func TestCylinderIntersectSide(t *testing.T) {
	c := Cylinder{Center: V3(0, 2.6, 0), Radius: 1.6, Height: 5.2}

	d, ok := c.Intersect(Ray{Origin: V3(10, 2.6, 0), Dir: V3(-1, 0, 0)})
	assert.True(t, ok)
	assert.InDelta(t, 8.4, d, 1e-9)

	_, ok = c.Intersect(Ray{Origin: V3(10, 9, 0), Dir: V3(-1, 0, 0)})
	assert.False(t, ok, "passes above the top cap")
}

func TestCylinderIntersectCap(t *testing.T) {
	c := Cylinder{Center: V3(0, 2.5, 0), Radius: 1.3, Height: 4.2}
	d, ok := c.Intersect(Ray{Origin: V3(0.5, 20, 0), Dir: V3(0, -1, 0)})
	assert.True(t, ok)
	assert.InDelta(t, 20-4.6, d, 1e-9)
}

func TestFiniteAndHelpers(t *testing.T) {
	assert.True(t, Finite(V3(1, 2, 3)))
	assert.False(t, Finite(V3(math.NaN(), 0, 0)))
	assert.False(t, Finite(V3(0, math.Inf(1), 0)))
	assert.InDelta(t, 5, Distance(V3(0, 0, 0), V3(3, 4, 0)), 1e-12)
	assert.Equal(t, V3(1, 1, 1), Lerp(V3(0, 0, 0), V3(2, 2, 2), 0.5))
	assert.Equal(t, V3(0, 0, 4), Ray{Origin: V3(0, 0, 0), Dir: V3(0, 0, 1)}.At(4))
}
