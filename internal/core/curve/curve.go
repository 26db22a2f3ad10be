// Package curve turns pipe waypoints into a smooth parametric path.
//
// The path is a Catmull-Rom spline through every waypoint. Missing end neighbours are
// reflected from the adjacent point, so a two-point pipe is an exact straight segment.
// PointAt walks the path by arc length, which keeps particle speed uniform along pipes
// whose waypoints are unevenly spaced.
package curve

import (
	"math"
	"sort"

	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

const (
	DefaultTension   = 0.2
	DefaultDivisions = 200
	minSegments      = 80
	segmentsPerPoint = 20
)

// Curve is immutable once built.
type Curve struct {
	points    []geom.Vec3
	radius    float64
	tension   float64
	divisions int
	lengths   []float64
}

// Option configures a Curve.
type Option func(*Curve)

// WithTension sets the Catmull-Rom tension.
func WithTension(tension float64) Option {
	return func(c *Curve) {
		c.tension = tension
	}
}

// WithDivisions sets how many chords approximate the arc length table.
func WithDivisions(n int) Option {
	return func(c *Curve) {
		if n > 0 {
			c.divisions = n
		}
	}
}

// New builds a curve through waypoints. It fails with a configuration error on fewer than
// two waypoints, non-finite coordinates, a non-positive radius or a zero-length path.
func New(waypoints []geom.Vec3, radius float64, opts ...Option) (*Curve, error) {
	if len(waypoints) < 2 {
		return nil, twinerr.Configuration("curve needs at least 2 waypoints, got %d", len(waypoints))
	}
	for i, p := range waypoints {
		if !geom.Finite(p) {
			return nil, twinerr.Configuration("waypoint %d is not finite", i).WithContext("waypoint", p)
		}
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, twinerr.Configuration("pipe radius must be positive, got %v", radius)
	}

	c := &Curve{
		points:    append([]geom.Vec3(nil), waypoints...),
		radius:    radius,
		tension:   DefaultTension,
		divisions: DefaultDivisions,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.lengths = c.arcLengths()
	if c.Length() <= 0 {
		return nil, twinerr.Configuration("curve through %d waypoints has zero length", len(waypoints))
	}
	return c, nil
}

// Radius of the tube built around the curve.
func (c *Curve) Radius() float64 { return c.radius }

// Length is the approximate arc length.
func (c *Curve) Length() float64 { return c.lengths[len(c.lengths)-1] }

// Waypoints returns a copy of the control points.
func (c *Curve) Waypoints() []geom.Vec3 { return append([]geom.Vec3(nil), c.points...) }

// Segments is the tube resolution used when sampling the centreline for geometry.
func (c *Curve) Segments() int {
	return max(minSegments, len(c.points)*segmentsPerPoint)
}

// Point evaluates the spline at raw parameter t in [0,1]; t is clamped.
func (c *Curve) Point(t float64) geom.Vec3 {
	n := len(c.points)
	if t <= 0 || math.IsNaN(t) {
		return c.points[0]
	}
	if t >= 1 {
		return c.points[n-1]
	}

	p := float64(n-1) * t
	seg := int(math.Floor(p))
	w := p - float64(seg)
	if w == 0 {
		return c.points[seg]
	}

	p1 := c.points[seg]
	p2 := c.points[seg+1]
	var p0, p3 geom.Vec3
	if seg > 0 {
		p0 = c.points[seg-1]
	} else {
		p0 = p1.Mul(2).Sub(p2)
	}
	if seg+2 < n {
		p3 = c.points[seg+2]
	} else {
		p3 = p2.Mul(2).Sub(p1)
	}

	var out geom.Vec3
	for i := 0; i < 3; i++ {
		out[i] = hermite(p0[i], p1[i], p2[i], p3[i], c.tension, w)
	}
	return out
}

// PointAt evaluates the curve at arc-length fraction u in [0,1]; u is clamped.
func (c *Curve) PointAt(u float64) geom.Vec3 {
	return c.Point(c.uToT(u))
}

// TangentAt returns the unit direction of travel at arc-length fraction u.
func (c *Curve) TangentAt(u float64) geom.Vec3 {
	const delta = 1e-4
	t := c.uToT(u)
	t1, t2 := math.Max(0, t-delta), math.Min(1, t+delta)
	d := c.Point(t2).Sub(c.Point(t1))
	if d.Len() == 0 {
		return c.points[len(c.points)-1].Sub(c.points[0]).Normalize()
	}
	return d.Normalize()
}

// Samples returns n+1 evenly spaced (by arc length) points along the curve.
// n <= 0 uses Segments().
func (c *Curve) Samples(n int) []geom.Vec3 {
	if n <= 0 {
		n = c.Segments()
	}
	out := make([]geom.Vec3, n+1)
	for i := 0; i <= n; i++ {
		out[i] = c.PointAt(float64(i) / float64(n))
	}
	return out
}

func (c *Curve) arcLengths() []float64 {
	lengths := make([]float64, c.divisions+1)
	last := c.Point(0)
	sum := 0.0
	for i := 1; i <= c.divisions; i++ {
		cur := c.Point(float64(i) / float64(c.divisions))
		sum += geom.Distance(last, cur)
		lengths[i] = sum
		last = cur
	}
	return lengths
}

// uToT maps an arc-length fraction onto the raw spline parameter.
func (c *Curve) uToT(u float64) float64 {
	if u <= 0 || math.IsNaN(u) {
		return 0
	}
	if u >= 1 {
		return 1
	}
	target := u * c.Length()
	n := len(c.lengths)

	// last index whose cumulative length is <= target
	i := sort.Search(n, func(i int) bool { return c.lengths[i] > target }) - 1
	if i < 0 {
		return 0
	}
	if i >= n-1 {
		return 1
	}
	before := c.lengths[i]
	if before == target {
		return float64(i) / float64(n-1)
	}
	segLen := c.lengths[i+1] - before
	frac := (target - before) / segLen
	return (float64(i) + frac) / float64(n-1)
}

// hermite evaluates one Catmull-Rom segment between x1 and x2 at w in [0,1].
func hermite(x0, x1, x2, x3, tension, w float64) float64 {
	t0 := tension * (x2 - x0)
	t1 := tension * (x3 - x1)
	c2 := -3*x1 + 3*x2 - 2*t0 - t1
	c3 := 2*x1 - 2*x2 + t0 + t1
	return x1 + w*(t0+w*(c2+w*c3))
}
