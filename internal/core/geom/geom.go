// Package geom holds the small amount of 3D math the twin needs on top of mgl64:
// rays, axis-aligned boxes and vertical cylinders used as pick proxies.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is the vector type used across the twin.
type Vec3 = mgl64.Vec3

// V3 is shorthand for a Vec3 literal.
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Finite reports whether every component is a finite number.
func Finite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Distance computes Euclidean distance between two points.
func Distance(a, b Vec3) float64 { return b.Sub(a).Len() }

// Lerp interpolates between a and b.
func Lerp(a, b Vec3, k float64) Vec3 { return a.Add(b.Sub(a).Mul(k)) }

// Ray is a half line. Dir is expected to be normalised.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// Shape is anything a ray can be tested against.
type Shape interface {
	// Intersect returns the smallest non-negative ray parameter of a hit.
	Intersect(r Ray) (float64, bool)
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// BoxFromCenter builds a box from its centre and full size.
func BoxFromCenter(center, size Vec3) Box {
	half := size.Mul(0.5)
	return Box{Min: center.Sub(half), Max: center.Add(half)}
}

func (b Box) Center() Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

func (b Box) ContainsPoint(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Intersect uses the slab method.
func (b Box) Intersect(r Ray) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if r.Dir[i] == 0 {
			if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / r.Dir[i]
		t1 := (b.Min[i] - r.Origin[i]) * inv
		t2 := (b.Max[i] - r.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Cylinder is a capped cylinder whose axis is parallel to Y.
type Cylinder struct {
	Center Vec3
	Radius float64
	Height float64
}

// Intersect tests the side wall and both caps and returns the nearest hit.
func (c Cylinder) Intersect(r Ray) (float64, bool) {
	half := c.Height / 2
	yMin, yMax := c.Center[1]-half, c.Center[1]+half
	best, hit := math.Inf(1), false

	consider := func(t float64) {
		if t >= 0 && t < best {
			best, hit = t, true
		}
	}

	ox, oz := r.Origin[0]-c.Center[0], r.Origin[2]-c.Center[2]
	dx, dz := r.Dir[0], r.Dir[2]
	a := dx*dx + dz*dz
	if a > 1e-12 {
		bq := 2 * (ox*dx + oz*dz)
		cq := ox*ox + oz*oz - c.Radius*c.Radius
		disc := bq*bq - 4*a*cq
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-bq - sq) / (2 * a), (-bq + sq) / (2 * a)} {
				if y := r.Origin[1] + t*r.Dir[1]; y >= yMin && y <= yMax {
					consider(t)
				}
			}
		}
	}

	if r.Dir[1] != 0 {
		for _, capY := range [2]float64{yMin, yMax} {
			t := (capY - r.Origin[1]) / r.Dir[1]
			px, pz := ox+t*dx, oz+t*dz
			if px*px+pz*pz <= c.Radius*c.Radius {
				consider(t)
			}
		}
	}

	return best, hit
}
