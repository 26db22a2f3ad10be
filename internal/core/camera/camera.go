// Package camera models the orbit camera the picker casts rays through.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

// Defaults taken from the facility scene.
var (
	HomePosition  = geom.V3(42, 28, 44)
	HomeTarget    = geom.V3(0, 2.5, 0)
	IntroPosition = geom.V3(34, 22, 38)
	up            = geom.V3(0, 1, 0)
)

const (
	DefaultFOV             = 50.0
	DefaultNear            = 0.1
	DefaultFar             = 2000.0
	DefaultAutoRotateSpeed = 0.4
	IntroDuration          = 1.6
	MinDistance            = 10.0
	MaxDistance            = 160.0
)

// Pose is a copy of the camera state for readers.
type Pose struct {
	Position   geom.Vec3
	Target     geom.Vec3
	Width      int
	Height     int
	Aspect     float64
	AutoRotate bool
	ViewProj   mgl64.Mat4
}

// Project maps a world point to surface pixels; ok is false behind the camera.
func (p Pose) Project(v geom.Vec3) (px, py float64, ok bool) {
	clip := p.ViewProj.Mul4x1(v.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	px = (ndc.X() + 1) / 2 * float64(p.Width)
	py = (1 - ndc.Y()) / 2 * float64(p.Height)
	return px, py, true
}

type intro struct {
	from    geom.Vec3
	to      geom.Vec3
	elapsed float64
}

// Camera is a perspective camera orbiting a target. Not safe for concurrent use;
// the scene lock guards it.
type Camera struct {
	fov, near, far  float64
	position        geom.Vec3
	target          geom.Vec3
	width, height   int
	autoRotate      bool
	autoRotateSpeed float64
	intro           *intro
}

// New creates a camera for a width×height surface. A missing or empty surface
// is a RenderSurfaceUnavailable error.
func New(width, height int) (*Camera, error) {
	c := &Camera{
		fov:             DefaultFOV,
		near:            DefaultNear,
		far:             DefaultFar,
		position:        HomePosition,
		target:          HomeTarget,
		autoRotate:      true,
		autoRotateSpeed: DefaultAutoRotateSpeed,
	}
	if err := c.Resize(width, height); err != nil {
		return nil, err
	}
	return c, nil
}

// Resize propagates a new surface size to the projection.
func (c *Camera) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return twinerr.RenderSurfaceUnavailable("surface size %dx%d", width, height)
	}
	c.width, c.height = width, height
	return nil
}

func (c *Camera) Size() (int, int) { return c.width, c.height }

func (c *Camera) Aspect() float64 { return float64(c.width) / float64(c.height) }

func (c *Camera) Position() geom.Vec3 { return c.position }

func (c *Camera) Target() geom.Vec3 { return c.target }

func (c *Camera) AutoRotate() bool { return c.autoRotate }

func (c *Camera) SetAutoRotate(on bool) { c.autoRotate = on }

// Projection is the perspective matrix for the current aspect.
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.fov), c.Aspect(), c.near, c.far)
}

// View is the look-at matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.position, c.target, up)
}

// Reset returns to the home pose and cancels the intro.
func (c *Camera) Reset() {
	c.position = HomePosition
	c.target = HomeTarget
	c.intro = nil
}

// StartIntro eases the camera from where it is to IntroPosition.
func (c *Camera) StartIntro() {
	c.intro = &intro{from: c.position, to: IntroPosition}
}

// Intro reports whether the intro animation is still running.
func (c *Camera) Intro() bool { return c.intro != nil }

// Update advances the intro and the auto-rotate orbit by dt seconds.
func (c *Camera) Update(dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}
	if in := c.intro; in != nil {
		in.elapsed += dt
		k := math.Min(1, in.elapsed/IntroDuration)
		ease := 1 - math.Pow(1-k, 3)
		c.position = geom.Lerp(in.from, in.to, ease)
		if k >= 1 {
			c.intro = nil
		}
	}
	if c.autoRotate {
		c.orbit(-2 * math.Pi / 60 * c.autoRotateSpeed * dt)
	}
	c.clampDistance()
}

// orbit rotates the position around the target about the vertical axis.
func (c *Camera) orbit(angle float64) {
	offset := c.position.Sub(c.target)
	rot := mgl64.Rotate3DY(angle)
	c.position = c.target.Add(rot.Mul3x1(offset))
}

func (c *Camera) clampDistance() {
	offset := c.position.Sub(c.target)
	d := offset.Len()
	if d == 0 {
		return
	}
	if clamped := mgl64.Clamp(d, MinDistance, MaxDistance); clamped != d {
		c.position = c.target.Add(offset.Mul(clamped / d))
	}
}

// Ray returns the world-space ray through normalised device coordinates (x, y) in [-1,1].
func (c *Camera) Ray(x, y float64) geom.Ray {
	inv := c.Projection().Mul4(c.View()).Inv()
	p := inv.Mul4x1(mgl64.Vec4{x, y, 0.5, 1})
	world := p.Vec3().Mul(1 / p.W())
	return geom.Ray{Origin: c.position, Dir: world.Sub(c.position).Normalize()}
}

// Project maps a world point to surface pixels; ok is false behind the camera.
func (c *Camera) Project(p geom.Vec3) (px, py float64, ok bool) {
	return c.Pose().Project(p)
}

// Pose copies the camera state.
func (c *Camera) Pose() Pose {
	return Pose{
		Position:   c.position,
		Target:     c.target,
		Width:      c.width,
		Height:     c.height,
		Aspect:     c.Aspect(),
		AutoRotate: c.autoRotate,
		ViewProj:   c.Projection().Mul4(c.View()),
	}
}
