package render

import (
	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
	"github.com/taigrr/fxtrophy/pkg/raster"
)

// maxPitch keeps the camera one degree short of straight up or down.
var maxPitch = fixed.FromInt(89)

// Camera is a perspective camera in a right-handed, Y-up world. With zero
// angles it looks down -Z. View space has X right, Y up and Z pointing away
// from the camera, which is what raster's perspective projection expects.
type Camera struct {
	// Position in world space
	Position math3d.Vec4

	// Orientation in degrees
	Pitch fixed.Scalar // Rotation around X axis (look up/down)
	Yaw   fixed.Scalar // Rotation around Y axis (look left/right)
	Roll  fixed.Scalar // Rotation around Z axis (tilt)

	// Projection parameters
	FOV  fixed.Scalar // Vertical field of view in degrees
	Near fixed.Scalar // Near plane distance
	Far  fixed.Scalar // Far plane distance

	// Cached view matrix
	view      math3d.Mat4
	viewDirty bool
}

// NewCamera creates a camera at (0, 0, 5) looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position:  math3d.PointInt(0, 0, 5),
		FOV:       fixed.FromInt(60),
		Near:      fixed.FromFraction(1, 10),
		Far:       fixed.FromInt(100),
		viewDirty: true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec4) {
	c.Position = pos
	c.viewDirty = true
}

// SetRotation sets pitch, yaw and roll in degrees.
func (c *Camera) SetRotation(pitch, yaw, roll fixed.Scalar) {
	c.Pitch = fixed.Clamp(pitch, -maxPitch, maxPitch)
	c.Yaw = fixed.NormalizeAngle(yaw)
	c.Roll = fixed.NormalizeAngle(roll)
	c.viewDirty = true
}

// Rotate adds to the current angles. Pitch is clamped short of vertical.
func (c *Camera) Rotate(deltaPitch, deltaYaw, deltaRoll fixed.Scalar) {
	c.SetRotation(c.Pitch+deltaPitch, c.Yaw+deltaYaw, c.Roll+deltaRoll)
}

// orientation sets m to the camera's rotation: roll, then pitch, then yaw.
func (c *Camera) orientation(m *math3d.Mat4) *math3d.Mat4 {
	var rx, ry math3d.Mat4
	math3d.RotationZ(m, c.Roll)
	math3d.RotationX(&rx, c.Pitch)
	math3d.RotationY(&ry, c.Yaw)
	m.Mul(m, &rx)
	return m.Mul(m, &ry)
}

// Forward returns the unit viewing direction in world space.
func (c *Camera) Forward() math3d.Vec4 {
	var m math3d.Mat4
	return c.orientation(&m).MulDir(math3d.Dir(0, 0, -fixed.One))
}

// Right returns the unit right direction in world space.
func (c *Camera) Right() math3d.Vec4 {
	var m math3d.Mat4
	return c.orientation(&m).MulDir(math3d.Dir(fixed.One, 0, 0))
}

// Up returns the unit up direction in world space.
func (c *Camera) Up() math3d.Vec4 {
	var m math3d.Mat4
	return c.orientation(&m).MulDir(math3d.Dir(0, fixed.One, 0))
}

// ViewMatrix returns the world-to-view matrix, rebuilding it if the camera
// moved since the last call.
func (c *Camera) ViewMatrix() *math3d.Mat4 {
	if c.viewDirty {
		c.computeViewMatrix()
		c.viewDirty = false
	}
	return &c.view
}

func (c *Camera) computeViewMatrix() {
	// View = Translation(-position) * inverse rotation * flip Z
	var rot, tmp math3d.Mat4
	math3d.Translation(&c.view, -c.Position.X, -c.Position.Y, -c.Position.Z)
	c.view.Mul(&c.view, math3d.RotationY(&tmp, -c.Yaw))
	c.view.Mul(&c.view, math3d.RotationX(&tmp, -c.Pitch))
	c.view.Mul(&c.view, math3d.RotationZ(&rot, -c.Roll))
	c.view.Mul(&c.view, math3d.Scaling(&tmp, fixed.One, fixed.One, -fixed.One))
}

// MoveForward moves the camera forward (or backward if negative).
func (c *Camera) MoveForward(distance fixed.Scalar) {
	f := c.Forward()
	c.Position.Add(*f.Scale(distance))
	c.viewDirty = true
}

// MoveRight moves the camera right (or left if negative).
func (c *Camera) MoveRight(distance fixed.Scalar) {
	r := c.Right()
	c.Position.Add(*r.Scale(distance))
	c.viewDirty = true
}

// MoveUp moves the camera along world up (or down if negative).
func (c *Camera) MoveUp(distance fixed.Scalar) {
	c.Position.Y += distance
	c.viewDirty = true
}

// LookAt turns the camera towards target and clears the roll.
func (c *Camera) LookAt(target math3d.Vec4) {
	dir := target
	dir.Sub(c.Position)
	dir.W = 0
	dir.Normalize()
	if dir.X == 0 && dir.Y == 0 && dir.Z == 0 {
		return
	}

	pitch := fixed.Asin(fixed.Clamp(dir.Y, -fixed.One, fixed.One))

	// yaw from the horizontal part of the direction: forward is
	// (-sin yaw, ., -cos yaw)
	var yaw fixed.Scalar
	h := math3d.Dir(dir.X, 0, dir.Z)
	if h.Length() > 0 {
		h.Normalize()
		yaw = fixed.Acos(fixed.Clamp(-h.Z, -fixed.One, fixed.One))
		if h.X > 0 {
			yaw = -yaw
		}
	}
	c.SetRotation(pitch, yaw, 0)
}

// Bounds returns the view-plane bounds at distance One for a target with the
// given pixel aspect ratio (width/height).
func (c *Camera) Bounds(width, height int) math3d.Bounds {
	top := fixed.Tan(c.FOV / 2)
	right := fixed.Scalar(fixed.MulDiv(int64(top), int64(width), int64(max(height, 1))))
	return math3d.Bounds{
		Left: -right, Right: right,
		Top: top, Bottom: -top,
		Near: c.Near, Far: c.Far,
	}
}

// Frustum returns a perspective frustum for a width×height target.
func (c *Camera) Frustum(width, height int) (*raster.Frustum, error) {
	return raster.NewFrustum(c.Bounds(width, height), fixed.One, raster.Perspective, width, height)
}

// UpdateFrustum refreshes f after the field of view, clip planes or target
// size changed.
func (c *Camera) UpdateFrustum(f *raster.Frustum) {
	f.SetBounds(c.Bounds(f.Width(), f.Height()))
	f.SetFocal(fixed.One)
}

// WorldToScreen projects a world point through f. It returns the pixel
// position, the depth in [0, One] and whether the point is in front of the
// near plane and inside the target.
func (c *Camera) WorldToScreen(world math3d.Vec4, f *raster.Frustum) (x, y fixed.Scalar, depth fixed.Scalar, visible bool) {
	view := c.ViewMatrix().MulVec(world)
	if view.Z < c.Near {
		return 0, 0, 0, false
	}
	p := f.Project(view)
	visible = p.X >= 0 && p.Y >= 0 &&
		p.X < fixed.FromInt(f.Width()) && p.Y < fixed.FromInt(f.Height()) &&
		p.Z <= fixed.One
	return p.X, p.Y, p.Z, visible
}
