package components

import (
	m "math"

	"github.com/spaghettifunk/depthsort/engine/math"
)

/**
 * @brief Represents a camera producing the view transform handed to the
 * device. Camera-space Z grows with the distance in front of the camera.
 */
type Camera struct {
	/**
	 * @brief The position of this camera.
	 * NOTE: Do not set this directly, use SetPosition() instead
	 * so the view matrix is recalculated when needed.
	 */
	Position math.Vec3
	/**
	 * @brief The rotation of this camera using Euler angles (pitch, yaw, roll).
	 * Roll is ignored.
	 */
	EulerRotation math.Vec3
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	IsDirty bool
	/**
	 * @brief The view matrix of this camera.
	 * NOTE: IMPORTANT: Do not get this directly, use GetView() instead
	 * so the view matrix is recalculated when needed.
	 */
	ViewMatrix math.Mat4
}

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

// 89 degrees, avoids gimbal lock.
const pitchLimit float32 = 1.55334306

var worldUp = math.Vec3{0, 1, 0}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.EulerRotation = math.Vec3{}
	c.Position = math.Vec3{}
	c.IsDirty = false
	c.ViewMatrix = math.LookAt(c.Position, c.Position.Add(c.Forward()), worldUp)
}

func (c *Camera) GetPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) GetEulerRotation() math.Vec3 {
	return c.EulerRotation
}

func (c *Camera) SetEulerRotation(rotation math.Vec3) {
	c.EulerRotation = rotation
	c.EulerRotation[0] = math.Clamp(c.EulerRotation[0], -pitchLimit, pitchLimit)
	c.IsDirty = true
}

// LookAtPoint turns the camera towards target.
func (c *Camera) LookAtPoint(target math.Vec3) {
	dir := target.Sub(c.Position)
	if dir.Len() == 0 {
		return
	}
	dir = dir.Normalize()
	pitch := float32(m.Asin(float64(dir.Y())))
	yaw := float32(m.Atan2(float64(dir.X()), float64(dir.Z())))
	c.SetEulerRotation(math.Vec3{pitch, yaw, 0})
}

func (c *Camera) GetView() math.Mat4 {
	if c.IsDirty {
		c.ViewMatrix = math.LookAt(c.Position, c.Position.Add(c.Forward()), worldUp)
		c.IsDirty = false
	}
	return c.ViewMatrix
}

// Forward is the unit view direction derived from pitch and yaw.
func (c *Camera) Forward() math.Vec3 {
	pitch, yaw := float64(c.EulerRotation.X()), float64(c.EulerRotation.Y())
	return math.Vec3{
		float32(m.Cos(pitch) * m.Sin(yaw)),
		float32(m.Sin(pitch)),
		float32(m.Cos(pitch) * m.Cos(yaw)),
	}
}

func (c *Camera) Backward() math.Vec3 {
	return c.Forward().Mul(-1)
}

func (c *Camera) Left() math.Vec3 {
	return c.Right().Mul(-1)
}

func (c *Camera) Right() math.Vec3 {
	return worldUp.Cross(c.Forward()).Normalize()
}

func (c *Camera) move(direction math.Vec3, amount float32) {
	c.Position = c.Position.Add(direction.Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveForward(amount float32) {
	c.move(c.Forward(), amount)
}

func (c *Camera) MoveBackward(amount float32) {
	c.move(c.Backward(), amount)
}

func (c *Camera) MoveLeft(amount float32) {
	c.move(c.Left(), amount)
}

func (c *Camera) MoveRight(amount float32) {
	c.move(c.Right(), amount)
}

func (c *Camera) MoveUp(amount float32) {
	c.move(worldUp, amount)
}

func (c *Camera) MoveDown(amount float32) {
	c.move(worldUp, -amount)
}

func (c *Camera) Yaw(amount float32) {
	c.EulerRotation[1] += amount
	c.IsDirty = true
}

func (c *Camera) Pitch(amount float32) {
	c.EulerRotation[0] = math.Clamp(c.EulerRotation[0]+amount, -pitchLimit, pitchLimit)
	c.IsDirty = true
}
