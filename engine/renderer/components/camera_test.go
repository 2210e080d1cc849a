package components

import (
	"testing"

	"github.com/spaghettifunk/depthsort/engine/math"
)

func TestCameraDepthGrowsAlongForward(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.Vec3{0, 0, -10})
	c.LookAtPoint(math.Vec3{})
	view := c.GetView()

	near := math.SphereDepth(math.Ident4(), view, math.Sphere{Center: math.Vec3{0, 0, -4}})
	far := math.SphereDepth(math.Ident4(), view, math.Sphere{Center: math.Vec3{0, 0, 4}})
	if !math.FloatEqual(near, 6) || !math.FloatEqual(far, 14) {
		t.Errorf("depths = %v, %v, want 6, 14", near, far)
	}
}

func TestCameraPitchClamped(t *testing.T) {
	c := NewCamera()
	c.Pitch(10)
	if c.EulerRotation.X() != pitchLimit {
		t.Errorf("pitch = %v, want %v", c.EulerRotation.X(), pitchLimit)
	}
}

func TestCameraViewCached(t *testing.T) {
	c := NewCamera()
	c.MoveForward(2)
	if !c.IsDirty {
		t.Fatal("moving should mark the view dirty")
	}
	v := c.GetView()
	if c.IsDirty {
		t.Error("GetView should rebuild the view")
	}
	depth := math.SphereDepth(math.Ident4(), v, math.Sphere{Center: math.Vec3{0, 0, 5}})
	if !math.FloatEqual(depth, 3) {
		t.Errorf("depth = %v, want 3", depth)
	}
}
