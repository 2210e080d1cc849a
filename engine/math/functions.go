package math

import (
	m "math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	/** @brief A huge number that should be larger than any valid number used. */
	K_INFINITY float32 = 1e30
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

// DepthLimit bounds every depth key handed to the sorter.
const DepthLimit = K_INFINITY

// ModelView combines a world and a view transform so that the world
// transform is applied first.
func ModelView(world, view Mat4) Mat4 {
	return view.Mul4(world)
}

// ZRow returns the row of mv that produces the camera-space Z of a point.
func ZRow(mv Mat4) Vec4 {
	return mv.Row(2)
}

// IsZPassThrough reports whether the Z row of mv leaves Z untouched, in which
// case the object-space Z already is the camera-space Z.
func IsZPassThrough(zRow Vec4) bool {
	return zRow[0] == 0 && zRow[1] == 0 && zRow[2] == 1 && zRow[3] == 0
}

// ViewDepth returns the camera-space Z of p given the Z row of a model-view matrix.
func ViewDepth(zRow Vec4, p Vec3) float32 {
	return zRow[0]*p[0] + zRow[1]*p[1] + zRow[2]*p[2] + zRow[3]
}

// SphereDepth computes the sort key of a bounding sphere: the camera-space Z
// of its center.
func SphereDepth(world, view Mat4, s Sphere) float32 {
	return ModelView(world, view).Mul4x1(s.Center.Vec4(1)).Z()
}

// BoundingSphere returns the sphere centred on the centroid of the given
// positions and enclosing all of them.
func BoundingSphere(vertices []Vertex3D) Sphere {
	if len(vertices) == 0 {
		return Sphere{}
	}
	var center Vec3
	for i := range vertices {
		center = center.Add(vertices[i].Position)
	}
	center = center.Mul(1 / float32(len(vertices)))
	var radius float32
	for i := range vertices {
		if d := vertices[i].Position.Sub(center).Len(); d > radius {
			radius = d
		}
	}
	return Sphere{Center: center, Radius: radius}
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !m.IsNaN(float64(f)) && !m.IsInf(float64(f), 0)
}

// SanitizeDepth replaces a NaN or infinite depth with fallback and clamps
// the result to [-DepthLimit, DepthLimit]. A NaN fallback yields 0.
func SanitizeDepth(depth, fallback float32) float32 {
	if !IsFinite(depth) {
		depth = fallback
	}
	if depth != depth {
		depth = 0
	}
	return Clamp(depth, -DepthLimit, DepthLimit)
}

// FloatEqual compares two floats with the engine tolerance.
func FloatEqual(a, b float32) bool {
	return mgl32.FloatEqualThreshold(a, b, K_FLOAT_EPSILON*4)
}

// Ident4 returns the identity matrix.
func Ident4() Mat4 {
	return mgl32.Ident4()
}

// Translate3D returns a translation matrix.
func Translate3D(x, y, z float32) Mat4 {
	return mgl32.Translate3D(x, y, z)
}

// LookAt builds a view matrix for an eye looking at center in which
// camera-space Z grows with the distance in front of the eye.
func LookAt(eye, center, up Vec3) Mat4 {
	return mgl32.Scale3D(1, 1, -1).Mul4(mgl32.LookAtV(eye, center, up))
}
