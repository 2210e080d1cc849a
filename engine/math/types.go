package math

import "github.com/go-gl/mathgl/mgl32"

// Vec2, Vec3, Vec4 and Mat4 are the mgl32 types used throughout the engine.
// Mat4 is column-major and multiplies column vectors.
type (
	Vec2 = mgl32.Vec2
	Vec3 = mgl32.Vec3
	Vec4 = mgl32.Vec4
	Mat4 = mgl32.Mat4
)

/**
 * @brief A bounding sphere in object space. Only used for coarse depth
 * estimation of a whole batch.
 */
type Sphere struct {
	/** @brief The center of the sphere. */
	Center Vec3
	/** @brief The radius of the sphere. */
	Radius float32
}

/**
 * @brief Represents a single vertex in 3D space.
 */
type Vertex3D struct {
	/** @brief The position of the vertex */
	Position Vec3
	/** @brief The normal of the vertex. */
	Normal Vec3
	/** @brief The texture coordinate of the vertex. */
	Texcoord Vec2
	/** @brief The colour of the vertex. */
	Colour Vec4
}
