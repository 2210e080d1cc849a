package metadata

import "github.com/spaghettifunk/depthsort/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief A material, which represents various properties
 * of a surface in the world such as colour and shininess.
 */
type Material struct {
	RefCount
	/** @brief The material id. */
	ID uint32
	/** @brief The material name. */
	Name string
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
	/** @brief The material shininess, determines how concentrated the specular lighting is. */
	Shininess float32
	/** @brief When false the device ignores every light slot. */
	LightingEnabled bool
}

func (m *Material) ResourceType() ResourceType {
	return ResourceTypeMaterial
}
