package metadata

/**
 * @brief Represents various types of textures.
 */
type TextureType int

const (
	/** @brief A standard two-dimensional texture. */
	TextureType2d TextureType = iota
	/** @brief A cube texture, used for cubemaps. */
	TextureTypeCube
)

// MaxTextureStages is the number of texture stages captured in a render state.
const MaxTextureStages = 8

/**
 * @brief Represents a texture bound to one of the device's texture stages.
 */
type Texture struct {
	RefCount
	/** @brief The unique texture identifier. */
	ID uint32
	/** @brief The texture name. */
	Name string
	/** @brief The texture type. */
	TextureType TextureType
	/** @brief Indicates if the texture has transparency. */
	HasTransparency bool
	Width           uint32
	Height          uint32
}

func (t *Texture) ResourceType() ResourceType {
	return ResourceTypeTexture
}
