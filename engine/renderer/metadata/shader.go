package metadata

type BlendMode uint8

const (
	BlendModeOpaque BlendMode = iota
	BlendModeAlpha
	BlendModeAdditive
	BlendModeMultiply
)

/**
 * @brief The fixed-function part of the pipeline captured with each batch.
 */
type ShaderMode struct {
	Blend        BlendMode
	DepthWrite   bool
	DepthCompare bool
	CullBackFace bool
}

// TransparentShaderMode is the usual state for sorted translucent geometry.
func TransparentShaderMode() ShaderMode {
	return ShaderMode{
		Blend:        BlendModeAlpha,
		DepthWrite:   false,
		DepthCompare: true,
		CullBackFace: false,
	}
}

type TransformKind uint8

const (
	TransformWorld TransformKind = iota
	TransformView
)
