package metadata

import "github.com/spaghettifunk/depthsort/engine/math"

// MaxLights is the number of light slots captured in a render state.
// Lights occupy a contiguous prefix starting at slot 0.
const MaxLights = 4

type LightType int

const (
	LightTypeDirectional LightType = iota
	LightTypePoint
	LightTypeSpot
)

type Light struct {
	RefCount
	ID        uint32
	LightType LightType
	Position  math.Vec3
	Direction math.Vec3
	Colour    math.Vec4
	Range     float32
}

func (l *Light) ResourceType() ResourceType {
	return ResourceTypeLight
}
