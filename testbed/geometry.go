package testbed

import (
	"github.com/spaghettifunk/depthsort/engine/math"
	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
)

// quad returns a width x height quad in the XY plane centred on the origin.
func quad(width, height float32, colour math.Vec4) ([]math.Vertex3D, []uint32) {
	hw, hh := width/2, height/2
	normal := math.Vec3{0, 0, -1}
	vertices := []math.Vertex3D{
		{Position: math.Vec3{-hw, -hh, 0}, Normal: normal, Texcoord: math.Vec2{0, 0}, Colour: colour},
		{Position: math.Vec3{hw, -hh, 0}, Normal: normal, Texcoord: math.Vec2{1, 0}, Colour: colour},
		{Position: math.Vec3{hw, hh, 0}, Normal: normal, Texcoord: math.Vec2{1, 1}, Colour: colour},
		{Position: math.Vec3{-hw, hh, 0}, Normal: normal, Texcoord: math.Vec2{0, 1}, Colour: colour},
	}
	return vertices, []uint32{0, 1, 2, 0, 2, 3}
}

// layeredQuads stacks layers copies of a quad along Z, spacing apart, as
// consumed by volume particle submissions.
func layeredQuads(size, spacing float32, layers int, colour math.Vec4) ([]math.Vertex3D, []uint32) {
	var vertices []math.Vertex3D
	var indices []uint32
	start := -spacing * float32(layers-1) / 2
	for l := 0; l < layers; l++ {
		v, i := quad(size, size, colour)
		base := uint32(len(vertices))
		for k := range v {
			v[k].Position[2] = start + spacing*float32(l)
		}
		vertices = append(vertices, v...)
		for _, idx := range i {
			indices = append(indices, base+idx)
		}
	}
	return vertices, indices
}

// mesh is a piece of translucent geometry living in its own buffers.
type mesh struct {
	name     string
	material *metadata.Material
	texture  *metadata.Texture
	vb       *metadata.VertexBuffer
	ib       *metadata.IndexBuffer
	sphere   math.Sphere
	world    math.Mat4
	layers   uint32
}

func newMesh(id uint32, name string, class metadata.BufferClass, vertices []math.Vertex3D, indices []uint32, layers int) *mesh {
	m := &mesh{
		name: name,
		material: &metadata.Material{
			ID:            id,
			Name:          name,
			DiffuseColour: vertices[0].Colour,
		},
		vb:     metadata.NewVertexBufferFrom(id, class, vertices),
		ib:     metadata.NewIndexBufferFrom(id, class, indices),
		world:  math.Ident4(),
		layers: uint32(layers),
	}
	per := len(vertices)
	if layers > 1 {
		per /= layers
	}
	m.sphere = math.BoundingSphere(vertices[:per])
	m.vb.AddRef()
	m.ib.AddRef()
	m.material.AddRef()
	return m
}

func (m *mesh) release() {
	m.vb.Release()
	m.ib.Release()
	m.material.Release()
	if m.texture != nil {
		m.texture.Release()
	}
}
