package headless

import (
	"errors"
	stdmath "math"
	"testing"

	"github.com/spaghettifunk/depthsort/engine/core"
	"github.com/spaghettifunk/depthsort/engine/math"
	"github.com/spaghettifunk/depthsort/engine/renderer/metadata"
)

func quad(z float32) []math.Vertex3D {
	return []math.Vertex3D{
		{Position: math.Vec3{0, 0, z}},
		{Position: math.Vec3{1, 0, z}},
		{Position: math.Vec3{1, 1, z}},
		{Position: math.Vec3{0, 1, z}},
	}
}

func TestDrawTrianglesRecords(t *testing.T) {
	d := New()
	vb := metadata.NewVertexBufferFrom(1, metadata.BufferClassStatic, quad(2))
	ib := metadata.NewIndexBufferFrom(1, metadata.BufferClassStatic, []uint32{0, 1, 2, 0, 2, 3})
	d.SetBuffers(vb, ib)
	d.SetTransform(metadata.TransformWorld, math.Translate3D(0, 0, 3))

	if err := d.DrawTriangles(0, 2, 0, 4); err != nil {
		t.Fatalf("DrawTriangles() error = %v", err)
	}
	if len(d.Draws) != 1 || d.TriangleCount() != 2 {
		t.Fatalf("recorded %d draws, %d triangles", len(d.Draws), d.TriangleCount())
	}
	for _, depth := range d.Depths() {
		if !math.FloatEqual(depth, 5) {
			t.Errorf("depth = %v, want 5", depth)
		}
	}
	if d.Draws[0].State.Held() {
		t.Error("recorded state must not own references")
	}
}

func TestDrawTrianglesValidation(t *testing.T) {
	d := New()
	if err := d.DrawTriangles(0, 1, 0, 3); !errors.Is(err, core.ErrInvalidGeometry) {
		t.Errorf("draw without buffers: error = %v", err)
	}

	vb := metadata.NewVertexBufferFrom(1, metadata.BufferClassStatic, quad(0))
	ib := metadata.NewIndexBufferFrom(1, metadata.BufferClassStatic, []uint32{0, 1, 3})
	d.SetBuffers(vb, ib)
	if err := d.DrawTriangles(0, 1, 0, 3); !errors.Is(err, core.ErrIndexOutOfRange) {
		t.Errorf("index outside vertex range: error = %v", err)
	}
	if err := d.DrawTriangles(3, 1, 0, 4); !errors.Is(err, core.ErrInvalidGeometry) {
		t.Errorf("index range past the buffer: error = %v", err)
	}
	for _, args := range [][4]int{
		{stdmath.MaxInt - 2, 1, 0, 4},
		{0, stdmath.MaxInt/3 + 1, 0, 4},
		{0, 1, stdmath.MaxInt, 4},
		{0, 1, 1, stdmath.MaxInt},
	} {
		if err := d.DrawTriangles(args[0], args[1], args[2], args[3]); !errors.Is(err, core.ErrInvalidGeometry) {
			t.Errorf("DrawTriangles%v: error = %v", args, err)
		}
	}

	if _, err := vb.Lock(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := d.DrawTriangles(0, 1, 0, 4); !errors.Is(err, core.ErrBufferLocked) {
		t.Errorf("locked buffer: error = %v", err)
	}
	vb.Unlock()
	if err := d.DrawTriangles(0, 1, 0, 4); err != nil {
		t.Errorf("valid draw: error = %v", err)
	}
}

func TestSetLightDisablesSuffix(t *testing.T) {
	d := New()
	for i := 0; i < metadata.MaxLights; i++ {
		d.SetLight(i, &metadata.Light{ID: uint32(i)})
	}
	d.SetLight(1, nil)
	s := d.RenderState()
	if s.LightCount() != 1 {
		t.Errorf("LightCount() = %d, want 1", s.LightCount())
	}
	for i := 1; i < metadata.MaxLights; i++ {
		if s.Lights[i] != nil {
			t.Errorf("slot %d still enabled", i)
		}
	}
	if len(d.LightCalls) != metadata.MaxLights+1 {
		t.Errorf("recorded %d light calls", len(d.LightCalls))
	}
}

func TestRenderStateRoundTrip(t *testing.T) {
	d := New()
	mat := &metadata.Material{ID: 3}
	d.SetMaterial(mat)
	d.SetTexture(2, &metadata.Texture{ID: 9})
	d.SetTransform(metadata.TransformView, math.Translate3D(1, 2, 3))
	saved := d.RenderState()

	d.SetMaterial(nil)
	d.SetTransform(metadata.TransformView, math.Ident4())
	d.SetRenderState(saved)

	if d.RenderState().Material != mat {
		t.Error("material not restored")
	}
	if d.Transform(metadata.TransformView) != math.Translate3D(1, 2, 3) {
		t.Error("view transform not restored")
	}
	if mat.References() != 0 {
		t.Errorf("device took %d references", mat.References())
	}
}

func TestAllocateDynamicBuffers(t *testing.T) {
	d := New()
	vb, err := d.AllocateDynamicVertexBuffer(16)
	if err != nil || vb.Len() != 16 {
		t.Fatalf("AllocateDynamicVertexBuffer() = %v, %v", vb, err)
	}
	ib, err := d.AllocateDynamicIndexBuffer(48)
	if err != nil || ib.Len() != 48 {
		t.Fatalf("AllocateDynamicIndexBuffer() = %v, %v", ib, err)
	}
	if vb.ID == ib.ID {
		t.Error("allocated buffers share an id")
	}
	if _, err := d.AllocateDynamicIndexBuffer(0); err == nil {
		t.Error("zero sized allocation should fail")
	}
	if d.VertexAllocations != 1 || d.IndexAllocations != 1 {
		t.Errorf("allocations = %d, %d", d.VertexAllocations, d.IndexAllocations)
	}
}
