package metadata

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/depthsort/engine/core"
)

func newTestState() RenderState {
	var s RenderState
	s.Material = &Material{ID: 1, LightingEnabled: true}
	s.Textures[0] = &Texture{ID: 1}
	s.Textures[3] = &Texture{ID: 2}
	s.Lights[0] = &Light{ID: 1}
	s.VertexBuffer = NewVertexBuffer(1, BufferClassSortable, 3)
	s.IndexBuffer = NewIndexBuffer(1, BufferClassSortable, 3)
	return s
}

func TestRenderStateAcquireRelease(t *testing.T) {
	s := newTestState()
	mat, tex, vb := s.Material, s.Textures[3], s.VertexBuffer

	s.Acquire()
	s.Acquire()
	if !s.Held() {
		t.Fatal("Held() = false after Acquire")
	}
	for _, r := range []Resource{mat, tex, vb} {
		if r.References() != 1 {
			t.Errorf("%s references = %d after double Acquire, want 1", r.ResourceType(), r.References())
		}
	}

	d := s.Detached()
	d.Release()
	if mat.References() != 1 {
		t.Fatal("releasing a detached copy must not drop references")
	}

	s.Release()
	s.Release()
	for _, r := range []Resource{mat, tex, vb} {
		if r.References() != 0 {
			t.Errorf("%s references = %d after Release, want 0", r.ResourceType(), r.References())
		}
	}
	if s.Material != nil || s.VertexBuffer != nil {
		t.Error("Release should clear the snapshot")
	}
}

func TestRenderStateSortableAndLights(t *testing.T) {
	s := newTestState()
	if !s.IsSortable() {
		t.Error("IsSortable() = false for sortable buffers")
	}
	s.IndexBuffer = NewIndexBuffer(2, BufferClassStatic, 3)
	if s.IsSortable() {
		t.Error("IsSortable() = true with a static index buffer")
	}
	if got := s.LightCount(); got != 1 {
		t.Errorf("LightCount() = %d, want 1", got)
	}
	s.Lights[1] = &Light{}
	s.Lights[3] = &Light{}
	if got := s.LightCount(); got != 2 {
		t.Errorf("LightCount() = %d, want prefix length 2", got)
	}
}

func TestBufferLock(t *testing.T) {
	vb := NewVertexBuffer(7, BufferClassDynamic, 4)
	w, err := vb.Lock(1, 2)
	if err != nil {
		t.Fatalf("Lock() = %v", err)
	}
	if len(w) != 2 || cap(w) != 2 {
		t.Errorf("Lock() slice len/cap = %d/%d, want 2/2", len(w), cap(w))
	}
	w[0].Position[2] = 5
	if _, err := vb.Lock(0, 1); !errors.Is(err, core.ErrBufferLocked) {
		t.Errorf("second Lock() = %v, want ErrBufferLocked", err)
	}
	vb.Unlock()
	if vb.Vertices()[1].Position[2] != 5 {
		t.Error("write through the lock scope was lost")
	}

	ib := NewIndexBuffer(8, BufferClassDynamic, 3)
	if _, err := ib.Lock(2, 2); !errors.Is(err, core.ErrInvalidGeometry) {
		t.Errorf("out of range Lock() = %v, want ErrInvalidGeometry", err)
	}
	if ib.IsLocked() {
		t.Error("failed Lock() left the buffer locked")
	}
}

func TestRefCountNeverNegative(t *testing.T) {
	var r RefCount
	r.Release()
	if r.References() != 0 {
		t.Fatalf("References() = %d, want 0", r.References())
	}
	r.AddRef()
	r.Release()
	r.Release()
	if r.References() != 0 {
		t.Fatalf("References() = %d, want 0", r.References())
	}
}
