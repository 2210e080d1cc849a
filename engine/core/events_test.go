package core

import (
	"errors"
	"testing"
)

func TestEventBusFire(t *testing.T) {
	bus := NewEventBus()
	var got []int
	first := func(code SystemEventCode, sender, listener interface{}, ctx EventContext) bool {
		got = append(got, ctx.Count)
		return false
	}
	second := func(code SystemEventCode, sender, listener interface{}, ctx EventContext) bool {
		got = append(got, ctx.Count*10)
		return true
	}
	third := func(code SystemEventCode, sender, listener interface{}, ctx EventContext) bool {
		t.Error("listener after a handling one must not run")
		return false
	}

	if !bus.Register(EVENT_CODE_SORT_CAPACITY_EXCEEDED, "a", first) {
		t.Fatal("Register(a) = false")
	}
	if !bus.Register(EVENT_CODE_SORT_CAPACITY_EXCEEDED, "b", second) {
		t.Fatal("Register(b) = false")
	}
	if !bus.Register(EVENT_CODE_SORT_CAPACITY_EXCEEDED, "c", third) {
		t.Fatal("Register(c) = false")
	}
	if bus.Register(EVENT_CODE_SORT_CAPACITY_EXCEEDED, "a", first) {
		t.Error("duplicate listener registered twice")
	}

	if !bus.Fire(EVENT_CODE_SORT_CAPACITY_EXCEEDED, nil, EventContext{Count: 2}) {
		t.Error("Fire() = false, want handled")
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 20 {
		t.Errorf("listeners saw %v, want [2 20]", got)
	}
}

func TestEventBusUnregister(t *testing.T) {
	bus := NewEventBus()
	var called bool
	bus.Register(EVENT_CODE_SORT_INVALID_GEOMETRY, "l", func(code SystemEventCode, sender, listener interface{}, ctx EventContext) bool {
		called = errors.Is(ctx.Err, ErrInvalidGeometry)
		return true
	})
	bus.Fire(EVENT_CODE_SORT_INVALID_GEOMETRY, nil, EventContext{Err: ErrInvalidGeometry})
	if !called {
		t.Fatal("listener did not receive the wrapped error")
	}
	if !bus.Unregister(EVENT_CODE_SORT_INVALID_GEOMETRY, "l") {
		t.Fatal("Unregister() = false")
	}
	if bus.Fire(EVENT_CODE_SORT_INVALID_GEOMETRY, nil, EventContext{}) {
		t.Error("Fire() after Unregister reported handled")
	}
	var nilBus *EventBus
	if nilBus.Fire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}) {
		t.Error("nil bus reported handled")
	}
}
