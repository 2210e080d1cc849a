package core

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A flush dropped batches because the overlap working set was full.
	/* Context usage:
	 * dropped := ctx.Count
	 */
	EVENT_CODE_SORT_CAPACITY_EXCEEDED SystemEventCode = 0x10

	// A submission was rejected by Insert.
	/* Context usage:
	 * err := ctx.Err
	 */
	EVENT_CODE_SORT_INVALID_GEOMETRY SystemEventCode = 0x11

	// The renderer configuration file was reloaded from disk.
	EVENT_CODE_CONFIG_RELOADED SystemEventCode = 0x12

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

// EventContext carries the payload of a fired event.
type EventContext struct {
	Code   SystemEventCode
	Source string
	Count  int
	Err    error
	Data   interface{}
}

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches diagnostic events synchronously on the caller's
// goroutine. Each engine instance owns its own bus.
type EventBus struct {
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 */
func (b *EventBus) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if b == nil || onEvent == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	for _, e := range b.registered[code] {
		if e.listener == listener {
			LogWarn("event code %d already has this listener registered", code)
			return false
		}
	}
	b.registered[code] = append(b.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func (b *EventBus) Unregister(code SystemEventCode, listener interface{}) bool {
	if b == nil {
		return false
	}
	events := b.registered[code]
	for i, e := range events {
		if e.listener == listener {
			b.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 */
func (b *EventBus) Fire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if b == nil {
		return false
	}
	context.Code = code
	for _, e := range b.registered[code] {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// Shutdown drops every registration.
func (b *EventBus) Shutdown() error {
	if b == nil {
		return nil
	}
	clear(b.registered)
	return nil
}
