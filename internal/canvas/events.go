package canvas

// EventType identifies different types of controller events.
type EventType int

const (
	EventBackwardEnabled EventType = iota // data: bool
	EventForwardEnabled                   // data: bool
	EventDisplayChanged                   // data: *image.RGBA
	EventImageLoaded                      // data: image.Rectangle
	EventCommitted                        // data: ulid.ULID of the new entry
)

// EventListener is a callback for controller events.
type EventListener func(data interface{})

type event struct {
	kind EventType
	data interface{}
}

// On registers a listener for the specified event type. Listeners run on
// the goroutine that triggered the event, after the controller lock is
// released, so they may call back into the controller.
func (c *Controller) On(kind EventType, listener EventListener) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners[kind] = append(c.listeners[kind], listener)
}

// Emit triggers all listeners for the specified event type.
func (c *Controller) Emit(kind EventType, data interface{}) {
	c.listenersMu.RLock()
	listeners := c.listeners[kind]
	c.listenersMu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// queue must be called with c.mu held.
func (c *Controller) queue(kind EventType, data interface{}) {
	c.pending = append(c.pending, event{kind: kind, data: data})
}

// unlock releases c.mu and then delivers the queued events.
func (c *Controller) unlock() {
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, ev := range pending {
		c.Emit(ev.kind, ev.data)
	}
}
