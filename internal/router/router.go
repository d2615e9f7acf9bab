package router

import "sync"

// StatusUpdate is one state reading for a routing key. The push
// listener and the sync coordinator both produce this shape; consumers
// cannot tell which channel a reading came from.
type StatusUpdate struct {
	// RoutingKey is the "serial:smap" address the update concerns.
	RoutingKey string

	// Available reports whether the reading can be trusted. When
	// false, Smap and Status carry no meaning and consumers should
	// mark themselves unavailable.
	Available bool

	// Smap is the bit mask the reading was taken against. On the poll
	// path this is the group's combined mask, not the consumer's own.
	Smap uint32

	// Status is the raw status word. Consumers apply their own class
	// decoding and their own smap bit against the full word.
	Status uint32
}

// Handler receives status updates. Handlers run synchronously on the
// publisher's goroutine and must not block.
type Handler func(StatusUpdate)

// subscription pairs a handler with its removal token.
type subscription struct {
	id      uint64
	handler Handler
}

// Router fans status updates out to consumers by exact routing key.
//
// There is no history or replay: a consumer subscribing after an
// update was published never sees it. Delivery is synchronous and in
// arrival order per publisher.
type Router struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
	taps   []subscription
}

// New creates an empty Router.
func New() *Router {
	return &Router{
		subs: make(map[string][]subscription),
	}
}

// Subscribe registers a handler for one exact routing key.
//
// Parameters:
//   - key: Routing key, "serial:smap"
//   - h: Handler invoked for every update published to the key
//
// Returns:
//   - func(): Unsubscribe function; idempotent
func (r *Router) Subscribe(key string, h Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.subs[key] = append(r.subs[key], subscription{id: id, handler: h})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		remaining := r.subs[key][:0]
		for _, s := range r.subs[key] {
			if s.id != id {
				remaining = append(remaining, s)
			}
		}
		if len(remaining) == 0 {
			delete(r.subs, key)
		} else {
			r.subs[key] = remaining
		}
	}
}

// Tap registers a handler that observes every update regardless of
// routing key. Used by the MQTT mirror and the status history
// recorder.
//
// Returns:
//   - func(): Removal function; idempotent
func (r *Router) Tap(h Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.taps = append(r.taps, subscription{id: id, handler: h})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		remaining := r.taps[:0]
		for _, s := range r.taps {
			if s.id != id {
				remaining = append(remaining, s)
			}
		}
		r.taps = remaining
	}
}

// Publish delivers an update synchronously to every handler currently
// subscribed to its exact routing key, then to every tap. Consumers
// not subscribed to the key are unaffected.
//
// Parameters:
//   - u: Update to deliver
func (r *Router) Publish(u StatusUpdate) {
	// Snapshot handlers so a handler can subscribe or unsubscribe
	// without deadlocking against the delivery.
	r.mu.RLock()
	matched := make([]Handler, 0, len(r.subs[u.RoutingKey])+len(r.taps))
	for _, s := range r.subs[u.RoutingKey] {
		matched = append(matched, s.handler)
	}
	for _, s := range r.taps {
		matched = append(matched, s.handler)
	}
	r.mu.RUnlock()

	for _, h := range matched {
		h(u)
	}
}

// SubscriberCount returns the number of handlers registered for a key.
func (r *Router) SubscriberCount(key string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[key])
}
