// Package session maps client session ids to live push channels and
// delivers progress events to them.
//
// Delivery is best effort. A push to an unknown session does nothing, and
// a push that fails (connection gone, queue full) is logged and counted
// but never reported to the caller. Import jobs therefore run the same
// whether or not anyone is listening.
package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/JonMunkholm/taller/internal/metrics"
)

// Channel is one client connection able to receive pushed messages.
// Send must not block.
type Channel interface {
	Send(msg []byte) error
	Close() error
}

// Registry is the session id to channel table. The zero value is not
// usable; create one with New and share it.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]Channel
	metrics  *metrics.Metrics
}

// New creates an empty registry. m may be nil.
func New(m *metrics.Metrics) *Registry {
	return &Registry{
		channels: make(map[string]Channel),
		metrics:  m,
	}
}

// Register binds ch to id. A channel already bound to id is replaced but
// left open; its connection handler will Release it when it ends.
func (r *Registry) Register(id string, ch Channel) {
	r.mu.Lock()
	_, replaced := r.channels[id]
	r.channels[id] = ch
	n := len(r.channels)
	r.mu.Unlock()

	r.metrics.SetSessions(n)
	slog.Debug("session registered", "session_id", id, "replaced", replaced)
}

// Remove unbinds id. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.channels, id)
	n := len(r.channels)
	r.mu.Unlock()

	r.metrics.SetSessions(n)
}

// Release unbinds id only while ch is still the channel bound to it, so a
// closing connection never evicts a newer one for the same session.
// It reports whether anything was removed.
func (r *Registry) Release(id string, ch Channel) bool {
	r.mu.Lock()
	cur, ok := r.channels[id]
	if ok && cur == ch {
		delete(r.channels, id)
	}
	n := len(r.channels)
	r.mu.Unlock()

	r.metrics.SetSessions(n)
	if ok && cur == ch {
		slog.Debug("session released", "session_id", id)
		return true
	}
	return false
}

// Push encodes event as JSON and hands it to the channel bound to id.
func (r *Registry) Push(id string, event any) {
	r.mu.RLock()
	ch, ok := r.channels[id]
	r.mu.RUnlock()
	if !ok {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		r.metrics.PushFailed("encode")
		slog.Error("session push: encode event", "session_id", id, "error", err)
		return
	}

	if err := ch.Send(msg); err != nil {
		r.metrics.PushFailed(failureReason(err))
		slog.Warn("session push failed", "session_id", id, "error", err)
		return
	}
	r.metrics.EventPushed()
}

// Len returns the number of bound sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// CloseAll closes and unbinds every channel. Used at shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	channels := r.channels
	r.channels = make(map[string]Channel)
	r.mu.Unlock()

	for id, ch := range channels {
		if err := ch.Close(); err != nil {
			slog.Warn("session close failed", "session_id", id, "error", err)
		}
	}
	r.metrics.SetSessions(0)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrQueueFull):
		return "queue_full"
	case errors.Is(err, ErrClosed):
		return "closed"
	default:
		return "send"
	}
}
