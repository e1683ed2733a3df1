package session

import (
	"fmt"
	"net/http"
	"time"
)

const sseKeepAlive = 25 * time.Second

// SSEChannel pushes messages as Server-Sent Events on a held-open HTTP
// response.
type SSEChannel struct {
	*queue
}

// NewSSEChannel creates a channel with a bounded queue.
func NewSSEChannel(queueSize int) *SSEChannel {
	return &SSEChannel{queue: newQueue(queueSize)}
}

// Serve writes queued messages to w until the request ends or the channel
// is closed. It returns an error only when w cannot stream.
func (c *SSEChannel) Serve(w http.ResponseWriter, r *http.Request) error {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return fmt.Errorf("streaming unsupported: %w", err)
	}

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return nil
		case <-c.done:
			return nil
		case msg := <-c.send:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", msg); err != nil {
				return nil
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return nil
			}
		}
		if err := rc.Flush(); err != nil {
			return nil
		}
	}
}
