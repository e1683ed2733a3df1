package session

import (
	"errors"
	"sync"
)

var (
	// ErrQueueFull is returned by Send when the client is not keeping up.
	ErrQueueFull = errors.New("session queue full")

	// ErrClosed is returned by Send after the channel is closed.
	ErrClosed = errors.New("session channel closed")
)

// DefaultQueueSize is the number of messages buffered per connection.
const DefaultQueueSize = 64

// queue is the bounded outbound buffer shared by every channel type.
// Messages are dropped rather than blocking the sender.
type queue struct {
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newQueue(size int) *queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &queue{
		send: make(chan []byte, size),
		done: make(chan struct{}),
	}
}

func (q *queue) Send(msg []byte) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}

	select {
	case q.send <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *queue) Close() error {
	q.once.Do(func() { close(q.done) })
	return nil
}

// Done is closed once the channel is closed.
func (q *queue) Done() <-chan struct{} { return q.done }
