// internal/messaging/listener.go
// Postgres LISTEN/NOTIFY fan-out for the chat stream

package messaging

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"
)

const (
	listenerMinReconnect = 10 * time.Second
	listenerMaxReconnect = time.Minute
	listenerPingInterval = 90 * time.Second
)

// Listener holds one LISTEN connection to Postgres and fans wake-ups
// out to every connected stream. Subscribers get coalesced signals, not
// payloads: a woken stream re-queries the messages table itself.
type Listener struct {
	pl   *pq.Listener
	done chan struct{}

	mu   sync.Mutex
	subs map[chan struct{}]bool
}

// NewListener connects to the NOTIFY channel and starts the fan-out
// loop
func NewListener(databaseURL string) (*Listener, error) {
	pl := pq.NewListener(databaseURL, listenerMinReconnect, listenerMaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Printf("Chat listener event %d: %v", ev, err)
			}
		})

	if err := pl.Listen(NotifyChannel); err != nil {
		pl.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", NotifyChannel, err)
	}

	l := &Listener{
		pl:   pl,
		done: make(chan struct{}),
		subs: make(map[chan struct{}]bool),
	}
	go l.run()
	return l, nil
}

// Subscribe registers a wake-up channel. The returned function removes
// the subscription; it must be called when the stream ends.
func (l *Listener) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	l.mu.Lock()
	l.subs[ch] = true
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		delete(l.subs, ch)
		l.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the fan-out loop and drops the database connection
func (l *Listener) Close() error {
	close(l.done)
	return l.pl.Close()
}

func (l *Listener) run() {
	ping := time.NewTicker(listenerPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-l.done:
			return
		case n, ok := <-l.pl.Notify:
			if !ok {
				return
			}
			// A nil notification means the connection was re-established
			// and events may have been missed; wake everyone so they
			// re-query.
			_ = n
			l.broadcast()
		case <-ping.C:
			if err := l.pl.Ping(); err != nil {
				log.Printf("Chat listener ping failed: %v", err)
			}
		}
	}
}

// broadcast delivers a non-blocking wake-up to every subscriber.
// A subscriber with a signal already pending needs no second one.
func (l *Listener) broadcast() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ch := range l.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
