package server

import "sync"

// notifier fans workspace revisions out to event-stream subscribers.
// Slow subscribers only ever see the latest revision.
type notifier struct {
	mu        sync.RWMutex
	listeners map[chan int]struct{}
}

func newNotifier() *notifier {
	return &notifier{listeners: make(map[chan int]struct{})}
}

// subscribe returns a channel that receives revision numbers. The caller
// must call unsubscribe when done.
func (n *notifier) subscribe() chan int {
	ch := make(chan int, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

func (n *notifier) unsubscribe(ch chan int) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// broadcast delivers rev to every listener, replacing any revision still
// waiting in a full channel.
func (n *notifier) broadcast(rev int) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- rev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- rev:
			default:
			}
		}
	}
}
