package bus

import "sync"

// ResetNotifier fans a payload-less clear-chat signal out to listeners,
// decoupling whoever triggers the clear from whoever reacts to it.
type ResetNotifier struct {
	mu   sync.Mutex
	subs []chan struct{}
}

// NewResetNotifier creates a notifier with no listeners.
func NewResetNotifier() *ResetNotifier {
	return &ResetNotifier{}
}

// Subscribe returns a channel that receives one value per broadcast. The
// channel holds at most one pending signal.
func (n *ResetNotifier) Subscribe() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan struct{}, 1)
	n.subs = append(n.subs, ch)
	return ch
}

// Broadcast signals every subscriber. It never blocks; a listener that has
// not drained its previous signal keeps the one already pending.
func (n *ResetNotifier) Broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
