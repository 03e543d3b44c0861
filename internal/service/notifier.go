package service

import "sync"

// Subscription identifies a registered observer so it can be removed later.
type Subscription uint64

// Notifier fans a "store changed" signal out to registered observers.
// Observers carry no payload: they are expected to re-query rather than
// receive a diff. Callbacks run synchronously on the mutating goroutine,
// once per mutation. Safe for concurrent subscribe/unsubscribe/notify.
type Notifier struct {
	mu   sync.Mutex
	next Subscription
	subs map[Subscription]func()
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[Subscription]func())}
}

// Subscribe registers an observer and returns its handle.
func (n *Notifier) Subscribe(fn func()) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	n.subs[n.next] = fn
	return n.next
}

// Unsubscribe removes an observer. Unknown handles are a no-op.
func (n *Notifier) Unsubscribe(s Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, s)
}

// Notify invokes every registered observer. Callbacks run outside the
// notifier's lock so an observer may subscribe or unsubscribe from within.
func (n *Notifier) Notify() {
	n.mu.Lock()
	callbacks := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		callbacks = append(callbacks, fn)
	}
	n.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
