package services

import "sync"

// Event describes a change to one slice of storefront state.
type Event struct {
	Topic string // catalog, cart, session, applications, categories
	Kind  string
	ID    string
}

// Observer receives state change events. It is called synchronously, after the
// publishing service has released its lock.
type Observer interface {
	Notify(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) Notify(e Event) { f(e) }

// notifier is embedded by every state service; the zero value is ready to use.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]Observer
}

// Subscribe registers o and returns a function that removes it.
func (n *notifier) Subscribe(o Observer) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = map[int]Observer{}
	}
	id := n.next
	n.next++
	n.subs[id] = o
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *notifier) publish(e Event) {
	n.mu.Lock()
	subs := make([]Observer, 0, len(n.subs))
	for _, o := range n.subs {
		subs = append(subs, o)
	}
	n.mu.Unlock()
	for _, o := range subs {
		o.Notify(e)
	}
}
