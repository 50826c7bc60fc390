package inprocess

import (
	"sync"

	"victorygoals/internal/domain/victory"
)

type subscriber struct {
	id int
	fn func(victory.Payload)
}

// Bus delivers events synchronously to subscribers in subscription order.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[victory.EventName][]subscriber
	fired  map[victory.EventName]int
}

var _ victory.EventBus = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{
		subs:  make(map[victory.EventName][]subscriber),
		fired: make(map[victory.EventName]int),
	}
}

func (b *Bus) Subscribe(name victory.EventName, fn func(victory.Payload)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.subs[name]
			for i, s := range subs {
				if s.id == id {
					b.subs[name] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Fire delivers the payload to the subscribers registered when it is fired.
// Handlers may subscribe or unsubscribe while being delivered to.
func (b *Bus) Fire(payload victory.Payload) {
	name := payload.Event()
	b.mu.Lock()
	subs := append([]subscriber(nil), b.subs[name]...)
	b.fired[name]++
	b.mu.Unlock()
	for _, s := range subs {
		s.fn(payload)
	}
}

// Subscribers returns the number of live subscriptions for the event.
func (b *Bus) Subscribers(name victory.EventName) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[name])
}

// Fired returns how many times the event was fired.
func (b *Bus) Fired(name victory.EventName) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fired[name]
}
