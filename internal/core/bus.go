package core

import "sync"

const subscriberQueue = 64

// Bus fans events out to any number of independent subscribers, so UI,
// logging and tests can observe without touching each other. Slow
// subscribers lose events instead of stalling the publisher.
type Bus[T any] struct {
	mu   sync.RWMutex
	subs []chan T
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{}
}

func (b *Bus[T]) Subscribe() <-chan T {
	ch := make(chan T, subscriberQueue)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *Bus[T]) Publish(v T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
		}
	}
}
