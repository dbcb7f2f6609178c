// Package eventemitter broadcasts typed events to subscribed callbacks
package eventemitter

import "sync"

// EventEmitter calls its subscribers synchronously, in subscription order, on
// the goroutine emitting the event
type EventEmitter[T any] struct {
	mutex       sync.RWMutex
	nextID      int
	subscribers []subscriber[T]
}

type subscriber[T any] struct {
	id       int
	callback func(T)
}

// Subscription identifies a callback to unsubscribe
type Subscription int

func (eventEmitter *EventEmitter[T]) Emit(message T) {
	eventEmitter.mutex.RLock()
	subscribers := append([]subscriber[T](nil), eventEmitter.subscribers...)
	eventEmitter.mutex.RUnlock()
	for _, subscriber := range subscribers {
		subscriber.callback(message)
	}
}

func (eventEmitter *EventEmitter[T]) Subscribe(callback func(T)) Subscription {
	if callback == nil {
		panic("Callback is not a function")
	}
	eventEmitter.mutex.Lock()
	defer eventEmitter.mutex.Unlock()
	eventEmitter.nextID++
	eventEmitter.subscribers = append(eventEmitter.subscribers, subscriber[T]{eventEmitter.nextID, callback})
	return Subscription(eventEmitter.nextID)
}

func (eventEmitter *EventEmitter[T]) Unsubscribe(subscription Subscription) {
	eventEmitter.mutex.Lock()
	defer eventEmitter.mutex.Unlock()
	for index, subscriber := range eventEmitter.subscribers {
		if Subscription(subscriber.id) == subscription {
			eventEmitter.subscribers = append(eventEmitter.subscribers[:index:index], eventEmitter.subscribers[index+1:]...)
			return
		}
	}
}
