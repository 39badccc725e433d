package resource

import "errors"

// ErrFull is returned by Insert when no handle is left to issue.
var ErrFull = errors.New("handle table full")

// Handle is an opaque reference to a value in a Table. The low 32 bits hold
// the slot index plus one, the high 32 bits the slot generation, so a handle
// goes stale once its slot is reused.
// Handle 0 is reserved and always invalid.
type Handle uint64

func makeHandle(slot int, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(slot+1))
}

func (h Handle) slot() int     { return int(uint32(h)) - 1 }
func (h Handle) gen() uint32   { return uint32(h >> 32) }
func (h Handle) IsValid() bool { return uint32(h) != 0 }

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventBorrowed
	EventBorrowReturned
)

func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow-returned"
	}
	return "unknown"
}

// Event represents a handle lifecycle event.
type Event[T any] struct {
	Value  T
	Handle Handle
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
// Observers run after the table lock is released.
type Observer[T any] interface {
	OnResourceEvent(Event[T])
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc[T any] func(Event[T])

func (f ObserverFunc[T]) OnResourceEvent(e Event[T]) { f(e) }

// Dropper is optionally implemented by values that need cleanup when their
// handle is released.
type Dropper interface {
	Drop()
}
