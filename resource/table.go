package resource

import (
	"math"
	"sync"
)

// maxSlots keeps slot+1 within the 32 index bits of a handle.
const maxSlots = math.MaxUint32 - 1

// Table maps handles to values of one type. It is safe for concurrent use.
type Table[T any] struct {
	observers map[int]Observer[T]
	entries   []entry[T]
	freeList  []int
	nextObs   int
	limit     int
	mu        sync.RWMutex
	obsMu     sync.RWMutex
}

type entry[T any] struct {
	value    T
	gen      uint32
	borrows  uint32
	valid    bool
	dropping bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:   make([]entry[T], 0, 16),
		freeList:  make([]int, 0, 8),
		observers: make(map[int]Observer[T]),
		limit:     maxSlots,
	}
}

// Insert stores value and returns its handle. It fails with ErrFull when
// every slot a handle can address is live.
func (t *Table[T]) Insert(value T) (Handle, error) {
	t.mu.Lock()
	var slot int
	if n := len(t.freeList); n > 0 {
		slot = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
	} else {
		if len(t.entries) >= t.limit {
			t.mu.Unlock()
			return 0, ErrFull
		}
		t.entries = append(t.entries, entry[T]{})
		slot = len(t.entries) - 1
	}
	e := &t.entries[slot]
	e.value = value
	e.valid = true
	h := makeHandle(slot, e.gen)
	t.mu.Unlock()

	t.notify(Event[T]{Type: EventCreated, Handle: h, Value: value})
	return h, nil
}

// lookup returns the live entry for h. Callers hold t.mu.
func (t *Table[T]) lookup(h Handle) *entry[T] {
	if !h.IsValid() {
		return nil
	}
	slot := h.slot()
	if slot >= len(t.entries) {
		return nil
	}
	e := &t.entries[slot]
	if !e.valid || e.dropping || e.gen != h.gen() {
		return nil
	}
	return e
}

// Get retrieves the value for h.
func (t *Table[T]) Get(h Handle) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if e := t.lookup(h); e != nil {
		return e.value, true
	}
	var zero T
	return zero, false
}

// Borrow retrieves the value for h and pins it until Return is called.
// A Remove while pinned is deferred to the last Return.
func (t *Table[T]) Borrow(h Handle) (T, bool) {
	t.mu.Lock()
	e := t.lookup(h)
	if e == nil {
		t.mu.Unlock()
		var zero T
		return zero, false
	}
	e.borrows++
	v := e.value
	t.mu.Unlock()

	t.notify(Event[T]{Type: EventBorrowed, Handle: h, Value: v})
	return v, true
}

// Return releases a pin taken by Borrow.
func (t *Table[T]) Return(h Handle) bool {
	t.mu.Lock()
	if !h.IsValid() || h.slot() >= len(t.entries) {
		t.mu.Unlock()
		return false
	}
	e := &t.entries[h.slot()]
	if !e.valid || e.gen != h.gen() || e.borrows == 0 {
		t.mu.Unlock()
		return false
	}
	e.borrows--
	v := e.value
	release := e.dropping && e.borrows == 0
	if release {
		t.release(h.slot())
	}
	t.mu.Unlock()

	t.notify(Event[T]{Type: EventBorrowReturned, Handle: h, Value: v})
	if release {
		t.dropped(h, v)
	}
	return true
}

// Remove releases h and returns its value. If h is borrowed, the value
// stays reachable to the borrowers and is dropped on the last Return.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	t.mu.Lock()
	e := t.lookup(h)
	if e == nil {
		t.mu.Unlock()
		var zero T
		return zero, false
	}
	v := e.value
	if e.borrows > 0 {
		e.dropping = true
		t.mu.Unlock()
		return v, true
	}
	t.release(h.slot())
	t.mu.Unlock()

	t.dropped(h, v)
	return v, true
}

// release frees slot for reuse and bumps its generation. Callers hold t.mu.
func (t *Table[T]) release(slot int) {
	e := &t.entries[slot]
	var zero T
	e.value = zero
	e.valid = false
	e.dropping = false
	e.borrows = 0
	e.gen++
	t.freeList = append(t.freeList, slot)
}

func (t *Table[T]) dropped(h Handle, v T) {
	if d, ok := any(v).(Dropper); ok {
		d.Drop()
	}
	t.notify(Event[T]{Type: EventDropped, Handle: h, Value: v})
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, e := range t.entries {
		if e.valid && !e.dropping {
			count++
		}
	}
	return count
}

// Each iterates over live handles in slot order until fn returns false.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.mu.RLock()
	type item struct {
		h Handle
		v T
	}
	items := make([]item, 0, len(t.entries))
	for i, e := range t.entries {
		if e.valid && !e.dropping {
			items = append(items, item{makeHandle(i, e.gen), e.value})
		}
	}
	t.mu.RUnlock()

	for _, it := range items {
		if !fn(it.h, it.v) {
			return
		}
	}
}

// Clear removes every live handle. Borrowed values are dropped on their
// last Return.
func (t *Table[T]) Clear() {
	var handles []Handle
	t.Each(func(h Handle, _ T) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Subscribe adds an observer for lifecycle events and returns a function
// that removes it.
func (t *Table[T]) Subscribe(o Observer[T]) func() {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()

	id := t.nextObs
	t.nextObs++
	t.observers[id] = o
	return func() {
		t.obsMu.Lock()
		defer t.obsMu.Unlock()
		delete(t.observers, id)
	}
}

func (t *Table[T]) notify(e Event[T]) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for id := 0; id < t.nextObs; id++ {
		if o, ok := t.observers[id]; ok {
			o.OnResourceEvent(e)
		}
	}
}
