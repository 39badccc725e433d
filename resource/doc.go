// Package resource provides the handle table behind callback interfaces.
//
// A foreign implementation of a callback interface cannot cross the native
// boundary as a value. The bindings store it in a Table and pass the handle
// instead; the native side calls back with that handle and the bindings look
// the implementation up again.
//
// # Handle Table
//
// A Table maps 64-bit handles to Go values of one type:
//
//	table := resource.NewTable[Listener]()
//
//	// Insert a value, get a handle
//	handle, err := table.Insert(listener)
//
//	// Retrieve value by handle
//	l, ok := table.Get(handle)
//
//	// Remove and get value
//	l, ok = table.Remove(handle)
//
// Handle 0 is never issued. A handle carries its slot's generation, so a
// handle kept after Remove does not resolve to a later value stored in the
// same slot.
//
// # Borrowing
//
// Borrow pins a value for the duration of a dispatch:
//
//	l, ok := table.Borrow(handle)
//	defer table.Return(handle)
//
// A Remove issued while a value is pinned hides the handle from Get and
// Borrow immediately, and drops the value once the last borrower returns.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	cancel := table.Subscribe(resource.ObserverFunc[Listener](func(e resource.Event[Listener]) {
//	    log.Printf("handle %d %s", e.Handle, e.Type)
//	}))
//	defer cancel()
//
// Values implementing Dropper have Drop called when their handle is
// released. Clear releases every handle at once.
package resource
