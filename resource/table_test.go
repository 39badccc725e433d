package resource

import (
	"sync"
	"testing"
)

type testObserver struct {
	events []Event[string]
}

func (o *testObserver) OnResourceEvent(e Event[string]) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable[string]()

	h, err := table.Insert("test")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if !h.IsValid() {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	val, ok = table.Remove(h)
	if !ok {
		t.Fatal("Remove failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if _, ok := table.Get(h); ok {
		t.Fatal("Expected Get to fail after Remove")
	}
	if _, ok := table.Remove(h); ok {
		t.Fatal("Expected second Remove to fail")
	}
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestTable_ZeroHandle(t *testing.T) {
	table := NewTable[int]()
	if _, ok := table.Get(0); ok {
		t.Fatal("Handle 0 must be invalid")
	}
	if _, ok := table.Borrow(0); ok {
		t.Fatal("Handle 0 must not be borrowable")
	}
	if table.Return(0) {
		t.Fatal("Handle 0 must not be returnable")
	}
}

func TestTable_StaleHandle(t *testing.T) {
	table := NewTable[string]()

	old, _ := table.Insert("a")
	table.Remove(old)

	fresh, _ := table.Insert("b")
	if fresh == old {
		t.Fatal("Reused slot must issue a new handle")
	}
	if fresh.slot() != old.slot() {
		t.Fatalf("Expected slot %d to be reused, got %d", old.slot(), fresh.slot())
	}
	if _, ok := table.Get(old); ok {
		t.Fatal("Stale handle must not resolve")
	}
	if v, _ := table.Get(fresh); v != "b" {
		t.Fatalf("Expected 'b', got %v", v)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable[string]()
	obs := &testObserver{}
	cancel := table.Subscribe(obs)

	h, _ := table.Insert("test")
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated {
		t.Fatal("Expected EventCreated")
	}
	if obs.events[0].Handle != h {
		t.Fatal("Wrong handle in event")
	}

	table.Remove(h)
	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[1].Type != EventDropped {
		t.Fatal("Expected EventDropped")
	}

	cancel()
	table.Insert("test2")
	if len(obs.events) != 2 {
		t.Fatal("Should not receive events after cancel")
	}
}

func TestTable_ObserverFunc(t *testing.T) {
	table := NewTable[int]()
	var types []EventType
	table.Subscribe(ObserverFunc[int](func(e Event[int]) {
		types = append(types, e.Type)
	}))

	h, _ := table.Insert(1)
	table.Borrow(h)
	table.Return(h)
	table.Remove(h)

	want := []EventType{EventCreated, EventBorrowed, EventBorrowReturned, EventDropped}
	if len(types) != len(want) {
		t.Fatalf("Expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("Event %d: expected %s, got %s", i, want[i], types[i])
		}
	}
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestTable_DropperInterface(t *testing.T) {
	table := NewTable[*dropCounter]()
	d := &dropCounter{}

	h, _ := table.Insert(d)
	table.Remove(h)
	table.Remove(h)

	if d.count != 1 {
		t.Fatalf("Expected Drop() to be called once, called %d times", d.count)
	}
}

func TestTable_RemoveWhileBorrowed(t *testing.T) {
	table := NewTable[*dropCounter]()
	d := &dropCounter{}
	h, _ := table.Insert(d)

	if _, ok := table.Borrow(h); !ok {
		t.Fatal("Borrow failed")
	}
	if _, ok := table.Remove(h); !ok {
		t.Fatal("Remove of borrowed handle should succeed")
	}
	if d.count != 0 {
		t.Fatal("Drop must wait for the borrow to return")
	}
	if _, ok := table.Get(h); ok {
		t.Fatal("Removed handle must not resolve")
	}
	if table.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", table.Len())
	}

	if !table.Return(h) {
		t.Fatal("Return failed")
	}
	if d.count != 1 {
		t.Fatalf("Expected Drop() once after Return, got %d", d.count)
	}
	if table.Return(h) {
		t.Fatal("Return after release should fail")
	}
}

func TestTable_Clear(t *testing.T) {
	table := NewTable[string]()

	table.Insert("a")
	table.Insert("b")
	table.Insert("c")

	if table.Len() != 3 {
		t.Fatal("Expected Len() == 3")
	}

	table.Clear()

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Clear")
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable[int]()
	for i := 1; i <= 4; i++ {
		table.Insert(i * 10)
	}

	var seen []int
	table.Each(func(_ Handle, v int) bool {
		seen = append(seen, v)
		return len(seen) < 2
	})
	if len(seen) != 2 || seen[0] != 10 || seen[1] != 20 {
		t.Fatalf("Expected [10 20], got %v", seen)
	}
}

func TestTable_Full(t *testing.T) {
	table := NewTable[*dropCounter]()
	table.limit = 2

	h, _ := table.Insert(&dropCounter{})
	table.Insert(&dropCounter{})
	if _, err := table.Insert(&dropCounter{}); err != ErrFull {
		t.Fatalf("Expected ErrFull, got %v", err)
	}

	table.Remove(h)
	if _, err := table.Insert(&dropCounter{}); err != nil {
		t.Fatalf("Insert into a released slot failed: %v", err)
	}
}

func TestTable_ClearWhileBorrowed(t *testing.T) {
	table := NewTable[*dropCounter]()
	d := &dropCounter{}
	h, _ := table.Insert(d)
	table.Insert(&dropCounter{})
	table.Borrow(h)

	table.Clear()
	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Clear")
	}
	if d.count != 0 {
		t.Fatal("Clear should not drop a borrowed value")
	}
	table.Return(h)
	if d.count != 1 {
		t.Fatal("Expected drop on last Return")
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable[int]()
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				h, err := table.Insert(g*1000 + i)
				if err != nil {
					t.Errorf("Insert failed: %v", err)
					return
				}
				if v, ok := table.Borrow(h); !ok || v != g*1000+i {
					t.Errorf("Borrow returned %v, %v", v, ok)
					return
				}
				table.Return(h)
				if _, ok := table.Remove(h); !ok {
					t.Errorf("Remove failed for %d", h)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	if table.Len() != 0 {
		t.Fatalf("Expected empty table, got %d", table.Len())
	}
}
