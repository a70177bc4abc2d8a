package scene

import "fmt"

type slot[T any] struct {
	value T
	used  bool
}

// slotTable hands out stable integer ids. Freed ids are reused last in,
// first out; the table never shrinks.
type slotTable[T any] struct {
	slots []slot[T]
	free  []int
}

func (t *slotTable[T]) insert(v T) int {
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		if id >= len(t.slots) || t.slots[id].used {
			panic(fmt.Sprintf("slot table: free id %d is occupied", id))
		}
		t.slots[id] = slot[T]{value: v, used: true}
		return id
	}
	t.slots = append(t.slots, slot[T]{value: v, used: true})
	return len(t.slots) - 1
}

func (t *slotTable[T]) get(id int) (T, bool) {
	if id < 0 || id >= len(t.slots) || !t.slots[id].used {
		var zero T
		return zero, false
	}
	return t.slots[id].value, true
}

// remove empties a slot. Removing an empty or unknown id does nothing.
func (t *slotTable[T]) remove(id int) (T, bool) {
	v, ok := t.get(id)
	if !ok {
		return v, false
	}
	t.slots[id] = slot[T]{}
	t.free = append(t.free, id)
	return v, true
}

func (t *slotTable[T]) live() int {
	return len(t.slots) - len(t.free)
}

func (t *slotTable[T]) each(fn func(id int, v T)) {
	for id, s := range t.slots {
		if s.used {
			fn(id, s.value)
		}
	}
}
