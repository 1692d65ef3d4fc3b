package frp

// cons is a persistent singly linked list. Versions share their tails, so a
// node can swap its parent set without copying or mutating the old one.
type cons[T any] struct {
	head T
	tail *cons[T]
}

func prepend[T any](v T, l *cons[T]) *cons[T] {
	return &cons[T]{head: v, tail: l}
}

// consOf builds a list holding vs in order.
func consOf[T any](vs ...T) *cons[T] {
	var l *cons[T]
	for i := len(vs) - 1; i >= 0; i-- {
		l = prepend(vs[i], l)
	}
	return l
}

func (l *cons[T]) len() int {
	n := 0
	for ; l != nil; l = l.tail {
		n++
	}
	return n
}

// dlink is a handle into a dlist, used for O(1) removal.
type dlink[T any] struct {
	value      T
	prev, next *dlink[T]
	list       *dlist[T]
}

// dlist is a mutable doubly linked list.
type dlist[T any] struct {
	head, tail *dlink[T]
}

func newDlist[T any]() *dlist[T] {
	return &dlist[T]{}
}

func (l *dlist[T]) pushBack(v T) *dlink[T] {
	k := &dlink[T]{value: v, prev: l.tail, list: l}
	if l.tail == nil {
		l.head = k
	} else {
		l.tail.next = k
	}
	l.tail = k
	return k
}

// remove unlinks k. Removing a link twice, or a link of another list, is a no-op.
func (l *dlist[T]) remove(k *dlink[T]) {
	if k == nil || k.list != l {
		return
	}
	if k.prev == nil {
		l.head = k.next
	} else {
		k.prev.next = k.next
	}
	if k.next == nil {
		l.tail = k.prev
	} else {
		k.next.prev = k.prev
	}
	k.prev, k.next, k.list = nil, nil, nil
}

// each visits values front to back. fn may remove the current link.
func (l *dlist[T]) each(fn func(T)) {
	for k := l.head; k != nil; {
		next := k.next
		fn(k.value)
		k = next
	}
}
