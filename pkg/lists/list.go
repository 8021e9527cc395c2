// Package lists implements a circular doubly linked list anchored by a
// sentinel node.
//
// Payloads are borrowed *T references owned by the caller. Remove and IndexOf
// compare them by identity (pointer equality), never by the pointed-to value.
//
// A List is not safe for concurrent use. Callers sharing a list between
// goroutines must guard every call with their own lock.
package lists

import (
	"fmt"
	"io"
	"strings"
)

type node[T any] struct {
	value      *T
	next, prev *node[T]
}

// List is a ring of nodes. root is the sentinel: it never carries a payload
// and its next/prev are the first/last elements, or root itself when empty.
// The zero value is an empty list. A List must not be copied after use.
type List[T any] struct {
	root node[T]
	len  int
}

func (l *List[T]) lazyInit() {
	if l.root.next == nil {
		l.root.next = &l.root
		l.root.prev = &l.root
		l.len = 0
	}
}

func New[T any]() *List[T] {
	l := new(List[T])
	l.lazyInit()
	return l
}

// Len returns the cached element count in O(1), or -1 for a nil list.
func (l *List[T]) Len() int {
	if l == nil {
		return -1
	}
	return l.len
}

// insert links a new node holding v right after at.
func (l *List[T]) insert(v *T, at *node[T]) {
	n := &node[T]{value: v}
	n.prev = at
	n.next = at.next
	n.prev.next = n
	n.next.prev = n
	l.len++
}

func (l *List[T]) unlink(n *node[T]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.next = nil
	n.prev = nil
	n.value = nil
	l.len--
}

// Append inserts v as the new last element.
func (l *List[T]) Append(v *T) error {
	if l == nil || v == nil {
		return opError("append", ErrInvalidArgument)
	}
	l.lazyInit()
	l.insert(v, l.root.prev)
	return nil
}

// Prepend inserts v as the new first element.
func (l *List[T]) Prepend(v *T) error {
	if l == nil || v == nil {
		return opError("prepend", ErrInvalidArgument)
	}
	l.lazyInit()
	l.insert(v, &l.root)
	return nil
}

// Remove unlinks the first element, in forward order, that is the same
// reference as v. The payload itself is left untouched.
func (l *List[T]) Remove(v *T) error {
	if l == nil || v == nil {
		return opError("remove", ErrInvalidArgument)
	}
	l.lazyInit()
	for n := l.root.next; n != &l.root; n = n.next {
		if n.value == v {
			l.unlink(n)
			return nil
		}
	}
	return opError("remove", ErrNotFound)
}

func (l *List[T]) First() (*T, error) {
	if l == nil {
		return nil, opError("first", ErrInvalidArgument)
	}
	l.lazyInit()
	if l.root.next == &l.root {
		return nil, opError("first", ErrOutOfBounds)
	}
	return l.root.next.value, nil
}

func (l *List[T]) Last() (*T, error) {
	if l == nil {
		return nil, opError("last", ErrInvalidArgument)
	}
	l.lazyInit()
	if l.root.prev == &l.root {
		return nil, opError("last", ErrOutOfBounds)
	}
	return l.root.prev.value, nil
}

// At returns the element at zero-based position k. The range check uses the
// cached length, so an invalid k costs nothing; a valid one costs O(k).
func (l *List[T]) At(k int) (*T, error) {
	if l == nil {
		return nil, opError("at", ErrInvalidArgument)
	}
	l.lazyInit()
	if k < 0 || k >= l.len {
		return nil, opError(fmt.Sprintf("at %d", k), ErrOutOfBounds)
	}
	n := l.root.next
	for i := 0; i < k; i++ {
		n = n.next
	}
	return n.value, nil
}

// IndexOf returns the position of the first element that is the same
// reference as v, or NotFound.
func (l *List[T]) IndexOf(v *T) int {
	if l == nil || v == nil {
		return NotFound
	}
	l.lazyInit()
	i := 0
	for n := l.root.next; n != &l.root; n = n.next {
		if n.value == v {
			return i
		}
		i++
	}
	return NotFound
}

// Find returns the first element for which match reports true, and its
// position. It returns nil, NotFound when nothing matches.
func (l *List[T]) Find(match func(*T) bool) (*T, int) {
	if l == nil || match == nil {
		return nil, NotFound
	}
	l.lazyInit()
	i := 0
	for n := l.root.next; n != &l.root; n = n.next {
		if match(n.value) {
			return n.value, i
		}
		i++
	}
	return nil, NotFound
}

// Each calls fn for every element front to back until fn returns false.
// fn must not modify the list.
func (l *List[T]) Each(fn func(*T) bool) {
	if l == nil {
		return
	}
	l.lazyInit()
	for n := l.root.next; n != &l.root; n = n.next {
		if !fn(n.value) {
			return
		}
	}
}

// EachReverse is Each walking from back to front.
func (l *List[T]) EachReverse(fn func(*T) bool) {
	if l == nil {
		return
	}
	l.lazyInit()
	for n := l.root.prev; n != &l.root; n = n.prev {
		if !fn(n.value) {
			return
		}
	}
}

func (l *List[T]) ToSlice() []*T {
	res := make([]*T, 0, max(l.Len(), 0))
	l.Each(func(v *T) bool {
		res = append(res, v)
		return true
	})
	return res
}

// Dump writes the payload addresses front to back, e.g. "[0xc0000a,0xc0000b]".
// The format is for debugging only.
func (l *List[T]) Dump(w io.Writer) error {
	if l == nil || w == nil {
		return opError("dump", ErrInvalidArgument)
	}
	_, err := io.WriteString(w, l.String()+"\n")
	return err
}

func (l *List[T]) String() string {
	if l == nil {
		return "<nil>"
	}
	l.lazyInit()
	s := new(strings.Builder)
	s.WriteRune('[')
	for n := l.root.next; n != &l.root; n = n.next {
		fmt.Fprintf(s, "%p", n.value)
		if n.next != &l.root {
			s.WriteRune(',')
		}
	}
	s.WriteRune(']')
	return s.String()
}

// Terminate unlinks every node of *lp, then the sentinel, and sets *lp to
// nil. Payloads are not touched.
func Terminate[T any](lp **List[T]) error {
	if lp == nil || *lp == nil {
		return opError("terminate", ErrInvalidArgument)
	}
	l := *lp
	l.lazyInit()
	n := l.root.next
	for n != &l.root {
		next := n.next
		l.unlink(n)
		n = next
	}
	l.root.next = nil
	l.root.prev = nil
	*lp = nil
	return nil
}
