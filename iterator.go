//
//
// Tencent is pleased to support the open source community by making tRPC available.
//
// Copyright (C) 2023 Tencent.
// All rights reserved.
//
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the  Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.
//
//

package linkstack

import "iter"

// IntoIter moves the whole chain into a draining cursor.
// st must not be used afterwards; any call on it panics.
func (st *Stack[T]) IntoIter() *IntoIter[T] {
	st.mustWrite("IntoIter")
	it := &IntoIter[T]{chain: Stack[T]{head: st.head, size: st.size}}
	st.head, st.size = nil, 0
	st.borrow.moved = true
	return it
}

// Drain moves the chain out of st at call time and returns a sequence which
// pops it until empty. Elements left after an early break are dropped.
func (st *Stack[T]) Drain() iter.Seq[T] {
	it := st.IntoIter()
	return func(yield func(T) bool) {
		defer it.Close()
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(v) {
				return
			}
		}
	}
}

// IntoIter owns the elements it yields. It is not restartable: once Next
// reports false it keeps reporting false.
type IntoIter[T any] struct {
	chain Stack[T]
}

// Next pops the next element.
func (it *IntoIter[T]) Next() (T, bool) {
	return it.chain.pop()
}

// Len returns the number of elements not yet yielded.
func (it *IntoIter[T]) Len() int {
	return it.chain.size
}

// All returns the rest of the elements as a sequence.
func (it *IntoIter[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(v) {
				return
			}
		}
	}
}

// Close drops the elements not yet yielded.
func (it *IntoIter[T]) Close() {
	head := it.chain.head
	it.chain.head, it.chain.size = nil, 0
	teardown(head)
}

// Iter returns a read-only cursor from top to bottom. The stack can not be
// changed until the cursor is exhausted or closed, so a cursor that may be
// abandoned early needs a deferred Close:
//
//	it := st.Iter()
//	defer it.Close()
//
// All releases the borrow on its own and is the simpler form for a range loop.
func (st *Stack[T]) Iter() *Iter[T] {
	st.lendShared("Iter")
	return &Iter[T]{stack: st, next: st.head}
}

// All returns a sequence over the elements from top to bottom. The stack is
// shared borrowed while the range loop runs.
func (st *Stack[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := st.Iter()
		defer it.Close()
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(v) {
				return
			}
		}
	}
}

// Iter is a shared cursor. Any number of them may be alive at once.
type Iter[T any] struct {
	stack *Stack[T] // nil once released.
	next  *node[T]
}

// Next returns a copy of the element under the cursor and moves past it.
// The borrow is released when the chain runs out.
func (it *Iter[T]) Next() (T, bool) {
	cur := it.next
	if cur == nil {
		it.Close()
		var zero T
		return zero, false
	}
	it.next = cur.next
	return cur.value, true
}

// Close releases the borrow. It is safe to call more than once.
func (it *Iter[T]) Close() {
	if it.stack == nil {
		return
	}
	it.stack.returnShared()
	it.stack, it.next = nil, nil
}

// IterMut returns a cursor handing out pointers to the elements from top to
// bottom. Nothing else may touch the stack until it is exhausted or closed;
// callers that may stop early should defer Close. AllMut releases the borrow
// on its own.
func (st *Stack[T]) IterMut() *IterMut[T] {
	st.lendExclusive("IterMut")
	return &IterMut[T]{stack: st, next: st.head}
}

// AllMut returns a sequence of element pointers from top to bottom. The
// stack is exclusively borrowed while the range loop runs.
func (st *Stack[T]) AllMut() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		it := st.IterMut()
		defer it.Close()
		for p, ok := it.Next(); ok; p, ok = it.Next() {
			if !yield(p) {
				return
			}
		}
	}
}

// IterMut is an exclusive cursor.
type IterMut[T any] struct {
	stack *Stack[T] // nil once released.
	next  *node[T]
}

// Next returns a pointer to the element under the cursor and moves past it.
func (it *IterMut[T]) Next() (*T, bool) {
	cur := it.next
	it.next = nil
	if cur == nil {
		it.Close()
		return nil, false
	}
	it.next = cur.next
	return &cur.value, true
}

// Close releases the borrow. It is safe to call more than once.
func (it *IterMut[T]) Close() {
	if it.stack == nil {
		return
	}
	it.stack.returnExclusive()
	it.stack, it.next = nil, nil
}
