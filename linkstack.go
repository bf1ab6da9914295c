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

// Package linkstack provides a non-thread-safe LIFO stack built on a singly
// linked chain, with draining, shared and exclusive cursors over it.
package linkstack

import (
	"fmt"
	"iter"
	"strings"
)

// Stack is a non-thread-safe LIFO stack. The zero value is an empty stack.
//
// Every node of the chain has exactly one owner: either the head slot of the
// stack or the next field of the node pushed right after it. Cursors borrow
// the chain; while a shared cursor is alive the stack may only be read, and
// while an exclusive cursor is alive it may not be used at all. Breaking
// either rule panics with an *errs.Error.
//
// A Stack must not be copied after first use; a copy panics when used.
type Stack[T any] struct {
	_      noCopy
	addr   *Stack[T] // of receiver, to detect copies by value.
	head   *node[T]
	size   int
	borrow borrowState
}

type node[T any] struct {
	value T
	next  *node[T]
}

// New creates a stack.
func New[T any]() *Stack[T] {
	st := &Stack[T]{}
	st.addr = st
	return st
}

// Len returns the number of elements on the stack.
func (st *Stack[T]) Len() int {
	st.mustRead("Len")
	return st.size
}

// IsEmpty reports whether the stack holds no element.
func (st *Stack[T]) IsEmpty() bool {
	st.mustRead("IsEmpty")
	return st.head == nil
}

// Push pushes an element onto the stack.
func (st *Stack[T]) Push(value T) {
	st.mustWrite("Push")
	st.push(value)
}

// PushAll pushes every value of seq in order, so the last one ends up on top.
// seq must not read st.
func (st *Stack[T]) PushAll(seq iter.Seq[T]) {
	st.lendExclusive("PushAll")
	defer st.returnExclusive()
	for v := range seq {
		st.push(v)
	}
}

func (st *Stack[T]) push(value T) {
	st.head = &node[T]{value: value, next: st.head}
	st.size++
}

// Pop removes the top element and returns it.
// The bool result is false when the stack is empty.
func (st *Stack[T]) Pop() (T, bool) {
	st.mustWrite("Pop")
	return st.pop()
}

func (st *Stack[T]) pop() (T, bool) {
	var zero T
	top := st.head
	if top == nil {
		return zero, false
	}
	st.head, top.next = top.next, nil
	st.size--
	value := top.value
	top.value = zero
	return value, true
}

// Peek returns a copy of the top element without removing it.
func (st *Stack[T]) Peek() (T, bool) {
	st.mustRead("Peek")
	if st.head == nil {
		var zero T
		return zero, false
	}
	return st.head.value, true
}

// PeekMut returns a pointer to the top element so it can be changed in place.
// The pointer must not be used after the next Push, Pop, Reset or cursor
// construction on st.
func (st *Stack[T]) PeekMut() (*T, bool) {
	st.mustWrite("PeekMut")
	if st.head == nil {
		return nil, false
	}
	return &st.head.value, true
}

// Reset drops every element. The chain is unlinked one node at a time, so
// the cost of a long stack is loop iterations, never call depth.
func (st *Stack[T]) Reset() {
	st.mustWrite("Reset")
	head := st.head
	st.head, st.size = nil, 0
	teardown(head)
}

// teardown detaches each node's successor before clearing it.
func teardown[T any](cur *node[T]) {
	var zero T
	for cur != nil {
		next := cur.next
		cur.next = nil
		cur.value = zero
		cur = next
	}
}

// String prints the elements from top to bottom, like "linkstack[3 2 1]".
func (st *Stack[T]) String() string {
	st.mustRead("String")
	var b strings.Builder
	b.WriteString("linkstack[")
	for n := st.head; n != nil; n = n.next {
		if n != st.head {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", n.value)
	}
	b.WriteByte(']')
	return b.String()
}
