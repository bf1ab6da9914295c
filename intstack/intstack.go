// Package intstack provides a minimal non-thread-safe stack of int32.
package intstack

// Stack is a non-thread-safe stack of int32.
type Stack struct {
	head *node
	size int
}

// node is owned by exactly one link: the head slot or the next field of the
// node above it. A nil link ends the chain.
type node struct {
	elem int32
	next *node
}

// New creates a stack.
func New() *Stack {
	return &Stack{}
}

// Len returns the stack size.
func (st *Stack) Len() int {
	return st.size
}

// Push pushes an element onto the stack.
func (st *Stack) Push(elem int32) {
	st.head = &node{elem: elem, next: st.head}
	st.size++
}

// Pop pops an element from the stack.
func (st *Stack) Pop() (int32, bool) {
	top := st.head
	if top == nil {
		return 0, false
	}
	st.head, top.next = top.next, nil
	st.size--
	return top.elem, true
}

// Reset drops all elements, unlinking them one by one.
func (st *Stack) Reset() {
	cur := st.head
	st.head, st.size = nil, 0
	for cur != nil {
		cur, cur.next = cur.next, nil
	}
}
