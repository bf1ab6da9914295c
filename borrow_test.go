// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License that can be found in the LICENSE file.

package linkstack_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/linkstack"
	"trpc.group/trpc-go/linkstack/errs"
)

// requireViolation runs fn and checks it panics with an *errs.Error of code.
func requireViolation(t *testing.T, code errs.RetCode, fn func()) {
	t.Helper()
	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	require.NotNil(t, recovered, "expected a panic")
	err, ok := recovered.(error)
	require.True(t, ok, "panic value %v is not an error", recovered)
	require.Equal(t, code, errs.Code(err))
}

func TestSharedBorrowForbidsWrites(t *testing.T) {
	st := newStack(1, 2, 3)
	it := st.Iter()

	requireViolation(t, errs.RetBorrowConflict, func() { st.Push(4) })
	requireViolation(t, errs.RetBorrowConflict, func() { st.Pop() })
	requireViolation(t, errs.RetBorrowConflict, func() { st.PeekMut() })
	requireViolation(t, errs.RetBorrowConflict, func() { st.Reset() })
	requireViolation(t, errs.RetBorrowConflict, func() { st.IterMut() })
	requireViolation(t, errs.RetBorrowConflict, func() { st.IntoIter() })
	requireViolation(t, errs.RetBorrowConflict, func() { _ = st.UnmarshalJSON([]byte("[]")) })

	// reads are still fine.
	v, ok := st.Peek()
	require.True(t, ok)
	require.Equal(t, 3, v)
	require.Equal(t, 3, st.Len())
	_, err := st.MarshalJSON()
	require.Nil(t, err)

	it.Close()
	st.Push(4)
	require.Equal(t, 4, st.Len())
}

func TestExclusiveBorrowForbidsEverything(t *testing.T) {
	st := newStack(1, 2, 3)
	it := st.IterMut()

	requireViolation(t, errs.RetBorrowConflict, func() { st.Push(4) })
	requireViolation(t, errs.RetBorrowConflict, func() { st.Pop() })
	requireViolation(t, errs.RetBorrowConflict, func() { st.Peek() })
	requireViolation(t, errs.RetBorrowConflict, func() { st.Len() })
	requireViolation(t, errs.RetBorrowConflict, func() { st.Iter() })
	requireViolation(t, errs.RetBorrowConflict, func() { st.IterMut() })
	requireViolation(t, errs.RetBorrowConflict, func() { _ = st.String() })

	it.Close()
	require.Equal(t, 3, st.Len())
}

func TestRangeLoopsHoldBorrow(t *testing.T) {
	st := newStack(1, 2, 3)
	requireViolation(t, errs.RetBorrowConflict, func() {
		for range st.All() {
			st.Push(0)
		}
	})
	// the deferred release ran while the panic unwound.
	st.Push(4)

	requireViolation(t, errs.RetBorrowConflict, func() {
		for range st.AllMut() {
			st.Peek()
		}
	})
	st.Push(5)
	require.Equal(t, 5, st.Len())

	requireViolation(t, errs.RetBorrowConflict, func() {
		st.PushAll(st.All())
	})
	require.Equal(t, 5, st.Len())
}

func TestUseAfterMove(t *testing.T) {
	st := newStack(1, 2, 3)
	it := st.IntoIter()

	requireViolation(t, errs.RetUseAfterMove, func() { st.Push(4) })
	requireViolation(t, errs.RetUseAfterMove, func() { st.Pop() })
	requireViolation(t, errs.RetUseAfterMove, func() { st.Peek() })
	requireViolation(t, errs.RetUseAfterMove, func() { st.Iter() })
	requireViolation(t, errs.RetUseAfterMove, func() { st.IntoIter() })
	requireViolation(t, errs.RetUseAfterMove, func() { st.Drain() })

	// the cursor still owns every element.
	require.Equal(t, 3, it.Len())
}

func TestViolationMessage(t *testing.T) {
	st := linkstack.New[int]()
	st.IterMut()
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		require.Contains(t, errs.Msg(err), "linkstack: Push: stack is exclusively borrowed")
	}()
	st.Push(1)
}

// copyOf returns a pointer to a shallow copy of *st, like cp := *st.
func copyOf[T any](st *linkstack.Stack[T]) *linkstack.Stack[T] {
	cp := reflect.New(reflect.TypeOf(st).Elem())
	cp.Elem().Set(reflect.ValueOf(st).Elem())
	return cp.Interface().(*linkstack.Stack[T])
}

func TestCopiedStackPanics(t *testing.T) {
	st := newStack(1, 2)
	cp := copyOf(st)

	requireViolation(t, errs.RetBorrowConflict, func() { cp.Pop() })
	requireViolation(t, errs.RetBorrowConflict, func() { cp.Peek() })
	requireViolation(t, errs.RetBorrowConflict, func() { cp.Push(3) })
	requireViolation(t, errs.RetBorrowConflict, func() { cp.Iter() })

	v, ok := st.Peek()
	require.True(t, ok)
	require.Equal(t, 2, v)
	require.Equal(t, 2, st.Len())
}

func TestCopiedZeroValueStackPanics(t *testing.T) {
	var st linkstack.Stack[int]
	st.Push(1)
	cp := copyOf(&st)

	requireViolation(t, errs.RetBorrowConflict, func() { cp.Len() })
	require.Equal(t, 1, st.Len())
}

func TestAbandonedCursorKeepsBorrow(t *testing.T) {
	firstOf := func(st *linkstack.Stack[int], deferClose bool) int {
		it := st.Iter()
		if deferClose {
			defer it.Close()
		}
		v, _ := it.Next()
		return v
	}

	st := newStack(1, 2, 3)
	require.Equal(t, 3, firstOf(st, true))
	st.Push(4)

	require.Equal(t, 4, firstOf(st, false))
	requireViolation(t, errs.RetBorrowConflict, func() { st.Push(5) })
}
