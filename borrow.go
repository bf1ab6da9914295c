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

import (
	"trpc.group/trpc-go/linkstack/errs"
	"trpc.group/trpc-go/linkstack/log"
)

// borrowState records who may touch the chain right now.
// The zero value means nothing is lent out.
type borrowState struct {
	readers   int  // live shared cursors.
	exclusive bool // a mutable cursor is alive.
	moved     bool // the chain has moved into a draining cursor.
}

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock() {}

// Unlock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Unlock() {}

func (st *Stack[T]) mustRead(op string) {
	if st.addr == nil {
		st.addr = st
	}
	switch {
	case st.addr != st:
		violate(errs.RetBorrowConflict, op, "stack was copied by value")
	case st.borrow.moved:
		violate(errs.RetUseAfterMove, op, "stack was moved into a draining cursor")
	case st.borrow.exclusive:
		violate(errs.RetBorrowConflict, op, "stack is exclusively borrowed")
	}
}

func (st *Stack[T]) mustWrite(op string) {
	st.mustRead(op)
	if st.borrow.readers > 0 {
		violate(errs.RetBorrowConflict, op, "stack has live shared cursors")
	}
}

func (st *Stack[T]) lendShared(op string) {
	st.mustRead(op)
	st.borrow.readers++
}

func (st *Stack[T]) returnShared() {
	st.borrow.readers--
}

func (st *Stack[T]) lendExclusive(op string) {
	st.mustWrite(op)
	st.borrow.exclusive = true
}

func (st *Stack[T]) returnExclusive() {
	st.borrow.exclusive = false
}

// violate logs the broken rule and panics with it.
func violate(code errs.RetCode, op, reason string) {
	err := errs.Newf(code, "linkstack: %s: %s", op, reason)
	log.Errorf("aliasing violation: %v", err)
	panic(err)
}
