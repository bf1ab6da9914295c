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

package bench

import (
	"encoding/binary"
	"hash"

	"github.com/cespare/xxhash"
	"go.uber.org/atomic"

	"trpc.group/trpc-go/linkstack"
	"trpc.group/trpc-go/linkstack/config"
	"trpc.group/trpc-go/linkstack/errs"
)

// tally counts stack traffic across all workers.
type tally struct {
	pushed atomic.Uint64
	popped atomic.Uint64
}

// workload runs on a fresh stack and returns the digest of what it observed.
type workload func(depth int, t *tally) (uint64, error)

var workloads = map[string]workload{
	config.WorkloadLIFO:     runLIFO,
	config.WorkloadTeardown: runTeardown,
	config.WorkloadDrain:    runDrain,
	config.WorkloadIter:     runIter,
	config.WorkloadIterMut:  runIterMut,
	config.WorkloadPeek:     runPeek,
	config.WorkloadSnapshot: runSnapshot,
}

type digest struct {
	h   hash.Hash64
	buf [8]byte
}

func newDigest() *digest {
	return &digest{h: xxhash.New()}
}

func (d *digest) add(v int) {
	binary.LittleEndian.PutUint64(d.buf[:], uint64(v))
	d.h.Write(d.buf[:])
}

func (d *digest) sum() uint64 {
	return d.h.Sum64()
}

// popOrder is the digest of f(depth-1), ..., f(0), the order a stack
// filled with f(0), ..., f(depth-1) gives its elements back.
func popOrder(depth int, f func(int) int) uint64 {
	d := newDigest()
	for i := depth - 1; i >= 0; i-- {
		d.add(f(i))
	}
	return d.sum()
}

func identity(i int) int { return i }

func fill(depth int, t *tally) *linkstack.Stack[int] {
	st := linkstack.New[int]()
	for i := 0; i < depth; i++ {
		st.Push(i)
	}
	t.pushed.Add(uint64(depth))
	return st
}

func check(name string, got, want uint64) error {
	if got != want {
		return errs.Newf(errs.RetBenchMismatch, "bench: %s: checksum %x, want %x", name, got, want)
	}
	return nil
}

func runLIFO(depth int, t *tally) (uint64, error) {
	st := fill(depth, t)
	d := newDigest()
	for v, ok := st.Pop(); ok; v, ok = st.Pop() {
		d.add(v)
		t.popped.Inc()
	}
	if _, ok := st.Pop(); ok {
		return 0, errs.New(errs.RetBenchMismatch, "bench: lifo: pop after exhaustion returned a value")
	}
	return d.sum(), check(config.WorkloadLIFO, d.sum(), popOrder(depth, identity))
}

func runTeardown(depth int, t *tally) (uint64, error) {
	st := fill(depth, t)
	st.Reset()
	if n := st.Len(); n != 0 {
		return 0, errs.Newf(errs.RetBenchMismatch, "bench: teardown: %d elements left", n)
	}
	d := newDigest()
	d.add(depth)
	return d.sum(), nil
}

func runDrain(depth int, t *tally) (uint64, error) {
	d := newDigest()
	for v := range fill(depth, t).Drain() {
		d.add(v)
		t.popped.Inc()
	}
	return d.sum(), check(config.WorkloadDrain, d.sum(), popOrder(depth, identity))
}

func runIter(depth int, t *tally) (uint64, error) {
	st := fill(depth, t)
	d := newDigest()
	it := st.Iter()
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		d.add(v)
	}
	want := popOrder(depth, identity)
	if err := check(config.WorkloadIter, d.sum(), want); err != nil {
		return d.sum(), err
	}
	// a shared walk leaves the stack as it was.
	after := newDigest()
	for v := range st.Drain() {
		after.add(v)
		t.popped.Inc()
	}
	return d.sum(), check(config.WorkloadIter, after.sum(), want)
}

func runIterMut(depth int, t *tally) (uint64, error) {
	st := fill(depth, t)
	for p := range st.AllMut() {
		*p = *p*2 + 1
	}
	d := newDigest()
	for v := range st.All() {
		d.add(v)
	}
	return d.sum(), check(config.WorkloadIterMut, d.sum(), popOrder(depth, func(i int) int { return i*2 + 1 }))
}

func runPeek(depth int, t *tally) (uint64, error) {
	st := fill(depth, t)
	d := newDigest()
	for !st.IsEmpty() {
		v, _ := st.Peek()
		p, _ := st.PeekMut()
		if *p != v {
			return 0, errs.Newf(errs.RetBenchMismatch, "bench: peek: PeekMut saw %d, Peek saw %d", *p, v)
		}
		*p = -v
		got, _ := st.Pop()
		t.popped.Inc()
		d.add(got)
	}
	return d.sum(), check(config.WorkloadPeek, d.sum(), popOrder(depth, func(i int) int { return -i }))
}

func runSnapshot(depth int, t *tally) (uint64, error) {
	data, err := fill(depth, t).MarshalJSON()
	if err != nil {
		return 0, errs.Wrap(err, errs.RetBenchMismatch, "bench: snapshot: encode")
	}
	st := linkstack.New[int]()
	if err := st.UnmarshalJSON(data); err != nil {
		return 0, err
	}
	t.pushed.Add(uint64(depth))
	d := newDigest()
	for v := range st.Drain() {
		d.add(v)
		t.popped.Inc()
	}
	return d.sum(), check(config.WorkloadSnapshot, d.sum(), popOrder(depth, identity))
}
