// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License that can be found in the LICENSE file.

package intstack_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/linkstack/intstack"
)

func TestStack(t *testing.T) {
	st := intstack.New()

	_, ok := st.Pop()
	require.False(t, ok)

	st.Push(1)
	st.Push(2)
	st.Push(3)
	require.Equal(t, 3, st.Len())

	for _, want := range []int32{3, 2, 1} {
		v, ok := st.Pop()
		require.True(t, ok)
		require.Equal(t, want, v)
	}
	_, ok = st.Pop()
	require.False(t, ok)
	require.Zero(t, st.Len())
}

func TestReset(t *testing.T) {
	st := intstack.New()
	for i := int32(0); i < 1_000_000; i++ {
		st.Push(i)
	}
	st.Reset()
	require.Zero(t, st.Len())
	_, ok := st.Pop()
	require.False(t, ok)
}

func TestPushAfterReset(t *testing.T) {
	st := intstack.New()
	for i := int32(0); i < 5; i++ {
		st.Push(i)
	}
	st.Reset()
	st.Push(7)
	require.Equal(t, 1, st.Len())
	v, ok := st.Pop()
	require.True(t, ok)
	require.Equal(t, int32(7), v)
}
