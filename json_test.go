// Tencent is pleased to support the open source community by making tRPC available.
// Copyright (C) 2023 THL A29 Limited, a Tencent company. All rights reserved.
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the Apache 2.0 License that can be found in the LICENSE file.

package linkstack_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/linkstack"
	"trpc.group/trpc-go/linkstack/errs"
)

func TestJSON(t *testing.T) {
	st := newStack(1, 2, 3)
	data, err := json.Marshal(st)
	require.Nil(t, err)
	require.JSONEq(t, `[3,2,1]`, string(data))

	got := linkstack.New[int]()
	got.Push(99)
	require.Nil(t, json.Unmarshal(data, got))
	require.Equal(t, "linkstack[3 2 1]", got.String())

	v, ok := got.Pop()
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestJSONEmpty(t *testing.T) {
	data, err := linkstack.New[string]().MarshalJSON()
	require.Nil(t, err)
	require.Equal(t, `[]`, string(data))

	st := linkstack.New[string]()
	st.Push("a")
	require.Nil(t, st.UnmarshalJSON([]byte(`[]`)))
	require.True(t, st.IsEmpty())
}

func TestJSONNullKeepsStack(t *testing.T) {
	st := linkstack.New[string]()
	st.Push("a")
	st.Push("b")
	require.Nil(t, st.UnmarshalJSON([]byte(`null`)))
	require.Equal(t, "linkstack[b a]", st.String())

	var holder struct {
		Frames *linkstack.Stack[string] `json:"frames"`
	}
	holder.Frames = st
	require.Nil(t, json.Unmarshal([]byte(`{"frames":null}`), &holder))
	require.Nil(t, holder.Frames)
	require.Equal(t, 2, st.Len())
}

func TestJSONStructs(t *testing.T) {
	type frame struct {
		Name  string `json:"name"`
		Depth int    `json:"depth"`
	}
	st := linkstack.New[frame]()
	st.Push(frame{Name: "main", Depth: 0})
	st.Push(frame{Name: "run", Depth: 1})

	data, err := linkstack.JSONAPI.Marshal(st)
	require.Nil(t, err)
	require.JSONEq(t, `[{"name":"run","depth":1},{"name":"main","depth":0}]`, string(data))
}

func TestJSONDecodeFail(t *testing.T) {
	st := newStack(1)
	err := st.UnmarshalJSON([]byte(`{"not":"an array"}`))
	require.Equal(t, errs.RetDecodeFail, errs.Code(err))
	// a failed decode leaves the stack untouched.
	require.Equal(t, "linkstack[1]", st.String())
}
