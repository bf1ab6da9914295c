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
	"bytes"

	jsoniter "github.com/json-iterator/go"

	"trpc.group/trpc-go/linkstack/errs"
)

// JSONAPI is used by MarshalJSON and UnmarshalJSON.
var JSONAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON encodes the stack as an array, top element first.
func (st *Stack[T]) MarshalJSON() ([]byte, error) {
	values := make([]T, 0, st.Len())
	for v := range st.All() {
		values = append(values, v)
	}
	return JSONAPI.Marshal(values)
}

// UnmarshalJSON replaces the contents of the stack with a decoded array.
// The first array element becomes the top. A JSON null leaves st unchanged.
func (st *Stack[T]) UnmarshalJSON(data []byte) error {
	st.mustWrite("UnmarshalJSON")
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var values []T
	if err := JSONAPI.Unmarshal(data, &values); err != nil {
		return errs.Wrap(err, errs.RetDecodeFail, "linkstack: decode stack")
	}
	head := st.head
	st.head, st.size = nil, 0
	teardown(head)
	for i := len(values) - 1; i >= 0; i-- {
		st.push(values[i])
	}
	return nil
}
