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

package config

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"trpc.group/trpc-go/linkstack/errs"
	"trpc.group/trpc-go/linkstack/internal/expandenv"
)

// Raw is a parsed config tree whose values are looked up by dotted keys,
// like "bench.workers".
type Raw struct {
	tree map[string]interface{}
}

// Parse expands ${ENV} references in data and decodes it with the named codec.
func Parse(data []byte, codecName string) (*Raw, error) {
	c := GetCodec(codecName)
	if c == nil {
		return nil, errs.Newf(errs.RetConfigLoadFail, "config: codec %q not registered", codecName)
	}
	tree := make(map[string]interface{})
	if err := c.Unmarshal(expandenv.ExpandEnv(data), &tree); err != nil {
		return nil, errs.Wrapf(err, errs.RetConfigLoadFail, "config: %s decode", codecName)
	}
	return &Raw{tree: tree}, nil
}

// Decode decodes the whole tree into out, matching yaml tags and converting
// weakly typed values such as "8" into ints.
func (r *Raw) Decode(out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errs.Wrap(err, errs.RetConfigInvalid, "config: new decoder")
	}
	if err := dec.Decode(r.tree); err != nil {
		return errs.Wrap(err, errs.RetConfigInvalid, "config: decode")
	}
	return nil
}

// IsSet reports whether key is present.
func (r *Raw) IsSet(key string) bool {
	_, ok := r.find(key)
	return ok
}

// GetString returns the value of key as a string, or defaultValue if key is
// absent or not convertible.
func (r *Raw) GetString(key string, defaultValue string) string {
	v, ok := r.find(key)
	if !ok {
		return defaultValue
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return defaultValue
	}
	return s
}

// GetBool returns the value of key as a bool.
func (r *Raw) GetBool(key string, defaultValue bool) bool {
	v, ok := r.find(key)
	if !ok {
		return defaultValue
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func (r *Raw) find(key string) (interface{}, bool) {
	var cur interface{} = r.tree
	for _, k := range strings.Split(key, ".") {
		m, err := cast.ToStringMapE(cur)
		if err != nil {
			return nil, false
		}
		v, ok := m[k]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}
