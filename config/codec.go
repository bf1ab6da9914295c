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
	"sync"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"
)

// Codec decodes config file content.
type Codec interface {
	// Name returns the codec name, which is also the file extension it serves.
	Name() string
	// Unmarshal deserializes in into out.
	Unmarshal(in []byte, out interface{}) error
}

var (
	codecMu sync.RWMutex
	codecs  = make(map[string]Codec)
)

func init() {
	RegisterCodec(&YamlCodec{})
	RegisterCodec(&TomlCodec{})
}

// RegisterCodec registers a Codec by its name.
func RegisterCodec(c Codec) {
	codecMu.Lock()
	codecs[c.Name()] = c
	codecMu.Unlock()
}

// GetCodec gets a Codec by name, nil if not registered.
func GetCodec(name string) Codec {
	codecMu.RLock()
	c := codecs[name]
	codecMu.RUnlock()
	return c
}

// YamlCodec decodes yaml.
type YamlCodec struct{}

// Name returns yaml codec's name.
func (*YamlCodec) Name() string {
	return "yaml"
}

// Unmarshal deserializes in into out with yaml.
func (*YamlCodec) Unmarshal(in []byte, out interface{}) error {
	return yaml.Unmarshal(in, out)
}

// TomlCodec decodes toml.
type TomlCodec struct{}

// Name returns toml codec's name.
func (*TomlCodec) Name() string {
	return "toml"
}

// Unmarshal deserializes in into out with toml.
func (*TomlCodec) Unmarshal(in []byte, out interface{}) error {
	return toml.Unmarshal(in, out)
}
