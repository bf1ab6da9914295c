// Package expandenv replaces ${key} in byte slices with the env value of key.
package expandenv

import (
	"bytes"
	"os"
)

// ExpandEnv looks for ${var} in s and replaces them with value of the corresponding environment variable.
// ${var:-def} falls back to def when var is unset or empty.
// $var is left alone, since values such as passwords may contain $.
func ExpandEnv(s []byte) []byte {
	var buf []byte
	i := 0
	for j := 0; j < len(s); j++ {
		if s[j] != '$' || j+2 >= len(s) || s[j+1] != '{' {
			continue
		}
		if buf == nil {
			buf = make([]byte, 0, 2*len(s))
		}
		buf = append(buf, s[i:j]...)
		expr, w := braced(s[j+1:])
		switch {
		case w == 0:
			buf = append(buf, s[j]) // keep the $
		case expr != nil:
			buf = append(buf, lookup(expr)...)
		}
		j += w
		i = j + 1
	}
	if buf == nil {
		return s
	}
	return append(buf, s[i:]...)
}

// braced returns the content of a leading {...} in s and the number of bytes it spans.
// A zero width means there is no valid closing brace, and the $ is kept.
func braced(s []byte) ([]byte, int) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case ' ', '\n', '"':
			return nil, 0
		case '}':
			if i == 1 { // ${} expands to nothing.
				return nil, 2
			}
			return s[1:i], i + 1
		}
	}
	return nil, 0
}

func lookup(expr []byte) []byte {
	name, def, hasDef := bytes.Cut(expr, []byte(":-"))
	if v := os.Getenv(string(name)); v != "" || !hasDef {
		return []byte(v)
	}
	return def
}
