package errs

import (
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"
)

var (
	traceable bool               // errors record a stack trace when set.
	content   string             // only frames containing content are printed if not empty.
	stackSkip = defaultStackSkip // number of frames skipped by callers.
)

const defaultStackSkip = 4

// SetTraceable controls whether new errors carry a stack trace.
func SetTraceable(x bool) {
	traceable = x
}

// SetTraceableWithContent enables stack traces and prints only the frames containing c.
func SetTraceableWithContent(c string) {
	traceable = true
	content = c
}

// frame is a program counter plus one, as returned by runtime.Callers.
type frame uintptr

func (f frame) pc() uintptr { return uintptr(f) - 1 }

func (f frame) fileLine() (string, int) {
	fn := runtime.FuncForPC(f.pc())
	if fn == nil {
		return "unknown", 0
	}
	return fn.FileLine(f.pc())
}

func (f frame) name() string {
	fn := runtime.FuncForPC(f.pc())
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

// Format prints the frame.
//
//	%s    source file base name
//	%d    source line
//	%v    equivalent to %s:%d
//	%+v   function name, then full path and line on the next line
func (f frame) Format(s fmt.State, verb rune) {
	file, line := f.fileLine()
	switch verb {
	case 's':
		if s.Flag('+') {
			io.WriteString(s, f.name()+"\n\t"+file)
			return
		}
		io.WriteString(s, path.Base(file))
	case 'd':
		io.WriteString(s, strconv.Itoa(line))
	case 'v':
		f.Format(s, 's')
		io.WriteString(s, ":"+strconv.Itoa(line))
	}
}

// stackTrace is a list of frames from innermost to outermost.
type stackTrace []frame

func (st stackTrace) Format(s fmt.State, verb rune) {
	if verb != 'v' || !s.Flag('+') {
		return
	}
	for _, f := range st {
		if content != "" && !strings.Contains(fmt.Sprintf("%+v", f), content) {
			continue
		}
		io.WriteString(s, "\n")
		f.Format(s, verb)
	}
}

func callers() stackTrace {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(stackSkip, pcs[:])
	st := make(stackTrace, n)
	for i := 0; i < n; i++ {
		st[i] = frame(pcs[i])
	}
	return st
}
