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

// Package errs provides the coded error type shared by linkstack packages.
package errs

import (
	"errors"
	"fmt"
	"io"
)

// RetCode is the numeric code carried by an Error.
type RetCode int32

// linkstack return codes.
const (
	// RetOK means success.
	RetOK RetCode = 0

	// RetBorrowConflict means a stack was accessed in a way its live cursors forbid.
	RetBorrowConflict RetCode = 101
	// RetUseAfterMove means a stack was used after its chain moved into a draining cursor.
	RetUseAfterMove RetCode = 102
	// RetDecodeFail means a stack snapshot could not be decoded.
	RetDecodeFail RetCode = 103

	// RetConfigLoadFail means a config file could not be read or parsed.
	RetConfigLoadFail RetCode = 201
	// RetConfigInvalid means a config file was parsed but holds invalid values.
	RetConfigInvalid RetCode = 202

	// RetBenchSetupFail means the bench harness could not start a workload.
	RetBenchSetupFail RetCode = 301
	// RetBenchMismatch means a workload observed a sequence other than the expected one.
	RetBenchMismatch RetCode = 302
	// RetBenchReportFail means the bench report could not be written.
	RetBenchReportFail RetCode = 303

	// RetUnknown is the code for unspecified errors.
	RetUnknown RetCode = 999
)

// Success is the message of a nil error.
const Success = "success"

// Error is the error type which contains a code and a message.
type Error struct {
	Code RetCode
	Msg  string

	cause error      // internal error, forms the error chain.
	stack stackTrace // call stack, set only once per error chain.
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return Success
	}
	if e.cause != nil {
		return fmt.Sprintf("code:%d, msg:%s, caused by %s", e.Code, e.Msg, e.cause.Error())
	}
	return fmt.Sprintf("code:%d, msg:%s", e.Code, e.Msg)
}

// Format implements fmt.Formatter. %+v prints the stack trace and the cause chain.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "code:%d, msg:%s", e.Code, e.Msg)
			if e.stack != nil {
				e.stack.Format(s, verb)
			}
			if e.cause != nil {
				_, _ = fmt.Fprintf(s, "\nCause by %+v", e.cause)
			}
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = fmt.Fprintf(s, "%%!%c(errs.Error=%s)", verb, e.Error())
	}
}

// Unwrap supports Go 1.13+ error chains.
func (e *Error) Unwrap() error { return e.cause }

// ErrCode permits any integer type as a code.
type ErrCode interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~int | ~uintptr
}

// New creates an error.
func New[T ErrCode](code T, msg string) error {
	return newError(RetCode(code), msg, nil)
}

// Newf creates an error, msg supports format strings.
func Newf[T ErrCode](code T, format string, params ...interface{}) error {
	return newError(RetCode(code), fmt.Sprintf(format, params...), nil)
}

// Wrap creates a new error which contains err. It returns nil if err is nil.
func Wrap[T ErrCode](err error, code T, msg string) error {
	if err == nil {
		return nil
	}
	return newError(RetCode(code), msg, err)
}

// Wrapf is the same as Wrap, msg supports format strings.
func Wrapf[T ErrCode](err error, code T, format string, params ...interface{}) error {
	if err == nil {
		return nil
	}
	return newError(RetCode(code), fmt.Sprintf(format, params...), err)
}

func newError(code RetCode, msg string, cause error) *Error {
	err := &Error{Code: code, Msg: msg, cause: cause}
	var e *Error
	// only the innermost Error of a chain records the stack.
	if traceable && (cause == nil || !errors.As(cause, &e)) {
		err.stack = callers()
	}
	return err
}

// Code gets the error code through error.
func Code(e error) RetCode {
	if e == nil {
		return RetOK
	}
	err, ok := e.(*Error)
	if !ok && !errors.As(e, &err) {
		return RetUnknown
	}
	if err == nil {
		return RetOK
	}
	return err.Code
}

// Msg gets the error message through error.
func Msg(e error) string {
	if e == nil {
		return Success
	}
	err, ok := e.(*Error)
	if !ok && !errors.As(e, &err) {
		return e.Error()
	}
	if err == nil {
		return Success
	}
	if err.cause != nil {
		return err.Error()
	}
	return err.Msg
}
