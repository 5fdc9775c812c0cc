// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build unix

package fdio

import (
	"strings"

	"golang.org/x/sys/unix"
)

// Kind classifies the failures reported by this package.
type Kind uint8

const (
	// KindInvalidArgument is malformed caller input, e.g. an empty path or a
	// negative count.
	KindInvalidArgument Kind = iota + 1
	// KindUnsupportedType is a buffer whose element type cannot be viewed as
	// raw bytes.
	KindUnsupportedType
	// KindOutOfRange is a buffer offset outside [0, size].
	KindOutOfRange
	// KindTooManyBytes is a transfer extending past the end of the buffer.
	KindTooManyBytes
	// KindHandleClosed is an operation on a handle that holds no descriptor.
	KindHandleClosed
	// KindOsError is a failed system call. The errno is in Error.Errno.
	KindOsError
	// KindShortRead is a read that hit end-of-data before filling the request.
	KindShortRead
	// KindShortWrite is a write that transferred fewer bytes than requested.
	KindShortWrite
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindUnsupportedType:
		return "unsupported buffer element type"
	case KindOutOfRange:
		return "offset out of range"
	case KindTooManyBytes:
		return "too many bytes"
	case KindHandleClosed:
		return "handle closed"
	case KindOsError:
		return "os error"
	case KindShortRead:
		return "short read"
	case KindShortWrite:
		return "short write"
	default:
		return "unknown error"
	}
}

// invalidArgument reports whether k is one of the kinds that describe bad
// caller input.
func (k Kind) invalidArgument() bool {
	switch k {
	case KindInvalidArgument, KindUnsupportedType, KindOutOfRange, KindTooManyBytes:
		return true
	}
	return false
}

// Error is the failure type returned by every operation in this package.
type Error struct {
	Op    string     // operation name, e.g. "read"
	Path  string     // path of the handle, if known
	Kind  Kind       // failure class
	Errno unix.Errno // set only for KindOsError
}

// Sentinel errors for use with errors.Is. ErrInvalidArgument also matches
// unsupported types, out-of-range offsets and oversized counts.
var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrUnsupportedType = &Error{Kind: KindUnsupportedType}
	ErrOutOfRange      = &Error{Kind: KindOutOfRange}
	ErrTooManyBytes    = &Error{Kind: KindTooManyBytes}
	ErrHandleClosed    = &Error{Kind: KindHandleClosed}
	ErrOsError         = &Error{Kind: KindOsError}
	ErrShortRead       = &Error{Kind: KindShortRead}
	ErrShortWrite      = &Error{Kind: KindShortWrite}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("fdio: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		if e.Path != "" {
			b.WriteString(" ")
			b.WriteString(e.Path)
		}
		b.WriteString(": ")
	}
	if e.Kind == KindOsError {
		b.WriteString(e.Errno.Error())
	} else {
		b.WriteString(e.Kind.String())
	}
	return b.String()
}

// Unwrap exposes the errno of an OS failure so that
// errors.Is(err, unix.ENOENT) works.
func (e *Error) Unwrap() error {
	if e.Kind == KindOsError && e.Errno != 0 {
		return e.Errno
	}
	return nil
}

// Is matches the package sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Path != "" || t.Errno != 0 {
		return false
	}
	if t.Kind == KindInvalidArgument {
		return e.Kind.invalidArgument()
	}
	return t.Kind == e.Kind
}

func newError(op, path string, kind Kind) *Error {
	return &Error{Op: op, Path: path, Kind: kind}
}

func osError(op, path string, errno unix.Errno) *Error {
	return &Error{Op: op, Path: path, Kind: KindOsError, Errno: errno}
}
