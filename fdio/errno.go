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
	"errors"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// lastErrno mirrors C errno: it is written only when a system call issued by
// this package fails and is never cleared on success.
var lastErrno atomic.Uintptr

// LastErrorCode returns the last OS error code observed by this package.
func LastErrorCode() int {
	return int(lastErrno.Load())
}

// DescribeError returns the platform description of an error code. Without
// an argument it describes LastErrorCode(). Unknown codes get the platform
// fallback text.
func DescribeError(code ...int) string {
	c := LastErrorCode()
	if len(code) > 0 {
		c = code[0]
	}
	return unix.Errno(c).Error()
}

// ErrnoName returns the symbolic name of an error code, e.g. "ENOENT", or ""
// if the platform does not define one.
func ErrnoName(code int) string {
	return unix.ErrnoName(unix.Errno(code))
}

// recordErrno extracts the errno from err and publishes it as the last error
// code. It must run before anything else can fail and overwrite it.
func recordErrno(err error) unix.Errno {
	var errno unix.Errno
	if !errors.As(err, &errno) || errno == 0 {
		errno = unix.EIO
	}
	lastErrno.Store(uintptr(errno))
	return errno
}
