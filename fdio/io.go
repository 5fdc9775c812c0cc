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
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Result is the raw outcome of one system call.
type Result struct {
	// Value is the raw return value: bytes transferred, new offset or ioctl
	// result. It is -1 when the call failed.
	Value int64
	// Errno is the error code captured right after a failed call, 0
	// otherwise.
	Errno unix.Errno
}

// Failed reports whether the system call signalled failure.
func (r Result) Failed() bool { return r.Value == -1 }

func failed(errno unix.Errno) Result {
	return Result{Value: -1, Errno: errno}
}

// IOOption adjusts the byte range of a read or write.
type IOOption func(*span)

type span struct {
	offset   int
	count    int
	hasCount bool
}

// WithOffset starts the transfer offset bytes into the buffer. Default: 0.
func WithOffset(offset int) IOOption {
	return func(s *span) { s.offset = offset }
}

// WithCount transfers count bytes. Default: everything from the offset to
// the end of the buffer.
func WithCount(count int) IOOption {
	return func(s *span) {
		s.count = count
		s.hasCount = true
	}
}

type direction uint8

const (
	dirRead direction = iota
	dirWrite
)

func (d direction) String() string {
	if d == dirWrite {
		return "write"
	}
	return "read"
}

// Read reads into buf, which may be a []byte, a slice of any fixed-size
// numeric type or a *Buffer. Offsets and counts are in bytes. A zero count
// returns immediately without calling the OS.
//
// The returned error is only set for failures detected before the system
// call; OS failures and short reads are reported through the Result.
func (h *Handle) Read(buf any, opts ...IOOption) (Result, error) {
	res, _, err := h.transfer(dirRead, buf, opts)
	return res, err
}

// Write writes from buf. See Read for the buffer and error contract.
func (h *Handle) Write(buf any, opts ...IOOption) (Result, error) {
	res, _, err := h.transfer(dirWrite, buf, opts)
	return res, err
}

// Seek repositions the descriptor with lseek(2). whence is passed to the OS
// unchanged. Result.Value is the new absolute offset.
func (h *Handle) Seek(offset int64, whence int) (Result, error) {
	fd, err := h.ready("seek")
	if err != nil {
		return Result{}, err
	}
	off, err := h.desc.sys.Seek(fd, offset, whence)
	runtime.KeepAlive(h)
	if err != nil {
		return failed(recordErrno(err)), nil
	}
	return Result{Value: off}, nil
}

// ReadAt issues one pread(2) into p at offset, leaving the file offset
// untouched. Result.Value is the number of bytes read.
func (h *Handle) ReadAt(p []byte, offset int64) (Result, error) {
	fd, err := h.ready("pread")
	if err != nil {
		return Result{}, err
	}
	if offset < 0 {
		return Result{}, newError("pread", h.path, KindInvalidArgument)
	}
	if len(p) == 0 {
		return Result{}, nil
	}
	n, err := h.desc.sys.Pread(fd, p, offset)
	runtime.KeepAlive(h)
	if err != nil {
		return failed(recordErrno(err)), nil
	}
	return Result{Value: int64(n)}, nil
}

// Truncate sets the file size with ftruncate(2).
func (h *Handle) Truncate(size int64) (Result, error) {
	fd, err := h.ready("truncate")
	if err != nil {
		return Result{}, err
	}
	err = h.desc.sys.Ftruncate(fd, size)
	runtime.KeepAlive(h)
	if err != nil {
		return failed(recordErrno(err)), nil
	}
	return Result{}, nil
}

// Flock applies or removes an advisory lock with flock(2). how is one of
// unix.LOCK_SH, unix.LOCK_EX or unix.LOCK_UN, optionally with LOCK_NB.
func (h *Handle) Flock(how int) (Result, error) {
	fd, err := h.ready("flock")
	if err != nil {
		return Result{}, err
	}
	err = h.desc.sys.Flock(fd, how)
	runtime.KeepAlive(h)
	if err != nil {
		return failed(recordErrno(err)), nil
	}
	return Result{}, nil
}

// Ioctl issues ioctl(2) with request and a pointer to data. data may be nil,
// a uintptr passed as the raw argument, or any buffer accepted by Read. The
// contents are left to the driver. Result.Value is the raw result.
func (h *Handle) Ioctl(request uint, data any) (Result, error) {
	fd, err := h.ready("ioctl")
	if err != nil {
		return Result{}, err
	}

	var arg uintptr
	switch d := data.(type) {
	case nil:
	case uintptr:
		arg = d
	default:
		b, ok := byteView(data)
		if !ok {
			return Result{}, newError("ioctl", h.path, KindUnsupportedType)
		}
		if len(b) > 0 {
			arg = uintptr(unsafe.Pointer(unsafe.SliceData(b)))
		}
	}

	r, err := h.desc.sys.Ioctl(fd, request, arg)
	runtime.KeepAlive(data)
	runtime.KeepAlive(h)
	if err != nil {
		return failed(recordErrno(err)), nil
	}
	return Result{Value: int64(r)}, nil
}

// transfer validates the byte range and issues exactly one read(2) or
// write(2). It also returns the number of bytes requested.
func (h *Handle) transfer(
	dir direction,
	buf any,
	opts []IOOption,
) (Result, int, error) {
	op := dir.String()
	fd, err := h.ready(op)
	if err != nil {
		return Result{}, 0, err
	}

	data, ok := byteView(buf)
	if !ok {
		return Result{}, 0, newError(op, h.path, KindUnsupportedType)
	}

	var s span
	for _, opt := range opts {
		opt(&s)
	}

	size := len(data)
	if s.offset < 0 || s.offset > size {
		return Result{}, 0, newError(op, h.path, KindOutOfRange)
	}
	count := size - s.offset
	if s.hasCount {
		if s.count < 0 {
			return Result{}, 0, newError(op, h.path, KindInvalidArgument)
		}
		if s.count > count {
			return Result{}, 0, newError(op, h.path, KindTooManyBytes)
		}
		count = s.count
	}
	if count == 0 {
		return Result{}, 0, nil
	}

	region := data[s.offset : s.offset+count]
	var n int
	if dir == dirRead {
		n, err = h.desc.sys.Read(fd, region)
	} else {
		n, err = h.desc.sys.Write(fd, region)
	}
	// The cleanup must not close fd while the call above is in flight.
	runtime.KeepAlive(h)
	if err != nil {
		return failed(recordErrno(err)), count, nil
	}
	return Result{Value: int64(n)}, count, nil
}
