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
	"io"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func openTemp(t *testing.T, name string, flags int) *Handle {
	t.Helper()
	h, err := Open(tempPath(t, name), flags, 0o644)
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h
}

func reopen(t *testing.T, h *Handle, flags int) *Handle {
	t.Helper()
	path, err := h.Path()
	require.NoError(t, err)
	r, err := Open(path, flags, 0)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func TestWriteRead_HelloScenario(t *testing.T) {
	w := openTemp(t, "t1", unix.O_WRONLY|unix.O_CREAT)
	require.NoError(t, w.Statement().Write([]byte("hello")))

	r := reopen(t, w, unix.O_RDONLY)
	buf := make([]byte, 5)
	res, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Value)
	assert.Zero(t, res.Errno)
	assert.Equal(t, "hello", string(buf))
}

func TestWriteRead_RoundTripBothConventions(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")

	t.Run("value", func(t *testing.T) {
		h := openTemp(t, "rt", unix.O_RDWR|unix.O_CREAT)
		res, err := h.Write(payload)
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), res.Value)

		pos, err := h.Seek(0, io.SeekStart)
		require.NoError(t, err)
		require.Equal(t, int64(0), pos.Value)

		got := make([]byte, len(payload))
		res, err = h.Read(got)
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), res.Value)
		assert.Equal(t, payload, got)
	})

	t.Run("statement", func(t *testing.T) {
		h := openTemp(t, "rt", unix.O_RDWR|unix.O_CREAT)
		stmt := h.Statement()
		require.NoError(t, stmt.Write(payload))
		require.NoError(t, stmt.Seek(0, io.SeekStart))

		got := make([]byte, len(payload))
		require.NoError(t, stmt.Read(got))
		assert.Equal(t, payload, got)
	})
}

func TestWriteRead_OffsetAndCount(t *testing.T) {
	h := openTemp(t, "span", unix.O_RDWR|unix.O_CREAT)
	src := []byte("0123456789")
	res, err := h.Write(src, WithOffset(2), WithCount(3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Value)

	_, err = h.Seek(0, io.SeekStart)
	require.NoError(t, err)

	dst := []byte("xxxxxxxx")
	res, err = h.Read(dst, WithOffset(4))
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Value)
	assert.Equal(t, "xxxx234x", string(dst))
}

func TestTransfer_Validation(t *testing.T) {
	fake := newFakeSyscaller()
	h, err := OpenWithConfig(fakeConfig(fake), "/file", unix.O_RDWR, 0)
	require.NoError(t, err)
	defer h.Close()

	buf := make([]byte, 8)
	tests := []struct {
		name string
		opts []IOOption
		want error
	}{
		{"offset past end", []IOOption{WithOffset(9)}, ErrOutOfRange},
		{"negative offset", []IOOption{WithOffset(-1)}, ErrOutOfRange},
		{"count past end", []IOOption{WithCount(9)}, ErrTooManyBytes},
		{"offset plus count past end", []IOOption{WithOffset(4), WithCount(5)}, ErrTooManyBytes},
		{"negative count", []IOOption{WithCount(-1)}, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Read(buf, tt.opts...)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidArgument)

			_, err = h.Write(buf, tt.opts...)
			assert.ErrorIs(t, err, tt.want)

			assert.ErrorIs(t, h.Statement().Read(buf, tt.opts...), tt.want)
			assert.ErrorIs(t, h.Statement().Write(buf, tt.opts...), tt.want)
		})
	}
	assert.Zero(t, fake.count("read"))
	assert.Zero(t, fake.count("write"))
}

func TestTransfer_OffsetAtEndIsEmpty(t *testing.T) {
	fake := newFakeSyscaller()
	h, err := OpenWithConfig(fakeConfig(fake), "/file", unix.O_RDWR, 0)
	require.NoError(t, err)
	defer h.Close()

	res, err := h.Read(make([]byte, 8), WithOffset(8))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Value)
	assert.Zero(t, fake.count("read"))
}

func TestTransfer_ZeroCountIssuesNoSyscall(t *testing.T) {
	fake := newFakeSyscaller()
	h, err := OpenWithConfig(fakeConfig(fake), "/file", unix.O_RDWR, 0)
	require.NoError(t, err)
	defer h.Close()

	res, err := h.Read(make([]byte, 8), WithCount(0))
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	res, err = h.Write([]byte{})
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	require.NoError(t, h.Statement().Read(make([]byte, 4), WithOffset(2), WithCount(0)))
	require.NoError(t, h.Statement().Write(make([]byte, 4), WithCount(0)))

	assert.Equal(t, []string{"open"}, fake.Calls())
}

func TestTransfer_ZeroCountOnForbiddenDescriptor(t *testing.T) {
	// A write-only handle cannot be read from; a zero-length read must still
	// succeed because it never reaches the OS.
	h := openTemp(t, "wo", unix.O_WRONLY|unix.O_CREAT)
	res, err := h.Read(make([]byte, 4), WithCount(0))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Value)
	require.NoError(t, h.Statement().Read(make([]byte, 4), WithCount(0)))
}

func TestTransfer_TypedBuffers(t *testing.T) {
	h := openTemp(t, "typed", unix.O_RDWR|unix.O_CREAT)
	src := []int32{1, -2, 3, 1 << 30}
	res, err := h.Write(src)
	require.NoError(t, err)
	assert.Equal(t, int64(16), res.Value)

	_, err = h.Seek(0, io.SeekStart)
	require.NoError(t, err)

	dst := make([]int32, 4)
	require.NoError(t, h.Statement().Read(dst))
	assert.Equal(t, src, dst)

	_, err = h.Seek(0, io.SeekStart)
	require.NoError(t, err)
	f64 := make([]float64, 2)
	res, err = h.Read(f64, WithOffset(8))
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.Value, "count defaults to size minus offset")
}

func TestTransfer_UnsupportedType(t *testing.T) {
	fake := newFakeSyscaller()
	h, err := OpenWithConfig(fakeConfig(fake), "/file", unix.O_RDWR, 0)
	require.NoError(t, err)
	defer h.Close()

	for _, buf := range []any{"text", []string{"a"}, 42, nil, (*Buffer)(nil)} {
		_, err := h.Read(buf)
		assert.ErrorIs(t, err, ErrUnsupportedType, "%T", buf)
		assert.ErrorIs(t, err, ErrInvalidArgument, "%T", buf)
		assert.ErrorIs(t, h.Statement().Write(buf), ErrUnsupportedType, "%T", buf)
	}
	assert.Zero(t, fake.count("read"))
	assert.Zero(t, fake.count("write"))
}

func TestTransfer_ShortRead(t *testing.T) {
	w := openTemp(t, "short", unix.O_WRONLY|unix.O_CREAT)
	require.NoError(t, w.Statement().Write([]byte("abc")))

	r := reopen(t, w, unix.O_RDONLY)
	buf := make([]byte, 5)
	res, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Value, "value mode returns short counts as is")

	_, err = r.Seek(0, io.SeekStart)
	require.NoError(t, err)
	err = r.Statement().Read(buf)
	assert.ErrorIs(t, err, ErrShortRead)
	assert.NotErrorIs(t, err, ErrOsError)
}

func TestTransfer_ShortWrite(t *testing.T) {
	fake := newFakeSyscaller()
	fake.shortBy = 2
	h, err := OpenWithConfig(fakeConfig(fake), "/file", unix.O_WRONLY, 0)
	require.NoError(t, err)
	defer h.Close()

	res, err := h.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Value)

	err = h.Statement().Write([]byte("hello"))
	assert.ErrorIs(t, err, ErrShortWrite)
	assert.Equal(t, "fdio: write /file: short write", err.Error())
}

func TestTransfer_OsError(t *testing.T) {
	h := openTemp(t, "wo", unix.O_WRONLY|unix.O_CREAT)

	res, err := h.Read(make([]byte, 4))
	require.NoError(t, err, "value mode does not raise OS failures")
	assert.True(t, res.Failed())
	assert.Equal(t, int64(-1), res.Value)
	assert.Equal(t, unix.EBADF, res.Errno)
	assert.Equal(t, int(unix.EBADF), LastErrorCode())

	err = h.Statement().Read(make([]byte, 4))
	assert.ErrorIs(t, err, ErrOsError)
	assert.ErrorIs(t, err, unix.EBADF)
	assert.NotErrorIs(t, err, ErrShortRead)
}

func TestClosedHandle_AllOperationsFail(t *testing.T) {
	h := openTemp(t, "closed", unix.O_RDWR|unix.O_CREAT)
	h.Close()

	buf := make([]byte, 4)
	_, err := h.Read(buf)
	assert.ErrorIs(t, err, ErrHandleClosed)
	_, err = h.Write(buf)
	assert.ErrorIs(t, err, ErrHandleClosed)
	_, err = h.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, ErrHandleClosed)
	_, err = h.Ioctl(0, nil)
	assert.ErrorIs(t, err, ErrHandleClosed)

	stmt := h.Statement()
	assert.ErrorIs(t, stmt.Read(buf), ErrHandleClosed)
	assert.ErrorIs(t, stmt.Write(buf), ErrHandleClosed)
	assert.ErrorIs(t, stmt.Seek(0, io.SeekStart), ErrHandleClosed)
	assert.ErrorIs(t, stmt.Ioctl(0, nil), ErrHandleClosed)
	_, err = h.ReadAt(buf, 0)
	assert.ErrorIs(t, err, ErrHandleClosed)
	_, err = h.Truncate(0)
	assert.ErrorIs(t, err, ErrHandleClosed)
	_, err = h.Flock(unix.LOCK_UN)
	assert.ErrorIs(t, err, ErrHandleClosed)

	// Zero-count transfers do not bypass the closed check.
	_, err = h.Read(buf, WithCount(0))
	assert.ErrorIs(t, err, ErrHandleClosed)
}

func TestSeek(t *testing.T) {
	h := openTemp(t, "seek", unix.O_RDWR|unix.O_CREAT)
	require.NoError(t, h.Statement().Write([]byte("0123456789")))

	res, err := h.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Value)

	res, err = h.Seek(-4, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Value)

	buf := make([]byte, 4)
	require.NoError(t, h.Statement().Read(buf))
	assert.Equal(t, "6789", string(buf))
}

func TestSeek_Failure(t *testing.T) {
	h := openTemp(t, "seek", unix.O_RDWR|unix.O_CREAT)

	res, err := h.Seek(-1, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), res.Value)
	assert.Equal(t, unix.EINVAL, res.Errno)

	err = h.Statement().Seek(0, 42)
	assert.ErrorIs(t, err, unix.EINVAL)
}

func TestSeek_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	h, err := Open("/dev/fd/"+strconv.Itoa(int(r.Fd())), unix.O_RDONLY, 0)
	if err != nil {
		t.Skipf("cannot reopen pipe through /dev/fd: %v", err)
	}
	defer h.Close()

	assert.ErrorIs(t, h.Statement().Seek(0, io.SeekStart), unix.ESPIPE)
}

func TestIoctl_InvalidRequest(t *testing.T) {
	h := openTemp(t, "ioctl", unix.O_RDWR|unix.O_CREAT)

	// TIOCGWINSZ is a terminal request; regular files reject it.
	ws := make([]uint16, 4)
	res, err := h.Ioctl(unix.TIOCGWINSZ, ws)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), res.Value)
	assert.Equal(t, unix.ENOTTY, res.Errno)

	err = h.Statement().Ioctl(unix.TIOCGWINSZ, ws)
	assert.ErrorIs(t, err, ErrOsError)
	assert.ErrorIs(t, err, unix.ENOTTY)
}

func TestIoctl_NonSentinelResultIsNotAFailure(t *testing.T) {
	fake := newFakeSyscaller()
	fake.ioctlResult = 1
	h, err := OpenWithConfig(fakeConfig(fake), "/dev/widget", unix.O_RDWR, 0)
	require.NoError(t, err)
	defer h.Close()

	res, err := h.Ioctl(0x1234, NewBuffer(8, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Value)
	assert.NoError(t, h.Statement().Ioctl(0x1234, uintptr(0)))

	fake.ioctlResult = -1
	assert.ErrorIs(t, h.Statement().Ioctl(0x1234, nil), ErrOsError)
}

func TestIoctl_UnsupportedData(t *testing.T) {
	fake := newFakeSyscaller()
	h, err := OpenWithConfig(fakeConfig(fake), "/dev/widget", unix.O_RDWR, 0)
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Ioctl(0x1234, "nope")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Zero(t, fake.count("ioctl"))
}

func TestReadAt_LeavesOffset(t *testing.T) {
	h := openTemp(t, "pread", unix.O_RDWR|unix.O_CREAT)
	require.NoError(t, h.Statement().Write([]byte("hello world")))

	buf := make([]byte, 5)
	res, err := h.ReadAt(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Value)
	assert.Equal(t, "world", string(buf))

	off, err := h.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(11), off.Value)

	_, err = h.ReadAt(buf, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTruncateAndFlock(t *testing.T) {
	h := openTemp(t, "trunc", unix.O_RDWR|unix.O_CREAT)
	require.NoError(t, h.Statement().Write([]byte("hello world")))

	res, err := h.Truncate(5)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	end, err := h.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(5), end.Value)

	res, err = h.Truncate(-1)
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, unix.EINVAL, res.Errno)

	res, err = h.Flock(unix.LOCK_EX)
	require.NoError(t, err)
	assert.False(t, res.Failed())
	res, err = h.Flock(unix.LOCK_UN)
	require.NoError(t, err)
	assert.False(t, res.Failed())
}

func TestReadAtTruncateFlock_UseSyscaller(t *testing.T) {
	fake := newFakeSyscaller()
	h, err := OpenWithConfig(fakeConfig(fake), "/file", unix.O_RDWR, 0)
	require.NoError(t, err)
	defer h.Close()

	buf := make([]byte, 3)
	res, err := h.ReadAt(buf, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Value)
	assert.Equal(t, "ppp", string(buf))
	_, err = h.Truncate(0)
	require.NoError(t, err)
	_, err = h.Flock(unix.LOCK_SH)
	require.NoError(t, err)

	// An empty buffer never reaches the OS.
	_, err = h.ReadAt(nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.count("pread"))
	assert.Equal(t, 1, fake.count("ftruncate"))
	assert.Equal(t, 1, fake.count("flock"))
}
