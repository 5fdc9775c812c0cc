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

package fdfs

import (
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sys/unix"

	"github.com/ziggy42/fdio/fdio"
)

// File is a billy.File backed by an fdio handle.
type File struct {
	name string
	h    *fdio.Handle
}

var _ billy.File = (*File)(nil)

func (f *File) Name() string {
	return f.name
}

// Handle returns the underlying handle.
func (f *File) Handle() *fdio.Handle {
	return f.h
}

func (f *File) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	res, err := f.h.Read(p)
	if err != nil {
		return 0, fmt.Errorf("fdfs: read %q: %w", f.name, err)
	}
	if res.Failed() {
		return 0, fmt.Errorf("fdfs: read %q: %w", f.name, res.Errno)
	}
	if res.Value == 0 {
		return 0, io.EOF
	}
	return int(res.Value), nil
}

// ReadAt reads with pread(2) and leaves the file offset unchanged.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if _, err := f.fd("readat"); err != nil {
		return 0, err
	}
	n := 0
	for n < len(p) {
		res, err := f.h.ReadAt(p[n:], off+int64(n))
		if err != nil {
			return n, fmt.Errorf("fdfs: readat %q off=%d: %w", f.name, off, err)
		}
		if res.Failed() {
			return n, fmt.Errorf("fdfs: readat %q off=%d: %w", f.name, off, res.Errno)
		}
		if res.Value == 0 {
			return n, io.EOF
		}
		n += int(res.Value)
	}
	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	res, err := f.h.Write(p)
	if err != nil {
		return 0, fmt.Errorf("fdfs: write %q: %w", f.name, err)
	}
	if res.Failed() {
		return 0, fmt.Errorf("fdfs: write %q: %w", f.name, res.Errno)
	}
	if int(res.Value) < len(p) {
		return int(res.Value), io.ErrShortWrite
	}
	return int(res.Value), nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	res, err := f.h.Seek(offset, whence)
	if err != nil {
		return 0, fmt.Errorf("fdfs: seek %q off=%d whence=%d: %w", f.name, offset, whence, err)
	}
	if res.Failed() {
		return 0, fmt.Errorf("fdfs: seek %q off=%d whence=%d: %w", f.name, offset, whence, res.Errno)
	}
	return res.Value, nil
}

// Close releases the handle. Closing twice returns os.ErrClosed.
func (f *File) Close() error {
	if _, err := f.fd("close"); err != nil {
		return err
	}
	f.h.Close()
	return nil
}

// Lock takes an exclusive flock(2) lock, blocking until it is available.
func (f *File) Lock() error {
	return f.flock("lock", unix.LOCK_EX)
}

func (f *File) Unlock() error {
	return f.flock("unlock", unix.LOCK_UN)
}

func (f *File) Truncate(size int64) error {
	if _, err := f.fd("truncate"); err != nil {
		return err
	}
	res, err := f.h.Truncate(size)
	if err == nil && res.Failed() {
		err = res.Errno
	}
	if err != nil {
		return fmt.Errorf("fdfs: truncate %q size=%d: %w", f.name, size, err)
	}
	return nil
}

func (f *File) flock(op string, how int) error {
	if _, err := f.fd(op); err != nil {
		return err
	}
	res, err := f.h.Flock(how)
	if err == nil && res.Failed() {
		err = res.Errno
	}
	if err != nil {
		return fmt.Errorf("fdfs: %s %q: %w", op, f.name, err)
	}
	return nil
}

// fd returns the live descriptor, or os.ErrClosed.
func (f *File) fd(op string) (int, error) {
	fd, err := f.h.Descriptor()
	if err != nil {
		return -1, fmt.Errorf("fdfs: %s %q: %w", op, f.name, err)
	}
	if fd < 0 {
		return -1, fmt.Errorf("fdfs: %s %q: %w", op, f.name, os.ErrClosed)
	}
	return fd, nil
}
