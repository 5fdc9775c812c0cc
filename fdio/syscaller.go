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

import "golang.org/x/sys/unix"

// Syscaller is the set of OS calls a Handle is built on. Errors must be
// unix.Errno values as returned by golang.org/x/sys/unix.
type Syscaller interface {
	Open(path string, flags int, mode uint32) (fd int, err error)
	Close(fd int) error
	Read(fd int, p []byte) (n int, err error)
	Write(fd int, p []byte) (n int, err error)
	Seek(fd int, offset int64, whence int) (off int64, err error)
	// Ioctl returns the raw result of ioctl(2). arg is passed through
	// unchanged; callers keep the memory it points to alive.
	Ioctl(fd int, request uint, arg uintptr) (r int, err error)
	Pread(fd int, p []byte, offset int64) (n int, err error)
	Ftruncate(fd int, size int64) error
	Flock(fd int, how int) error
}

// DefaultSyscaller issues the calls directly to the operating system.
var DefaultSyscaller Syscaller = realOS{}

type realOS struct{}

func (realOS) Open(path string, flags int, mode uint32) (int, error) {
	return unix.Open(path, flags, mode)
}

func (realOS) Close(fd int) error {
	return unix.Close(fd)
}

func (realOS) Read(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

func (realOS) Write(fd int, p []byte) (int, error) {
	return unix.Write(fd, p)
}

func (realOS) Seek(fd int, offset int64, whence int) (int64, error) {
	return unix.Seek(fd, offset, whence)
}

func (realOS) Ioctl(fd int, request uint, arg uintptr) (int, error) {
	return ioctl(fd, request, arg)
}

func (realOS) Pread(fd int, p []byte, offset int64) (int, error) {
	return unix.Pread(fd, p, offset)
}

func (realOS) Ftruncate(fd int, size int64) error {
	return unix.Ftruncate(fd, size)
}

func (realOS) Flock(fd int, how int) error {
	return unix.Flock(fd, how)
}

var _ Syscaller = realOS{}
