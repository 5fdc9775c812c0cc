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
	"sync"

	"golang.org/x/sys/unix"
)

// fakeSyscaller records every call and returns canned results. It lets tests
// prove that an operation never reached the OS.
type fakeSyscaller struct {
	mu sync.Mutex

	calls []string
	// shortBy makes reads and writes transfer this many bytes less than asked.
	shortBy     int
	ioctlResult int
	closeErr    error
	nextFd      int
	// duringRead runs inside Read, before it returns.
	duringRead func()
}

func newFakeSyscaller() *fakeSyscaller {
	return &fakeSyscaller{nextFd: 100}
}

func (f *fakeSyscaller) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSyscaller) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSyscaller) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeSyscaller) Open(path string, flags int, mode uint32) (int, error) {
	f.record("open")
	if path == "/missing" {
		return -1, unix.ENOENT
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextFd++
	return f.nextFd, nil
}

func (f *fakeSyscaller) Close(fd int) error {
	f.record("close")
	return f.closeErr
}

func (f *fakeSyscaller) Read(fd int, p []byte) (int, error) {
	f.record("read")
	if f.duringRead != nil {
		f.duringRead()
	}
	for i := range p {
		p[i] = 'r'
	}
	return max(len(p)-f.shortBy, 0), nil
}

func (f *fakeSyscaller) Write(fd int, p []byte) (int, error) {
	f.record("write")
	return max(len(p)-f.shortBy, 0), nil
}

func (f *fakeSyscaller) Seek(fd int, offset int64, whence int) (int64, error) {
	f.record("seek")
	return offset, nil
}

func (f *fakeSyscaller) Ioctl(fd int, request uint, arg uintptr) (int, error) {
	f.record("ioctl")
	return f.ioctlResult, nil
}

func (f *fakeSyscaller) Pread(fd int, p []byte, offset int64) (int, error) {
	f.record("pread")
	for i := range p {
		p[i] = 'p'
	}
	return max(len(p)-f.shortBy, 0), nil
}

func (f *fakeSyscaller) Ftruncate(fd int, size int64) error {
	f.record("ftruncate")
	if size < 0 {
		return unix.EINVAL
	}
	return nil
}

func (f *fakeSyscaller) Flock(fd int, how int) error {
	f.record("flock")
	return nil
}

var _ Syscaller = (*fakeSyscaller)(nil)

func fakeConfig(f *fakeSyscaller) Config {
	cfg := DefaultConfig()
	cfg.Syscalls = f
	return cfg
}
