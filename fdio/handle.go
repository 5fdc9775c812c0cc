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
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sys/unix"
)

// closedFd is the descriptor value of a handle that owns nothing.
const closedFd = -1

type lifecycle uint8

const (
	stateUninitialized lifecycle = iota // zero Handle, never opened
	stateOpen
	stateClosed
)

// noCopy makes go vet flag copies of a Handle.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// descriptor is kept outside the Handle so the collection cleanup can reach
// it without keeping the Handle alive.
type descriptor struct {
	fd  int
	sys Syscaller
}

func (d *descriptor) release() error {
	if d.fd < 0 {
		return nil
	}
	fd := d.fd
	d.fd = closedFd
	return d.sys.Close(fd)
}

// Handle owns one OS file descriptor and the metadata it was opened with.
//
// A Handle must not be copied. The zero value is an uninitialized handle:
// every operation on it fails with ErrHandleClosed.
type Handle struct {
	_       noCopy
	desc    *descriptor
	path    string
	flags   int
	mode    uint32
	state   lifecycle
	logger  *slog.Logger
	cleanup runtime.Cleanup
}

// Open opens path with DefaultConfig. See OpenWithConfig.
func Open(path string, flags int, mode uint32) (*Handle, error) {
	return OpenWithConfig(DefaultConfig(), path, flags, mode)
}

// OpenWithConfig opens path with open(2) and returns a Handle owning the new
// descriptor. mode is only used by the OS when flags create a file but is
// always stored. On failure no Handle is returned and no descriptor is left
// open.
//
// If the Handle becomes unreachable while still open, the descriptor is
// closed by the runtime. Close releases it deterministically.
func OpenWithConfig(
	cfg Config,
	path string,
	flags int,
	mode uint32,
) (*Handle, error) {
	if path == "" {
		return nil, newError("open", "", KindInvalidArgument)
	}
	cfg = cfg.withDefaults()

	osFlags := flags
	if cfg.CloseOnExec {
		osFlags |= unix.O_CLOEXEC
	}
	fd, err := cfg.Syscalls.Open(path, osFlags, mode)
	if err != nil {
		errno := recordErrno(err)
		cfg.Logger.Debug("open failed", "path", path, "flags", flags, "errno", errno)
		return nil, osError("open", path, errno)
	}

	h := &Handle{
		desc:   &descriptor{fd: fd, sys: cfg.Syscalls},
		path:   strings.Clone(path),
		flags:  flags,
		mode:   mode,
		state:  stateOpen,
		logger: cfg.Logger,
	}
	h.cleanup = runtime.AddCleanup(h, func(d *descriptor) {
		d.release()
	}, h.desc)

	cfg.Logger.Debug("opened", "path", path, "flags", flags, "mode", mode, "fd", fd)
	return h, nil
}

// Close releases the descriptor and the stored metadata. It never fails:
// closing a closed or uninitialized handle is a no-op, and a failing close(2)
// is only recorded as the last error code. After Close every I/O operation
// fails with ErrHandleClosed.
func (h *Handle) Close() {
	if h == nil || h.state == stateUninitialized {
		return
	}
	if h.state == stateOpen && h.desc != nil && h.desc.fd >= 0 {
		h.cleanup.Stop()
		fd := h.desc.fd
		if err := h.desc.release(); err != nil {
			errno := recordErrno(err)
			h.log().Warn("close failed", "path", h.path, "fd", fd, "errno", errno)
		} else {
			h.log().Debug("closed", "path", h.path, "fd", fd)
		}
	}
	h.path = ""
	h.flags = 0
	h.mode = 0
	h.state = stateClosed
}

// Path returns the path the handle was opened with, or "" once closed.
func (h *Handle) Path() (string, error) {
	if err := h.initialized("path"); err != nil {
		return "", err
	}
	return h.path, nil
}

// Flags returns the open flags as passed to Open, or 0 once closed.
func (h *Handle) Flags() (int, error) {
	if err := h.initialized("flags"); err != nil {
		return 0, err
	}
	return h.flags, nil
}

// Mode returns the permission bits as passed to Open, or 0 once closed.
func (h *Handle) Mode() (uint32, error) {
	if err := h.initialized("mode"); err != nil {
		return 0, err
	}
	return h.mode, nil
}

// Descriptor returns the OS descriptor number, or -1 once closed.
func (h *Handle) Descriptor() (int, error) {
	if err := h.initialized("fd"); err != nil {
		return closedFd, err
	}
	if h.desc == nil {
		return closedFd, nil
	}
	return h.desc.fd, nil
}

// Member looks up an introspection field by name: "path", "flags", "mode" or
// "fd".
func (h *Handle) Member(name string) (any, error) {
	switch name {
	case "path":
		return h.Path()
	case "flags":
		return h.Flags()
	case "mode":
		return h.Mode()
	case "fd":
		return h.Descriptor()
	default:
		return nil, newError("member "+name, "", KindInvalidArgument)
	}
}

func (h *Handle) String() string {
	if h == nil || h.state == stateUninitialized {
		return "fdio.Handle{uninitialized}"
	}
	fd, _ := h.Descriptor()
	return fmt.Sprintf(
		"fdio.Handle{path=%q, flags=%#x, mode=%#o, fd=%d}",
		h.path, h.flags, h.mode, fd,
	)
}

func (h *Handle) initialized(op string) error {
	if h == nil || h.state == stateUninitialized {
		return newError(op, "", KindHandleClosed)
	}
	return nil
}

// ready returns the live descriptor, or ErrHandleClosed.
func (h *Handle) ready(op string) (int, error) {
	if h == nil || h.state != stateOpen || h.desc == nil || h.desc.fd < 0 {
		return closedFd, newError(op, "", KindHandleClosed)
	}
	return h.desc.fd, nil
}

func (h *Handle) log() *slog.Logger {
	if h.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.logger
}
