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

// Statement is the error-raising view of a Handle: its operations return no
// value and report every failure, including short transfers, as an *Error.
type Statement struct {
	h *Handle
}

// Statement returns the error-raising view of h.
func (h *Handle) Statement() Statement {
	return Statement{h: h}
}

// Read fails with an OS error if read(2) failed and with ErrShortRead if it
// returned fewer bytes than requested.
func (s Statement) Read(buf any, opts ...IOOption) error {
	res, count, err := s.h.transfer(dirRead, buf, opts)
	if err != nil {
		return err
	}
	return s.checkTransfer(dirRead, res, count)
}

// Write fails with an OS error if write(2) failed and with ErrShortWrite if
// it transferred fewer bytes than requested.
func (s Statement) Write(buf any, opts ...IOOption) error {
	res, count, err := s.h.transfer(dirWrite, buf, opts)
	if err != nil {
		return err
	}
	return s.checkTransfer(dirWrite, res, count)
}

// Seek fails only if lseek(2) failed.
func (s Statement) Seek(offset int64, whence int) error {
	res, err := s.h.Seek(offset, whence)
	if err != nil {
		return err
	}
	if res.Failed() {
		return osError("seek", s.h.path, res.Errno)
	}
	return nil
}

// Ioctl fails only if ioctl(2) returned -1. Other non-zero results are
// driver status codes and are not errors.
func (s Statement) Ioctl(request uint, data any) error {
	res, err := s.h.Ioctl(request, data)
	if err != nil {
		return err
	}
	if res.Failed() {
		return osError("ioctl", s.h.path, res.Errno)
	}
	return nil
}

func (s Statement) checkTransfer(dir direction, res Result, count int) error {
	switch {
	case res.Failed():
		return osError(dir.String(), s.h.path, res.Errno)
	case res.Value == int64(count):
		return nil
	case dir == dirRead:
		return newError("read", s.h.path, KindShortRead)
	default:
		return newError("write", s.h.path, KindShortWrite)
	}
}
