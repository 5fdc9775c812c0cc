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
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestDescribeError(t *testing.T) {
	assert.Equal(t, unix.ENOENT.Error(), DescribeError(int(unix.ENOENT)))
	assert.NotEmpty(t, DescribeError(int(unix.EACCES)))
	assert.NotEmpty(t, DescribeError(100000), "unknown codes still get a description")
}

func TestDescribeError_DefaultsToLastErrorCode(t *testing.T) {
	_, err := Open("/nonexistent/path", unix.O_RDONLY, 0)
	assert.Error(t, err)

	assert.Equal(t, int(unix.ENOENT), LastErrorCode())
	assert.Equal(t, DescribeError(int(unix.ENOENT)), DescribeError())
}

func TestLastErrorCode_NotClearedBySuccess(t *testing.T) {
	_, err := Open("/nonexistent/path", unix.O_RDONLY, 0)
	assert.Error(t, err)

	h := openTemp(t, "ok", unix.O_RDWR|unix.O_CREAT)
	_, err = h.Write([]byte("x"))
	assert.NoError(t, err)

	assert.Equal(t, int(unix.ENOENT), LastErrorCode())
}

func TestErrnoName(t *testing.T) {
	assert.Equal(t, "ENOENT", ErrnoName(int(unix.ENOENT)))
	assert.Equal(t, "EBADF", ErrnoName(int(unix.EBADF)))
	assert.Empty(t, ErrnoName(100000))
}

func TestRecordErrno_NonErrno(t *testing.T) {
	assert.Equal(t, unix.EIO, recordErrno(assert.AnError))
	assert.Equal(t, int(unix.EIO), LastErrorCode())
}
