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
	"maps"
	"sync"

	"golang.org/x/sys/unix"
)

// platformConstants is filled by the init functions of the build-tagged
// constants_*.go files, so names a platform lacks are never published.
var platformConstants []map[string]int

var commonConstants = map[string]int{
	"SEEK_SET": io.SeekStart,
	"SEEK_CUR": io.SeekCurrent,
	"SEEK_END": io.SeekEnd,

	"O_RDONLY":   unix.O_RDONLY,
	"O_WRONLY":   unix.O_WRONLY,
	"O_RDWR":     unix.O_RDWR,
	"O_ACCMODE":  unix.O_ACCMODE,
	"O_APPEND":   unix.O_APPEND,
	"O_CREAT":    unix.O_CREAT,
	"O_EXCL":     unix.O_EXCL,
	"O_TRUNC":    unix.O_TRUNC,
	"O_NONBLOCK": unix.O_NONBLOCK,
	"O_NOCTTY":   unix.O_NOCTTY,
	"O_SYNC":     unix.O_SYNC,
	"O_CLOEXEC":  unix.O_CLOEXEC,

	"EPERM":   int(unix.EPERM),
	"ENOENT":  int(unix.ENOENT),
	"ESRCH":   int(unix.ESRCH),
	"EINTR":   int(unix.EINTR),
	"EIO":     int(unix.EIO),
	"ENXIO":   int(unix.ENXIO),
	"E2BIG":   int(unix.E2BIG),
	"ENOEXEC": int(unix.ENOEXEC),
	"EBADF":   int(unix.EBADF),
	"ECHILD":  int(unix.ECHILD),
	"EAGAIN":  int(unix.EAGAIN),
	"ENOMEM":  int(unix.ENOMEM),
	"EACCES":  int(unix.EACCES),
	"EFAULT":  int(unix.EFAULT),
	"EBUSY":   int(unix.EBUSY),
	"EEXIST":  int(unix.EEXIST),
	"EXDEV":   int(unix.EXDEV),
	"ENODEV":  int(unix.ENODEV),
	"ENOTDIR": int(unix.ENOTDIR),
	"EISDIR":  int(unix.EISDIR),
	"EINVAL":  int(unix.EINVAL),
	"ENFILE":  int(unix.ENFILE),
	"EMFILE":  int(unix.EMFILE),
	"ENOTTY":  int(unix.ENOTTY),
	"ETXTBSY": int(unix.ETXTBSY),
	"EFBIG":   int(unix.EFBIG),
	"ENOSPC":  int(unix.ENOSPC),
	"ESPIPE":  int(unix.ESPIPE),
	"EROFS":   int(unix.EROFS),
	"EMLINK":  int(unix.EMLINK),
	"EPIPE":   int(unix.EPIPE),
	"EDOM":    int(unix.EDOM),
	"ERANGE":  int(unix.ERANGE),

	"EDEADLK":      int(unix.EDEADLK),
	"ENAMETOOLONG": int(unix.ENAMETOOLONG),
	"ENOLCK":       int(unix.ENOLCK),
	"ENOSYS":       int(unix.ENOSYS),
	"ENOTEMPTY":    int(unix.ENOTEMPTY),
	"ELOOP":        int(unix.ELOOP),
	"EWOULDBLOCK":  int(unix.EWOULDBLOCK),
	"EOVERFLOW":    int(unix.EOVERFLOW),
	"ENOTSUP":      int(unix.ENOTSUP),
	"ETIMEDOUT":    int(unix.ETIMEDOUT),
}

var constantTable = sync.OnceValue(func() map[string]int {
	table := maps.Clone(commonConstants)
	for _, group := range platformConstants {
		maps.Copy(table, group)
	}
	return table
})

// Constants returns a copy of the symbolic constants of this platform: seek
// whence values, open flags, permission bits and error codes.
func Constants() map[string]int {
	return maps.Clone(constantTable())
}

// Constant looks up a single symbolic constant.
func Constant(name string) (int, bool) {
	v, ok := constantTable()[name]
	return v, ok
}
