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

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package fdio

import "golang.org/x/sys/unix"

func init() {
	platformConstants = append(platformConstants, map[string]int{
		"O_DIRECTORY": unix.O_DIRECTORY,
		"O_NOFOLLOW":  unix.O_NOFOLLOW,
		"O_ASYNC":     unix.O_ASYNC,

		"S_IRWXU": unix.S_IRWXU,
		"S_IRUSR": unix.S_IRUSR,
		"S_IWUSR": unix.S_IWUSR,
		"S_IXUSR": unix.S_IXUSR,
		"S_IRWXG": unix.S_IRWXG,
		"S_IRGRP": unix.S_IRGRP,
		"S_IWGRP": unix.S_IWGRP,
		"S_IXGRP": unix.S_IXGRP,
		"S_IRWXO": unix.S_IRWXO,
		"S_IROTH": unix.S_IROTH,
		"S_IWOTH": unix.S_IWOTH,
		"S_IXOTH": unix.S_IXOTH,
		"S_ISUID": unix.S_ISUID,
		"S_ISGID": unix.S_ISGID,
		"S_ISVTX": unix.S_ISVTX,

		"ENOTBLK":  int(unix.ENOTBLK),
		"EALREADY": int(unix.EALREADY),
		"ENOTSOCK": int(unix.ENOTSOCK),
		"ESTALE":   int(unix.ESTALE),
		"EDQUOT":   int(unix.EDQUOT),
	})
}
