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

//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package fdio

import "golang.org/x/sys/unix"

func init() {
	platformConstants = append(platformConstants, map[string]int{
		"O_SHLOCK": unix.O_SHLOCK,
		"O_EXLOCK": unix.O_EXLOCK,

		"EFTYPE":    int(unix.EFTYPE),
		"EAUTH":     int(unix.EAUTH),
		"ENEEDAUTH": int(unix.ENEEDAUTH),
	})
}
