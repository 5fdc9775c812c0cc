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

package fdio

import "golang.org/x/sys/unix"

func init() {
	platformConstants = append(platformConstants, map[string]int{
		"O_DIRECT":    unix.O_DIRECT,
		"O_NOATIME":   unix.O_NOATIME,
		"O_PATH":      unix.O_PATH,
		"O_TMPFILE":   unix.O_TMPFILE,
		"O_LARGEFILE": unix.O_LARGEFILE,
		"O_RSYNC":     unix.O_RSYNC,
		"O_FSYNC":     unix.O_FSYNC,
		"O_NDELAY":    unix.O_NDELAY,
		"O_DSYNC":     unix.O_DSYNC,

		"EBADFD":    int(unix.EBADFD),
		"ENOMEDIUM": int(unix.ENOMEDIUM),
		"ENOTUNIQ":  int(unix.ENOTUNIQ),
		"EREMCHG":   int(unix.EREMCHG),
		"ENOSTR":    int(unix.ENOSTR),
		"ENODATA":   int(unix.ENODATA),
		"ETIME":     int(unix.ETIME),
		"ENOSR":     int(unix.ENOSR),
	})
}
