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
		"O_DSYNC":   unix.O_DSYNC,
		"O_SYMLINK": unix.O_SYMLINK,
		"O_EVTONLY": unix.O_EVTONLY,
	})
}
