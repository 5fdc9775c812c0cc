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

// Package fdio provides a managed handle over a raw operating-system file
// descriptor together with bounds-checked variants of the core POSIX I/O
// primitives: open, close, read, write, seek and ioctl.
//
// Every I/O operation is available in two calling conventions. The methods on
// Handle return a Result holding the raw return value of the system call (-1
// on failure) and the errno captured right after it; they only return an error
// for problems detected before the OS is involved, such as a closed handle or
// an out-of-range offset. The methods on Statement run the same code but turn
// every failure, including short transfers, into an *Error.
//
// A Handle is not safe for concurrent use. Callers must serialize access to
// a given Handle.
package fdio
