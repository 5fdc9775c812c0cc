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

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ziggy42/fdio/fdio"
)

// parseNumber parses a constant name such as ENOENT or SEEK_END, or a number
// in any base strconv accepts with base 0 (0x1f, 0o644, 0644, 42).
func parseNumber(s string) (int64, error) {
	if v, ok := fdio.Constant(s); ok {
		return int64(v), nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", s)
	}
	return n, nil
}

// parseFlags parses open flags written as O_WRONLY|O_CREAT|0x10.
func parseFlags(s string) (int64, error) {
	var flags int64
	for part := range strings.SplitSeq(s, "|") {
		v, err := parseNumber(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("invalid flags: %s", s)
		}
		flags |= v
	}
	return flags, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count: %s", s)
	}
	return n, nil
}
