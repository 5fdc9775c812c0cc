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

package host

import (
	"fmt"
	"math"

	"github.com/ziggy42/fdio/fdio"
)

// argError reports a malformed argument to fn. It matches
// fdio.ErrInvalidArgument.
func argError(fn string, i int, format string, a ...any) error {
	return fmt.Errorf(
		"%s: argument %d: %s: %w",
		fn, i+1, fmt.Sprintf(format, a...), fdio.ErrInvalidArgument,
	)
}

func checkArity(fn string, args []any, minArgs, maxArgs int) error {
	if len(args) < minArgs || len(args) > maxArgs {
		if minArgs == maxArgs {
			return fmt.Errorf(
				"%s: expected %d arguments, got %d: %w",
				fn, minArgs, len(args), fdio.ErrInvalidArgument,
			)
		}
		return fmt.Errorf(
			"%s: expected %d to %d arguments, got %d: %w",
			fn, minArgs, maxArgs, len(args), fdio.ErrInvalidArgument,
		)
	}
	return nil
}

// present reports whether optional argument i was supplied.
func present(args []any, i int) bool {
	return i < len(args) && args[i] != nil
}

func argHandle(fn string, args []any, i int) (*fdio.Handle, error) {
	h, ok := args[i].(*fdio.Handle)
	if !ok || h == nil {
		return nil, argError(fn, i, "expected a handle, got %T", args[i])
	}
	return h, nil
}

func argString(fn string, args []any, i int) (string, error) {
	switch v := args[i].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", argError(fn, i, "expected a string, got %T", args[i])
	}
}

// argInt accepts every Go integer kind and floats holding an integral value,
// as dynamically typed hosts rarely distinguish between them.
func argInt(fn string, args []any, i int) (int64, error) {
	switch v := args[i].(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return uintToInt(fn, i, uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return uintToInt(fn, i, v)
	case uintptr:
		return uintToInt(fn, i, uint64(v))
	case float32:
		return floatToInt(fn, i, float64(v))
	case float64:
		return floatToInt(fn, i, v)
	default:
		return 0, argError(fn, i, "expected an integer, got %T", args[i])
	}
}

func uintToInt(fn string, i int, v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, argError(fn, i, "integer %d overflows", v)
	}
	return int64(v), nil
}

func floatToInt(fn string, i int, v float64) (int64, error) {
	if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, argError(fn, i, "expected an integer, got %v", v)
	}
	return int64(v), nil
}

// argUint is argInt for request codes, which may use the full unsigned range.
func argUint(fn string, args []any, i int) (uint, error) {
	switch v := args[i].(type) {
	case uint:
		return v, nil
	case uint64:
		return uint(v), nil
	case uintptr:
		return uint(v), nil
	}
	n, err := argInt(fn, args, i)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, argError(fn, i, "request code %d is negative", n)
	}
	return uint(n), nil
}
