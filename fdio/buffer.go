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

import "unsafe"

// element lists the slice element types that can be viewed as raw bytes.
type element interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 |
		~int | ~uint | ~float32 | ~float64 | ~complex64 | ~complex128
}

// Buffer is a caller-owned byte region with a declared element width, for
// hosts that hand out raw memory rather than typed Go slices.
type Buffer struct {
	data     []byte
	elemSize int
}

// NewBuffer allocates a zeroed buffer of n elements of elemSize bytes each.
// elemSize values below 1 are treated as 1.
func NewBuffer(n, elemSize int) *Buffer {
	if elemSize < 1 {
		elemSize = 1
	}
	if n < 0 {
		n = 0
	}
	return &Buffer{data: make([]byte, n*elemSize), elemSize: elemSize}
}

// Bytes returns the underlying storage. Writes through it are visible to
// subsequent I/O on the buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of elements.
func (b *Buffer) Len() int { return len(b.data) / b.elemSize }

// ElemSize returns the width of one element in bytes.
func (b *Buffer) ElemSize() int { return b.elemSize }

// Size returns the size of the buffer in bytes.
func (b *Buffer) Size() int { return len(b.data) }

// Bytes returns the byte view of a supported typed buffer. The returned slice
// aliases buf. Unsupported types fail with ErrUnsupportedType.
func Bytes(buf any) ([]byte, error) {
	b, ok := byteView(buf)
	if !ok {
		return nil, newError("bytes", "", KindUnsupportedType)
	}
	return b, nil
}

func byteView(buf any) ([]byte, bool) {
	switch b := buf.(type) {
	case []byte:
		return b, true
	case *Buffer:
		if b == nil {
			return nil, false
		}
		return b.data, true
	case []int8:
		return sliceBytes(b), true
	case []int16:
		return sliceBytes(b), true
	case []uint16:
		return sliceBytes(b), true
	case []int32:
		return sliceBytes(b), true
	case []uint32:
		return sliceBytes(b), true
	case []int64:
		return sliceBytes(b), true
	case []uint64:
		return sliceBytes(b), true
	case []int:
		return sliceBytes(b), true
	case []uint:
		return sliceBytes(b), true
	case []float32:
		return sliceBytes(b), true
	case []float64:
		return sliceBytes(b), true
	case []complex64:
		return sliceBytes(b), true
	case []complex128:
		return sliceBytes(b), true
	default:
		return nil, false
	}
}

func sliceBytes[T element](s []T) []byte {
	if len(s) == 0 {
		return []byte{}
	}
	var zero T
	size := len(s) * int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), size)
}
