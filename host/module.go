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
	"log/slog"
	"maps"
	"math"

	"github.com/ziggy42/fdio/fdio"
)

// ModuleName is the name the entry points are registered under.
const ModuleName = "fdio"

// Greeting is returned by the greetings entry point.
const Greeting = `Hello, this is "fdio" (low-level file descriptor control)`

// Module binds the fdio operations to dynamically typed entry points.
type Module struct {
	cfg    fdio.Config
	logger *slog.Logger
	funcs  map[string]Func
}

// NewModule creates a Module whose handles are opened with cfg.
func NewModule(cfg fdio.Config) *Module {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	m := &Module{cfg: cfg, logger: cfg.Logger}
	m.funcs = NewModuleBuilder(ModuleName).
		AddFunc("open", m.open).
		AddFunc("close", m.close).
		AddFunc("read", m.read).
		AddFunc("write", m.write).
		AddFunc("seek", m.seek).
		AddFunc("ioctl", m.ioctl).
		AddFunc("errno", m.errno).
		AddFunc("strerror", m.strerror).
		AddFunc("member", m.member).
		AddFunc("greetings", m.greetings).
		Build()[ModuleName]
	return m
}

// Functions returns the entry-point table. The map is a copy.
func (m *Module) Functions() map[string]Func {
	return maps.Clone(m.funcs)
}

// Globals returns the constants a host publishes next to the entry points.
func (m *Module) Globals() map[string]int {
	return fdio.Constants()
}

// Call invokes the entry point name.
func (m *Module) Call(conv Convention, name string, args ...any) ([]any, error) {
	fn, ok := m.funcs[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q: %w", name, fdio.ErrInvalidArgument)
	}
	m.logger.Debug("call", "func", name, "convention", conv, "args", len(args))
	return fn(conv, args...)
}

func (m *Module) open(conv Convention, args ...any) ([]any, error) {
	const fn = "open"
	if err := checkArity(fn, args, 2, 3); err != nil {
		return nil, err
	}
	path, err := argString(fn, args, 0)
	if err != nil {
		return nil, err
	}
	flags, err := argInt(fn, args, 1)
	if err != nil {
		return nil, err
	}
	var mode int64
	if present(args, 2) {
		if mode, err = argInt(fn, args, 2); err != nil {
			return nil, err
		}
		if mode < 0 {
			return nil, argError(fn, 2, "negative mode %d", mode)
		}
		if mode > math.MaxUint32 {
			return nil, argError(fn, 2, "mode %#o does not fit in 32 bits", mode)
		}
	}
	h, err := fdio.OpenWithConfig(m.cfg, path, int(flags), uint32(mode))
	if err != nil {
		return nil, err
	}
	// A handle is a value in both conventions.
	return []any{h}, nil
}

func (m *Module) close(conv Convention, args ...any) ([]any, error) {
	const fn = "close"
	if err := checkArity(fn, args, 1, 1); err != nil {
		return nil, err
	}
	h, err := argHandle(fn, args, 0)
	if err != nil {
		return nil, err
	}
	h.Close()
	return nil, nil
}

func (m *Module) read(conv Convention, args ...any) ([]any, error) {
	return m.transfer("read", conv, args)
}

func (m *Module) write(conv Convention, args ...any) ([]any, error) {
	return m.transfer("write", conv, args)
}

func (m *Module) transfer(fn string, conv Convention, args []any) ([]any, error) {
	if err := checkArity(fn, args, 2, 4); err != nil {
		return nil, err
	}
	h, err := argHandle(fn, args, 0)
	if err != nil {
		return nil, err
	}
	var opts []fdio.IOOption
	if present(args, 2) {
		offset, err := argInt(fn, args, 2)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fdio.WithOffset(int(offset)))
	}
	if present(args, 3) {
		count, err := argInt(fn, args, 3)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fdio.WithCount(int(count)))
	}

	buf := args[1]
	switch {
	case conv == Statement && fn == "read":
		return nil, h.Statement().Read(buf, opts...)
	case conv == Statement:
		return nil, h.Statement().Write(buf, opts...)
	case fn == "read":
		return result(h.Read(buf, opts...))
	default:
		return result(h.Write(buf, opts...))
	}
}

func (m *Module) seek(conv Convention, args ...any) ([]any, error) {
	const fn = "seek"
	if err := checkArity(fn, args, 3, 3); err != nil {
		return nil, err
	}
	h, err := argHandle(fn, args, 0)
	if err != nil {
		return nil, err
	}
	offset, err := argInt(fn, args, 1)
	if err != nil {
		return nil, err
	}
	whence, err := argInt(fn, args, 2)
	if err != nil {
		return nil, err
	}
	if conv == Statement {
		return nil, h.Statement().Seek(offset, int(whence))
	}
	return result(h.Seek(offset, int(whence)))
}

func (m *Module) ioctl(conv Convention, args ...any) ([]any, error) {
	const fn = "ioctl"
	if err := checkArity(fn, args, 2, 3); err != nil {
		return nil, err
	}
	h, err := argHandle(fn, args, 0)
	if err != nil {
		return nil, err
	}
	request, err := argUint(fn, args, 1)
	if err != nil {
		return nil, err
	}
	var data any
	if present(args, 2) {
		data = args[2]
	}
	if conv == Statement {
		return nil, h.Statement().Ioctl(request, data)
	}
	return result(h.Ioctl(request, data))
}

func (m *Module) errno(_ Convention, args ...any) ([]any, error) {
	if err := checkArity("errno", args, 0, 0); err != nil {
		return nil, err
	}
	return []any{int64(fdio.LastErrorCode())}, nil
}

func (m *Module) strerror(_ Convention, args ...any) ([]any, error) {
	const fn = "strerror"
	if err := checkArity(fn, args, 0, 1); err != nil {
		return nil, err
	}
	if !present(args, 0) {
		return []any{fdio.DescribeError()}, nil
	}
	code, err := argInt(fn, args, 0)
	if err != nil {
		return nil, err
	}
	return []any{fdio.DescribeError(int(code))}, nil
}

func (m *Module) member(_ Convention, args ...any) ([]any, error) {
	const fn = "member"
	if err := checkArity(fn, args, 2, 2); err != nil {
		return nil, err
	}
	h, err := argHandle(fn, args, 0)
	if err != nil {
		return nil, err
	}
	name, err := argString(fn, args, 1)
	if err != nil {
		return nil, err
	}
	v, err := h.Member(name)
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}

func (m *Module) greetings(_ Convention, args ...any) ([]any, error) {
	if err := checkArity("greetings", args, 0, 0); err != nil {
		return nil, err
	}
	return []any{Greeting}, nil
}

// result converts a value-mode outcome to the host's return values.
func result(res fdio.Result, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	return []any{res.Value}, nil
}
