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

import "log/slog"

// Config controls how handles are opened and how they report.
type Config struct {
	// Logger receives debug records for opens and closes and a warning when
	// close(2) fails. Default: a logger that discards everything.
	Logger *slog.Logger

	// Syscalls is the OS seam every handle goes through. Default:
	// DefaultSyscaller.
	Syscalls Syscaller

	// CloseOnExec ORs O_CLOEXEC into the flags given to open(2). The stored
	// flags stay as passed by the caller. Default: true.
	CloseOnExec bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Logger:      slog.New(slog.DiscardHandler),
		Syscalls:    DefaultSyscaller,
		CloseOnExec: true,
	}
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.Syscalls == nil {
		c.Syscalls = DefaultSyscaller
	}
	return c
}
