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

// Package fdfs exposes a directory tree as a go-billy filesystem whose files
// are fdio handles.
package fdfs

import (
	"fmt"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/go-git/go-billy/v5"

	"github.com/ziggy42/fdio/fdio"
)

const defaultDirectoryMode = 0o755

// FS is a billy.Basic rooted at a host directory. Names never resolve outside
// the root, including through symlinks.
type FS struct {
	root string
	cfg  fdio.Config
}

var (
	_ billy.Basic   = (*FS)(nil)
	_ billy.Capable = (*FS)(nil)
)

// New returns a filesystem rooted at root whose files are opened with cfg.
func New(root string, cfg fdio.Config) *FS {
	return &FS{root: filepath.Clean(root), cfg: cfg}
}

// Root returns the host directory the filesystem is rooted at.
func (fs *FS) Root() string {
	return fs.root
}

func (fs *FS) Capabilities() billy.Capability {
	return billy.DefaultCapabilities
}

// Create creates or truncates name for reading and writing.
func (fs *FS) Create(name string) (billy.File, error) {
	return fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

// Open opens name read-only.
func (fs *FS) Open(name string) (billy.File, error) {
	return fs.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile opens name with flag and perm. Missing parent directories are
// created when flag includes os.O_CREATE.
func (fs *FS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	path, err := fs.abs(name)
	if err != nil {
		return nil, fmt.Errorf("fdfs: open %q: %w", name, err)
	}
	if flag&os.O_CREATE != 0 {
		if err := os.MkdirAll(filepath.Dir(path), defaultDirectoryMode); err != nil {
			return nil, fmt.Errorf("fdfs: open %q: %w", name, err)
		}
	}
	h, err := fdio.OpenWithConfig(fs.cfg, path, flag, uint32(perm.Perm()))
	if err != nil {
		return nil, fmt.Errorf("fdfs: open %q: %w", name, err)
	}
	return &File{name: name, h: h}, nil
}

func (fs *FS) Stat(name string) (os.FileInfo, error) {
	path, err := fs.abs(name)
	if err != nil {
		return nil, fmt.Errorf("fdfs: stat %q: %w", name, err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("fdfs: stat %q: %w", name, err)
	}
	return fi, nil
}

// Rename moves oldpath to newpath, creating newpath's parent if needed.
func (fs *FS) Rename(oldpath, newpath string) error {
	from, err := fs.abs(oldpath)
	if err != nil {
		return fmt.Errorf("fdfs: rename %q: %w", oldpath, err)
	}
	to, err := fs.abs(newpath)
	if err != nil {
		return fmt.Errorf("fdfs: rename %q: %w", newpath, err)
	}
	if err := os.MkdirAll(filepath.Dir(to), defaultDirectoryMode); err != nil {
		return fmt.Errorf("fdfs: rename %q: %w", newpath, err)
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("fdfs: rename %q: %w", oldpath, err)
	}
	return nil
}

func (fs *FS) Remove(name string) error {
	path, err := fs.abs(name)
	if err != nil {
		return fmt.Errorf("fdfs: remove %q: %w", name, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("fdfs: remove %q: %w", name, err)
	}
	return nil
}

func (fs *FS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// abs resolves name inside the root. "../x" and absolute names are treated as
// relative to the root.
func (fs *FS) abs(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty name: %w", fdio.ErrInvalidArgument)
	}
	return securejoin.SecureJoin(fs.root, name)
}
