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
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/ziggy42/fdio/fdio"
	"github.com/ziggy42/fdio/host"
)

const (
	prompt          = ">> "
	statementPrefix = "!"
	digestChunk     = 4096
	colorRed        = "\033[31m"
	colorGreen      = "\033[32m"
	colorReset      = "\033[0m"
	clearScreen     = "\033[H\033[2J"

	usageOpen     = "OPEN <name> <path> <flags> [mode]"
	usageClose    = "CLOSE <name>"
	usageRead     = "READ <name> <count> [offset]"
	usageWrite    = "WRITE <name> <text>"
	usageSeek     = "SEEK <name> <offset> <whence>"
	usageIoctl    = "IOCTL <name> <request> [size]"
	usageStrerror = "STRERROR [code]"
	usageConst    = "CONST <name>"
	usageInfo     = "INFO <name>"
	usageDigest   = "DIGEST <name>"

	helpText = "Commands:\n" +
		"  " + usageOpen + "\n" +
		"  " + usageClose + "\n" +
		"  " + usageRead + "\n" +
		"  " + usageWrite + "\n" +
		"  " + usageSeek + "\n" +
		"  " + usageIoctl + "\n" +
		"  ERRNO\n" +
		"  " + usageStrerror + "\n" +
		"  " + usageConst + "\n" +
		"  " + usageInfo + "\n" +
		"  " + usageDigest + "\n" +
		"  LIST\n" +
		"  HELP\n" +
		"  CLEAR\n" +
		"  QUIT\n" +
		"Prefix OPEN, CLOSE, READ, WRITE, SEEK or IOCTL with " + statementPrefix +
		" to raise OS failures instead of printing -1."
)

var (
	errOpenUsage     = errors.New("usage: " + usageOpen)
	errCloseUsage    = errors.New("usage: " + usageClose)
	errReadUsage     = errors.New("usage: " + usageRead)
	errWriteUsage    = errors.New("usage: " + usageWrite)
	errSeekUsage     = errors.New("usage: " + usageSeek)
	errIoctlUsage    = errors.New("usage: " + usageIoctl)
	errStrerrorUsage = errors.New("usage: " + usageStrerror)
	errConstUsage    = errors.New("usage: " + usageConst)
	errInfoUsage     = errors.New("usage: " + usageInfo)
	errDigestUsage   = errors.New("usage: " + usageDigest)
)

type repl struct {
	module  *host.Module
	handles map[string]*fdio.Handle
	scanner *bufio.Scanner
	out     io.Writer
	errOut  io.Writer
}

func newREPL(module *host.Module, in io.Reader, out, errOut io.Writer) *repl {
	return &repl{
		module:  module,
		handles: make(map[string]*fdio.Handle),
		scanner: bufio.NewScanner(in),
		out:     out,
		errOut:  errOut,
	}
}

// run executes commands until QUIT or the end of input.
func (r *repl) run() {
	fmt.Fprint(r.out, prompt)

	for r.scanner.Scan() {
		parts := strings.Fields(r.scanner.Text())
		if len(parts) == 0 {
			fmt.Fprint(r.out, prompt)
			continue
		}

		conv := host.Value
		cmd := strings.ToUpper(parts[0])
		if rest, ok := strings.CutPrefix(cmd, statementPrefix); ok {
			conv, cmd = host.Statement, rest
		}
		args := parts[1:]
		var err error

		switch cmd {
		case "OPEN":
			err = r.handleOpen(conv, args)
		case "CLOSE":
			err = r.handleClose(conv, args)
		case "READ":
			err = r.handleRead(conv, args)
		case "WRITE":
			err = r.handleWrite(conv, args)
		case "SEEK":
			err = r.handleSeek(conv, args)
		case "IOCTL":
			err = r.handleIoctl(conv, args)
		case "ERRNO":
			err = r.handleErrno()
		case "STRERROR":
			err = r.handleStrerror(args)
		case "CONST":
			err = r.handleConst(args)
		case "INFO":
			err = r.handleInfo(args)
		case "DIGEST":
			err = r.handleDigest(args)
		case "LIST":
			r.handleList()
		case "HELP":
			fmt.Fprintln(r.out, helpText)
		case "CLEAR":
			r.handleClear()
		case "QUIT":
			return
		default:
			fmt.Fprintln(
				r.errOut,
				red(fmt.Sprintf("Error: unknown command: %s", parts[0])),
			)
		}

		if err != nil {
			fmt.Fprintln(r.errOut, red(fmt.Sprintf("Error: %s", err)))
		}
		fmt.Fprint(r.out, prompt)
	}
}

// closeAll closes every handle the session still owns.
func (r *repl) closeAll() {
	for name, h := range r.handles {
		h.Close()
		delete(r.handles, name)
	}
}

func (r *repl) handleOpen(conv host.Convention, args []string) error {
	if len(args) != 3 && len(args) != 4 {
		return errOpenUsage
	}
	name, path := args[0], args[1]
	if _, ok := r.handles[name]; ok {
		return fmt.Errorf("handle '%s' already exists", name)
	}
	flags, err := parseFlags(args[2])
	if err != nil {
		return err
	}
	callArgs := []any{path, flags}
	if len(args) == 4 {
		mode, err := parseNumber(args[3])
		if err != nil {
			return fmt.Errorf("invalid mode: %s", args[3])
		}
		callArgs = append(callArgs, mode)
	}

	out, err := r.module.Call(conv, "open", callArgs...)
	if err != nil {
		return err
	}
	h := out[0].(*fdio.Handle)
	r.handles[name] = h
	fd, _ := h.Descriptor()
	r.println(green(fmt.Sprintf("'%s' opened (fd %d).", name, fd)))
	return nil
}

func (r *repl) handleClose(conv host.Convention, args []string) error {
	if len(args) != 1 {
		return errCloseUsage
	}
	h, err := r.getHandle(args[0])
	if err != nil {
		return err
	}
	if _, err := r.module.Call(conv, "close", h); err != nil {
		return err
	}
	delete(r.handles, args[0])
	r.println(green(fmt.Sprintf("'%s' closed.", args[0])))
	return nil
}

func (r *repl) handleRead(conv host.Convention, args []string) error {
	if len(args) != 2 && len(args) != 3 {
		return errReadUsage
	}
	h, err := r.getHandle(args[0])
	if err != nil {
		return err
	}
	count, err := parseCount(args[1])
	if err != nil {
		return err
	}
	offset := 0
	if len(args) == 3 {
		if offset, err = parseCount(args[2]); err != nil {
			return fmt.Errorf("invalid offset: %s", args[2])
		}
	}

	buf := make([]byte, offset+count)
	out, err := r.module.Call(conv, "read", h, buf, offset, count)
	if err != nil {
		return err
	}
	if conv == host.Statement {
		r.println(green(fmt.Sprintf("%q", buf[offset:])))
		return nil
	}
	n := out[0].(int64)
	if n < 0 {
		r.printFailure(n)
		return nil
	}
	r.println(green(fmt.Sprintf("%d %q", n, buf[offset:offset+int(n)])))
	return nil
}

func (r *repl) handleWrite(conv host.Convention, args []string) error {
	if len(args) < 2 {
		return errWriteUsage
	}
	h, err := r.getHandle(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")
	out, err := r.module.Call(conv, "write", h, []byte(text))
	if err != nil {
		return err
	}
	r.printValue(conv, out)
	return nil
}

func (r *repl) handleSeek(conv host.Convention, args []string) error {
	if len(args) != 3 {
		return errSeekUsage
	}
	h, err := r.getHandle(args[0])
	if err != nil {
		return err
	}
	offset, err := parseNumber(args[1])
	if err != nil {
		return err
	}
	whence, err := parseNumber(args[2])
	if err != nil {
		return err
	}
	out, err := r.module.Call(conv, "seek", h, offset, whence)
	if err != nil {
		return err
	}
	r.printValue(conv, out)
	return nil
}

// handleIoctl passes a zeroed buffer of size bytes, or no argument at all,
// and prints the buffer as the driver left it.
func (r *repl) handleIoctl(conv host.Convention, args []string) error {
	if len(args) != 2 && len(args) != 3 {
		return errIoctlUsage
	}
	h, err := r.getHandle(args[0])
	if err != nil {
		return err
	}
	request, err := parseNumber(args[1])
	if err != nil {
		return err
	}
	var data []byte
	if len(args) == 3 {
		size, err := parseCount(args[2])
		if err != nil {
			return fmt.Errorf("invalid size: %s", args[2])
		}
		data = make([]byte, size)
	}

	var arg any
	if data != nil {
		arg = data
	}
	out, err := r.module.Call(conv, "ioctl", h, uint64(request), arg)
	if err != nil {
		return err
	}
	r.printValue(conv, out)
	if len(data) > 0 {
		r.println(fmt.Sprintf("% x", data))
	}
	return nil
}

func (r *repl) handleErrno() error {
	out, err := r.module.Call(host.Value, "errno")
	if err != nil {
		return err
	}
	code := out[0].(int64)
	r.println(green(fmt.Sprintf("%d %s", code, fdio.ErrnoName(int(code)))))
	return nil
}

func (r *repl) handleStrerror(args []string) error {
	var callArgs []any
	switch len(args) {
	case 0:
	case 1:
		code, err := parseNumber(args[0])
		if err != nil {
			return err
		}
		callArgs = append(callArgs, code)
	default:
		return errStrerrorUsage
	}
	out, err := r.module.Call(host.Value, "strerror", callArgs...)
	if err != nil {
		return err
	}
	r.println(green(out[0].(string)))
	return nil
}

func (r *repl) handleConst(args []string) error {
	if len(args) != 1 {
		return errConstUsage
	}
	v, ok := r.module.Globals()[args[0]]
	if !ok {
		return fmt.Errorf("constant '%s' not defined on this platform", args[0])
	}
	r.println(green(fmt.Sprintf("%d (%#x)", v, v)))
	return nil
}

func (r *repl) handleInfo(args []string) error {
	if len(args) != 1 {
		return errInfoUsage
	}
	h, err := r.getHandle(args[0])
	if err != nil {
		return err
	}
	for _, member := range []string{"path", "flags", "mode", "fd"} {
		out, err := r.module.Call(host.Value, "member", h, member)
		if err != nil {
			return err
		}
		r.println(fmt.Sprintf("  %-5s %v", member, out[0]))
	}
	return nil
}

// handleDigest hashes everything from the start of the file to EOF and
// restores the offset.
func (r *repl) handleDigest(args []string) error {
	if len(args) != 1 {
		return errDigestUsage
	}
	h, err := r.getHandle(args[0])
	if err != nil {
		return err
	}
	stmt := h.Statement()

	pos, err := h.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if pos.Failed() {
		return fmt.Errorf("digest '%s': %w", args[0], pos.Errno)
	}
	if err := stmt.Seek(0, io.SeekStart); err != nil {
		return err
	}
	defer stmt.Seek(pos.Value, io.SeekStart)

	d := xxhash.New()
	buf := make([]byte, digestChunk)
	var total int64
	for {
		res, err := h.Read(buf)
		if err != nil {
			return err
		}
		if res.Failed() {
			return fmt.Errorf("digest '%s': %w", args[0], res.Errno)
		}
		if res.Value == 0 {
			break
		}
		d.Write(buf[:res.Value])
		total += res.Value
	}
	r.println(green(fmt.Sprintf("%016x (%d bytes)", d.Sum64(), total)))
	return nil
}

func (r *repl) handleList() {
	names := make([]string, 0, len(r.handles))
	for name := range r.handles {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		r.println(fmt.Sprintf("%s %s", name, r.handles[name]))
	}
}

func (r *repl) handleClear() {
	fmt.Fprint(r.out, clearScreen)
	r.closeAll()
}

func (r *repl) getHandle(name string) (*fdio.Handle, error) {
	h, ok := r.handles[name]
	if !ok {
		return nil, fmt.Errorf("handle '%s' not found", name)
	}
	return h, nil
}

// printValue prints the raw result of a value-mode call, or "ok" for a
// statement that did not raise.
func (r *repl) printValue(conv host.Convention, out []any) {
	if conv == host.Statement {
		r.println(green("ok"))
		return
	}
	n := out[0].(int64)
	if n < 0 {
		r.printFailure(n)
		return
	}
	r.println(green(fmt.Sprintf("%d", n)))
}

func (r *repl) printFailure(n int64) {
	code := fdio.LastErrorCode()
	r.println(red(fmt.Sprintf(
		"%d (%s: %s)", n, fdio.ErrnoName(code), fdio.DescribeError(code),
	)))
}

func (r *repl) println(s string) {
	fmt.Fprintln(r.out, s)
}

func red(s string) string {
	return fmt.Sprintf("%s%s%s", colorRed, s, colorReset)
}

func green(s string) string {
	return fmt.Sprintf("%s%s%s", colorGreen, s, colorReset)
}
