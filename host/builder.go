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

package host

// Convention selects how an entry point reports its outcome.
type Convention uint8

const (
	// Value is a function call: the raw numeric result is returned and OS
	// failures are left to the caller to interpret.
	Value Convention = iota
	// Statement is a procedure call: nothing is returned on success and any
	// failure is raised as an error.
	Statement
)

func (c Convention) String() string {
	if c == Statement {
		return "statement"
	}
	return "value"
}

// Func is a host entry point. args come from the host's dynamically typed
// call stack.
type Func func(conv Convention, args ...any) ([]any, error)

// ModuleBuilder assembles the table of entry points a host binds to.
type ModuleBuilder struct {
	name  string
	funcs map[string]Func
}

func NewModuleBuilder(name string) *ModuleBuilder {
	return &ModuleBuilder{name: name, funcs: make(map[string]Func)}
}

func (b *ModuleBuilder) AddFunc(name string, fn Func) *ModuleBuilder {
	b.funcs[name] = fn
	return b
}

// Build returns the entry points keyed by module name and then by function
// name.
func (b *ModuleBuilder) Build() map[string]map[string]Func {
	return map[string]map[string]Func{b.name: b.funcs}
}
