// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package lua provides a sandboxed Lua runtime for scripted plugins.
package lua

import (
	"context"
	"errors"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// ErrState is returned when a sandboxed state cannot be built.
var ErrState = errors.New("lua state setup failed")

type library struct {
	name string
	open lua.LGFunction
}

// curveLibraries are the only libraries a plugin script can reach. Scripts
// compute numbers, so os, io, debug, package, coroutine and channel are left
// out.
var curveLibraries = []library{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// hiddenGlobals are base library functions removed after loading. They read
// files, compile code outside Compile, or poke the collector.
var hiddenGlobals = []string{"dofile", "loadfile", "loadstring", "load", "collectgarbage"}

// StateFactory creates sandboxed Lua states.
type StateFactory struct {
	libs      []library
	callStack int
}

// FactoryOption configures a StateFactory.
type FactoryOption func(*StateFactory)

// WithCallStackSize limits the Lua call depth of created states.
func WithCallStackSize(n int) FactoryOption {
	return func(f *StateFactory) {
		f.callStack = n
	}
}

// NewStateFactory creates a factory for sandboxed states.
func NewStateFactory(opts ...FactoryOption) *StateFactory {
	f := &StateFactory{
		libs:      curveLibraries,
		callStack: lua.CallStackSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewState returns a fresh state holding only the sandbox libraries. A
// cancellable ctx aborts running Lua code once it is done.
func (f *StateFactory) NewState(ctx context.Context) (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: f.callStack,
	})

	for _, lib := range f.libs {
		open := L.NewFunction(lib.open)
		if err := L.CallByParam(lua.P{Fn: open, Protect: true}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.Code("LUA_STATE_FAILED").With("library", lib.name).Wrap(errors.Join(ErrState, err))
		}
	}

	for _, name := range hiddenGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	if ctx != nil && ctx.Done() != nil {
		L.SetContext(ctx)
	}
	return L, nil
}
