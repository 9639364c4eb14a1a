// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// Errors returned by Compile and Func.Call.
var (
	ErrCompile   = errors.New("lua compile failed")
	ErrCall      = errors.New("lua call failed")
	ErrNotNumber = errors.New("lua function did not return a number")
	ErrTimeout   = errors.New("lua function did not finish in time")
)

// Func is a compiled Lua function taking and returning numbers.
//
// A Func is bound to the state it was compiled in and, like the state, must
// not be used from more than one goroutine at a time.
type Func struct {
	name string
	L    *lua.LState
	fn   *lua.LFunction
}

// Compile wraps body in a function with the given parameter names and
// compiles it in L. The body must return a number, for example "return r*r".
func Compile(L *lua.LState, name string, params []string, body string) (*Func, error) {
	return CompileContext(context.Background(), L, name, params, body)
}

// CompileContext is Compile with the chunk's top-level code aborted once ctx
// is done.
func CompileContext(ctx context.Context, L *lua.LState, name string, params []string, body string) (*Func, error) {
	src := fmt.Sprintf("return function(%s)\n%s\nend", strings.Join(params, ", "), body)

	chunk, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, oops.Code("LUA_COMPILE_FAILED").With("function", name).Wrap(errors.Join(ErrCompile, err))
	}

	if err := protectedCall(ctx, L, chunk); err != nil {
		if ctx.Err() != nil {
			return nil, timeoutError(ctx, name)
		}
		return nil, oops.Code("LUA_COMPILE_FAILED").With("function", name).Wrap(errors.Join(ErrCompile, err))
	}
	ret := L.Get(-1)
	L.Pop(1)

	fn, ok := ret.(*lua.LFunction)
	if !ok {
		return nil, oops.Code("LUA_COMPILE_FAILED").With("function", name).Wrap(ErrCompile)
	}
	return &Func{name: name, L: L, fn: fn}, nil
}

// Name returns the name given to Compile.
func (f *Func) Name() string {
	return f.name
}

// Call invokes the function with args and returns its numeric result.
func (f *Func) Call(args ...float64) (float64, error) {
	return f.CallContext(context.Background(), args...)
}

// CallContext is Call with execution aborted once ctx is done. A call cut
// short this way returns an error wrapping ErrTimeout.
func (f *Func) CallContext(ctx context.Context, args ...float64) (float64, error) {
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = lua.LNumber(a)
	}

	if err := protectedCall(ctx, f.L, f.fn, largs...); err != nil {
		if ctx.Err() != nil {
			return 0, timeoutError(ctx, f.name)
		}
		return 0, oops.Code("LUA_CALL_FAILED").With("function", f.name).Wrap(errors.Join(ErrCall, err))
	}
	ret := f.L.Get(-1)
	f.L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, oops.Code("LUA_NOT_NUMBER").
			With("function", f.name).
			With("type", ret.Type().String()).
			Wrap(ErrNotNumber)
	}
	return float64(n), nil
}

// protectedCall runs fn with one result under ctx. The state's own context,
// if any, is restored afterwards.
func protectedCall(ctx context.Context, L *lua.LState, fn *lua.LFunction, args ...lua.LValue) error {
	if ctx.Done() != nil {
		prev := L.Context()
		L.SetContext(ctx)
		defer func() {
			if prev != nil {
				L.SetContext(prev)
			} else {
				L.RemoveContext()
			}
		}()
	}
	//nolint:wrapcheck // callers attach the oops code
	return L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
}

func timeoutError(ctx context.Context, name string) error {
	return oops.Code("LUA_CALL_TIMEOUT").With("function", name).Wrap(errors.Join(ErrTimeout, ctx.Err()))
}
