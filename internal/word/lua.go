package word

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultLuaTimeout bounds a single Lua rule invocation.
const DefaultLuaTimeout = 50 * time.Millisecond

// LuaRules are classification rules defined by a sandboxed Lua script.
//
// A script either defines a global function
//
//	function reject(word) return word == "lorem" end
//
// or an ordered table of named rules
//
//	rules = {
//	  { name = "lorem", reject = function(w) return w == "lorem" end },
//	}
//
// Rules receive the cleaned candidate. A rule that errors or times out does
// not reject.
//
// gopher-lua states are not goroutine-safe; every call is serialized.
type LuaRules struct {
	mu      sync.Mutex
	L       *lua.LState
	rules   []Rule
	timeout time.Duration
	lastErr error
	closed  bool
}

// LuaOption configures LuaRules.
type LuaOption func(*LuaRules)

// WithLuaTimeout sets the per-call timeout.
func WithLuaTimeout(d time.Duration) LuaOption {
	return func(lr *LuaRules) {
		if d > 0 {
			lr.timeout = d
		}
	}
}

// LoadLuaRulesFile compiles the script at path.
func LoadLuaRulesFile(path string, opts ...LuaOption) (*LuaRules, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lua rules %s: %w", path, err)
	}
	lr, err := LoadLuaRules(string(src), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading lua rules %s: %w", path, err)
	}
	return lr, nil
}

// LoadLuaRules compiles src and collects its rules.
func LoadLuaRules(src string, opts ...LuaOption) (*LuaRules, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	lr := &LuaRules{L: L, timeout: DefaultLuaTimeout}
	for _, opt := range opts {
		opt(lr)
	}

	if err := doWithRecovery(func() error { return L.DoString(src) }); err != nil {
		L.Close()
		return nil, err
	}

	if err := lr.collect(); err != nil {
		L.Close()
		return nil, err
	}
	return lr, nil
}

// openSafeLibraries opens base, table, string and math, then removes the
// base functions that reach the file system or compile code.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (lr *LuaRules) collect() error {
	if tbl, ok := lr.L.GetGlobal("rules").(*lua.LTable); ok {
		for i := 1; i <= tbl.Len(); i++ {
			entry, ok := tbl.RawGetInt(i).(*lua.LTable)
			if !ok {
				return fmt.Errorf("rules[%d] is not a table", i)
			}
			fn, ok := entry.RawGetString("reject").(*lua.LFunction)
			if !ok {
				return fmt.Errorf("rules[%d].reject is not a function", i)
			}
			name := fmt.Sprintf("lua-%d", i)
			if s, ok := entry.RawGetString("name").(lua.LString); ok && s != "" {
				name = "lua:" + string(s)
			}
			lr.rules = append(lr.rules, Rule{Name: name, Reject: lr.bind(fn)})
		}
	}

	if fn, ok := lr.L.GetGlobal("reject").(*lua.LFunction); ok {
		lr.rules = append(lr.rules, Rule{Name: "lua:reject", Reject: lr.bind(fn)})
	}

	if len(lr.rules) == 0 {
		return ErrNoLuaRules
	}
	return nil
}

func (lr *LuaRules) bind(fn *lua.LFunction) func(string) bool {
	return func(s string) bool {
		rejected, err := lr.call(fn, s)
		if err != nil {
			lr.mu.Lock()
			lr.lastErr = err
			lr.mu.Unlock()
			return false
		}
		return rejected
	}
}

func (lr *LuaRules) call(fn *lua.LFunction, s string) (bool, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	if lr.closed {
		return false, ErrLuaClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), lr.timeout)
	defer cancel()
	lr.L.SetContext(ctx)
	defer lr.L.RemoveContext()

	top := lr.L.GetTop()
	err := doWithRecovery(func() error {
		return lr.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(s))
	})
	if err != nil {
		lr.L.SetTop(top)
		return false, err
	}
	ret := lr.L.Get(-1)
	lr.L.SetTop(top)
	return lua.LVAsBool(ret), nil
}

// Rules returns the script's rules in definition order, the rules table
// first.
func (lr *LuaRules) Rules() []Rule {
	out := make([]Rule, len(lr.rules))
	copy(out, lr.rules)
	return out
}

// LastError returns the most recent rule invocation error.
func (lr *LuaRules) LastError() error {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return lr.lastErr
}

// Close releases the Lua state. Rules bound to it stop rejecting.
func (lr *LuaRules) Close() {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if lr.closed {
		return
	}
	lr.closed = true
	lr.L.Close()
}

func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
