package word

import "errors"

var (
	// ErrNoLuaRules indicates a script defined neither a rules table nor a
	// reject function.
	ErrNoLuaRules = errors.New("lua script defines no rules")

	// ErrLuaClosed indicates the Lua rule set was closed.
	ErrLuaClosed = errors.New("lua rules closed")
)
