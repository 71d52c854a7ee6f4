package app

import (
	"errors"
	"testing"
)

const bingCat = "https://cn.bing.com/images/search?q=cat&form=HDRSC2&first=1"

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{"nil", nil, ""},
		{"op only", &OperationError{Op: "open"}, "open"},
		{"op and target", &OperationError{Op: "open", Target: bingCat}, "open " + bingCat},
		{"wrapped", NewOperationError("load rules", "rules.lua", errors.New("syntax error")), "load rules rules.lua: syntax error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	inner := errors.New("xdg-open: not found")
	err := error(NewOperationError("open", bingCat, inner))

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
	var oerr *OperationError
	if !errors.As(err, &oerr) || oerr.Target != bingCat {
		t.Errorf("errors.As = %v", oerr)
	}

	var nilErr *OperationError
	if nilErr.Unwrap() != nil {
		t.Error("Unwrap() on nil receiver should return nil")
	}
}

func TestRecoveredPanicError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *RecoveredPanicError
		want string
	}{
		{"nil", nil, ""},
		{"value only", NewRecoveredPanicError("index out of range", ""), "panic: index out of range"},
		{"with stack", NewRecoveredPanicError("boom", "goroutine 1..."), "panic: boom\ngoroutine 1..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInitError(t *testing.T) {
	inner := errors.New("no tty")
	err := &InitError{Component: "backend", Err: inner}

	if err.Error() != "init backend: no tty" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to match wrapped error")
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{ErrQuit, ErrAlreadyRunning, ErrNoDocument, ErrNoBackend}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should be distinct", i, j)
			}
		}
	}
}
