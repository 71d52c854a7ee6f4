package word

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLuaRulesTable(t *testing.T) {
	lr, err := LoadLuaRules(`
rules = {
  { name = "lorem", reject = function(w) return string.lower(w) == "lorem" end },
  { reject = function(w) return string.len(w) > 12 end },
}
`)
	if err != nil {
		t.Fatalf("LoadLuaRules: %v", err)
	}
	defer lr.Close()

	c := New().WithRules(lr.Rules()...)

	tests := []struct {
		in      string
		verdict Verdict
		rule    string
	}{
		{"Lorem", Reject, "lua:lorem"},
		{"extraordinary", Reject, "lua-2"},
		{"hello", Accept, ""},
		{"aaa", Reject, "repeated-letter"},
	}
	for _, tt := range tests {
		v, rule := c.Explain(tt.in)
		if v != tt.verdict || rule != tt.rule {
			t.Errorf("Explain(%q) = (%v, %q), want (%v, %q)", tt.in, v, rule, tt.verdict, tt.rule)
		}
	}
}

func TestLuaRulesRejectFunction(t *testing.T) {
	lr, err := LoadLuaRules(`function reject(w) return w == "ipsum" end`)
	if err != nil {
		t.Fatalf("LoadLuaRules: %v", err)
	}
	defer lr.Close()

	rules := lr.Rules()
	if len(rules) != 1 || rules[0].Name != "lua:reject" {
		t.Fatalf("Rules() = %v, want one lua:reject rule", rules)
	}
	if !rules[0].Reject("ipsum") {
		t.Error("reject(ipsum) = false, want true")
	}
	if rules[0].Reject("hello") {
		t.Error("reject(hello) = true, want false")
	}
}

func TestLuaRulesNoRules(t *testing.T) {
	_, err := LoadLuaRules(`x = 1`)
	if !errors.Is(err, ErrNoLuaRules) {
		t.Errorf("LoadLuaRules error = %v, want ErrNoLuaRules", err)
	}
}

func TestLuaRulesSyntaxError(t *testing.T) {
	if _, err := LoadLuaRules(`function reject(`); err == nil {
		t.Error("expected syntax error")
	}
}

func TestLuaRulesSandbox(t *testing.T) {
	_, err := LoadLuaRules(`dofile("/etc/passwd")`)
	if err == nil {
		t.Fatal("dofile should not be callable")
	}

	lr, err := LoadLuaRules(`function reject(w) return io ~= nil or os ~= nil end`)
	if err != nil {
		t.Fatalf("LoadLuaRules: %v", err)
	}
	defer lr.Close()
	if lr.Rules()[0].Reject("hello") {
		t.Error("io or os library is reachable from rules")
	}
}

func TestLuaRulesTimeout(t *testing.T) {
	lr, err := LoadLuaRules(`function reject(w) while true do end end`, WithLuaTimeout(10*time.Millisecond))
	if err != nil {
		t.Fatalf("LoadLuaRules: %v", err)
	}
	defer lr.Close()

	if lr.Rules()[0].Reject("hello") {
		t.Error("timed out rule should not reject")
	}
	if lr.LastError() == nil {
		t.Error("LastError() = nil after timeout")
	}
}

func TestLuaRulesClosed(t *testing.T) {
	lr, err := LoadLuaRules(`function reject(w) return true end`)
	if err != nil {
		t.Fatalf("LoadLuaRules: %v", err)
	}
	rule := lr.Rules()[0]
	lr.Close()
	lr.Close()

	if rule.Reject("hello") {
		t.Error("closed rule should not reject")
	}
	if !errors.Is(lr.LastError(), ErrLuaClosed) {
		t.Errorf("LastError() = %v, want ErrLuaClosed", lr.LastError())
	}
}

func TestLoadLuaRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.lua")
	if err := os.WriteFile(path, []byte(`function reject(w) return w == "foo" end`), 0o644); err != nil {
		t.Fatal(err)
	}
	lr, err := LoadLuaRulesFile(path)
	if err != nil {
		t.Fatalf("LoadLuaRulesFile: %v", err)
	}
	lr.Close()

	_, err = LoadLuaRulesFile(filepath.Join(t.TempDir(), "missing.lua"))
	if err == nil || !strings.Contains(err.Error(), "reading lua rules") {
		t.Errorf("missing file error = %v", err)
	}
}
