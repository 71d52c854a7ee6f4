package statusline

import (
	"strings"
	"testing"

	"github.com/dshills/wordlens/internal/renderer/backend"
)

func render(s *StatusLine, width int) string {
	b := backend.NewNullBackend(width, 1)
	s.Resize(width)
	s.Render(b, 0)
	return b.Row(0)
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeIdle, "LENS"},
		{ModeActive, "ACTIVE"},
		{ModeOff, "OFF"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestStatusLine_Bar(t *testing.T) {
	s := New(Styles{})
	s.SetTitle("Otters")
	s.SetModifier("Ctrl")
	s.SetScroll(0, 10, 5)

	row := render(s, 60)
	for _, want := range []string{"LENS", "Otters", "hold Ctrl", "All"} {
		if !strings.Contains(row, want) {
			t.Errorf("row %q missing %q", row, want)
		}
	}

	s.SetMode(ModeActive)
	row = render(s, 60)
	if !strings.Contains(row, "ACTIVE") || strings.Contains(row, "hold Ctrl") {
		t.Errorf("active row = %q", row)
	}
}

func TestStatusLine_NoTitle(t *testing.T) {
	row := render(New(Styles{}), 40)
	if !strings.Contains(row, "[No Title]") {
		t.Errorf("row = %q", row)
	}
}

func TestStatusLine_Message(t *testing.T) {
	s := New(Styles{})
	s.SetTitle("Otters")
	s.SetMessage("https://cn.bing.com/images/search?q=otter", MessageInfo)

	row := render(s, 60)
	if !strings.HasPrefix(row, "https://cn.bing.com") || strings.Contains(row, "Otters") {
		t.Errorf("message row = %q", row)
	}
	if msg, typ := s.Message(); typ != MessageInfo || msg == "" {
		t.Errorf("Message() = %q, %v", msg, typ)
	}

	s.ClearMessage()
	if msg, typ := s.Message(); msg != "" || typ != MessageNone {
		t.Errorf("after ClearMessage: %q, %v", msg, typ)
	}
	if row := render(s, 60); !strings.Contains(row, "Otters") {
		t.Errorf("row after clear = %q", row)
	}
}

func TestStatusLine_ScrollPosition(t *testing.T) {
	tests := []struct {
		top, height, total int
		want               string
	}{
		{0, 10, 100, "Top"},
		{90, 10, 100, "Bot"},
		{45, 10, 100, "50%"},
		{0, 10, 10, "All"},
	}
	for _, tt := range tests {
		s := New(Styles{})
		s.SetScroll(tt.top, tt.height, tt.total)
		if got := s.formatPosition(); got != tt.want {
			t.Errorf("SetScroll(%d, %d, %d) position = %q, want %q", tt.top, tt.height, tt.total, got, tt.want)
		}
	}
}

func TestStatusLine_Truncates(t *testing.T) {
	s := New(Styles{})
	s.SetMessage(strings.Repeat("x", 50), MessageError)
	row := render(s, 20)
	if got := strings.Count(row, "x"); got != 20 {
		t.Errorf("drew %d cells, want 20", got)
	}
}
