package layout

import "testing"

func TestTabStops(t *testing.T) {
	ts := NewTabStops(4)

	tests := []struct {
		col, next, advance int
	}{
		{0, 4, 4},
		{1, 4, 3},
		{3, 4, 1},
		{4, 8, 4},
		{9, 12, 3},
	}
	for _, tt := range tests {
		if got := ts.Next(tt.col); got != tt.next {
			t.Errorf("Next(%d) = %d, want %d", tt.col, got, tt.next)
		}
		if got := ts.Advance(tt.col); got != tt.advance {
			t.Errorf("Advance(%d) = %d, want %d", tt.col, got, tt.advance)
		}
	}

	if got := NewTabStops(0).Width; got != DefaultTabWidth {
		t.Errorf("NewTabStops(0).Width = %d, want %d", got, DefaultTabWidth)
	}
}
