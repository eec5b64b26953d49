package theme

import "testing"

func TestNoteColor(t *testing.T) {
	tests := map[int]Color{
		1:  {236, 30, 0},
		2:  {0, 118, 236},
		48: {110, 147, 89},
		5:  {106, 106, 106},
		0:  {106, 106, 106},
	}
	for denom, expected := range tests {
		if c := NoteColor(denom); c != expected {
			t.Log(denom, c, expected)
			t.Fail()
		}
	}
}

func TestRenderNote(t *testing.T) {
	th := &DefaultTheme{}
	if s := th.RenderNote(0, 2); s != "\033[38;2;0;118;236m⬤\033[0m" {
		t.Logf("%q", s)
		t.Fail()
	}
	if th.RenderHitField(0, true) == th.RenderHitField(0, false) {
		t.Fail()
	}
}
