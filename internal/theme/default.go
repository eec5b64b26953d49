package theme

import (
	"fmt"
)

type DefaultTheme struct {
}

func paint(c Color, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

func (t *DefaultTheme) RenderMine(column int) string {
	return paint(NoteColor(1), mineSym)
}

func (t *DefaultTheme) RenderNote(column int, denom int) string {
	return paint(NoteColor(denom), noteSym)
}

func (t *DefaultTheme) RenderHold(column int, denom int) string {
	return paint(NoteColor(denom), holdSym)
}

func (t *DefaultTheme) RenderHitField(column int, pressed bool) string {
	if pressed {
		return pressedSym
	}
	return barSym
}

const (
	mineSym    = "⨯"
	noteSym    = "⬤"
	holdSym    = "┃"
	barSym     = "-"
	pressedSym = "="
)

var noteColors = map[int]Color{
	1:  {236, 30, 0},    // 1/4 red
	2:  {0, 118, 236},   // 1/8 blue
	3:  {106, 0, 236},   // 1/12 purple
	4:  {236, 195, 0},   // 1/16 yellow
	6:  {236, 0, 106},   // 1/24 pink
	8:  {236, 128, 0},   // 1/32 orange
	12: {173, 236, 236}, // 1/48 light blue
	16: {0, 236, 128},   // 1/64 green
	48: {110, 147, 89},  // 1/192 olive
	-1: {106, 106, 106}, // other grey
}

func NoteColor(denom int) Color {
	col, ok := noteColors[denom]
	if !ok {
		return noteColors[-1]
	}
	return col
}
