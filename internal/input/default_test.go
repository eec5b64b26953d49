package input

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/eiannone/keyboard"
)

func columns(r rune) int {
	switch r {
	case 'd':
		return 0
	case 'f':
		return 1
	case ' ':
		return 2
	}
	return -1
}

func TestReadEvents(t *testing.T) {
	var buf bytes.Buffer
	in := []keyEvent{
		{Type: evKey, Code: 32, Value: 1},
		{Type: evKey, Code: 32, Value: 2},
		{Type: 0x04, Code: 4, Value: 30},
		{Type: evKey, Code: 33, Value: 1},
		{Type: evKey, Code: 30, Value: 1},
		{Type: evKey, Code: 32, Value: 0},
		{Type: evKey, Code: keyEscape, Value: 1},
	}
	for _, ev := range in {
		binary.Write(&buf, binary.LittleEndian, ev)
	}
	events := make(chan Event, len(in))
	if err := readEvents(&buf, columns, events); nil != err {
		t.Fatal(err)
	}
	close(events)
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	expected := []Event{
		{Column: 0, Pressed: true},
		{Column: 1, Pressed: true},
		{Column: 0, Pressed: false},
		{Column: -1, Pressed: true, Escape: true},
	}
	if !reflect.DeepEqual(out, expected) {
		t.Log(out)
		t.Fail()
	}
}

func TestTranslate(t *testing.T) {
	tests := map[keyboard.KeyEvent]Event{
		{Rune: 'f'}:              {Column: 1, Pressed: true},
		{Key: keyboard.KeySpace}: {Column: 2, Pressed: true},
		{Key: keyboard.KeyEsc}:   {Column: -1, Pressed: true, Escape: true},
		{Key: keyboard.KeyCtrlC}: {Column: -1, Pressed: true, Escape: true},
	}
	for key, expected := range tests {
		ev, ok := translate(key, columns)
		if !ok || ev != expected {
			t.Log(key, ev, ok)
			t.Fail()
		}
	}
	if _, ok := translate(keyboard.KeyEvent{Rune: 'q'}, columns); ok {
		t.Fail()
	}
}
