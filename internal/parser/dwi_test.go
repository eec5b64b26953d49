package parser

import (
	"math/big"
	"reflect"
	"strings"
	"testing"

	"git.lost.host/meutraa/notefield/internal/game"
	"github.com/pkg/errors"
)

const dwi = `content outside of tags is discarded
#TITLE:bar1;
#ARTIST:bar3;
#FILE:bar6.mp3;
#GAP:250;
#BPM:123.4;
#CHANGEBPM:23.4=56.7,256=128;
#FREEZE:64=500;
#SINGLE:SMANIC:17:
00004008
(<42>000100060000000);
#DOUBLE:BASIC:3:
00000000;
`

func notes(ns ...game.Note) []game.Note { return ns }
func tapAt(c int) game.Note             { return game.Note{Column: c, Type: game.Tap} }

func TestParseDWI(t *testing.T) {
	p := DWIParser{}
	song, err := p.Parse(strings.NewReader(dwi))
	if nil != err {
		t.Fatal(err)
	}
	if song.Title != "bar1" || song.Artist != "bar3" || song.Music != "bar6.mp3" || song.Offset != 0.25 {
		t.Log(song.Title, song.Artist, song.Music, song.Offset)
		t.Fail()
	}
	bpms := []game.BPM{
		{Measure: 0, Fraction: new(big.Rat), Value: 123.4},
		{Measure: 1, Fraction: big.NewRat(37, 80), Value: 56.7},
		{Measure: 16, Fraction: new(big.Rat), Value: 128},
	}
	if len(song.BPMs) != len(bpms) {
		t.Fatal(song.BPMs)
	}
	for i, b := range bpms {
		got := song.BPMs[i]
		if got.Measure != b.Measure || got.Fraction.Cmp(b.Fraction) != 0 || got.Value != b.Value {
			t.Log(i, got, b)
			t.Fail()
		}
	}

	if len(song.Charts) != 1 {
		t.Fatal("charts", len(song.Charts))
	}
	chart := song.Charts[0]
	if chart.Difficulty.Name != "SMANIC" || chart.Difficulty.Meter != "17" || chart.Difficulty.NKeys != 4 {
		t.Log(chart.Difficulty)
		t.Fail()
	}
	expected := []game.Measure{
		{
			{Position: big.NewRat(1, 2), Notes: notes(tapAt(0))},
			{Position: big.NewRat(7, 8), Notes: notes(tapAt(2))},
		},
		{
			{Position: big.NewRat(0, 1), Notes: notes(tapAt(0), tapAt(1))},
			{Position: big.NewRat(1, 4), Notes: notes(tapAt(0), tapAt(1))},
			{Position: big.NewRat(1, 2), Notes: notes(tapAt(3))},
		},
	}
	if !sameMeasures(chart.Measures, expected) {
		t.Log(chart.Measures)
		t.Fail()
	}
}

func sameMeasures(a, b []game.Measure) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j, row := range a[i] {
			if row.Position.Cmp(b[i][j].Position) != 0 || !reflect.DeepEqual(row.Notes, b[i][j].Notes) {
				return false
			}
		}
	}
	return true
}

func TestDWIChords(t *testing.T) {
	tests := map[string][]game.Note{
		"<>":     {},
		"<16>":   {tapAt(0), tapAt(1), tapAt(3)},
		"<B2>":   {tapAt(0), tapAt(1), tapAt(3)},
		"<426>":  {tapAt(0), tapAt(1), tapAt(3)},
		"<BA>":   {tapAt(0), tapAt(1), tapAt(2), tapAt(3)},
		"<B50A>": {tapAt(0), tapAt(1), tapAt(2), tapAt(3)},
	}
	for chord, expected := range tests {
		r := &dwiReader{s: chord}
		got, err := r.row()
		if nil != err || !reflect.DeepEqual(got, expected) {
			t.Log(chord, got, err)
			t.Fail()
		}
	}
}

func TestDWIHolds(t *testing.T) {
	chart, err := parseDWIChart("BASIC:3:[01!20000000000000000000000]02000000")
	if nil != err {
		t.Fatal(err)
	}
	head := chart.Measures[0][0]
	if head.Position.Cmp(big.NewRat(1, 24)) != 0 ||
		!reflect.DeepEqual(head.Notes, notes(tapAt(0), game.Note{Column: 1, Type: game.Hold})) {
		t.Log(head)
		t.Fail()
	}
	tail := chart.Measures[1][0]
	if tail.Position.Cmp(big.NewRat(1, 8)) != 0 || tail.Notes[0] != (game.Note{Column: 1, Type: game.HoldEnd}) {
		t.Log(tail)
		t.Fail()
	}
}

func TestDWIErrors(t *testing.T) {
	bad := map[string]string{
		"step":   "#SINGLE:BASIC:1:0000Z000;",
		"group":  "#SINGLE:BASIC:1:(0000;",
		"chord":  "#SINGLE:BASIC:1:<42;",
		"fields": "#SINGLE:BASIC;",
		"change": "#CHANGEBPM:x=120;",
		"gap":    "#GAP:soon;",
	}
	p := DWIParser{}
	for name, s := range bad {
		if _, err := p.Parse(strings.NewReader(s)); !errors.Is(err, ErrSyntax) {
			t.Log(name, err)
			t.Fail()
		}
	}
}

func TestForFile(t *testing.T) {
	if _, ok := ForFile("a/b.SM").(*DefaultParser); !ok {
		t.Fail()
	}
	if _, ok := ForFile("song.dwi").(*DWIParser); !ok {
		t.Fail()
	}
	if nil != ForFile("song.ogg") {
		t.Fail()
	}
}
