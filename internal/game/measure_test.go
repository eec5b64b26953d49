package game

import (
	"math/big"
	"testing"
)

var beatTests = map[string]Position{
	"0":     {0, big.NewRat(0, 1)},
	"4":     {1, big.NewRat(0, 1)},
	"6":     {1, big.NewRat(1, 2)},
	"12.5":  {3, big.NewRat(1, 8)},
	"-1":    {-1, big.NewRat(3, 4)},
	"0.333": {0, big.NewRat(333, 4000)},
}

func TestPositionFromBeat(t *testing.T) {
	for beat, expected := range beatTests {
		r, ok := new(big.Rat).SetString(beat)
		if !ok {
			t.Fatal("bad beat", beat)
		}
		p := PositionFromBeat(r)
		if p.Compare(expected) != 0 {
			t.Log("beat", beat, "got", p.Measure, p.Fraction, "expected", expected.Measure, expected.Fraction)
			t.Fail()
		}
	}
}

func TestPositionCompare(t *testing.T) {
	a := NewPosition(1, big.NewRat(3, 4))
	b := NewPosition(2, nil)
	c := NewPosition(2, big.NewRat(1, 192))
	if a.Compare(b) != -1 || b.Compare(c) != -1 || c.Compare(a) != 1 || b.Compare(b) != 0 {
		t.Fail()
	}
	if d := c.Sub(a); d.Cmp(big.NewRat(1+48, 192)) != 0 {
		t.Log("sub", d)
		t.Fail()
	}
}
