package timing

import (
	"math/big"

	"git.lost.host/meutraa/notefield/internal/game"
)

// Entry is one note on the absolute timeline.
type Entry[P any] struct {
	Time int64 // ms, already divided by the playback rate
	Type game.NoteType
	Info P
}

// TimingColumn is ordered by time, ties keep chart order.
type TimingColumn[P any] struct {
	Notes []Entry[P]
}

func (c *TimingColumn[P]) Add(e Entry[P]) {
	c.Notes = append(c.Notes, e)
}

func (c *TimingColumn[P]) Len() int {
	return len(c.Notes)
}

func (c *TimingColumn[P]) Get(i int) (Entry[P], bool) {
	if i < 0 || i >= len(c.Notes) {
		return Entry[P]{}, false
	}
	return c.Notes[i], true
}

// Timeline has one column per playable key.
type Timeline[P any] []*TimingColumn[P]

func NewTimeline[P any](columns int) Timeline[P] {
	tl := make(Timeline[P], columns)
	for i := range tl {
		tl[i] = &TimingColumn[P]{}
	}
	return tl
}

// End is the latest time of any entry, false for an empty timeline.
func (tl Timeline[P]) End() (int64, bool) {
	var end int64
	found := false
	for _, c := range tl {
		if n := c.Len(); n > 0 && (!found || c.Notes[n-1].Time > end) {
			end = c.Notes[n-1].Time
			found = true
		}
	}
	return end, found
}

func (tl Timeline[P]) Count() int {
	total := 0
	for _, c := range tl {
		total += c.Len()
	}
	return total
}

// Placement describes where a note lands, handed to payload builders.
type Placement struct {
	Position game.Position
	Denom    int
	Note     game.Note
	Time     int64
}

// Denom is the row's subdivision of a beat, 1 for quarters, 2 for eighths.
func Denom(fraction *big.Rat) int {
	d := new(big.Rat).Mul(fraction, big.NewRat(4, 1)).Denom()
	if !d.IsInt64() {
		return -1
	}
	return int(d.Int64())
}

type Rect struct {
	X, Y, W, H float64
}

// Sprite is the render payload: where in the arrow sheet to draw from.
type Sprite struct {
	Denom int
	Rect  Rect
}

// Bare is the payload when time and type are all a consumer needs.
type Bare struct{}

var sheetRows = map[int]float64{1: 0, 2: 1, 3: 2, 4: 3, 6: 4, 8: 5, 12: 6}

func SpriteFinder(p Placement) Sprite {
	switch p.Note.Type {
	case game.Tap, game.Hold, game.Roll:
		row, ok := sheetRows[p.Denom]
		if !ok {
			row = 7
		}
		return Sprite{Denom: p.Denom, Rect: Rect{0, row * 0.125, 1, 0.125}}
	}
	return Sprite{Denom: p.Denom, Rect: Rect{0, 0, 1, 1}}
}

func NoPayload(Placement) Bare {
	return Bare{}
}
