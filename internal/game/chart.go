package game

import "math/big"

type Chart struct {
	Difficulty Difficulty
	Measures   []Measure
}

// BPM is a tempo change at a symbolic position.
type BPM struct {
	Measure  int
	Fraction *big.Rat
	Value    float64
}

func (b BPM) Position() Position {
	return NewPosition(b.Measure, b.Fraction)
}

// Song is everything the chart parser hands over.
type Song struct {
	Title  string
	Artist string
	Music  string
	Offset float64 // Seconds, already negated from the file
	BPMs   []BPM
	Charts []*Chart
}

func (c *Chart) NoteCount() (notes, holds, mines int) {
	for _, m := range c.Measures {
		for _, r := range m {
			for _, n := range r.Notes {
				switch n.Type {
				case Tap, Hold, Roll:
					notes++
					if n.Type.Head() {
						holds++
					}
				case Mine:
					mines++
				}
			}
		}
	}
	return
}
