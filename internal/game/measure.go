package game

import "math/big"

type Measure []Row

// Position is a symbolic chart position, independent of tempo.
type Position struct {
	Measure  int
	Fraction *big.Rat
}

func NewPosition(measure int, fraction *big.Rat) Position {
	if fraction == nil {
		fraction = new(big.Rat)
	}
	return Position{Measure: measure, Fraction: fraction}
}

// Compare orders positions by measure, then by fraction.
func (p Position) Compare(o Position) int {
	switch {
	case p.Measure < o.Measure:
		return -1
	case p.Measure > o.Measure:
		return 1
	}
	return p.Fraction.Cmp(o.Fraction)
}

// Sub returns p - o in measures, computed exactly.
func (p Position) Sub(o Position) *big.Rat {
	d := new(big.Rat).SetInt64(int64(p.Measure - o.Measure))
	d.Add(d, p.Fraction)
	return d.Sub(d, o.Fraction)
}

// PositionFromBeat splits a beat count into a measure index and fraction,
// four beats per measure.
func PositionFromBeat(beat *big.Rat) Position {
	m := new(big.Rat).Quo(beat, big.NewRat(4, 1))
	// Euclidean division floors for the always positive denominator
	whole := new(big.Int).Div(m.Num(), m.Denom())
	frac := new(big.Rat).Sub(m, new(big.Rat).SetInt(whole))
	return Position{Measure: int(whole.Int64()), Fraction: frac}
}
