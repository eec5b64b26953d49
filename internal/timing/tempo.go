package timing

import (
	"math"

	"git.lost.host/meutraa/notefield/internal/game"
	"github.com/pkg/errors"
)

const msPerMeasureMinute = 240000.0 // 4 beats * 60000 ms

var (
	ErrInvalidRate    = errors.New("invalid rate")
	ErrMalformedChart = errors.New("malformed chart")
)

// Segment is a span of the chart sharing one tempo.
type Segment struct {
	Position game.Position
	BPM      float64
	Start    float64 // ms at Position, at rate 1.0
}

// TempoMap is immutable once built.
type TempoMap struct {
	Segments []Segment
}

// NewTempoMap derives segment start times from the tempo changes.
// The offset, in seconds, is where the first segment starts.
func NewTempoMap(bpms []game.BPM, offset float64) (*TempoMap, error) {
	tm := &TempoMap{Segments: make([]Segment, 0, len(bpms))}
	for i, b := range bpms {
		if !(b.Value > 0) || math.IsInf(b.Value, 0) {
			return nil, errors.Wrapf(ErrMalformedChart, "bpm %v at measure %d", b.Value, b.Measure)
		}
		seg := Segment{Position: b.Position(), BPM: b.Value, Start: offset * 1000}
		if i > 0 {
			prev := tm.Segments[i-1]
			if seg.Position.Compare(prev.Position) <= 0 {
				return nil, errors.Wrapf(ErrMalformedChart, "bpm change %d is not after the previous one", i)
			}
			delta, _ := seg.Position.Sub(prev.Position).Float64()
			seg.Start = prev.Start + msPerMeasureMinute*delta/prev.BPM
		}
		tm.Segments = append(tm.Segments, seg)
	}
	return tm, nil
}

func (tm *TempoMap) Len() int {
	return len(tm.Segments)
}

// Lookup returns the last segment at or before pos.
// Positions before the first change use the first segment.
func (tm *TempoMap) Lookup(pos game.Position) *Segment {
	if len(tm.Segments) == 0 {
		return nil
	}
	lo, hi := 0, len(tm.Segments)
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if tm.Segments[mid].Position.Compare(pos) <= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return &tm.Segments[lo]
}

// Time is the unscaled ms of pos measured from seg.
func (s *Segment) Time(pos game.Position) float64 {
	delta, _ := pos.Sub(s.Position).Float64()
	return s.Start + msPerMeasureMinute*delta/s.BPM
}
