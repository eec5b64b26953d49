package notefield

import (
	"math"

	"git.lost.host/meutraa/notefield/internal/game"
	"git.lost.host/meutraa/notefield/internal/timing"
)

// Window names a band of absolute hit offsets for the stats panel.
type Window struct {
	Name string
	Ms   int64
}

// The last entry counts misses.
var Windows = []Window{
	{Name: "Exact", Ms: 5},
	{Name: "Ridiculous", Ms: 10},
	{Name: "Marvelous", Ms: 20},
	{Name: "Great", Ms: 40},
	{Name: "Good", Ms: 60},
	{Name: "Okay", Ms: MissWindow},
	{Name: "Miss", Ms: -1},
}

// WindowIndex returns the index into Windows for a judgement.
// Holds and mines are not counted.
func WindowIndex(j game.Judgement) int {
	switch j.Kind {
	case game.KindMiss:
		return len(Windows) - 1
	case game.KindHit:
		d := j.Offset
		if d < 0 {
			d = -d
		}
		for i := 0; i < len(Windows)-1; i++ {
			if d < Windows[i].Ms {
				return i
			}
		}
		return len(Windows) - 2
	}
	return -1
}

type Stats struct {
	Counts      []int
	Hits        int
	Error       int64 // Sum of absolute offsets
	Mean, Stdev float64
	HoldsOK     int
	HoldsNG     int
	MinesHit    int
}

// Notefield is one play session over a timeline.
// It is driven from a single goroutine, Tick before Key in each frame.
type Notefield[P any] struct {
	columns  []*Column[P]
	ts       float64
	last     game.Judgement
	hasLast  bool
	finished bool
	onFinish func()
}

// New starts a session. ts is the judge scale passed to the wife curve.
func New[P any](timeline timing.Timeline[P], ts float64) *Notefield[P] {
	nf := &Notefield[P]{columns: make([]*Column[P], len(timeline)), ts: ts}
	for i, c := range timeline {
		nf.columns[i] = NewColumn(c)
	}
	return nf
}

func (nf *Notefield[P]) Columns() []*Column[P] {
	return nf.columns
}

// OnFinish registers f to be called once when every column is finished.
func (nf *Notefield[P]) OnFinish(f func()) {
	nf.onFinish = f
}

// Tick advances every column to now and reports whether anything was missed.
func (nf *Notefield[P]) Tick(now int64) bool {
	missed := false
	for _, c := range nf.columns {
		if c.AdvanceTime(now) {
			missed = true
		}
	}
	if missed {
		nf.last, nf.hasLast = game.Miss(), true
	}
	nf.checkFinish()
	return missed
}

// Key applies a press or release. Unknown columns are ignored.
func (nf *Notefield[P]) Key(column int, now int64, pressed bool) (game.Judgement, bool) {
	if column < 0 || column >= len(nf.columns) {
		return game.Judgement{}, false
	}
	j, ok := nf.columns[column].HandleKey(now, pressed)
	if ok && (j.Kind == game.KindHit || j.Kind == game.KindMiss) {
		nf.last, nf.hasLast = j, true
	}
	nf.checkFinish()
	return j, ok
}

func (nf *Notefield[P]) checkFinish() {
	if nf.finished || !nf.Finished() {
		return
	}
	nf.finished = true
	if nil != nf.onFinish {
		nf.onFinish()
	}
}

// LastJudgement is the most recent hit or miss, for display.
func (nf *Notefield[P]) LastJudgement() (game.Judgement, bool) {
	return nf.last, nf.hasLast
}

func (nf *Notefield[P]) Finished() bool {
	for _, c := range nf.columns {
		if !c.Finished() {
			return false
		}
	}
	return true
}

// Score is the percentage of attainable points earned so far, 0 before any judgement.
func (nf *Notefield[P]) Score() float64 {
	return Score(nf.History(), nf.ts)
}

// History is the judgement list of every column.
func (nf *Notefield[P]) History() [][]game.Judgement {
	out := make([][]game.Judgement, len(nf.columns))
	for i, c := range nf.columns {
		out[i] = c.Judgements()
	}
	return out
}

// Score computes the percentage for any judgement history.
func Score(history [][]game.Judgement, ts float64) float64 {
	points, attainable := 0.0, 0.0
	for _, column := range history {
		for _, j := range column {
			points += j.Wife(ts)
			attainable += j.MaxPoints()
		}
	}
	if attainable == 0 {
		return 0
	}
	return points / attainable * 100
}

func (nf *Notefield[P]) Stats() Stats {
	return Summarize(nf.History())
}

func Summarize(history [][]game.Judgement) Stats {
	s := Stats{Counts: make([]int, len(Windows))}
	var sum float64
	for _, column := range history {
		for _, j := range column {
			if i := WindowIndex(j); i >= 0 {
				s.Counts[i]++
			}
			switch j.Kind {
			case game.KindHit:
				s.Hits++
				sum += float64(j.Offset)
				if j.Offset < 0 {
					s.Error -= j.Offset
				} else {
					s.Error += j.Offset
				}
			case game.KindHold:
				if j.OK {
					s.HoldsOK++
				} else {
					s.HoldsNG++
				}
			case game.KindMine:
				if j.OK {
					s.MinesHit++
				}
			}
		}
	}
	if s.Hits > 1 {
		s.Mean = sum / float64(s.Hits)
		for _, column := range history {
			for _, j := range column {
				if j.Kind != game.KindHit {
					continue
				}
				xi := float64(j.Offset) - s.Mean
				s.Stdev += xi * xi
			}
		}
		s.Stdev = math.Sqrt(s.Stdev / float64(s.Hits-1))
	} else if s.Hits == 1 {
		s.Mean = sum
	}
	return s
}
