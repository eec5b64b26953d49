package notefield

import (
	"git.lost.host/meutraa/notefield/internal/game"
	"git.lost.host/meutraa/notefield/internal/timing"
)

// MissWindow is how far, in ms, a note can be from the press and still be hit.
const MissWindow = 180

// Column is the runtime state of one key for one play session.
// The timing column is shared and never written to.
type Column[P any] struct {
	notes      *timing.TimingColumn[P]
	next       int
	holdEnd    int64
	holding    bool
	judgements []game.Judgement
}

func NewColumn[P any](notes *timing.TimingColumn[P]) *Column[P] {
	c := &Column[P]{notes: notes}
	c.skipUnjudged()
	return c
}

func (c *Column[P]) Next() int {
	return c.next
}

func (c *Column[P]) ActiveHold() (int64, bool) {
	return c.holdEnd, c.holding
}

func (c *Column[P]) Judgements() []game.Judgement {
	return c.judgements
}

func (c *Column[P]) Notes() *timing.TimingColumn[P] {
	return c.notes
}

// Finished is true once every note is judged and no hold is being sustained.
func (c *Column[P]) Finished() bool {
	return c.next >= c.notes.Len() && !c.holding
}

func (c *Column[P]) add(j game.Judgement) {
	c.judgements = append(c.judgements, j)
}

// Tails, lifts and fakes are never judged.
func (c *Column[P]) skipUnjudged() {
	for c.next < c.notes.Len() && !c.notes.Notes[c.next].Type.Hittable() {
		c.next++
	}
}

// step moves past the note under the cursor, and past its tail for holds.
func (c *Column[P]) step() {
	if c.notes.Notes[c.next].Type.Head() {
		c.next++
	}
	c.next++
	c.skipUnjudged()
}

// settleHold is the only place a hold is judged complete.
func (c *Column[P]) settleHold(now int64) {
	if c.holding && now >= c.holdEnd {
		c.add(game.HoldResult(true))
		c.holding = false
	}
}

// AdvanceTime judges every note that scrolled out of the window without a press.
// It reports whether any of them was a miss.
func (c *Column[P]) AdvanceTime(now int64) bool {
	c.settleHold(now)
	missed := false
	for c.next < c.notes.Len() {
		e := c.notes.Notes[c.next]
		if e.Time-now >= -MissWindow {
			break
		}
		switch e.Type {
		case game.Tap:
			c.add(game.Miss())
			missed = true
		case game.Hold, game.Roll:
			c.add(game.Miss())
			c.add(game.HoldResult(false))
			missed = true
		case game.Mine:
			c.add(game.MineResult(false))
		}
		c.step()
	}
	return missed
}

// HandleKey applies a press or release at now. It returns the judgement it
// produced, if any. A press with no note in the window does nothing.
func (c *Column[P]) HandleKey(now int64, pressed bool) (game.Judgement, bool) {
	before := len(c.judgements)
	c.AdvanceTime(now)
	if !pressed {
		if c.holding {
			c.holding = false
			c.add(game.HoldResult(false))
		}
		if len(c.judgements) > before {
			return c.judgements[len(c.judgements)-1], true
		}
		return game.Judgement{}, false
	}

	if c.next >= c.notes.Len() {
		return game.Judgement{}, false
	}
	e := c.notes.Notes[c.next]
	offset := e.Time - now
	if offset <= -MissWindow || offset >= MissWindow {
		return game.Judgement{}, false
	}

	var j game.Judgement
	switch e.Type {
	case game.Mine:
		j = game.MineResult(true)
	case game.Hold, game.Roll:
		j = game.Hit(offset)
		c.holdEnd = c.notes.Notes[c.next+1].Time
		c.holding = true
	default:
		j = game.Hit(offset)
	}
	c.add(j)
	c.step()
	return j, true
}

func (c *Column[P]) Points(ts float64) float64 {
	total := 0.0
	for _, j := range c.judgements {
		total += j.Wife(ts)
	}
	return total
}

func (c *Column[P]) MaxPoints() float64 {
	total := 0.0
	for _, j := range c.judgements {
		total += j.MaxPoints()
	}
	return total
}
