package game

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

type JudgementKind uint8

const (
	KindHit JudgementKind = iota
	KindMiss
	KindHold
	KindMine
)

// Judgement is the outcome of one judged note.
// Offset is only meaningful for hits, OK only for holds and mines.
type Judgement struct {
	Kind   JudgementKind
	Offset int64 // Note time minus press time, positive is early
	OK     bool  // Hold: sustained to the end. Mine: stepped on.
}

func Hit(offset int64) Judgement { return Judgement{Kind: KindHit, Offset: offset} }

func Miss() Judgement { return Judgement{Kind: KindMiss} }

func HoldResult(ok bool) Judgement { return Judgement{Kind: KindHold, OK: ok} }

func MineResult(hit bool) Judgement { return Judgement{Kind: KindMine, OK: hit} }

const (
	MissPoints     = -8.0
	HoldFailPoints = -6.0
	MinePoints     = -8.0
	MaxHitPoints   = 2.0
)

// Wife maps a timing error in ms to points in (-8, 2] for the judge scale ts.
func Wife(offset float64, ts float64) float64 {
	deviation := 95.0 * ts
	y := 1 - math.Pow(2, -offset*offset/(deviation*deviation))
	y *= y
	return 10*(1-y) - 8
}

func (j Judgement) Wife(ts float64) float64 {
	switch j.Kind {
	case KindHit:
		return Wife(float64(j.Offset), ts)
	case KindMiss:
		return MissPoints
	case KindHold:
		if j.OK {
			return 0
		}
		return HoldFailPoints
	case KindMine:
		if j.OK {
			return MinePoints
		}
		return 0
	}
	return 0
}

// Holds and mines only ever take points away.
func (j Judgement) MaxPoints() float64 {
	switch j.Kind {
	case KindHit, KindMiss:
		return MaxHitPoints
	}
	return 0
}

func (j Judgement) String() string {
	switch j.Kind {
	case KindHit:
		return fmt.Sprintf("Hit(%d)", j.Offset)
	case KindMiss:
		return "Miss"
	case KindHold:
		return fmt.Sprintf("Hold(%v)", j.OK)
	case KindMine:
		return fmt.Sprintf("Mine(%v)", j.OK)
	}
	return "Unknown"
}

// Stored as "h<offset>", "x", "H1"/"H0", "M1"/"M0" to keep histories small.
func (j Judgement) MarshalJSON() ([]byte, error) {
	var s string
	switch j.Kind {
	case KindHit:
		s = fmt.Sprintf("h%d", j.Offset)
	case KindMiss:
		s = "x"
	case KindHold:
		s = "H" + boolDigit(j.OK)
	case KindMine:
		s = "M" + boolDigit(j.OK)
	default:
		return nil, errors.Errorf("unknown judgement kind %d", j.Kind)
	}
	return json.Marshal(s)
}

func (j *Judgement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); nil != err {
		return err
	}
	if s == "" {
		return errors.New("empty judgement")
	}
	switch s[0] {
	case 'h':
		var offset int64
		if _, err := fmt.Sscanf(s[1:], "%d", &offset); nil != err {
			return errors.Wrapf(err, "invalid hit %q", s)
		}
		*j = Hit(offset)
	case 'x':
		*j = Miss()
	case 'H':
		*j = HoldResult(s[1:] == "1")
	case 'M':
		*j = MineResult(s[1:] == "1")
	default:
		return errors.Errorf("invalid judgement %q", s)
	}
	return nil
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
