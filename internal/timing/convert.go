package timing

import (
	"math"
	"math/big"

	"git.lost.host/meutraa/notefield/internal/game"
	"github.com/pkg/errors"
)

var one = big.NewRat(1, 1)

// Convert places every note of the chart on an absolute timeline.
// Rows and tempo segments are both sorted, so the tempo cursor only moves forward.
func Convert[P any](chart *game.Chart, tempo *TempoMap, rate float64, build func(Placement) P) (Timeline[P], error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return nil, errors.Wrapf(ErrInvalidRate, "%v", rate)
	}
	out := NewTimeline[P](chart.Difficulty.NKeys)
	if tempo == nil || tempo.Len() == 0 {
		return out, nil
	}

	cursor := 0
	var last *game.Position
	for mi, measure := range chart.Measures {
		for _, row := range measure {
			pos := game.NewPosition(mi, row.Position)
			if pos.Fraction.Sign() < 0 || pos.Fraction.Cmp(one) >= 0 {
				return nil, errors.Wrapf(ErrMalformedChart, "row at %v is outside measure %d", pos.Fraction, mi)
			}
			if nil != last && pos.Compare(*last) <= 0 {
				return nil, errors.Wrapf(ErrMalformedChart, "rows out of order in measure %d", mi)
			}
			last = &pos

			for cursor+1 < tempo.Len() && tempo.Segments[cursor+1].Position.Compare(pos) <= 0 {
				cursor++
			}
			seg := &tempo.Segments[cursor]
			// truncated toward zero
			ms := int64(seg.Time(pos) / rate)
			denom := Denom(pos.Fraction)

			for _, note := range row.Notes {
				if note.Column < 0 || note.Column >= len(out) {
					return nil, errors.Wrapf(ErrMalformedChart, "column %d in measure %d", note.Column, mi)
				}
				out[note.Column].Add(Entry[P]{
					Time: ms,
					Type: note.Type,
					Info: build(Placement{Position: pos, Denom: denom, Note: note, Time: ms}),
				})
			}
		}
	}

	for i, c := range out {
		if err := validate(c); nil != err {
			return nil, errors.Wrapf(err, "column %d", i)
		}
	}
	return out, nil
}

// Each hold or roll head must be directly followed by its tail.
func validate[P any](c *TimingColumn[P]) error {
	for i, e := range c.Notes {
		if !e.Type.Head() {
			continue
		}
		if i+1 >= len(c.Notes) || c.Notes[i+1].Type != game.HoldEnd {
			return errors.Wrapf(ErrMalformedChart, "%v at %d ms has no end", e.Type, e.Time)
		}
	}
	return nil
}

// ConvertSong converts each chart of a song independently. A chart that
// fails keeps a nil timeline and its error at the same index.
func ConvertSong[P any](song *game.Song, rate float64, build func(Placement) P) ([]Timeline[P], []error) {
	timelines := make([]Timeline[P], len(song.Charts))
	errs := make([]error, len(song.Charts))
	tempo, err := NewTempoMap(song.BPMs, song.Offset)
	for i, chart := range song.Charts {
		if nil == err {
			timelines[i], errs[i] = Convert(chart, tempo, rate, build)
		} else {
			errs[i] = err
		}
		if nil != errs[i] {
			errs[i] = errors.Wrapf(errs[i], "chart %s", chart.Difficulty.Name)
		}
	}
	return timelines, errs
}
