package parser

import (
	"io"
	"log"
	"math/big"
	"os"
	"sort"
	"strconv"
	"strings"

	"git.lost.host/meutraa/notefield/internal/game"
	"github.com/pkg/errors"
)

// DWIParser reads Dance With Intensity files. Only single (4 key) charts
// are read.
type DWIParser struct{}

// Arrow characters and the columns they press
var dwiColumns = map[byte][]int{
	'0': nil, '5': nil,
	'4': {0}, '2': {1}, '8': {2}, '6': {3},
	'1': {0, 1}, '7': {0, 2}, 'B': {0, 3}, 'A': {1, 2}, '3': {1, 3}, '9': {2, 3},
}

// Brackets switch a measure from eighths to finer rows
var dwiGroups = map[byte]struct {
	closer byte
	rows   int64
}{
	'(': {')', 16},
	'[': {']', 24},
	'{': {'}', 64},
	'`': {'\'', 192},
}

func (p *DWIParser) ParseFile(file string) (*game.Song, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	song, err := p.Parse(f)
	if nil != err {
		return nil, errors.Wrap(err, file)
	}
	return song, nil
}

func (p *DWIParser) Parse(r io.Reader) (*game.Song, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, err
	}

	str := stripComments(strings.ReplaceAll(string(data), "\r", ""))
	song := &game.Song{}
	for _, tag := range tags(str) {
		value := strings.TrimSpace(tag[1])
		if value == "" {
			continue
		}
		switch tag[0] {
		case "TITLE":
			song.Title = value
		case "ARTIST":
			song.Artist = value
		case "FILE":
			song.Music = value
		case "GAP":
			gap, err := strconv.ParseFloat(value, 64)
			if nil != err {
				return nil, errors.Wrap(ErrSyntax, "gap "+value)
			}
			song.Offset = gap / 1000
		case "BPM":
			bpm, err := strconv.ParseFloat(value, 64)
			if nil != err {
				return nil, errors.Wrap(ErrSyntax, "bpm "+value)
			}
			first := game.BPM{Fraction: new(big.Rat), Value: bpm}
			if len(song.BPMs) > 0 {
				song.BPMs[0] = first
			} else {
				song.BPMs = []game.BPM{first}
			}
		case "CHANGEBPM", "BPMCHANGE":
			if len(song.BPMs) == 0 {
				song.BPMs = []game.BPM{{Fraction: new(big.Rat), Value: 120}}
			}
			changes, err := parseDWIChanges(value)
			if nil != err {
				return nil, err
			}
			song.BPMs = append(song.BPMs, changes...)
		case "FREEZE":
			log.Printf("%s: freezes are ignored\n", song.Title)
		case "SINGLE":
			chart, err := parseDWIChart(value)
			if nil != err {
				return nil, err
			}
			song.Charts = append(song.Charts, chart)
		}
	}
	return song, nil
}

// Changes are placed in sixteenth notes.
func parseDWIChanges(value string) ([]game.BPM, error) {
	bpms := []game.BPM{}
	for _, pair := range strings.Split(strings.ReplaceAll(value, "\n", ""), ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		as := strings.Split(pair, "=")
		if len(as) != 2 {
			return nil, errors.Wrapf(ErrSyntax, "bpm change %q", pair)
		}
		sixteenth, ok := new(big.Rat).SetString(strings.TrimSpace(as[0]))
		if !ok {
			return nil, errors.Wrapf(ErrSyntax, "bpm change position %q", as[0])
		}
		bpm, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
		if nil != err {
			return nil, errors.Wrapf(ErrSyntax, "bpm change value %q", as[1])
		}
		pos := game.PositionFromBeat(sixteenth.Quo(sixteenth, big.NewRat(4, 1)))
		bpms = append(bpms, game.BPM{Measure: pos.Measure, Fraction: pos.Fraction, Value: bpm})
	}
	return bpms, nil
}

// parseDWIChart reads difficulty:meter:steps.
func parseDWIChart(section string) (*game.Chart, error) {
	fields := strings.SplitN(section, ":", 3)
	if len(fields) != 3 {
		return nil, errors.Wrapf(ErrSyntax, "single chart has %d fields", len(fields))
	}
	chart := &game.Chart{Difficulty: game.Difficulty{
		Type:  "dance-single",
		Name:  strings.TrimSpace(fields[0]),
		Meter: strings.TrimSpace(fields[1]),
		NKeys: 4,
	}}
	r := &dwiReader{s: strings.Join(strings.Fields(fields[2]), "")}
	for r.i < len(r.s) {
		measure, err := r.measure()
		if nil != err {
			return nil, errors.Wrapf(err, "%s measure %d", chart.Difficulty.Name, len(chart.Measures))
		}
		chart.Measures = append(chart.Measures, measure)
	}
	markHoldEnds(chart)
	return chart, nil
}

// The next press in a held column releases the hold.
func markHoldEnds(chart *game.Chart) {
	var active [4]bool
	for _, measure := range chart.Measures {
		for _, row := range measure {
			for i, n := range row.Notes {
				if active[n.Column] {
					if n.Type == game.Tap {
						row.Notes[i].Type = game.HoldEnd
						active[n.Column] = false
					}
				} else if n.Type == game.Hold {
					active[n.Column] = true
				}
			}
		}
	}
}

type dwiReader struct {
	s string
	i int
}

// A bracketed measure must be complete; a trailing eighth measure may be
// cut short.
func (r *dwiReader) measure() (game.Measure, error) {
	rows, closer := int64(8), byte(0)
	if g, ok := dwiGroups[r.s[r.i]]; ok {
		rows, closer = g.rows, g.closer
		r.i++
	}
	measure := game.Measure{}
	for idx := int64(0); idx < rows; idx++ {
		if r.i >= len(r.s) {
			if closer != 0 {
				return nil, errors.Wrapf(ErrSyntax, "missing %q", closer)
			}
			break
		}
		notes, err := r.row()
		if nil != err {
			return nil, err
		}
		if len(notes) > 0 {
			measure = append(measure, game.Row{Position: big.NewRat(idx, rows), Notes: notes})
		}
	}
	if closer != 0 {
		if r.i >= len(r.s) || r.s[r.i] != closer {
			return nil, errors.Wrapf(ErrSyntax, "missing %q", closer)
		}
		r.i++
	}
	return measure, nil
}

func (r *dwiReader) row() ([]game.Note, error) {
	if r.s[r.i] != '<' {
		return r.step()
	}
	r.i++
	notes := []game.Note{}
	for r.i < len(r.s) && r.s[r.i] != '>' {
		step, err := r.step()
		if nil != err {
			return nil, err
		}
		notes = append(notes, step...)
	}
	if r.i >= len(r.s) {
		return nil, errors.Wrap(ErrSyntax, "unterminated chord")
	}
	r.i++

	sort.SliceStable(notes, func(a, b int) bool { return notes[a].Column < notes[b].Column })
	out := notes[:0]
	for _, n := range notes {
		if len(out) == 0 || out[len(out)-1].Column != n.Column {
			out = append(out, n)
		}
	}
	return out, nil
}

// step reads one arrow character, with an optional "!" and the arrows of
// it that are held.
func (r *dwiReader) step() ([]game.Note, error) {
	columns, ok := dwiColumns[r.s[r.i]]
	if !ok {
		return nil, errors.Wrapf(ErrSyntax, "step %q", r.s[r.i])
	}
	r.i++
	notes := make([]game.Note, len(columns))
	for i, c := range columns {
		notes[i] = game.Note{Column: c, Type: game.Tap}
	}
	if r.i < len(r.s) && r.s[r.i] == '!' {
		if r.i+1 >= len(r.s) {
			return nil, errors.Wrap(ErrSyntax, "hold without arrows")
		}
		held, ok := dwiColumns[r.s[r.i+1]]
		if !ok {
			return nil, errors.Wrapf(ErrSyntax, "hold %q", r.s[r.i+1])
		}
		r.i += 2
		for _, c := range held {
			for i := range notes {
				if notes[i].Column == c {
					notes[i].Type = game.Hold
				}
			}
		}
	}
	return notes, nil
}
