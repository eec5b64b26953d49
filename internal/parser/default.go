package parser

import (
	"io"
	"log"
	"math/big"
	"os"
	"strconv"
	"strings"

	"git.lost.host/meutraa/notefield/internal/game"
	"github.com/pkg/errors"
)

var ErrSyntax = errors.New("syntax error")

type DefaultParser struct{}

func (p *DefaultParser) ParseFile(file string) (*game.Song, error) {
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

func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if idx := strings.Index(l, "//"); idx >= 0 {
			lines[i] = l[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

// tags splits "#KEY:value;" pairs, keys upper cased.
func tags(s string) [][2]string {
	out := [][2]string{}
	for {
		start := strings.IndexByte(s, '#')
		if start < 0 {
			return out
		}
		s = s[start+1:]
		colon := strings.IndexByte(s, ':')
		if colon < 0 {
			return out
		}
		key := strings.ToUpper(strings.TrimSpace(s[:colon]))
		s = s[colon+1:]
		end := strings.IndexByte(s, ';')
		if end < 0 {
			end = len(s)
		}
		out = append(out, [2]string{key, s[:end]})
		if end == len(s) {
			return out
		}
		s = s[end+1:]
	}
}

func (p *DefaultParser) Parse(r io.Reader) (*game.Song, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, err
	}

	str := stripComments(strings.ReplaceAll(string(data), "\r", ""))
	song := &game.Song{}
	for _, tag := range tags(str) {
		value := strings.TrimSpace(tag[1])
		switch tag[0] {
		case "TITLE":
			song.Title = value
		case "ARTIST":
			song.Artist = value
		case "MUSIC":
			song.Music = value
		case "OFFSET":
			if value == "" {
				continue
			}
			offs, err := strconv.ParseFloat(value, 64)
			if nil != err {
				return nil, errors.Wrap(ErrSyntax, "offset "+value)
			}
			song.Offset = -offs
		case "BPMS":
			song.BPMs, err = p.parseBPMs(value)
			if nil != err {
				return nil, err
			}
		case "STOPS":
			if strings.ContainsRune(value, '=') {
				log.Printf("%s: stops are ignored\n", song.Title)
			}
		case "NOTES":
			chart, err := p.parseChart(tag[1])
			if nil != err {
				return nil, err
			}
			if nil != chart {
				song.Charts = append(song.Charts, chart)
			}
		}
	}
	return song, nil
}

func (p *DefaultParser) parseBPMs(value string) ([]game.BPM, error) {
	bpms := []game.BPM{}
	value = strings.ReplaceAll(value, "\n", "")
	for _, pair := range strings.Split(value, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		as := strings.Split(pair, "=")
		if len(as) != 2 {
			return nil, errors.Wrapf(ErrSyntax, "bpm %q", pair)
		}
		beat, ok := new(big.Rat).SetString(strings.TrimSpace(as[0]))
		if !ok {
			return nil, errors.Wrapf(ErrSyntax, "bpm beat %q", as[0])
		}
		bpm, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
		if nil != err {
			return nil, errors.Wrapf(ErrSyntax, "bpm value %q", as[1])
		}
		pos := game.PositionFromBeat(beat)
		bpms = append(bpms, game.BPM{
			Measure:  pos.Measure,
			Fraction: pos.Fraction,
			Value:    bpm,
		})
	}
	return bpms, nil
}

// parseChart reads type:description:difficulty:meter:radar:notes.
// Step types without a known key count are skipped with a nil chart.
func (p *DefaultParser) parseChart(section string) (*game.Chart, error) {
	fields := strings.SplitN(section, ":", 6)
	if len(fields) != 6 {
		return nil, errors.Wrapf(ErrSyntax, "notes section has %d fields", len(fields))
	}
	chartType := strings.TrimSpace(fields[0])
	nKeys, ok := game.NKeyMap[chartType]
	if !ok {
		return nil, nil
	}
	difficulty := game.Difficulty{
		Type:  chartType,
		Name:  strings.TrimSpace(fields[2]),
		Meter: strings.TrimSpace(fields[3]),
		NKeys: nKeys,
	}

	chart := &game.Chart{Difficulty: difficulty}
	for mi, block := range strings.Split(fields[5], ",") {
		lines := []string{}
		for _, l := range strings.Split(block, "\n") {
			l = strings.TrimSpace(l)
			if l != "" {
				lines = append(lines, l)
			}
		}

		lineCount := int64(len(lines))
		measure := game.Measure{}
		for i, line := range lines {
			if len(line) != nKeys {
				return nil, errors.Wrapf(ErrSyntax, "%s %s measure %d row %q", chartType, difficulty.Name, mi, line)
			}
			notes := []game.Note{}
			for col := 0; col < len(line); col++ {
				if t, ok := game.FromSM(line[col]); ok {
					notes = append(notes, game.Note{Column: col, Type: t})
				}
			}
			if len(notes) > 0 {
				measure = append(measure, game.Row{
					Position: big.NewRat(int64(i), lineCount),
					Notes:    notes,
				})
			}
		}
		chart.Measures = append(chart.Measures, measure)
	}
	return chart, nil
}
