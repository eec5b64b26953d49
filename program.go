package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/notefield/internal/audio"
	"git.lost.host/meutraa/notefield/internal/config"
	"git.lost.host/meutraa/notefield/internal/difficulty"
	"git.lost.host/meutraa/notefield/internal/game"
	"git.lost.host/meutraa/notefield/internal/input"
	"git.lost.host/meutraa/notefield/internal/notefield"
	"git.lost.host/meutraa/notefield/internal/parser"
	"git.lost.host/meutraa/notefield/internal/render"
	"git.lost.host/meutraa/notefield/internal/score"
	"git.lost.host/meutraa/notefield/internal/theme"
	"git.lost.host/meutraa/notefield/internal/timing"
	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
)

// How long the field stays up after the last judgement
const outro = 2 * time.Second

type cell struct {
	row, col int
}

type Program struct {
	Parser   parser.Parser
	Scorer   score.Scorer
	Theme    theme.Theme
	Renderer render.Renderer

	audioFile, chartFile string
	song                 *game.Song
	chart                *game.Chart
	field                *notefield.Notefield[timing.Sprite]
	track                *audio.Track
	input                input.Source

	columns []int // terminal column of each key
	pressed []bool
	drawn   []cell
	bar     int
	sideCol int

	quit       bool
	finished   bool
	cleared    bool
	finishedAt time.Duration
}

func (p *Program) Init() error {
	// Ensure our Default implementations are used as interfaces
	p.Theme = &theme.DefaultTheme{}
	p.Renderer = &render.DefaultRenderer{}

	if err := filepath.Walk(*config.Directory, func(path string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch strings.ToLower(filepath.Ext(info.Name())) {
		case ".ogg", ".mp3", ".wav":
			p.audioFile = path
		case ".sm":
			p.chartFile = path
		case ".dwi":
			// .sm wins when both are present
			if !strings.EqualFold(filepath.Ext(p.chartFile), ".sm") {
				p.chartFile = path
			}
		}
		return nil
	}); nil != err {
		return errors.Wrap(err, "unable to walk song directory")
	}
	if p.chartFile == "" {
		return errors.New("unable to find .sm or .dwi file in given directory")
	}
	p.Parser = parser.ForFile(p.chartFile)

	var err error
	p.song, err = p.Parser.ParseFile(p.chartFile)
	if nil != err {
		return err
	}
	if p.song.Music != "" {
		if music := filepath.Join(filepath.Dir(p.chartFile), p.song.Music); exists(music) {
			p.audioFile = music
		}
	}
	if p.audioFile == "" {
		return errors.New("unable to find .mp3/.ogg/.wav file in given directory")
	}

	if p.chart, err = p.selectChart(); nil != err {
		return err
	}

	tempo, err := timing.NewTempoMap(p.song.BPMs, p.song.Offset)
	if nil != err {
		return err
	}
	timeline, err := timing.Convert(p.chart, tempo, *config.Rate, timing.SpriteFinder)
	if nil != err {
		return err
	}
	p.field = notefield.New(timeline, *config.JudgeScale)
	p.field.OnFinish(func() { p.finished = true })

	scorer := &score.DefaultScorer{}
	if err := scorer.Init(*config.Database); nil != err {
		return err
	}
	p.Scorer = scorer

	if p.track, err = audio.Open(p.audioFile); nil != err {
		return err
	}

	column := func(r rune) int { return config.KeyColumn(r, p.chart.Difficulty.NKeys) }
	if *config.Device != "" {
		p.input, err = input.ReadDevice(*config.Device, column)
	} else {
		p.input, err = input.ReadKeyboard(column)
	}
	if nil != err {
		return errors.Wrap(err, "unable to open keyboard")
	}
	p.pressed = make([]bool, p.chart.Difficulty.NKeys)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return nil == err
}

// selectChart orders the charts easiest first and takes the configured one,
// asking when none was given.
func (p *Program) selectChart() (*game.Chart, error) {
	timelines, errs := timing.ConvertSong(p.song, 1.0, timing.NoPayload)
	ratings := make(map[*game.Chart]float64, len(p.song.Charts))
	var charts []*game.Chart
	for i, c := range p.song.Charts {
		if nil != errs[i] {
			log.Println("skipping", errs[i])
			continue
		}
		ratings[c] = difficulty.RateChart(timelines[i], *config.Proficiency)
		charts = append(charts, c)
	}
	sort.SliceStable(charts, func(a, b int) bool { return ratings[charts[a]] < ratings[charts[b]] })
	if len(charts) == 0 {
		return nil, errors.New("no playable charts")
	}

	index := *config.Chart
	if index < 0 {
		for i, c := range charts {
			notes, holds, mines := c.NoteCount()
			fmt.Printf("%2v) %6.2f  %5v %4v %4v  %v\n", i, ratings[c], notes, holds, mines, c.Difficulty.Name)
		}
		r, _, err := keyboard.GetSingleKey()
		if nil != err {
			return nil, errors.Wrap(err, "unable to read chart choice")
		}
		i, err := strconv.Atoi(string(r))
		if nil != err {
			return nil, errors.Errorf("%q is not a chart", r)
		}
		index = i
	}
	if index >= len(charts) {
		return nil, errors.Errorf("chart %v out of range", index)
	}
	return charts[index], nil
}

func (p *Program) Deinit() {
	if nil != p.input {
		if err := p.input.Close(); nil != err {
			log.Println("unable to close keyboard", err)
		}
	}
	if nil != p.track {
		p.track.Close()
	}
	if nil != p.Scorer {
		p.Scorer.Deinit()
	}
}

func (p *Program) Run() error {
	if err := p.Renderer.Init(); nil != err {
		return err
	}
	p.layout()

	if err := p.track.Play(*config.Rate, *config.Delay); nil != err {
		p.Renderer.Deinit()
		return err
	}

	songEnd := time.Duration(float64(p.track.Length()) / *config.Rate)
	p.Renderer.RenderLoop(*config.Delay, *config.FramePeriod, func(duration time.Duration) bool {
		finished := p.finished
		if finished && !p.cleared {
			// only the side panel stays up for the outro
			p.Renderer.Clear()
			p.drawn = p.drawn[:0]
			p.cleared = true
		}
		p.Update(duration)
		p.Render(duration)
		if !finished && p.finished {
			p.finishedAt = duration
		}
		return !p.quit && p.playing(duration, songEnd)
	})
	if err := p.Renderer.Deinit(); nil != err {
		log.Println("unable to restore terminal", err)
	}

	if !p.field.Finished() {
		return nil
	}
	history := &score.History{
		Rate:       *config.Rate,
		Judge:      *config.JudgeScale,
		Percent:    p.field.Score(),
		Played:     time.Now(),
		Judgements: p.field.History(),
	}
	if err := p.Scorer.Save(score.Hash(p.song, p.chart), history); nil != err {
		return err
	}
	stats := p.field.Stats()
	fmt.Printf("%v - %v  %.2f%%\n", p.song.Artist, p.song.Title, history.Percent)
	for i, w := range notefield.Windows {
		fmt.Printf("%12v  %5v\n", w.Name, stats.Counts[i])
	}
	return nil
}

// playing is false once the outro after the last judgement has run, or the
// music has ended with notes still left.
func (p *Program) playing(duration, songEnd time.Duration) bool {
	if p.finished {
		return duration-p.finishedAt < outro
	}
	return duration < songEnd+outro
}

func (p *Program) layout() {
	rows, cols := p.Renderer.Size()
	n := p.chart.Difficulty.NKeys
	spacing := int(*config.ColumnSpacing)
	first := cols/2 - spacing*(n-1)
	p.columns = make([]int, n)
	for i := range p.columns {
		p.columns[i] = first + 2*spacing*i
	}
	p.bar = rows - int(*config.BarRow)
	p.sideCol = first - 36
	if p.sideCol < 2 {
		p.sideCol = 2
	}
}

// Update judges one frame. Misses and finished holds are settled before any
// key events so a late press never lands on a note that already passed.
func (p *Program) Update(duration time.Duration) {
	now := config.Clock(duration)
	if duration >= 0 {
		p.field.Tick(now)
	}

	events := p.input.Events()
	for i := len(events); i > 0; i-- {
		ev, ok := <-events
		if !ok {
			p.quit = true
			return
		}
		if ev.Escape {
			p.quit = true
			return
		}
		p.pressed[ev.Column] = ev.Pressed
		if duration < 0 {
			continue
		}
		j, ok := p.field.Key(ev.Column, now, ev.Pressed)
		if !ok {
			continue
		}
		p.decorate(ev.Column, j)
	}
}

func (p *Program) decorate(column int, j game.Judgement) {
	col := p.columns[column]
	switch j.Kind {
	case game.KindHit:
		w := notefield.Windows[notefield.WindowIndex(j)]
		p.Renderer.AddDecoration(col-1, p.bar+1, strings.ToUpper(w.Name[:1]), 60)
		// error bar, one column per 10ms
		p.Renderer.AddDecoration(p.columns[len(p.columns)/2]-int(j.Offset/10), p.bar+3, "|", 240)
	case game.KindMiss:
		p.Renderer.AddDecoration(col-1, p.bar+1, "\033[1;31mX\033[0m", 120)
	case game.KindMine:
		if j.OK {
			p.Renderer.AddDecoration(col-1, p.bar+1, "\033[1;31m*\033[0m", 120)
		}
	}
}

func top(row int) int {
	if row < 1 {
		return 1
	}
	return row
}

func (p *Program) Render(duration time.Duration) {
	now := config.Clock(duration)
	for _, c := range p.drawn {
		p.Renderer.Fill(c.row, c.col, " ")
	}
	p.drawn = p.drawn[:0]
	fill := func(row, col int, s string) {
		if row < 1 || row > p.bar {
			return
		}
		p.Renderer.Fill(row, col, s)
		p.drawn = append(p.drawn, cell{row, col})
	}

	for i, column := range p.field.Columns() {
		col := p.columns[i]
		p.Renderer.Fill(p.bar, col, p.Theme.RenderHitField(i, p.pressed[i]))

		notes := column.Notes().Notes
		if end, ok := column.ActiveHold(); ok {
			for r := top(render.Row(now, end, p.bar, config.ScrollSpeed)); r < p.bar; r++ {
				fill(r, col, p.Theme.RenderHold(i, 1))
			}
		}
		for n := column.Next(); n < len(notes); n++ {
			e := notes[n]
			row := render.Row(now, e.Time, p.bar, config.ScrollSpeed)
			if row < 1 {
				break
			}
			switch e.Type {
			case game.Mine:
				fill(row, col, p.Theme.RenderMine(i))
			case game.HoldEnd:
			case game.Hold, game.Roll:
				if tail, ok := column.Notes().Get(n + 1); ok {
					for r := top(render.Row(now, tail.Time, p.bar, config.ScrollSpeed)); r < row; r++ {
						fill(r, col, p.Theme.RenderHold(i, e.Info.Denom))
					}
				}
				fill(row, col, p.Theme.RenderNote(i, e.Info.Denom))
			default:
				fill(row, col, p.Theme.RenderNote(i, e.Info.Denom))
			}
		}
	}

	stats := p.field.Stats()
	p.Renderer.Fill(10, p.sideCol, fmt.Sprintf("      Score:  %6.2f%%", p.field.Score()))
	p.Renderer.Fill(11, p.sideCol, fmt.Sprintf("      Stdev:  %6.2f", stats.Stdev))
	p.Renderer.Fill(12, p.sideCol, fmt.Sprintf("       Mean:  %6.2f", stats.Mean))
	p.Renderer.Fill(13, p.sideCol, fmt.Sprintf("      Holds:  %3v/%-3v", stats.HoldsOK, stats.HoldsOK+stats.HoldsNG))
	p.Renderer.Fill(14, p.sideCol, fmt.Sprintf("  Mines hit:  %6v", stats.MinesHit))
	for i, w := range notefield.Windows {
		p.Renderer.Fill(18+i, p.sideCol, fmt.Sprintf("%11v:  %6v", w.Name, stats.Counts[i]))
	}
}
