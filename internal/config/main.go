package config

import (
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	CommandScan   = "scan"
	CommandPlay   = "play"
	CommandScores = "scores"
)

var (
	app = kingpin.New("notefield", "Keyboard rhythm game for .sm charts").Version("0.3.0")

	Database    = app.Flag("database", "Score and rating database").Default("notefield.db").String()
	Workers     = app.Flag("workers", "Charts rated concurrently while scanning").Default("4").Short('w').Int()
	Proficiency = app.Flag("proficiency", "Fraction of maximum points a rating assumes").Default("0.93").Float64()

	scan          = app.Command(CommandScan, "Rate every chart below a directory")
	ScanDirectory = scan.Arg("directory", "Song library directory").Required().ExistingDir()

	play          = app.Command(CommandPlay, "Play a chart").Default()
	Directory     = play.Arg("directory", "Song/chart directory").Required().ExistingDir()
	Chart         = play.Flag("chart", "Chart index, easiest first").Default("-1").Short('c').Int()
	Rate          = play.Flag("rate", "Playback rate").Default("1.0").Short('r').Float64()
	JudgeScale    = play.Flag("judge", "Timing scale, lower is stricter").Default("1.0").Short('j').Float64()
	Offset        = play.Flag("offset", "Global offset").Default("0ms").Short('o').Duration()
	Delay         = play.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration()
	ColumnSpacing = play.Flag("spacing", "Columns between keys").Default("6").Short('S').Uint()
	RefreshRate   = play.Flag("refresh-rate", "Monitor refresh rate").Default("240.0").Short('R').Float()
	FramePeriod   = play.Flag("frame-period", "Render frame period").Default("1ms").Short('p').Duration()
	scrollSpeed   = play.Flag("scroll-speed", "Scroll speed, lower is faster").Default("3").Short('s').Uint()
	keys4         = play.Flag("keys-single", "Keys for 4k").Default("_-mp").Short('k').String()
	keys6         = play.Flag("keys-solo", "Keys for 6k").Default("ieotsc").String()
	keys8         = play.Flag("keys-double", "Keys for 8k").Default("ieonhtsc").String()
	BarRow        = play.Flag("bar-row", "Console row to render hit bar").Default("8").Uint()
	Device        = play.Flag("device", "evdev keyboard, enables key releases").Short('D').String()

	scores      = app.Command(CommandScores, "List previous scores of a chart")
	ScoresChart = scores.Arg("chart", "Simfile").Required().ExistingFile()

	// Milliseconds of song time per terminal row
	ScrollSpeed float64
)

// Parse reads the command line and returns the selected command.
func Parse(args []string) (string, error) {
	command, err := app.Parse(args)
	if nil != err {
		return "", err
	}
	ScrollSpeed = float64(*scrollSpeed) * 1000 / *RefreshRate
	return command, nil
}

func Keys(nKeys int) []rune {
	switch nKeys {
	case 6:
		return []rune(*keys6)
	case 8:
		return []rune(*keys8)
	}
	return []rune(*keys4)
}

func KeyColumn(r rune, nKeys int) int {
	for i, c := range Keys(nKeys) {
		if r == c {
			return i
		}
	}
	return -1
}

// Clock converts a frame's song duration into chart milliseconds.
func Clock(d time.Duration) int64 {
	return (d + *Offset).Milliseconds()
}
