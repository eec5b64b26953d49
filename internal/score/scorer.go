package score

import (
	"time"

	"git.lost.host/meutraa/notefield/internal/game"
)

type Scorer interface {
	Init(path string) error
	Deinit()

	// Save the judgements of this performance
	Save(sum string, history *History) error

	// Load up previous performances of the chart
	Load(sum string) ([]History, error)

	// Cached difficulty ratings, keyed by chart hash
	Rating(sum string) (float64, bool)
	SetRating(sum string, rating float64) error
}

type History struct {
	Sum        string
	Rate       float64
	Judge      float64
	Percent    float64
	Played     time.Time
	Judgements [][]game.Judgement
}
