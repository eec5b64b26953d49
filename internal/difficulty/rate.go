// Package difficulty estimates how hard a chart is to play well, from its
// timeline alone.
package difficulty

import (
	"math"
	"sort"

	"git.lost.host/meutraa/notefield/internal/game"
	"git.lost.host/meutraa/notefield/internal/timing"
)

const (
	// DefaultProficiency is the mean wife per note a player at the rating is
	// expected to score.
	DefaultProficiency = 0.93

	// Scale brings the search result in line with established ratings.
	Scale = 3.15

	// JackCutoff is the largest error, in ms, that does not break combo.
	JackCutoff = 90

	jackDecay = 0.98
	precision = 0.001
	maxRating = 100.0
)

func counted(t game.NoteType) bool {
	return t == game.Tap || t == game.Hold
}

// Stress gives every tap and hold head a value that grows quadratically with
// how closely earlier notes in its column precede it. Sorted descending.
func Stress[P any](tl timing.Timeline[P]) []float64 {
	var out []float64
	for _, column := range tl {
		for i, base := range column.Notes {
			if !counted(base.Type) {
				continue
			}
			s := 0.0
			for _, other := range column.Notes[:i] {
				if !counted(other.Type) {
					continue
				}
				dt := float64(base.Time - other.Time)
				if dt == 0 {
					continue
				}
				s += 1000000 / (dt * dt)
			}
			out = append(out, s)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}

// meanWife is the average wife if every note were hit with an error
// proportional to its stress at the given difficulty.
func meanWife(stress []float64, difficulty float64) float64 {
	total := 0.0
	for _, s := range stress {
		offset := math.Trunc(40 * s / (difficulty * difficulty))
		total += game.Wife(offset, 1.0)
	}
	return total / float64(len(stress))
}

// RateChart searches for the difficulty at which a player would score
// proficiency, then corrects it for jacks.
func RateChart[P any](tl timing.Timeline[P], proficiency float64) float64 {
	stress := Stress(tl)
	if len(stress) == 0 {
		return 0
	}
	return search(stress, proficiency) * Scale * JackScaler(tl)
}

// search returns the highest difficulty, to within precision, at which the
// mean wife does not exceed proficiency.
func search(stress []float64, proficiency float64) float64 {
	lower, upper := 0.0, maxRating
	for upper-lower > precision {
		mid := (lower + upper) / 2
		if meanWife(stress, mid) > proficiency {
			upper = mid
		} else {
			lower = mid
		}
	}
	return lower
}

// JackScaler is the average of 0.98^k over every entry, k being how many
// following entries in the same column could be hit as one evenly spaced jack.
// Mines and hold ends take part like any other entry.
func JackScaler[P any](tl timing.Timeline[P]) float64 {
	out := 0.0
	total := 0
	for _, column := range tl {
		times := make([]int64, len(column.Notes))
		for i, n := range column.Notes {
			times[i] = n.Time
		}
		total += len(times)
		for s := range times {
			out += math.Pow(jackDecay, float64(jackRun(times[s:])))
		}
	}
	if total == 0 {
		return 1
	}
	return out / float64(total)
}

// jackRun counts how many notes after times[0] can be reached while every
// intermediate note stays within the cutoff of an even spacing.
func jackRun(times []int64) int {
	start := times[0]
	run := 0
	for e := 1; e < len(times); e++ {
		span := float64(times[e] - start)
		for i := 1; i < e; i++ {
			expected := float64(start) + float64(i)*span/float64(e)
			if math.Abs(expected-float64(times[i])) > JackCutoff {
				return run
			}
		}
		run++
	}
	return run
}
