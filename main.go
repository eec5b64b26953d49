package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"git.lost.host/meutraa/notefield/internal/config"
	"git.lost.host/meutraa/notefield/internal/library"
	"git.lost.host/meutraa/notefield/internal/notefield"
	"git.lost.host/meutraa/notefield/internal/parser"
	"git.lost.host/meutraa/notefield/internal/score"
	"github.com/pkg/errors"
)

func main() {
	command, err := config.Parse(os.Args[1:])
	if nil != err {
		log.Fatalln(err)
	}
	switch command {
	case config.CommandScan:
		err = scan()
	case config.CommandScores:
		err = scores()
	default:
		err = play()
	}
	if nil != err {
		log.Fatalln(err)
	}
}

func openScorer() (*score.DefaultScorer, error) {
	s := &score.DefaultScorer{}
	if err := s.Init(*config.Database); nil != err {
		return nil, errors.Wrapf(err, "unable to open %v", *config.Database)
	}
	return s, nil
}

func scan() error {
	scorer, err := openScorer()
	if nil != err {
		return err
	}
	defer scorer.Deinit()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	entries, err := library.Load(ctx, *config.ScanDirectory, library.Options{
		Workers:     *config.Workers,
		Proficiency: *config.Proficiency,
		Cache:       scorer,
	})
	if nil != err {
		return err
	}
	for _, e := range entries {
		dir, _ := filepath.Rel(*config.ScanDirectory, filepath.Dir(e.Path))
		fmt.Printf("%v - %v (%v)\n", e.Song.Artist, e.Song.Title, dir)
		for _, c := range e.Charts {
			fmt.Printf("    %6.2f  %-10v %v\n", c.Rating, c.Chart.Difficulty.Name, c.Chart.Difficulty.Type)
		}
	}
	return nil
}

func scores() error {
	scorer, err := openScorer()
	if nil != err {
		return err
	}
	defer scorer.Deinit()

	pr := parser.ForFile(*config.ScoresChart)
	if nil == pr {
		return errors.Errorf("%v is not a .sm or .dwi file", *config.ScoresChart)
	}
	song, err := pr.ParseFile(*config.ScoresChart)
	if nil != err {
		return err
	}
	for _, chart := range song.Charts {
		histories, err := scorer.Load(score.Hash(song, chart))
		if nil != err {
			return err
		}
		fmt.Printf("%v %v\n", chart.Difficulty.Name, chart.Difficulty.Type)
		for _, h := range histories {
			stats := notefield.Summarize(h.Judgements)
			fmt.Printf("    %v  %6.2f%%  x%.2f  j%.2f  mean %6.2f  stdev %6.2f  miss %v\n",
				h.Played.Format("2006-01-02 15:04"), score.Score(&h), h.Rate, h.Judge,
				stats.Mean, stats.Stdev, stats.Counts[len(stats.Counts)-1])
		}
	}
	return nil
}

func play() error {
	p := &Program{}
	if err := p.Init(); nil != err {
		return err
	}
	defer p.Deinit()
	return p.Run()
}
