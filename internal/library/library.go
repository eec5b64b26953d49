// Package library scans a folder tree of simfiles and rates every chart.
package library

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"sync"

	"git.lost.host/meutraa/notefield/internal/difficulty"
	"git.lost.host/meutraa/notefield/internal/game"
	"git.lost.host/meutraa/notefield/internal/parser"
	"git.lost.host/meutraa/notefield/internal/score"
	"git.lost.host/meutraa/notefield/internal/timing"
	"github.com/pkg/errors"
)

// Cache remembers ratings between scans.
type Cache interface {
	Rating(sum string) (float64, bool)
	SetRating(sum string, rating float64) error
}

type Options struct {
	Workers     int
	Proficiency float64
	Cache       Cache
	Parser      parser.Parser
}

type Rated struct {
	Chart  *game.Chart
	Sum    string
	Rating float64
}

type Entry struct {
	Path   string
	Song   *game.Song
	Charts []*Rated
}

// Easiest is the lowest rating of the entry's charts.
func (e *Entry) Easiest() float64 {
	if len(e.Charts) == 0 {
		return 0
	}
	return e.Charts[0].Rating
}

type result struct {
	entry *Entry
	err   error
	path  string
}

// Load parses, converts and rates every simfile below root. Files that
// fail are logged and left out. Entries come back sorted.
func Load(ctx context.Context, root string, opts Options) ([]*Entry, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Proficiency <= 0 {
		opts.Proficiency = difficulty.DefaultProficiency
	}
	tokens := make(chan struct{}, opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		tokens <- struct{}{}
	}
	results := make(chan result, 2)

	var entries []*Entry
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range results {
			if nil != r.err {
				log.Println("skipping", r.path, r.err)
				continue
			}
			entries = append(entries, r.entry)
		}
	}()

	var wg sync.WaitGroup
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if nil != err {
			log.Println("unable to read", p, err)
			return nil
		}
		if err := ctx.Err(); nil != err {
			return err
		}
		if d.IsDir() || nil == parser.ForFile(p) {
			return nil
		}
		select {
		case <-tokens:
		case <-ctx.Done():
			return ctx.Err()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { tokens <- struct{}{} }()
			entry, err := loadFile(p, opts)
			results <- result{entry: entry, err: err, path: p}
		}()
		return nil
	})
	wg.Wait()
	close(results)
	<-done

	if nil != walkErr {
		return nil, errors.Wrapf(walkErr, "unable to scan %v", root)
	}
	Sort(entries)
	return entries, nil
}

func loadFile(path string, opts Options) (*Entry, error) {
	pr := opts.Parser
	if nil == pr {
		pr = parser.ForFile(path)
	}
	song, err := pr.ParseFile(path)
	if nil != err {
		return nil, err
	}
	timelines, errs := timing.ConvertSong(song, 1.0, timing.NoPayload)
	entry := &Entry{Path: path, Song: song}
	for i, chart := range song.Charts {
		if nil != errs[i] {
			log.Println("skipping", path, errs[i])
			continue
		}
		sum := score.Hash(song, chart)
		key := fmt.Sprintf("%s@%.3f", sum, opts.Proficiency)
		rating, ok := 0.0, false
		if nil != opts.Cache {
			rating, ok = opts.Cache.Rating(key)
		}
		if !ok {
			rating = difficulty.RateChart(timelines[i], opts.Proficiency)
			if nil != opts.Cache {
				if err := opts.Cache.SetRating(key, rating); nil != err {
					log.Println(err)
				}
			}
		}
		entry.Charts = append(entry.Charts, &Rated{Chart: chart, Sum: sum, Rating: rating})
	}
	if len(entry.Charts) == 0 {
		return nil, errors.New("no playable charts")
	}
	sort.SliceStable(entry.Charts, func(a, b int) bool {
		return entry.Charts[a].Rating < entry.Charts[b].Rating
	})
	return entry, nil
}

// Sort orders entries by their easiest chart, then by path.
func Sort(entries []*Entry) {
	sort.Slice(entries, func(a, b int) bool {
		ea, eb := entries[a].Easiest(), entries[b].Easiest()
		if ea != eb {
			return ea < eb
		}
		return entries[a].Path < entries[b].Path
	})
}
