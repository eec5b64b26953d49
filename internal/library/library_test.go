package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/notefield/internal/testdata"
)

func write(t *testing.T, dir, name, contents string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); nil != err {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(contents), 0o644); nil != err {
		t.Fatal(err)
	}
}

type memoryCache struct {
	ratings map[string]float64
	hits    int
}

func (c *memoryCache) Rating(sum string) (float64, bool) {
	r, ok := c.ratings[sum]
	if ok {
		c.hits++
	}
	return r, ok
}

func (c *memoryCache) SetRating(sum string, rating float64) error {
	c.ratings[sum] = rating
	return nil
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a/song.sm", testdata.Simfile)
	write(t, dir, "b/broken.sm", testdata.Unterminated)
	write(t, dir, "c/bad.SM", testdata.BadRow)
	write(t, dir, "d/notes.txt", "not a chart")
	write(t, dir, "e/deeper/copy.sm", testdata.Simfile)

	entries, err := Load(context.Background(), dir, Options{Workers: 3})
	if nil != err {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		for _, e := range entries {
			t.Log(e.Path)
		}
		t.Fatal("entries", len(entries))
	}
	for _, e := range entries {
		if len(e.Charts) != 2 || e.Song.Title != "Test Song" {
			t.Log(e.Path, len(e.Charts))
			t.Fail()
		}
		if e.Charts[0].Rating > e.Charts[1].Rating || e.Charts[1].Rating <= 0 {
			t.Log(e.Charts[0].Rating, e.Charts[1].Rating)
			t.Fail()
		}
	}
	if entries[0].Path > entries[1].Path {
		t.Log("equal ratings sort by path")
		t.Fail()
	}
}

func TestLoadKeepsPlayableCharts(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "mixed.sm", testdata.Mixed)
	entries, err := Load(context.Background(), dir, Options{Workers: 2})
	if nil != err {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatal("entries", len(entries))
	}
	if len(entries[0].Charts) != 1 || entries[0].Charts[0].Chart.Difficulty.Name != "Easy" {
		for _, c := range entries[0].Charts {
			t.Log(c.Chart.Difficulty.Name)
		}
		t.Fail()
	}
}

func TestLoadDWI(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "dwi/song.dwi", "#TITLE:Eighths;#BPM:120;#SINGLE:BASIC:2:48264826;")
	write(t, dir, "dwi/notes.txt", "#SINGLE:BASIC:2:4826;")
	entries, err := Load(context.Background(), dir, Options{Workers: 1})
	if nil != err {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Song.Title != "Eighths" || len(entries[0].Charts) != 1 {
		t.Fatal(entries)
	}
	if entries[0].Charts[0].Rating <= 0 {
		t.Log("rating", entries[0].Charts[0].Rating)
		t.Fail()
	}
}

func TestLoadCache(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "song.sm", testdata.Simfile)
	cache := &memoryCache{ratings: map[string]float64{}}

	first, err := Load(context.Background(), dir, Options{Workers: 1, Cache: cache})
	if nil != err {
		t.Fatal(err)
	}
	if len(cache.ratings) != 2 || cache.hits != 0 {
		t.Log(cache.ratings, cache.hits)
		t.Fail()
	}
	second, err := Load(context.Background(), dir, Options{Workers: 1, Cache: cache})
	if nil != err {
		t.Fatal(err)
	}
	if cache.hits != 2 || second[0].Charts[1].Rating != first[0].Charts[1].Rating {
		t.Log(cache.hits)
		t.Fail()
	}
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "song.sm", testdata.Simfile)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, dir, Options{}); nil == err {
		t.Fail()
	}
}

func TestSort(t *testing.T) {
	entries := []*Entry{
		{Path: "c", Charts: []*Rated{{Rating: 9}}},
		{Path: "b"},
		{Path: "a", Charts: []*Rated{{Rating: 3}}},
	}
	Sort(entries)
	if entries[0].Path != "b" || entries[1].Path != "a" || entries[2].Path != "c" {
		t.Log(entries[0].Path, entries[1].Path, entries[2].Path)
		t.Fail()
	}
}
