package score

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/notefield/internal/game"
	"git.lost.host/meutraa/notefield/internal/notefield"
	"git.lost.host/meutraa/notefield/internal/parser"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

type DefaultScorer struct {
	db *sql.DB
}

type JudgementsCompact struct {
	Index      int
	Judgements []game.Judgement
}

// Empty columns are left out.
func compactJudgements(history [][]game.Judgement) []JudgementsCompact {
	out := []JudgementsCompact{}
	for i, column := range history {
		if len(column) == 0 {
			continue
		}
		out = append(out, JudgementsCompact{Index: i, Judgements: column})
	}
	return out
}

func uncompactJudgements(compact []JudgementsCompact) [][]game.Judgement {
	colCount := 0
	for _, c := range compact {
		if c.Index+1 > colCount {
			colCount = c.Index + 1
		}
	}
	out := make([][]game.Judgement, colCount)
	for i := range out {
		out[i] = []game.Judgement{}
	}
	for _, c := range compact {
		out[c.Index] = append(out[c.Index], c.Judgements...)
	}
	return out
}

func (s *DefaultScorer) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists scores
	  (
		  id integer not null primary key,
		  sum text,
		  rate real,
		  judge real,
		  percent real,
		  played integer,
		  judgements bytearray
	  );
	create table if not exists ratings
	  (
		  sum text not null primary key,
		  rating real
	  );
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return errors.Wrap(err, "unable to create tables")
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

// Hash identifies a chart by its notes and timing.
func Hash(song *game.Song, chart *game.Chart) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n%v\n", chart.Difficulty.Type, song.Offset)
	for _, b := range song.BPMs {
		fmt.Fprintf(&buf, "%d+%s=%v\n", b.Measure, b.Fraction.RatString(), b.Value)
	}
	if err := parser.WriteNotes(&buf, chart); nil != err {
		log.Println("unable to write notes for hashing", err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *DefaultScorer) Save(sum string, history *History) error {
	data, err := json.Marshal(compactJudgements(history.Judgements))
	if nil != err {
		return errors.Wrap(err, "unable to marshal judgements")
	}
	_, err = s.db.Exec(
		"insert into scores(sum, rate, judge, percent, played, judgements) values(?, ?, ?, ?, ?, ?)",
		sum, history.Rate, history.Judge, history.Percent, history.Played.Unix(), data,
	)
	return errors.Wrap(err, "unable to save score")
}

func (s *DefaultScorer) Load(sum string) ([]History, error) {
	histories := []History{}
	rows, err := s.db.Query("select rate, judge, percent, played, judgements from scores where sum = ? order by id", sum)
	if nil != err {
		return histories, errors.Wrap(err, "unable to load scores")
	}
	defer rows.Close()
	for rows.Next() {
		var data []byte
		var played int64
		h := History{Sum: sum}
		if err := rows.Scan(&h.Rate, &h.Judge, &h.Percent, &played, &data); nil != err {
			log.Println("unable to scan score", err)
			continue
		}
		var compact []JudgementsCompact
		if err := json.Unmarshal(data, &compact); nil != err {
			log.Println("unable to unmarshal judgement history", err)
			continue
		}
		h.Played = time.Unix(played, 0)
		h.Judgements = uncompactJudgements(compact)
		histories = append(histories, h)
	}
	return histories, rows.Err()
}

func (s *DefaultScorer) Rating(sum string) (float64, bool) {
	var rating float64
	err := s.db.QueryRow("select rating from ratings where sum = ?", sum).Scan(&rating)
	if nil != err {
		if err != sql.ErrNoRows {
			log.Println("unable to load rating", err)
		}
		return 0, false
	}
	return rating, true
}

func (s *DefaultScorer) SetRating(sum string, rating float64) error {
	_, err := s.db.Exec("insert or replace into ratings(sum, rating) values(?, ?)", sum, rating)
	return errors.Wrap(err, "unable to save rating")
}

// Score recomputes the percentage from the stored judgements.
func Score(history *History) float64 {
	return notefield.Score(history.Judgements, history.Judge)
}
