package parser

import (
	"io"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/notefield/internal/game"
)

type Parser interface {
	Parse(r io.Reader) (*game.Song, error)
	ParseFile(file string) (*game.Song, error)
}

// ForFile picks a parser by the file extension, nil for files that are not
// charts.
func ForFile(path string) Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sm":
		return &DefaultParser{}
	case ".dwi":
		return &DWIParser{}
	}
	return nil
}
