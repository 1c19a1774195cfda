// Package assets embeds the built-in puzzle catalogue and the SQL migrations.
package assets

import (
	"bytes"
	"embed"
	"io/fs"
	"sort"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

//go:embed puzzles/*.json migrations/*.sql
var FS embed.FS

// Migration is one embedded SQL file.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded migrations in lexical order.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(FS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		b, err := FS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: name, SQL: string(b)})
	}
	return out, nil
}

// DefaultPuzzles decodes every embedded puzzles/*.json file.
func DefaultPuzzles() ([]puzzle.Puzzle, error) {
	names, err := fs.Glob(FS, "puzzles/*.json")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var out []puzzle.Puzzle
	for _, name := range names {
		b, err := FS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		list, err := puzzle.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	return out, nil
}
