// Package puzzle describes word search puzzles as handed over by a puzzle
// source: a letter board plus the words hidden in it.
//
// The selection engine trusts its input, so the checks it skips live here:
// Validate rejects boards the engine must never see, and Unfindable reports
// words that can never be solved (tolerated, but worth a warning).
package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/words"
)

var (
	ErrEmptyBoard  = errors.New("puzzle: board is empty")
	ErrRaggedBoard = errors.New("puzzle: board rows differ in length")
	ErrBadCell     = errors.New("puzzle: cell must hold exactly one letter")
	ErrNoWords     = errors.New("puzzle: word list is empty")
	ErrBadWord     = errors.New("puzzle: word must be letters only")
	ErrNoID        = errors.New("puzzle: id is required")

	// ErrNotFound is returned by puzzle sources for unknown IDs.
	ErrNotFound = errors.New("puzzle not found")
)

// Puzzle is one board and its word list.
type Puzzle struct {
	ID    string     `json:"id"`
	Theme string     `json:"theme,omitempty"`
	Board [][]string `json:"board"`
	Words []string   `json:"words"`
}

// Dimensions mirrors the generator's {"width", "height"} object.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Dimensions returns the board size.
func (p Puzzle) Dimensions() Dimensions {
	d := Dimensions{Height: len(p.Board)}
	if len(p.Board) > 0 {
		d.Width = len(p.Board[0])
	}
	return d
}

// Grid returns the board as an engine grid.
func (p Puzzle) Grid() game.Grid { return game.Grid(p.Board) }

// Validate checks the board shape and the word list.
func (p Puzzle) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrNoID
	}
	if len(p.Board) == 0 || len(p.Board[0]) == 0 {
		return ErrEmptyBoard
	}
	width := len(p.Board[0])
	for r, row := range p.Board {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedBoard, r, len(row), width)
		}
		for c, cell := range row {
			if utf8.RuneCountInString(cell) != 1 {
				return fmt.Errorf("%w: (%d,%d) = %q", ErrBadCell, r, c, cell)
			}
		}
	}
	list := words.Normalize(p.Words)
	if len(list) == 0 {
		return ErrNoWords
	}
	for _, w := range list {
		if !words.IsAlpha(w) {
			return fmt.Errorf("%w: %q", ErrBadWord, w)
		}
	}
	return nil
}

// directions are the eight straight lines a word may run along.
var directions = [8][2]int{
	{0, 1}, {1, 0}, {1, 1}, {-1, 1},
	{0, -1}, {-1, 0}, {-1, -1}, {1, -1},
}

// Find returns the cells spelling word along a straight line, or nil if the
// word is not on the board. Letters compare in lowercase, so ẞ on the board
// matches ß in the word.
func (p Puzzle) Find(word string) []game.Cell {
	letters := []rune(strings.ToLower(strings.TrimSpace(word)))
	if len(letters) == 0 {
		return nil
	}
	for r, row := range p.Board {
		for c := range row {
			for _, d := range directions {
				if cells := p.match(letters, r, c, d); cells != nil {
					return cells
				}
			}
		}
	}
	return nil
}

func (p Puzzle) match(letters []rune, r, c int, d [2]int) []game.Cell {
	cells := make([]game.Cell, 0, len(letters))
	for _, want := range letters {
		if r < 0 || r >= len(p.Board) || c < 0 || c >= len(p.Board[r]) {
			return nil
		}
		if string(want) != strings.ToLower(p.Board[r][c]) {
			return nil
		}
		cells = append(cells, game.Cell{Row: r, Col: c})
		r, c = r+d[0], c+d[1]
	}
	return cells
}

// Unfindable lists words that do not appear on the board.
func (p Puzzle) Unfindable() []string {
	var out []string
	for _, w := range words.Normalize(p.Words) {
		if p.Find(w) == nil {
			out = append(out, w)
		}
	}
	return out
}

// Decode reads a JSON array of puzzles and validates each one.
func Decode(r io.Reader) ([]Puzzle, error) {
	var list []Puzzle
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode puzzles: %w", err)
	}
	for _, p := range list {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("puzzle %q: %w", p.ID, err)
		}
	}
	return list, nil
}
