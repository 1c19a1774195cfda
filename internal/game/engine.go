// internal/game/engine.go
//
// Selection engine for a single word search puzzle.
// Responsibilities:
//   - Turn pointer gestures (down / enter / up) into a selection path.
//   - Keep every selection on one straight line through its anchor cell.
//   - Match finished selections against the word list and record solved words.
//   - Answer render queries (selected cell, solved cell, solved word).
//
// Notes:
//   - One Engine per puzzle. Nothing is shared between engines.
//   - An Engine is not safe for concurrent use; callers serialize access
//     (see store.Session.Do).
//   - Cells outside the grid are a caller error. They are ignored rather
//     than checked and reported.
package game

import (
	"strings"

	"github.com/robalobadob/wordsearch/internal/words"
)

// Engine holds the grid, the word list and the mutable gesture state.
type Engine struct {
	grid  Grid
	list  []string // normalized word list, original order
	words words.Set

	state   State
	path    []Cell
	letters strings.Builder

	solved map[string][]Cell // uppercase word → cells that produced it
	order  []string          // solved words in the order they were found
}

// New constructs an engine for grid and list. The grid is copied, so later
// changes by the caller do not leak into the engine.
func New(grid Grid, list []string) *Engine {
	g := make(Grid, len(grid))
	for i, row := range grid {
		g[i] = append([]string(nil), row...)
	}
	norm := words.Normalize(list)
	return &Engine{
		grid:   g,
		list:   norm,
		words:  words.NewSet(norm),
		state:  StateIdle,
		solved: make(map[string][]Cell),
	}
}

// Begin starts a gesture at c. Any gesture already in progress is dropped.
func (e *Engine) Begin(c Cell) {
	letter, ok := e.Letter(c)
	if !ok {
		return
	}
	e.reset()
	e.path = append(e.path, c)
	e.letters.WriteString(letter)
	e.state = StateDragging
}

// Extend appends c to the current path if c lies on a straight line
// (same row, same column, or 45° diagonal) through the anchor cell.
//
// The path is exactly the sequence of visited cells: skipped cells are not
// filled in and revisiting a cell appends it again. A cell off the line
// throws away the whole gesture, not just the last step; further Extend
// calls are ignored until the next Begin.
func (e *Engine) Extend(c Cell) {
	if e.state != StateDragging {
		return
	}
	letter, ok := e.Letter(c)
	if !ok {
		return
	}
	if !inLine(e.path[0], c) {
		e.reset()
		e.state = StateAborted
		return
	}
	e.path = append(e.path, c)
	e.letters.WriteString(letter)
}

// End finishes the gesture. If the selected letters spell a listed word that
// is not solved yet, the word is recorded with its path. The selection is
// cleared whatever the outcome.
func (e *Engine) End() {
	defer func() {
		e.reset()
		e.state = StateIdle
	}()

	if len(e.path) == 0 {
		return
	}
	word := e.letters.String()
	if !e.words.Has(word) {
		return
	}
	key := words.Key(word)
	if _, done := e.solved[key]; done {
		return
	}
	e.solved[key] = append([]Cell(nil), e.path...)
	e.order = append(e.order, key)
}

// IsCellSelected reports whether c is part of the in-progress selection.
func (e *Engine) IsCellSelected(c Cell) bool {
	return containsCell(e.path, c)
}

// IsCellSolved reports whether c belongs to any solved word.
// A linear scan; boards stay small (about 14×14, 8 words).
func (e *Engine) IsCellSolved(c Cell) bool {
	for _, cells := range e.solved {
		if containsCell(cells, c) {
			return true
		}
	}
	return false
}

// IsWordSolved reports whether w has been solved, ignoring case.
func (e *Engine) IsWordSolved(w string) bool {
	_, ok := e.solved[words.Key(w)]
	return ok
}

// State returns the gesture state.
func (e *Engine) State() State { return e.state }

// Selection returns a copy of the in-progress path.
func (e *Engine) Selection() []Cell { return append([]Cell{}, e.path...) }

// Letters returns the letters read along the in-progress path.
func (e *Engine) Letters() string { return e.letters.String() }

// Solved returns a copy of the solved words and their paths.
func (e *Engine) Solved() map[string][]Cell {
	out := make(map[string][]Cell, len(e.solved))
	for w, cells := range e.solved {
		out[w] = append([]Cell(nil), cells...)
	}
	return out
}

// SolvedWords returns solved words in the order they were found.
func (e *Engine) SolvedWords() []string { return append([]string{}, e.order...) }

// Remaining returns the unsolved words, uppercased, in word list order.
func (e *Engine) Remaining() []string {
	out := []string{}
	for _, w := range e.list {
		if !e.IsWordSolved(w) {
			out = append(out, words.Key(w))
		}
	}
	return out
}

// Complete reports whether every listed word is solved. The engine keeps
// accepting gestures afterwards.
func (e *Engine) Complete() bool { return len(e.solved) == len(e.list) }

// Words returns the normalized word list.
func (e *Engine) Words() []string { return append([]string{}, e.list...) }

// Rows returns the grid height.
func (e *Engine) Rows() int { return len(e.grid) }

// Cols returns the grid width.
func (e *Engine) Cols() int {
	if len(e.grid) == 0 {
		return 0
	}
	return len(e.grid[0])
}

// Letter returns the letter at c, or false if c is off the grid.
func (e *Engine) Letter(c Cell) (string, bool) {
	if c.Row < 0 || c.Row >= len(e.grid) || c.Col < 0 || c.Col >= len(e.grid[c.Row]) {
		return "", false
	}
	return e.grid[c.Row][c.Col], true
}

// Snapshot copies the render state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:     e.state,
		Selection: e.Selection(),
		Letters:   e.Letters(),
		Solved:    e.Solved(),
		Remaining: e.Remaining(),
		Complete:  e.Complete(),
	}
}

// reset clears the selection path and letters.
func (e *Engine) reset() {
	e.path = e.path[:0]
	e.letters.Reset()
}

// inLine is the straight-line test relative to the anchor.
func inLine(anchor, c Cell) bool {
	dr := abs(c.Row - anchor.Row)
	dc := abs(c.Col - anchor.Col)
	return dr == 0 || dc == 0 || dr == dc
}

func containsCell(cells []Cell, c Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
