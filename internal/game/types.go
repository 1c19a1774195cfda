// internal/game/types.go
//
// Core type definitions for the word search selection engine.
// Defines:
//   - Cell:     a (row, col) coordinate on the grid.
//   - Grid:     rows × cols of single letters.
//   - State:    where the engine is in a pointer gesture.
//   - Snapshot: a render-ready copy of the engine state.

package game

import (
	"encoding/json"
	"fmt"
)

// Cell is a 0-indexed grid coordinate.
// On the wire it is the two-element array [row, col].
type Cell struct {
	Row int
	Col int
}

// MarshalJSON encodes the cell as [row, col].
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Row, c.Col})
}

// UnmarshalJSON decodes a [row, col] pair.
func (c *Cell) UnmarshalJSON(b []byte) error {
	var pair []int
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("cell: want [row, col], got %d values", len(pair))
	}
	c.Row, c.Col = pair[0], pair[1]
	return nil
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Grid is the letter board, indexed grid[row][col].
// Every row has the same length; each entry holds exactly one character.
type Grid [][]string

// State is the engine's position in the gesture state machine.
//
//	Idle     → Dragging  on Begin
//	Dragging → Aborted   on an off-line Extend
//	any      → Idle      on End
type State string

const (
	StateIdle     State = "idle"
	StateDragging State = "dragging"
	StateAborted  State = "aborted" // pointer still down, gesture discarded
)

// Snapshot is a copy of everything a presentation layer needs to draw the board.
type Snapshot struct {
	State     State             `json:"state"`
	Selection []Cell            `json:"selection"`
	Letters   string            `json:"letters"`
	Solved    map[string][]Cell `json:"solved"`
	Remaining []string          `json:"remaining"`
	Complete  bool              `json:"complete"`
}
